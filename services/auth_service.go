package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Dosada05/sport-events/models"
	"github.com/Dosada05/sport-events/repositories"
)

const (
	sessionTokenLength = 16        // Длина токена в байтах (32 символа в hex)
	bearerPrefix       = "Bearer " // Ожидаемая схема заголовка Authorization
)

const defaultAvatarURL = "https://example.com/avatars/random.jpg"

// PasswordHasher — внешняя способность проверки учётных данных:
// хеширование пароля при регистрации и сверка при входе.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*models.User, error)
	Login(ctx context.Context, input LoginInput) (string, error)

	// CurrentUser резолвит заголовок Authorization в пользователя.
	// Возвращает ErrInvalidToken при отсутствии схемы "Bearer " и
	// ErrSessionExpired, если токен не числится среди активных сессий.
	CurrentUser(ctx context.Context, authHeader string) (*models.User, error)
	Logout(ctx context.Context, authHeader string) error
}

type RegisterInput struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Phone    *string `json:"phone,omitempty"`
	Password string  `json:"password"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authService struct {
	userRepo         repositories.UserRepository
	roleRepo         repositories.RoleRepository
	notificationRepo repositories.NotificationRepository
	sessions         SessionStore
	hasher           PasswordHasher
}

func NewAuthService(
	userRepo repositories.UserRepository,
	roleRepo repositories.RoleRepository,
	notificationRepo repositories.NotificationRepository,
	sessions SessionStore,
	hasher PasswordHasher,
) AuthService {
	return &authService{
		userRepo:         userRepo,
		roleRepo:         roleRepo,
		notificationRepo: notificationRepo,
		sessions:         sessions,
		hasher:           hasher,
	}
}

func (s *authService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	exists, err := s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email availability: %w", err)
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hashedPassword, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	avatarURL := defaultAvatarURL
	user := &models.User{
		Name:         input.Name,
		Email:        input.Email,
		Phone:        input.Phone,
		AvatarURL:    &avatarURL,
		PasswordHash: hashedPassword,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrUserEmailConflict) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	// Новому пользователю назначается роль PLAYER по умолчанию.
	playerRole, err := s.roleRepo.GetByName(ctx, models.RolePlayer)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve default role: %w", err)
	}
	if err := s.roleRepo.AssignToUser(ctx, nil, user.ID, playerRole.ID); err != nil {
		return nil, fmt.Errorf("failed to assign default role: %w", err)
	}
	user.Roles = []models.Role{*playerRole}

	sanitizeUser(user)
	return user, nil
}

func (s *authService) Login(ctx context.Context, input LoginInput) (string, error) {
	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("failed to find user by email: %w", err)
	}

	if !s.hasher.Compare(user.PasswordHash, input.Password) {
		return "", ErrInvalidCredentials
	}

	notification := &models.Notification{
		UserID:       user.ID,
		Topic:        "Успешная авторизация",
		Message:      "Здравствуйте!",
		CreationDate: time.Now(),
	}
	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		return "", fmt.Errorf("failed to record login notification: %w", err)
	}

	token, err := generateSessionToken(sessionTokenLength)
	if err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	s.sessions.Put(token, user.ID)

	return token, nil
}

func (s *authService) CurrentUser(ctx context.Context, authHeader string) (*models.User, error) {
	token, err := extractBearerToken(authHeader)
	if err != nil {
		return nil, err
	}

	userID, ok := s.sessions.Get(token)
	if !ok {
		return nil, ErrSessionExpired
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			// Пользователь удалён при живой сессии — сессия больше не валидна.
			s.sessions.Evict(token)
			return nil, ErrSessionExpired
		}
		return nil, fmt.Errorf("failed to load session user %d: %w", userID, err)
	}

	roles, err := s.roleRepo.ListByUserID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load roles for user %d: %w", user.ID, err)
	}
	user.Roles = roles

	sanitizeUser(user)
	return user, nil
}

func (s *authService) Logout(ctx context.Context, authHeader string) error {
	token, err := extractBearerToken(authHeader)
	if err != nil {
		return err
	}
	s.sessions.Evict(token)
	return nil
}

func extractBearerToken(authHeader string) (string, error) {
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return "", ErrInvalidToken
	}
	return strings.TrimPrefix(authHeader, bearerPrefix), nil
}

func generateSessionToken(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
