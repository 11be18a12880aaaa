package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/Dosada05/sport-events/models"
	"github.com/Dosada05/sport-events/repositories"
	"github.com/Dosada05/sport-events/storage"
)

type UserService interface {
	GetAllUsers(ctx context.Context) ([]models.User, error)
	GetUserByID(ctx context.Context, id int) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListPlayers(ctx context.Context) ([]models.User, error)
	CreateUser(ctx context.Context, input CreateUserInput) (*models.User, error)
	UpdateUser(ctx context.Context, id int, input UpdateUserInput) (*models.User, error)

	// DeleteUser снимает все владеющие связи пользователя (капитанство,
	// организаторство, роли, уведомления, членства и списки участия) и
	// удаляет запись — всё в одной транзакции.
	DeleteUser(ctx context.Context, id int) error

	AssignRole(ctx context.Context, userID, roleID int) (*models.User, error)
	RemoveRole(ctx context.Context, userID, roleID int) (*models.User, error)
	UploadAvatar(ctx context.Context, userID int, contentType string, file io.Reader) (*models.User, error)
}

type CreateUserInput struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Phone    *string `json:"phone,omitempty"`
	Password string  `json:"password"`
}

// UpdateUserInput — частичное обновление: применяются только ненулевые поля.
type UpdateUserInput struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Avatar   *string `json:"avatar_url,omitempty"`
	Password *string `json:"password,omitempty"`
}

type userService struct {
	txRunner         repositories.TxRunner
	userRepo         repositories.UserRepository
	roleRepo         repositories.RoleRepository
	teamRepo         repositories.TeamRepository
	memberRepo       repositories.TeamMemberRepository
	eventRepo        repositories.EventRepository
	rosterRepo       repositories.EventRosterRepository
	notificationRepo repositories.NotificationRepository
	hasher           PasswordHasher
	uploader         storage.FileUploader
}

func NewUserService(
	txRunner repositories.TxRunner,
	userRepo repositories.UserRepository,
	roleRepo repositories.RoleRepository,
	teamRepo repositories.TeamRepository,
	memberRepo repositories.TeamMemberRepository,
	eventRepo repositories.EventRepository,
	rosterRepo repositories.EventRosterRepository,
	notificationRepo repositories.NotificationRepository,
	hasher PasswordHasher,
	uploader storage.FileUploader,
) UserService {
	return &userService{
		txRunner:         txRunner,
		userRepo:         userRepo,
		roleRepo:         roleRepo,
		teamRepo:         teamRepo,
		memberRepo:       memberRepo,
		eventRepo:        eventRepo,
		rosterRepo:       rosterRepo,
		notificationRepo: notificationRepo,
		hasher:           hasher,
		uploader:         uploader,
	}
}

func (s *userService) GetAllUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	sanitizeUsers(users)
	return users, nil
}

func (s *userService) GetUserByID(ctx context.Context, id int) (*models.User, error) {
	user, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.loadUserRelations(ctx, user); err != nil {
		return nil, err
	}
	sanitizeUser(user)
	return user, nil
}

func (s *userService) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	sanitizeUser(user)
	return user, nil
}

func (s *userService) ListPlayers(ctx context.Context) ([]models.User, error) {
	users, err := s.userRepo.ListByRole(ctx, models.RolePlayer)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	sanitizeUsers(users)
	return users, nil
}

func (s *userService) CreateUser(ctx context.Context, input CreateUserInput) (*models.User, error) {
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

	user := &models.User{
		Name:         input.Name,
		Email:        input.Email,
		Phone:        input.Phone,
		PasswordHash: hashedPassword,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrUserEmailConflict) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	sanitizeUser(user)
	return user, nil
}

func (s *userService) UpdateUser(ctx context.Context, id int, input UpdateUserInput) (*models.User, error) {
	user, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Phone != nil {
		user.Phone = input.Phone
	}
	if input.Avatar != nil {
		user.AvatarURL = input.Avatar
	}
	if input.Password != nil && *input.Password != "" {
		hashedPassword, err := s.hasher.Hash(*input.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = hashedPassword
	}
	if input.Email != nil && *input.Email != user.Email {
		exists, err := s.userRepo.ExistsByEmail(ctx, *input.Email)
		if err != nil {
			return nil, fmt.Errorf("failed to check email availability: %w", err)
		}
		if exists {
			return nil, ErrEmailTaken
		}
		user.Email = *input.Email
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrUserEmailConflict) {
			return nil, ErrEmailTaken
		}
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update user %d: %w", id, err)
	}

	sanitizeUser(user)
	return user, nil
}

func (s *userService) DeleteUser(ctx context.Context, id int) error {
	if _, err := s.getUser(ctx, id); err != nil {
		return err
	}

	// Порядок шагов важен: владеющие связи снимаются до удаления записи,
	// чтобы не осталось висячих ссылок.
	return s.txRunner.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.teamRepo.ClearCaptainForUser(ctx, exec, id); err != nil {
			return err
		}
		if err := s.eventRepo.ClearOrganizerForUser(ctx, exec, id); err != nil {
			return err
		}
		if err := s.roleRepo.RemoveAllFromUser(ctx, exec, id); err != nil {
			return err
		}
		if err := s.notificationRepo.DeleteAllForUser(ctx, exec, id); err != nil {
			return err
		}
		if err := s.rosterRepo.RemoveUserFromAll(ctx, exec, id); err != nil {
			return err
		}
		if err := s.memberRepo.DeleteByUserID(ctx, exec, id); err != nil {
			return err
		}
		if err := s.userRepo.Delete(ctx, exec, id); err != nil {
			if errors.Is(err, repositories.ErrUserNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		return nil
	})
}

func (s *userService) AssignRole(ctx context.Context, userID, roleID int) (*models.User, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	role, err := s.roleRepo.GetByID(ctx, roleID)
	if err != nil {
		if errors.Is(err, repositories.ErrRoleNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, fmt.Errorf("failed to get role %d: %w", roleID, err)
	}

	if err := s.roleRepo.AssignToUser(ctx, nil, user.ID, role.ID); err != nil {
		return nil, fmt.Errorf("failed to assign role: %w", err)
	}

	if err := s.loadUserRelations(ctx, user); err != nil {
		return nil, err
	}
	sanitizeUser(user)
	return user, nil
}

func (s *userService) RemoveRole(ctx context.Context, userID, roleID int) (*models.User, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	role, err := s.roleRepo.GetByID(ctx, roleID)
	if err != nil {
		if errors.Is(err, repositories.ErrRoleNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, fmt.Errorf("failed to get role %d: %w", roleID, err)
	}

	if err := s.roleRepo.RemoveFromUser(ctx, user.ID, role.ID); err != nil {
		if !errors.Is(err, repositories.ErrRoleAssignmentNotFound) {
			return nil, fmt.Errorf("failed to remove role: %w", err)
		}
		// Снятие неназначенной роли — no-op, как и её повторное назначение.
	}

	if err := s.loadUserRelations(ctx, user); err != nil {
		return nil, err
	}
	sanitizeUser(user)
	return user, nil
}

func (s *userService) UploadAvatar(ctx context.Context, userID int, contentType string, file io.Reader) (*models.User, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	ext, err := GetExtensionFromContentType(contentType)
	if err != nil {
		return nil, fmt.Errorf("unsupported avatar content type: %w", err)
	}

	key := fmt.Sprintf("avatars/%d%s", user.ID, ext)
	result, err := s.uploader.Upload(ctx, key, contentType, file)
	if err != nil {
		return nil, fmt.Errorf("failed to upload avatar: %w", err)
	}

	user.AvatarURL = &result.Location
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to save avatar url: %w", err)
	}

	sanitizeUser(user)
	return user, nil
}

func (s *userService) getUser(ctx context.Context, id int) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user %d: %w", id, err)
	}
	return user, nil
}

func (s *userService) loadUserRelations(ctx context.Context, user *models.User) error {
	roles, err := s.roleRepo.ListByUserID(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("failed to load roles for user %d: %w", user.ID, err)
	}
	user.Roles = roles

	notifications, err := s.notificationRepo.ListByUserID(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("failed to load notifications for user %d: %w", user.ID, err)
	}
	user.Notifications = notifications
	return nil
}
