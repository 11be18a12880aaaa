package services

import "errors"

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	// Ресурс не найден (универсальная)
	ErrNotFound = errors.New("requested resource not found")

	// Ошибки аутентификации
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrSessionExpired     = errors.New("session expired")

	// Ошибки валидации и бизнес-правил
	ErrTeamNameRequired   = errors.New("team name is required")
	ErrEventTitleRequired = errors.New("event title is required")
	ErrInvalidRosterRole  = errors.New("invalid participation role")

	// Нарушения инвариантов членства (конфликты)
	ErrAlreadyMember       = errors.New("user is already a member of this team")
	ErrNotMember           = errors.New("user is not a member of this team")
	ErrCaptainMustTransfer = errors.New("captain cannot leave the team directly, transfer captaincy first")

	// Ошибки конфликтов
	ErrEmailTaken            = errors.New("email address is already in use")
	ErrSportTypeNameConflict = errors.New("sport type name is already in use")

	// Ошибки, специфичные для сущностей (дают больше контекста, чем ErrNotFound)
	ErrUserNotFound         = errors.New("user not found")
	ErrTeamNotFound         = errors.New("team not found")
	ErrEventNotFound        = errors.New("event not found")
	ErrVenueNotFound        = errors.New("venue not found")
	ErrSportTypeNotFound    = errors.New("sport type not found")
	ErrRoleNotFound         = errors.New("role not found")
	ErrNotificationNotFound = errors.New("notification not found")
)
