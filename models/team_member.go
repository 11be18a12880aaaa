package models

import "time"

// Роли участников внутри команды (свободный текст в БД).
const (
	TeamRoleCaptain        = "Captain"
	TeamRoleRepresentative = "Representative"
)

// TeamMember — запись о членстве пользователя в команде.
// Пара (team_id, user_id) уникальна: не больше одной записи на пользователя в команде.
type TeamMember struct {
	ID       int       `json:"id" db:"id"`
	TeamID   int       `json:"team_id" db:"team_id"`
	UserID   int       `json:"user_id" db:"user_id"`
	Role     string    `json:"role" db:"role"`
	JoinDate time.Time `json:"join_date" db:"join_date"`

	User *User `json:"user,omitempty" db:"-"`
}
