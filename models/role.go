package models

// RoleName представляет названия ролей, соответствующие ENUM в БД.
type RoleName string

const (
	RoleAdmin     RoleName = "ADMIN"
	RoleOrganizer RoleName = "ORGANIZER"
	RoleReferee   RoleName = "REFEREE"
	RolePlayer    RoleName = "PLAYER"
	RoleSpectator RoleName = "SPECTATOR"
)

type Role struct {
	ID   int      `json:"id" db:"id"`
	Name RoleName `json:"name" db:"name"`
}
