package models

// SportCategory — категория вида спорта.
type SportCategory string

const (
	SportCategoryIndividual SportCategory = "INDIVIDUAL"
	SportCategoryTeam       SportCategory = "TEAM"
	SportCategoryMixed      SportCategory = "MIXED"
)

type SportType struct {
	ID         int            `json:"id" db:"id"`
	Name       string         `json:"name" db:"name"`
	Category   *SportCategory `json:"category,omitempty" db:"category"`
	Rules      *string        `json:"rules,omitempty" db:"rules"`
	IconURL    *string        `json:"icon_url,omitempty" db:"icon_url"`
	MinPlayers *int           `json:"min_players,omitempty" db:"min_players"`
	MaxPlayers *int           `json:"max_players,omitempty" db:"max_players"`
}
