package models

import "time"

// EventStatus представляет статусы события, соответствующие ENUM в БД.
type EventStatus string

const (
	EventStatusCreated   EventStatus = "CREATED"
	EventStatusOngoing   EventStatus = "ONGOING"
	EventStatusFinished  EventStatus = "FINISHED"
	EventStatusCancelled EventStatus = "CANCELLED"
)

// EventRosterRole — роли участия в событии. У события три независимых
// списка; один пользователь может состоять в нескольких одновременно.
type EventRosterRole string

const (
	RosterPlayer    EventRosterRole = "player"
	RosterSpectator EventRosterRole = "spectator"
	RosterReferee   EventRosterRole = "referee"
)

type Event struct {
	ID           int         `json:"id" db:"id"`
	Title        string      `json:"title" db:"title"`
	Description  *string     `json:"description,omitempty" db:"description"`
	CreationDate time.Time   `json:"creation_date" db:"creation_date"`
	StartDate    *time.Time  `json:"start_date,omitempty" db:"start_date"`
	EndDate      *time.Time  `json:"end_date,omitempty" db:"end_date"`
	Result       *string     `json:"result,omitempty" db:"result"`
	IconURL      *string     `json:"icon_url,omitempty" db:"icon_url"`
	Status       EventStatus `json:"status" db:"status"`
	SportTypeID  *int        `json:"sport_type_id,omitempty" db:"sport_type_id"`
	OrganizerID  *int        `json:"organizer_id,omitempty" db:"organizer_id"`
	VenueID      *int        `json:"venue_id,omitempty" db:"venue_id"`

	// Опциональные связанные сущности (не мапятся напрямую)
	SportType  *SportType `json:"sport_type,omitempty" db:"-"`
	Organizer  *User      `json:"organizer,omitempty" db:"-"`
	Venue      *Venue     `json:"venue,omitempty" db:"-"`
	Players    []User     `json:"players,omitempty" db:"-"`
	Spectators []User     `json:"spectators,omitempty" db:"-"`
	Referees   []User     `json:"referees,omitempty" db:"-"`
}
