package models

import "time"

type Notification struct {
	ID           int       `json:"id" db:"id"`
	UserID       int       `json:"user_id" db:"user_id"`
	Topic        string    `json:"topic" db:"topic"`
	Message      string    `json:"message" db:"message"`
	IsRead       bool      `json:"is_read" db:"is_read"`
	CreationDate time.Time `json:"creation_date" db:"creation_date"`
}
