package models

type Venue struct {
	ID          int     `json:"id" db:"id"`
	Name        string  `json:"name" db:"name"`
	Address     *string `json:"address,omitempty" db:"address"`
	Description *string `json:"description,omitempty" db:"description"`
	Capacity    *int    `json:"capacity,omitempty" db:"capacity"`
	ImageURL    *string `json:"image_url,omitempty" db:"image_url"`
}
