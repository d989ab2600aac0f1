package models

import "time"

// ClubClass is a recurring class (age group, course) run by a club.
type ClubClass struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	ClubID uint `gorm:"index;not null" json:"club_id"`

	ClassName  string `gorm:"size:100;not null" json:"class_name"`
	Instructor string `gorm:"size:100" json:"instructor"`
	Capacity   int    `json:"capacity"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Tracking `gorm:"-" json:"-"`
}
