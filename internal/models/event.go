package models

import (
	"time"

	"gorm.io/gorm"
)

type Event struct {
	ID       uint  `gorm:"primaryKey" json:"id"`
	ClubID   uint  `gorm:"index;not null" json:"club_id"`
	ChurchID *uint `json:"church_id"`

	Title    string    `gorm:"size:150;not null" json:"title"`
	Location string    `gorm:"size:255" json:"location"`
	StartsAt time.Time `json:"starts_at"`
	EndsAt   time.Time `json:"ends_at"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Tracking `gorm:"-" json:"-"`
}
