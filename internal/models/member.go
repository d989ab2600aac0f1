package models

import (
	"time"

	"gorm.io/gorm"
)

// Member is a person enrolled in a club. Members have no login.
type Member struct {
	ID       uint  `gorm:"primaryKey" json:"id"`
	ClubID   uint  `gorm:"index;not null" json:"club_id"`
	ChurchID *uint `json:"church_id"`

	Name      string     `gorm:"size:100;not null" json:"name"`
	Email     string     `gorm:"size:100" json:"email"`
	Phone     string     `gorm:"size:20" json:"phone"`
	BirthDate *time.Time `json:"birth_date"`
	Notes     string     `gorm:"size:255" json:"notes"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Tracking `gorm:"-" json:"-"`
}
