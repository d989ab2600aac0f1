package models

import (
	"time"

	"gorm.io/gorm"
)

type Staff struct {
	ID       uint  `gorm:"primaryKey" json:"id"`
	ClubID   uint  `gorm:"index;not null" json:"club_id"`
	ChurchID *uint `json:"church_id"`

	Name     string `gorm:"size:100;not null" json:"name"`
	Email    string `gorm:"size:100" json:"email"`
	Position string `gorm:"size:50" json:"position"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Tracking `gorm:"-" json:"-"`
}

func (Staff) TableName() string {
	return "staff"
}
