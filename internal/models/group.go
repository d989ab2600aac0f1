package models

import "time"

type Group struct {
	ID       uint  `gorm:"primaryKey" json:"id"`
	ClubID   uint  `gorm:"index;not null" json:"club_id"`
	ChurchID *uint `json:"church_id"`

	GroupName   string `gorm:"size:100;not null" json:"group_name"`
	Description string `gorm:"size:255" json:"description"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Tracking `gorm:"-" json:"-"`
}
