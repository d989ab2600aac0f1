package models

import "time"

type User struct {
	ID       uint  `gorm:"primaryKey" json:"id"`
	ClubID   *uint `json:"club_id"`
	ChurchID *uint `json:"church_id"`

	Name          string  `gorm:"size:100;not null" json:"name"`
	Email         string  `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Password      string  `gorm:"size:255;not null" json:"-"`
	RememberToken *string `gorm:"size:100" json:"-"`
	Phone         string  `gorm:"size:20" json:"phone"`
	Role          string  `gorm:"size:20;default:'owner'" json:"role"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Tracking `gorm:"-" json:"-"`
}
