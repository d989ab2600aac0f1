package models

import (
	"time"

	"gorm.io/gorm"
)

type Club struct {
	ID       uint    `gorm:"primaryKey" json:"id"`
	ChurchID *uint   `json:"church_id"`
	Church   *Church `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"church,omitempty"`

	Name  string `gorm:"size:100;not null" json:"name"`
	Slug  string `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Phone string `gorm:"size:20" json:"phone"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Tracking `gorm:"-" json:"-"`
}
