package models

import "time"

// Application is a membership request submitted to a club, either by a
// person or on behalf of an organization.
type Application struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	ClubID uint `gorm:"index;not null" json:"club_id"`

	ApplicantName    string `gorm:"size:100" json:"applicant_name"`
	OrganizationName string `gorm:"size:150" json:"organization_name"`
	Email            string `gorm:"size:100" json:"email"`
	Status           string `gorm:"size:20;default:'pending'" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Tracking `gorm:"-" json:"-"`
}
