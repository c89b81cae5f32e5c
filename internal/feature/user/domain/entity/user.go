// Package entity defines the domain entities for the user feature.
package entity

import "time"

// User represents a registered account.
// Email is the login identifier; it is stored normalized (see usecase.NormalizeEmail).
type User struct {
	// ID is the unique identifier for the user.
	ID uint `gorm:"primaryKey"`

	// Email is the user's email address used for authentication.
	// It must be unique across all users.
	Email string `gorm:"uniqueIndex;size:255;not null"`

	// Name is the display name.
	Name string `gorm:"size:255;not null;default:''"`

	// Password is the bcrypt hash of the user's password.
	// Plaintext passwords are never stored.
	Password string `gorm:"size:255;not null"`

	IsActive    bool `gorm:"not null;default:true"`
	IsStaff     bool `gorm:"not null;default:false"`
	IsSuperuser bool `gorm:"not null;default:false"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
