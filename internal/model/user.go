package model

import "time"

// User represents a student account.
type User struct {
	ID           string  `gorm:"primaryKey;size:36"`
	Email        string  `gorm:"uniqueIndex;size:256;not null"`
	Name         string  `gorm:"size:256;not null"`
	PasswordHash string  `gorm:"size:128;not null" json:"-"`
	RoomID       *string `gorm:"index;size:36"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Associations
	Room *Room `gorm:"foreignKey:RoomID"`
}
