package model

import "time"

// Dorm represents a dormitory building.
type Dorm struct {
	ID        string    `gorm:"primaryKey;size:36"`
	Name      string    `gorm:"uniqueIndex;size:128;not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	// Associations
	Rooms []Room `gorm:"foreignKey:DormID"`
}
