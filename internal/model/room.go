package model

import "time"

// Room is an assignable unit with a fixed capacity.
// Occupants are the users whose RoomID points at this room; capacity and
// single-assignment rules are enforced transactionally in the store.
type Room struct {
	ID        string `gorm:"primaryKey;size:36"`
	DormID    string `gorm:"index;size:36;not null"`
	Number    string `gorm:"size:32;not null"`
	Capacity  int    `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time

	// Associations
	Dorm      Dorm   `gorm:"constraint:OnDelete:CASCADE"`
	Occupants []User `gorm:"foreignKey:RoomID"`
}
