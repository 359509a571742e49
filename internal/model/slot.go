package model

import "time"

// Slot is one named entry of the collection store. Payload holds a whole serialized collection.
type Slot struct {
	Name      string    `gorm:"primaryKey;size:64"`
	Payload   string    `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"not null"`
}
