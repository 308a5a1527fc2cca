package models

import (
	"time"

	"github.com/google/uuid"
)

// Event is a registered party that users can check in to by scanning its QR
// code.
type Event struct {
	BaseModel
	Code     string    `gorm:"uniqueIndex" json:"code"`
	Name     string    `json:"name"`
	StartsAt time.Time `json:"starts_at"`
	EndsAt   time.Time `json:"ends_at"`
	Active   bool      `json:"active"`
}

// EventCheckin records a successful, token-debited check-in.
type EventCheckin struct {
	BaseModel
	EventID uuid.UUID `gorm:"type:uuid;index" json:"event_id"`
	UserID  uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
}
