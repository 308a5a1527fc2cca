package models

import (
	"time"

	"github.com/google/uuid"
)

// Order status constants.
const (
	OrderStatusPending   = "pending"
	OrderStatusPreparing = "preparing"
	OrderStatusReady     = "ready"
	OrderStatusPicked    = "picked"
	OrderStatusCancelled = "cancelled"
)

// Drink option values.
const (
	SizeSmall  = "small"
	SizeMedium = "medium"
	SizeLarge  = "large"

	StrengthLight  = "light"
	StrengthNormal = "normal"
	StrengthStrong = "strong"
)

// OrderOptions captures how a drink should be prepared.
type OrderOptions struct {
	Size     string   `json:"size"`
	Ice      bool     `json:"ice"`
	Strength string   `json:"strength,omitempty"`
	Extras   []string `json:"extras,omitempty"`
}

// Order represents a single drink order. PickupCode is assigned once at
// creation and never changes; Status is mutated only through the order ledger.
type Order struct {
	BaseModel
	UserID     uuid.UUID    `gorm:"type:uuid;index" json:"user_id"`
	User       *User        `json:"user,omitempty"`
	Drink      string       `json:"drink"`
	Options    OrderOptions `gorm:"serializer:json" json:"options"`
	Status     string       `gorm:"index" json:"status"`
	PickupCode string       `gorm:"index" json:"pickup_code"`
	PlacedAt   time.Time    `json:"placed_at"`
}

// ValidStatuses returns all valid order statuses.
func ValidStatuses() []string {
	return []string{
		OrderStatusPending,
		OrderStatusPreparing,
		OrderStatusReady,
		OrderStatusPicked,
		OrderStatusCancelled,
	}
}

// IsValidStatus checks if a status string is valid.
func IsValidStatus(status string) bool {
	for _, s := range ValidStatuses() {
		if s == status {
			return true
		}
	}
	return false
}

// AllowedTransitions defines which status transitions are valid. Picked and
// cancelled are terminal.
func AllowedTransitions() map[string][]string {
	return map[string][]string{
		OrderStatusPending:   {OrderStatusPreparing, OrderStatusCancelled},
		OrderStatusPreparing: {OrderStatusReady, OrderStatusCancelled},
		OrderStatusReady:     {OrderStatusPicked, OrderStatusCancelled},
		OrderStatusPicked:    {},
		OrderStatusCancelled: {},
	}
}

// CanTransitionTo checks if the order can transition to the target status.
func (o *Order) CanTransitionTo(target string) bool {
	allowed, ok := AllowedTransitions()[o.Status]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the order can no longer change status.
func (o *Order) IsTerminal() bool {
	return o.Status == OrderStatusPicked || o.Status == OrderStatusCancelled
}
