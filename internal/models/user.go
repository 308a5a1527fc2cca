package models

import (
	"time"
)

// User roles.
const (
	RoleClient = "client"
	RoleBarman = "barman"
)

// User represents an app account. Tokens is the drink-credit balance; it is
// mutated only through the token ledger.
type User struct {
	BaseModel
	Name            string          `json:"name"`
	Email           string          `gorm:"uniqueIndex" json:"email"`
	Phone           string          `gorm:"index" json:"phone"`
	Verified        bool            `json:"verified"`
	Role            string          `gorm:"default:client" json:"role"`
	PaymentVerified bool            `json:"payment_verified"`
	Tokens          int             `json:"tokens"`
	Orders          []Order         `json:"orders,omitempty"`
	Purchases       []TokenPurchase `json:"purchases,omitempty"`
}

// SMSVerification keeps track of OTP codes sent to users. Codes are stored
// bcrypt-hashed and are single-use.
type SMSVerification struct {
	BaseModel
	Phone     string     `gorm:"index" json:"phone"`
	CodeHash  string     `json:"-"`
	ExpiresAt time.Time  `json:"expires_at"`
	Verified  bool       `json:"verified"`
	UsedAt    *time.Time `json:"used_at"`
}
