package models

import (
	"github.com/google/uuid"
)

// TokenPurchase is an append-only ledger entry for a token top-up. Entries
// are immutable once created.
type TokenPurchase struct {
	BaseModel
	UserID      uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	PackageID   string    `json:"package_id"`
	Amount      int       `json:"amount"`
	BonusTokens int       `json:"bonus_tokens"`
	Price       int       `json:"price"`
}
