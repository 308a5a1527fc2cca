package ledger

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/example/spontan/internal/models"
	"github.com/example/spontan/internal/store"
)

// ErrInvalidPackage is returned for an unknown token package id.
var ErrInvalidPackage = errors.New("unknown token package")

// Package is a purchasable token bundle.
type Package struct {
	ID          string `json:"id"`
	Tokens      int    `json:"tokens"`
	Price       int    `json:"price"`
	BonusTokens int    `json:"bonus_tokens"`
}

// Packages returns the fixed price list, in display order. Prices are in lei.
func Packages() []Package {
	return []Package{
		{ID: "50", Tokens: 50, Price: 50, BonusTokens: 0},
		{ID: "100", Tokens: 100, Price: 100, BonusTokens: 0},
		{ID: "300", Tokens: 300, Price: 300, BonusTokens: 0},
		{ID: "500", Tokens: 500, Price: 500, BonusTokens: 25},
	}
}

// PackageByID looks up a package in the fixed price list.
func PackageByID(id string) (Package, bool) {
	for _, p := range Packages() {
		if p.ID == id {
			return p, true
		}
	}
	return Package{}, false
}

// Tokens is the token ledger. It is the only component allowed to mutate user
// balances; the store primitives keep each balance non-negative under
// concurrent debits.
type Tokens struct {
	store store.Store
}

// NewTokens creates a token ledger over the given store.
func NewTokens(s store.Store) *Tokens {
	return &Tokens{store: s}
}

// Balance returns the user's current token balance.
func (t *Tokens) Balance(ctx context.Context, userID uuid.UUID) (int, error) {
	user, err := t.store.GetUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	return user.Tokens, nil
}

// TryDebit removes amount tokens from the balance, or fails with
// store.ErrInsufficientTokens leaving the balance untouched. Returns the
// updated balance.
func (t *Tokens) TryDebit(ctx context.Context, userID uuid.UUID, amount int) (int, error) {
	return t.store.DebitTokens(ctx, userID, amount)
}

// Purchase credits the user with a package's tokens plus bonus and appends an
// immutable purchase record.
func (t *Tokens) Purchase(ctx context.Context, userID uuid.UUID, packageID string) (*models.TokenPurchase, error) {
	pkg, ok := PackageByID(packageID)
	if !ok {
		return nil, ErrInvalidPackage
	}

	if _, err := t.store.GetUser(ctx, userID); err != nil {
		return nil, err
	}

	purchase := &models.TokenPurchase{
		UserID:      userID,
		PackageID:   pkg.ID,
		Amount:      pkg.Tokens,
		BonusTokens: pkg.BonusTokens,
		Price:       pkg.Price,
	}
	if err := t.store.CreatePurchase(ctx, purchase); err != nil {
		return nil, err
	}

	if _, err := t.store.CreditTokens(ctx, userID, pkg.Tokens+pkg.BonusTokens); err != nil {
		return nil, err
	}

	return purchase, nil
}

// Purchases returns the user's purchase history in creation order.
func (t *Tokens) Purchases(ctx context.Context, userID uuid.UUID) ([]models.TokenPurchase, error) {
	return t.store.ListPurchases(ctx, userID)
}
