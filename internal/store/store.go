package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/example/spontan/internal/models"
)

// Sentinel errors shared by all Store implementations. Callers distinguish
// them with errors.Is.
var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrInsufficientTokens is returned when a debit would drive a balance
	// negative. The balance is left untouched.
	ErrInsufficientTokens = errors.New("insufficient tokens")

	// ErrStatusConflict is returned when a compare-and-swap status update
	// loses a race: the order exists but its status no longer matches the
	// expected one.
	ErrStatusConflict = errors.New("order status changed concurrently")
)

// OrderFilter narrows ListOrders results. Zero value matches everything.
type OrderFilter struct {
	Statuses []string
	UserID   *uuid.UUID
}

// Store is the persistence boundary for the ledgers and the auth flow. The
// implementations own the atomicity guarantees: DebitTokens and CreditTokens
// are serialized per user, UpdateOrderStatus is a compare-and-swap on the
// current status.
type Store interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// VerifyUserByPhone marks the user holding the given phone as verified
	// and returns it.
	VerifyUserByPhone(ctx context.Context, phone string) (*models.User, error)
	// DebitTokens atomically subtracts amount from the user's balance and
	// returns the new balance. Fails with ErrInsufficientTokens without any
	// effect when the balance is too low.
	DebitTokens(ctx context.Context, userID uuid.UUID, amount int) (int, error)
	// CreditTokens atomically adds amount to the user's balance and returns
	// the new balance.
	CreditTokens(ctx context.Context, userID uuid.UUID, amount int) (int, error)

	CreateVerification(ctx context.Context, v *models.SMSVerification) error
	// LatestVerification returns the most recently created verification for
	// the phone number.
	LatestVerification(ctx context.Context, phone string) (*models.SMSVerification, error)
	MarkVerificationUsed(ctx context.Context, id uuid.UUID) error

	CreateOrder(ctx context.Context, order *models.Order) error
	GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListOrders(ctx context.Context, filter OrderFilter) ([]models.Order, error)
	// UpdateOrderStatus sets the order status to "to" only if it still is
	// "from", returning the updated order. Fails with ErrStatusConflict when
	// the status moved underneath the caller.
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, from, to string) (*models.Order, error)
	GetOrderByPickupCode(ctx context.Context, code string) (*models.Order, error)
	// OpenOrderCodeExists reports whether a non-terminal order already uses
	// the pickup code.
	OpenOrderCodeExists(ctx context.Context, code string) (bool, error)

	CreatePurchase(ctx context.Context, purchase *models.TokenPurchase) error
	// ListPurchases returns purchases in creation order.
	ListPurchases(ctx context.Context, userID uuid.UUID) ([]models.TokenPurchase, error)

	CreateEvent(ctx context.Context, event *models.Event) error
	GetEventByCode(ctx context.Context, code string) (*models.Event, error)
	CreateCheckin(ctx context.Context, checkin *models.EventCheckin) error
}
