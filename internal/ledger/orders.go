package ledger

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/example/spontan/internal/models"
	"github.com/example/spontan/internal/store"
)

var (
	// ErrCodeMismatch is returned when no order carries the presented pickup
	// code.
	ErrCodeMismatch = errors.New("pickup code does not match")

	// ErrOrderNotReady is returned when the code matches an order that is
	// not in ready status.
	ErrOrderNotReady = errors.New("order is not ready for pickup")
)

// InvalidTransitionError reports an illegal status change attempt.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition from %q to %q", e.From, e.To)
}

const (
	pickupCodeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	pickupCodeLength   = 6
	pickupCodeAttempts = 5
)

// Orders is the order ledger: it owns the status state machine and pickup
// codes, and consults the token ledger before minting a new order.
type Orders struct {
	store  store.Store
	tokens *Tokens
}

// NewOrders creates an order ledger over the given store and token ledger.
func NewOrders(s store.Store, tokens *Tokens) *Orders {
	return &Orders{store: s, tokens: tokens}
}

// Create debits one token and mints a pending order with a fresh pickup code.
// When the debit fails no order is created and the error is propagated
// unchanged, so callers can detect store.ErrInsufficientTokens.
func (o *Orders) Create(ctx context.Context, userID uuid.UUID, drink string, options models.OrderOptions) (*models.Order, error) {
	if _, err := o.tokens.TryDebit(ctx, userID, 1); err != nil {
		return nil, err
	}

	if options.Size == "" {
		options.Size = models.SizeMedium
	}

	code, err := o.uniquePickupCode(ctx)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		UserID:     userID,
		Drink:      drink,
		Options:    options,
		Status:     models.OrderStatusPending,
		PickupCode: code,
		PlacedAt:   time.Now(),
	}
	if err := o.store.CreateOrder(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// Transition moves the order to the target status, enforcing the transition
// table. Races between concurrent transitions are resolved by retrying the
// compare-and-swap from the freshly observed status, so only transitions that
// are legal from the committed state can land.
func (o *Orders) Transition(ctx context.Context, orderID uuid.UUID, to string) (*models.Order, error) {
	for {
		order, err := o.store.GetOrder(ctx, orderID)
		if err != nil {
			return nil, err
		}

		if !order.CanTransitionTo(to) {
			return nil, &InvalidTransitionError{From: order.Status, To: to}
		}

		updated, err := o.store.UpdateOrderStatus(ctx, orderID, order.Status, to)
		if errors.Is(err, store.ErrStatusConflict) {
			continue
		}
		return updated, err
	}
}

// VerifyPickup matches the presented code against orders awaiting pickup.
// The comparison is exact and case-sensitive; only ready orders verify.
// Verification does not change the order status, the caller transitions to
// picked separately after confirming the handover.
func (o *Orders) VerifyPickup(ctx context.Context, code string) (*models.Order, error) {
	order, err := o.store.GetOrderByPickupCode(ctx, code)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrCodeMismatch
		}
		return nil, err
	}

	if order.Status != models.OrderStatusReady {
		return nil, ErrOrderNotReady
	}
	return order, nil
}

// List returns orders matching the filter. Ordering is a caller concern.
func (o *Orders) List(ctx context.Context, filter store.OrderFilter) ([]models.Order, error) {
	return o.store.ListOrders(ctx, filter)
}

// uniquePickupCode draws random codes until one is unused among non-terminal
// orders. Collisions on a 36^6 space are rare, so a handful of attempts is
// plenty.
func (o *Orders) uniquePickupCode(ctx context.Context) (string, error) {
	for i := 0; i < pickupCodeAttempts; i++ {
		code, err := generatePickupCode()
		if err != nil {
			return "", err
		}

		taken, err := o.store.OpenOrderCodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return "", errors.New("could not generate a unique pickup code")
}

func generatePickupCode() (string, error) {
	buf := make([]byte, pickupCodeLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(pickupCodeAlphabet))))
		if err != nil {
			return "", err
		}
		buf[i] = pickupCodeAlphabet[n.Int64()]
	}
	return string(buf), nil
}
