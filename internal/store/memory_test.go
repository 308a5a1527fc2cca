package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/spontan/internal/models"
)

func newUser(t *testing.T, s *Memory, tokens int) *models.User {
	t.Helper()

	user := &models.User{
		Name:   "Test",
		Email:  uuid.NewString() + "@spontan.app",
		Phone:  "0711111111",
		Tokens: tokens,
	}
	require.NoError(t, s.CreateUser(context.Background(), user))
	return user
}

func newOrder(t *testing.T, s *Memory, userID uuid.UUID, status, code string) *models.Order {
	t.Helper()

	order := &models.Order{
		UserID:     userID,
		Drink:      "Martini",
		Status:     status,
		PickupCode: code,
		PlacedAt:   time.Now(),
	}
	require.NoError(t, s.CreateOrder(context.Background(), order))
	return order
}

func TestMemory_DebitTokens(t *testing.T) {
	s := NewMemory()
	user := newUser(t, s, 2)

	balance, err := s.DebitTokens(context.Background(), user.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, balance)

	_, err = s.DebitTokens(context.Background(), user.ID, 2)
	require.ErrorIs(t, err, ErrInsufficientTokens)

	fetched, err := s.GetUser(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, fetched.Tokens)
}

func TestMemory_DebitTokens_UnknownUser(t *testing.T) {
	s := NewMemory()

	_, err := s.DebitTokens(context.Background(), uuid.New(), 1)

	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemory_UpdateOrderStatus_CAS(t *testing.T) {
	s := NewMemory()
	user := newUser(t, s, 0)
	order := newOrder(t, s, user.ID, models.OrderStatusPending, "AAAAAA")

	updated, err := s.UpdateOrderStatus(context.Background(), order.ID, models.OrderStatusPending, models.OrderStatusPreparing)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPreparing, updated.Status)

	// A swap expecting the stale status must fail.
	_, err = s.UpdateOrderStatus(context.Background(), order.ID, models.OrderStatusPending, models.OrderStatusCancelled)
	require.ErrorIs(t, err, ErrStatusConflict)

	_, err = s.UpdateOrderStatus(context.Background(), uuid.New(), models.OrderStatusPending, models.OrderStatusPreparing)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemory_OpenOrderCodeExists(t *testing.T) {
	s := NewMemory()
	user := newUser(t, s, 0)
	newOrder(t, s, user.ID, models.OrderStatusPending, "OPEN01")
	newOrder(t, s, user.ID, models.OrderStatusPicked, "DONE01")
	newOrder(t, s, user.ID, models.OrderStatusCancelled, "DONE02")

	taken, err := s.OpenOrderCodeExists(context.Background(), "OPEN01")
	require.NoError(t, err)
	assert.True(t, taken)

	// Terminal orders release their codes.
	taken, err = s.OpenOrderCodeExists(context.Background(), "DONE01")
	require.NoError(t, err)
	assert.False(t, taken)

	taken, err = s.OpenOrderCodeExists(context.Background(), "DONE02")
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestMemory_VerifyUserByPhone(t *testing.T) {
	s := NewMemory()
	user := newUser(t, s, 0)
	require.False(t, user.Verified)

	verified, err := s.VerifyUserByPhone(context.Background(), "0711111111")
	require.NoError(t, err)
	assert.True(t, verified.Verified)
	assert.Equal(t, user.ID, verified.ID)

	_, err = s.VerifyUserByPhone(context.Background(), "0799999999")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemory_LatestVerification(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	first := &models.SMSVerification{Phone: "0711111111", CodeHash: "first"}
	require.NoError(t, s.CreateVerification(ctx, first))
	second := &models.SMSVerification{Phone: "0711111111", CodeHash: "second"}
	require.NoError(t, s.CreateVerification(ctx, second))

	latest, err := s.LatestVerification(ctx, "0711111111")
	require.NoError(t, err)
	assert.Equal(t, "second", latest.CodeHash)

	require.NoError(t, s.MarkVerificationUsed(ctx, latest.ID))
	latest, err = s.LatestVerification(ctx, "0711111111")
	require.NoError(t, err)
	assert.NotNil(t, latest.UsedAt)
}

func TestMemory_ReturnsCopies(t *testing.T) {
	s := NewMemory()
	user := newUser(t, s, 5)

	fetched, err := s.GetUser(context.Background(), user.ID)
	require.NoError(t, err)

	fetched.Tokens = 999

	again, err := s.GetUser(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, again.Tokens, "mutating a returned record must not leak into the store")
}
