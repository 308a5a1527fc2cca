package ledger

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/spontan/internal/models"
	"github.com/example/spontan/internal/store"
)

func seedUser(t *testing.T, s store.Store, tokens int) uuid.UUID {
	t.Helper()

	user := &models.User{
		Name:   "Test Client",
		Email:  uuid.NewString() + "@spontan.app",
		Tokens: tokens,
	}
	require.NoError(t, s.CreateUser(context.Background(), user))
	return user.ID
}

func TestBalance(t *testing.T) {
	s := store.NewMemory()
	tokens := NewTokens(s)
	userID := seedUser(t, s, 7)

	balance, err := tokens.Balance(context.Background(), userID)

	require.NoError(t, err)
	assert.Equal(t, 7, balance)
}

func TestBalance_UnknownUser(t *testing.T) {
	tokens := NewTokens(store.NewMemory())

	_, err := tokens.Balance(context.Background(), uuid.New())

	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestTryDebit(t *testing.T) {
	s := store.NewMemory()
	tokens := NewTokens(s)
	userID := seedUser(t, s, 3)

	balance, err := tokens.TryDebit(context.Background(), userID, 1)

	require.NoError(t, err)
	assert.Equal(t, 2, balance)
}

func TestTryDebit_Insufficient(t *testing.T) {
	s := store.NewMemory()
	tokens := NewTokens(s)
	userID := seedUser(t, s, 0)

	_, err := tokens.TryDebit(context.Background(), userID, 1)
	require.ErrorIs(t, err, store.ErrInsufficientTokens)

	balance, err := tokens.Balance(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 0, balance, "rejected debit must not touch the balance")
}

func TestTryDebit_NeverNegative(t *testing.T) {
	s := store.NewMemory()
	tokens := NewTokens(s)
	userID := seedUser(t, s, 2)

	ctx := context.Background()
	_, err := tokens.TryDebit(ctx, userID, 1)
	require.NoError(t, err)
	_, err = tokens.TryDebit(ctx, userID, 1)
	require.NoError(t, err)
	_, err = tokens.TryDebit(ctx, userID, 1)
	require.ErrorIs(t, err, store.ErrInsufficientTokens)

	balance, err := tokens.Balance(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 0, balance)
}

// Two racing debits against a balance of one must produce exactly one
// success.
func TestTryDebit_Concurrent(t *testing.T) {
	s := store.NewMemory()
	tokens := NewTokens(s)
	userID := seedUser(t, s, 1)

	results := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := tokens.TryDebit(context.Background(), userID, 1)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var successes, rejections int
	for err := range results {
		switch {
		case err == nil:
			successes++
		case assert.ErrorIs(t, err, store.ErrInsufficientTokens):
			rejections++
		}
	}

	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, rejections)
}

func TestTryDebit_ConcurrentMany(t *testing.T) {
	s := store.NewMemory()
	tokens := NewTokens(s)
	userID := seedUser(t, s, 25)

	const attempts = 50
	results := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := tokens.TryDebit(context.Background(), userID, 1)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var successes int
	for err := range results {
		if err == nil {
			successes++
		}
	}

	assert.Equal(t, 25, successes)

	balance, err := tokens.Balance(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 0, balance)
}

func TestPurchase(t *testing.T) {
	s := store.NewMemory()
	tokens := NewTokens(s)
	userID := seedUser(t, s, 0)

	purchase, err := tokens.Purchase(context.Background(), userID, "500")

	require.NoError(t, err)
	assert.Equal(t, "500", purchase.PackageID)
	assert.Equal(t, 500, purchase.Amount)
	assert.Equal(t, 25, purchase.BonusTokens)
	assert.Equal(t, 500, purchase.Price)

	balance, err := tokens.Balance(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 525, balance, "credit is package amount plus bonus")
}

func TestPurchase_UnknownPackage(t *testing.T) {
	s := store.NewMemory()
	tokens := NewTokens(s)
	userID := seedUser(t, s, 10)

	_, err := tokens.Purchase(context.Background(), userID, "unknown")
	require.ErrorIs(t, err, ErrInvalidPackage)

	balance, err := tokens.Balance(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 10, balance)

	purchases, err := tokens.Purchases(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, purchases)
}

func TestPurchase_UnknownUser(t *testing.T) {
	tokens := NewTokens(store.NewMemory())

	_, err := tokens.Purchase(context.Background(), uuid.New(), "50")

	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestPurchases_CreationOrder(t *testing.T) {
	s := store.NewMemory()
	tokens := NewTokens(s)
	userID := seedUser(t, s, 0)

	ctx := context.Background()
	for _, id := range []string{"50", "300", "100"} {
		_, err := tokens.Purchase(ctx, userID, id)
		require.NoError(t, err)
	}

	purchases, err := tokens.Purchases(ctx, userID)
	require.NoError(t, err)
	require.Len(t, purchases, 3)
	assert.Equal(t, "50", purchases[0].PackageID)
	assert.Equal(t, "300", purchases[1].PackageID)
	assert.Equal(t, "100", purchases[2].PackageID)

	balance, err := tokens.Balance(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 450, balance)
}

func TestPackageByID(t *testing.T) {
	pkg, ok := PackageByID("100")
	require.True(t, ok)
	assert.Equal(t, 100, pkg.Tokens)
	assert.Equal(t, 100, pkg.Price)
	assert.Equal(t, 0, pkg.BonusTokens)

	_, ok = PackageByID("9999")
	assert.False(t, ok)
}
