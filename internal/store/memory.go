package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/example/spontan/internal/models"
)

// Memory is an in-process Store used by tests and the memory dev mode. A
// single mutex serializes every operation, which trivially satisfies the
// per-user and per-order atomicity contract.
type Memory struct {
	mu            sync.Mutex
	users         map[uuid.UUID]*models.User
	verifications []*models.SMSVerification
	orders        map[uuid.UUID]*models.Order
	orderSeq      []uuid.UUID
	purchases     []*models.TokenPurchase
	events        map[uuid.UUID]*models.Event
	checkins      []*models.EventCheckin
}

// NewMemory creates an empty Memory store.
func NewMemory() *Memory {
	return &Memory{
		users:  make(map[uuid.UUID]*models.User),
		orders: make(map[uuid.UUID]*models.Order),
		events: make(map[uuid.UUID]*models.Event),
	}
}

// stamp fills in the columns gorm hooks would set.
func stamp(b *models.BaseModel) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	now := time.Now()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
}

func (s *Memory) CreateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stamp(&user.BaseModel)
	if user.Role == "" {
		user.Role = models.RoleClient
	}
	clone := *user
	s.users[user.ID] = &clone
	return nil
}

func (s *Memory) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *user
	return &clone, nil
}

func (s *Memory) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, ErrNotFound
}

func (s *Memory) VerifyUserByPhone(ctx context.Context, phone string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.Phone == phone {
			user.Verified = true
			user.UpdatedAt = time.Now()
			clone := *user
			return &clone, nil
		}
	}
	return nil, ErrNotFound
}

func (s *Memory) DebitTokens(ctx context.Context, userID uuid.UUID, amount int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return 0, ErrNotFound
	}
	if user.Tokens < amount {
		return user.Tokens, ErrInsufficientTokens
	}
	user.Tokens -= amount
	user.UpdatedAt = time.Now()
	return user.Tokens, nil
}

func (s *Memory) CreditTokens(ctx context.Context, userID uuid.UUID, amount int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return 0, ErrNotFound
	}
	user.Tokens += amount
	user.UpdatedAt = time.Now()
	return user.Tokens, nil
}

func (s *Memory) CreateVerification(ctx context.Context, v *models.SMSVerification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stamp(&v.BaseModel)
	clone := *v
	s.verifications = append(s.verifications, &clone)
	return nil
}

func (s *Memory) LatestVerification(ctx context.Context, phone string) (*models.SMSVerification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := len(s.verifications) - 1; i >= 0; i-- {
		if s.verifications[i].Phone == phone {
			clone := *s.verifications[i]
			return &clone, nil
		}
	}
	return nil, ErrNotFound
}

func (s *Memory) MarkVerificationUsed(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, v := range s.verifications {
		if v.ID == id {
			now := time.Now()
			v.Verified = true
			v.UsedAt = &now
			return nil
		}
	}
	return ErrNotFound
}

func (s *Memory) CreateOrder(ctx context.Context, order *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stamp(&order.BaseModel)
	clone := *order
	s.orders[order.ID] = &clone
	s.orderSeq = append(s.orderSeq, order.ID)
	return nil
}

func (s *Memory) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *order
	return &clone, nil
}

func (s *Memory) ListOrders(ctx context.Context, filter OrderFilter) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []models.Order
	for _, id := range s.orderSeq {
		order := s.orders[id]
		if len(filter.Statuses) > 0 && !contains(filter.Statuses, order.Status) {
			continue
		}
		if filter.UserID != nil && order.UserID != *filter.UserID {
			continue
		}
		result = append(result, *order)
	}
	return result, nil
}

func (s *Memory) UpdateOrderStatus(ctx context.Context, id uuid.UUID, from, to string) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	if order.Status != from {
		return nil, ErrStatusConflict
	}
	order.Status = to
	order.UpdatedAt = time.Now()
	clone := *order
	return &clone, nil
}

func (s *Memory) GetOrderByPickupCode(ctx context.Context, code string) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range s.orderSeq {
		if s.orders[id].PickupCode == code {
			clone := *s.orders[id]
			return &clone, nil
		}
	}
	return nil, ErrNotFound
}

func (s *Memory) OpenOrderCodeExists(ctx context.Context, code string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, order := range s.orders {
		if order.PickupCode == code && !order.IsTerminal() {
			return true, nil
		}
	}
	return false, nil
}

func (s *Memory) CreatePurchase(ctx context.Context, purchase *models.TokenPurchase) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stamp(&purchase.BaseModel)
	clone := *purchase
	s.purchases = append(s.purchases, &clone)
	return nil
}

func (s *Memory) ListPurchases(ctx context.Context, userID uuid.UUID) ([]models.TokenPurchase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []models.TokenPurchase
	for _, p := range s.purchases {
		if p.UserID == userID {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (s *Memory) CreateEvent(ctx context.Context, event *models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stamp(&event.BaseModel)
	clone := *event
	s.events[event.ID] = &clone
	return nil
}

func (s *Memory) GetEventByCode(ctx context.Context, code string) (*models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, event := range s.events {
		if event.Code == code {
			clone := *event
			return &clone, nil
		}
	}
	return nil, ErrNotFound
}

func (s *Memory) CreateCheckin(ctx context.Context, checkin *models.EventCheckin) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stamp(&checkin.BaseModel)
	clone := *checkin
	s.checkins = append(s.checkins, &clone)
	return nil
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
