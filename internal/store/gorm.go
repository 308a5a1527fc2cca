package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/spontan/internal/models"
)

// Gorm is the Postgres-backed Store.
type Gorm struct {
	db *gorm.DB
}

// NewGorm wraps a connected gorm.DB.
func NewGorm(db *gorm.DB) *Gorm {
	return &Gorm{db: db}
}

func (s *Gorm) CreateUser(ctx context.Context, user *models.User) error {
	return s.db.WithContext(ctx).Create(user).Error
}

func (s *Gorm) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *Gorm) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *Gorm) VerifyUserByPhone(ctx context.Context, phone string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "phone = ?", phone).Error; err != nil {
		return nil, translate(err)
	}

	if err := s.db.WithContext(ctx).Model(&user).Update("verified", true).Error; err != nil {
		return nil, err
	}
	user.Verified = true
	return &user, nil
}

// DebitTokens relies on a conditional UPDATE so concurrent debits against the
// same row cannot both pass the balance check.
func (s *Gorm) DebitTokens(ctx context.Context, userID uuid.UUID, amount int) (int, error) {
	res := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND tokens >= ?", userID, amount).
		UpdateColumn("tokens", gorm.Expr("tokens - ?", amount))
	if res.Error != nil {
		return 0, res.Error
	}

	if res.RowsAffected == 0 {
		user, err := s.GetUser(ctx, userID)
		if err != nil {
			return 0, err
		}
		return user.Tokens, ErrInsufficientTokens
	}

	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	return user.Tokens, nil
}

func (s *Gorm) CreditTokens(ctx context.Context, userID uuid.UUID, amount int) (int, error) {
	res := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("tokens", gorm.Expr("tokens + ?", amount))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, ErrNotFound
	}

	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	return user.Tokens, nil
}

func (s *Gorm) CreateVerification(ctx context.Context, v *models.SMSVerification) error {
	return s.db.WithContext(ctx).Create(v).Error
}

func (s *Gorm) LatestVerification(ctx context.Context, phone string) (*models.SMSVerification, error) {
	var v models.SMSVerification
	err := s.db.WithContext(ctx).
		Where("phone = ?", phone).
		Order("created_at desc").
		First(&v).Error
	if err != nil {
		return nil, translate(err)
	}
	return &v, nil
}

func (s *Gorm) MarkVerificationUsed(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Model(&models.SMSVerification{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"verified": true,
			"used_at":  gorm.Expr("now()"),
		}).Error
}

func (s *Gorm) CreateOrder(ctx context.Context, order *models.Order) error {
	return s.db.WithContext(ctx).Create(order).Error
}

func (s *Gorm) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := s.db.WithContext(ctx).First(&order, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

func (s *Gorm) ListOrders(ctx context.Context, filter OrderFilter) ([]models.Order, error) {
	query := s.db.WithContext(ctx).Model(&models.Order{})
	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", filter.Statuses)
	}
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateOrderStatus is a compare-and-swap keyed on the expected current
// status, so two racing transitions from the same state cannot both land.
func (s *Gorm) UpdateOrderStatus(ctx context.Context, id uuid.UUID, from, to string) (*models.Order, error) {
	res := s.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return nil, res.Error
	}

	if res.RowsAffected == 0 {
		if _, err := s.GetOrder(ctx, id); err != nil {
			return nil, err
		}
		return nil, ErrStatusConflict
	}

	return s.GetOrder(ctx, id)
}

func (s *Gorm) GetOrderByPickupCode(ctx context.Context, code string) (*models.Order, error) {
	var order models.Order
	if err := s.db.WithContext(ctx).First(&order, "pickup_code = ?", code).Error; err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

func (s *Gorm) OpenOrderCodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Order{}).
		Where("pickup_code = ? AND status NOT IN ?", code,
			[]string{models.OrderStatusPicked, models.OrderStatusCancelled}).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Gorm) CreatePurchase(ctx context.Context, purchase *models.TokenPurchase) error {
	return s.db.WithContext(ctx).Create(purchase).Error
}

func (s *Gorm) ListPurchases(ctx context.Context, userID uuid.UUID) ([]models.TokenPurchase, error) {
	var purchases []models.TokenPurchase
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at asc").
		Find(&purchases).Error
	if err != nil {
		return nil, err
	}
	return purchases, nil
}

func (s *Gorm) CreateEvent(ctx context.Context, event *models.Event) error {
	return s.db.WithContext(ctx).Create(event).Error
}

func (s *Gorm) GetEventByCode(ctx context.Context, code string) (*models.Event, error) {
	var event models.Event
	if err := s.db.WithContext(ctx).First(&event, "code = ?", code).Error; err != nil {
		return nil, translate(err)
	}
	return &event, nil
}

func (s *Gorm) CreateCheckin(ctx context.Context, checkin *models.EventCheckin) error {
	return s.db.WithContext(ctx).Create(checkin).Error
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
