package repository

import (
	"context"
	"time"

	"freshmarket/internal/model"

	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(ctx context.Context, tx *gorm.DB, order *model.Order) error
	CreateOrderItems(ctx context.Context, tx *gorm.DB, items []*model.OrderItem) error
	FindByPaymentID(ctx context.Context, paymentID string) (*model.Order, error)
	MarkPaid(ctx context.Context, tx *gorm.DB, paymentID string) error
	MarkWaitingCapture(ctx context.Context, tx *gorm.DB, paymentID string) error
	MarkCanceled(ctx context.Context, tx *gorm.DB, paymentID string) error
}

type orderRepoImpl struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepoImpl{
		db: db,
	}
}

func (r *orderRepoImpl) Create(ctx context.Context, tx *gorm.DB, order *model.Order) error {
	return tx.WithContext(ctx).Create(order).Error
}

func (r *orderRepoImpl) CreateOrderItems(ctx context.Context, tx *gorm.DB, items []*model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return tx.WithContext(ctx).Create(&items).Error
}

func (r *orderRepoImpl) FindByPaymentID(ctx context.Context, paymentID string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Where("payment_id = ?", paymentID).
		First(&order).Error

	if err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *orderRepoImpl) MarkPaid(ctx context.Context, tx *gorm.DB, paymentID string) error {
	return r.setStatus(ctx, tx, paymentID, model.OrderStatusPaid,
		[]string{model.OrderStatusPending, model.OrderStatusWaitingCapture})
}

func (r *orderRepoImpl) MarkWaitingCapture(ctx context.Context, tx *gorm.DB, paymentID string) error {
	return r.setStatus(ctx, tx, paymentID, model.OrderStatusWaitingCapture,
		[]string{model.OrderStatusPending})
}

func (r *orderRepoImpl) MarkCanceled(ctx context.Context, tx *gorm.DB, paymentID string) error {
	return r.setStatus(ctx, tx, paymentID, model.OrderStatusCanceled,
		[]string{model.OrderStatusPending, model.OrderStatusWaitingCapture})
}

// setStatus only moves forward from the listed prior statuses, which makes
// replayed webhook events harmless.
func (r *orderRepoImpl) setStatus(ctx context.Context, tx *gorm.DB, paymentID, status string, from []string) error {
	return tx.WithContext(ctx).Model(&model.Order{}).
		Where("payment_id = ? AND status IN ?", paymentID, from).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		}).Error
}
