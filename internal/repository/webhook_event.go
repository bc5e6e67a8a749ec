package repository

import (
	"context"
	"time"

	"freshmarket/internal/model"

	"gorm.io/gorm"
)

// WebhookEventRepository journals every received gateway event for the audit
// collaborator. It is append-only: the journal is not consulted to
// deduplicate processing.
type WebhookEventRepository interface {
	Record(ctx context.Context, event *model.WebhookEvent) error
	CountByPaymentID(ctx context.Context, paymentID string) (int64, error)
}

type webhookEventRepositoryImpl struct {
	db *gorm.DB
}

func NewWebhookEventRepository(db *gorm.DB) WebhookEventRepository {
	return &webhookEventRepositoryImpl{db: db}
}

func (r *webhookEventRepositoryImpl) Record(ctx context.Context, event *model.WebhookEvent) error {
	if event.ReceivedAt.IsZero() {
		event.ReceivedAt = time.Now()
	}
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *webhookEventRepositoryImpl) CountByPaymentID(ctx context.Context, paymentID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.WebhookEvent{}).
		Where("payment_id = ?", paymentID).
		Count(&count).Error

	return count, err
}
