package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"freshmarket/internal/model"
	"freshmarket/internal/repository"

	"gorm.io/gorm"
)

type WebhookOutcome string

const (
	OutcomeProcessed WebhookOutcome = "processed"
	OutcomeIgnored   WebhookOutcome = "ignored"
)

// WebhookService ingests asynchronous payment-status events from the
// gateway. Processing failures are swallowed: the caller always acknowledges
// the sender, so the gateway's retry policy cannot amplify into a storm.
type WebhookService interface {
	Process(ctx context.Context, body []byte) WebhookOutcome
}

type webhookServiceImpl struct {
	db        *gorm.DB
	orderRepo repository.OrderRepository
	eventRepo repository.WebhookEventRepository
	now       func() time.Time
}

func NewWebhookService(
	db *gorm.DB,
	orderRepo repository.OrderRepository,
	eventRepo repository.WebhookEventRepository,
) WebhookService {
	return &webhookServiceImpl{
		db:        db,
		orderRepo: orderRepo,
		eventRepo: eventRepo,
		now:       time.Now,
	}
}

func (s *webhookServiceImpl) Process(ctx context.Context, body []byte) WebhookOutcome {
	var event model.GatewayWebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		log.Printf("webhook: undecodable payload: %v", err)
		return OutcomeIgnored
	}

	if event.Event == "" || event.Object == nil || event.Object.ID == "" {
		log.Printf("webhook: envelope lacks event type or payment object, ignoring")
		return OutcomeIgnored
	}

	receivedAt := s.now()
	payment := event.Object

	// one audit line per event, for the external audit collaborator
	log.Printf("webhook: event=%s payment=%s status=%s amount=%s %s description=%q received=%s",
		event.Event, payment.ID, payment.Status,
		payment.Amount.Value, payment.Amount.Currency,
		payment.Description, receivedAt.Format(time.RFC3339))

	if err := s.eventRepo.Record(ctx, &model.WebhookEvent{
		EventType:  event.Event,
		PaymentID:  payment.ID,
		Status:     payment.Status,
		Amount:     payment.Amount.Value,
		Currency:   payment.Amount.Currency,
		ReceivedAt: receivedAt,
	}); err != nil {
		log.Printf("webhook: journal write failed for payment %s: %v", payment.ID, err)
	}

	var err error
	switch event.Event {
	case model.EventPaymentSucceeded:
		err = s.handlePaymentSucceeded(ctx, payment)
	case model.EventPaymentWaitingCapture:
		err = s.handleWaitingCapture(ctx, payment)
	case model.EventPaymentCanceled:
		err = s.handlePaymentCanceled(ctx, payment)
	default:
		log.Printf("webhook: unrecognized event type %q, ignoring", event.Event)
		return OutcomeIgnored
	}

	if err != nil {
		// swallowed: the sender still gets an acknowledgement
		log.Printf("webhook: processing %s for payment %s: %v", event.Event, payment.ID, err)
	}

	return OutcomeProcessed
}

// Extension points for downstream order-status mutation, one per recognized
// event type.

func (s *webhookServiceImpl) handlePaymentSucceeded(ctx context.Context, payment *model.GatewayPayment) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.orderRepo.MarkPaid(ctx, tx, payment.ID)
	})
}

func (s *webhookServiceImpl) handleWaitingCapture(ctx context.Context, payment *model.GatewayPayment) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.orderRepo.MarkWaitingCapture(ctx, tx, payment.ID)
	})
}

func (s *webhookServiceImpl) handlePaymentCanceled(ctx context.Context, payment *model.GatewayPayment) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.orderRepo.MarkCanceled(ctx, tx, payment.ID)
	})
}
