package service

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"freshmarket/internal/client"
	"freshmarket/internal/config"
	"freshmarket/internal/dto"
	"freshmarket/internal/model"
	"freshmarket/internal/repository"

	"gorm.io/gorm"
)

// PaymentService creates payment sessions with the external gateway and
// hands back the confirmation URL for the browser redirect. It does not
// retry; resubmission is the caller's responsibility.
type PaymentService interface {
	CreateSession(ctx context.Context, req *dto.CreatePaymentRequest) (*dto.CreatePaymentResponse, error)
}

type paymentServiceImpl struct {
	db        *gorm.DB
	gateway   client.GatewayClient
	orderRepo repository.OrderRepository
	cfg       *config.Config
	now       func() time.Time
}

func NewPaymentService(
	db *gorm.DB,
	gateway client.GatewayClient,
	orderRepo repository.OrderRepository,
	cfg *config.Config,
) PaymentService {
	return &paymentServiceImpl{
		db:        db,
		gateway:   gateway,
		orderRepo: orderRepo,
		cfg:       cfg,
		now:       time.Now,
	}
}

func (s *paymentServiceImpl) CreateSession(ctx context.Context, req *dto.CreatePaymentRequest) (*dto.CreatePaymentResponse, error) {
	// malformed input is rejected before any upstream call
	if req == nil || req.Amount <= 0 || req.OrderID == "" || req.Description == "" {
		return nil, ErrInvalidInput
	}

	// fail closed without revealing which credential is missing
	if !s.cfg.HasGatewayCredentials() {
		log.Println("payment: gateway credentials not configured")
		return nil, ErrPaymentUnavailable
	}

	orderRef := string(req.OrderID)
	amount := int64(math.Round(req.Amount))

	// Key is derived from order reference + wall clock, so it will not
	// collapse retries of the same attempt. Known weakness; a stable key
	// persisted per checkout attempt would be stronger.
	idempotencyKey := fmt.Sprintf("%s-%d", orderRef, s.now().UnixMilli())

	result, err := s.gateway.CreatePayment(ctx, &client.CreatePaymentParams{
		Amount:         amount,
		Description:    req.Description,
		OrderRef:       orderRef,
		IdempotencyKey: idempotencyKey,
	})
	if err != nil {
		log.Printf("payment: gateway create failed for order %s: %v", orderRef, err)
		return nil, ErrPaymentUnavailable
	}
	if result.ConfirmationURL == "" {
		log.Printf("payment: gateway response for order %s lacks confirmation url", orderRef)
		return nil, ErrPaymentUnavailable
	}

	// The session already exists at the gateway; a failed local write must
	// not lose the confirmation URL.
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.orderRepo.Create(ctx, tx, &model.Order{
			OrderRef:    orderRef,
			PaymentID:   result.PaymentID,
			Status:      model.OrderStatusPending,
			Amount:      amount,
			Currency:    "RUB",
			Description: req.Description,
		}); err != nil {
			return err
		}
		items := make([]*model.OrderItem, len(req.Items))
		for i, it := range req.Items {
			items[i] = &model.OrderItem{
				OrderRef:  orderRef,
				Title:     it.Title,
				Quantity:  it.Quantity,
				UnitPrice: it.Price,
			}
		}
		return s.orderRepo.CreateOrderItems(ctx, tx, items)
	})
	if err != nil {
		log.Printf("payment: store order %s: %v", orderRef, err)
	}

	return &dto.CreatePaymentResponse{
		ConfirmationURL: result.ConfirmationURL,
	}, nil
}
