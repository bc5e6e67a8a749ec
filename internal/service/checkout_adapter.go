package service

import (
	"context"

	"freshmarket/internal/cart"
	"freshmarket/internal/checkout"
	"freshmarket/internal/dto"
)

// Adapters that let a checkout.Session run against the in-process services.

type checkoutInitiator struct {
	payments PaymentService
}

func NewCheckoutInitiator(payments PaymentService) checkout.PaymentInitiator {
	return &checkoutInitiator{payments: payments}
}

func (a *checkoutInitiator) CreatePayment(ctx context.Context, amount int64, orderRef, description string, lines []cart.Line) (string, error) {
	items := make([]dto.PaymentItem, len(lines))
	for i, l := range lines {
		items[i] = dto.PaymentItem{Title: l.Title, Quantity: l.Quantity, Price: l.Price}
	}
	resp, err := a.payments.CreateSession(ctx, &dto.CreatePaymentRequest{
		Amount:      float64(amount),
		OrderID:     dto.OrderRef(orderRef),
		Description: description,
		Items:       items,
	})
	if err != nil {
		return "", err
	}
	return resp.ConfirmationURL, nil
}

type checkoutNotifier struct {
	notify NotifyService
}

func NewCheckoutNotifier(notify NotifyService) checkout.Notifier {
	return &checkoutNotifier{notify: notify}
}

func (a *checkoutNotifier) SendOrder(ctx context.Context, notice checkout.OrderNotice) error {
	items := make([]dto.NotifyItem, len(notice.Lines))
	for i, l := range notice.Lines {
		price := l.Price
		items[i] = dto.NotifyItem{
			Title:    l.Title,
			Quantity: l.Quantity,
			Price:    &price,
		}
	}

	_, err := a.notify.Send(ctx, &dto.NotifyRequest{
		Type:         "Order",
		Name:         notice.Name,
		Phone:        notice.Phone,
		Email:        notice.Email,
		Address:      notice.Address,
		DeliveryTime: notice.DeliveryTime,
		Cart:         items,
	})
	return err
}
