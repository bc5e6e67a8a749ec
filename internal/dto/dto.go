package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// OrderRef accepts either a JSON string or a JSON number, since storefront
// clients send both.
type OrderRef string

func (r *OrderRef) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*r = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*r = OrderRef(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("order reference must be a string or number")
	}
	*r = OrderRef(n.String())
	return nil
}

type PaymentItem struct {
	Title    string `json:"title"`
	Quantity int    `json:"quantity"`
	Price    int64  `json:"price"`
}

type CreatePaymentRequest struct {
	Amount      float64       `json:"amount"`
	OrderID     OrderRef      `json:"orderId"`
	Description string        `json:"description"`
	Items       []PaymentItem `json:"items,omitempty"`
}

type CreatePaymentResponse struct {
	ConfirmationURL string `json:"confirmation_url"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type NotifyItem struct {
	Title    string `json:"title"`
	Quantity int    `json:"quantity"`
	Price    *int64 `json:"price,omitempty"`
}

type NotifyRequest struct {
	Type         string       `json:"type"` // "Order" or "B2B"
	Name         string       `json:"name"`
	Phone        string       `json:"phone,omitempty"`
	Email        string       `json:"email,omitempty"`
	Address      string       `json:"address,omitempty"`
	DeliveryTime string       `json:"deliveryTime,omitempty"`
	Comment      string       `json:"comment,omitempty"`
	Cart         []NotifyItem `json:"cart"`
}

type NotifyResponse struct {
	Status      string `json:"status"`
	EmailStatus string `json:"emailStatus,omitempty"`
}

type NotifyErrorResponse struct {
	Message string `json:"message"`
}

type WebhookAck struct {
	OK bool `json:"ok"`
}

type WebhookIgnored struct {
	Status string `json:"status"`
}
