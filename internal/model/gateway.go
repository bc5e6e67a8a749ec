package model

// Wire types for the payment gateway's webhook envelope.

type GatewayAmount struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

type GatewayPayment struct {
	ID          string            `json:"id"`
	Status      string            `json:"status"`
	Amount      GatewayAmount     `json:"amount"`
	Description string            `json:"description"`
	Metadata    map[string]string `json:"metadata"`
	Paid        bool              `json:"paid"`
}

type GatewayWebhookEvent struct {
	Type   string          `json:"type"`
	Event  string          `json:"event"`
	Object *GatewayPayment `json:"object"`
}

// Gateway event types with in-core handling; anything else is logged and
// ignored.
const (
	EventPaymentSucceeded      = "payment.succeeded"
	EventPaymentWaitingCapture = "payment.waiting_for_capture"
	EventPaymentCanceled       = "payment.canceled"
)
