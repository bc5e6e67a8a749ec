package model

import "time"

// Order statuses. PENDING orders were handed to the gateway and settle
// asynchronously via webhook; cash orders are recorded as PAID directly.
const (
	OrderStatusPending        = "PENDING"
	OrderStatusPaid           = "PAID"
	OrderStatusWaitingCapture = "WAITING_CAPTURE"
	OrderStatusCanceled       = "CANCELED"
)

type Order struct {
	OrderRef    string `gorm:"primaryKey;size:64;not null"` // minted per checkout attempt
	PaymentID   string `gorm:"size:64;index"`               // gateway payment id, set on session creation
	Status      string `gorm:"size:32;index;not null"`
	Amount      int64  `gorm:"not null"`
	Currency    string `gorm:"size:8;not null"`
	Description string `gorm:"size:512"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type OrderItem struct {
	ID uint `gorm:"primaryKey"`
	// FK → order.order_ref
	OrderRef  string `gorm:"size:64;index;not null"`
	Title     string `gorm:"size:256;not null"`
	Quantity  int    `gorm:"not null"`
	UnitPrice int64  `gorm:"not null"`

	CreatedAt time.Time
}

// WebhookEvent is the journal row written for every received gateway event,
// for the external audit collaborator. Rows are keyed by receipt, not by a
// gateway event id, so replays produce additional rows rather than conflicts.
type WebhookEvent struct {
	ID         uint   `gorm:"primaryKey"`
	EventType  string `gorm:"size:64;index"`
	PaymentID  string `gorm:"size:64;index"`
	Status     string `gorm:"size:32"`
	Amount     string `gorm:"size:32"`
	Currency   string `gorm:"size:8"`
	ReceivedAt time.Time
}
