package models

import "time"

// order status is terminal: assigned once at creation time,
// never transitioned afterward
const (
	OrderStatusConfirmed = "confirmed"
	OrderStatusFailed    = "failed"
)

// Order is the durable record of a fulfillment attempt.
type Order struct {
	ID             uint64
	UserID         uint64
	Price          float64
	Status         string
	Message        string
	CreatedAt      time.Time
	IdempotencyKey *string
}
