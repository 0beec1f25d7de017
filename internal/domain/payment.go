package domain

import (
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentStatus represents the current status of a payment.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// Terminal reports whether the status permits no further transition.
func (s PaymentStatus) Terminal() bool {
	return s == PaymentStatusCompleted || s == PaymentStatusFailed
}

// Payment represents a charge raised against a booking through the hosted
// payment gateway. Amount, Currency and TxRef are fixed at initiation; only
// Status and UpdatedAt change afterwards.
type Payment struct {
	ID                   string
	BookingID            string
	Amount               decimal.Decimal
	Currency             string
	TxRef                string
	GatewayTransactionID string
	CheckoutURL          string
	Status               PaymentStatus
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// NewTxRef generates a transaction reference for a booking. The random
// suffix keeps references from repeated initiations of the same booking
// distinct.
func NewTxRef(bookingID string) string {
	u := uuid.New()
	return fmt.Sprintf("booking-%s-%s", bookingID, hex.EncodeToString(u[:4]))
}
