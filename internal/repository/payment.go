package repository

import (
	"context"

	"travel/internal/domain"
)

// PaymentRepository defines the persistence operations for payments.
type PaymentRepository interface {
	// Create persists a new payment.
	Create(ctx context.Context, payment *domain.Payment) error

	// GetByID retrieves a payment by ID.
	GetByID(ctx context.Context, id string) (*domain.Payment, error)

	// GetByTxRef retrieves a payment by its transaction reference.
	GetByTxRef(ctx context.Context, txRef string) (*domain.Payment, error)

	// MarkStatus transitions the payment identified by txRef from pending
	// to the given terminal status. It returns true only for the call that
	// performed the transition; once a payment is terminal, further calls
	// return false. Returns ErrNotFound for an unknown txRef.
	MarkStatus(ctx context.Context, txRef string, status domain.PaymentStatus) (bool, error)
}
