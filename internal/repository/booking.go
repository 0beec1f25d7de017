package repository

import (
	"context"

	"travel/internal/domain"
)

// BookingRepository is the read-only view of bookings the payment core
// depends on. Booking lifecycle is owned by the booking subsystem.
type BookingRepository interface {
	// GetByID retrieves a booking by ID.
	GetByID(ctx context.Context, id string) (*domain.Booking, error)

	// GuestEmail resolves the contact address of the booking's guest.
	GuestEmail(ctx context.Context, bookingID string) (string, error)
}
