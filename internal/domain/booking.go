package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Booking represents a guest's reservation of a listing. Bookings are owned
// by the booking subsystem; the payment core only reads them.
type Booking struct {
	ID         string
	ListingID  string
	GuestID    string
	StartDate  time.Time
	EndDate    time.Time
	TotalPrice decimal.Decimal
	CreatedAt  time.Time
}
