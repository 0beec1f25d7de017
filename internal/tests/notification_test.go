package tests

import (
	"errors"
	"strings"
	"testing"

	"travel/internal/service"
)

// ──────────────────────────────────────────────
// 4. NOTIFICATION DISPATCHER
// ──────────────────────────────────────────────

func TestDispatcher_DeliversConfirmation(t *testing.T) {
	t.Parallel()

	bookingRepo := NewMockBookingRepository()
	bookingRepo.AddBooking(newTestBooking("123"), "guest@example.com")

	sender := NewRecordingSender()
	dispatcher := service.NewNotificationDispatcher(bookingRepo, sender, 8)

	payment := newPendingPayment("booking-123-abcd1234")
	dispatcher.PaymentCompleted(payment)
	dispatcher.Stop()

	messages := sender.Messages()
	if len(messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(messages))
	}

	msg := messages[0]
	if msg.To != "guest@example.com" {
		t.Errorf("unexpected recipient: %s", msg.To)
	}
	if msg.Subject != "Payment Confirmation - Booking #123" {
		t.Errorf("unexpected subject: %s", msg.Subject)
	}
	if !strings.Contains(msg.Body, "booking-123-abcd1234") {
		t.Error("body should contain the transaction reference")
	}
	if !strings.Contains(msg.Body, "1500.00 ETB") {
		t.Error("body should contain the amount and currency")
	}
}

func TestDispatcher_SenderFailure_Absorbed(t *testing.T) {
	t.Parallel()

	bookingRepo := NewMockBookingRepository()
	bookingRepo.AddBooking(newTestBooking("123"), "guest@example.com")

	sender := NewRecordingSender()
	sender.SendError = errors.New("smtp unavailable")
	dispatcher := service.NewNotificationDispatcher(bookingRepo, sender, 8)

	// Must not panic or block the caller.
	dispatcher.PaymentCompleted(newPendingPayment("booking-123-abcd1234"))
	dispatcher.Stop()

	if len(sender.Messages()) != 1 {
		t.Error("expected one delivery attempt")
	}
}

func TestDispatcher_UnknownBooking_SkipsDelivery(t *testing.T) {
	t.Parallel()

	sender := NewRecordingSender()
	dispatcher := service.NewNotificationDispatcher(NewMockBookingRepository(), sender, 8)

	dispatcher.PaymentCompleted(newPendingPayment("booking-123-abcd1234"))
	dispatcher.Stop()

	if len(sender.Messages()) != 0 {
		t.Error("no delivery expected when the guest contact cannot be resolved")
	}
}

func TestDispatcher_FullQueue_DropsWithoutBlocking(t *testing.T) {
	t.Parallel()

	bookingRepo := NewMockBookingRepository()
	bookingRepo.AddBooking(newTestBooking("123"), "guest@example.com")

	sender := NewRecordingSender()
	sender.Block = make(chan struct{})
	dispatcher := service.NewNotificationDispatcher(bookingRepo, sender, 1)

	// The worker picks up the first job and blocks in Send; the second
	// fills the queue; the rest must be dropped without blocking here.
	for i := 0; i < 5; i++ {
		dispatcher.PaymentCompleted(newPendingPayment("booking-123-abcd1234"))
	}

	close(sender.Block)
	dispatcher.Stop()

	if got := len(sender.Messages()); got > 2 {
		t.Errorf("expected at most 2 deliveries after drops, got %d", got)
	}
}
