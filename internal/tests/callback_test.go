package tests

import (
	"context"
	"fmt"
	"testing"

	"travel/internal/chapa"
	"travel/internal/domain"
	"travel/internal/service"
)

// ──────────────────────────────────────────────
// 3. CALLBACK PAGE
// ──────────────────────────────────────────────

func TestCallback_MissingTxRef_RendersError(t *testing.T) {
	t.Parallel()

	svc := service.NewPaymentService(NewMockPaymentRepository(), NewMockBookingRepository(), NewMockGateway(), nil, nil, "ETB")

	result := svc.Callback(context.Background(), "")
	if result.Status != service.CallbackStatusError {
		t.Errorf("expected error status, got %s", result.Status)
	}
	if result.Message != "Missing tx_ref" {
		t.Errorf("unexpected message: %s", result.Message)
	}
}

func TestCallback_UnknownPayment_RendersError(t *testing.T) {
	t.Parallel()

	gateway := NewMockGateway()
	svc := service.NewPaymentService(NewMockPaymentRepository(), NewMockBookingRepository(), gateway, nil, nil, "ETB")

	result := svc.Callback(context.Background(), "booking-999-deadbeef")
	if result.Status != service.CallbackStatusError {
		t.Errorf("expected error status, got %s", result.Status)
	}
	if result.Message != "Payment not found" {
		t.Errorf("unexpected message: %s", result.Message)
	}
	if gateway.VerifyCallCount != 0 {
		t.Error("gateway must not be called for an unknown payment")
	}
}

func TestCallback_Success_CompletesAndNotifies(t *testing.T) {
	t.Parallel()

	paymentRepo := NewMockPaymentRepository()
	paymentRepo.AddPayment(newPendingPayment("booking-123-abcd1234"))

	bookingRepo := NewMockBookingRepository()
	bookingRepo.AddBooking(newTestBooking("123"), "guest@example.com")

	gateway := NewMockGateway()
	gateway.VerifyResult = &chapa.VerifyResult{Status: "success"}

	notifier := NewCountingNotifier()
	svc := service.NewPaymentService(paymentRepo, bookingRepo, gateway, notifier, nil, "ETB")

	result := svc.Callback(context.Background(), "booking-123-abcd1234")
	if result.Status != service.CallbackStatusSuccess {
		t.Errorf("expected success status, got %s", result.Status)
	}

	if result.Payment == nil || result.Payment.Status != domain.PaymentStatusCompleted {
		t.Error("expected completed payment in result")
	}

	if result.Booking == nil || result.Booking.ID != "123" {
		t.Error("expected booking details for the page")
	}

	if stored := paymentRepo.GetPayment("booking-123-abcd1234"); stored.Status != domain.PaymentStatusCompleted {
		t.Errorf("expected stored status completed, got %s", stored.Status)
	}

	if notifier.CallCount != 1 {
		t.Errorf("expected one notification, got %d", notifier.CallCount)
	}
}

func TestCallback_GatewayFailedStatus_MarksFailed(t *testing.T) {
	t.Parallel()

	paymentRepo := NewMockPaymentRepository()
	paymentRepo.AddPayment(newPendingPayment("booking-123-abcd1234"))

	bookingRepo := NewMockBookingRepository()
	bookingRepo.AddBooking(newTestBooking("123"), "guest@example.com")

	gateway := NewMockGateway()
	gateway.VerifyResult = &chapa.VerifyResult{Status: "failed", Message: "Transaction declined"}

	svc := service.NewPaymentService(paymentRepo, bookingRepo, gateway, nil, nil, "ETB")

	result := svc.Callback(context.Background(), "booking-123-abcd1234")
	if result.Status != service.CallbackStatusFailed {
		t.Errorf("expected failed status, got %s", result.Status)
	}
	if result.Message != "Transaction declined" {
		t.Errorf("expected gateway message on the page, got %s", result.Message)
	}

	if stored := paymentRepo.GetPayment("booking-123-abcd1234"); stored.Status != domain.PaymentStatusFailed {
		t.Errorf("expected stored status failed, got %s", stored.Status)
	}
}

func TestCallback_GatewayUnreachable_RendersFailedButLeavesPending(t *testing.T) {
	t.Parallel()

	paymentRepo := NewMockPaymentRepository()
	paymentRepo.AddPayment(newPendingPayment("booking-123-abcd1234"))

	bookingRepo := NewMockBookingRepository()
	bookingRepo.AddBooking(newTestBooking("123"), "guest@example.com")

	gateway := NewMockGateway()
	gateway.VerifyError = fmt.Errorf("%w: timeout", chapa.ErrUnreachable)

	notifier := NewCountingNotifier()
	svc := service.NewPaymentService(paymentRepo, bookingRepo, gateway, notifier, nil, "ETB")

	result := svc.Callback(context.Background(), "booking-123-abcd1234")
	if result.Status != service.CallbackStatusFailed {
		t.Errorf("expected failed view, got %s", result.Status)
	}

	// A transient outage must not settle the payment.
	if stored := paymentRepo.GetPayment("booking-123-abcd1234"); stored.Status != domain.PaymentStatusPending {
		t.Errorf("payment must stay pending, got %s", stored.Status)
	}

	if notifier.CallCount != 0 {
		t.Error("no notification expected")
	}
}

func TestCallback_NotConfigured_RendersErrorAndLeavesPending(t *testing.T) {
	t.Parallel()

	paymentRepo := NewMockPaymentRepository()
	paymentRepo.AddPayment(newPendingPayment("booking-123-abcd1234"))

	bookingRepo := NewMockBookingRepository()
	bookingRepo.AddBooking(newTestBooking("123"), "guest@example.com")

	gateway := NewMockGateway()
	gateway.VerifyError = chapa.ErrNotConfigured

	svc := service.NewPaymentService(paymentRepo, bookingRepo, gateway, nil, nil, "ETB")

	result := svc.Callback(context.Background(), "booking-123-abcd1234")
	if result.Status != service.CallbackStatusError {
		t.Errorf("expected error view, got %s", result.Status)
	}
	if result.Message != "Payment verification unavailable" {
		t.Errorf("unexpected message: %s", result.Message)
	}

	if stored := paymentRepo.GetPayment("booking-123-abcd1234"); stored.Status != domain.PaymentStatusPending {
		t.Errorf("payment must stay pending, got %s", stored.Status)
	}
}

func TestCallback_AfterCompletion_LateFailureStillShowsSuccess(t *testing.T) {
	t.Parallel()

	payment := newPendingPayment("booking-123-abcd1234")
	payment.Status = domain.PaymentStatusCompleted
	paymentRepo := NewMockPaymentRepository()
	paymentRepo.AddPayment(payment)

	bookingRepo := NewMockBookingRepository()
	bookingRepo.AddBooking(newTestBooking("123"), "guest@example.com")

	gateway := NewMockGateway()
	gateway.VerifyResult = &chapa.VerifyResult{Status: "failed"}

	notifier := NewCountingNotifier()
	svc := service.NewPaymentService(paymentRepo, bookingRepo, gateway, notifier, nil, "ETB")

	result := svc.Callback(context.Background(), "booking-123-abcd1234")
	if result.Status != service.CallbackStatusSuccess {
		t.Errorf("completed payment must render success, got %s", result.Status)
	}

	if stored := paymentRepo.GetPayment("booking-123-abcd1234"); stored.Status != domain.PaymentStatusCompleted {
		t.Errorf("terminal state flipped to %s", stored.Status)
	}

	if notifier.CallCount != 0 {
		t.Error("no new notification for an already-completed payment")
	}
}
