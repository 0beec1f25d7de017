package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"travel/internal/chapa"
	"travel/internal/domain"
	"travel/internal/redis"
	"travel/internal/repository"
)

// Gateway is the interface to the external payment provider. Both calls are
// single-attempt; reconciliation re-drives them through its own entry points.
type Gateway interface {
	Initialize(ctx context.Context, req chapa.InitializeRequest) (*chapa.Checkout, error)
	Verify(ctx context.Context, txRef string) (*chapa.VerifyResult, error)
}

// Notifier receives completion events for asynchronous dispatch. The call
// must not block and must not fail the caller.
type Notifier interface {
	PaymentCompleted(payment *domain.Payment)
}

// initiationLockTTL caps how long a crashed initiation can hold the
// per-booking lock.
const initiationLockTTL = 30 * time.Second

// PaymentService owns payment initiation and the three reconciliation paths
// (poll-verify, webhook, callback page). The repository's status
// compare-and-set is the single synchronization point between them.
type PaymentService struct {
	payments        repository.PaymentRepository
	bookings        repository.BookingRepository
	gateway         Gateway
	notifier        Notifier
	locks           redis.LockStoreInterface
	defaultCurrency string
}

// NewPaymentService creates a new PaymentService. locks may be nil, in
// which case double-submit initiations are not guarded.
func NewPaymentService(
	payments repository.PaymentRepository,
	bookings repository.BookingRepository,
	gateway Gateway,
	notifier Notifier,
	locks redis.LockStoreInterface,
	defaultCurrency string,
) *PaymentService {
	return &PaymentService{
		payments:        payments,
		bookings:        bookings,
		gateway:         gateway,
		notifier:        notifier,
		locks:           locks,
		defaultCurrency: defaultCurrency,
	}
}

// InitiateRequest contains the parameters for initiating a payment.
type InitiateRequest struct {
	BookingID   string
	Amount      string
	Currency    string
	Email       string
	FirstName   string
	LastName    string
	PhoneNumber string
	ReturnURL   string
	CallbackURL string
}

// Initiate validates the request, creates a hosted checkout session with
// the gateway and persists a pending payment. On any gateway failure no
// payment is persisted.
func (s *PaymentService) Initiate(ctx context.Context, req InitiateRequest) (*domain.Payment, error) {
	if req.BookingID == "" {
		return nil, ErrInvalidBookingID
	}
	if req.Email == "" {
		return nil, ErrEmailRequired
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	if s.locks != nil {
		ok, lockErr := s.locks.AcquireInitiationLock(ctx, req.BookingID, initiationLockTTL)
		if lockErr == nil {
			if !ok {
				return nil, ErrInitiationInProgress
			}
			defer func() {
				if err := s.locks.ReleaseInitiationLock(ctx, req.BookingID); err != nil {
					log.Printf("failed to release initiation lock for booking %s: %v", req.BookingID, err)
				}
			}()
		}
	}

	booking, err := s.bookings.GetByID(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}

	currency := req.Currency
	if currency == "" {
		currency = s.defaultCurrency
	}

	txRef := domain.NewTxRef(booking.ID)

	checkout, err := s.gateway.Initialize(ctx, chapa.InitializeRequest{
		Amount:      amount.String(),
		Currency:    currency,
		Email:       req.Email,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
		TxRef:       txRef,
		ReturnURL:   req.ReturnURL,
		CallbackURL: req.CallbackURL,
		Customization: chapa.Customization{
			Title:       "Payment",
			Description: fmt.Sprintf("Payment for booking id %s", booking.ID),
		},
	})
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	payment := &domain.Payment{
		ID:                   uuid.New().String(),
		BookingID:            booking.ID,
		Amount:               amount,
		Currency:             currency,
		TxRef:                txRef,
		GatewayTransactionID: checkout.TransactionID,
		CheckoutURL:          checkout.CheckoutURL,
		Status:               domain.PaymentStatusPending,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, err
	}

	return payment, nil
}

// VerifyResult is the outcome of the poll-verify path.
type VerifyResult struct {
	GatewayStatus string
	Payment       *domain.Payment
	Data          json.RawMessage
}

// Verify is the client-initiated reconciliation path: it re-checks the
// transaction with the gateway and applies the outcome. Gateway failures
// surface to the caller with the payment left unchanged.
func (s *PaymentService) Verify(ctx context.Context, txRef string) (*VerifyResult, error) {
	if txRef == "" {
		return nil, ErrInvalidTxRef
	}

	payment, err := s.payments.GetByTxRef(ctx, txRef)
	if err != nil {
		return nil, err
	}

	remote, err := s.gateway.Verify(ctx, txRef)
	if err != nil {
		return nil, err
	}

	status, err := s.applyOutcome(ctx, payment, remote.Status)
	if err != nil {
		return nil, err
	}
	payment.Status = status

	return &VerifyResult{
		GatewayStatus: remote.Status,
		Payment:       payment,
		Data:          remote.Data,
	}, nil
}

// WebhookEvent is the relevant subset of a gateway webhook delivery. Any
// additional fields in the payload are ignored.
type WebhookEvent struct {
	TxRef  string
	Status string
}

// HandleWebhook is the gateway-initiated reconciliation path. It trusts the
// pushed status without a verify round-trip and is idempotent under
// redelivery.
func (s *PaymentService) HandleWebhook(ctx context.Context, evt WebhookEvent) (*domain.Payment, error) {
	if evt.TxRef == "" {
		return nil, ErrInvalidTxRef
	}

	payment, err := s.payments.GetByTxRef(ctx, evt.TxRef)
	if err != nil {
		return nil, err
	}

	status, err := s.applyOutcome(ctx, payment, evt.Status)
	if err != nil {
		return nil, err
	}
	payment.Status = status

	return payment, nil
}

// Callback page statuses.
const (
	CallbackStatusUnknown = "unknown"
	CallbackStatusError   = "error"
	CallbackStatusSuccess = "success"
	CallbackStatusFailed  = "failed"
)

// CallbackResult is the renderable outcome of the browser-redirect path.
type CallbackResult struct {
	Status  string
	Message string
	Payment *domain.Payment
	Booking *domain.Booking
}

// Callback is the user-facing reconciliation path. The redirect parameters
// are client-controlled, so the transaction is re-verified against the
// gateway before the outcome is applied. It always produces a renderable
// result; gateway failures degrade to an error or failed view with the
// payment left unchanged.
func (s *PaymentService) Callback(ctx context.Context, txRef string) *CallbackResult {
	if txRef == "" {
		return &CallbackResult{Status: CallbackStatusError, Message: "Missing tx_ref"}
	}

	payment, err := s.payments.GetByTxRef(ctx, txRef)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &CallbackResult{Status: CallbackStatusError, Message: "Payment not found"}
		}
		log.Printf("callback: payment lookup failed for tx_ref %s: %v", txRef, err)
		return &CallbackResult{Status: CallbackStatusError, Message: "Payment lookup failed"}
	}

	// Best effort; the page renders without booking details if this fails.
	booking, err := s.bookings.GetByID(ctx, payment.BookingID)
	if err != nil {
		log.Printf("callback: booking lookup failed for payment %s: %v", payment.ID, err)
	}

	result := &CallbackResult{Payment: payment, Booking: booking}

	remote, err := s.gateway.Verify(ctx, txRef)
	if err != nil {
		if errors.Is(err, chapa.ErrNotConfigured) {
			result.Status = CallbackStatusError
			result.Message = "Payment verification unavailable"
			return result
		}
		result.Status = CallbackStatusFailed
		result.Message = "Payment verification failed."
		return result
	}

	status, err := s.applyOutcome(ctx, payment, remote.Status)
	if err != nil {
		log.Printf("callback: applying outcome failed for tx_ref %s: %v", txRef, err)
		result.Status = CallbackStatusError
		result.Message = "Payment update failed"
		return result
	}
	payment.Status = status

	if status == domain.PaymentStatusCompleted {
		result.Status = CallbackStatusSuccess
		result.Message = "Payment completed successfully."
	} else {
		result.Status = CallbackStatusFailed
		result.Message = remote.Message
		if result.Message == "" {
			result.Message = "Payment verification failed."
		}
	}

	return result
}

// applyOutcome is the shared normalization step of the three reconciliation
// paths. It maps the remote status onto the state machine, attempts the
// pending-to-terminal transition and dispatches the completion notification
// only on the call that performed the pending-to-completed edge. It returns
// the payment's settled status.
func (s *PaymentService) applyOutcome(ctx context.Context, payment *domain.Payment, remoteStatus string) (domain.PaymentStatus, error) {
	next := domain.PaymentStatusFailed
	if strings.EqualFold(remoteStatus, "success") {
		next = domain.PaymentStatusCompleted
	}

	transitioned, err := s.payments.MarkStatus(ctx, payment.TxRef, next)
	if err != nil {
		return payment.Status, err
	}

	if !transitioned {
		// Already terminal; a late contradictory report is a no-op.
		current, err := s.payments.GetByTxRef(ctx, payment.TxRef)
		if err != nil {
			return payment.Status, err
		}
		if current.Status != next {
			log.Printf("ignoring late %s report for tx_ref %s, already %s", next, payment.TxRef, current.Status)
		}
		return current.Status, nil
	}

	if next == domain.PaymentStatusCompleted && s.notifier != nil {
		completed := *payment
		completed.Status = next
		s.notifier.PaymentCompleted(&completed)
	}

	return next, nil
}
