package tests

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"travel/internal/chapa"
	"travel/internal/domain"
	"travel/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK PAYMENT REPOSITORY
// ──────────────────────────────────────────────

// MockPaymentRepository is a mock implementation of PaymentRepository. Its
// MarkStatus mirrors the SQL compare-and-set: a payment leaves pending
// exactly once.
type MockPaymentRepository struct {
	mu       sync.RWMutex
	payments map[string]*domain.Payment // keyed by tx_ref

	// Counters for verification
	CreateCallCount     int32
	MarkStatusCallCount int32

	// Error injection
	CreateError     error
	MarkStatusError error
}

// NewMockPaymentRepository creates a new mock payment repository.
func NewMockPaymentRepository() *MockPaymentRepository {
	return &MockPaymentRepository{
		payments: make(map[string]*domain.Payment),
	}
}

// AddPayment adds a payment to the mock repository.
func (m *MockPaymentRepository) AddPayment(payment *domain.Payment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments[payment.TxRef] = payment
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.payments[payment.TxRef]; exists {
		return errors.New("duplicate tx_ref")
	}
	copy := *payment
	m.payments[payment.TxRef] = &copy
	return nil
}

func (m *MockPaymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.payments {
		if p.ID == id {
			copy := *p
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockPaymentRepository) GetByTxRef(ctx context.Context, txRef string) (*domain.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	payment, ok := m.payments[txRef]
	if !ok {
		return nil, repository.ErrNotFound
	}
	// Return a copy to avoid mutation issues.
	copy := *payment
	return &copy, nil
}

func (m *MockPaymentRepository) MarkStatus(ctx context.Context, txRef string, status domain.PaymentStatus) (bool, error) {
	atomic.AddInt32(&m.MarkStatusCallCount, 1)
	if m.MarkStatusError != nil {
		return false, m.MarkStatusError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	payment, ok := m.payments[txRef]
	if !ok {
		return false, repository.ErrNotFound
	}
	if payment.Status != domain.PaymentStatusPending {
		return false, nil
	}
	payment.Status = status
	payment.UpdatedAt = time.Now()
	return true, nil
}

// GetPayment returns the payment by tx_ref for test assertions.
func (m *MockPaymentRepository) GetPayment(txRef string) *domain.Payment {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.payments[txRef]
}

// CountPayments returns the number of stored payments.
func (m *MockPaymentRepository) CountPayments() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.payments)
}

// ──────────────────────────────────────────────
// MOCK BOOKING REPOSITORY
// ──────────────────────────────────────────────

// MockBookingRepository is a mock implementation of BookingRepository.
type MockBookingRepository struct {
	mu       sync.RWMutex
	bookings map[string]*domain.Booking
	emails   map[string]string

	// Error injection
	GetByIDError    error
	GuestEmailError error
}

// NewMockBookingRepository creates a new mock booking repository.
func NewMockBookingRepository() *MockBookingRepository {
	return &MockBookingRepository{
		bookings: make(map[string]*domain.Booking),
		emails:   make(map[string]string),
	}
}

// AddBooking adds a booking and its guest contact to the mock repository.
func (m *MockBookingRepository) AddBooking(booking *domain.Booking, guestEmail string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings[booking.ID] = booking
	m.emails[booking.ID] = guestEmail
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	if m.GetByIDError != nil {
		return nil, m.GetByIDError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	booking, ok := m.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *booking
	return &copy, nil
}

func (m *MockBookingRepository) GuestEmail(ctx context.Context, bookingID string) (string, error) {
	if m.GuestEmailError != nil {
		return "", m.GuestEmailError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	email, ok := m.emails[bookingID]
	if !ok {
		return "", repository.ErrNotFound
	}
	return email, nil
}

// ──────────────────────────────────────────────
// MOCK GATEWAY
// ──────────────────────────────────────────────

// MockGateway is a scripted implementation of the payment gateway.
type MockGateway struct {
	mu           sync.Mutex
	initRequests []chapa.InitializeRequest

	// Scripted results
	InitializeResult *chapa.Checkout
	InitializeError  error
	VerifyResult     *chapa.VerifyResult
	VerifyError      error

	// Counters for verification
	InitializeCallCount int32
	VerifyCallCount     int32
}

// NewMockGateway creates a new mock gateway.
func NewMockGateway() *MockGateway {
	return &MockGateway{}
}

func (m *MockGateway) Initialize(ctx context.Context, req chapa.InitializeRequest) (*chapa.Checkout, error) {
	atomic.AddInt32(&m.InitializeCallCount, 1)
	m.mu.Lock()
	m.initRequests = append(m.initRequests, req)
	m.mu.Unlock()
	if m.InitializeError != nil {
		return nil, m.InitializeError
	}
	if m.InitializeResult != nil {
		result := *m.InitializeResult
		return &result, nil
	}
	return &chapa.Checkout{CheckoutURL: "https://checkout.example/session"}, nil
}

func (m *MockGateway) Verify(ctx context.Context, txRef string) (*chapa.VerifyResult, error) {
	atomic.AddInt32(&m.VerifyCallCount, 1)
	if m.VerifyError != nil {
		return nil, m.VerifyError
	}
	if m.VerifyResult != nil {
		result := *m.VerifyResult
		return &result, nil
	}
	return &chapa.VerifyResult{Status: "failed"}, nil
}

// InitializeRequests returns the captured initialize payloads.
func (m *MockGateway) InitializeRequests() []chapa.InitializeRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]chapa.InitializeRequest, len(m.initRequests))
	copy(result, m.initRequests)
	return result
}

// ──────────────────────────────────────────────
// MOCK LOCK STORE
// ──────────────────────────────────────────────

// MockLockStore is a mock implementation of the initiation lock store.
type MockLockStore struct {
	// AcquireResult is returned by AcquireInitiationLock. Defaults to
	// acquired.
	AcquireResult bool
	AcquireError  error

	AcquireCallCount int32
	ReleaseCallCount int32
}

// NewMockLockStore creates a mock lock store that always grants the lock.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{AcquireResult: true}
}

func (m *MockLockStore) AcquireInitiationLock(ctx context.Context, bookingID string, ttl time.Duration) (bool, error) {
	atomic.AddInt32(&m.AcquireCallCount, 1)
	if m.AcquireError != nil {
		return false, m.AcquireError
	}
	return m.AcquireResult, nil
}

func (m *MockLockStore) ReleaseInitiationLock(ctx context.Context, bookingID string) error {
	atomic.AddInt32(&m.ReleaseCallCount, 1)
	return nil
}

// ──────────────────────────────────────────────
// NOTIFICATION TEST DOUBLES
// ──────────────────────────────────────────────

// CountingNotifier records completion events for verification.
type CountingNotifier struct {
	CallCount int32

	mu       sync.Mutex
	payments []*domain.Payment
}

// NewCountingNotifier creates a new CountingNotifier.
func NewCountingNotifier() *CountingNotifier {
	return &CountingNotifier{}
}

func (n *CountingNotifier) PaymentCompleted(payment *domain.Payment) {
	atomic.AddInt32(&n.CallCount, 1)
	n.mu.Lock()
	defer n.mu.Unlock()
	n.payments = append(n.payments, payment)
}

// Payments returns the recorded completion events.
func (n *CountingNotifier) Payments() []*domain.Payment {
	n.mu.Lock()
	defer n.mu.Unlock()
	result := make([]*domain.Payment, len(n.payments))
	copy(result, n.payments)
	return result
}

// SentMessage is a message captured by RecordingSender.
type SentMessage struct {
	To      string
	Subject string
	Body    string
}

// RecordingSender records sent notifications for verification.
type RecordingSender struct {
	mu       sync.Mutex
	messages []SentMessage

	// Error injection
	SendError error

	// Optional gate; when set, Send blocks until it is closed.
	Block chan struct{}
}

// NewRecordingSender creates a new RecordingSender.
func NewRecordingSender() *RecordingSender {
	return &RecordingSender{}
}

func (s *RecordingSender) Send(ctx context.Context, to, subject, body string) error {
	if s.Block != nil {
		<-s.Block
	}
	s.mu.Lock()
	s.messages = append(s.messages, SentMessage{To: to, Subject: subject, Body: body})
	s.mu.Unlock()
	return s.SendError
}

// Messages returns the captured messages.
func (s *RecordingSender) Messages() []SentMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]SentMessage, len(s.messages))
	copy(result, s.messages)
	return result
}
