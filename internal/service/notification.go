package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"travel/internal/domain"
	"travel/internal/repository"
)

// NotificationSender delivers a fully-formed message to a recipient
// address. Implementations own their transport and retry policy.
type NotificationSender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// LogSender is a NotificationSender that writes messages to the
// application log.
type LogSender struct {
	from string
}

// NewLogSender creates a new LogSender.
func NewLogSender(from string) *LogSender {
	return &LogSender{from: from}
}

// Send logs the message instead of delivering it.
func (s *LogSender) Send(ctx context.Context, to, subject, body string) error {
	log.Printf("[NOTIFICATION] From=%s, To=%s, Subject=%s", s.from, to, subject)
	return nil
}

// confirmationJob is a queued payment confirmation.
type confirmationJob struct {
	BookingID string
	Amount    string
	Currency  string
	TxRef     string
}

// deliveryTimeout bounds contact resolution plus send for a single job.
const deliveryTimeout = 10 * time.Second

// NotificationDispatcher sends payment confirmations off the request path
// through a bounded queue and a background worker. Enqueue and delivery
// failures are logged and otherwise absorbed; they never surface to the
// reconciliation caller.
type NotificationDispatcher struct {
	bookings repository.BookingRepository
	sender   NotificationSender

	jobs      chan confirmationJob
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewNotificationDispatcher creates a dispatcher and starts its worker.
func NewNotificationDispatcher(bookings repository.BookingRepository, sender NotificationSender, queueSize int) *NotificationDispatcher {
	if queueSize <= 0 {
		queueSize = 128
	}

	d := &NotificationDispatcher{
		bookings: bookings,
		sender:   sender,
		jobs:     make(chan confirmationJob, queueSize),
	}

	d.wg.Add(1)
	go d.run()

	return d
}

// PaymentCompleted enqueues a confirmation for a payment that just reached
// the completed state. A full queue drops the job rather than blocking.
func (d *NotificationDispatcher) PaymentCompleted(payment *domain.Payment) {
	job := confirmationJob{
		BookingID: payment.BookingID,
		Amount:    payment.Amount.String(),
		Currency:  payment.Currency,
		TxRef:     payment.TxRef,
	}

	select {
	case d.jobs <- job:
	default:
		log.Printf("notification queue full, dropping confirmation for tx_ref %s", job.TxRef)
	}
}

// Stop closes the queue and waits for in-flight deliveries to finish.
func (d *NotificationDispatcher) Stop() {
	d.closeOnce.Do(func() {
		close(d.jobs)
	})
	d.wg.Wait()
}

func (d *NotificationDispatcher) run() {
	defer d.wg.Done()
	for job := range d.jobs {
		d.deliver(job)
	}
}

func (d *NotificationDispatcher) deliver(job confirmationJob) {
	ctx, cancel := context.WithTimeout(context.Background(), deliveryTimeout)
	defer cancel()

	email, err := d.bookings.GuestEmail(ctx, job.BookingID)
	if err != nil {
		log.Printf("could not resolve guest contact for booking %s: %v", job.BookingID, err)
		return
	}

	subject := fmt.Sprintf("Payment Confirmation - Booking #%s", job.BookingID)
	body := fmt.Sprintf(`Hello,

Your payment has been successfully processed!

Booking Details:
- Booking ID: %s
- Amount: %s %s
- Transaction Reference: %s
- Status: Completed

Thank you for booking with us. We look forward to hosting you!
`, job.BookingID, job.Amount, job.Currency, job.TxRef)

	if err := d.sender.Send(ctx, email, subject, body); err != nil {
		log.Printf("failed to send payment confirmation for tx_ref %s: %v", job.TxRef, err)
	}
}

// Ensure the dispatcher satisfies the reconciliation-side interface.
var _ Notifier = (*NotificationDispatcher)(nil)
