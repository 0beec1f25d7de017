package postgres

import (
	"context"
	"database/sql"
	"errors"

	"travel/internal/domain"
	"travel/internal/repository"
)

// PaymentRepository is a PostgreSQL implementation of repository.PaymentRepository.
type PaymentRepository struct {
	q Querier
}

// NewPaymentRepository creates a new PostgreSQL payment repository.
func NewPaymentRepository(db *sql.DB) *PaymentRepository {
	return &PaymentRepository{q: db}
}

// NewPaymentRepositoryWithTx creates a payment repository using a transaction.
func NewPaymentRepositoryWithTx(tx *sql.Tx) *PaymentRepository {
	return &PaymentRepository{q: tx}
}

const paymentColumns = `
	id, booking_id, amount, currency, tx_ref,
	gateway_transaction_id, checkout_url, status, created_at, updated_at
`

// Create persists a new payment.
func (r *PaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	query := `
		INSERT INTO payments (
			id, booking_id, amount, currency, tx_ref,
			gateway_transaction_id, checkout_url, status, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())
	`

	_, err := r.q.ExecContext(ctx, query,
		payment.ID,
		payment.BookingID,
		payment.Amount,
		payment.Currency,
		payment.TxRef,
		payment.GatewayTransactionID,
		payment.CheckoutURL,
		payment.Status,
	)

	return err
}

// GetByID retrieves a payment by ID.
func (r *PaymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	query := `SELECT` + paymentColumns + `FROM payments WHERE id = $1`
	return r.scanPayment(r.q.QueryRowContext(ctx, query, id))
}

// GetByTxRef retrieves a payment by its transaction reference.
func (r *PaymentRepository) GetByTxRef(ctx context.Context, txRef string) (*domain.Payment, error) {
	query := `SELECT` + paymentColumns + `FROM payments WHERE tx_ref = $1`
	return r.scanPayment(r.q.QueryRowContext(ctx, query, txRef))
}

// MarkStatus performs the single-shot pending-to-terminal transition. The
// WHERE clause on the current status makes the update a compare-and-set, so
// concurrent reconcilers for the same tx_ref cannot both win.
func (r *PaymentRepository) MarkStatus(ctx context.Context, txRef string, status domain.PaymentStatus) (bool, error) {
	query := `
		UPDATE payments
		SET status = $1, updated_at = now()
		WHERE tx_ref = $2 AND status = $3
	`

	result, err := r.q.ExecContext(ctx, query, status, txRef, domain.PaymentStatusPending)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	if rowsAffected == 0 {
		// Either the tx_ref is unknown or the payment is already terminal.
		if _, err := r.GetByTxRef(ctx, txRef); err != nil {
			return false, err
		}
		return false, nil
	}

	return true, nil
}

func (r *PaymentRepository) scanPayment(row *sql.Row) (*domain.Payment, error) {
	var payment domain.Payment
	var gatewayID, checkoutURL sql.NullString

	err := row.Scan(
		&payment.ID,
		&payment.BookingID,
		&payment.Amount,
		&payment.Currency,
		&payment.TxRef,
		&gatewayID,
		&checkoutURL,
		&payment.Status,
		&payment.CreatedAt,
		&payment.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	payment.GatewayTransactionID = gatewayID.String
	payment.CheckoutURL = checkoutURL.String

	return &payment, nil
}
