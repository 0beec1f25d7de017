package service

import "errors"

var (
	// ErrInvalidBookingID is returned when booking ID is empty.
	ErrInvalidBookingID = errors.New("invalid booking id")

	// ErrInvalidAmount is returned when the charge amount is missing or
	// not a positive decimal.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrEmailRequired is returned when the payer email is missing.
	ErrEmailRequired = errors.New("email is required")

	// ErrInvalidTxRef is returned when the transaction reference is empty.
	ErrInvalidTxRef = errors.New("invalid tx_ref")

	// ErrInitiationInProgress is returned when another initiation for the
	// same booking currently holds the initiation lock.
	ErrInitiationInProgress = errors.New("payment initiation already in progress")
)
