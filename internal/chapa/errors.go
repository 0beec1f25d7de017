package chapa

import "errors"

var (
	// ErrNotConfigured is returned when no secret key is configured.
	ErrNotConfigured = errors.New("chapa secret key not configured")

	// ErrUnreachable is returned when the gateway cannot be reached or
	// the request times out.
	ErrUnreachable = errors.New("chapa unreachable")

	// ErrRejected is returned when the gateway explicitly declined the
	// request. The gateway's message is attached by the caller-facing wrap.
	ErrRejected = errors.New("chapa rejected request")
)
