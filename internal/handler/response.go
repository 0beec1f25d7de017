package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"travel/internal/chapa"
	"travel/internal/repository"
	"travel/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// mapErrorToHTTPStatus maps service/repository/gateway errors to HTTP
// status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidBookingID),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrEmailRequired),
		errors.Is(err, service.ErrInvalidTxRef):
		return http.StatusBadRequest

	// Gateway declined the request; its message is surfaced as-is.
	case errors.Is(err, chapa.ErrRejected):
		return http.StatusBadRequest

	// Conflict errors
	case errors.Is(err, service.ErrInitiationInProgress):
		return http.StatusConflict

	// Operator must fix the deployment.
	case errors.Is(err, chapa.ErrNotConfigured):
		return http.StatusInternalServerError

	// Gateway unreachable or timed out; the caller may retry.
	case errors.Is(err, chapa.ErrUnreachable):
		return http.StatusBadGateway

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}
