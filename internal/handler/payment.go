package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"travel/internal/service"
)

// PaymentHandler handles HTTP requests for payments.
type PaymentHandler struct {
	paymentService *service.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// InitiatePaymentRequest is the HTTP request body for initiating a payment.
// Amount accepts either a JSON number or a numeric string.
type InitiatePaymentRequest struct {
	BookingID   string      `json:"booking_id"`
	Amount      json.Number `json:"amount"`
	Currency    string      `json:"currency"`
	Email       string      `json:"email"`
	FirstName   string      `json:"first_name"`
	LastName    string      `json:"last_name"`
	PhoneNumber string      `json:"phone_number"`
	ReturnURL   string      `json:"return_url"`
	CallbackURL string      `json:"callback_url"`
}

// InitiatePaymentResponse is the HTTP response for a successful initiation.
type InitiatePaymentResponse struct {
	Message string              `json:"message"`
	Status  string              `json:"status"`
	Data    InitiatePaymentData `json:"data"`
}

// InitiatePaymentData carries the checkout session references.
type InitiatePaymentData struct {
	CheckoutURL string `json:"checkout_url"`
	TxRef       string `json:"tx_ref"`
	PaymentID   string `json:"payment_id"`
}

// InitiatePayment handles POST /v1/payments/initiate
func (h *PaymentHandler) InitiatePayment(c *gin.Context) {
	var req InitiatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	payment, err := h.paymentService.Initiate(c.Request.Context(), service.InitiateRequest{
		BookingID:   req.BookingID,
		Amount:      req.Amount.String(),
		Currency:    req.Currency,
		Email:       req.Email,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
		ReturnURL:   req.ReturnURL,
		CallbackURL: req.CallbackURL,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, InitiatePaymentResponse{
		Message: "Hosted Link",
		Status:  "success",
		Data: InitiatePaymentData{
			CheckoutURL: payment.CheckoutURL,
			TxRef:       payment.TxRef,
			PaymentID:   payment.ID,
		},
	})
}

// VerifyPaymentResponse is the HTTP response for the verify endpoint. Data
// is the gateway's raw payload passed through for the caller.
type VerifyPaymentResponse struct {
	Status        string          `json:"status"`
	PaymentStatus string          `json:"payment_status"`
	Data          json.RawMessage `json:"data"`
}

// VerifyPayment handles GET /v1/payments/verify?tx_ref=
func (h *PaymentHandler) VerifyPayment(c *gin.Context) {
	txRef := c.Query("tx_ref")

	result, err := h.paymentService.Verify(c.Request.Context(), txRef)
	if err != nil {
		respondError(c, err)
		return
	}

	status := "failed"
	code := http.StatusBadRequest
	if strings.EqualFold(result.GatewayStatus, "success") {
		status = "success"
		code = http.StatusOK
	}

	c.JSON(code, VerifyPaymentResponse{
		Status:        status,
		PaymentStatus: string(result.Payment.Status),
		Data:          result.Data,
	})
}

// WebhookRequest is the relevant subset of a gateway webhook payload.
// Signature is accepted but not verified; additional fields are ignored.
type WebhookRequest struct {
	TxRef     string `json:"tx_ref"`
	Status    string `json:"status"`
	Signature string `json:"signature"`
}

// WebhookResponse acknowledges a processed webhook delivery.
type WebhookResponse struct {
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
}

// ChapaWebhook handles POST /v1/payments/chapa/webhook
func (h *PaymentHandler) ChapaWebhook(c *gin.Context) {
	var req WebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	payment, err := h.paymentService.HandleWebhook(c.Request.Context(), service.WebhookEvent{
		TxRef:  req.TxRef,
		Status: req.Status,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, WebhookResponse{
		Status:        "ok",
		PaymentStatus: string(payment.Status),
	})
}

// PaymentCallback handles GET /payments/callback?tx_ref=
// It always renders an outcome page, never a bare server error.
func (h *PaymentHandler) PaymentCallback(c *gin.Context) {
	txRef := c.Query("tx_ref")

	result := h.paymentService.Callback(c.Request.Context(), txRef)

	data := gin.H{
		"TxRef":   txRef,
		"Status":  result.Status,
		"Message": result.Message,
	}
	if result.Payment != nil {
		data["Amount"] = result.Payment.Amount.String()
		data["Currency"] = result.Payment.Currency
	}
	if result.Booking != nil {
		data["BookingID"] = result.Booking.ID
	}

	c.HTML(http.StatusOK, "callback", data)
}
