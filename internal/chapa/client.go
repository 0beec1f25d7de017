package chapa

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"travel/internal/config"
)

const (
	// DefaultBaseURL is the production Chapa API endpoint.
	DefaultBaseURL = "https://api.chapa.co/v1"

	// requestTimeout bounds every gateway call. There are no retries in
	// this client; the reconciliation paths re-drive failed calls.
	requestTimeout = 20 * time.Second
)

// Customization is the hosted checkout page branding block.
type Customization struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// InitializeRequest is the payload for POST /transaction/initialize.
// Chapa expects the amount as a string.
type InitializeRequest struct {
	Amount        string        `json:"amount"`
	Currency      string        `json:"currency"`
	Email         string        `json:"email"`
	FirstName     string        `json:"first_name"`
	LastName      string        `json:"last_name"`
	PhoneNumber   string        `json:"phone_number"`
	TxRef         string        `json:"tx_ref"`
	ReturnURL     string        `json:"return_url"`
	CallbackURL   string        `json:"callback_url"`
	Customization Customization `json:"customization"`
}

// Checkout is the result of a successful initialization.
type Checkout struct {
	CheckoutURL   string
	TransactionID string
}

// VerifyResult carries the gateway's view of a transaction. Status is the
// response envelope's top-level status field; Data is the raw payload for
// pass-through to API clients.
type VerifyResult struct {
	Status  string
	Message string
	Data    json.RawMessage
}

// envelope is Chapa's response wrapper for both endpoints.
type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type initializeData struct {
	CheckoutURL string     `json:"checkout_url"`
	ID          flexString `json:"id"`
}

// flexString decodes a JSON string or number; anything else is ignored.
// Chapa reports transaction ids in both shapes.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		*f = flexString(n.String())
	}
	return nil
}

// Client is a thin wrapper over the Chapa transaction API. It performs a
// single attempt per call and surfaces failures to the caller.
type Client struct {
	http      *resty.Client
	secretKey string
}

// NewClient creates a Chapa client from configuration. A missing secret key
// is tolerated at construction so the server can start; calls then fail
// with ErrNotConfigured.
func NewClient(cfg config.ChapaConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(requestTimeout).
		SetHeader("Content-Type", "application/json")

	return &Client{
		http:      httpClient,
		secretKey: cfg.SecretKey,
	}
}

// Initialize creates a hosted checkout session for the given transaction.
func (c *Client) Initialize(ctx context.Context, req InitializeRequest) (*Checkout, error) {
	if c.secretKey == "" {
		return nil, ErrNotConfigured
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(c.secretKey).
		SetBody(req).
		Post("/transaction/initialize")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}

	env := decodeEnvelope(resp.Body())
	if env.Status != "success" {
		if env.Message != "" {
			return nil, fmt.Errorf("%w: %s", ErrRejected, env.Message)
		}
		return nil, fmt.Errorf("%w: status %s", ErrRejected, resp.Status())
	}

	var data initializeData
	if err := json.Unmarshal(env.Data, &data); err != nil || data.CheckoutURL == "" {
		return nil, fmt.Errorf("%w: no checkout url in response", ErrRejected)
	}

	return &Checkout{
		CheckoutURL:   data.CheckoutURL,
		TransactionID: string(data.ID),
	}, nil
}

// Verify fetches the gateway's status for a transaction reference.
func (c *Client) Verify(ctx context.Context, txRef string) (*VerifyResult, error) {
	if c.secretKey == "" {
		return nil, ErrNotConfigured
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(c.secretKey).
		Get("/transaction/verify/" + txRef)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}

	env := decodeEnvelope(resp.Body())
	return &VerifyResult{
		Status:  env.Status,
		Message: env.Message,
		Data:    env.Data,
	}, nil
}

// decodeEnvelope parses a gateway response body. Malformed or empty bodies
// degrade to a failed envelope rather than a decode error.
func decodeEnvelope(body []byte) envelope {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return envelope{Status: "failed"}
	}
	return env
}
