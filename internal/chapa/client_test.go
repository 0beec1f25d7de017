package chapa

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"travel/internal/config"
)

func TestInitialize_Success(t *testing.T) {
	t.Parallel()

	var gotAuth string
	var gotBody InitializeRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/transaction/initialize" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"Hosted Link","status":"success","data":{"checkout_url":"https://checkout.example/xyz","id":"gw-1"}}`))
	}))
	defer srv.Close()

	client := NewClient(config.ChapaConfig{SecretKey: "test-key", BaseURL: srv.URL})

	checkout, err := client.Initialize(context.Background(), InitializeRequest{
		Amount:   "1500.00",
		Currency: "ETB",
		Email:    "guest@example.com",
		TxRef:    "booking-123-abcd1234",
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if checkout.CheckoutURL != "https://checkout.example/xyz" {
		t.Errorf("unexpected checkout url: %s", checkout.CheckoutURL)
	}
	if checkout.TransactionID != "gw-1" {
		t.Errorf("unexpected transaction id: %s", checkout.TransactionID)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("unexpected authorization header: %s", gotAuth)
	}
	if gotBody.TxRef != "booking-123-abcd1234" {
		t.Errorf("tx_ref not forwarded, got %s", gotBody.TxRef)
	}
}

func TestInitialize_NumericTransactionID(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"success","data":{"checkout_url":"https://checkout.example/xyz","id":42}}`))
	}))
	defer srv.Close()

	client := NewClient(config.ChapaConfig{SecretKey: "test-key", BaseURL: srv.URL})

	checkout, err := client.Initialize(context.Background(), InitializeRequest{TxRef: "booking-1-aaaa0000"})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if checkout.TransactionID != "42" {
		t.Errorf("expected id 42, got %s", checkout.TransactionID)
	}
}

func TestInitialize_Rejected_SurfacesGatewayMessage(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"Invalid currency","status":"failed"}`))
	}))
	defer srv.Close()

	client := NewClient(config.ChapaConfig{SecretKey: "test-key", BaseURL: srv.URL})

	_, err := client.Initialize(context.Background(), InitializeRequest{TxRef: "booking-1-aaaa0000"})
	if !errors.Is(err, ErrRejected) {
		t.Fatalf("expected ErrRejected, got %v", err)
	}
	if want := "Invalid currency"; !strings.Contains(err.Error(), want) {
		t.Errorf("expected gateway message %q in error, got %v", want, err)
	}
}

func TestInitialize_NotConfigured(t *testing.T) {
	t.Parallel()

	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	client := NewClient(config.ChapaConfig{BaseURL: srv.URL})

	if _, err := client.Initialize(context.Background(), InitializeRequest{}); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
	if called {
		t.Error("no request expected without a credential")
	}
}

func TestInitialize_Unreachable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening

	client := NewClient(config.ChapaConfig{SecretKey: "test-key", BaseURL: srv.URL})

	if _, err := client.Initialize(context.Background(), InitializeRequest{}); !errors.Is(err, ErrUnreachable) {
		t.Fatalf("expected ErrUnreachable, got %v", err)
	}
}

func TestVerify_Success(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/transaction/verify/booking-123-abcd1234" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"message":"verified","status":"success","data":{"tx_ref":"booking-123-abcd1234","amount":1500,"status":"success"}}`))
	}))
	defer srv.Close()

	client := NewClient(config.ChapaConfig{SecretKey: "test-key", BaseURL: srv.URL})

	result, err := client.Verify(context.Background(), "booking-123-abcd1234")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if result.Status != "success" {
		t.Errorf("expected success, got %s", result.Status)
	}

	var data map[string]any
	if err := json.Unmarshal(result.Data, &data); err != nil {
		t.Fatalf("raw payload not passed through: %v", err)
	}
	if data["tx_ref"] != "booking-123-abcd1234" {
		t.Error("expected gateway payload in Data")
	}
}

func TestVerify_NonJSONBody_DegradesToFailed(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html>Bad Gateway</html>"))
	}))
	defer srv.Close()

	client := NewClient(config.ChapaConfig{SecretKey: "test-key", BaseURL: srv.URL})

	result, err := client.Verify(context.Background(), "booking-123-abcd1234")
	if err != nil {
		t.Fatalf("malformed body must not error, got: %v", err)
	}
	if result.Status != "failed" {
		t.Errorf("expected degraded failed status, got %s", result.Status)
	}
}

func TestVerify_NotConfigured(t *testing.T) {
	t.Parallel()

	client := NewClient(config.ChapaConfig{})

	if _, err := client.Verify(context.Background(), "booking-123-abcd1234"); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}
