package sri

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tecnano/factura-api/internal/config"
	"github.com/tecnano/factura-api/internal/domain/entity"
	"github.com/tecnano/factura-api/internal/domain/enum"
)

func testIssuer() config.BusinessConfig {
	return config.BusinessConfig{
		Name:  "MI RESTAURANTE",
		TaxID: "1790012345001",
	}
}

func testSale() *entity.Sale {
	return &entity.Sale{
		ID:            uuid.New(),
		IssuedAt:      time.Date(2026, 3, 15, 13, 45, 0, 0, time.UTC),
		PaymentMethod: enum.PaymentMethodCash,
		Location:      "Mesa 2",
		Subtotal:      decimal.NewFromInt(10),
		Total:         decimal.NewFromInt(10),
	}
}

func TestClient_Simulate(t *testing.T) {
	client := New(config.FiscalConfig{Simulate: true}, testIssuer())
	sale := testSale()
	artifact := []byte("receipt bytes")

	result := client.Submit(context.Background(), sale, []byte("<invoice/>"), artifact)

	if result.Status != enum.FiscalStatusAuthorized {
		t.Errorf("status = %s, want AUTHORIZED", result.Status)
	}
	if want := "SIM-" + sale.Reference(); result.AccessKey != want {
		t.Errorf("access key = %s, want %s", result.AccessKey, want)
	}
	if !strings.HasPrefix(result.AuthorizationNumber, "AUTH-") {
		t.Errorf("authorization number = %s, want AUTH- prefix", result.AuthorizationNumber)
	}
	if string(result.Artifact) != "receipt bytes" {
		t.Errorf("artifact = %q, want the local render echoed back", result.Artifact)
	}
}

func TestClient_LiveConfigurationGuards(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer server.Close()

	t.Run("missing base URL", func(t *testing.T) {
		client := New(config.FiscalConfig{Token: "tok"}, testIssuer())
		result := client.Submit(context.Background(), testSale(), []byte("doc"), nil)
		if result.Status != enum.FiscalStatusError {
			t.Errorf("status = %s, want ERROR", result.Status)
		}
		if result.Message == "" {
			t.Error("expected a configuration message")
		}
	})

	t.Run("missing token", func(t *testing.T) {
		client := New(config.FiscalConfig{BaseURL: server.URL}, testIssuer())
		result := client.Submit(context.Background(), testSale(), []byte("doc"), nil)
		if result.Status != enum.FiscalStatusError {
			t.Errorf("status = %s, want ERROR", result.Status)
		}
	})

	if calls != 0 {
		t.Errorf("provider was called %d times, want 0", calls)
	}
}

func TestClient_LiveSubmit(t *testing.T) {
	t.Run("authorized response", func(t *testing.T) {
		sale := testSale()
		var gotAuth, gotIdempotency string
		var gotBody submitRequest

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			gotIdempotency = r.Header.Get("Idempotency-Key")
			_ = json.NewDecoder(r.Body).Decode(&gotBody)
			_ = json.NewEncoder(w).Encode(submitResponse{
				Status:              "AUTHORIZED",
				AccessKey:           "KEY-1",
				AuthorizationNumber: "AUTH-1",
				ArtifactBase64:      base64.StdEncoding.EncodeToString([]byte("stamped receipt")),
			})
		}))
		defer server.Close()

		client := New(config.FiscalConfig{BaseURL: server.URL, Token: "secret"}, testIssuer())
		result := client.Submit(context.Background(), sale, []byte("<invoice/>"), []byte("local receipt"))

		if result.Status != enum.FiscalStatusAuthorized {
			t.Fatalf("status = %s, want AUTHORIZED (message: %s)", result.Status, result.Message)
		}
		if result.AccessKey != "KEY-1" || result.AuthorizationNumber != "AUTH-1" {
			t.Errorf("keys = %s / %s", result.AccessKey, result.AuthorizationNumber)
		}
		if string(result.Artifact) != "stamped receipt" {
			t.Errorf("artifact = %q", result.Artifact)
		}
		if gotAuth != "Bearer secret" {
			t.Errorf("authorization header = %q", gotAuth)
		}
		if gotIdempotency != sale.Reference() {
			t.Errorf("idempotency key = %q, want sale reference", gotIdempotency)
		}
		if decoded, _ := base64.StdEncoding.DecodeString(gotBody.DocumentBase64); string(decoded) != "<invoice/>" {
			t.Errorf("document sent = %q", decoded)
		}
		if gotBody.IssuerTaxID != "1790012345001" {
			t.Errorf("issuer tax id = %s", gotBody.IssuerTaxID)
		}
	})

	t.Run("lowercase authorized status is accepted", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(submitResponse{Status: "authorized"})
		}))
		defer server.Close()

		client := New(config.FiscalConfig{BaseURL: server.URL, Token: "tok"}, testIssuer())
		result := client.Submit(context.Background(), testSale(), []byte("doc"), nil)
		if result.Status != enum.FiscalStatusAuthorized {
			t.Errorf("status = %s, want AUTHORIZED", result.Status)
		}
	})

	t.Run("non-authorized status maps to rejection with message", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(submitResponse{
				Status:  "REJECTED",
				Message: "invalid issuer tax id",
			})
		}))
		defer server.Close()

		client := New(config.FiscalConfig{BaseURL: server.URL, Token: "tok"}, testIssuer())
		result := client.Submit(context.Background(), testSale(), []byte("doc"), nil)

		if result.Status != enum.FiscalStatusRejected {
			t.Errorf("status = %s, want REJECTED", result.Status)
		}
		if result.Message != "invalid issuer tax id" {
			t.Errorf("message = %q", result.Message)
		}
	})

	t.Run("provider error status maps to error result", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusBadGateway)
		}))
		defer server.Close()

		client := New(config.FiscalConfig{BaseURL: server.URL, Token: "tok"}, testIssuer())
		result := client.Submit(context.Background(), testSale(), []byte("doc"), nil)

		if result.Status != enum.FiscalStatusError {
			t.Errorf("status = %s, want ERROR", result.Status)
		}
	})

	t.Run("unreachable provider maps to error result", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close()

		client := New(config.FiscalConfig{BaseURL: server.URL, Token: "tok"}, testIssuer())
		result := client.Submit(context.Background(), testSale(), []byte("doc"), nil)

		if result.Status != enum.FiscalStatusError {
			t.Errorf("status = %s, want ERROR", result.Status)
		}
	})

	t.Run("empty response body maps to error result", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(submitResponse{})
		}))
		defer server.Close()

		client := New(config.FiscalConfig{BaseURL: server.URL, Token: "tok"}, testIssuer())
		result := client.Submit(context.Background(), testSale(), []byte("doc"), nil)

		if result.Status != enum.FiscalStatusError {
			t.Errorf("status = %s, want ERROR", result.Status)
		}
	})
}
