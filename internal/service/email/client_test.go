package email_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/service/email"
)

func TestSendPurchaseConfirmation(t *testing.T) {
	var captured map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v3/mail/send" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer mail-key" {
			t.Errorf("missing api key")
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	client := email.NewClient(email.Config{
		BaseURL:   srv.URL,
		APIKey:    "mail-key",
		FromEmail: "tienda@example.com",
		FromName:  "Tienda",
	}, nil)

	err := client.SendPurchaseConfirmation(context.Background(), domain.PurchaseEmail{
		RecipientEmail: "maria@example.com",
		RecipientName:  "María",
		ProductName:    "Teclado mecánico",
		AmountMinor:    50000,
		Currency:       "ARS",
		OrderID:        "order-1",
		PurchaseDate:   time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	vars, ok := captured["variables"].(map[string]any)
	if !ok {
		t.Fatalf("variables payload = %v", captured["variables"])
	}
	if vars["order_id"] != "order-1" {
		t.Fatalf("order_id = %v", vars["order_id"])
	}
	// Сумма уходит провайдеру в десятичной форме.
	if vars["amount"] != 500.0 {
		t.Fatalf("amount = %v, want 500", vars["amount"])
	}
}

func TestSendPurchaseConfirmation_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := email.NewClient(email.Config{BaseURL: srv.URL, APIKey: "bad"}, nil)
	err := client.SendPurchaseConfirmation(context.Background(), domain.PurchaseEmail{RecipientEmail: "x@example.com"})
	if !errors.Is(err, domain.ErrEmailDelivery) {
		t.Fatalf("err = %v, want ErrEmailDelivery", err)
	}
}
