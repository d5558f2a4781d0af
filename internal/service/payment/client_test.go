package payment_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/service/payment"
)

func TestNewClient_RequiresAccessToken(t *testing.T) {
	_, err := payment.NewClient(payment.Config{}, nil)
	if !errors.Is(err, payment.ErrAccessTokenRequired) {
		t.Fatalf("err = %v, want ErrAccessTokenRequired", err)
	}
}

func TestCreatePreference_Success(t *testing.T) {
	var captured map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/checkout/preferences" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer token-1" {
			t.Errorf("missing bearer token")
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{
			"id":         "pref-1",
			"init_point": "https://mp.example/init/pref-1",
		})
	}))
	defer srv.Close()

	client, err := payment.NewClient(payment.Config{
		BaseURL:         srv.URL,
		AccessToken:     "token-1",
		Currency:        "ARS",
		SuccessURL:      "https://shop.example/success",
		FailureURL:      "https://shop.example/failure",
		PendingURL:      "https://shop.example/pending",
		NotificationURL: "https://shop.example/api/v1/payments/webhook",
	}, nil)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	intent, err := client.CreatePreference(context.Background(), "order-1", []domain.PreferenceItem{
		{ProductID: "sku-1", Title: "Teclado mecánico", Qty: 2, PriceMinor: 25000},
	})
	if err != nil {
		t.Fatalf("create preference: %v", err)
	}
	if intent.InitPoint != "https://mp.example/init/pref-1" {
		t.Fatalf("init_point = %q", intent.InitPoint)
	}
	if intent.ExternalReference != "order-1" {
		t.Fatalf("external_reference = %q, want order-1", intent.ExternalReference)
	}

	if captured["external_reference"] != "order-1" {
		t.Fatalf("request external_reference = %v", captured["external_reference"])
	}
	if captured["auto_return"] != "approved" {
		t.Fatalf("auto_return = %v, want approved", captured["auto_return"])
	}
	if captured["notification_url"] != "https://shop.example/api/v1/payments/webhook" {
		t.Fatalf("notification_url = %v", captured["notification_url"])
	}

	items, ok := captured["items"].([]any)
	if !ok || len(items) != 1 {
		t.Fatalf("items payload = %v", captured["items"])
	}
	item := items[0].(map[string]any)
	// Минимальные единицы конвертируются в десятичную цену на границе.
	if item["unit_price"] != 250.0 {
		t.Fatalf("unit_price = %v, want 250", item["unit_price"])
	}
	if item["currency_id"] != "ARS" {
		t.Fatalf("currency_id = %v", item["currency_id"])
	}

	backURLs, ok := captured["back_urls"].(map[string]any)
	if !ok || backURLs["success"] != "https://shop.example/success" {
		t.Fatalf("back_urls = %v", captured["back_urls"])
	}
}

func TestCreatePreference_GatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	client, _ := payment.NewClient(payment.Config{BaseURL: srv.URL, AccessToken: "token-1"}, nil)
	if _, err := client.CreatePreference(context.Background(), "order-1", nil); err == nil {
		t.Fatal("expected error on gateway 4xx")
	}
}

func TestCreatePreference_EmptyInitPoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "pref-1"})
	}))
	defer srv.Close()

	client, _ := payment.NewClient(payment.Config{BaseURL: srv.URL, AccessToken: "token-1"}, nil)
	if _, err := client.CreatePreference(context.Background(), "order-1", nil); err == nil {
		t.Fatal("expected error on empty init_point")
	}
}
