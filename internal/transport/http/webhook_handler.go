package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

type webhookRequest struct {
	ExternalReference string `json:"external_reference"`
	CollectionStatus  string `json:"collection_status"`
	Status            string `json:"status"`
	PaymentID         string `json:"payment_id"`
	Data              struct {
		ID string `json:"id"`
	} `json:"data"`
}

// handlePaymentWebhook принимает асинхронное уведомление платёжного шлюза.
// Поля читаются из JSON-тела; шлюз также может прислать их query-параметрами
// при redirect-стиле уведомления.
func (s *Server) handlePaymentWebhook(w http.ResponseWriter, r *http.Request) {
	var req webhookRequest
	// Пустое тело допустимо: уведомление может прийти только query-параметрами.
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	query := r.URL.Query()
	externalReference := firstNonEmpty(req.ExternalReference, query.Get("external_reference"))
	collectionStatus := firstNonEmpty(req.CollectionStatus, req.Status, query.Get("collection_status"), query.Get("status"))
	paymentID := firstNonEmpty(req.PaymentID, req.Data.ID, query.Get("payment_id"), query.Get("id"))

	if externalReference == "" {
		respondError(w, http.StatusBadRequest, "external_reference is required")
		return
	}

	if err := s.webhook.Reconcile(r.Context(), externalReference, paymentID, collectionStatus); err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			respondError(w, http.StatusNotFound, "unknown external_reference")
			return
		}
		s.logger.WithError(err).Error("webhook reconciliation failed")
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
