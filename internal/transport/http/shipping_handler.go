package http

import (
	"encoding/json"
	"net/http"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

type quoteRequest struct {
	Destination addressBody     `json:"destination"`
	Items       []quoteItemBody `json:"items"`
}

type addressBody struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

type quoteItemBody struct {
	ProductID string       `json:"product_id"`
	Qty       int32        `json:"qty"`
	Metrics   *metricsBody `json:"metrics,omitempty"`
}

type metricsBody struct {
	WeightGrams int64   `json:"weight_grams"`
	LengthCm    float64 `json:"length_cm"`
	WidthCm     float64 `json:"width_cm"`
	HeightCm    float64 `json:"height_cm"`
}

type quoteResponse struct {
	Options []domain.ShippingOption `json:"options"`
}

// handleShippingQuote котирует доставку корзины на адрес назначения.
func (s *Server) handleShippingQuote(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Items) == 0 {
		respondError(w, http.StatusBadRequest, "items are required")
		return
	}

	items := make([]domain.QuoteItem, 0, len(req.Items))
	for _, item := range req.Items {
		quoteItem := domain.QuoteItem{ProductID: item.ProductID, Qty: item.Qty}
		if item.Metrics != nil {
			quoteItem.Override = &domain.LineMetrics{
				WeightGrams: item.Metrics.WeightGrams,
				LengthCm:    item.Metrics.LengthCm,
				WidthCm:     item.Metrics.WidthCm,
				HeightCm:    item.Metrics.HeightCm,
			}
		}
		items = append(items, quoteItem)
	}

	destination := domain.Address{
		Street:     req.Destination.Street,
		City:       req.Destination.City,
		State:      req.Destination.State,
		PostalCode: req.Destination.PostalCode,
		Country:    req.Destination.Country,
	}

	options, err := s.shipping.Quote(r.Context(), items, destination)
	if err != nil {
		s.logger.WithError(err).Error("shipping quote failed")
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	respondJSON(w, http.StatusOK, quoteResponse{Options: options})
}
