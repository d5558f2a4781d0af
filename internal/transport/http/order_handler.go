package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

type orderLineBody struct {
	ProductID  string `json:"product_id"`
	Qty        int32  `json:"qty"`
	PriceMinor int64  `json:"price_minor"`
}

type timelineEventBody struct {
	Type     string    `json:"type"`
	Detail   string    `json:"detail,omitempty"`
	Occurred time.Time `json:"occurred_at"`
}

type orderResponse struct {
	ID          string              `json:"id"`
	UserID      string              `json:"user_id"`
	Status      string              `json:"status"`
	Currency    string              `json:"currency"`
	AmountMinor int64               `json:"amount_minor"`
	Lines       []orderLineBody     `json:"lines"`
	Timeline    []timelineEventBody `json:"timeline,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// handleGetOrder возвращает заказ с позициями и журналом событий.
func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	order, err := s.orders.Get(id)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			respondError(w, http.StatusNotFound, "order not found")
			return
		}
		s.logger.WithError(err).WithField("order_id", id).Error("order lookup failed")
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	resp := orderResponse{
		ID:          order.ID,
		UserID:      order.UserID,
		Status:      string(order.Status),
		Currency:    order.Currency,
		AmountMinor: order.AmountMinor,
		Lines:       make([]orderLineBody, 0, len(order.Lines)),
		CreatedAt:   order.CreatedAt,
		UpdatedAt:   order.UpdatedAt,
	}
	for _, line := range order.Lines {
		resp.Lines = append(resp.Lines, orderLineBody{
			ProductID:  line.ProductID,
			Qty:        line.Qty,
			PriceMinor: line.PriceMinor,
		})
	}

	if s.timeline != nil {
		events, err := s.timeline.List(order.ID)
		if err != nil {
			s.logger.WithError(err).WithField("order_id", order.ID).Warn("timeline lookup failed")
		}
		for _, event := range events {
			resp.Timeline = append(resp.Timeline, timelineEventBody{
				Type:     event.Type,
				Detail:   event.Detail,
				Occurred: event.Occurred,
			})
		}
	}

	respondJSON(w, http.StatusOK, resp)
}
