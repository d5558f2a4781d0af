package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/service/checkout"
)

type checkoutRequest struct {
	UserID        string             `json:"user_id"`
	PaymentMethod string             `json:"payment_method"`
	Items         []checkoutItemBody `json:"items"`
}

type checkoutItemBody struct {
	ProductID string `json:"product_id"`
	Qty       int32  `json:"qty"`
}

type checkoutResponse struct {
	OrderID     string `json:"order_id"`
	RedirectURL string `json:"redirect_url"`
}

// handleCheckout оформляет заказ из корзины и возвращает redirect URL шлюза.
func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	items := make([]checkout.CartItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, checkout.CartItem{ProductID: item.ProductID, Qty: item.Qty})
	}

	result, err := s.checkout.CreateOrder(r.Context(), req.UserID, req.PaymentMethod, items)
	if err != nil {
		switch {
		case domain.IsCheckoutInputError(err):
			respondError(w, http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, domain.ErrPaymentIntentFailed):
			// Заказ сохранён и остаётся pending; клиенту нужен его ID,
			// чтобы повторить создание намерения.
			respondJSON(w, http.StatusBadGateway, errorResponse{
				Error:   domain.ErrPaymentIntentFailed.Error(),
				OrderID: result.OrderID,
			})
		default:
			s.logger.WithError(err).Error("checkout failed")
			respondError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	respondJSON(w, http.StatusCreated, checkoutResponse{
		OrderID:     result.OrderID,
		RedirectURL: result.RedirectURL,
	})
}
