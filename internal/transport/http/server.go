package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/health"
	"github.com/vladislavdragonenkov/storefront/internal/service/checkout"
	"github.com/vladislavdragonenkov/storefront/internal/service/shipping"
	"github.com/vladislavdragonenkov/storefront/internal/service/webhook"
)

// Server собирает HTTP-маршруты витрины поверх gorilla/mux.
type Server struct {
	checkout *checkout.Service
	shipping *shipping.Service
	webhook  *webhook.Reconciler
	orders   domain.OrderRepository
	timeline domain.TimelineRepository
	health   *health.Handler
	logger   *log.Entry
}

// NewServer создаёт HTTP-сервер витрины.
func NewServer(
	checkoutSvc *checkout.Service,
	shippingSvc *shipping.Service,
	reconciler *webhook.Reconciler,
	orders domain.OrderRepository,
	timeline domain.TimelineRepository,
	healthHandler *health.Handler,
	logger *log.Entry,
) *Server {
	if logger == nil {
		logger = log.WithField("component", "http")
	}
	return &Server{
		checkout: checkoutSvc,
		shipping: shippingSvc,
		webhook:  reconciler,
		orders:   orders,
		timeline: timeline,
		health:   healthHandler,
		logger:   logger,
	}
}

// Router возвращает сконфигурированный mux.Router со всеми маршрутами.
func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()
	router.Use(s.loggingMiddleware)

	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/checkout", s.handleCheckout).Methods(http.MethodPost)
	api.HandleFunc("/shipping/quote", s.handleShippingQuote).Methods(http.MethodPost)
	api.HandleFunc("/payments/webhook", s.handlePaymentWebhook).Methods(http.MethodPost)
	api.HandleFunc("/orders/{id}", s.handleGetOrder).Methods(http.MethodGet)

	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	if s.health != nil {
		router.Handle("/healthz", s.health).Methods(http.MethodGet)
		router.HandleFunc("/livez", health.LivenessHandler).Methods(http.MethodGet)
		router.HandleFunc("/readyz", s.health.ReadinessHandler).Methods(http.MethodGet)
	}

	return router
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r)
		s.logger.WithFields(log.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
		}).Debug("http request handled")
	})
}
