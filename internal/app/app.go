package app

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	healthcheck "github.com/vladislavdragonenkov/storefront/internal/health"
	"github.com/vladislavdragonenkov/storefront/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/storefront/internal/metrics"
	"github.com/vladislavdragonenkov/storefront/internal/service/carrier"
	"github.com/vladislavdragonenkov/storefront/internal/service/checkout"
	"github.com/vladislavdragonenkov/storefront/internal/service/outbox"
	"github.com/vladislavdragonenkov/storefront/internal/service/payment"
	"github.com/vladislavdragonenkov/storefront/internal/service/shipping"
	"github.com/vladislavdragonenkov/storefront/internal/service/webhook"
	httptransport "github.com/vladislavdragonenkov/storefront/internal/transport/http"
	"github.com/vladislavdragonenkov/storefront/internal/version"
)

// Run собирает все компоненты витрины и блокируется до отмены ctx.
func Run(ctx context.Context, cfg Config) error {
	logger := log.WithField("component", "app")

	if err := cfg.Validate(); err != nil {
		return err
	}

	deps, err := NewDependencies(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer deps.Close()

	checkoutMetrics := metrics.NewCheckoutMetrics()
	shippingMetrics := metrics.NewShippingMetrics()
	webhookMetrics := metrics.NewWebhookMetrics()

	gateway, err := payment.NewClient(cfg.Payment, logger.WithField("component", "payment-gateway"))
	if err != nil {
		return err
	}

	carrierClient := carrier.NewClient(cfg.Carrier, logger.WithField("component", "carrier"), shippingMetrics)
	if !carrierClient.Enabled() {
		logger.Warn("carrier credentials are not configured, quotes will use static fallback rates")
	}

	checkoutSvc := checkout.NewService(
		deps.Orders,
		deps.Catalog,
		gateway,
		deps.Outbox,
		deps.Timeline,
		cfg.Currency,
		logger.WithField("component", "checkout"),
		checkoutMetrics,
	)
	shippingSvc := shipping.NewService(
		deps.Catalog,
		carrierClient,
		cfg.Origin,
		cfg.VolumetricDivisor,
		logger.WithField("component", "shipping"),
		shippingMetrics,
	)
	reconciler := webhook.NewReconciler(
		deps.Orders,
		deps.Users,
		deps.Catalog,
		deps.Email,
		deps.Outbox,
		deps.Timeline,
		logger.WithField("component", "webhook"),
		webhookMetrics,
	)

	// Kafka опционален: без брокера события остаются в outbox и будут
	// опубликованы после перезапуска с настроенным KAFKA_BROKERS.
	kafkaProducer := connectKafka(cfg.KafkaBrokers, logger)
	if kafkaProducer != nil {
		defer func() {
			if err := kafkaProducer.Close(); err != nil {
				logger.WithError(err).Warn("closing kafka producer")
			}
		}()

		worker := outbox.NewWorker(
			deps.Outbox,
			kafka.NewOutboxPublisher(kafkaProducer, kafka.TopicOrderEvents),
			outbox.Config{
				Logger:       logger.WithField("component", "outbox-worker"),
				DLQPublisher: kafka.NewOutboxPublisher(kafkaProducer, kafka.TopicDeadLetterQueue),
				PollInterval: cfg.OutboxPollInterval,
			},
		)
		go worker.Run(ctx)
	}

	healthHandler := healthcheck.NewHandler(version.GetVersion())
	if deps.Store != nil {
		healthHandler.RegisterChecker("postgres", healthcheck.NewSimpleChecker("postgres", func() error {
			return deps.Store.Ping(context.Background())
		}))
	}

	server := httptransport.NewServer(
		checkoutSvc,
		shippingSvc,
		reconciler,
		deps.Orders,
		deps.Timeline,
		healthHandler,
		logger.WithField("component", "http"),
	)

	metricsSrv := startMetricsServer(ctx, cfg.MetricsAddr, logger, healthHandler)

	apiSrv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      server.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("HTTP сервер слушает %s", cfg.HTTPAddr)
		errCh <- apiSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("получен сигнал остановки, останавливаем HTTP сервер")
		shutdownHTTP(apiSrv, logger)
		shutdownHTTP(metricsSrv, logger)
		return ctx.Err()
	case err := <-errCh:
		shutdownHTTP(metricsSrv, logger)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// connectKafka подключает producer событий заказа. Недоступный или не
// настроенный брокер не фатален: витрина продолжает принимать заказы,
// а outbox-воркер просто не стартует.
func connectKafka(brokers string, logger *log.Entry) *kafka.Producer {
	if brokers == "" {
		return nil
	}

	list := strings.Split(brokers, ",")
	producer, err := kafka.NewProducer(list)
	if err != nil {
		logger.WithError(err).WithField("brokers", list).Warn("kafka недоступна, события заказов останутся в outbox")
		return nil
	}

	logger.WithField("brokers", list).Info("kafka producer подключен")
	return producer
}

// startMetricsServer запускает HTTP-обработчик /metrics для Prometheus.
func startMetricsServer(ctx context.Context, addr string, logger *log.Entry, healthHandler http.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", healthHandler)
	mux.HandleFunc("/livez", healthcheck.LivenessHandler)

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		logger.Infof("метрики доступны по адресу %s/metrics", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Warn("metrics server failed")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownHTTP(srv, logger)
	}()

	return srv
}

// shutdownHTTP аккуратно останавливает HTTP-сервер.
func shutdownHTTP(srv *http.Server, logger *log.Entry) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Warn("http shutdown with error")
	}
}
