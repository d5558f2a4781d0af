package app

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/service/catalog"
	"github.com/vladislavdragonenkov/storefront/internal/service/directory"
	"github.com/vladislavdragonenkov/storefront/internal/service/email"
	"github.com/vladislavdragonenkov/storefront/internal/storage/memory"
	"github.com/vladislavdragonenkov/storefront/internal/storage/postgres"
)

// Dependencies содержит все зависимости приложения.
type Dependencies struct {
	Orders   domain.OrderRepository
	Outbox   domain.OutboxRepository
	Timeline domain.TimelineRepository
	Catalog  domain.ProductCatalog
	Users    domain.UserDirectory
	Email    domain.EmailSender
	Store    *postgres.Store
	Logger   *log.Entry
}

// NewDependencies создаёт и инициализирует зависимости приложения.
// При пустом DatabaseURL используются in-memory хранилища.
// NOTE: Catalog и Users — mock-сервисы для development/demo. В production
// окружении их нужно заменить на реальные клиенты каталога и справочника
// пользователей.
func NewDependencies(ctx context.Context, cfg Config, logger *log.Entry) (*Dependencies, error) {
	if logger == nil {
		logger = log.WithField("component", "app")
	}

	deps := &Dependencies{
		Catalog: catalog.NewMockService(),
		Users:   directory.NewMockService(),
		Logger:  logger,
	}

	if cfg.DatabaseURL != "" {
		store, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("init postgres storage: %w", err)
		}
		if err := store.EnsureSchema(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("apply migrations: %w", err)
		}
		deps.Store = store
		deps.Orders = postgres.NewOrderRepository(store)
		deps.Outbox = postgres.NewOutboxRepository(store)
		deps.Timeline = postgres.NewTimelineRepository(store)
		logger.Info("postgres storage initialized")
	} else {
		deps.Orders = memory.NewOrderRepository()
		deps.Outbox = memory.NewOutboxRepository()
		deps.Timeline = memory.NewTimelineRepository()
		logger.Info("in-memory storage initialized")
	}

	if cfg.Email.APIKey != "" && cfg.Email.BaseURL != "" {
		deps.Email = email.NewClient(cfg.Email, logger.WithField("component", "email"))
	} else {
		// NOTE: без учётных данных провайдера письма только логируются.
		deps.Email = email.NewMockSender()
		logger.Warn("email provider is not configured, using mock sender")
	}

	return deps, nil
}

// Close освобождает ресурсы зависимостей.
func (d *Dependencies) Close() {
	if d.Store != nil {
		if err := d.Store.Close(); err != nil {
			d.Logger.WithError(err).Warn("failed to close postgres store")
		}
	}
}
