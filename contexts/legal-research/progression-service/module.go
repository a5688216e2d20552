package progressionservice

import (
	"log/slog"
	"time"

	httpadapter "ijus/contexts/legal-research/progression-service/adapters/http"
	"ijus/contexts/legal-research/progression-service/adapters/memory"
	"ijus/contexts/legal-research/progression-service/application"
	"ijus/contexts/legal-research/progression-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Service application.Service
	Store   *memory.Store
}

type Dependencies struct {
	Repository     ports.Repository
	Idempotency    ports.IdempotencyStore
	Catalog        ports.Catalog
	Notifier       ports.Notifier
	Metrics        ports.Metrics
	Clock          ports.Clock
	IDGenerator    ports.IDGenerator
	IdempotencyTTL time.Duration
	Logger         *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Repo:           deps.Repository,
		Idempotency:    deps.Idempotency,
		Catalog:        deps.Catalog,
		Notifier:       deps.Notifier,
		Metrics:        deps.Metrics,
		Clock:          deps.Clock,
		IDGen:          deps.IDGenerator,
		IdempotencyTTL: deps.IdempotencyTTL,
		KeyLocks:       application.NewKeyLocks(),
		Logger:         deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Service: service,
			Logger:  deps.Logger,
		},
		Service: service,
	}
}

// NewInMemoryModule wires the service against process memory. notifier and
// metrics may be nil.
func NewInMemoryModule(catalog ports.Catalog, notifier ports.Notifier, metrics ports.Metrics, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repository:     store,
		Idempotency:    store,
		Catalog:        catalog,
		Notifier:       notifier,
		Metrics:        metrics,
		Clock:          store,
		IDGenerator:    store,
		IdempotencyTTL: 7 * 24 * time.Hour,
		Logger:         logger,
	})
	module.Store = store
	return module
}
