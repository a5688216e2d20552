package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	jurisprudenceservice "ijus/contexts/legal-research/jurisprudence-service"
	"ijus/contexts/legal-research/jurisprudence-service/adapters/cache"
	"ijus/contexts/legal-research/jurisprudence-service/adapters/escavador"
	"ijus/contexts/legal-research/jurisprudence-service/adapters/gemini"
	"ijus/contexts/legal-research/jurisprudence-service/adapters/openai"
	"ijus/contexts/legal-research/jurisprudence-service/adapters/samples"
	"ijus/contexts/legal-research/jurisprudence-service/adapters/textextract"
	jurisprudenceports "ijus/contexts/legal-research/jurisprudence-service/ports"
	progressionservice "ijus/contexts/legal-research/progression-service"
	"ijus/contexts/legal-research/progression-service/adapters/catalog"
	eventsadapter "ijus/contexts/legal-research/progression-service/adapters/events"
	postgresadapter "ijus/contexts/legal-research/progression-service/adapters/postgres"
	"ijus/internal/platform/config"
	"ijus/internal/platform/db"
	"ijus/internal/platform/httpserver"
	"ijus/internal/platform/logging"
	"ijus/internal/platform/messaging"
	"ijus/internal/platform/metrics"
	"ijus/internal/shared/events"

	goredis "github.com/redis/go-redis/v9"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	Progression   progressionservice.Module
	Jurisprudence jurisprudenceservice.Module

	server   *httpserver.Server
	postgres *db.Postgres
	redis    *goredis.Client
	nats     *messaging.NATS
	bus      *messaging.Bus
	topic    string
	logger   *slog.Logger
}

// BuildAPI wires every configured provider. Providers without credentials
// are left unset so the services degrade to samples and file-name terms.
func BuildAPI(ctx context.Context) (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat, cfg.ServiceName).With("process", "api")
	registry := metrics.New()
	app := &APIApp{topic: cfg.NotificationSubject, logger: logger}

	publisher, err := app.buildPublisher(cfg)
	if err != nil {
		return nil, err
	}
	notifier := eventsadapter.Notifier{
		Publisher: publisher,
		Topic:     cfg.NotificationSubject,
		IDGen:     postgresadapter.UUIDGenerator{},
	}

	seed, err := catalog.Default()
	if err != nil {
		return nil, fmt.Errorf("load progression catalog: %w", err)
	}
	if cfg.PostgresDSN != "" {
		pg, err := db.Connect(ctx, cfg.PostgresDSN, logger)
		if err != nil {
			_ = app.Close()
			return nil, err
		}
		app.postgres = pg
		repo := postgresadapter.NewRepository(pg.DB, logger)
		if err := repo.Migrate(ctx); err != nil {
			_ = app.Close()
			return nil, fmt.Errorf("migrate progression tables: %w", err)
		}
		app.Progression = progressionservice.NewModule(progressionservice.Dependencies{
			Repository:     repo,
			Idempotency:    repo,
			Catalog:        seed,
			Notifier:       notifier,
			Metrics:        registry,
			Clock:          postgresadapter.SystemClock{},
			IDGenerator:    postgresadapter.UUIDGenerator{},
			IdempotencyTTL: 7 * 24 * time.Hour,
			Logger:         logger,
		})
	} else {
		logger.Warn("POSTGRES_DSN not set, progression kept in memory",
			"event", "bootstrap_progression_in_memory",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
		app.Progression = progressionservice.NewInMemoryModule(seed, notifier, registry, logger)
	}

	documentCache, err := app.buildCache(ctx, cfg)
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	dataset, err := samples.Default()
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("load jurisprudence samples: %w", err)
	}

	deps := jurisprudenceservice.Dependencies{
		Synonyms:          dataset,
		Extractor:         textextract.Extractor{Logger: logger},
		Samples:           dataset,
		Cache:             documentCache,
		CacheTTL:          cfg.DocumentCacheTTL,
		Metrics:           registry,
		ProbeConcurrently: cfg.ProbeConcurrently,
		PageSize:          cfg.SearchPageSize,
		Logger:            logger,
	}
	if cfg.EscavadorAPIKey != "" {
		deps.Backend = escavador.NewClient(escavador.Config{
			APIKey:  cfg.EscavadorAPIKey,
			BaseURL: cfg.EscavadorBaseURL,
			Timeout: cfg.HTTPClientTimeout,
		}, logger)
	}
	if cfg.OpenAIAPIKey != "" {
		client := openai.NewClient(openai.Config{
			APIKey:  cfg.OpenAIAPIKey,
			BaseURL: cfg.OpenAIBaseURL,
			Model:   cfg.OpenAIModel,
			Timeout: cfg.HTTPClientTimeout,
		}, logger)
		deps.Synonyms = client
		deps.Terms = client
	}
	if cfg.GeminiAPIKey != "" {
		generator, err := gemini.NewGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			_ = app.Close()
			return nil, err
		}
		deps.QueryGenerator = generator
	}
	app.Jurisprudence = jurisprudenceservice.NewModule(deps)

	status := app.Jurisprudence.Service.CredentialStatus()
	logger.Info("providers configured",
		"event", "bootstrap_providers_configured",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"escavador", status.Escavador,
		"openai", status.OpenAI,
		"gemini", status.Gemini,
	)

	app.server = httpserver.New(app.Progression, app.Jurisprudence, registry, logger, normalizeAddr(cfg.HTTPPort))
	return app, nil
}

func (a *APIApp) buildPublisher(cfg config.Config) (eventsadapter.Publisher, error) {
	if cfg.NATSURL != "" {
		conn, err := messaging.ConnectNATS(cfg.NATSURL, cfg.ServiceName, a.logger)
		if err != nil {
			return nil, err
		}
		a.nats = conn
		return conn, nil
	}
	a.bus = messaging.NewBus(a.logger)
	return a.bus, nil
}

func (a *APIApp) buildCache(ctx context.Context, cfg config.Config) (jurisprudenceports.DocumentCache, error) {
	if cfg.RedisAddr == "" {
		return cache.NewMemory(), nil
	}
	client := goredis.NewClient(&goredis.Options{Addr: cfg.RedisAddr})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", cfg.RedisAddr, err)
	}
	a.redis = client
	a.logger.Info("redis connected",
		"event", "redis_connected",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"addr", cfg.RedisAddr,
	)
	return cache.Redis{Client: client}, nil
}

// Run serves HTTP until ctx is done, then shuts the server down.
func (a *APIApp) Run(ctx context.Context) error {
	if a.bus != nil {
		a.bus.Subscribe(ctx, a.topic, a.logNotification)
	}
	a.logger.Info("api app started",
		"event", "bootstrap_api_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.server.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	if err := <-errCh; err != nil {
		return err
	}
	if a.bus != nil {
		a.bus.Wait()
	}
	return nil
}

func (a *APIApp) logNotification(_ context.Context, event events.Envelope) error {
	a.logger.Info("progression notification",
		"event", "progression_notification_delivered",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"event_id", event.EventID,
		"event_type", event.EventType,
		"entity_id", event.EntityID,
	)
	return nil
}

func (a *APIApp) Close() error {
	var errs []error
	if a.nats != nil {
		a.nats.Close()
	}
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	if a.postgres != nil {
		errs = append(errs, a.postgres.Close())
	}
	return errors.Join(errs...)
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
