// Package inventory собирает приложение: хранилище, сессии, события,
// сервисы и HTTP-сервер.
package inventory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/inventory-manager/internal/config"
	"github.com/magabrotheeeer/inventory-manager/internal/events"
	"github.com/magabrotheeeer/inventory-manager/internal/http/handlers/health"
	"github.com/magabrotheeeer/inventory-manager/internal/http/middlewarectx"
	"github.com/magabrotheeeer/inventory-manager/internal/http/views"
	"github.com/magabrotheeeer/inventory-manager/internal/lib/jwt"
	"github.com/magabrotheeeer/inventory-manager/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/inventory-manager/internal/lib/sl"
	"github.com/magabrotheeeer/inventory-manager/internal/migrations"
	authservice "github.com/magabrotheeeer/inventory-manager/internal/services/auth"
	catalogservice "github.com/magabrotheeeer/inventory-manager/internal/services/catalog"
	directoryservice "github.com/magabrotheeeer/inventory-manager/internal/services/directory"
	setupservice "github.com/magabrotheeeer/inventory-manager/internal/services/setup"
	"github.com/magabrotheeeer/inventory-manager/internal/session"
	"github.com/magabrotheeeer/inventory-manager/internal/storage/repository"
)

// App — контекст приложения, создаваемый один раз при старте.
type App struct {
	server   *http.Server
	metrics  *http.Server
	logger   *slog.Logger
	db       *repository.Storage
	sessions session.Store
	amqp     *amqp.Connection
}

// Deps — готовые компоненты, из которых строятся маршруты.
type Deps struct {
	Logger    *slog.Logger
	Storage   health.Pinger
	Auth      *authservice.AuthService
	Catalog   *catalogservice.CatalogService
	Directory *directoryservice.DirectoryService
	Setup     *setupservice.SetupService
	Sessions  *session.Manager
	Views     *views.Renderer
	Metrics   *middlewarectx.Metrics
}

// New создаёт App по конфигурации. При ошибке уже открытые ресурсы закрываются.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (app *App, err error) {
	const op = "inventory.New"

	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	a := &App{logger: logger, db: db}
	defer func() {
		if err != nil {
			a.close()
		}
	}()

	a.sessions, err = newSessionStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	publisher, err := a.newPublisher(cfg.RabbitMQ)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	renderer, err := views.New()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	authService := authservice.NewAuthService(db, publisher, logger)
	deps := Deps{
		Logger:    logger,
		Storage:   db,
		Auth:      authService,
		Catalog:   catalogservice.NewCatalogService(db, publisher, logger),
		Directory: directoryservice.NewDirectoryService(db, authService, publisher, logger),
		Setup: setupservice.NewSetupService(db, func() error {
			return migrations.Run(db.DB, cfg.MigrationsPath)
		}, cfg.Admin, logger),
		Sessions: session.NewManager(a.sessions, jwt.NewJWTMaker(cfg.SecretKey, cfg.Session.TTL), session.Options{
			CookieName: cfg.CookieName,
			TTL:        cfg.Session.TTL,
			Secure:     cfg.SecureCookie,
		}, logger),
		Views:   renderer,
		Metrics: middlewarectx.NewMetrics(prometheus.DefaultRegisterer),
	}

	router := chi.NewRouter()
	RegisterRoutes(router, deps)

	a.server = &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	metricsRouter := chi.NewRouter()
	RegisterMetricsRoutes(metricsRouter)
	a.metrics = &http.Server{
		Addr:         cfg.MetricsAddress,
		Handler:      metricsRouter,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
	}
	return a, nil
}

func newSessionStore(ctx context.Context, cfg *config.Config) (session.Store, error) {
	if cfg.Store == config.SessionStoreRedis {
		return session.NewRedisStore(ctx, cfg.RedisConnection)
	}
	return session.NewMemoryStore(), nil
}

// newPublisher подключается к RabbitMQ. Без URL события отключены.
func (a *App) newPublisher(cfg config.RabbitMQ) (events.Publisher, error) {
	if cfg.URL == "" {
		a.logger.Info("rabbitmq url is empty, domain events disabled")
		return events.Nop{}, nil
	}
	conn, err := rabbitmq.Connect(cfg.URL, cfg.Retries, cfg.RetryDelay)
	if err != nil {
		return nil, err
	}
	a.amqp = conn
	ch, err := rabbitmq.SetupExchange(conn, cfg.Exchange)
	if err != nil {
		return nil, err
	}
	return events.NewAMQPPublisher(ch, cfg.Exchange, a.logger), nil
}

// Run запускает основной сервер и сервер метрик и останавливает их при
// отмене ctx или падении любого из них.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 2)
	serve := func(srv *http.Server, name string) {
		a.logger.Info("HTTP server starting on", slog.String("server", name), slog.String("address", srv.Addr))
		err := srv.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}
	go serve(a.server, "app")
	go serve(a.metrics, "metrics")

	var runErr error
	select {
	case runErr = <-errCh:
	case <-ctx.Done():
	}

	timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	a.logger.Info("shutting down HTTP servers gracefully")
	err := errors.Join(a.server.Shutdown(timeoutCtx), a.metrics.Shutdown(timeoutCtx))
	a.close()
	if runErr != nil {
		return runErr
	}
	return err
}

func (a *App) close() {
	if a.amqp != nil {
		if err := a.amqp.Close(); err != nil {
			a.logger.Warn("failed to close rabbitmq connection", sl.Err(err))
		}
	}
	if a.sessions != nil {
		if err := a.sessions.Close(); err != nil {
			a.logger.Warn("failed to close session store", sl.Err(err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close storage", sl.Err(err))
		}
	}
}
