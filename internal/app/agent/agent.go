// Package agent собирает локальный агент сессии: хранилище состояния, клиент бэкенда,
// сервисы ядра и HTTP API для интерфейса.
package agent

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/yoked-client/internal/api"
	"github.com/magabrotheeeer/yoked-client/internal/cache"
	"github.com/magabrotheeeer/yoked-client/internal/config"
	"github.com/magabrotheeeer/yoked-client/internal/lib/sl"
	"github.com/magabrotheeeer/yoked-client/internal/models"
	"github.com/magabrotheeeer/yoked-client/internal/services/profile"
	"github.com/magabrotheeeer/yoked-client/internal/services/session"
	"github.com/magabrotheeeer/yoked-client/internal/services/subscription"
	"github.com/magabrotheeeer/yoked-client/internal/services/verification"
	"github.com/magabrotheeeer/yoked-client/internal/storage"
	"github.com/magabrotheeeer/yoked-client/internal/storage/memory"
	"github.com/magabrotheeeer/yoked-client/internal/storage/postgresql"
	"github.com/magabrotheeeer/yoked-client/internal/storage/redis"
)

// App: собранный агент.
type App struct {
	server *http.Server
	logger *slog.Logger
	closer io.Closer
}

// Services: сервисы ядра, которые обслуживает HTTP API.
type Services struct {
	Session       *session.Manager
	Admin         *session.AdminSession
	Profiles      *profile.Store
	Subscriptions *subscription.Service
	Verification  *verification.Poller
}

// NewServices связывает сервисы ядра поверх хранилища и клиента бэкенда.
// Пользовательский и административный клиенты делят http.Client и лимитер,
// но берут токены из разных ключей хранилища.
func NewServices(store storage.Store, base *api.Client, verify verification.Options, logger *slog.Logger) *Services {
	tokens := session.NewTokens(store, logger)
	adminTokens := session.NewAdminTokens(store, logger)
	userAPI := base.WithCredentials(tokens)
	adminAPI := base.WithCredentials(adminTokens)

	profiles := profile.New(userAPI, cache.New[models.UserProfile](store, logger), tokens, logger)
	subscriptions := subscription.NewService(userAPI, adminAPI, cache.New[models.SubscriptionCatalog](store, logger), logger)

	return &Services{
		Session:       session.NewManager(userAPI, tokens, profiles, logger),
		Admin:         session.NewAdminSession(adminAPI, adminTokens, logger),
		Profiles:      profiles,
		Subscriptions: subscriptions,
		Verification:  verification.New(profiles, userAPI, verify, logger),
	}
}

// New создаёт агент по конфигу.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "agent.New"

	store, closer, err := openStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	logger.Info("state storage ready", slog.String("driver", cfg.Driver))

	base := api.NewClient(cfg.BaseURL, logger,
		api.WithTimeout(cfg.TimeoutAPI),
		api.WithRateLimit(cfg.API.RateLimit, cfg.API.Burst),
	)
	services := NewServices(store, base, verification.Options{
		InitialInterval: cfg.InitialInterval,
		MaxInterval:     cfg.MaxInterval,
		MaxAttempts:     cfg.MaxAttempts,
	}, logger)

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.RequestBurst)
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, services, limiter)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: writeTimeout(cfg),
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		closer: closer,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его при отмене ctx.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}

func (a *App) close() {
	if a.closer == nil {
		return
	}
	if err := a.closer.Close(); err != nil {
		a.logger.Error("failed to close state storage", sl.Err(err))
	}
}

// writeTimeout оставляет запас на опрос подтверждения почты, который держит запрос открытым.
func writeTimeout(cfg *config.Config) time.Duration {
	if cfg.TimeoutHTTP == 0 {
		return 0
	}
	poll := cfg.MaxInterval * time.Duration(cfg.MaxAttempts)
	if poll > cfg.TimeoutHTTP {
		return poll + cfg.TimeoutHTTP
	}
	return cfg.TimeoutHTTP
}

func openStore(ctx context.Context, cfg *config.Config) (storage.Store, io.Closer, error) {
	switch cfg.Driver {
	case config.DriverRedis:
		s, err := redis.InitServer(ctx, cfg.RedisConnection, cfg.KeyPrefix)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	case config.DriverPostgres:
		s, err := postgresql.New(ctx, cfg.StorageConnectionString)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	case config.DriverMemory:
		return memory.New(), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
