// Package subscription содержит каталог тарифов с проверкой версии и
// операции администратора над тарифами.
package subscription

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/yoked-client/internal/api"
	"github.com/magabrotheeeer/yoked-client/internal/cache"
	"github.com/magabrotheeeer/yoked-client/internal/lib/sl"
	"github.com/magabrotheeeer/yoked-client/internal/metrics"
	"github.com/magabrotheeeer/yoked-client/internal/models"
)

// Catalog определяет публичные эндпоинты каталога.
type Catalog interface {
	// Version возвращает серверную версию ресурса.
	Version(ctx context.Context, resource api.Resource) (int, error)
	// Subscriptions возвращает весь каталог.
	Subscriptions(ctx context.Context) (models.SubscriptionCatalog, error)
	// Subscription возвращает тариф по ID.
	Subscription(ctx context.Context, id uuid.UUID) (*models.SubscriptionTier, error)
}

// Admin определяет эндпоинты администратора. Реализация должна авторизоваться admin-токеном.
type Admin interface {
	CreateTier(ctx context.Context, in models.TierInput) (*models.SubscriptionTier, error)
	UpdateTier(ctx context.Context, id uuid.UUID, in models.TierInput) (*models.SubscriptionTier, error)
	DeleteTier(ctx context.Context, id uuid.UUID) error
	ActivateTier(ctx context.Context, id uuid.UUID) (*models.SubscriptionTier, error)
	DeactivateTier(ctx context.Context, id uuid.UUID) (*models.SubscriptionTier, error)
}

// Service реализует чтение каталога через версионированный кеш.
type Service struct {
	catalog  Catalog
	admin    Admin
	cache    *cache.Cache[models.SubscriptionCatalog]
	validate *validator.Validate
	log      *slog.Logger
}

// NewService создаёт Service. admin может быть nil, тогда операции администратора
// возвращают ErrUnauthenticated.
func NewService(catalog Catalog, admin Admin, c *cache.Cache[models.SubscriptionCatalog], log *slog.Logger) *Service {
	return &Service{
		catalog:  catalog,
		admin:    admin,
		cache:    c,
		validate: validator.New(),
		log:      log,
	}
}

// List возвращает каталог тарифов в порядке бэкенда. Сессия не требуется.
func (s *Service) List(ctx context.Context, force bool) (models.SubscriptionCatalog, error) {
	const op = "subscription.List"
	log := s.log.With(sl.Op(op))

	remote, err := s.catalog.Version(ctx, api.ResourceSubscriptions)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	cached, found := s.cache.Get(ctx, cache.SubscriptionsKey)
	var state string
	switch {
	case !found:
		state = metrics.StateEmpty
	case force:
		state = metrics.StateForce
	case cached.Version == remote:
		metrics.CacheLookups.WithLabelValues(cache.SubscriptionsKey.Resource, metrics.StateFresh).Inc()
		return cached.Data, nil
	default:
		state = metrics.StateStale
		if cached.Version > remote {
			log.Warn("remote catalog version went backward",
				slog.Int("cached", cached.Version), slog.Int("remote", remote))
		}
	}
	metrics.CacheLookups.WithLabelValues(cache.SubscriptionsKey.Resource, state).Inc()

	catalog, err := s.catalog.Subscriptions(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.cache.Set(ctx, cache.SubscriptionsKey, catalog, remote); err != nil {
		log.Warn("failed to cache subscriptions", sl.Err(err))
	}
	log.Debug("catalog fetched", slog.String("state", state), slog.Int("tiers", len(catalog)))
	return catalog, nil
}

// Get возвращает тариф по ID, минуя кеш.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.SubscriptionTier, error) {
	const op = "subscription.Get"
	tier, err := s.catalog.Subscription(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return tier, nil
}

// Invalidate сбрасывает закешированный каталог.
func (s *Service) Invalidate(ctx context.Context) error {
	const op = "subscription.Invalidate"
	if err := s.cache.Invalidate(ctx, cache.SubscriptionsKey); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Create создаёт тариф.
func (s *Service) Create(ctx context.Context, in models.TierInput) (*models.SubscriptionTier, error) {
	const op = "subscription.Create"
	if err := s.validateInput(in); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s.mutate(ctx, op, func(a Admin) (*models.SubscriptionTier, error) {
		return a.CreateTier(ctx, in)
	})
}

// Update изменяет тариф.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in models.TierInput) (*models.SubscriptionTier, error) {
	const op = "subscription.Update"
	if err := s.validateInput(in); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s.mutate(ctx, op, func(a Admin) (*models.SubscriptionTier, error) {
		return a.UpdateTier(ctx, id, in)
	})
}

// Activate делает тариф доступным.
func (s *Service) Activate(ctx context.Context, id uuid.UUID) (*models.SubscriptionTier, error) {
	return s.mutate(ctx, "subscription.Activate", func(a Admin) (*models.SubscriptionTier, error) {
		return a.ActivateTier(ctx, id)
	})
}

// Deactivate скрывает тариф.
func (s *Service) Deactivate(ctx context.Context, id uuid.UUID) (*models.SubscriptionTier, error) {
	return s.mutate(ctx, "subscription.Deactivate", func(a Admin) (*models.SubscriptionTier, error) {
		return a.DeactivateTier(ctx, id)
	})
}

// Delete удаляет тариф.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.mutate(ctx, "subscription.Delete", func(a Admin) (*models.SubscriptionTier, error) {
		return nil, a.DeleteTier(ctx, id)
	})
	return err
}

// mutate выполняет операцию администратора и после успеха сбрасывает каталог.
func (s *Service) mutate(ctx context.Context, op string, fn func(Admin) (*models.SubscriptionTier, error)) (*models.SubscriptionTier, error) {
	if s.admin == nil {
		return nil, fmt.Errorf("%s: %w", op, models.ErrUnauthenticated)
	}
	tier, err := fn(s.admin)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.cache.Invalidate(ctx, cache.SubscriptionsKey); err != nil {
		s.log.Warn("failed to invalidate subscriptions cache", sl.Op(op), sl.Err(err))
	}
	s.log.Info("catalog changed", sl.Op(op))
	return tier, nil
}

func (s *Service) validateInput(in models.TierInput) error {
	if err := s.validate.Struct(in); err != nil {
		return fmt.Errorf("%w: %w", models.ErrValidation, err)
	}
	return nil
}
