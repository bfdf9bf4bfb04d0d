// Package profile реализует загрузку профиля пользователя с проверкой версии.
//
// Перед каждой загрузкой запрашивается серверная версия профиля. Если она совпадает
// с закешированной, профиль отдаётся из кеша без полного запроса.
package profile

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/yoked-client/internal/api"
	"github.com/magabrotheeeer/yoked-client/internal/cache"
	"github.com/magabrotheeeer/yoked-client/internal/lib/sl"
	"github.com/magabrotheeeer/yoked-client/internal/metrics"
	"github.com/magabrotheeeer/yoked-client/internal/models"
)

// Backend: эндпоинты профиля.
type Backend interface {
	Version(ctx context.Context, resource api.Resource) (int, error)
	Profile(ctx context.Context) (*models.UserProfile, error)
	UpdateProfile(ctx context.Context, patch models.ProfilePatch) (*models.UserProfile, error)
}

// TokenSource сообщает, есть ли активная сессия.
type TokenSource interface {
	Token(ctx context.Context) (string, bool)
}

// Store: источник профиля текущего пользователя.
type Store struct {
	api      Backend
	cache    *cache.Cache[models.UserProfile]
	tokens   TokenSource
	validate *validator.Validate
	log      *slog.Logger
}

// New создаёт Store.
func New(backend Backend, c *cache.Cache[models.UserProfile], tokens TokenSource, log *slog.Logger) *Store {
	return &Store{
		api:      backend,
		cache:    c,
		tokens:   tokens,
		validate: validator.New(),
		log:      log,
	}
}

// Load возвращает профиль. Без сессии возвращает ErrUnauthenticated, не обращаясь к сети.
// force пропускает сравнение версий, но версия всё равно запрашивается, чтобы сохранить её в кеш.
func (s *Store) Load(ctx context.Context, force bool) (*models.UserProfile, error) {
	const op = "profile.Load"
	log := s.log.With(sl.Op(op))

	if _, ok := s.tokens.Token(ctx); !ok {
		return nil, fmt.Errorf("%s: %w", op, models.ErrUnauthenticated)
	}

	remote, err := s.api.Version(ctx, api.ResourceProfile)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	cached, found := s.cache.Get(ctx, cache.ProfileKey)
	var state string
	switch {
	case !found:
		state = metrics.StateEmpty
	case force:
		state = metrics.StateForce
	case cached.Version == remote:
		metrics.CacheLookups.WithLabelValues(cache.ProfileKey.Resource, metrics.StateFresh).Inc()
		log.Debug("profile served from cache", slog.Int("version", remote))
		return &cached.Data, nil
	default:
		state = metrics.StateStale
		if cached.Version > remote {
			log.Warn("remote profile version went backward",
				slog.Int("cached", cached.Version), slog.Int("remote", remote))
		}
	}
	metrics.CacheLookups.WithLabelValues(cache.ProfileKey.Resource, state).Inc()

	profile, err := s.api.Profile(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.cache.Set(ctx, cache.ProfileKey, *profile, remote); err != nil {
		log.Warn("failed to cache profile", sl.Err(err))
	}
	log.Debug("profile fetched", slog.String("state", state), slog.Int("version", remote))
	return profile, nil
}

// Update отправляет изменения профиля и сбрасывает кеш. Возвращает профиль из ответа бэкенда.
func (s *Store) Update(ctx context.Context, patch models.ProfilePatch) (*models.UserProfile, error) {
	const op = "profile.Update"
	log := s.log.With(sl.Op(op))

	if err := s.validate.Struct(patch); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, models.ErrValidation, err)
	}
	if patch.SetupStep != nil && !patch.SetupStep.Valid() {
		return nil, fmt.Errorf("%s: %w: unknown setup step %q", op, models.ErrValidation, *patch.SetupStep)
	}

	profile, err := s.api.UpdateProfile(ctx, patch)
	// Сервер мог применить изменение, даже если ответ не дошёл.
	if invErr := s.cache.Invalidate(ctx, cache.ProfileKey); invErr != nil {
		log.Warn("failed to invalidate profile cache", sl.Err(invErr))
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	log.Info("profile updated")
	return profile, nil
}

// AdvanceSetupStep переводит онбординг на шаг step. Шаг назад отклоняется с ErrValidation,
// повтор текущего шага ничего не отправляет.
func (s *Store) AdvanceSetupStep(ctx context.Context, step models.SetupStep) (*models.UserProfile, error) {
	const op = "profile.AdvanceSetupStep"

	if !step.Valid() {
		return nil, fmt.Errorf("%s: %w: unknown setup step %q", op, models.ErrValidation, step)
	}
	current, err := s.Load(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	switch {
	case step.Rank() < current.SetupStep.Rank():
		return nil, fmt.Errorf("%s: %w: cannot move from %s back to %s", op, models.ErrValidation, current.SetupStep, step)
	case step == current.SetupStep:
		return current, nil
	}

	profile, err := s.Update(ctx, models.ProfilePatch{SetupStep: &step})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return profile, nil
}

// Invalidate сбрасывает закешированный профиль.
func (s *Store) Invalidate(ctx context.Context) error {
	const op = "profile.Invalidate"
	if err := s.cache.Invalidate(ctx, cache.ProfileKey); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
