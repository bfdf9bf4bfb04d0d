// Package verification ожидает подтверждения почты пользователем.
package verification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/magabrotheeeer/yoked-client/internal/api"
	"github.com/magabrotheeeer/yoked-client/internal/lib/sl"
	"github.com/magabrotheeeer/yoked-client/internal/models"
)

// ProfileStore: загрузка и сброс профиля.
type ProfileStore interface {
	Load(ctx context.Context, force bool) (*models.UserProfile, error)
	Invalidate(ctx context.Context) error
}

// Confirmer подтверждает почту токеном из письма.
type Confirmer interface {
	VerifyEmail(ctx context.Context, token string) (*api.MessageResponse, error)
}

// Options: параметры экспоненциального опроса.
type Options struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxAttempts     uint
}

var errNotVerified = errors.New("email not verified yet")

// Poller опрашивает профиль, пока почта не будет подтверждена.
type Poller struct {
	profiles  ProfileStore
	confirmer Confirmer
	opts      Options
	log       *slog.Logger
}

// New создаёт Poller. Нулевые поля opts заменяются значениями по умолчанию: 1s, 15s, 5 попыток.
func New(profiles ProfileStore, confirmer Confirmer, opts Options, log *slog.Logger) *Poller {
	if opts.InitialInterval <= 0 {
		opts.InitialInterval = time.Second
	}
	if opts.MaxInterval <= 0 {
		opts.MaxInterval = 15 * time.Second
	}
	if opts.MaxAttempts == 0 {
		opts.MaxAttempts = 5
	}
	return &Poller{profiles: profiles, confirmer: confirmer, opts: opts, log: log}
}

// Verified сообщает, что почта подтверждена или онбординг уже ушёл дальше этого шага.
func Verified(p *models.UserProfile) bool {
	return p.IsVerified || p.SetupStep.Rank() > models.StepVerifyEmail.Rank()
}

// Wait перезагружает профиль с экспоненциальной паузой, пока почта не подтверждена.
// Отсутствие сессии или отказ в токене прерывают опрос сразу. Исчерпание попыток
// возвращает ErrVerificationTimeout.
func (p *Poller) Wait(ctx context.Context) (*models.UserProfile, error) {
	const op = "verification.Wait"
	log := p.log.With(sl.Op(op))

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.opts.InitialInterval
	b.MaxInterval = p.opts.MaxInterval

	attempt := 0
	profile, err := backoff.Retry(ctx, func() (*models.UserProfile, error) {
		attempt++
		profile, err := p.profiles.Load(ctx, true)
		switch {
		case errors.Is(err, models.ErrUnauthenticated), errors.Is(err, models.ErrUnauthorized):
			return nil, backoff.Permanent(err)
		case err != nil:
			return nil, err
		case !Verified(profile):
			return nil, errNotVerified
		}
		return profile, nil
	},
		backoff.WithBackOff(b),
		backoff.WithMaxTries(p.opts.MaxAttempts),
		backoff.WithMaxElapsedTime(0),
		backoff.WithNotify(func(err error, next time.Duration) {
			log.Debug("email not confirmed, retrying", slog.Int("attempt", attempt),
				slog.Duration("next", next), sl.Err(err))
		}),
	)
	switch {
	case err == nil:
		log.Info("email verified", slog.Int("attempts", attempt))
		return profile, nil
	case errors.Is(err, models.ErrUnauthenticated), errors.Is(err, models.ErrUnauthorized):
		return nil, fmt.Errorf("%s: %w", op, err)
	case ctx.Err() != nil:
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	case errors.Is(err, errNotVerified):
		log.Warn("email verification timed out", slog.Int("attempts", attempt))
		return nil, fmt.Errorf("%s: %w", op, models.ErrVerificationTimeout)
	default:
		log.Warn("email verification gave up", slog.Int("attempts", attempt), sl.Err(err))
		return nil, fmt.Errorf("%s: %w: %w", op, models.ErrVerificationTimeout, err)
	}
}

// Confirm подтверждает почту токеном из письма и сбрасывает закешированный профиль.
func (p *Poller) Confirm(ctx context.Context, token string) error {
	const op = "verification.Confirm"
	if token == "" {
		return fmt.Errorf("%s: %w: empty token", op, models.ErrValidation)
	}
	if _, err := p.confirmer.VerifyEmail(ctx, token); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := p.profiles.Invalidate(ctx); err != nil {
		p.log.Warn("failed to invalidate profile after verification", sl.Op(op), sl.Err(err))
	}
	return nil
}
