package session

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/yoked-client/internal/lib/jwt"
	"github.com/magabrotheeeer/yoked-client/internal/lib/sl"
	"github.com/magabrotheeeer/yoked-client/internal/metrics"
	"github.com/magabrotheeeer/yoked-client/internal/models"
	"github.com/magabrotheeeer/yoked-client/internal/storage"
)

// TokenStore хранит токен в постоянном хранилище и очищает связанное с ним состояние.
// Реализует api.Credentials.
type TokenStore struct {
	store        storage.Store
	log          *slog.Logger
	tokenKey     string
	createdAtKey string
	clearKeys    []string
	now          func() time.Time
}

// NewTokens создаёт хранилище пользовательского токена. Очистка затрагивает
// токен и все закешированные данные пользователя.
func NewTokens(store storage.Store, log *slog.Logger) *TokenStore {
	return &TokenStore{
		store:        store,
		log:          log,
		tokenKey:     storage.KeyToken,
		createdAtKey: storage.KeyTokenCreatedAt,
		clearKeys:    storage.SessionKeys,
		now:          time.Now,
	}
}

// NewAdminTokens создаёт хранилище токена администратора.
func NewAdminTokens(store storage.Store, log *slog.Logger) *TokenStore {
	return &TokenStore{
		store:     store,
		log:       log,
		tokenKey:  storage.KeyAdminToken,
		clearKeys: []string{storage.KeyAdminToken},
		now:       time.Now,
	}
}

// Token возвращает сохранённый токен. Ошибка чтения хранилища равносильна отсутствию токена.
func (t *TokenStore) Token(ctx context.Context) (string, bool) {
	token, found, err := t.store.Get(ctx, t.tokenKey)
	if err != nil {
		t.log.Warn("failed to read token", sl.Key(t.tokenKey), sl.Err(err))
		return "", false
	}
	if !found || token == "" {
		return "", false
	}
	return token, true
}

// Session возвращает текущую сессию или ErrUnauthenticated.
func (t *TokenStore) Session(ctx context.Context) (*models.Session, error) {
	const op = "session.TokenStore.Session"

	token, found, err := t.store.Get(ctx, t.tokenKey)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !found || token == "" {
		return nil, fmt.Errorf("%s: %w", op, models.ErrUnauthenticated)
	}

	s := &models.Session{Token: token, ExpiresAt: jwt.ExpiresAt(token)}
	if t.createdAtKey == "" {
		return s, nil
	}
	raw, found, err := t.store.Get(ctx, t.createdAtKey)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if found {
		if createdAt, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			s.CreatedAt = createdAt
		} else {
			t.log.Warn("stored token timestamp is invalid", sl.Key(t.createdAtKey), sl.Err(err))
		}
	}
	return s, nil
}

// Save сохраняет новый токен, заменяя предыдущий.
func (t *TokenStore) Save(ctx context.Context, token string) (*models.Session, error) {
	const op = "session.TokenStore.Save"

	s := &models.Session{
		Token:     token,
		CreatedAt: t.now().UTC(),
		ExpiresAt: jwt.ExpiresAt(token),
	}
	if err := t.store.Set(ctx, t.tokenKey, token); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if t.createdAtKey != "" {
		if err := t.store.Set(ctx, t.createdAtKey, s.CreatedAt.Format(time.RFC3339Nano)); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}
	return s, nil
}

// Clear удаляет токен и связанные ключи одной операцией хранилища.
func (t *TokenStore) Clear(ctx context.Context) error {
	const op = "session.TokenStore.Clear"
	if err := t.store.Delete(ctx, t.clearKeys...); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// HandleUnauthorized очищает состояние после ответа 401/403.
func (t *TokenStore) HandleUnauthorized(ctx context.Context) {
	metrics.SessionEvents.WithLabelValues("unauthorized").Inc()
	if err := t.Clear(ctx); err != nil {
		t.log.Error("failed to clear rejected token", sl.Key(t.tokenKey), sl.Err(err))
		return
	}
	t.log.Info("token rejected by backend, local state cleared", sl.Key(t.tokenKey))
}
