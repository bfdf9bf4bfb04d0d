// Package middlewarectx содержит HTTP middleware агента: проверку активной сессии
// и ограничение частоты запросов.
package middlewarectx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/yoked-client/internal/http/response"
	"github.com/magabrotheeeer/yoked-client/internal/lib/sl"
	"github.com/magabrotheeeer/yoked-client/internal/models"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

// SessionKey: ключ текущей сессии в контексте.
const SessionKey Key = "session"

// Sessions возвращает текущую сессию.
type Sessions interface {
	Current(ctx context.Context) (*models.Session, error)
}

// RequireSession пропускает запрос, только если есть сохранённый токен, и кладёт сессию в контекст.
// Токен не проверяется на бэкенде: истёкший токен обнаружится первым же вызовом API.
func RequireSession(sessions Sessions, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.RequireSession"

			s, err := sessions.Current(r.Context())
			if err != nil {
				if !errors.Is(err, models.ErrUnauthenticated) {
					log.Error("failed to read session", sl.Op(op),
						slog.String("request_id", middleware.GetReqID(r.Context())), sl.Err(err))
				}
				status, resp := response.FromError(err)
				render.Status(r, status)
				render.JSON(w, r, resp)
				return
			}
			ctx := context.WithValue(r.Context(), SessionKey, s)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFrom достаёт сессию, положенную RequireSession.
func SessionFrom(ctx context.Context) (*models.Session, bool) {
	s, ok := ctx.Value(SessionKey).(*models.Session)
	return s, ok
}
