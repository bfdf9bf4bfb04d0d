package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/yoked-client/internal/http/response"
	"github.com/magabrotheeeer/yoked-client/internal/lib/sl"
)

// AdminChecker проверяет сохранённый токен администратора на бэкенде.
type AdminChecker interface {
	Check(ctx context.Context) error
}

// RequireAdmin пропускает запрос, только если токен панели всё ещё принадлежит администратору.
// Без токена ответ 401, если роль больше не ADMIN, то 403 и токен удаляется.
func RequireAdmin(admin AdminChecker, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.RequireAdmin"

			if err := admin.Check(r.Context()); err != nil {
				log.Warn("admin check failed", sl.Op(op),
					slog.String("request_id", middleware.GetReqID(r.Context())), sl.Err(err))
				status, resp := response.FromError(err)
				render.Status(r, status)
				render.JSON(w, r, resp)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
