// Package route отвечает, можно ли открыть маршрут интерфейса на текущем шаге онбординга.
package route

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/yoked-client/internal/guard"
	"github.com/magabrotheeeer/yoked-client/internal/http/response"
	"github.com/magabrotheeeer/yoked-client/internal/lib/sl"
	"github.com/magabrotheeeer/yoked-client/internal/models"
)

// Service загружает профиль для решения.
type Service interface {
	Load(ctx context.Context, force bool) (*models.UserProfile, error)
}

// Handler обрабатывает GET /route?path=.
type Handler struct {
	log *slog.Logger
	svc Service
}

// New создаёт Handler.
func New(log *slog.Logger, svc Service) *Handler {
	return &Handler{log: log, svc: svc}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.navigation.route"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	path := r.URL.Query().Get("path")
	if path == "" {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("path is required"))
		return
	}

	profile, err := h.svc.Load(r.Context(), false)
	switch {
	case err == nil:
	case errors.Is(err, models.ErrUnauthenticated), errors.Is(err, models.ErrUnauthorized):
		profile = nil
	default:
		log.Error("failed to load profile", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	decision := guard.Decide(profile, path)
	log.Debug("route decided", slog.String("path", path), slog.Bool("allowed", decision.Allowed),
		slog.String("reason", decision.Reason))
	render.JSON(w, r, response.OKWithData(decision))
}
