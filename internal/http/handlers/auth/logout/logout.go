// Package logout реализует HTTP-обработчики выхода из текущей и всех сессий.
package logout

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/yoked-client/internal/http/response"
	"github.com/magabrotheeeer/yoked-client/internal/lib/sl"
)

// Service описывает выход.
type Service interface {
	Logout(ctx context.Context) error
	LogoutAll(ctx context.Context) error
}

// Handler обрабатывает POST /logout или POST /logout-all.
type Handler struct {
	log *slog.Logger
	svc Service
	all bool
}

// New создаёт обработчик выхода из текущей сессии.
func New(log *slog.Logger, svc Service) *Handler {
	return &Handler{log: log, svc: svc}
}

// NewAll создаёт обработчик выхода из всех сессий.
func NewAll(log *slog.Logger, svc Service) *Handler {
	return &Handler{log: log, svc: svc, all: true}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.Bool("all", h.all),
	)

	logout := h.svc.Logout
	if h.all {
		logout = h.svc.LogoutAll
	}
	// Локальная сессия к этому моменту уже очищена, ошибка относится только к бэкенду.
	if err := logout(r.Context()); err != nil {
		log.Warn("backend logout failed", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	log.Info("logged out")
	render.JSON(w, r, response.OK())
}
