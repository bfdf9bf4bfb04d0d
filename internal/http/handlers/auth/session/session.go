// Package session отдаёт текущую сессию агента.
package session

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/yoked-client/internal/http/middlewarectx"
	"github.com/magabrotheeeer/yoked-client/internal/http/response"
	"github.com/magabrotheeeer/yoked-client/internal/models"
)

// Handler обрабатывает GET /session. Работает за middlewarectx.RequireSession.
type Handler struct {
	log *slog.Logger
}

// New создаёт Handler.
func New(log *slog.Logger) *Handler {
	return &Handler{log: log}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s, ok := middlewarectx.SessionFrom(r.Context())
	if !ok {
		h.log.Error("session missing from request context", slog.String("path", r.URL.Path))
		response.RenderError(w, r, models.ErrUnauthenticated)
		return
	}
	render.JSON(w, r, response.OKWithData(s))
}
