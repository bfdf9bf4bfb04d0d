// Package health отвечает на проверку живости агента.
package health

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/yoked-client/internal/http/response"
)

// Handler всегда отвечает 200.
type Handler struct{}

// New создаёт Handler.
func New() *Handler {
	return &Handler{}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, response.OKWithData(map[string]any{
		"status": "ok",
	}))
}
