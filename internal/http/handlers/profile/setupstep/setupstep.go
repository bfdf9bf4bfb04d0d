// Package setupstep реализует HTTP-обработчик перехода на следующий шаг онбординга.
package setupstep

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/yoked-client/internal/guard"
	"github.com/magabrotheeeer/yoked-client/internal/http/response"
	"github.com/magabrotheeeer/yoked-client/internal/lib/sl"
	"github.com/magabrotheeeer/yoked-client/internal/models"
)

// Request: целевой шаг.
type Request struct {
	SetupStep string `json:"setup_step"`
}

// Result: профиль после перехода и маршрут, на который нужно перейти.
type Result struct {
	Profile *models.UserProfile `json:"profile"`
	Route   string              `json:"route"`
}

// Service переводит онбординг вперёд.
type Service interface {
	AdvanceSetupStep(ctx context.Context, step models.SetupStep) (*models.UserProfile, error)
}

// Handler обрабатывает POST /profile/setup-step.
type Handler struct {
	log *slog.Logger
	svc Service
}

// New создаёт Handler.
func New(log *slog.Logger, svc Service) *Handler {
	return &Handler{log: log, svc: svc}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.profile.setupstep"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	step, err := models.ParseSetupStep(req.SetupStep)
	if err != nil {
		response.RenderError(w, r, err)
		return
	}

	profile, err := h.svc.AdvanceSetupStep(r.Context(), step)
	if err != nil {
		log.Info("setup step not advanced", slog.String("step", string(step)), sl.Err(err))
		response.RenderError(w, r, err)
		return
	}
	log.Info("setup step advanced", slog.String("step", string(profile.SetupStep)))
	render.JSON(w, r, response.OKWithData(Result{
		Profile: profile,
		Route:   guard.CanonicalRoute(profile.SetupStep),
	}))
}
