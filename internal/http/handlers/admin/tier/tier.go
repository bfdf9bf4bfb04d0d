// Package tier реализует операции администратора над тарифами каталога.
// Каждая успешная операция сбрасывает закешированный каталог.
package tier

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/yoked-client/internal/http/response"
	"github.com/magabrotheeeer/yoked-client/internal/lib/sl"
	"github.com/magabrotheeeer/yoked-client/internal/models"
)

// Service описывает изменение каталога.
type Service interface {
	Create(ctx context.Context, in models.TierInput) (*models.SubscriptionTier, error)
	Update(ctx context.Context, id uuid.UUID, in models.TierInput) (*models.SubscriptionTier, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Activate(ctx context.Context, id uuid.UUID) (*models.SubscriptionTier, error)
	Deactivate(ctx context.Context, id uuid.UUID) (*models.SubscriptionTier, error)
}

// Handler обслуживает /admin/subscriptions.
type Handler struct {
	log *slog.Logger
	svc Service
}

// New создаёт Handler.
func New(log *slog.Logger, svc Service) *Handler {
	return &Handler{log: log, svc: svc}
}

// Routes возвращает роутер с операциями над тарифами.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	r.Put("/{id}/activate", h.Activate)
	r.Put("/{id}/deactivate", h.Deactivate)
	return r
}

// Create обрабатывает POST /admin/subscriptions.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.tier.create"
	log := h.requestLog(r, op)

	var in models.TierInput
	if !decode(w, r, log, &in) {
		return
	}
	tier, err := h.svc.Create(r.Context(), in)
	h.respond(w, r, log, tier, err, http.StatusCreated)
}

// Update обрабатывает PUT /admin/subscriptions/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.tier.update"
	log := h.requestLog(r, op)

	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var in models.TierInput
	if !decode(w, r, log, &in) {
		return
	}
	tier, err := h.svc.Update(r.Context(), id, in)
	h.respond(w, r, log, tier, err, http.StatusOK)
}

// Delete обрабатывает DELETE /admin/subscriptions/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.tier.delete"
	log := h.requestLog(r, op)

	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		log.Error("failed to delete tier", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}
	render.JSON(w, r, response.OK())
}

// Activate обрабатывает PUT /admin/subscriptions/{id}/activate.
func (h *Handler) Activate(w http.ResponseWriter, r *http.Request) {
	log := h.requestLog(r, "handlers.admin.tier.activate")
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	tier, err := h.svc.Activate(r.Context(), id)
	h.respond(w, r, log, tier, err, http.StatusOK)
}

// Deactivate обрабатывает PUT /admin/subscriptions/{id}/deactivate.
func (h *Handler) Deactivate(w http.ResponseWriter, r *http.Request) {
	log := h.requestLog(r, "handlers.admin.tier.deactivate")
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	tier, err := h.svc.Deactivate(r.Context(), id)
	h.respond(w, r, log, tier, err, http.StatusOK)
}

func (h *Handler) requestLog(r *http.Request, op string) *slog.Logger {
	return h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, log *slog.Logger, tier *models.SubscriptionTier, err error, status int) {
	if err != nil {
		log.Error("tier operation failed", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}
	log.Info("tier changed", slog.String("id", tier.ID.String()))
	render.Status(r, status)
	render.JSON(w, r, response.OKWithData(tier))
}

func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid id"))
		return uuid.Nil, false
	}
	return id, true
}

func decode(w http.ResponseWriter, r *http.Request, log *slog.Logger, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return false
	}
	return true
}
