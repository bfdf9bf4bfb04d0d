// Package verification реализует HTTP-обработчики подтверждения почты.
package verification

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/yoked-client/internal/http/response"
	"github.com/magabrotheeeer/yoked-client/internal/lib/sl"
	"github.com/magabrotheeeer/yoked-client/internal/models"
)

// ConfirmRequest: токен из письма.
type ConfirmRequest struct {
	Token string `json:"token"`
}

// Service ожидает и подтверждает почту.
type Service interface {
	Wait(ctx context.Context) (*models.UserProfile, error)
	Confirm(ctx context.Context, token string) error
}

// Handler обслуживает /verify-email/*.
type Handler struct {
	log *slog.Logger
	svc Service
}

// New создаёт Handler.
func New(log *slog.Logger, svc Service) *Handler {
	return &Handler{log: log, svc: svc}
}

// Confirm обрабатывает POST /verify-email/confirm.
func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.verification.confirm"
	log := h.log.With(slog.String("op", op), slog.String("request_id", middleware.GetReqID(r.Context())))

	var req ConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	if err := h.svc.Confirm(r.Context(), req.Token); err != nil {
		log.Info("email confirmation failed", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}
	render.JSON(w, r, response.OK())
}

// Wait обрабатывает POST /verify-email/wait. Запрос держится, пока опрос не завершится.
func (h *Handler) Wait(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.verification.wait"
	log := h.log.With(slog.String("op", op), slog.String("request_id", middleware.GetReqID(r.Context())))

	profile, err := h.svc.Wait(r.Context())
	if err != nil {
		log.Info("email not verified", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}
	render.JSON(w, r, response.OKWithData(profile))
}
