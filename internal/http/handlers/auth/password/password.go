// Package password реализует HTTP-обработчики сброса пароля.
package password

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/yoked-client/internal/http/response"
	"github.com/magabrotheeeer/yoked-client/internal/lib/sl"
)

// ResetRequest: запрос письма для сброса.
type ResetRequest struct {
	Email string `json:"email"`
}

// NewPasswordRequest: новый пароль и токен из письма.
type NewPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// Service описывает сброс пароля. Валидацию полей выполняет сервис.
type Service interface {
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
}

// Handler обслуживает /password/*.
type Handler struct {
	log *slog.Logger
	svc Service
}

// New создаёт Handler.
func New(log *slog.Logger, svc Service) *Handler {
	return &Handler{log: log, svc: svc}
}

// Request обрабатывает POST /password/reset-request.
func (h *Handler) Request(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.password.request"
	log := h.log.With(slog.String("op", op), slog.String("request_id", middleware.GetReqID(r.Context())))

	var req ResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	if err := h.svc.RequestPasswordReset(r.Context(), req.Email); err != nil {
		log.Info("password reset request failed", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}
	render.Status(r, http.StatusAccepted)
	render.JSON(w, r, response.OK())
}

// Reset обрабатывает POST /password/reset.
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.password.reset"
	log := h.log.With(slog.String("op", op), slog.String("request_id", middleware.GetReqID(r.Context())))

	var req NewPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	if err := h.svc.ResetPassword(r.Context(), req.Token, req.NewPassword); err != nil {
		log.Info("password reset failed", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}
	render.JSON(w, r, response.OK())
}
