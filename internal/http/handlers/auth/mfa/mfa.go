// Package mfa реализует HTTP-обработчики второго фактора: подтверждение входа кодом,
// получение QR-кода для подключения и подтверждение подключения.
package mfa

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/yoked-client/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/yoked-client/internal/http/response"
	"github.com/magabrotheeeer/yoked-client/internal/lib/sl"
	"github.com/magabrotheeeer/yoked-client/internal/models"
)

// Request: challenge, выданный при входе, и TOTP-код.
type Request struct {
	UserID       string `json:"user_id" validate:"required"`
	SessionToken string `json:"session_token"`
	Code         string `json:"code" validate:"required,len=6,numeric"`
}

// SetupRequest: challenge для получения QR-кода.
type SetupRequest struct {
	UserID       string `json:"user_id" validate:"required"`
	SessionToken string `json:"session_token"`
}

// Service описывает операции MFA менеджера сессии.
type Service interface {
	VerifyMFA(ctx context.Context, ch models.Challenge, code string) (*models.Authenticated, error)
	SetupMFA(ctx context.Context, ch models.Challenge) (*models.MFAEnrollment, error)
	ConfirmMFASetup(ctx context.Context, ch models.Challenge, code string) (*models.Authenticated, error)
}

// Handler обслуживает /mfa/*.
type Handler struct {
	log      *slog.Logger
	svc      Service
	validate *validator.Validate
}

// New создаёт Handler.
func New(log *slog.Logger, svc Service) *Handler {
	return &Handler{
		log:      log,
		svc:      svc,
		validate: validator.New(),
	}
}

// Verify обрабатывает POST /mfa/verify.
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	h.establish(w, r, "handlers.auth.mfa.verify", h.svc.VerifyMFA)
}

// Confirm обрабатывает POST /mfa/setup/confirm.
func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	h.establish(w, r, "handlers.auth.mfa.confirm", h.svc.ConfirmMFASetup)
}

// Setup обрабатывает POST /mfa/setup и возвращает ссылку на QR-код.
func (h *Handler) Setup(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.mfa.setup"
	log := h.requestLog(r, op)

	var req SetupRequest
	if !h.decode(w, r, log, &req) {
		return
	}
	enr, err := h.svc.SetupMFA(r.Context(), models.Challenge{UserID: req.UserID, SessionToken: req.SessionToken})
	if err != nil {
		log.Error("mfa setup failed", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}
	render.JSON(w, r, response.OKWithData(enr))
}

type establishFunc func(ctx context.Context, ch models.Challenge, code string) (*models.Authenticated, error)

func (h *Handler) establish(w http.ResponseWriter, r *http.Request, op string, fn establishFunc) {
	log := h.requestLog(r, op)

	var req Request
	if !h.decode(w, r, log, &req) {
		return
	}
	auth, err := fn(r.Context(), models.Challenge{UserID: req.UserID, SessionToken: req.SessionToken}, req.Code)
	if err != nil {
		log.Info("mfa step failed", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}
	out, err := login.ToResult(*auth)
	if err != nil {
		log.Error("unexpected login result", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}
	log.Info("session established")
	render.JSON(w, r, response.OKWithData(out))
}

func (h *Handler) requestLog(r *http.Request, op string) *slog.Logger {
	return h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, log *slog.Logger, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		log.Info("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return false
	}
	return true
}
