// Package login реализует HTTP-обработчик входа пользователя.
//
// Результат входа отдаётся одним из трёх вариантов в поле result:
// authenticated (с сессией и профилем), mfa_required или mfa_setup_required (с challenge).
package login

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/yoked-client/internal/http/response"
	"github.com/magabrotheeeer/yoked-client/internal/lib/sl"
	"github.com/magabrotheeeer/yoked-client/internal/models"
)

// Варианты результата входа.
const (
	ResultAuthenticated    = "authenticated"
	ResultMFARequired      = "mfa_required"
	ResultMFASetupRequired = "mfa_setup_required"
)

// Request: учётные данные для входа.
type Request struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Result: тело успешного ответа.
type Result struct {
	Result    string              `json:"result"`
	Session   *models.Session     `json:"session,omitempty"`
	Profile   *models.UserProfile `json:"profile,omitempty"`
	Challenge *models.Challenge   `json:"challenge,omitempty"`
}

// Service описывает вход.
type Service interface {
	Login(ctx context.Context, email, password string) (models.LoginResult, error)
}

// Handler обрабатывает POST /login.
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

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"

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

	if err := h.validate.Struct(req); err != nil {
		log.Info("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	res, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		log.Info("login failed", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	out, err := ToResult(res)
	if err != nil {
		log.Error("unexpected login result", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}
	log.Info("login finished", slog.String("result", out.Result))
	render.JSON(w, r, response.OKWithData(out))
}

// ToResult раскладывает LoginResult в тело ответа. Неизвестный вариант возвращается ошибкой.
func ToResult(res models.LoginResult) (Result, error) {
	switch v := res.(type) {
	case models.Authenticated:
		return Result{Result: ResultAuthenticated, Session: &v.Session, Profile: v.Profile}, nil
	case models.MFARequired:
		return Result{Result: ResultMFARequired, Challenge: &v.Challenge}, nil
	case models.MFASetupRequired:
		return Result{Result: ResultMFASetupRequired, Challenge: &v.Challenge}, nil
	default:
		return Result{}, fmt.Errorf("handlers.auth.login.ToResult: unknown login result %T", res)
	}
}
