// Package session управляет жизненным циклом токена: вход, регистрация, MFA и выход.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/yoked-client/internal/api"
	"github.com/magabrotheeeer/yoked-client/internal/lib/sl"
	"github.com/magabrotheeeer/yoked-client/internal/metrics"
	"github.com/magabrotheeeer/yoked-client/internal/models"
)

// Backend: вызовы бэкенда, которые использует Manager.
type Backend interface {
	Register(ctx context.Context, body api.RegisterBody) (*api.RegisterResponse, error)
	Login(ctx context.Context, email, password string, isMobile bool) (*api.LoginResponse, error)
	VerifyMFA(ctx context.Context, ch models.Challenge, code string) (*api.LoginResponse, error)
	MFASetup(ctx context.Context, ch models.Challenge) (*models.MFAEnrollment, error)
	ConfirmMFASetup(ctx context.Context, ch models.Challenge, code string) (*api.LoginResponse, error)
	Logout(ctx context.Context) error
	LogoutAll(ctx context.Context) error
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
}

// ProfileLoader перезагружает профиль после установки сессии.
type ProfileLoader interface {
	Load(ctx context.Context, force bool) (*models.UserProfile, error)
}

// Manager: единственная точка установки и сброса пользовательской сессии.
type Manager struct {
	api      Backend
	tokens   *TokenStore
	profiles ProfileLoader
	validate *validator.Validate
	log      *slog.Logger
}

// NewManager создаёт Manager.
func NewManager(backend Backend, tokens *TokenStore, profiles ProfileLoader, log *slog.Logger) *Manager {
	return &Manager{
		api:      backend,
		tokens:   tokens,
		profiles: profiles,
		validate: validator.New(),
		log:      log,
	}
}

type credentials struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

type totp struct {
	Code string `validate:"required,len=6,numeric"`
}

type passwordReset struct {
	Token       string `validate:"required"`
	NewPassword string `validate:"required,min=8"`
}

// Register регистрирует пользователя. Сессию не устанавливает: после регистрации
// пользователь подтверждает почту и входит обычным способом.
func (m *Manager) Register(ctx context.Context, req models.RegisterRequest) (*api.RegisterResponse, error) {
	const op = "session.Register"
	log := m.log.With(sl.Op(op))

	if err := m.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, models.ErrValidation, err)
	}

	resp, err := m.api.Register(ctx, api.RegisterBody{
		Username:              req.Username,
		Email:                 req.Email,
		Password:              req.Password,
		AcceptedTerms:         true,
		AcceptedPrivacyPolicy: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	metrics.SessionEvents.WithLabelValues("register").Inc()
	log.Info("user registered", slog.String("username", req.Username))
	return resp, nil
}

// Login выполняет вход. Результат: ровно один из вариантов LoginResult.
// Для вариантов MFA токен не сохраняется.
func (m *Manager) Login(ctx context.Context, email, password string) (models.LoginResult, error) {
	const op = "session.Login"

	if err := m.validate.Struct(credentials{Email: email, Password: password}); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, models.ErrValidation, err)
	}
	resp, err := m.api.Login(ctx, email, password, false)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	res, err := m.resolve(ctx, resp, true)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return res, nil
}

// VerifyMFA завершает вход TOTP-кодом.
func (m *Manager) VerifyMFA(ctx context.Context, ch models.Challenge, code string) (*models.Authenticated, error) {
	const op = "session.VerifyMFA"

	if err := m.validate.Struct(totp{Code: code}); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, models.ErrValidation, err)
	}
	resp, err := m.api.VerifyMFA(ctx, ch, code)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return m.establishOnly(ctx, op, resp)
}

// SetupMFA возвращает данные для подключения приложения-аутентификатора.
func (m *Manager) SetupMFA(ctx context.Context, ch models.Challenge) (*models.MFAEnrollment, error) {
	const op = "session.SetupMFA"
	enr, err := m.api.MFASetup(ctx, ch)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return enr, nil
}

// ConfirmMFASetup подтверждает подключение MFA первым кодом и устанавливает сессию.
func (m *Manager) ConfirmMFASetup(ctx context.Context, ch models.Challenge, code string) (*models.Authenticated, error) {
	const op = "session.ConfirmMFASetup"

	if err := m.validate.Struct(totp{Code: code}); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, models.ErrValidation, err)
	}
	resp, err := m.api.ConfirmMFASetup(ctx, ch, code)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return m.establishOnly(ctx, op, resp)
}

func (m *Manager) establishOnly(ctx context.Context, op string, resp *api.LoginResponse) (*models.Authenticated, error) {
	res, err := m.resolve(ctx, resp, false)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	auth, ok := res.(models.Authenticated)
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, models.ErrLoginFailed)
	}
	return &auth, nil
}

// resolve приводит ответ бэкенда к одному варианту LoginResult.
func (m *Manager) resolve(ctx context.Context, resp *api.LoginResponse, allowChallenge bool) (models.LoginResult, error) {
	token := strings.TrimSpace(resp.AccessToken)
	ch := models.Challenge{UserID: string(resp.UserID), SessionToken: resp.SessionToken}

	switch {
	case token != "":
		return m.establish(ctx, token)
	case allowChallenge && resp.MFARequired:
		metrics.SessionEvents.WithLabelValues("mfa_required").Inc()
		m.log.Info("mfa required", slog.String("user_id", ch.UserID))
		return models.MFARequired{Challenge: ch}, nil
	case allowChallenge && resp.MFASetupRequired:
		metrics.SessionEvents.WithLabelValues("mfa_setup_required").Inc()
		m.log.Info("mfa setup required", slog.String("user_id", ch.UserID))
		return models.MFASetupRequired{Challenge: ch}, nil
	default:
		metrics.SessionEvents.WithLabelValues("login_failed").Inc()
		return nil, models.ErrLoginFailed
	}
}

// establish сохраняет токен и принудительно перезагружает профиль: кеш мог остаться
// от другой учётной записи.
func (m *Manager) establish(ctx context.Context, token string) (models.LoginResult, error) {
	s, err := m.tokens.Save(ctx, token)
	if err != nil {
		return nil, err
	}
	metrics.SessionEvents.WithLabelValues("login").Inc()

	profile, err := m.profiles.Load(ctx, true)
	if err != nil {
		if api.IsUnauthorized(err) {
			return nil, err
		}
		m.log.Warn("session established but profile reload failed", sl.Err(err))
		return models.Authenticated{Session: *s}, nil
	}
	return models.Authenticated{Session: *s, Profile: profile}, nil
}

// Logout завершает сессию на бэкенде и очищает локальное состояние.
// Локальное состояние очищается даже при ошибке бэкенда, ошибка возвращается.
func (m *Manager) Logout(ctx context.Context) error {
	return m.logout(ctx, "session.Logout", m.api.Logout)
}

// LogoutAll завершает все сессии пользователя.
func (m *Manager) LogoutAll(ctx context.Context) error {
	return m.logout(ctx, "session.LogoutAll", m.api.LogoutAll)
}

func (m *Manager) logout(ctx context.Context, op string, call func(context.Context) error) error {
	log := m.log.With(sl.Op(op))

	callErr := call(ctx)
	if callErr != nil && !errors.Is(callErr, models.ErrUnauthenticated) {
		log.Warn("backend logout failed, clearing local state anyway", sl.Err(callErr))
	}
	if err := m.tokens.Clear(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	metrics.SessionEvents.WithLabelValues("logout").Inc()
	log.Info("session cleared")

	if callErr != nil && !errors.Is(callErr, models.ErrUnauthenticated) {
		return fmt.Errorf("%s: %w", op, callErr)
	}
	return nil
}

// Current возвращает текущую сессию или ErrUnauthenticated.
func (m *Manager) Current(ctx context.Context) (*models.Session, error) {
	const op = "session.Current"
	s, err := m.tokens.Session(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s, nil
}

// Token возвращает токен текущей сессии.
func (m *Manager) Token(ctx context.Context) (string, bool) {
	return m.tokens.Token(ctx)
}

// HandleUnauthorized очищает сессию после ответа 401/403.
func (m *Manager) HandleUnauthorized(ctx context.Context) {
	m.tokens.HandleUnauthorized(ctx)
}

// RequestPasswordReset запрашивает письмо для сброса пароля.
func (m *Manager) RequestPasswordReset(ctx context.Context, email string) error {
	const op = "session.RequestPasswordReset"
	if err := m.validate.Var(email, "required,email"); err != nil {
		return fmt.Errorf("%s: %w: %w", op, models.ErrValidation, err)
	}
	if err := m.api.RequestPasswordReset(ctx, email); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ResetPassword устанавливает новый пароль по токену из письма.
func (m *Manager) ResetPassword(ctx context.Context, token, newPassword string) error {
	const op = "session.ResetPassword"
	if err := m.validate.Struct(passwordReset{Token: token, NewPassword: newPassword}); err != nil {
		return fmt.Errorf("%s: %w: %w", op, models.ErrValidation, err)
	}
	if err := m.api.ResetPassword(ctx, token, newPassword); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
