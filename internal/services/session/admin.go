package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/yoked-client/internal/api"
	"github.com/magabrotheeeer/yoked-client/internal/lib/sl"
	"github.com/magabrotheeeer/yoked-client/internal/models"
)

// AdminUserType: значение user_type учётной записи администратора.
const AdminUserType = "ADMIN"

// AdminBackend: вызовы бэкенда для входа администратора.
type AdminBackend interface {
	AdminLogin(ctx context.Context, email, password string, isMobile bool) (*api.LoginResponse, error)
	AdminProfile(ctx context.Context) (*models.UserProfile, error)
}

// AdminSession хранит токен панели администратора отдельно от пользовательской сессии.
type AdminSession struct {
	api    AdminBackend
	tokens *TokenStore
	log    *slog.Logger
}

// NewAdminSession создаёт AdminSession. backend должен использовать tokens как Credentials.
func NewAdminSession(backend AdminBackend, tokens *TokenStore, log *slog.Logger) *AdminSession {
	return &AdminSession{api: backend, tokens: tokens, log: log}
}

// Login входит в панель и проверяет, что учётная запись имеет роль администратора.
func (a *AdminSession) Login(ctx context.Context, email, password string) (*models.UserProfile, error) {
	const op = "session.AdminSession.Login"
	log := a.log.With(sl.Op(op))

	resp, err := a.api.AdminLogin(ctx, email, password, false)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	token := strings.TrimSpace(resp.AccessToken)
	if token == "" {
		return nil, fmt.Errorf("%s: %w", op, models.ErrLoginFailed)
	}
	if _, err := a.tokens.Save(ctx, token); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	profile, err := a.api.AdminProfile(ctx)
	if err != nil {
		if clearErr := a.tokens.Clear(ctx); clearErr != nil {
			log.Error("failed to clear admin token", sl.Err(clearErr))
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if profile.UserType != AdminUserType {
		if err := a.tokens.Clear(ctx); err != nil {
			log.Error("failed to clear admin token", sl.Err(err))
		}
		log.Warn("login rejected: not an admin", slog.String("user_type", profile.UserType))
		return nil, fmt.Errorf("%s: %w", op, models.ErrForbidden)
	}

	log.Info("admin logged in", slog.String("username", profile.Username))
	return profile, nil
}

// Logout удаляет токен администратора.
func (a *AdminSession) Logout(ctx context.Context) error {
	const op = "session.AdminSession.Logout"
	if err := a.tokens.Clear(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Check подтверждает, что сохранённый токен по-прежнему принадлежит администратору.
func (a *AdminSession) Check(ctx context.Context) error {
	const op = "session.AdminSession.Check"
	profile, err := a.api.AdminProfile(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if profile.UserType != AdminUserType {
		return errors.Join(fmt.Errorf("%s: %w", op, models.ErrForbidden), a.tokens.Clear(ctx))
	}
	return nil
}

// Token возвращает токен администратора.
func (a *AdminSession) Token(ctx context.Context) (string, bool) {
	return a.tokens.Token(ctx)
}

// HandleUnauthorized удаляет токен администратора после ответа 401/403.
func (a *AdminSession) HandleUnauthorized(ctx context.Context) {
	a.tokens.HandleUnauthorized(ctx)
}
