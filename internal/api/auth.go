package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/magabrotheeeer/yoked-client/internal/models"
)

// Register регистрирует пользователя.
func (c *Client) Register(ctx context.Context, body RegisterBody) (*RegisterResponse, error) {
	var resp RegisterResponse
	err := c.do(ctx, call{name: "Register", method: http.MethodPost, path: "/auth/register", body: body}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Login выполняет вход по почте и паролю.
func (c *Client) Login(ctx context.Context, email, password string, isMobile bool) (*LoginResponse, error) {
	var resp LoginResponse
	err := c.do(ctx, call{
		name:   "Login",
		method: http.MethodPost,
		path:   "/auth/login",
		body:   loginRequest{Email: email, Password: password, IsMobile: isMobile},
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// VerifyMFA подтверждает вход TOTP-кодом.
func (c *Client) VerifyMFA(ctx context.Context, ch models.Challenge, code string) (*LoginResponse, error) {
	var resp LoginResponse
	err := c.do(ctx, call{
		name:   "VerifyMFA",
		method: http.MethodPost,
		path:   "/auth/mfa/verify",
		body:   mfaRequest{UserID: ch.UserID, SessionToken: ch.SessionToken, TOTPCode: code},
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// MFASetup запрашивает данные для подключения приложения-аутентификатора.
func (c *Client) MFASetup(ctx context.Context, ch models.Challenge) (*models.MFAEnrollment, error) {
	var resp models.MFAEnrollment
	err := c.do(ctx, call{
		name:   "MFASetup",
		method: http.MethodGet,
		path:   "/auth/mfa/setup",
		query:  url.Values{"user_id": {ch.UserID}},
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// ConfirmMFASetup завершает подключение MFA первым кодом.
func (c *Client) ConfirmMFASetup(ctx context.Context, ch models.Challenge, code string) (*LoginResponse, error) {
	var resp LoginResponse
	err := c.do(ctx, call{
		name:   "ConfirmMFASetup",
		method: http.MethodPost,
		path:   "/auth/mfa/setup",
		body:   mfaRequest{UserID: ch.UserID, SessionToken: ch.SessionToken, TOTPCode: code},
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Logout завершает текущую сессию на бэкенде.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, call{name: "Logout", method: http.MethodPost, path: "/auth/logout", auth: authRequired}, nil)
}

// LogoutAll завершает все сессии пользователя.
func (c *Client) LogoutAll(ctx context.Context) error {
	return c.do(ctx, call{name: "LogoutAll", method: http.MethodPost, path: "/auth/logout-all", auth: authRequired}, nil)
}

// VerifyEmail подтверждает почту токеном из письма.
func (c *Client) VerifyEmail(ctx context.Context, token string) (*MessageResponse, error) {
	var resp MessageResponse
	err := c.do(ctx, call{
		name:   "VerifyEmail",
		method: http.MethodGet,
		path:   "/auth/verify-email",
		query:  url.Values{"token": {token}},
		auth:   authOptional,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// RequestPasswordReset отправляет письмо для сброса пароля.
func (c *Client) RequestPasswordReset(ctx context.Context, email string) error {
	return c.do(ctx, call{
		name:   "RequestPasswordReset",
		method: http.MethodPost,
		path:   "/auth/password-reset",
		body:   map[string]string{"email": email},
	}, nil)
}

// ResetPassword устанавливает новый пароль по токену из письма.
func (c *Client) ResetPassword(ctx context.Context, token, newPassword string) error {
	return c.do(ctx, call{
		name:   "ResetPassword",
		method: http.MethodPost,
		path:   "/auth/reset-password",
		body:   map[string]string{"token": token, "new_password": newPassword},
	}, nil)
}
