package models

import "time"

// Session: активная сессия клиента. Одновременно существует не более одной.
type Session struct {
	Token     string     `json:"token"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"` // из claim exp, если токен: JWT
}

// VersionedPayload: закешированные данные вместе с версией, с которой они были получены.
type VersionedPayload[T any] struct {
	Data    T
	Version int
}

// Challenge: промежуточный токен MFA, выданный вместо сессии.
type Challenge struct {
	UserID       string `json:"user_id"`
	SessionToken string `json:"session_token"`
}

// LoginResult: результат входа. Реализации: Authenticated, MFARequired, MFASetupRequired.
type LoginResult interface {
	loginResult()
}

// Authenticated: сессия установлена.
type Authenticated struct {
	Session Session
	Profile *UserProfile
}

// MFARequired: нужен TOTP-код для завершения входа.
type MFARequired struct {
	Challenge Challenge
}

// MFASetupRequired: пользователь должен сначала подключить MFA.
type MFASetupRequired struct {
	Challenge Challenge
}

func (Authenticated) loginResult()    {}
func (MFARequired) loginResult()      {}
func (MFASetupRequired) loginResult() {}

// MFAEnrollment: данные для подключения приложения-аутентификатора.
type MFAEnrollment struct {
	QRCodeURL string `json:"qr_code_url"`
}
