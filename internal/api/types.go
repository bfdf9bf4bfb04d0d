package api

import (
	"bytes"
	"encoding/json"
)

// Resource: ресурс, для которого бэкенд отдаёт версию.
type Resource string

const (
	ResourceProfile       Resource = "profile"
	ResourceSubscriptions Resource = "subscriptions"
)

// FlexString принимает из JSON как строку, так и число (идентификаторы пользователей
// бэкенд отдаёт числами).
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

// LoginResponse: ответ POST /auth/login и эндпоинтов MFA. Заполнен один из вариантов.
type LoginResponse struct {
	AccessToken      string     `json:"access_token"`
	TokenType        string     `json:"token_type,omitempty"`
	MFARequired      bool       `json:"mfa_required"`
	MFASetupRequired bool       `json:"mfa_setup_required"`
	UserID           FlexString `json:"user_id"`
	SessionToken     string     `json:"session_token"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	IsMobile bool   `json:"is_mobile"`
}

type mfaRequest struct {
	UserID       string `json:"user_id"`
	SessionToken string `json:"session_token,omitempty"`
	TOTPCode     string `json:"totp_code"`
}

// RegisterBody: тело POST /auth/register.
type RegisterBody struct {
	Username              string `json:"username"`
	Email                 string `json:"email"`
	Password              string `json:"password"`
	AcceptedTerms         bool   `json:"accepted_terms"`
	AcceptedPrivacyPolicy bool   `json:"accepted_privacy_policy"`
}

// RegisterResponse: ответ регистрации.
type RegisterResponse struct {
	ID       FlexString `json:"id"`
	Username string     `json:"username"`
	Email    string     `json:"email"`
	Message  string     `json:"message,omitempty"`
}

// MessageResponse: типовой ответ {"message": "..."}.
type MessageResponse struct {
	Message string `json:"message"`
}

type versionResponse struct {
	Version int `json:"version"`
}
