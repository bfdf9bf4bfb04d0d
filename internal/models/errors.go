package models

import (
	"errors"
	"fmt"
)

// Ошибки клиентского ядра. Проверяются через errors.Is, наружу оборачиваются с op-префиксом.
var (
	// ErrUnauthenticated: нет токена сессии, сетевой вызов не выполнялся.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrNetwork: транспортная ошибка или ответ 5xx.
	ErrNetwork = errors.New("network error")
	// ErrLoginFailed: бэкенд ответил успешно, но пригодного токена в ответе нет.
	ErrLoginFailed = errors.New("login failed")
	// ErrUnauthorized: ответ 401/403, токен очищается как побочный эффект.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrValidation: входные данные не прошли проверку до сетевого вызова.
	ErrValidation = errors.New("validation error")
	// ErrForbidden: пользователь аутентифицирован, но не имеет прав администратора.
	ErrForbidden = errors.New("forbidden")
	// ErrVerificationTimeout: подтверждение почты не пришло за отведённые попытки.
	ErrVerificationTimeout = errors.New("email verification timed out")
)

// APIError описывает ответ 4xx, не попадающий под ErrUnauthorized.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("api error: status %d", e.Status)
	}
	return fmt.Sprintf("api error: status %d: %s", e.Status, e.Detail)
}
