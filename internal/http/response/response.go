// Package response содержит вспомогательные типы и функции для формирования
// унифицированных JSON-ответов агента: успешных ответов, ошибок и сообщений валидации.
package response

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/yoked-client/internal/models"
)

// Response описывает стандартную структуру JSON-ответа агента.
// Поле Status: статус запроса ("OK" или "Error").
// Поле Error: текст ошибки (при неуспехе).
// Поле Data: данные ответа (при успехе).
type Response struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	Data   any    `json:"data,omitempty"`
}

const (
	// StatusOK: значение статуса для успешного ответа.
	StatusOK = "OK"
	// StatusError: значение статуса для ответа с ошибкой.
	StatusError = "Error"
)

// OK возвращает успешный Response без данных.
func OK() Response {
	return Response{Status: StatusOK}
}

// OKWithData возвращает успешный Response с переданными данными.
func OKWithData(data any) Response {
	return Response{
		Status: StatusOK,
		Data:   data,
	}
}

// Error возвращает Response с ошибкой и переданным сообщением.
func Error(msg string) Response {
	return Response{
		Status: StatusError,
		Error:  msg,
	}
}

// ValidationError формирует Response на основе ошибок валидации.
// Каждое нарушение превращается в читаемый текст, тексты объединяются через запятую.
func ValidationError(errs validator.ValidationErrors) Response {
	var errsMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "email":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be a valid email", err.Field()))
		case "eqfield":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must match %s", err.Field(), err.Param()))
		case "min":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be at least %s characters", err.Field(), err.Param()))
		case "numeric":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s can contain only numbers", err.Field()))
		case "len":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be exactly %s characters", err.Field(), err.Param()))
		default:
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is not valid", err.Field()))
		}
	}
	return Response{
		Status: StatusError,
		Error:  strings.Join(errsMsgs, ", "),
	}
}

// FromError подбирает HTTP-статус и тело ответа для ошибки ядра.
func FromError(err error) (int, Response) {
	var verrs validator.ValidationErrors
	var apiErr *models.APIError

	switch {
	case errors.As(err, &verrs):
		return http.StatusUnprocessableEntity, ValidationError(verrs)
	case errors.Is(err, models.ErrValidation):
		return http.StatusUnprocessableEntity, Error(validationMessage(err))
	case errors.Is(err, models.ErrUnauthenticated):
		return http.StatusUnauthorized, Error("no active session")
	case errors.Is(err, models.ErrUnauthorized):
		return http.StatusUnauthorized, Error("session rejected by backend")
	case errors.Is(err, models.ErrLoginFailed):
		return http.StatusUnauthorized, Error("login failed")
	case errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden, Error("forbidden")
	case errors.As(err, &apiErr):
		return apiErr.Status, Error(apiErr.Detail)
	case errors.Is(err, models.ErrVerificationTimeout):
		return http.StatusGatewayTimeout, Error("email verification timed out")
	case errors.Is(err, models.ErrNetwork):
		return http.StatusBadGateway, Error("backend unavailable")
	default:
		return http.StatusInternalServerError, Error("internal error")
	}
}

// validationMessage отрезает от текста ошибки цепочку операций до ErrValidation.
func validationMessage(err error) string {
	msg := err.Error()
	if i := strings.Index(msg, models.ErrValidation.Error()); i >= 0 {
		return msg[i:]
	}
	return models.ErrValidation.Error()
}

// RenderError пишет ответ для ошибки ядра с подобранным статусом.
func RenderError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := FromError(err)
	render.Status(r, status)
	render.JSON(w, r, resp)
}
