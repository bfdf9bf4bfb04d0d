// Package jwt читает claim-поля токена сессии без проверки подписи.
//
// Подпись проверяет бэкенд; клиенту нужны только сроки жизни токена для отображения.
package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims описывает поля, которые бэкенд кладёт в access token.
type Claims struct {
	UserType             string `json:"user_type,omitempty"`
	jwt.RegisteredClaims        // sub, exp, iat и пр.
}

// ParseUnverified разбирает токен без проверки подписи.
func ParseUnverified(tokenStr string) (*Claims, error) {
	const op = "jwt.ParseUnverified"
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenStr, claims); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return claims, nil
}

// ExpiresAt возвращает время истечения токена или nil, если токен не JWT или exp не задан.
func ExpiresAt(tokenStr string) *time.Time {
	claims, err := ParseUnverified(tokenStr)
	if err != nil || claims.ExpiresAt == nil {
		return nil
	}
	exp := claims.ExpiresAt.Time
	return &exp
}
