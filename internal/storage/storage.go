// Package storage описывает постоянное key-value хранилище состояния клиента,
// аналог localStorage браузера: токен сессии и закешированные данные.
package storage

import "context"

// Ключи постоянного хранилища.
const (
	KeyToken               = "token"
	KeyTokenCreatedAt      = "tokenCreatedAt"
	KeyProfile             = "profile"
	KeyProfileVersion      = "profileVersion"
	KeySubscriptions       = "cachedSubscriptions"
	KeySubscriptionVersion = "cachedSubscriptionVersion"
	KeyAdminToken          = "adminToken"
)

// SessionKeys: ключи, которые очищаются вместе при выходе пользователя.
var SessionKeys = []string{
	KeyToken,
	KeyTokenCreatedAt,
	KeyProfile,
	KeyProfileVersion,
	KeySubscriptions,
	KeySubscriptionVersion,
}

// Store описывает хранилище строковых значений.
//
// Delete с несколькими ключами выполняется одной атомарной операцией.
type Store interface {
	// Get возвращает значение и признак его наличия.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set перезаписывает значение по ключу.
	Set(ctx context.Context, key, value string) error
	// Delete удаляет ключи, отсутствующие ключи игнорируются.
	Delete(ctx context.Context, keys ...string) error
}
