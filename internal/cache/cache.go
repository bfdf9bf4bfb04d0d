// Package cache реализует версионированный кеш поверх постоянного хранилища.
//
// Кеш ничего не знает о свежести данных: сравнение версии с серверной: забота вызывающего.
// Нет TTL и вытеснения, записи удаляются только явной инвалидацией.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/magabrotheeeer/yoked-client/internal/lib/sl"
	"github.com/magabrotheeeer/yoked-client/internal/metrics"
	"github.com/magabrotheeeer/yoked-client/internal/models"
	"github.com/magabrotheeeer/yoked-client/internal/storage"
)

// Key связывает ресурс с парой ключей хранилища: данные и версия.
type Key struct {
	Resource string
	Data     string
	Version  string
}

var (
	// ProfileKey: профиль пользователя.
	ProfileKey = Key{Resource: "profile", Data: storage.KeyProfile, Version: storage.KeyProfileVersion}
	// SubscriptionsKey: каталог тарифов.
	SubscriptionsKey = Key{Resource: "subscriptions", Data: storage.KeySubscriptions, Version: storage.KeySubscriptionVersion}
)

// Cache хранит значения типа T в JSON вместе с целочисленной версией.
type Cache[T any] struct {
	store storage.Store
	log   *slog.Logger
}

// New создаёт кеш поверх хранилища.
func New[T any](store storage.Store, log *slog.Logger) *Cache[T] {
	return &Cache[T]{
		store: store,
		log:   log,
	}
}

// Get возвращает закешированное значение. Любая ошибка чтения или разбора считается промахом.
func (c *Cache[T]) Get(ctx context.Context, key Key) (*models.VersionedPayload[T], bool) {
	const op = "cache.Get"
	log := c.log.With(sl.Op(op), slog.String("resource", key.Resource))

	rawVersion, found, err := c.store.Get(ctx, key.Version)
	if err != nil {
		log.Warn("failed to read cached version", sl.Key(key.Version), sl.Err(err))
		return nil, false
	}
	if !found {
		return nil, false
	}
	version, err := strconv.Atoi(rawVersion)
	if err != nil {
		log.Warn("cached version is not an integer", sl.Key(key.Version), sl.Err(err))
		return nil, false
	}

	rawData, found, err := c.store.Get(ctx, key.Data)
	if err != nil {
		log.Warn("failed to read cached data", sl.Key(key.Data), sl.Err(err))
		return nil, false
	}
	if !found {
		return nil, false
	}
	var data T
	if err := json.Unmarshal([]byte(rawData), &data); err != nil {
		log.Warn("cached data is corrupt", sl.Key(key.Data), sl.Err(err))
		return nil, false
	}

	return &models.VersionedPayload[T]{Data: data, Version: version}, true
}

// Set перезаписывает значение и версию.
//
// Версия удаляется до записи данных и пишется последней: наличие версии
// означает, что данные рядом записаны именно для неё.
func (c *Cache[T]) Set(ctx context.Context, key Key, data T, version int) error {
	const op = "cache.Set"
	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := c.store.Delete(ctx, key.Version); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := c.store.Set(ctx, key.Data, string(jsonData)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := c.store.Set(ctx, key.Version, strconv.Itoa(version)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Invalidate безусловно удаляет запись.
func (c *Cache[T]) Invalidate(ctx context.Context, key Key) error {
	const op = "cache.Invalidate"
	if err := c.store.Delete(ctx, key.Data, key.Version); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	metrics.CacheInvalidations.WithLabelValues(key.Resource).Inc()
	return nil
}
