// Package metrics содержит prometheus-метрики клиентского ядра.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Состояния кеша при загрузке ресурса.
const (
	StateEmpty = "empty"
	StateStale = "stale"
	StateFresh = "fresh"
	StateForce = "forced"
)

var (
	// CacheLookups считает исходы проверки версии по ресурсам.
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "yoked_client",
		Name:      "cache_lookups_total",
		Help:      "Versioned cache lookups by resource and cache state.",
	}, []string{"resource", "state"})

	// CacheInvalidations считает явные инвалидации кеша.
	CacheInvalidations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "yoked_client",
		Name:      "cache_invalidations_total",
		Help:      "Explicit cache invalidations by resource.",
	}, []string{"resource"})

	// APIRequests считает запросы к бэкенду по методу, пути и коду ответа.
	APIRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "yoked_client",
		Name:      "api_requests_total",
		Help:      "Backend API requests by method, path and status code.",
	}, []string{"method", "path", "code"})

	// SessionEvents считает события жизненного цикла сессии.
	SessionEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "yoked_client",
		Name:      "session_events_total",
		Help:      "Session lifecycle events (login, mfa_required, logout, ...).",
	}, []string{"event"})
)
