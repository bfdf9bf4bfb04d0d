package agent

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	adminlogin "github.com/magabrotheeeer/yoked-client/internal/http/handlers/admin/login"
	"github.com/magabrotheeeer/yoked-client/internal/http/handlers/admin/tier"
	"github.com/magabrotheeeer/yoked-client/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/yoked-client/internal/http/handlers/auth/logout"
	"github.com/magabrotheeeer/yoked-client/internal/http/handlers/auth/mfa"
	"github.com/magabrotheeeer/yoked-client/internal/http/handlers/auth/password"
	"github.com/magabrotheeeer/yoked-client/internal/http/handlers/auth/register"
	sessionhandler "github.com/magabrotheeeer/yoked-client/internal/http/handlers/auth/session"
	"github.com/magabrotheeeer/yoked-client/internal/http/handlers/health"
	"github.com/magabrotheeeer/yoked-client/internal/http/handlers/navigation/route"
	profileread "github.com/magabrotheeeer/yoked-client/internal/http/handlers/profile/read"
	profileupdate "github.com/magabrotheeeer/yoked-client/internal/http/handlers/profile/update"
	"github.com/magabrotheeeer/yoked-client/internal/http/handlers/profile/setupstep"
	"github.com/magabrotheeeer/yoked-client/internal/http/handlers/subscription/list"
	subscriptionread "github.com/magabrotheeeer/yoked-client/internal/http/handlers/subscription/read"
	verificationhandler "github.com/magabrotheeeer/yoked-client/internal/http/handlers/verification"
	"github.com/magabrotheeeer/yoked-client/internal/http/middlewarectx"
)

// RegisterRoutes регистрирует все маршруты агента.
func RegisterRoutes(r chi.Router, logger *slog.Logger, s *Services, limiter *rate.Limiter) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
	)

	mfaHandler := mfa.New(logger, s.Session)
	passwordHandler := password.New(logger, s.Session)
	verificationHandler := verificationhandler.New(logger, s.Verification)
	adminHandler := adminlogin.New(logger, s.Admin)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middlewarectx.RateLimitMiddleware(logger, limiter))

		// Открытые конечные точки
		r.Post("/register", register.New(logger, s.Session).ServeHTTP)
		r.Post("/login", login.New(logger, s.Session).ServeHTTP)
		r.Post("/mfa/verify", mfaHandler.Verify)
		r.Post("/mfa/setup", mfaHandler.Setup)
		r.Post("/mfa/setup/confirm", mfaHandler.Confirm)
		r.Post("/password/reset-request", passwordHandler.Request)
		r.Post("/password/reset", passwordHandler.Reset)
		r.Post("/verify-email/confirm", verificationHandler.Confirm)
		r.Post("/logout", logout.New(logger, s.Session).ServeHTTP)
		r.Post("/logout-all", logout.NewAll(logger, s.Session).ServeHTTP)
		r.Get("/subscriptions", list.New(logger, s.Subscriptions).ServeHTTP)
		r.Get("/subscriptions/{id}", subscriptionread.New(logger, s.Subscriptions).ServeHTTP)
		r.Get("/route", route.New(logger, s.Profiles).ServeHTTP)

		// Группа с активной сессией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RequireSession(s.Session, logger))
			r.Get("/session", sessionhandler.New(logger).ServeHTTP)
			r.Get("/profile", profileread.New(logger, s.Profiles).ServeHTTP)
			r.Put("/profile", profileupdate.New(logger, s.Profiles).ServeHTTP)
			r.Post("/profile/setup-step", setupstep.New(logger, s.Profiles).ServeHTTP)
			r.Post("/verify-email/wait", verificationHandler.Wait)
		})

		// Панель администратора, токен хранится отдельно от пользовательского
		r.Route("/admin", func(r chi.Router) {
			r.Post("/login", adminHandler.Login)
			r.Post("/logout", adminHandler.Logout)
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequireAdmin(s.Admin, logger))
				r.Mount("/subscriptions", tier.New(logger, s.Subscriptions).Routes())
			})
		})
	})

	r.Get("/health", health.New().ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
}
