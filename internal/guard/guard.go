// Package guard решает, можно ли пользователю открыть маршрут на текущем шаге онбординга.
//
// Решение: чистая функция от профиля и пути. Навигацию выполняет вызывающий.
package guard

import (
	"strings"

	"github.com/magabrotheeeer/yoked-client/internal/models"
)

// Маршруты онбординга.
const (
	RouteLogin              = "/login"
	RouteVerifyEmail        = "/verify-email"
	RouteProfileSetup       = "/profile-setup"
	RouteChooseSubscription = "/choose-subscription"
	RouteDashboard          = "/dashboard"
	RoutePaymentSuccess     = "/payment-success"
)

// Причины решения.
const (
	ReasonAllowed     = "allowed"
	ReasonException   = "exception_route"
	ReasonNoSession   = "unauthenticated"
	ReasonWrongStep   = "setup_step_mismatch"
	ReasonUnknownStep = "unknown_setup_step"
)

// Rule описывает маршруты, разрешённые на шаге.
type Rule struct {
	Route      string
	Exceptions []string
	// AllowOnCompleted оставляет исключения доступными после завершения онбординга.
	AllowOnCompleted bool
}

// Rules: каноническая таблица шагов.
var Rules = map[models.SetupStep]Rule{
	models.StepVerifyEmail:       {Route: RouteVerifyEmail},
	models.StepProfileCompletion: {Route: RouteProfileSetup},
	models.StepSubscriptionSelection: {
		Route:            RouteChooseSubscription,
		Exceptions:       []string{RoutePaymentSuccess},
		AllowOnCompleted: true,
	},
	models.StepCompleted: {Route: RouteDashboard},
}

// Decision: результат проверки. Redirect пуст, если Allowed.
type Decision struct {
	Allowed  bool   `json:"allowed"`
	Redirect string `json:"redirect,omitempty"`
	Reason   string `json:"reason"`
}

// CanonicalRoute возвращает маршрут шага. Неизвестный шаг ведёт на подтверждение почты.
func CanonicalRoute(step models.SetupStep) string {
	if r, ok := Rules[step]; ok {
		return r.Route
	}
	return RouteVerifyEmail
}

// Decide решает, можно ли открыть path. nil-профиль означает отсутствие сессии.
func Decide(profile *models.UserProfile, path string) Decision {
	if profile == nil {
		return Decision{Redirect: RouteLogin, Reason: ReasonNoSession}
	}

	step := profile.SetupStep
	reason := ReasonWrongStep
	if !step.Valid() {
		step = models.StepVerifyEmail
		reason = ReasonUnknownStep
	}
	path = normalize(path)
	canonical := Rules[step].Route

	if path == canonical {
		return Decision{Allowed: true, Reason: ReasonAllowed}
	}
	if isException(step, path) {
		return Decision{Allowed: true, Reason: ReasonException}
	}
	return Decision{Redirect: canonical, Reason: reason}
}

func isException(step models.SetupStep, path string) bool {
	for owner, rule := range Rules {
		if owner != step && !(rule.AllowOnCompleted && step == models.StepCompleted) {
			continue
		}
		for _, e := range rule.Exceptions {
			if e == path {
				return true
			}
		}
	}
	return false
}

func normalize(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	if path == "" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}
