package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/magabrotheeeer/yoked-client/internal/models"
)

// Version возвращает актуальную версию ресурса. Один вызов, без повторов.
func (c *Client) Version(ctx context.Context, resource Resource) (int, error) {
	cl := call{method: http.MethodGet}
	switch resource {
	case ResourceProfile:
		cl.name, cl.path, cl.auth = "ProfileVersion", "/users/profile/version", authRequired
	case ResourceSubscriptions:
		cl.name, cl.path, cl.auth = "SubscriptionsVersion", "/subscriptions/version", authOptional
	default:
		return 0, fmt.Errorf("api.Version: unknown resource %q", resource)
	}
	var resp versionResponse
	if err := c.do(ctx, cl, &resp); err != nil {
		return 0, err
	}
	return resp.Version, nil
}

// Profile загружает профиль текущего пользователя.
func (c *Client) Profile(ctx context.Context) (*models.UserProfile, error) {
	var resp models.UserProfile
	err := c.do(ctx, call{name: "Profile", method: http.MethodGet, path: "/users/profile", auth: authRequired}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateProfile отправляет частичное обновление профиля.
func (c *Client) UpdateProfile(ctx context.Context, patch models.ProfilePatch) (*models.UserProfile, error) {
	var resp models.UserProfile
	err := c.do(ctx, call{
		name:   "UpdateProfile",
		method: http.MethodPut,
		path:   "/users/profile",
		body:   patch,
		auth:   authRequired,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}
