package api

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/yoked-client/internal/models"
)

// AdminLogin выполняет вход администратора.
func (c *Client) AdminLogin(ctx context.Context, email, password string, isMobile bool) (*LoginResponse, error) {
	var resp LoginResponse
	err := c.do(ctx, call{
		name:   "AdminLogin",
		method: http.MethodPost,
		path:   "/admin/login",
		body:   loginRequest{Email: email, Password: password, IsMobile: isMobile},
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// AdminProfile возвращает профиль владельца admin-токена.
func (c *Client) AdminProfile(ctx context.Context) (*models.UserProfile, error) {
	var resp models.UserProfile
	err := c.do(ctx, call{name: "AdminProfile", method: http.MethodGet, path: "/admin/profile", auth: authRequired}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateTier создаёт тариф.
func (c *Client) CreateTier(ctx context.Context, in models.TierInput) (*models.SubscriptionTier, error) {
	return c.tierCall(ctx, call{name: "CreateTier", method: http.MethodPost, path: "/admin/subscriptions/", body: in})
}

// UpdateTier изменяет тариф.
func (c *Client) UpdateTier(ctx context.Context, id uuid.UUID, in models.TierInput) (*models.SubscriptionTier, error) {
	return c.tierCall(ctx, call{name: "UpdateTier", method: http.MethodPut, path: "/admin/subscriptions/" + id.String(), body: in})
}

// ActivateTier делает тариф доступным для выбора.
func (c *Client) ActivateTier(ctx context.Context, id uuid.UUID) (*models.SubscriptionTier, error) {
	return c.tierCall(ctx, call{name: "ActivateTier", method: http.MethodPut, path: "/admin/subscriptions/" + id.String() + "/activate"})
}

// DeactivateTier скрывает тариф.
func (c *Client) DeactivateTier(ctx context.Context, id uuid.UUID) (*models.SubscriptionTier, error) {
	return c.tierCall(ctx, call{name: "DeactivateTier", method: http.MethodPut, path: "/admin/subscriptions/" + id.String() + "/deactivate"})
}

// DeleteTier удаляет тариф.
func (c *Client) DeleteTier(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, call{
		name:   "DeleteTier",
		method: http.MethodDelete,
		path:   "/admin/subscriptions/" + id.String(),
		auth:   authRequired,
	}, nil)
}

func (c *Client) tierCall(ctx context.Context, cl call) (*models.SubscriptionTier, error) {
	cl.auth = authRequired
	var resp models.SubscriptionTier
	if err := c.do(ctx, cl, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
