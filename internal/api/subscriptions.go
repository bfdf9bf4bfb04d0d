package api

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/yoked-client/internal/models"
)

// Subscriptions возвращает каталог тарифов в порядке бэкенда.
func (c *Client) Subscriptions(ctx context.Context) (models.SubscriptionCatalog, error) {
	var resp models.SubscriptionCatalog
	err := c.do(ctx, call{name: "Subscriptions", method: http.MethodGet, path: "/subscriptions/", auth: authOptional}, &resp)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Subscription возвращает тариф по идентификатору.
func (c *Client) Subscription(ctx context.Context, id uuid.UUID) (*models.SubscriptionTier, error) {
	var resp models.SubscriptionTier
	err := c.do(ctx, call{
		name:   "Subscription",
		method: http.MethodGet,
		path:   "/subscriptions/" + id.String(),
		auth:   authOptional,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}
