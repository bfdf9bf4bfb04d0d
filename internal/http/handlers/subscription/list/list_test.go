package list

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/yoked-client/internal/models"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) List(ctx context.Context, force bool) (models.SubscriptionCatalog, error) {
	args := m.Called(ctx, force)
	resp, _ := args.Get(0).(models.SubscriptionCatalog)
	return resp, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestListHandler(t *testing.T) {
	catalog := models.SubscriptionCatalog{
		{ID: uuid.New(), Name: "Basic", Price: 999},
		{ID: uuid.New(), Name: "Pro", Price: 1999},
	}

	t.Run("success keeps order", func(t *testing.T) {
		svc := new(ServiceMock)
		svc.On("List", mock.Anything, false).Return(catalog, nil).Once()

		rr := httptest.NewRecorder()
		New(newNoopLogger(), svc).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/subscriptions", nil))

		require.Equal(t, http.StatusOK, rr.Code)
		var resp struct {
			Data models.SubscriptionCatalog `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, catalog, resp.Data)
	})

	t.Run("network error", func(t *testing.T) {
		svc := new(ServiceMock)
		svc.On("List", mock.Anything, true).Return(nil, models.ErrNetwork).Once()

		rr := httptest.NewRecorder()
		New(newNoopLogger(), svc).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/subscriptions?force=true", nil))
		assert.Equal(t, http.StatusBadGateway, rr.Code)
	})
}
