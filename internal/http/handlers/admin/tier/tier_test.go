package tier

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/yoked-client/internal/models"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Create(ctx context.Context, in models.TierInput) (*models.SubscriptionTier, error) {
	args := m.Called(ctx, in)
	resp, _ := args.Get(0).(*models.SubscriptionTier)
	return resp, args.Error(1)
}
func (m *ServiceMock) Update(ctx context.Context, id uuid.UUID, in models.TierInput) (*models.SubscriptionTier, error) {
	args := m.Called(ctx, id, in)
	resp, _ := args.Get(0).(*models.SubscriptionTier)
	return resp, args.Error(1)
}
func (m *ServiceMock) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}
func (m *ServiceMock) Activate(ctx context.Context, id uuid.UUID) (*models.SubscriptionTier, error) {
	args := m.Called(ctx, id)
	resp, _ := args.Get(0).(*models.SubscriptionTier)
	return resp, args.Error(1)
}
func (m *ServiceMock) Deactivate(ctx context.Context, id uuid.UUID) (*models.SubscriptionTier, error) {
	args := m.Called(ctx, id)
	resp, _ := args.Get(0).(*models.SubscriptionTier)
	return resp, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestTierRoutes(t *testing.T) {
	id := uuid.New()
	tier := &models.SubscriptionTier{ID: id, Name: "Pro"}
	input := `{"name":"Pro","price":1999,"currency":"USD","features":["coach"],"billing_cycle":"monthly"}`

	tests := []struct {
		name           string
		method         string
		path           string
		body           string
		setup          func(m *ServiceMock)
		wantStatusCode int
	}{
		{
			name:   "create",
			method: http.MethodPost,
			path:   "/",
			body:   input,
			setup: func(m *ServiceMock) {
				m.On("Create", mock.Anything, mock.AnythingOfType("models.TierInput")).Return(tier, nil).Once()
			},
			wantStatusCode: http.StatusCreated,
		},
		{
			name:   "create without admin session",
			method: http.MethodPost,
			path:   "/",
			body:   input,
			setup: func(m *ServiceMock) {
				m.On("Create", mock.Anything, mock.Anything).Return(nil, models.ErrUnauthenticated).Once()
			},
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "deactivate",
			method:         http.MethodPut,
			path:           "/" + id.String() + "/deactivate",
			setup:          func(m *ServiceMock) { m.On("Deactivate", mock.Anything, id).Return(tier, nil).Once() },
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "delete",
			method:         http.MethodDelete,
			path:           "/" + id.String(),
			setup:          func(m *ServiceMock) { m.On("Delete", mock.Anything, id).Return(nil).Once() },
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "invalid id",
			method:         http.MethodPut,
			path:           "/not-a-uuid/activate",
			setup:          func(*ServiceMock) {},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:   "validation error",
			method: http.MethodPut,
			path:   "/" + id.String(),
			body:   `{"name":"P","currency":"US","billing_cycle":"daily"}`,
			setup: func(m *ServiceMock) {
				m.On("Update", mock.Anything, id, mock.Anything).Return(nil, models.ErrValidation).Once()
			},
			wantStatusCode: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			tt.setup(svc)
			router := New(newNoopLogger(), svc).Routes()

			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body)))

			assert.Equal(t, tt.wantStatusCode, rr.Code)
			svc.AssertExpectations(t)
		})
	}
}
