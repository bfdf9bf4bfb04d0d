package password

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/yoked-client/internal/models"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) RequestPasswordReset(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *ServiceMock) ResetPassword(ctx context.Context, token, newPassword string) error {
	return m.Called(ctx, token, newPassword).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestRequestHandler(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		callService    bool
		err            error
		wantStatusCode int
	}{
		{name: "accepted", body: `{"email":"anna@example.com"}`, callService: true, wantStatusCode: http.StatusAccepted},
		{
			name:           "invalid email",
			body:           `{"email":"anna@example.com"}`,
			callService:    true,
			err:            fmt.Errorf("session.RequestPasswordReset: %w", models.ErrValidation),
			wantStatusCode: http.StatusUnprocessableEntity,
		},
		{name: "bad json", body: `email`, wantStatusCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			if tt.callService {
				svc.On("RequestPasswordReset", mock.Anything, "anna@example.com").Return(tt.err).Once()
			}
			rr := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/password/reset-request", strings.NewReader(tt.body))
			New(newNoopLogger(), svc).Request(rr, req)

			assert.Equal(t, tt.wantStatusCode, rr.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestResetHandler(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		wantStatusCode int
	}{
		{name: "ok", wantStatusCode: http.StatusOK},
		{
			name:           "expired token",
			err:            &models.APIError{Status: http.StatusBadRequest, Detail: "Invalid or expired token"},
			wantStatusCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			svc.On("ResetPassword", mock.Anything, "reset-token", "new-secret-1").Return(tt.err).Once()

			rr := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/password/reset",
				strings.NewReader(`{"token":"reset-token","new_password":"new-secret-1"}`))
			New(newNoopLogger(), svc).Reset(rr, req)

			assert.Equal(t, tt.wantStatusCode, rr.Code)
			svc.AssertExpectations(t)
		})
	}
}
