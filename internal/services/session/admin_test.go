package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/yoked-client/internal/api"
	"github.com/magabrotheeeer/yoked-client/internal/models"
	"github.com/magabrotheeeer/yoked-client/internal/storage"
	"github.com/magabrotheeeer/yoked-client/internal/storage/memory"
)

type AdminBackendMock struct{ mock.Mock }

func (m *AdminBackendMock) AdminLogin(ctx context.Context, email, password string, isMobile bool) (*api.LoginResponse, error) {
	args := m.Called(ctx, email, password, isMobile)
	resp, _ := args.Get(0).(*api.LoginResponse)
	return resp, args.Error(1)
}
func (m *AdminBackendMock) AdminProfile(ctx context.Context) (*models.UserProfile, error) {
	args := m.Called(ctx)
	resp, _ := args.Get(0).(*models.UserProfile)
	return resp, args.Error(1)
}

func TestAdminSession_Login(t *testing.T) {
	tests := []struct {
		name      string
		userType  string
		wantErr   error
		wantToken bool
	}{
		{name: "admin", userType: AdminUserType, wantToken: true},
		{name: "regular user rejected", userType: "USER", wantErr: models.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := memory.New()
			require.NoError(t, store.Set(ctx, storage.KeyToken, "user-token"))

			backend := new(AdminBackendMock)
			backend.On("AdminLogin", mock.Anything, "root@example.com", "pw", false).Return(&api.LoginResponse{AccessToken: "adm"}, nil).Once()
			backend.On("AdminProfile", mock.Anything).Return(&models.UserProfile{Username: "root", UserType: tt.userType}, nil).Once()

			s := NewAdminSession(backend, NewAdminTokens(store, newNoopLogger()), newNoopLogger())
			_, err := s.Login(ctx, "root@example.com", "pw")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}

			token, ok := s.Token(ctx)
			assert.Equal(t, tt.wantToken, ok)
			if tt.wantToken {
				assert.Equal(t, "adm", token)
			}
			v, _, _ := store.Get(ctx, storage.KeyToken)
			assert.Equal(t, "user-token", v)
		})
	}
}

func TestAdminSession_LoginWithoutToken(t *testing.T) {
	backend := new(AdminBackendMock)
	backend.On("AdminLogin", mock.Anything, "anna@example.com", "pw", false).Return(&api.LoginResponse{}, nil).Once()

	s := NewAdminSession(backend, NewAdminTokens(memory.New(), newNoopLogger()), newNoopLogger())
	_, err := s.Login(context.Background(), "anna@example.com", "pw")
	assert.ErrorIs(t, err, models.ErrLoginFailed)
	backend.AssertNotCalled(t, "AdminProfile", mock.Anything)
}

func TestAdminSession_HandleUnauthorizedKeepsUserSession(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	require.NoError(t, store.Set(ctx, storage.KeyToken, "user-token"))
	require.NoError(t, store.Set(ctx, storage.KeyAdminToken, "adm"))

	s := NewAdminSession(new(AdminBackendMock), NewAdminTokens(store, newNoopLogger()), newNoopLogger())
	s.HandleUnauthorized(ctx)

	_, ok := s.Token(ctx)
	assert.False(t, ok)
	_, found, _ := store.Get(ctx, storage.KeyToken)
	assert.True(t, found)
}

func TestAdminSession_Check(t *testing.T) {
	tests := []struct {
		name      string
		profile   *models.UserProfile
		err       error
		wantErr   error
		wantToken bool
	}{
		{name: "still admin", profile: &models.UserProfile{UserType: AdminUserType}, wantToken: true},
		{name: "role revoked", profile: &models.UserProfile{UserType: "USER"}, wantErr: models.ErrForbidden},
		{name: "backend down", err: models.ErrNetwork, wantErr: models.ErrNetwork, wantToken: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := memory.New()
			require.NoError(t, store.Set(ctx, storage.KeyToken, "user-token"))
			require.NoError(t, store.Set(ctx, storage.KeyAdminToken, "adm"))

			backend := new(AdminBackendMock)
			backend.On("AdminProfile", mock.Anything).Return(tt.profile, tt.err).Once()
			s := NewAdminSession(backend, NewAdminTokens(store, newNoopLogger()), newNoopLogger())

			err := s.Check(ctx)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}

			_, ok := s.Token(ctx)
			assert.Equal(t, tt.wantToken, ok)
			_, found, _ := store.Get(ctx, storage.KeyToken)
			assert.True(t, found)
			backend.AssertExpectations(t)
		})
	}
}
