package subscription

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/yoked-client/internal/api"
	"github.com/magabrotheeeer/yoked-client/internal/cache"
	"github.com/magabrotheeeer/yoked-client/internal/models"
	"github.com/magabrotheeeer/yoked-client/internal/storage/memory"
)

type CatalogMock struct{ mock.Mock }

func (m *CatalogMock) Version(ctx context.Context, resource api.Resource) (int, error) {
	args := m.Called(ctx, resource)
	return args.Int(0), args.Error(1)
}
func (m *CatalogMock) Subscriptions(ctx context.Context) (models.SubscriptionCatalog, error) {
	args := m.Called(ctx)
	resp, _ := args.Get(0).(models.SubscriptionCatalog)
	return resp, args.Error(1)
}
func (m *CatalogMock) Subscription(ctx context.Context, id uuid.UUID) (*models.SubscriptionTier, error) {
	args := m.Called(ctx, id)
	resp, _ := args.Get(0).(*models.SubscriptionTier)
	return resp, args.Error(1)
}

type AdminMock struct{ mock.Mock }

func (m *AdminMock) CreateTier(ctx context.Context, in models.TierInput) (*models.SubscriptionTier, error) {
	args := m.Called(ctx, in)
	resp, _ := args.Get(0).(*models.SubscriptionTier)
	return resp, args.Error(1)
}
func (m *AdminMock) UpdateTier(ctx context.Context, id uuid.UUID, in models.TierInput) (*models.SubscriptionTier, error) {
	args := m.Called(ctx, id, in)
	resp, _ := args.Get(0).(*models.SubscriptionTier)
	return resp, args.Error(1)
}
func (m *AdminMock) DeleteTier(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}
func (m *AdminMock) ActivateTier(ctx context.Context, id uuid.UUID) (*models.SubscriptionTier, error) {
	args := m.Called(ctx, id)
	resp, _ := args.Get(0).(*models.SubscriptionTier)
	return resp, args.Error(1)
}
func (m *AdminMock) DeactivateTier(ctx context.Context, id uuid.UUID) (*models.SubscriptionTier, error) {
	args := m.Called(ctx, id)
	resp, _ := args.Get(0).(*models.SubscriptionTier)
	return resp, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func newService(admin Admin) (*Service, *CatalogMock) {
	catalog := new(CatalogMock)
	c := cache.New[models.SubscriptionCatalog](memory.New(), newNoopLogger())
	return NewService(catalog, admin, c, newNoopLogger()), catalog
}

var tiers = models.SubscriptionCatalog{
	{ID: uuid.New(), Name: "Basic", Price: 999, Features: []string{"plans"}},
	{ID: uuid.New(), Name: "Pro", Price: 1999, Features: []string{"plans", "coach"}},
}

func TestList_SecondCallServedFromCache(t *testing.T) {
	ctx := context.Background()
	s, catalog := newService(nil)
	catalog.On("Version", mock.Anything, api.ResourceSubscriptions).Return(5, nil).Twice()
	catalog.On("Subscriptions", mock.Anything).Return(tiers, nil).Once()

	first, err := s.List(ctx, false)
	require.NoError(t, err)
	second, err := s.List(ctx, false)
	require.NoError(t, err)

	assert.Equal(t, tiers, first)
	assert.Equal(t, first, second)
	catalog.AssertNumberOfCalls(t, "Subscriptions", 1)
	catalog.AssertNumberOfCalls(t, "Version", 2)
}

func TestList_StaleAndForced(t *testing.T) {
	tests := []struct {
		name       string
		secondVer  int
		force      bool
		wantFetchs int
	}{
		{name: "version bump refetches", secondVer: 6, wantFetchs: 2},
		{name: "backward version refetches", secondVer: 4, wantFetchs: 2},
		{name: "force refetches", secondVer: 5, force: true, wantFetchs: 2},
		{name: "unchanged", secondVer: 5, wantFetchs: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			s, catalog := newService(nil)
			catalog.On("Version", mock.Anything, api.ResourceSubscriptions).Return(5, nil).Once()
			catalog.On("Version", mock.Anything, api.ResourceSubscriptions).Return(tt.secondVer, nil).Once()
			catalog.On("Subscriptions", mock.Anything).Return(tiers, nil)

			_, err := s.List(ctx, false)
			require.NoError(t, err)
			_, err = s.List(ctx, tt.force)
			require.NoError(t, err)

			catalog.AssertNumberOfCalls(t, "Subscriptions", tt.wantFetchs)
			entry, found := s.cache.Get(ctx, cache.SubscriptionsKey)
			require.True(t, found)
			assert.Equal(t, tt.secondVer, entry.Version)
		})
	}
}

func TestList_NetworkError(t *testing.T) {
	s, catalog := newService(nil)
	catalog.On("Version", mock.Anything, api.ResourceSubscriptions).Return(0, models.ErrNetwork).Once()

	_, err := s.List(context.Background(), false)
	assert.ErrorIs(t, err, models.ErrNetwork)
	catalog.AssertNotCalled(t, "Subscriptions", mock.Anything)
}

func TestAdminMutations_InvalidateCatalog(t *testing.T) {
	id := tiers[0].ID
	input := models.TierInput{Name: "Basic", Price: 999, Currency: "USD", BillingCycle: "monthly"}

	tests := []struct {
		name  string
		setup func(a *AdminMock)
		call  func(s *Service) error
	}{
		{
			name:  "create",
			setup: func(a *AdminMock) { a.On("CreateTier", mock.Anything, input).Return(&tiers[0], nil).Once() },
			call: func(s *Service) error {
				_, err := s.Create(context.Background(), input)
				return err
			},
		},
		{
			name:  "update",
			setup: func(a *AdminMock) { a.On("UpdateTier", mock.Anything, id, input).Return(&tiers[0], nil).Once() },
			call: func(s *Service) error {
				_, err := s.Update(context.Background(), id, input)
				return err
			},
		},
		{
			name:  "activate",
			setup: func(a *AdminMock) { a.On("ActivateTier", mock.Anything, id).Return(&tiers[0], nil).Once() },
			call: func(s *Service) error {
				_, err := s.Activate(context.Background(), id)
				return err
			},
		},
		{
			name:  "deactivate",
			setup: func(a *AdminMock) { a.On("DeactivateTier", mock.Anything, id).Return(&tiers[0], nil).Once() },
			call: func(s *Service) error {
				_, err := s.Deactivate(context.Background(), id)
				return err
			},
		},
		{
			name:  "delete",
			setup: func(a *AdminMock) { a.On("DeleteTier", mock.Anything, id).Return(nil).Once() },
			call:  func(s *Service) error { return s.Delete(context.Background(), id) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			admin := new(AdminMock)
			tt.setup(admin)
			s, _ := newService(admin)
			require.NoError(t, s.cache.Set(ctx, cache.SubscriptionsKey, tiers, 5))

			require.NoError(t, tt.call(s))

			_, found := s.cache.Get(ctx, cache.SubscriptionsKey)
			assert.False(t, found)
			admin.AssertExpectations(t)
		})
	}
}

func TestAdminMutation_FailureKeepsCache(t *testing.T) {
	ctx := context.Background()
	id := tiers[0].ID
	admin := new(AdminMock)
	admin.On("DeleteTier", mock.Anything, id).Return(models.ErrUnauthorized).Once()
	s, _ := newService(admin)
	require.NoError(t, s.cache.Set(ctx, cache.SubscriptionsKey, tiers, 5))

	err := s.Delete(ctx, id)
	assert.ErrorIs(t, err, models.ErrUnauthorized)
	_, found := s.cache.Get(ctx, cache.SubscriptionsKey)
	assert.True(t, found)
}

func TestAdmin_WithoutAdminClient(t *testing.T) {
	s, _ := newService(nil)
	err := s.Delete(context.Background(), uuid.New())
	assert.ErrorIs(t, err, models.ErrUnauthenticated)
}

func TestCreate_Validation(t *testing.T) {
	admin := new(AdminMock)
	s, _ := newService(admin)

	_, err := s.Create(context.Background(), models.TierInput{Name: "X", Currency: "US", BillingCycle: "weekly"})
	assert.ErrorIs(t, err, models.ErrValidation)
	admin.AssertNotCalled(t, "CreateTier", mock.Anything, mock.Anything)
}

func TestGet(t *testing.T) {
	s, catalog := newService(nil)
	catalog.On("Subscription", mock.Anything, tiers[1].ID).Return(&tiers[1], nil).Once()

	tier, err := s.Get(context.Background(), tiers[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "Pro", tier.Name)
}
