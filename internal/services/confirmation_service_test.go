package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"stocky/internal/caching"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) GetJSON(ctx context.Context, key string, dst interface{}) (bool, error) {
	args := m.Called(ctx, key, dst)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheService) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheService) SetString(ctx context.Context, key string, value string, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheService) GetString(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCacheService) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCacheService) InvalidateAnalytics(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCacheService) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func TestConfirmationService_StateMachine(t *testing.T) {
	ctx := context.Background()
	svc := NewConfirmationService(caching.NewMemoryCacheService(), 0)

	state, err := svc.State(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, ConfirmationIdle, state)

	require.NoError(t, svc.Arm(ctx, "s1"))
	state, _ = svc.State(ctx, "s1")
	assert.Equal(t, ConfirmationPending, state)

	state, _ = svc.State(ctx, "s2")
	assert.Equal(t, ConfirmationIdle, state)

	require.NoError(t, svc.Clear(ctx, "s1"))
	state, _ = svc.State(ctx, "s1")
	assert.Equal(t, ConfirmationIdle, state)
}

func TestConfirmationService_EmptySession(t *testing.T) {
	ctx := context.Background()
	svc := NewConfirmationService(caching.NewMemoryCacheService(), 0)

	assert.Error(t, svc.Arm(ctx, ""))
	state, err := svc.State(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, ConfirmationIdle, state)
}

func TestConfirmationService_UsesConfiguredTTL(t *testing.T) {
	ctx := context.Background()
	cache := &MockCacheService{}
	cache.On("SetString", ctx, caching.PendingWipeKey("s1"), "pending", 5*time.Minute).Return(nil).Once()

	svc := NewConfirmationService(cache, 5*time.Minute)
	require.NoError(t, svc.Arm(ctx, "s1"))
	cache.AssertExpectations(t)
}

func TestConfirmationService_CacheErrors(t *testing.T) {
	ctx := context.Background()
	cache := &MockCacheService{}
	cache.On("GetString", ctx, caching.PendingWipeKey("s1")).Return("", errors.New("connection refused")).Once()

	svc := NewConfirmationService(cache, 0)
	_, err := svc.State(ctx, "s1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	cache.AssertExpectations(t)
}
