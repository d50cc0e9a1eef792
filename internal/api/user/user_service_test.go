package user

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/wefit-app/wefit-backend/internal/types"
)

// MockUserRepo is a mock implementation of the UserRepo interface
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) ListEmails(ctx context.Context) ([]types.UserEmail, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.UserEmail), args.Error(1)
}

func (m *MockUserRepo) GetUserByID(ctx context.Context, userID int64) (*types.UserAuth, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.UserAuth), args.Error(1)
}

func TestListUsers(t *testing.T) {
	logger := slog.Default()
	emails := []types.UserEmail{{Email: "a@x.com"}, {Email: "b@x.com"}}

	t.Run("CachesListing", func(t *testing.T) {
		mockRepo := new(MockUserRepo)
		listCache := cache.New(time.Minute, time.Minute)
		service := NewUserService(mockRepo, listCache, logger)
		ctx := context.Background()

		// Only the first call may reach the repository.
		mockRepo.On("ListEmails", ctx).Return(emails, nil).Once()

		got, err := service.ListUsers(ctx)
		assert.NoError(t, err)
		assert.Equal(t, emails, got)

		got, err = service.ListUsers(ctx)
		assert.NoError(t, err)
		assert.Equal(t, emails, got)

		mockRepo.AssertExpectations(t)
	})

	t.Run("FlushForcesReload", func(t *testing.T) {
		mockRepo := new(MockUserRepo)
		listCache := cache.New(time.Minute, time.Minute)
		service := NewUserService(mockRepo, listCache, logger)
		ctx := context.Background()

		mockRepo.On("ListEmails", ctx).Return(emails, nil).Twice()

		_, err := service.ListUsers(ctx)
		assert.NoError(t, err)

		// Signup flushes the cache; the next listing hits the repository again.
		listCache.Flush()

		_, err = service.ListUsers(ctx)
		assert.NoError(t, err)

		mockRepo.AssertExpectations(t)
	})

	t.Run("NoCache", func(t *testing.T) {
		mockRepo := new(MockUserRepo)
		service := NewUserService(mockRepo, nil, logger)
		ctx := context.Background()

		mockRepo.On("ListEmails", ctx).Return(emails, nil).Twice()

		_, err := service.ListUsers(ctx)
		assert.NoError(t, err)
		_, err = service.ListUsers(ctx)
		assert.NoError(t, err)

		mockRepo.AssertExpectations(t)
	})

	t.Run("RepoErrorNotCached", func(t *testing.T) {
		mockRepo := new(MockUserRepo)
		listCache := cache.New(time.Minute, time.Minute)
		service := NewUserService(mockRepo, listCache, logger)
		ctx := context.Background()

		mockRepo.On("ListEmails", ctx).Return(nil, assert.AnError).Once()
		mockRepo.On("ListEmails", ctx).Return(emails, nil).Once()

		_, err := service.ListUsers(ctx)
		assert.Error(t, err)

		got, err := service.ListUsers(ctx)
		assert.NoError(t, err)
		assert.Equal(t, emails, got)

		mockRepo.AssertExpectations(t)
	})
}

func TestGetUserProfile(t *testing.T) {
	logger := slog.Default()

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockUserRepo)
		service := NewUserService(mockRepo, nil, logger)
		ctx := context.Background()

		user := &types.UserAuth{ID: 1, Username: "ana", Email: "a@x.com"}
		mockRepo.On("GetUserByID", ctx, int64(1)).Return(user, nil).Once()

		got, err := service.GetUserProfile(ctx, 1)

		assert.NoError(t, err)
		assert.Equal(t, "ana", got.Username)
		mockRepo.AssertExpectations(t)
	})

	t.Run("NotFound", func(t *testing.T) {
		mockRepo := new(MockUserRepo)
		service := NewUserService(mockRepo, nil, logger)
		ctx := context.Background()

		mockRepo.On("GetUserByID", ctx, int64(99)).Return(nil, types.ErrNotFound).Once()

		_, err := service.GetUserProfile(ctx, 99)

		assert.ErrorIs(t, err, types.ErrNotFound)
		mockRepo.AssertExpectations(t)
	})
}
