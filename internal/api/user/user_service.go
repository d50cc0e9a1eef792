package user

import (
	"context"
	"log/slog"

	"github.com/patrickmn/go-cache"

	"github.com/wefit-app/wefit-backend/internal/types"
)

// emailListCacheKey is the single entry kept in the listing cache.
const emailListCacheKey = "users:email-list"

var _ UserService = (*UserServiceImpl)(nil)

// UserService defines the interface for user query operations.
type UserService interface {
	// ListUsers returns the email projection of every user.
	ListUsers(ctx context.Context) ([]types.UserEmail, error)

	// GetUserProfile returns the public view of a user.
	GetUserProfile(ctx context.Context, userID int64) (*types.UserAuth, error)
}

// UserServiceImpl implements the UserService interface.
type UserServiceImpl struct {
	logger    *slog.Logger
	repo      UserRepo
	listCache *cache.Cache
}

// NewUserService creates a new UserService. listCache may be nil, in which
// case every listing hits the database.
func NewUserService(repo UserRepo, listCache *cache.Cache, logger *slog.Logger) *UserServiceImpl {
	return &UserServiceImpl{
		logger:    logger,
		repo:      repo,
		listCache: listCache,
	}
}

func (s *UserServiceImpl) ListUsers(ctx context.Context) ([]types.UserEmail, error) {
	if s.listCache != nil {
		if cached, found := s.listCache.Get(emailListCacheKey); found {
			return cached.([]types.UserEmail), nil
		}
	}

	emails, err := s.repo.ListEmails(ctx)
	if err != nil {
		return nil, err
	}

	if s.listCache != nil {
		s.listCache.Set(emailListCacheKey, emails, cache.DefaultExpiration)
	}
	return emails, nil
}

func (s *UserServiceImpl) GetUserProfile(ctx context.Context, userID int64) (*types.UserAuth, error) {
	return s.repo.GetUserByID(ctx, userID)
}
