package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/markbates/goth"
	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/crypto/bcrypt"

	"github.com/wefit-app/wefit-backend/app/observability/metrics"
	"github.com/wefit-app/wefit-backend/config"
	"github.com/wefit-app/wefit-backend/internal/types"
)

var _ AuthService = (*AuthServiceImpl)(nil)

// AuthService defines the interface for authentication operations.
type AuthService interface {
	// Login verifies credentials and returns a signed access token plus the
	// user's display name. Unknown email and wrong password both surface as
	// types.ErrUnauthenticated so callers cannot probe account existence.
	Login(ctx context.Context, email, password string) (string, string, error)

	// Register creates a new user with a hashed password.
	Register(ctx context.Context, username, email, password string) (*types.UserAuth, error)

	// GetOrCreateUserFromProvider resolves an OAuth identity to a local user,
	// creating one on first sign-in.
	GetOrCreateUserFromProvider(ctx context.Context, provider string, providerUser goth.User) (*types.UserAuth, error)

	// GenerateToken issues a signed access token for an already
	// authenticated user.
	GenerateToken(ctx context.Context, user *types.UserAuth) (string, error)
}

// AuthServiceImpl implements the AuthService interface.
type AuthServiceImpl struct {
	logger    *slog.Logger
	repo      AuthRepo
	cfg       *config.Config
	listCache *cache.Cache // user listing cache, flushed when a user is created
}

// NewAuthService creates a new AuthService. listCache may be nil.
func NewAuthService(repo AuthRepo, cfg *config.Config, listCache *cache.Cache, logger *slog.Logger) *AuthServiceImpl {
	return &AuthServiceImpl{
		logger:    logger,
		repo:      repo,
		cfg:       cfg,
		listCache: listCache,
	}
}

// HashPassword returns a salted bcrypt hash of the plaintext. Hashing the
// same plaintext twice yields different outputs.
func HashPassword(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// VerifyPassword reports whether plaintext matches the stored hash.
// bcrypt's comparison does not leak which byte mismatched.
func VerifyPassword(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (string, string, error) {
	start := time.Now()
	l := s.logger.With(slog.String("method", "Login"))

	if email == "" || password == "" {
		return "", "", fmt.Errorf("email and password are required: %w", types.ErrBadRequest)
	}

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		s.recordLogin(ctx, start, "failure")
		if errors.Is(err, types.ErrNotFound) {
			l.WarnContext(ctx, "Login attempt for unknown email")
			return "", "", fmt.Errorf("invalid credentials: %w", types.ErrUnauthenticated)
		}
		return "", "", fmt.Errorf("login lookup failed: %w", err)
	}

	if !VerifyPassword(password, user.Password) {
		s.recordLogin(ctx, start, "failure")
		l.WarnContext(ctx, "Login attempt with wrong password", slog.Int64("userID", user.ID))
		return "", "", fmt.Errorf("invalid credentials: %w", types.ErrUnauthenticated)
	}

	token, err := s.GenerateToken(ctx, user)
	if err != nil {
		s.recordLogin(ctx, start, "failure")
		return "", "", err
	}

	s.recordLogin(ctx, start, "success")
	l.InfoContext(ctx, "Login successful", slog.Int64("userID", user.ID))
	return token, user.Username, nil
}

func (s *AuthServiceImpl) Register(ctx context.Context, username, email, password string) (*types.UserAuth, error) {
	start := time.Now()
	l := s.logger.With(slog.String("method", "Register"), slog.String("email", email))

	if username == "" || email == "" || password == "" {
		return nil, fmt.Errorf("username, email, and password are required: %w", types.ErrBadRequest)
	}

	hashed, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.CreateUser(ctx, username, email, hashed)
	if err != nil {
		s.recordSignup(ctx, start, "failure")
		return nil, err
	}

	if s.listCache != nil {
		s.listCache.Flush()
	}

	s.recordSignup(ctx, start, "success")
	l.InfoContext(ctx, "User registered", slog.Int64("userID", user.ID))
	return user, nil
}

func (s *AuthServiceImpl) GetOrCreateUserFromProvider(ctx context.Context, provider string, providerUser goth.User) (*types.UserAuth, error) {
	l := s.logger.With(slog.String("method", "GetOrCreateUserFromProvider"), slog.String("provider", provider))

	if providerUser.Email == "" {
		return nil, fmt.Errorf("provider %s returned no email: %w", provider, types.ErrBadRequest)
	}

	user, err := s.repo.GetUserByEmail(ctx, providerUser.Email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, types.ErrNotFound) {
		return nil, fmt.Errorf("provider user lookup failed: %w", err)
	}

	username := providerUser.NickName
	if username == "" {
		username = providerUser.Name
	}
	if username == "" {
		username = strings.SplitN(providerUser.Email, "@", 2)[0]
	}

	// The account is OAuth-only; store an unguessable credential so
	// password login can never match.
	hashed, err := HashPassword(uuid.NewString())
	if err != nil {
		return nil, err
	}

	user, err = s.repo.CreateUser(ctx, username, providerUser.Email, hashed)
	if err != nil {
		if errors.Is(err, types.ErrConflict) {
			// Lost a race with a concurrent first sign-in; the record exists now.
			return s.repo.GetUserByEmail(ctx, providerUser.Email)
		}
		return nil, err
	}

	if s.listCache != nil {
		s.listCache.Flush()
	}

	l.InfoContext(ctx, "Created user from provider identity", slog.Int64("userID", user.ID))
	return user, nil
}

func (s *AuthServiceImpl) GenerateToken(_ context.Context, user *types.UserAuth) (string, error) {
	now := time.Now()
	claims := types.Claims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.cfg.JWT.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWT.AccessTokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWT.SecretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, nil
}

func (s *AuthServiceImpl) recordLogin(ctx context.Context, start time.Time, outcome string) {
	if m := metrics.Get(); m != nil {
		attrs := metric.WithAttributes(attribute.String("outcome", outcome))
		m.LoginRequestsTotal.Add(ctx, 1, attrs)
		m.LoginDurationSeconds.Record(ctx, time.Since(start).Seconds(), attrs)
	}
}

func (s *AuthServiceImpl) recordSignup(ctx context.Context, start time.Time, outcome string) {
	if m := metrics.Get(); m != nil {
		attrs := metric.WithAttributes(attribute.String("outcome", outcome))
		m.SignupRequestsTotal.Add(ctx, 1, attrs)
		m.SignupDurationSeconds.Record(ctx, time.Since(start).Seconds(), attrs)
	}
}
