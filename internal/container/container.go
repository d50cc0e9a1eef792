package container

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
	"github.com/markbates/goth/providers/google"
	"github.com/patrickmn/go-cache"

	database "github.com/wefit-app/wefit-backend/app/db"
	"github.com/wefit-app/wefit-backend/config"
	"github.com/wefit-app/wefit-backend/internal/api/auth"
	"github.com/wefit-app/wefit-backend/internal/api/user"
)

// Container holds all application dependencies.
type Container struct {
	Config       *config.Config
	Logger       *slog.Logger
	Pool         *pgxpool.Pool
	AuthHandler  *auth.HandlerImpl
	UserHandler  *user.HandlerImpl
	Authenticate func(http.Handler) http.Handler
}

// NewContainer initializes and returns a new dependency container.
func NewContainer(cfg *config.Config, logger *slog.Logger) (*Container, error) {
	dbConfig, err := database.NewDatabaseConfig(cfg, logger)
	if err != nil {
		logger.Error("Failed to generate database config", slog.Any("error", err))
		return nil, err
	}

	pool, err := database.Init(dbConfig.ConnectionURL, logger)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.Any("error", err))
		return nil, err
	}

	setupOAuthProviders(cfg)

	// Listing cache: short TTL, flushed by the auth service on signup.
	listCache := cache.New(30*time.Second, time.Minute)

	authRepo := auth.NewPostgresAuthRepo(pool, logger)
	authService := auth.NewAuthService(authRepo, cfg, listCache, logger)
	authHandler := auth.NewHandlerImpl(authService, logger)

	userRepo := user.NewPostgresUserRepo(pool, logger)
	userService := user.NewUserService(userRepo, listCache, logger)
	userHandler := user.NewHandlerImpl(userService, logger)

	return &Container{
		Config:       cfg,
		Logger:       logger,
		Pool:         pool,
		AuthHandler:  authHandler,
		UserHandler:  userHandler,
		Authenticate: auth.Authenticate(logger, cfg.JWT),
	}, nil
}

// Close releases held resources.
func (c *Container) Close() {
	if c.Pool != nil {
		c.Pool.Close()
	}
}

func setupOAuthProviders(cfg *config.Config) {
	g := cfg.OAuth.Google
	if g.ClientID == "" || g.ClientSecret == "" {
		return
	}

	sessionSecret := g.SessionSecret
	if sessionSecret == "" {
		sessionSecret = cfg.JWT.SecretKey
	}
	gothic.Store = sessions.NewCookieStore([]byte(sessionSecret))

	goth.UseProviders(
		google.New(g.ClientID, g.ClientSecret, g.CallbackURL, "email", "profile"),
	)
}
