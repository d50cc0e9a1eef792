package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/markbates/goth/gothic"

	"github.com/wefit-app/wefit-backend/internal/api"
	"github.com/wefit-app/wefit-backend/internal/types"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	Login(w http.ResponseWriter, r *http.Request)
	Signup(w http.ResponseWriter, r *http.Request)
	BeginOAuth(w http.ResponseWriter, r *http.Request)
	OAuthCallback(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	authService AuthService
	logger      *slog.Logger
}

// NewHandlerImpl creates a new auth HandlerImpl instance.
func NewHandlerImpl(authService AuthService, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		authService: authService,
		logger:      logger,
	}
}

// Login godoc
// @Summary      Login
// @Description  Verifies email and password and returns a signed access token.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        credentials body types.LoginRequest true "Login Credentials"
// @Success      200 {object} types.LoginResponse "Login Successful"
// @Failure      400 {object} types.Response "Missing Field"
// @Failure      401 {object} types.Response "Invalid Credentials"
// @Failure      500 {object} types.Response "Internal Server Error"
// @Router       /login [post]
func (h *HandlerImpl) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Login"))

	var req types.LoginRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Invalid login payload", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	token, username, err := h.authService.Login(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, types.ErrBadRequest):
			api.ErrorResponse(w, r, http.StatusBadRequest, "Email and password are required")
		case errors.Is(err, types.ErrUnauthenticated):
			api.ErrorResponse(w, r, http.StatusUnauthorized, "Invalid credentials")
		default:
			l.ErrorContext(ctx, "Login failed", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "An error occurred")
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, types.LoginResponse{
		Message:  "Login successful",
		Token:    token,
		Username: username,
	})
}

// Signup godoc
// @Summary      Signup
// @Description  Registers a new user with a unique email.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        user body types.SignupRequest true "Signup Details"
// @Success      201 {object} types.SignupResponse "Signup Successful"
// @Failure      400 {object} types.Response "Missing Field or Duplicate Email"
// @Failure      500 {object} types.Response "Internal Server Error"
// @Router       /api/signup [post]
func (h *HandlerImpl) Signup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Signup"))

	var req types.SignupRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Invalid signup payload", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := h.authService.Register(ctx, req.Username, req.Email, req.Password); err != nil {
		switch {
		case errors.Is(err, types.ErrBadRequest):
			api.ErrorResponse(w, r, http.StatusBadRequest, "Username, email, and password are required")
		case errors.Is(err, types.ErrConflict):
			api.ErrorResponse(w, r, http.StatusBadRequest, "User already exists")
		default:
			l.ErrorContext(ctx, "Signup failed", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Something went wrong")
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusCreated, types.SignupResponse{
		Message: "Signup successful!",
	})
}

// BeginOAuth godoc
// @Summary      Begin OAuth Flow
// @Description  Redirects the browser to the identity provider's consent page.
// @Tags         Auth
// @Param        provider path string true "OAuth Provider" Enums(google)
// @Success      307 "Redirect to Provider"
// @Router       /auth/{provider} [get]
func (h *HandlerImpl) BeginOAuth(w http.ResponseWriter, r *http.Request) {
	gothic.BeginAuthHandler(w, withProviderParam(r))
}

// OAuthCallback godoc
// @Summary      OAuth Callback
// @Description  Completes the OAuth flow, creating the user on first sign-in,
// @Description  and returns the standard access token.
// @Tags         Auth
// @Produce      json
// @Param        provider path string true "OAuth Provider" Enums(google)
// @Success      200 {object} types.LoginResponse "Login Successful"
// @Failure      401 {object} types.Response "Provider Authentication Failed"
// @Failure      500 {object} types.Response "Internal Server Error"
// @Router       /auth/{provider}/callback [get]
func (h *HandlerImpl) OAuthCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "OAuthCallback"))

	r = withProviderParam(r)
	providerUser, err := gothic.CompleteUserAuth(w, r)
	if err != nil {
		l.WarnContext(ctx, "Provider authentication failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Provider authentication failed")
		return
	}

	provider, _ := gothic.GetProviderName(r)
	user, err := h.authService.GetOrCreateUserFromProvider(ctx, provider, providerUser)
	if err != nil {
		l.ErrorContext(ctx, "Failed to resolve provider identity", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "An error occurred")
		return
	}

	token, err := h.authService.GenerateToken(ctx, user)
	if err != nil {
		l.ErrorContext(ctx, "Failed to issue token", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "An error occurred")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, types.LoginResponse{
		Message:  "Login successful",
		Token:    token,
		Username: user.Username,
	})
}

// withProviderParam copies the chi {provider} URL param into the query string
// where gothic expects to find it.
func withProviderParam(r *http.Request) *http.Request {
	if r.URL.Query().Get("provider") != "" {
		return r
	}
	if provider := chi.URLParam(r, "provider"); provider != "" {
		q := r.URL.Query()
		q.Set("provider", provider)
		r.URL.RawQuery = q.Encode()
	}
	return r
}
