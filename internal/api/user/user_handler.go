package user

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/wefit-app/wefit-backend/internal/api"
	"github.com/wefit-app/wefit-backend/internal/api/auth"
	"github.com/wefit-app/wefit-backend/internal/types"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	GetUsers(w http.ResponseWriter, r *http.Request)
	GetCurrentUser(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	userService UserService
	logger      *slog.Logger
}

// NewHandlerImpl creates a new user HandlerImpl instance.
func NewHandlerImpl(userService UserService, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		userService: userService,
		logger:      logger,
	}
}

// GetUsers godoc
// @Summary      List Users
// @Description  Returns the email of every registered user.
// @Tags         User
// @Produce      json
// @Success      200 {array} types.UserEmail "User Emails"
// @Failure      500 {object} types.Response "Internal Server Error"
// @Router       /users [get]
func (h *HandlerImpl) GetUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "GetUsers"))

	emails, err := h.userService.ListUsers(ctx)
	if err != nil {
		l.ErrorContext(ctx, "Failed to list users", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to list users")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, emails)
}

// GetCurrentUser godoc
// @Summary      Get Current User
// @Description  Returns the authenticated user's public profile.
// @Tags         User
// @Produce      json
// @Success      200 {object} types.UserAuth "User Profile"
// @Failure      401 {object} types.Response "Unauthorized"
// @Failure      404 {object} types.Response "User Not Found"
// @Failure      500 {object} types.Response "Internal Server Error"
// @Security     BearerAuth
// @Router       /api/me [get]
func (h *HandlerImpl) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "GetCurrentUser"))

	userID, ok := auth.GetUserIDFromContext(ctx)
	if !ok {
		l.ErrorContext(ctx, "User ID not found in context")
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	profile, err := h.userService.GetUserProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "User not found")
		} else {
			l.ErrorContext(ctx, "Failed to get user profile", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to retrieve user profile")
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, profile)
}
