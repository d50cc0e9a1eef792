package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/markbates/goth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/wefit-app/wefit-backend/internal/types"
)

// MockAuthService is a mock implementation of the AuthService interface
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (string, string, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockAuthService) Register(ctx context.Context, username, email, password string) (*types.UserAuth, error) {
	args := m.Called(ctx, username, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.UserAuth), args.Error(1)
}

func (m *MockAuthService) GetOrCreateUserFromProvider(ctx context.Context, provider string, providerUser goth.User) (*types.UserAuth, error) {
	args := m.Called(ctx, provider, providerUser)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.UserAuth), args.Error(1)
}

func (m *MockAuthService) GenerateToken(ctx context.Context, user *types.UserAuth) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}

func TestLoginHandler(t *testing.T) {
	mockService := new(MockAuthService)
	logger := slog.Default()
	handler := NewHandlerImpl(mockService, logger)

	t.Run("Success", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{
			"email":    "a@x.com",
			"password": "pw123",
		})

		req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		mockService.On("Login", mock.Anything, "a@x.com", "pw123").
			Return("signed-token", "ana", nil).Once()

		handler.Login(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response types.LoginResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "Login successful", response.Message)
		assert.Equal(t, "signed-token", response.Token)
		assert.Equal(t, "ana", response.Username)

		mockService.AssertExpectations(t)
	})

	t.Run("InvalidRequestBody", func(t *testing.T) {
		body := []byte(`{"email": "a@x.com", "password":}`)

		req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		handler.Login(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("MissingFields", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{"email": "a@x.com"})

		req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		mockService.On("Login", mock.Anything, "a@x.com", "").
			Return("", "", fmt.Errorf("email and password are required: %w", types.ErrBadRequest)).Once()

		handler.Login(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("InvalidCredentials", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{
			"email":    "a@x.com",
			"password": "wrong",
		})

		req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		mockService.On("Login", mock.Anything, "a@x.com", "wrong").
			Return("", "", fmt.Errorf("invalid credentials: %w", types.ErrUnauthenticated)).Once()

		handler.Login(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("InternalError", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{
			"email":    "a@x.com",
			"password": "pw123",
		})

		req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		mockService.On("Login", mock.Anything, "a@x.com", "pw123").
			Return("", "", errors.New("connection refused")).Once()

		handler.Login(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		// The raw error never reaches the client.
		assert.NotContains(t, w.Body.String(), "connection refused")
		mockService.AssertExpectations(t)
	})
}

func TestSignupHandler(t *testing.T) {
	mockService := new(MockAuthService)
	logger := slog.Default()
	handler := NewHandlerImpl(mockService, logger)

	t.Run("Success", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{
			"username": "ana",
			"email":    "a@x.com",
			"password": "pw123",
		})

		req := httptest.NewRequest(http.MethodPost, "/api/signup", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		created := &types.UserAuth{ID: 1, Username: "ana", Email: "a@x.com"}
		mockService.On("Register", mock.Anything, "ana", "a@x.com", "pw123").
			Return(created, nil).Once()

		handler.Signup(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		var response types.SignupResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "Signup successful!", response.Message)
		mockService.AssertExpectations(t)
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{
			"username": "ana",
			"email":    "a@x.com",
			"password": "pw123",
		})

		req := httptest.NewRequest(http.MethodPost, "/api/signup", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		mockService.On("Register", mock.Anything, "ana", "a@x.com", "pw123").
			Return(nil, fmt.Errorf("user already exists: %w", types.ErrConflict)).Once()

		handler.Signup(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "User already exists")
		mockService.AssertExpectations(t)
	})

	t.Run("MissingFields", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{"username": "ana"})

		req := httptest.NewRequest(http.MethodPost, "/api/signup", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		mockService.On("Register", mock.Anything, "ana", "", "").
			Return(nil, fmt.Errorf("missing fields: %w", types.ErrBadRequest)).Once()

		handler.Signup(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("EmptyBody", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/signup", bytes.NewReader(nil))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		handler.Signup(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("InternalError", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{
			"username": "ana",
			"email":    "a@x.com",
			"password": "pw123",
		})

		req := httptest.NewRequest(http.MethodPost, "/api/signup", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		mockService.On("Register", mock.Anything, "ana", "a@x.com", "pw123").
			Return(nil, errors.New("disk full")).Once()

		handler.Signup(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "disk full")
		mockService.AssertExpectations(t)
	})
}
