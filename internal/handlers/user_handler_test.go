package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/agamariel/mastermarket/internal/auth"
	"github.com/agamariel/mastermarket/internal/models"
	"github.com/agamariel/mastermarket/internal/services"
	"github.com/agamariel/mastermarket/internal/storage"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// MockUserService - мок для тестирования handlers
type MockUserService struct {
	RegisterFunc func(ctx context.Context, req *models.RegisterRequest) (*models.User, string, error)
	LoginFunc    func(ctx context.Context, email, password string) (*models.User, string, error)
	GetByIDFunc  func(ctx context.Context, userID uuid.UUID) (*models.User, error)
}

func (m *MockUserService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, string, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, req)
	}
	return nil, "", nil
}

func (m *MockUserService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	return nil, "", nil
}

func (m *MockUserService) GetByID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, userID)
	}
	return nil, storage.ErrUserNotFound
}

func TestUserHandler_Register(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    string
		mockService    *MockUserService
		expectedStatus int
		checkCookie    bool
	}{
		{
			name:        "successful registration",
			requestBody: `{"email":"test@example.com","password":"password123"}`,
			mockService: &MockUserService{
				RegisterFunc: func(ctx context.Context, req *models.RegisterRequest) (*models.User, string, error) {
					return &models.User{
						ID:    uuid.New(),
						Email: req.Email,
						Role:  models.RoleClient,
					}, "test-token", nil
				},
			},
			expectedStatus: http.StatusCreated,
			checkCookie:    true,
		},
		{
			name:           "invalid JSON",
			requestBody:    `{"email":"test@example.com"`,
			mockService:    &MockUserService{},
			expectedStatus: http.StatusBadRequest,
			checkCookie:    false,
		},
		{
			name:        "empty credentials",
			requestBody: `{"email":"","password":""}`,
			mockService: &MockUserService{
				RegisterFunc: func(ctx context.Context, req *models.RegisterRequest) (*models.User, string, error) {
					return nil, "", services.ErrEmptyCredentials
				},
			},
			expectedStatus: http.StatusBadRequest,
			checkCookie:    false,
		},
		{
			name:        "admin role rejected",
			requestBody: `{"email":"root@example.com","password":"password123","role":"admin"}`,
			mockService: &MockUserService{
				RegisterFunc: func(ctx context.Context, req *models.RegisterRequest) (*models.User, string, error) {
					return nil, "", services.ErrInvalidRole
				},
			},
			expectedStatus: http.StatusBadRequest,
			checkCookie:    false,
		},
		{
			name:        "email already exists",
			requestBody: `{"email":"existing@example.com","password":"password123"}`,
			mockService: &MockUserService{
				RegisterFunc: func(ctx context.Context, req *models.RegisterRequest) (*models.User, string, error) {
					return nil, "", storage.ErrEmailExists
				},
			},
			expectedStatus: http.StatusConflict,
			checkCookie:    false,
		},
		{
			name:        "internal error",
			requestBody: `{"email":"test@example.com","password":"password123"}`,
			mockService: &MockUserService{
				RegisterFunc: func(ctx context.Context, req *models.RegisterRequest) (*models.User, string, error) {
					return nil, "", errors.New("database error")
				},
			},
			expectedStatus: http.StatusInternalServerError,
			checkCookie:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(tt.requestBody))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			handler := NewUserHandler(tt.mockService)
			err := handler.Register(c)

			checkHandlerStatus(t, err, rec, tt.expectedStatus)

			if tt.checkCookie {
				cookies := rec.Result().Cookies()
				found := false
				for _, cookie := range cookies {
					if cookie.Name == "Authorization" && cookie.Value == "test-token" {
						found = true
					}
				}
				if !found {
					t.Error("auth cookie not set")
				}
				if got := rec.Header().Get("Authorization"); got != "Bearer test-token" {
					t.Errorf("Authorization header = %q", got)
				}
			}
		})
	}
}

func TestUserHandler_Login(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    string
		mockService    *MockUserService
		expectedStatus int
	}{
		{
			name:        "successful login",
			requestBody: `{"email":"test@example.com","password":"password123"}`,
			mockService: &MockUserService{
				LoginFunc: func(ctx context.Context, email, password string) (*models.User, string, error) {
					return &models.User{ID: uuid.New(), Email: email, Role: models.RoleClient}, "test-token", nil
				},
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:        "wrong password",
			requestBody: `{"email":"test@example.com","password":"wrong"}`,
			mockService: &MockUserService{
				LoginFunc: func(ctx context.Context, email, password string) (*models.User, string, error) {
					return nil, "", services.ErrInvalidCredentials
				},
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:        "inactive user",
			requestBody: `{"email":"off@example.com","password":"password123"}`,
			mockService: &MockUserService{
				LoginFunc: func(ctx context.Context, email, password string) (*models.User, string, error) {
					return nil, "", services.ErrUserInactive
				},
			},
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "invalid JSON",
			requestBody:    `{"email":`,
			mockService:    &MockUserService{},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(tt.requestBody))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			handler := NewUserHandler(tt.mockService)
			err := handler.Login(c)

			checkHandlerStatus(t, err, rec, tt.expectedStatus)
		})
	}
}

func TestUserHandler_Me(t *testing.T) {
	userID := uuid.New()

	t.Run("returns current user", func(t *testing.T) {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.Set(string(auth.UserIDKey), userID)

		handler := NewUserHandler(&MockUserService{
			GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*models.User, error) {
				return &models.User{ID: id, Email: "test@example.com", Role: models.RoleClient}, nil
			},
		})

		if err := handler.Me(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "test@example.com") {
			t.Errorf("body does not contain email: %s", rec.Body.String())
		}
	})

	t.Run("missing user in context", func(t *testing.T) {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		handler := NewUserHandler(&MockUserService{})
		err := handler.Me(c)

		checkHandlerStatus(t, err, rec, http.StatusUnauthorized)
	})

	t.Run("stale token for deleted user", func(t *testing.T) {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.Set(string(auth.UserIDKey), userID)

		handler := NewUserHandler(&MockUserService{})
		err := handler.Me(c)

		checkHandlerStatus(t, err, rec, http.StatusUnauthorized)
	})
}
