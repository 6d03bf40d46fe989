package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/agamariel/mastermarket/internal/auth"
	"github.com/agamariel/mastermarket/internal/models"
	"github.com/agamariel/mastermarket/internal/storage"
	"github.com/google/uuid"
)

const testJWTSecret = "test-secret"

func TestUserService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("empty credentials", func(t *testing.T) {
		svc := NewUserService(&storage.MockUserStorage{}, testJWTSecret, time.Hour)

		tests := []struct {
			name string
			req  *models.RegisterRequest
		}{
			{"no email", &models.RegisterRequest{Password: "secret"}},
			{"no password", &models.RegisterRequest{Email: "user@example.com"}},
			{"whitespace email", &models.RegisterRequest{Email: "   ", Password: "secret"}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, _, err := svc.Register(ctx, tt.req)
				if !errors.Is(err, ErrEmptyCredentials) {
					t.Errorf("expected ErrEmptyCredentials, got %v", err)
				}
			})
		}
	})

	t.Run("admin role is not self-assignable", func(t *testing.T) {
		svc := NewUserService(&storage.MockUserStorage{}, testJWTSecret, time.Hour)
		_, _, err := svc.Register(ctx, &models.RegisterRequest{
			Email:    "root@example.com",
			Password: "secret",
			Role:     "admin",
		})
		if !errors.Is(err, ErrInvalidRole) {
			t.Errorf("expected ErrInvalidRole, got %v", err)
		}
	})

	t.Run("unknown role", func(t *testing.T) {
		svc := NewUserService(&storage.MockUserStorage{}, testJWTSecret, time.Hour)
		_, _, err := svc.Register(ctx, &models.RegisterRequest{
			Email:    "user@example.com",
			Password: "secret",
			Role:     "superuser",
		})
		if !errors.Is(err, ErrInvalidRole) {
			t.Errorf("expected ErrInvalidRole, got %v", err)
		}
	})

	t.Run("email is normalized", func(t *testing.T) {
		var created *models.User
		users := &storage.MockUserStorage{
			CreateFunc: func(ctx context.Context, user *models.User) error {
				created = user
				return nil
			},
		}
		svc := NewUserService(users, testJWTSecret, time.Hour)

		user, token, err := svc.Register(ctx, &models.RegisterRequest{
			Email:    "  Usta.Karim@Example.COM ",
			Password: "secret",
			Role:     "master",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if created == nil {
			t.Fatal("user was not persisted")
		}
		if user.Email != "usta.karim@example.com" {
			t.Errorf("email = %q, want lowercased/trimmed", user.Email)
		}
		if user.Role != models.RoleMaster {
			t.Errorf("role = %s, want master", user.Role)
		}
		if !user.IsActive {
			t.Error("new user should be active")
		}
		if token == "" {
			t.Error("expected a token")
		}
		// Пароль не должен храниться открытым текстом.
		if user.PasswordHash == "secret" {
			t.Error("password stored in plain text")
		}
	})

	t.Run("default role is client", func(t *testing.T) {
		svc := NewUserService(&storage.MockUserStorage{CreateFunc: func(ctx context.Context, user *models.User) error { return nil }}, testJWTSecret, time.Hour)
		user, _, err := svc.Register(ctx, &models.RegisterRequest{Email: "c@example.com", Password: "secret"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if user.Role != models.RoleClient {
			t.Errorf("role = %s, want client", user.Role)
		}
	})

	t.Run("duplicate email", func(t *testing.T) {
		users := &storage.MockUserStorage{
			CreateFunc: func(ctx context.Context, user *models.User) error {
				return storage.ErrEmailExists
			},
		}
		svc := NewUserService(users, testJWTSecret, time.Hour)
		_, _, err := svc.Register(ctx, &models.RegisterRequest{Email: "dup@example.com", Password: "secret"})
		if !errors.Is(err, storage.ErrEmailExists) {
			t.Errorf("expected ErrEmailExists, got %v", err)
		}
	})
}

func TestUserService_Login(t *testing.T) {
	ctx := context.Background()

	hash, err := auth.HashPassword("correct-password")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		ID:           uuid.New(),
		Email:        "user@example.com",
		PasswordHash: hash,
		Role:         models.RoleClient,
		IsActive:     true,
	}

	newUsers := func(u *models.User) *storage.MockUserStorage {
		return &storage.MockUserStorage{
			GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
				if u != nil && email == u.Email {
					return u, nil
				}
				return nil, storage.ErrUserNotFound
			},
		}
	}

	t.Run("successful login", func(t *testing.T) {
		svc := NewUserService(newUsers(user), testJWTSecret, time.Hour)
		got, token, err := svc.Login(ctx, "User@Example.com", "correct-password")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.ID != user.ID {
			t.Errorf("user ID = %v, want %v", got.ID, user.ID)
		}

		claims, err := auth.ValidateToken(token, testJWTSecret)
		if err != nil {
			t.Fatalf("issued token does not validate: %v", err)
		}
		if claims.UserID != user.ID || claims.Role != models.RoleClient {
			t.Errorf("claims = %+v, want user %v role client", claims, user.ID)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		svc := NewUserService(newUsers(user), testJWTSecret, time.Hour)
		_, _, err := svc.Login(ctx, "user@example.com", "wrong")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		// Несуществующий email даёт тот же ответ, что и неверный
		// пароль, чтобы не раскрывать факт регистрации.
		svc := NewUserService(newUsers(user), testJWTSecret, time.Hour)
		_, _, err := svc.Login(ctx, "ghost@example.com", "correct-password")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("inactive user", func(t *testing.T) {
		inactive := &models.User{
			ID:           uuid.New(),
			Email:        "off@example.com",
			PasswordHash: hash,
			Role:         models.RoleClient,
			IsActive:     false,
		}
		svc := NewUserService(newUsers(inactive), testJWTSecret, time.Hour)
		_, _, err := svc.Login(ctx, "off@example.com", "correct-password")
		if !errors.Is(err, ErrUserInactive) {
			t.Errorf("expected ErrUserInactive, got %v", err)
		}
	})

	t.Run("empty credentials", func(t *testing.T) {
		svc := NewUserService(newUsers(user), testJWTSecret, time.Hour)
		_, _, err := svc.Login(ctx, "", "")
		if !errors.Is(err, ErrEmptyCredentials) {
			t.Errorf("expected ErrEmptyCredentials, got %v", err)
		}
	})
}

func TestUserService_GetByID(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("found", func(t *testing.T) {
		users := &storage.MockUserStorage{
			GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*models.User, error) {
				return &models.User{ID: id, Email: "user@example.com"}, nil
			},
		}
		svc := NewUserService(users, testJWTSecret, time.Hour)
		user, err := svc.GetByID(ctx, userID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if user.ID != userID {
			t.Errorf("ID = %v, want %v", user.ID, userID)
		}
	})

	t.Run("not found", func(t *testing.T) {
		svc := NewUserService(&storage.MockUserStorage{}, testJWTSecret, time.Hour)
		_, err := svc.GetByID(ctx, userID)
		if !errors.Is(err, storage.ErrUserNotFound) {
			t.Errorf("expected ErrUserNotFound, got %v", err)
		}
	})
}
