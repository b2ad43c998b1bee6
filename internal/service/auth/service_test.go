package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/medstore/api/internal/config"
	"github.com/medstore/api/internal/crypto"
	"github.com/medstore/api/internal/domain"
	jwtpkg "github.com/medstore/api/internal/jwt"
	"github.com/medstore/api/internal/repository"
)

type userRepoMock struct {
	createFunc        func(ctx context.Context, user *domain.User) error
	getByUsernameFunc func(ctx context.Context, username string) (*domain.User, error)
	getByIDFunc       func(ctx context.Context, id string) (*domain.User, error)
}

func (m *userRepoMock) CreateUser(ctx context.Context, user *domain.User) error {
	if m.createFunc == nil {
		return nil
	}
	return m.createFunc(ctx, user)
}

func (m *userRepoMock) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	if m.getByUsernameFunc == nil {
		return nil, repository.ErrNotFound
	}
	return m.getByUsernameFunc(ctx, username)
}

func (m *userRepoMock) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	if m.getByIDFunc == nil {
		return nil, repository.ErrNotFound
	}
	return m.getByIDFunc(ctx, id)
}

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() config.APIConfig {
	return config.APIConfig{JWTSecret: "test-secret", TokenTTL: time.Hour}
}

func TestSignupHashesPassword(t *testing.T) {
	var stored *domain.User
	repo := &userRepoMock{
		createFunc: func(_ context.Context, user *domain.User) error {
			stored = user
			return nil
		},
	}
	svc := New(repo, newLogger(), testConfig())

	user, err := svc.Signup(context.Background(), "alice", "pw1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID == "" {
		t.Fatalf("expected generated user id")
	}
	if stored == nil {
		t.Fatalf("expected user persisted")
	}
	if string(stored.PasswordHash) == "pw1" {
		t.Fatalf("password stored in plaintext")
	}
	if err := crypto.ComparePassword(stored.PasswordHash, "pw1"); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestSignupDuplicateUsername(t *testing.T) {
	repo := &userRepoMock{
		createFunc: func(_ context.Context, _ *domain.User) error {
			return repository.ErrConflict
		},
	}
	svc := New(repo, newLogger(), testConfig())

	if _, err := svc.Signup(context.Background(), "alice", "any-password"); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestLoginIssuesTokenForUser(t *testing.T) {
	hash, err := crypto.HashPassword("pw1")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	repo := &userRepoMock{
		getByUsernameFunc: func(_ context.Context, username string) (*domain.User, error) {
			if username != "alice" {
				return nil, repository.ErrNotFound
			}
			return &domain.User{ID: "user-42", Username: "alice", PasswordHash: hash}, nil
		},
	}
	svc := New(repo, newLogger(), testConfig())

	token, err := svc.Login(context.Background(), "alice", "pw1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	claims, err := jwtpkg.Parse(token, "test-secret")
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if claims.UserID != "user-42" {
		t.Fatalf("token bound to %q, want user-42", claims.UserID)
	}
}

func TestLoginCollapsesFailureKinds(t *testing.T) {
	hash, err := crypto.HashPassword("pw1")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	repo := &userRepoMock{
		getByUsernameFunc: func(_ context.Context, username string) (*domain.User, error) {
			if username != "alice" {
				return nil, repository.ErrNotFound
			}
			return &domain.User{ID: "user-42", Username: "alice", PasswordHash: hash}, nil
		},
	}
	svc := New(repo, newLogger(), testConfig())

	// Unknown username and wrong password must be indistinguishable.
	if _, err := svc.Login(context.Background(), "bob", "pw1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown username: expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(context.Background(), "alice", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthorizeResolvesUser(t *testing.T) {
	repo := &userRepoMock{
		getByIDFunc: func(_ context.Context, id string) (*domain.User, error) {
			if id != "user-42" {
				return nil, repository.ErrNotFound
			}
			return &domain.User{ID: "user-42", Username: "alice"}, nil
		},
	}
	svc := New(repo, newLogger(), testConfig())

	token, err := jwtpkg.GenerateToken("user-42", "test-secret", time.Hour)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	user, err := svc.Authorize(context.Background(), token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Username != "alice" {
		t.Fatalf("unexpected user %q", user.Username)
	}
}

func TestAuthorizeDeletedUser(t *testing.T) {
	svc := New(&userRepoMock{}, newLogger(), testConfig())

	token, err := jwtpkg.GenerateToken("user-gone", "test-secret", time.Hour)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	if _, err := svc.Authorize(context.Background(), token); !errors.Is(err, ErrUnknownUser) {
		t.Fatalf("expected ErrUnknownUser, got %v", err)
	}
}

func TestAuthorizeExpiredToken(t *testing.T) {
	repo := &userRepoMock{
		getByIDFunc: func(_ context.Context, id string) (*domain.User, error) {
			t.Fatalf("store must not be consulted for an expired token")
			return nil, nil
		},
	}
	svc := New(repo, newLogger(), testConfig())

	token, err := jwtpkg.GenerateToken("user-42", "test-secret", -time.Minute)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	if _, err := svc.Authorize(context.Background(), token); !errors.Is(err, jwtpkg.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}
