package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brainydocs/brainydocs/internal/config"
	"github.com/brainydocs/brainydocs/internal/domain"
	"github.com/brainydocs/brainydocs/internal/repository"
)

func newTestDB(t *testing.T) *repository.DB {
	t.Helper()

	db, err := repository.NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return db
}

func newTestAuthService(t *testing.T) *AuthService {
	t.Helper()

	return NewAuthService(repository.NewUserRepository(newTestDB(t)), config.AuthConfig{
		JWTSecret:      "test-secret",
		JWTTTL:         time.Hour,
		GoogleClientID: "client-id",
	})
}

func TestSignupAndLogin(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	resp, err := svc.Signup(ctx, &domain.SignupRequest{
		Email:    "  Alice@Example.COM ",
		Password: "hunter22",
	})
	require.NoError(t, err)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.NotEmpty(t, resp.AccessToken)
	// Email is lowercased, name defaults to the local part
	assert.Equal(t, "alice@example.com", resp.User.Email)
	assert.Equal(t, "alice", resp.User.Name)

	login, err := svc.Login(ctx, &domain.LoginRequest{
		Email:    "alice@example.com",
		Password: "hunter22",
	})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, login.User.ID)
}

func TestSignupDuplicate(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, &domain.SignupRequest{Email: "a@b.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.Signup(ctx, &domain.SignupRequest{Email: "a@b.com", Password: "secret2"})
	assert.ErrorIs(t, err, domain.ErrUserExists)
}

func TestLoginInvalidCredentials(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, &domain.SignupRequest{Email: "a@b.com", Password: "secret1"})
	require.NoError(t, err)

	// Wrong password and unknown user fail identically
	_, err = svc.Login(ctx, &domain.LoginRequest{Email: "a@b.com", Password: "wrong"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = svc.Login(ctx, &domain.LoginRequest{Email: "nobody@b.com", Password: "secret1"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestParseToken(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	resp, err := svc.Signup(ctx, &domain.SignupRequest{Email: "a@b.com", Password: "secret1"})
	require.NoError(t, err)

	claims, err := svc.ParseToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.Subject)
	assert.Equal(t, "a@b.com", claims.Email)

	_, err = svc.ParseToken(resp.AccessToken + "tampered")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestGoogleSignInCreatesUserOnce(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	svc.verifyGoogle = func(ctx context.Context, token, audience string) (*GoogleIdentity, error) {
		assert.Equal(t, "client-id", audience)
		return &GoogleIdentity{Subject: "g-123", Email: "carol@example.com", Name: "Carol"}, nil
	}

	first, err := svc.Google(ctx, &domain.GoogleAuthRequest{IDToken: "token"})
	require.NoError(t, err)
	assert.Equal(t, "Carol", first.User.Name)

	second, err := svc.Google(ctx, &domain.GoogleAuthRequest{IDToken: "token"})
	require.NoError(t, err)
	assert.Equal(t, first.User.ID, second.User.ID)
}

func TestGoogleSignInRejectsBadToken(t *testing.T) {
	svc := newTestAuthService(t)

	svc.verifyGoogle = func(ctx context.Context, token, audience string) (*GoogleIdentity, error) {
		return nil, errors.New("bad signature")
	}

	_, err := svc.Google(context.Background(), &domain.GoogleAuthRequest{IDToken: "token"})
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
}
