package auth

import (
	"context"
	"testing"

	"github.com/gajihub/payroll-backend-go/internal/domain/auth"
	"github.com/gajihub/payroll-backend-go/internal/domain/user"
	"github.com/gajihub/payroll-backend-go/internal/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserRepo struct {
	users map[string]user.User // keyed by email
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	u, ok := f.users[email]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func newTestAuthService(t *testing.T, password string) (auth.AuthService, jwt.Service) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	userRepo := &fakeUserRepo{users: map[string]user.User{
		"hr@example.com": {
			ID:           "user-1",
			CompanyID:    "company-1",
			Email:        "hr@example.com",
			PasswordHash: string(hash),
			FullName:     "HR Admin",
			Role:         user.RoleHR,
		},
	}}
	jwtService := jwt.NewJWTService("test-secret", "15m", "168h")
	return NewAuthService(userRepo, jwtService), jwtService
}

func TestLogin(t *testing.T) {
	svc, _ := newTestAuthService(t, "s3cret-pass")

	resp, err := svc.Login(context.Background(), auth.LoginRequest{
		Email:    "hr@example.com",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)

	assert.Equal(t, "user-1", resp.UserID)
	assert.Equal(t, "company-1", resp.CompanyID)
	assert.Equal(t, "hr", resp.Role)
	assert.NotEmpty(t, resp.Tokens.AccessToken)
	assert.NotEmpty(t, resp.Tokens.RefreshToken)
	assert.NotEqual(t, resp.Tokens.AccessToken, resp.Tokens.RefreshToken)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newTestAuthService(t, "s3cret-pass")

	_, err := svc.Login(context.Background(), auth.LoginRequest{
		Email:    "hr@example.com",
		Password: "wrong",
	})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLoginUnknownEmailLooksLikeBadCredentials(t *testing.T) {
	svc, _ := newTestAuthService(t, "s3cret-pass")

	_, err := svc.Login(context.Background(), auth.LoginRequest{
		Email:    "nobody@example.com",
		Password: "s3cret-pass",
	})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLoginValidatesRequest(t *testing.T) {
	svc, _ := newTestAuthService(t, "s3cret-pass")

	_, err := svc.Login(context.Background(), auth.LoginRequest{Email: "not-an-email", Password: ""})
	assert.Error(t, err)
}

func TestRefreshRotatesTokens(t *testing.T) {
	svc, _ := newTestAuthService(t, "s3cret-pass")

	resp, err := svc.Login(context.Background(), auth.LoginRequest{
		Email:    "hr@example.com",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)

	pair, err := svc.Refresh(context.Background(), resp.Tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, resp.Tokens.RefreshToken, pair.RefreshToken)

	// The presented refresh token is single use.
	_, err = svc.Refresh(context.Background(), resp.Tokens.RefreshToken)
	assert.ErrorIs(t, err, auth.ErrTokenRevoked)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	svc, _ := newTestAuthService(t, "s3cret-pass")

	resp, err := svc.Login(context.Background(), auth.LoginRequest{
		Email:    "hr@example.com",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), resp.Tokens.AccessToken)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestRefreshRejectsGarbage(t *testing.T) {
	svc, _ := newTestAuthService(t, "s3cret-pass")

	_, err := svc.Refresh(context.Background(), "")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	_, err = svc.Refresh(context.Background(), "not.a.jwt")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	svc, jwtService := newTestAuthService(t, "s3cret-pass")

	resp, err := svc.Login(context.Background(), auth.LoginRequest{
		Email:    "hr@example.com",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), resp.Tokens.RefreshToken))
	assert.True(t, jwtService.IsTokenRevoked(resp.Tokens.RefreshToken))

	_, err = svc.Refresh(context.Background(), resp.Tokens.RefreshToken)
	assert.ErrorIs(t, err, auth.ErrTokenRevoked)
}
