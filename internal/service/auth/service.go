package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/gajihub/payroll-backend-go/internal/domain/auth"
	"github.com/gajihub/payroll-backend-go/internal/domain/user"
	"github.com/gajihub/payroll-backend-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceImpl struct {
	userRepo user.Repository
	jwt      jwt.Service
}

func NewAuthService(userRepo user.Repository, jwtService jwt.Service) auth.AuthService {
	return &AuthServiceImpl{
		userRepo: userRepo,
		jwt:      jwtService,
	}
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.LoginResponse{}, err
	}

	userData, err := a.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.LoginResponse{}, auth.ErrInvalidCredentials
		}
		return auth.LoginResponse{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(userData.PasswordHash), []byte(req.Password)); err != nil {
		return auth.LoginResponse{}, auth.ErrInvalidCredentials
	}

	tokens, err := a.issueTokens(userData)
	if err != nil {
		return auth.LoginResponse{}, err
	}

	return auth.LoginResponse{
		UserID:    userData.ID,
		CompanyID: userData.CompanyID,
		Role:      string(userData.Role),
		Tokens:    tokens,
	}, nil
}

// Refresh implements auth.AuthService. The presented refresh token is revoked
// and a fresh pair is issued, so each refresh token works exactly once.
func (a *AuthServiceImpl) Refresh(ctx context.Context, refreshToken string) (auth.TokenPair, error) {
	userID, err := a.verifyRefreshToken(refreshToken)
	if err != nil {
		return auth.TokenPair{}, err
	}

	userData, err := a.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.TokenPair{}, auth.ErrInvalidToken
		}
		return auth.TokenPair{}, fmt.Errorf("failed to get user: %w", err)
	}

	a.jwt.RevokeToken(refreshToken)

	return a.issueTokens(userData)
}

// Logout implements auth.AuthService.
func (a *AuthServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	if _, err := a.verifyRefreshToken(refreshToken); err != nil {
		return err
	}
	a.jwt.RevokeToken(refreshToken)
	return nil
}

func (a *AuthServiceImpl) issueTokens(userData user.User) (auth.TokenPair, error) {
	accessToken, accessExpiresAt, err := a.jwt.GenerateAccessToken(userData.ID, userData.Email, userData.CompanyID, userData.Role)
	if err != nil {
		return auth.TokenPair{}, fmt.Errorf("failed to create access token: %w", err)
	}

	refreshToken, refreshExpiresAt, err := a.jwt.GenerateRefreshToken(userData.ID)
	if err != nil {
		return auth.TokenPair{}, fmt.Errorf("failed to create refresh token: %w", err)
	}

	return auth.TokenPair{
		AccessToken:      accessToken,
		AccessExpiresAt:  accessExpiresAt,
		RefreshToken:     refreshToken,
		RefreshExpiresAt: refreshExpiresAt,
	}, nil
}

func (a *AuthServiceImpl) verifyRefreshToken(refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", auth.ErrInvalidToken
	}
	if a.jwt.IsTokenRevoked(refreshToken) {
		return "", auth.ErrTokenRevoked
	}

	token, err := jwtauth.VerifyToken(a.jwt.JWTAuth(), refreshToken)
	if err != nil {
		if errors.Is(err, jwtauth.ErrExpired) {
			return "", auth.ErrTokenExpired
		}
		return "", auth.ErrInvalidToken
	}

	claims, err := token.AsMap(context.Background())
	if err != nil {
		return "", auth.ErrInvalidToken
	}

	if tokenType, ok := claims["type"].(string); !ok || tokenType != "refresh" {
		return "", auth.ErrInvalidToken
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", auth.ErrInvalidToken
	}

	return userID, nil
}
