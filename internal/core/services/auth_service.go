package services

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/heartchain_backend/internal/apperrors"
	portssvc "github.com/SscSPs/heartchain_backend/internal/core/ports/services"
	"github.com/SscSPs/heartchain_backend/internal/platform/config"
	"github.com/SscSPs/heartchain_backend/internal/utils"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// authService issues admin access tokens.
type authService struct {
	BaseService
	cfg *config.Config
	now func() time.Time
}

// NewAuthService creates a new instance of authService.
func NewAuthService(cfg *config.Config) portssvc.AuthSvc {
	return &authService{cfg: cfg, now: time.Now}
}

func (s *authService) Login(ctx context.Context, username, password string) (string, time.Time, error) {
	if s.cfg.AdminPasswordHash == "" {
		s.LogWarn(ctx, "Admin login attempted but no admin password hash is configured")
		return "", time.Time{}, fmt.Errorf("%w: admin login disabled", apperrors.ErrUnauthorized)
	}

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.cfg.AdminUsername)) == 1
	passOK := utils.AdminPasswordMatches(password, s.cfg.AdminPasswordHash)
	if !userOK || !passOK {
		s.LogWarn(ctx, "Admin login failed", slog.String("username", username))
		return "", time.Time{}, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
	}

	return s.generateAccessToken(username)
}

// generateAccessToken creates a new JWT access token for subject.
func (s *authService) generateAccessToken(subject string) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.cfg.JWTExpiryDuration)

	claims := jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    s.cfg.JWTIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		ID:        uuid.NewString(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign access token: %w", err)
	}
	return token, expiresAt, nil
}
