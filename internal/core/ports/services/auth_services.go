package services

import (
	"context"
	"time"
)

// AuthSvc authenticates the platform administrator.
type AuthSvc interface {
	// Login returns a signed access token or apperrors.ErrUnauthorized.
	Login(ctx context.Context, username, password string) (string, time.Time, error)
}
