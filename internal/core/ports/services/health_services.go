package services

import (
	"context"

	"github.com/SscSPs/heartchain_backend/internal/core/domain"
)

// HealthSvc reports the state of external collaborators.
type HealthSvc interface {
	Detailed(ctx context.Context) domain.HealthReport
}
