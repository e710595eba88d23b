package storage

import (
	"context"

	"github.com/iudanet/authvault/internal/models"
)

// TwoFactorStorage defines interface for two-factor record persistence
type TwoFactorStorage interface {
	// GetTwoFactorsByUser retrieves all two-factor records of a user
	// in storage order. Returns empty slice if user has none.
	GetTwoFactorsByUser(ctx context.Context, userID string) ([]*models.TwoFactor, error)

	// GetTwoFactorByUserAndType retrieves the record of a given provider type
	// Returns ErrTwoFactorNotFound if user has no record of this type
	GetTwoFactorByUserAndType(ctx context.Context, userID string, atype models.TwoFactorType) (*models.TwoFactor, error)
}
