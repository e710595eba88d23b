package storage

import (
	"context"

	"github.com/iudanet/authvault/internal/models"
)

// UserStorage defines interface for user data persistence
type UserStorage interface {
	// GetUserByEmail retrieves user by email (login username)
	// Returns ErrUserNotFound if user doesn't exist
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves user by ID
	// Returns ErrUserNotFound if user doesn't exist
	GetUserByID(ctx context.Context, userID string) (*models.User, error)

	// GetUserOrganizations retrieves all organization memberships of a user
	// Returns empty slice if user belongs to no organizations
	GetUserOrganizations(ctx context.Context, userID string) ([]*models.UserOrganization, error)
}
