package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iudanet/authvault/internal/models"
	"github.com/iudanet/authvault/internal/server/storage"
)

// GetUserByEmail retrieves user by email
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, email, name, password_hash, password_salt, kdf_iterations,
		       key, private_key, premium, created_at, updated_at
		FROM users
		WHERE email = ?
	`

	return s.scanUser(s.db.QueryRowContext(ctx, query, email))
}

// GetUserByID retrieves user by ID
func (s *Storage) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	query := `
		SELECT id, email, name, password_hash, password_salt, kdf_iterations,
		       key, private_key, premium, created_at, updated_at
		FROM users
		WHERE id = ?
	`

	return s.scanUser(s.db.QueryRowContext(ctx, query, userID))
}

// GetUserOrganizations retrieves organization memberships of a user
func (s *Storage) GetUserOrganizations(ctx context.Context, userID string) ([]*models.UserOrganization, error) {
	query := `
		SELECT user_id, org_id, role
		FROM org_users
		WHERE user_id = ?
		ORDER BY org_id
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query user organizations: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var orgs []*models.UserOrganization

	for rows.Next() {
		org := &models.UserOrganization{}
		if err := rows.Scan(&org.UserID, &org.OrgID, &org.Role); err != nil {
			return nil, fmt.Errorf("failed to scan user organization: %w", err)
		}
		orgs = append(orgs, org)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate user organizations: %w", err)
	}

	return orgs, nil
}

// scanUser читает одну строку users в модель
func (s *Storage) scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}

	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.PasswordHash,
		&user.PasswordSalt,
		&user.KDFIterations,
		&user.Key,
		&user.PrivateKey,
		&user.Premium,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}
