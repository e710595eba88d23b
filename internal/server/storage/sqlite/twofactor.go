package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iudanet/authvault/internal/models"
	"github.com/iudanet/authvault/internal/server/storage"
)

// GetTwoFactorsByUser retrieves all two-factor records of a user in storage order
func (s *Storage) GetTwoFactorsByUser(ctx context.Context, userID string) ([]*models.TwoFactor, error) {
	query := `
		SELECT user_id, type, data, created_at
		FROM two_factors
		WHERE user_id = ?
		ORDER BY created_at, type
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query two-factor records: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var twofactors []*models.TwoFactor

	for rows.Next() {
		tf := &models.TwoFactor{}
		if err := rows.Scan(&tf.UserID, &tf.Type, &tf.Data, &tf.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan two-factor record: %w", err)
		}
		twofactors = append(twofactors, tf)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate two-factor records: %w", err)
	}

	return twofactors, nil
}

// GetTwoFactorByUserAndType retrieves the record of a given provider type
func (s *Storage) GetTwoFactorByUserAndType(ctx context.Context, userID string, atype models.TwoFactorType) (*models.TwoFactor, error) {
	query := `
		SELECT user_id, type, data, created_at
		FROM two_factors
		WHERE user_id = ? AND type = ?
	`

	tf := &models.TwoFactor{}

	err := s.db.QueryRowContext(ctx, query, userID, atype).Scan(
		&tf.UserID,
		&tf.Type,
		&tf.Data,
		&tf.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrTwoFactorNotFound
		}
		return nil, fmt.Errorf("failed to get two-factor record: %w", err)
	}

	return tf, nil
}
