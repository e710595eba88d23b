package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iudanet/authvault/internal/models"
	"github.com/iudanet/authvault/internal/server/storage"
)

// GetDeviceByID retrieves device by client-supplied identifier
func (s *Storage) GetDeviceByID(ctx context.Context, deviceID string) (*models.Device, error) {
	query := `
		SELECT id, user_id, name, type, refresh_token, two_factor_remember, created_at, updated_at
		FROM devices
		WHERE id = ?
	`

	return s.scanDevice(s.db.QueryRowContext(ctx, query, deviceID))
}

// GetDeviceByRefreshToken retrieves device holding the given refresh token
func (s *Storage) GetDeviceByRefreshToken(ctx context.Context, refreshToken string) (*models.Device, error) {
	query := `
		SELECT id, user_id, name, type, refresh_token, two_factor_remember, created_at, updated_at
		FROM devices
		WHERE refresh_token = ?
	`

	return s.scanDevice(s.db.QueryRowContext(ctx, query, refreshToken))
}

// SaveDevice inserts or replaces the device record.
// INSERT OR REPLACE по первичному ключу: при пере-создании устройства
// (смена владельца) старая запись с этим id замещается целиком.
func (s *Storage) SaveDevice(ctx context.Context, device *models.Device) error {
	query := `
		INSERT OR REPLACE INTO devices
			(id, user_id, name, type, refresh_token, two_factor_remember, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		device.ID,
		device.UserID,
		device.Name,
		device.Type,
		device.RefreshToken,
		device.TwoFactorRemember,
		device.CreatedAt,
		device.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to save device: %w", err)
	}

	return nil
}

// scanDevice читает одну строку devices в модель
func (s *Storage) scanDevice(row *sql.Row) (*models.Device, error) {
	device := &models.Device{}

	err := row.Scan(
		&device.ID,
		&device.UserID,
		&device.Name,
		&device.Type,
		&device.RefreshToken,
		&device.TwoFactorRemember,
		&device.CreatedAt,
		&device.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrDeviceNotFound
		}
		return nil, fmt.Errorf("failed to get device: %w", err)
	}

	return device, nil
}
