package storage

import (
	"context"

	"github.com/iudanet/authvault/internal/models"
)

// DeviceStorage defines interface for device persistence.
// Реализация обязана сериализовать записи по одному device id:
// последняя запись побеждает, частичных состояний не бывает.
type DeviceStorage interface {
	// GetDeviceByID retrieves device by client-supplied identifier
	// Returns ErrDeviceNotFound if device doesn't exist
	GetDeviceByID(ctx context.Context, deviceID string) (*models.Device, error)

	// GetDeviceByRefreshToken retrieves device holding the given refresh token
	// Returns ErrDeviceNotFound if no device holds this token
	GetDeviceByRefreshToken(ctx context.Context, refreshToken string) (*models.Device, error)

	// SaveDevice inserts or replaces the device record
	SaveDevice(ctx context.Context, device *models.Device) error
}
