package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/authvault/internal/models"
	"github.com/iudanet/authvault/internal/server/storage"
)

func TestDeviceStorage_SaveAndGet(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	user := insertTestUser(t, ctx, s)

	device := models.NewDevice(uuid.New().String(), user.ID, "firefox", models.DeviceTypeFirefoxExt)
	device.RefreshToken = "refresh-1"
	device.TwoFactorRemember = "remember-1"

	require.NoError(t, s.SaveDevice(ctx, device))

	got, err := s.GetDeviceByID(ctx, device.ID)
	require.NoError(t, err)

	assert.Equal(t, device.ID, got.ID)
	assert.Equal(t, user.ID, got.UserID)
	assert.Equal(t, "firefox", got.Name)
	assert.Equal(t, models.DeviceTypeFirefoxExt, got.Type)
	assert.Equal(t, "refresh-1", got.RefreshToken)
	assert.Equal(t, "remember-1", got.TwoFactorRemember)
}

func TestDeviceStorage_GetByID_NotFound(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	_, err := s.GetDeviceByID(ctx, "no-such-device")
	assert.ErrorIs(t, err, storage.ErrDeviceNotFound)
}

func TestDeviceStorage_GetByRefreshToken(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	user := insertTestUser(t, ctx, s)

	device := models.NewDevice(uuid.New().String(), user.ID, "firefox", models.DeviceTypeFirefoxExt)
	device.RefreshToken = "refresh-token-abc"
	require.NoError(t, s.SaveDevice(ctx, device))

	got, err := s.GetDeviceByRefreshToken(ctx, "refresh-token-abc")
	require.NoError(t, err)
	assert.Equal(t, device.ID, got.ID)

	_, err = s.GetDeviceByRefreshToken(ctx, "unknown-token")
	assert.ErrorIs(t, err, storage.ErrDeviceNotFound)
}

func TestDeviceStorage_SaveReplacesExisting(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	owner := insertTestUser(t, ctx, s)
	other := insertTestUser(t, ctx, s)

	deviceID := uuid.New().String()
	original := models.NewDevice(deviceID, owner.ID, "old name", models.DeviceTypeAndroid)
	original.RefreshToken = "old-token"
	original.TwoFactorRemember = "old-remember"
	require.NoError(t, s.SaveDevice(ctx, original))

	// Пере-создание с тем же id замещает запись целиком
	rebound := models.NewDevice(deviceID, other.ID, "new name", models.DeviceTypeWeb)
	rebound.RefreshToken = "new-token"
	require.NoError(t, s.SaveDevice(ctx, rebound))

	got, err := s.GetDeviceByID(ctx, deviceID)
	require.NoError(t, err)

	assert.Equal(t, other.ID, got.UserID)
	assert.Equal(t, "new name", got.Name)
	assert.Equal(t, models.DeviceTypeWeb, got.Type)
	assert.Equal(t, "new-token", got.RefreshToken)
	assert.Empty(t, got.TwoFactorRemember)

	// Старый refresh token больше ничего не находит
	_, err = s.GetDeviceByRefreshToken(ctx, "old-token")
	assert.ErrorIs(t, err, storage.ErrDeviceNotFound)
}

func TestDeviceStorage_RefreshTokenRotation(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	user := insertTestUser(t, ctx, s)

	device := models.NewDevice(uuid.New().String(), user.ID, "firefox", models.DeviceTypeFirefoxExt)
	device.RefreshToken = "first"
	require.NoError(t, s.SaveDevice(ctx, device))

	device.RefreshToken = "second"
	device.UpdatedAt = time.Now()
	require.NoError(t, s.SaveDevice(ctx, device))

	_, err := s.GetDeviceByRefreshToken(ctx, "first")
	assert.ErrorIs(t, err, storage.ErrDeviceNotFound)

	got, err := s.GetDeviceByRefreshToken(ctx, "second")
	require.NoError(t, err)
	assert.Equal(t, device.ID, got.ID)
}
