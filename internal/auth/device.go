package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/iudanet/authvault/internal/models"
	"github.com/iudanet/authvault/internal/server/storage"
)

// resolveDevice находит или создает устройство для попытки аутентификации.
// device_identifier приходит от клиента и не доверен для непрерывности
// владения: если найденное устройство принадлежит другому пользователю,
// его identity отбрасывается и создается новая запись для текущего
// пользователя. Владение никогда не переносится молча.
func (s *Service) resolveDevice(ctx context.Context, req *ConnectRequest, user *models.User) (*models.Device, bool, error) {
	deviceType := models.ParseDeviceType(req.DeviceType)

	device, err := s.devices.GetDeviceByID(ctx, req.DeviceIdentifier)
	if err != nil {
		if errors.Is(err, storage.ErrDeviceNotFound) {
			return models.NewDevice(req.DeviceIdentifier, user.ID, req.DeviceName, deviceType), true, nil
		}
		return nil, false, fmt.Errorf("failed to get device: %w", err)
	}

	if device.UserID != user.ID {
		s.logger.InfoContext(ctx, "device exists but is owned by another user, discarding old record",
			slog.String("device_id", req.DeviceIdentifier))
		return models.NewDevice(req.DeviceIdentifier, user.ID, req.DeviceName, deviceType), true, nil
	}

	return device, false, nil
}
