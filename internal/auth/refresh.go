package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/iudanet/authvault/internal/server/storage"
)

// refreshLogin выполняет refresh flow: устройство уже известно по токену,
// второй фактор не запрашивается.
func (s *Service) refreshLogin(ctx context.Context, req *ConnectRequest) (*LoginResult, error) {
	device, err := s.devices.GetDeviceByRefreshToken(ctx, req.RefreshToken)
	if err != nil {
		if errors.Is(err, storage.ErrDeviceNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("failed to get device by refresh token: %w", err)
	}

	user, err := s.users.GetUserByID(ctx, device.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get device owner: %w", err)
	}

	token, err := s.issueTokens(ctx, user, device, "")
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "tokens refreshed successfully",
		slog.String("user_id", user.ID),
		slog.String("device_id", device.ID))

	return &LoginResult{Token: token}, nil
}
