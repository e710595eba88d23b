package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/iudanet/authvault/internal/crypto"
	"github.com/iudanet/authvault/internal/models"
)

// refreshTokenBytes размер refresh token в байтах
const refreshTokenBytes = 32

// issueTokens выпускает access token, ротирует refresh token устройства и
// сохраняет устройство. Ошибка сохранения фатальна для попытки: частичной
// выдачи не бывает. Мутация storage происходит только здесь, после того
// как вся верификация завершена.
func (s *Service) issueTokens(ctx context.Context, user *models.User, device *models.Device, rememberToken string) (*TokenResult, error) {
	orgs, err := s.users.GetUserOrganizations(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user organizations: %w", err)
	}

	accessToken, expiresIn, err := s.tokens.GenerateAccessToken(user, device, orgs)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := crypto.GenerateToken(refreshTokenBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	device.RefreshToken = refreshToken
	device.UpdatedAt = time.Now()

	if err := s.devices.SaveDevice(ctx, device); err != nil {
		return nil, fmt.Errorf("failed to save device: %w", err)
	}

	return &TokenResult{
		AccessToken:    accessToken,
		ExpiresIn:      expiresIn,
		RefreshToken:   refreshToken,
		Key:            user.Key,
		PrivateKey:     user.PrivateKey,
		TwoFactorToken: rememberToken,
	}, nil
}
