package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/iudanet/authvault/internal/crypto"
	"github.com/iudanet/authvault/internal/server/storage"
)

// passwordScope единственный scope, поддерживаемый password grant
const passwordScope = "api offline_access"

// passwordLogin выполняет password flow: проверка пароля, reconciliation
// устройства, второй фактор, уведомление о новом устройстве, выпуск токенов.
func (s *Service) passwordLogin(ctx context.Context, req *ConnectRequest, ip string) (*LoginResult, error) {
	if req.Scope != passwordScope {
		return nil, ErrScopeNotSupported
	}

	username := strings.ToLower(strings.TrimSpace(req.Username))

	user, err := s.users.GetUserByEmail(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			// IP и username только в лог, не в ответ
			s.logger.WarnContext(ctx, "login failed: user not found",
				slog.String("username", username),
				slog.String("ip", ip))
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	ok, err := crypto.VerifyPassword(req.Password, user.PasswordSalt, user.KDFIterations, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		s.logger.WarnContext(ctx, "login failed: invalid password",
			slog.String("username", username),
			slog.String("ip", ip))
		return nil, ErrInvalidCredentials
	}

	device, newDevice, err := s.resolveDevice(ctx, req, user)
	if err != nil {
		return nil, err
	}

	rememberToken, challenge, err := s.twoFactorAuth(ctx, user, req, device)
	if err != nil {
		return nil, err
	}
	if challenge != nil {
		return &LoginResult{Challenge: challenge}, nil
	}

	if s.opts.MailEnabled && newDevice {
		if err := s.mailer.SendNewDeviceLogin(ctx, user.Email, ip, device.UpdatedAt, device.Name); err != nil {
			s.logger.ErrorContext(ctx, "failed to send new device email", slog.Any("error", err))

			if s.opts.RequireDeviceEmail {
				return nil, ErrDeviceEmailRequired
			}
		}
	}

	token, err := s.issueTokens(ctx, user, device, rememberToken)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "user logged in successfully",
		slog.String("username", username),
		slog.String("ip", ip))

	return &LoginResult{Token: token}, nil
}
