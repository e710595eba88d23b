// Package auth реализует ядро выдачи credentials: диспетчеризацию grant,
// reconciliation устройств, state machine второго фактора и выпуск токенов.
package auth

import (
	"context"
	"log/slog"

	"github.com/iudanet/authvault/internal/mail"
	"github.com/iudanet/authvault/internal/models"
	"github.com/iudanet/authvault/internal/server/jwt"
	"github.com/iudanet/authvault/internal/server/storage"
	"github.com/iudanet/authvault/internal/twofactor"
)

// SecondFactorVerifier defines interface for per-provider proof validation.
// Конкретные алгоритмы проверки — внешний collaborator.
type SecondFactorVerifier interface {
	// ValidateTOTP проверяет time-based код против данных записи провайдера
	ValidateTOTP(code, data string) error

	// ValidateU2F проверяет ответ challenge-response ключа
	ValidateU2F(ctx context.Context, userID, response string) error

	// ValidateYubikey проверяет hardware OTP против данных записи
	ValidateYubikey(code, data string) error

	// ValidateDuo проверяет push-based подпись для адреса пользователя
	ValidateDuo(email, response string) error

	// U2FSignChallenge строит challenge для зарегистрированных ключей
	U2FSignChallenge(ctx context.Context, userID string) (*twofactor.U2FSignRequest, error)

	// DuoSignRequest строит host+signature пару для адреса пользователя
	DuoSignRequest(email string) (host, signature string, err error)
}

// Options конфигурационные флаги ядра. Передаются явно,
// глобального состояния нет.
type Options struct {
	// DomainSet задан ли публичный адрес сервера (нужен для U2F challenge)
	DomainSet bool

	// DisableTwoFactorRemember выключает remembered-device bypass
	DisableTwoFactorRemember bool

	// MailEnabled включает уведомления о новом устройстве
	MailEnabled bool

	// RequireDeviceEmail делает ошибку доставки уведомления фатальной
	RequireDeviceEmail bool
}

// Service ядро выдачи credentials. Каждая попытка аутентификации —
// независимая stateless единица работы поверх общего storage.
type Service struct {
	logger     *slog.Logger
	users      storage.UserStorage
	devices    storage.DeviceStorage
	twofactors storage.TwoFactorStorage
	tokens     *jwt.Service
	verifier   SecondFactorVerifier
	mailer     mail.Mailer
	opts       Options
}

// NewService создает ядро аутентификации
func NewService(
	logger *slog.Logger,
	users storage.UserStorage,
	devices storage.DeviceStorage,
	twofactors storage.TwoFactorStorage,
	tokens *jwt.Service,
	verifier SecondFactorVerifier,
	mailer mail.Mailer,
	opts Options,
) *Service {
	return &Service{
		logger:     logger,
		users:      users,
		devices:    devices,
		twofactors: twofactors,
		tokens:     tokens,
		verifier:   verifier,
		mailer:     mailer,
		opts:       opts,
	}
}

// Login обрабатывает одну попытку аутентификации: валидирует обязательные
// поля выбранного grant type и направляет в password или refresh flow.
// Валидация не делает обращений к storage.
func (s *Service) Login(ctx context.Context, req *ConnectRequest, ip string) (*LoginResult, error) {
	switch req.GrantType {
	case GrantTypeRefreshToken:
		if err := req.validateRefreshGrant(); err != nil {
			return nil, err
		}
		return s.refreshLogin(ctx, req)

	case GrantTypePassword:
		if err := req.validatePasswordGrant(); err != nil {
			return nil, err
		}
		return s.passwordLogin(ctx, req, ip)

	default:
		return nil, &UnsupportedGrantTypeError{GrantType: req.GrantType}
	}
}

// providerListed сообщает, есть ли тип провайдера среди зарегистрированных
func providerListed(twofactors []*models.TwoFactor, atype models.TwoFactorType) *models.TwoFactor {
	for _, tf := range twofactors {
		if tf.Type == atype {
			return tf
		}
	}
	return nil
}
