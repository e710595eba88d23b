package twofactor

import (
	"errors"
	"log/slog"

	"github.com/iudanet/authvault/internal/server/storage"
)

// Ошибки проверки второго фактора
var (
	// ErrInvalidCode indicates that the submitted proof did not verify
	ErrInvalidCode = errors.New("invalid two-factor code")

	// ErrProviderNotConfigured indicates that the provider needs server-side
	// configuration that is missing (e.g. Duo keys)
	ErrProviderNotConfigured = errors.New("two-factor provider is not configured")
)

// Config содержит серверную конфигурацию провайдеров
type Config struct {
	// Domain публичный адрес сервера; без него U2F challenge не имеет смысла
	Domain string

	// Duo application keys
	DuoHost string
	DuoIKey string
	DuoSKey string
}

// Service реализует проверку второго фактора по provider-specific данным
// из storage. Каждый вызов ограничен и возвращает явную ошибку; retry
// политика остается за вызывающим.
type Service struct {
	logger *slog.Logger
	store  storage.TwoFactorStorage
	cfg    Config
}

// NewService создает новый сервис проверки второго фактора
func NewService(logger *slog.Logger, store storage.TwoFactorStorage, cfg Config) *Service {
	return &Service{
		logger: logger,
		store:  store,
		cfg:    cfg,
	}
}
