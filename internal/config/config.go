// Package config загружает конфигурацию сервера из переменных окружения.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config содержит всю конфигурацию сервера.
// Флаги, влияющие на логику выдачи токенов (Domain, DisableTwoFactorRemember,
// MailEnabled, RequireDeviceEmail), передаются в auth.Service явно,
// без чтения глобального состояния.
type Config struct {
	// HTTP server
	ListenAddr string `env:"AUTHVAULT_ADDR" envDefault:":8080"`

	// Storage
	DatabasePath string `env:"AUTHVAULT_DB_PATH" envDefault:"authvault.db"`

	// Tokens
	JWTSecret      string        `env:"AUTHVAULT_JWT_SECRET"`
	AccessTokenTTL time.Duration `env:"AUTHVAULT_ACCESS_TOKEN_TTL" envDefault:"2h"`

	// Публичный адрес сервера (endpoint identity). Нужен для U2F challenge:
	// если не задан, U2F payload в challenge response опускается.
	Domain string `env:"AUTHVAULT_DOMAIN"`

	// Two-factor
	DisableTwoFactorRemember bool `env:"AUTHVAULT_DISABLE_2FA_REMEMBER" envDefault:"false"`

	// Duo (push-based provider)
	DuoHost string `env:"AUTHVAULT_DUO_HOST"`
	DuoIKey string `env:"AUTHVAULT_DUO_IKEY"`
	DuoSKey string `env:"AUTHVAULT_DUO_SKEY"`

	// Mail
	MailEnabled        bool   `env:"AUTHVAULT_MAIL_ENABLED" envDefault:"false"`
	RequireDeviceEmail bool   `env:"AUTHVAULT_REQUIRE_DEVICE_EMAIL" envDefault:"false"`
	SMTPAddr           string `env:"AUTHVAULT_SMTP_ADDR"`
	SMTPFrom           string `env:"AUTHVAULT_SMTP_FROM"`

	// Rate limiting для token endpoint
	RateLimit       int           `env:"AUTHVAULT_RATE_LIMIT" envDefault:"30"`
	RateLimitWindow time.Duration `env:"AUTHVAULT_RATE_LIMIT_WINDOW" envDefault:"1m"`
}

// Load читает конфигурацию из окружения и валидирует обязательные поля
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate проверяет согласованность конфигурации
func (c *Config) Validate() error {
	if len(c.JWTSecret) < 32 {
		return fmt.Errorf("AUTHVAULT_JWT_SECRET must be at least 32 bytes")
	}
	if c.AccessTokenTTL <= 0 {
		return fmt.Errorf("AUTHVAULT_ACCESS_TOKEN_TTL must be positive")
	}
	if c.MailEnabled && c.SMTPAddr == "" {
		return fmt.Errorf("AUTHVAULT_SMTP_ADDR is required when mail is enabled")
	}
	return nil
}

// DuoConfigured сообщает, настроен ли Duo провайдер
func (c *Config) DuoConfigured() bool {
	return c.DuoHost != "" && c.DuoIKey != "" && c.DuoSKey != ""
}

// DomainSet сообщает, задан ли публичный адрес сервера
func (c *Config) DomainSet() bool {
	return c.Domain != ""
}
