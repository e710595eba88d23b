// Package mail отправляет уведомления пользователям.
package mail

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"time"
)

// Mailer defines interface for outbound notifications.
// Доставка — ограниченный fallible вызов: ошибка возвращается явно,
// retry политика остается за вызывающим.
type Mailer interface {
	// SendNewDeviceLogin уведомляет пользователя о входе с нового устройства
	SendNewDeviceLogin(ctx context.Context, email, ip string, at time.Time, deviceName string) error
}

// SMTPMailer отправляет письма через SMTP relay
type SMTPMailer struct {
	logger *slog.Logger
	addr   string // host:port
	from   string
}

// NewSMTPMailer создает SMTP mailer
func NewSMTPMailer(logger *slog.Logger, addr, from string) *SMTPMailer {
	return &SMTPMailer{
		logger: logger,
		addr:   addr,
		from:   from,
	}
}

// SendNewDeviceLogin отправляет уведомление о входе с нового устройства
func (m *SMTPMailer) SendNewDeviceLogin(ctx context.Context, email, ip string, at time.Time, deviceName string) error {
	subject := "New device logged in to your account"
	body := fmt.Sprintf(
		"A new device logged in to your account.\r\n\r\nDate: %s\r\nIP address: %s\r\nDevice: %s\r\n\r\nIf this was not you, change your master password immediately.\r\n",
		at.Format(time.RFC1123), ip, deviceName,
	)

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s", m.from, email, subject, body)

	if err := smtp.SendMail(m.addr, nil, m.from, []string{email}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send new device email: %w", err)
	}

	m.logger.InfoContext(ctx, "new device email sent", slog.String("device", deviceName))

	return nil
}

// NoopMailer используется когда почта выключена конфигурацией
type NoopMailer struct{}

// SendNewDeviceLogin ничего не отправляет
func (NoopMailer) SendNewDeviceLogin(context.Context, string, string, time.Time, string) error {
	return nil
}
