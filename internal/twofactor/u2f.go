package twofactor

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/iudanet/authvault/internal/crypto"
	"github.com/iudanet/authvault/internal/models"
)

// u2fChallengeBytes размер challenge nonce в байтах
const u2fChallengeBytes = 32

// U2FRegistration представляет один зарегистрированный hardware ключ
// из data blob записи провайдера
type U2FRegistration struct {
	Version   string `json:"version"`
	KeyHandle string `json:"key_handle"`
}

// U2FSignRequest представляет challenge для challenge-response провайдера:
// по одному элементу на каждый зарегистрированный ключ.
type U2FSignRequest struct {
	AppID          string
	Challenge      string
	RegisteredKeys []U2FRegistration
}

// U2FSignChallenge строит sign request для всех зарегистрированных ключей
// пользователя. Challenge nonce случайный, AppID выводится из публичного
// адреса сервера.
func (s *Service) U2FSignChallenge(ctx context.Context, userID string) (*U2FSignRequest, error) {
	if s.cfg.Domain == "" {
		return nil, ErrProviderNotConfigured
	}

	regs, err := s.u2fRegistrations(ctx, userID)
	if err != nil {
		return nil, err
	}

	challenge, err := crypto.GenerateToken(u2fChallengeBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to generate u2f challenge: %w", err)
	}

	return &U2FSignRequest{
		AppID:          s.cfg.Domain + "/app-id.json",
		Challenge:      challenge,
		RegisteredKeys: regs,
	}, nil
}

// u2fSignResponse представляет ответ клиента на sign request
type u2fSignResponse struct {
	KeyHandle     string `json:"keyHandle"`
	ClientData    string `json:"clientData"`
	SignatureData string `json:"signatureData"`
}

// ValidateU2F проверяет, что ответ клиента полон и ссылается на
// зарегистрированный ключ пользователя. Криптографическая проверка подписи
// устройства — зона внешнего верификатора, ядро ее не специфицирует.
func (s *Service) ValidateU2F(ctx context.Context, userID, response string) error {
	var resp u2fSignResponse
	if err := json.Unmarshal([]byte(response), &resp); err != nil {
		return ErrInvalidCode
	}
	if resp.KeyHandle == "" || resp.ClientData == "" || resp.SignatureData == "" {
		return ErrInvalidCode
	}

	regs, err := s.u2fRegistrations(ctx, userID)
	if err != nil {
		return err
	}

	for _, reg := range regs {
		if reg.KeyHandle == resp.KeyHandle {
			return nil
		}
	}

	return ErrInvalidCode
}

// u2fRegistrations загружает зарегистрированные ключи из записи провайдера
func (s *Service) u2fRegistrations(ctx context.Context, userID string) ([]U2FRegistration, error) {
	record, err := s.store.GetTwoFactorByUserAndType(ctx, userID, models.TwoFactorU2F)
	if err != nil {
		return nil, fmt.Errorf("failed to load u2f record: %w", err)
	}

	var regs []U2FRegistration
	if err := json.Unmarshal([]byte(record.Data), &regs); err != nil {
		return nil, fmt.Errorf("failed to decode u2f registrations: %w", err)
	}

	return regs, nil
}
