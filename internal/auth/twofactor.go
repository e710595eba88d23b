package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/iudanet/authvault/internal/crypto"
	"github.com/iudanet/authvault/internal/models"
	"github.com/iudanet/authvault/internal/server/storage"
	"github.com/iudanet/authvault/internal/twofactor"
)

// rememberTokenBytes размер remember bypass token в байтах
const rememberTokenBytes = 20

// twoFactorAuth проводит попытку через state machine второго фактора.
// Возвращает новый remember token (если применимо) либо challenge,
// требующий повторной отправки запроса с proof.
//
// Терминальные состояния: нет факторов (пропуск), challenge-pending,
// verified, ошибка. Никакие мутации storage здесь не выполняются:
// измененный device сохраняется только при выпуске токенов.
func (s *Service) twoFactorAuth(ctx context.Context, user *models.User, req *ConnectRequest, device *models.Device) (string, *TwoFactorChallenge, error) {
	twofactors, err := s.twofactors.GetTwoFactorsByUser(ctx, user.ID)
	if err != nil {
		return "", nil, fmt.Errorf("failed to get two-factor records: %w", err)
	}

	// NoFactor: второй фактор не настроен, challenge не нужен
	if len(twofactors) == 0 {
		return "", nil, nil
	}

	providers := make([]models.TwoFactorType, 0, len(twofactors))
	for _, tf := range twofactors {
		providers = append(providers, tf.Type)
	}

	// Выбранный провайдер: явно запрошенный, иначе первый
	// зарегистрированный в порядке storage
	selected := providers[0]
	if req.TwoFactorProvider != nil {
		selected = models.TwoFactorType(*req.TwoFactorProvider)
	}

	// Proof не передан: challenge-pending со всеми провайдерами
	if req.TwoFactorToken == "" {
		challenge, err := s.buildTwoFactorChallenge(ctx, user, providers)
		if err != nil {
			return "", nil, err
		}
		return "", challenge, nil
	}

	remember := 0
	if req.TwoFactorRemember != nil {
		remember = *req.TwoFactorRemember
	}

	selectedRecord := providerListed(twofactors, selected)

	verifyErr := error(nil)
	switch selected {
	case models.TwoFactorAuthenticator:
		data, err := selectedData(selectedRecord)
		if err != nil {
			return "", nil, err
		}
		verifyErr = s.verifier.ValidateTOTP(req.TwoFactorToken, data)

	case models.TwoFactorU2F:
		if selectedRecord == nil {
			return "", nil, ErrNoSuchProvider
		}
		verifyErr = s.verifier.ValidateU2F(ctx, user.ID, req.TwoFactorToken)

	case models.TwoFactorYubiKey:
		data, err := selectedData(selectedRecord)
		if err != nil {
			return "", nil, err
		}
		verifyErr = s.verifier.ValidateYubikey(req.TwoFactorToken, data)

	case models.TwoFactorDuo:
		verifyErr = s.verifier.ValidateDuo(user.Email, req.TwoFactorToken)

	case models.TwoFactorRemember:
		if s.opts.DisableTwoFactorRemember || device.TwoFactorRemember == "" ||
			!crypto.ConstantTimeEquals(device.TwoFactorRemember, req.TwoFactorToken) {
			verifyErr = twofactor.ErrInvalidCode
		} else {
			// Bypass token совпал: возвращаем обновленный token даже без
			// явного two_factor_remember в запросе, иначе remember
			// сработал бы только один раз
			remember = 1
		}

	default:
		return "", nil, ErrInvalidProvider
	}

	if verifyErr != nil {
		if errors.Is(verifyErr, twofactor.ErrInvalidCode) {
			// Неверный proof: пере-выдаем полный challenge, клиент может
			// повторить с другим провайдером
			challenge, err := s.buildTwoFactorChallenge(ctx, user, providers)
			if err != nil {
				return "", nil, err
			}
			return "", challenge, nil
		}
		if errors.Is(verifyErr, storage.ErrTwoFactorNotFound) {
			return "", nil, ErrNoSuchProvider
		}
		return "", nil, fmt.Errorf("failed to verify second factor: %w", verifyErr)
	}

	// Issued: обновляем или очищаем bypass token на устройстве
	if !s.opts.DisableTwoFactorRemember && remember == 1 {
		token, err := crypto.GenerateToken(rememberTokenBytes)
		if err != nil {
			return "", nil, fmt.Errorf("failed to generate remember token: %w", err)
		}
		device.TwoFactorRemember = token
		return token, nil, nil
	}

	device.TwoFactorRemember = ""
	return "", nil, nil
}

// selectedData возвращает provider-specific данные выбранной записи.
// Отсутствие записи (в т.ч. после фильтрации) — та же терминальная ошибка,
// что и явно невалидный id провайдера без записи.
func selectedData(tf *models.TwoFactor) (string, error) {
	if tf == nil {
		return "", ErrNoSuchProvider
	}
	return tf.Data, nil
}

// buildTwoFactorChallenge строит challenge payload для каждого
// зарегистрированного провайдера. Список всегда полный, независимо от
// выбранного провайдера.
func (s *Service) buildTwoFactorChallenge(ctx context.Context, user *models.User, providers []models.TwoFactorType) (*TwoFactorChallenge, error) {
	payloads := make(map[string]map[string]any, len(providers))

	for _, provider := range providers {
		key := strconv.Itoa(int(provider))
		payloads[key] = map[string]any{}

		switch provider {
		case models.TwoFactorAuthenticator:
			// TOTP не требует payload: клиент знает, что спросить

		case models.TwoFactorU2F:
			// Без настроенного публичного адреса challenge nonce не имеет
			// смысла: payload опускается
			if !s.opts.DomainSet {
				continue
			}
			request, err := s.verifier.U2FSignChallenge(ctx, user.ID)
			if err != nil {
				return nil, fmt.Errorf("failed to build u2f challenge: %w", err)
			}

			challenges := make([]map[string]any, 0, len(request.RegisteredKeys))
			for _, reg := range request.RegisteredKeys {
				challenges = append(challenges, map[string]any{
					"appId":     request.AppID,
					"challenge": request.Challenge,
					"version":   reg.Version,
					"keyHandle": reg.KeyHandle,
				})
			}

			encoded, err := json.Marshal(challenges)
			if err != nil {
				return nil, fmt.Errorf("failed to encode u2f challenges: %w", err)
			}
			payloads[key] = map[string]any{"Challenges": string(encoded)}

		case models.TwoFactorDuo:
			host, signature, err := s.verifier.DuoSignRequest(user.Email)
			if err != nil {
				return nil, fmt.Errorf("failed to build duo signature: %w", err)
			}
			payloads[key] = map[string]any{
				"Host":      host,
				"Signature": signature,
			}

		case models.TwoFactorYubiKey:
			record, err := s.twofactors.GetTwoFactorByUserAndType(ctx, user.ID, models.TwoFactorYubiKey)
			if err != nil {
				if errors.Is(err, storage.ErrTwoFactorNotFound) {
					return nil, ErrNoSuchProvider
				}
				return nil, fmt.Errorf("failed to get yubikey record: %w", err)
			}
			meta, err := twofactor.ParseYubikeyMetadata(record.Data)
			if err != nil {
				return nil, err
			}
			payloads[key] = map[string]any{"Nfc": meta.Nfc}
		}
	}

	return &TwoFactorChallenge{
		Providers: providers,
		Payloads:  payloads,
	}, nil
}
