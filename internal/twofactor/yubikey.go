package twofactor

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Yubico OTP: 44 символа modhex, первые 12 — публичный ID ключа
const (
	yubikeyOTPLen      = 44
	yubikeyPublicIDLen = 12
	modhexAlphabet     = "cbdefghijklnrtuv"
)

// YubikeyMetadata представляет provider-specific данные записи YubiKey
type YubikeyMetadata struct {
	Keys []string `json:"Keys"` // публичные ID зарегистрированных ключей
	Nfc  bool     `json:"Nfc"`  // поддержка NFC transport
}

// ParseYubikeyMetadata декодирует data blob записи YubiKey провайдера
func ParseYubikeyMetadata(data string) (*YubikeyMetadata, error) {
	var meta YubikeyMetadata
	if err := json.Unmarshal([]byte(data), &meta); err != nil {
		return nil, fmt.Errorf("failed to decode yubikey metadata: %w", err)
	}
	return &meta, nil
}

// ValidateYubikey проверяет формат OTP и принадлежность публичного ID
// одному из зарегистрированных ключей пользователя. Онлайн-валидация OTP
// против YubiCloud — зона внешнего верификатора.
func (s *Service) ValidateYubikey(code, data string) error {
	otp := strings.TrimSpace(code)
	if len(otp) != yubikeyOTPLen || !isModhex(otp) {
		return ErrInvalidCode
	}

	meta, err := ParseYubikeyMetadata(data)
	if err != nil {
		return err
	}

	publicID := otp[:yubikeyPublicIDLen]
	for _, key := range meta.Keys {
		if key == publicID {
			return nil
		}
	}

	return ErrInvalidCode
}

func isModhex(s string) bool {
	for _, r := range s {
		if !strings.ContainsRune(modhexAlphabet, r) {
			return false
		}
	}
	return true
}
