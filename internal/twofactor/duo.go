package twofactor

import (
	"crypto/hmac"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// Duo web SDK v2 подписывает запрос парой токенов TX (signed с skey)
// и APP (signed с application key). Клиент возвращает sig_response
// AUTH|...:APP|..., обе части проверяются по отдельности.
const (
	duoPrefixTX   = "TX"
	duoPrefixAPP  = "APP"
	duoPrefixAuth = "AUTH"

	duoRequestTTL = 5 * time.Minute
	duoAppTTL     = time.Hour
)

// DuoSignRequest строит host + signature пару для push-based провайдера.
// Подпись вычисляется для адреса (email) пользователя.
func (s *Service) DuoSignRequest(email string) (host, signature string, err error) {
	if s.cfg.DuoHost == "" || s.cfg.DuoIKey == "" || s.cfg.DuoSKey == "" {
		return "", "", ErrProviderNotConfigured
	}

	now := time.Now()
	txPart, err := s.duoSignPart(duoPrefixTX, email, s.cfg.DuoSKey, now.Add(duoRequestTTL))
	if err != nil {
		return "", "", err
	}
	appPart, err := s.duoSignPart(duoPrefixAPP, email, s.duoAppKey(), now.Add(duoAppTTL))
	if err != nil {
		return "", "", err
	}

	return s.cfg.DuoHost, txPart + ":" + appPart, nil
}

// ValidateDuo проверяет sig_response клиента: AUTH часть подписана skey,
// APP часть — application key, обе должны относиться к тому же email.
func (s *Service) ValidateDuo(email, response string) error {
	parts := strings.Split(response, ":")
	if len(parts) != 2 {
		return ErrInvalidCode
	}

	authUser, err := s.duoVerifyPart(duoPrefixAuth, parts[0], s.cfg.DuoSKey)
	if err != nil {
		return ErrInvalidCode
	}
	appUser, err := s.duoVerifyPart(duoPrefixAPP, parts[1], s.duoAppKey())
	if err != nil {
		return ErrInvalidCode
	}

	if authUser == "" || authUser != appUser || authUser != email {
		return ErrInvalidCode
	}

	return nil
}

// duoSignPart формирует prefix|base64(user|ikey|expiry)|hmac
func (s *Service) duoSignPart(prefix, email, key string, expiry time.Time) (string, error) {
	if email == "" {
		return "", fmt.Errorf("duo: empty user")
	}

	payload := fmt.Sprintf("%s|%s|%d", email, s.cfg.DuoIKey, expiry.Unix())
	b64 := base64.StdEncoding.EncodeToString([]byte(payload))
	cookie := prefix + "|" + b64

	return cookie + "|" + duoHMAC(key, cookie), nil
}

// duoVerifyPart проверяет подпись и срок части sig_response, возвращает user
func (s *Service) duoVerifyPart(prefix, part, key string) (string, error) {
	fields := strings.Split(part, "|")
	if len(fields) != 3 || fields[0] != prefix {
		return "", fmt.Errorf("duo: malformed part")
	}

	cookie := fields[0] + "|" + fields[1]
	if !hmac.Equal([]byte(duoHMAC(key, cookie)), []byte(fields[2])) {
		return "", fmt.Errorf("duo: bad signature")
	}

	raw, err := base64.StdEncoding.DecodeString(fields[1])
	if err != nil {
		return "", fmt.Errorf("duo: bad payload encoding: %w", err)
	}

	vals := strings.Split(string(raw), "|")
	if len(vals) != 3 || vals[1] != s.cfg.DuoIKey {
		return "", fmt.Errorf("duo: payload mismatch")
	}

	var expiry int64
	if _, err := fmt.Sscanf(vals[2], "%d", &expiry); err != nil || time.Now().Unix() >= expiry {
		return "", fmt.Errorf("duo: expired")
	}

	return vals[0], nil
}

// duoAppKey выводит application key из skey: отдельный ключ для APP части,
// детерминированный для данной инсталляции
func (s *Service) duoAppKey() string {
	sum := sha256.Sum256([]byte("authvault-duo-app|" + s.cfg.DuoSKey))
	return hex.EncodeToString(sum[:])
}

// duoHMAC вычисляет hex HMAC-SHA1 (формат Duo web SDK)
func duoHMAC(key, data string) string {
	mac := hmac.New(sha1.New, []byte(key))
	_, _ = mac.Write([]byte(data))
	return hex.EncodeToString(mac.Sum(nil))
}
