// Package twofactor реализует проверку второго фактора и построение
// challenge данных для каждого провайдера.
package twofactor

import (
	"crypto/hmac"
	"crypto/sha1"
	"crypto/subtle"
	"encoding/base32"
	"encoding/binary"
	"fmt"
	"strings"
	"time"
)

const (
	totpDigits = 6
	totpPeriod = 30
	// totpSkew допустимое отклонение в шагах: принимаем код из
	// предыдущего и следующего временного окна
	totpSkew = 1
)

// ValidateTOTP проверяет time-based код против секрета из записи провайдера.
// data — base32 encoded секрет (NoPadding или со стандартным padding).
func (s *Service) ValidateTOTP(code, data string) error {
	secret, err := decodeTOTPSecret(data)
	if err != nil {
		return fmt.Errorf("failed to decode totp secret: %w", err)
	}

	trimmed := strings.TrimSpace(code)
	if len(trimmed) != totpDigits || !isNumeric(trimmed) {
		return ErrInvalidCode
	}

	baseCounter := time.Now().Unix() / totpPeriod
	for step := int64(-totpSkew); step <= totpSkew; step++ {
		counter := baseCounter + step
		if counter < 0 {
			continue
		}
		generated := hotpCode(secret, counter)
		if subtle.ConstantTimeCompare([]byte(generated), []byte(trimmed)) == 1 {
			return nil
		}
	}

	return ErrInvalidCode
}

// hotpCode вычисляет HOTP код (RFC 4226) для счетчика
func hotpCode(secret []byte, counter int64) string {
	var msg [8]byte
	binary.BigEndian.PutUint64(msg[:], uint64(counter))

	mac := hmac.New(sha1.New, secret)
	_, _ = mac.Write(msg[:])
	sum := mac.Sum(nil)

	offset := sum[len(sum)-1] & 0x0f
	bin := (int(sum[offset])&0x7f)<<24 |
		(int(sum[offset+1])&0xff)<<16 |
		(int(sum[offset+2])&0xff)<<8 |
		(int(sum[offset+3]) & 0xff)

	return fmt.Sprintf("%06d", bin%1000000)
}

// decodeTOTPSecret декодирует base32 секрет, допуская оба варианта padding
func decodeTOTPSecret(data string) ([]byte, error) {
	normalized := strings.ToUpper(strings.TrimSpace(data))
	if normalized == "" {
		return nil, fmt.Errorf("empty totp secret")
	}

	enc := base32.StdEncoding.WithPadding(base32.NoPadding)
	return enc.DecodeString(strings.TrimRight(normalized, "="))
}

func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
