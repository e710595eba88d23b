package twofactor

import (
	"encoding/base32"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTOTPSecret = "JBSWY3DPEHPK3PXP" // base32("Hello!\xde\xad\xbe\xef")

// currentTOTPCode вычисляет действующий код для секрета
func currentTOTPCode(t *testing.T, secret string, offset int64) string {
	t.Helper()

	raw, err := base32.StdEncoding.WithPadding(base32.NoPadding).DecodeString(secret)
	require.NoError(t, err)

	counter := time.Now().Unix()/totpPeriod + offset
	return hotpCode(raw, counter)
}

func TestValidateTOTP(t *testing.T) {
	svc := setupTestService(Config{})

	t.Run("current code accepted", func(t *testing.T) {
		code := currentTOTPCode(t, testTOTPSecret, 0)
		assert.NoError(t, svc.ValidateTOTP(code, testTOTPSecret))
	})

	t.Run("adjacent windows accepted", func(t *testing.T) {
		assert.NoError(t, svc.ValidateTOTP(currentTOTPCode(t, testTOTPSecret, -1), testTOTPSecret))
		assert.NoError(t, svc.ValidateTOTP(currentTOTPCode(t, testTOTPSecret, 1), testTOTPSecret))
	})

	t.Run("stale code rejected", func(t *testing.T) {
		code := currentTOTPCode(t, testTOTPSecret, -5)
		assert.ErrorIs(t, svc.ValidateTOTP(code, testTOTPSecret), ErrInvalidCode)
	})

	t.Run("code with surrounding spaces accepted", func(t *testing.T) {
		code := " " + currentTOTPCode(t, testTOTPSecret, 0) + " "
		assert.NoError(t, svc.ValidateTOTP(code, testTOTPSecret))
	})

	t.Run("malformed codes rejected", func(t *testing.T) {
		assert.ErrorIs(t, svc.ValidateTOTP("", testTOTPSecret), ErrInvalidCode)
		assert.ErrorIs(t, svc.ValidateTOTP("12345", testTOTPSecret), ErrInvalidCode)
		assert.ErrorIs(t, svc.ValidateTOTP("1234567", testTOTPSecret), ErrInvalidCode)
		assert.ErrorIs(t, svc.ValidateTOTP("12345a", testTOTPSecret), ErrInvalidCode)
	})

	t.Run("padded secret accepted", func(t *testing.T) {
		code := currentTOTPCode(t, testTOTPSecret, 0)
		assert.NoError(t, svc.ValidateTOTP(code, testTOTPSecret+"==="))
	})

	t.Run("bad secret is an error", func(t *testing.T) {
		err := svc.ValidateTOTP("123456", "")
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrInvalidCode)

		err = svc.ValidateTOTP("123456", "not-base32-!!!")
		assert.Error(t, err)
	})
}

func TestHOTPCode_RFC4226Vectors(t *testing.T) {
	// Контрольные значения из RFC 4226, Appendix D
	secret := []byte("12345678901234567890")

	vectors := map[int64]string{
		0: "755224",
		1: "287082",
		2: "359152",
		3: "969429",
		9: "520489",
	}

	for counter, want := range vectors {
		assert.Equal(t, want, hotpCode(secret, counter), "counter %d", counter)
	}
}
