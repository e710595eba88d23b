// Package crypto содержит криптографические примитивы сервера:
// проверку master password и генерацию случайных токенов.
package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

// PasswordKeyLen длина производного ключа PBKDF2 в байтах
const PasswordKeyLen = 32

// HashPassword вычисляет PBKDF2-SHA256 хеш master password.
// salt передается в base64, результат hex-encoded.
// Используется при проверке пароля и в тестовых fixtures.
func HashPassword(password, saltB64 string, iterations int) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}
	if iterations <= 0 {
		return "", fmt.Errorf("iterations must be positive")
	}

	salt, err := base64.StdEncoding.DecodeString(saltB64)
	if err != nil {
		return "", fmt.Errorf("failed to decode salt: %w", err)
	}

	key := pbkdf2.Key([]byte(password), salt, iterations, PasswordKeyLen, sha256.New)
	return hex.EncodeToString(key), nil
}

// VerifyPassword проверяет master password против сохраненного хеша.
// Сравнение производных ключей constant-time.
func VerifyPassword(password, saltB64 string, iterations int, storedHashHex string) (bool, error) {
	computed, err := HashPassword(password, saltB64, iterations)
	if err != nil {
		return false, err
	}

	stored, err := hex.DecodeString(storedHashHex)
	if err != nil {
		return false, fmt.Errorf("failed to decode stored hash: %w", err)
	}

	computedRaw, _ := hex.DecodeString(computed)
	return subtle.ConstantTimeCompare(computedRaw, stored) == 1, nil
}

// ConstantTimeEquals сравнивает два секрета за постоянное время.
// Используется для remember bypass token: время сравнения не должно
// зависеть от позиции первого различия.
func ConstantTimeEquals(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// GenerateToken генерирует криптографически случайный токен из n байт,
// закодированный в URL-safe base64. Используется для refresh token
// и two-factor remember token.
func GenerateToken(n int) (string, error) {
	raw := make([]byte, n)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate random token: %w", err)
	}
	return base64.URLEncoding.EncodeToString(raw), nil
}
