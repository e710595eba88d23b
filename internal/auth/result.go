package auth

import "github.com/iudanet/authvault/internal/models"

// TokenResult результат успешной выдачи токенов
type TokenResult struct {
	AccessToken    string
	ExpiresIn      int64
	RefreshToken   string
	Key            string // зашифрованный симметричный ключ пользователя (passthrough)
	PrivateKey     string // зашифрованный приватный ключ пользователя (passthrough)
	TwoFactorToken string // новый remember bypass token, пустая строка если не применимо
}

// TwoFactorChallenge результат challenge-pending: аутентификация не
// завершена, клиенту нужен второй фактор. Не ошибка в транспортном смысле,
// но и не успех.
type TwoFactorChallenge struct {
	// Providers все зарегистрированные провайдеры пользователя,
	// независимо от выбранного
	Providers []models.TwoFactorType

	// Payloads challenge данные по id провайдера; пустая map для
	// провайдеров без дополнительного payload
	Payloads map[string]map[string]any
}

// LoginResult результат одной попытки аутентификации: ровно одно из полей
// не nil. Собирается один раз, частично построенных состояний нет.
type LoginResult struct {
	Token     *TokenResult
	Challenge *TwoFactorChallenge
}
