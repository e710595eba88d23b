package models

import "time"

// TwoFactorType тип второго фактора. Закрытое множество: движок
// аутентификации диспетчеризует по этим значениям, любое другое значение
// считается невалидным провайдером.
type TwoFactorType int

// Поддерживаемые провайдеры второго фактора.
// Значения совпадают с идентификаторами официальных клиентов.
const (
	TwoFactorAuthenticator TwoFactorType = 0 // time-based code (TOTP)
	TwoFactorDuo           TwoFactorType = 2 // push-based verification
	TwoFactorYubiKey       TwoFactorType = 3 // hardware OTP key
	TwoFactorU2F           TwoFactorType = 4 // challenge-response hardware key
	TwoFactorRemember      TwoFactorType = 5 // remembered-device bypass (pseudo-provider, не хранится)
)

// TwoFactor представляет зарегистрированный второй фактор пользователя.
// У пользователя не более одной записи на каждый тип (invariant storage layer).
type TwoFactor struct {
	UserID    string        `json:"user_id"`    // владелец записи
	Type      TwoFactorType `json:"type"`       // тип провайдера
	Data      string        `json:"data"`       // opaque provider-specific данные (JSON blob)
	CreatedAt time.Time     `json:"created_at"` // время создания
}
