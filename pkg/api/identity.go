package api

// TokenResponse представляет успешный ответ token endpoint.
// Key/PrivateKey — зашифрованный ключевой материал пользователя,
// сервер передает его как есть, не расшифровывая.
type TokenResponse struct {
	AccessToken    string `json:"access_token"`             // JWT access token
	ExpiresIn      int64  `json:"expires_in"`               // время жизни access token в секундах
	TokenType      string `json:"token_type"`               // всегда "Bearer"
	RefreshToken   string `json:"refresh_token"`            // новый rotating refresh token
	Key            string `json:"Key"`                      // зашифрованный симметричный ключ
	PrivateKey     string `json:"PrivateKey"`               // зашифрованный приватный ключ
	TwoFactorToken string `json:"TwoFactorToken,omitempty"` // remember bypass token, если применимо
}

// TwoFactorResponse представляет challenge-pending ответ: аутентификация
// не завершена, клиент должен повторить запрос с two_factor_token.
// Providers перечисляет все зарегистрированные провайдеры, а не только
// выбранный — клиент может переключить фактор прямо из challenge.
type TwoFactorResponse struct {
	Error            string                    `json:"error"`             // всегда "invalid_grant"
	ErrorDescription string                    `json:"error_description"` // "Two factor required."
	Providers        []string                  `json:"TwoFactorProviders"`
	Providers2       map[string]map[string]any `json:"TwoFactorProviders2"` // payload по id провайдера, пустой объект если нет
}

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`             // машиночитаемый код ошибки
	Message string `json:"error_description"` // описание для клиента
}
