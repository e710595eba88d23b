package auth

import (
	"errors"
	"fmt"
)

// Ошибки аутентификации, видимые клиенту. Текст не раскрывает,
// какая именно часть пары credential оказалась неверной.
var (
	// ErrInvalidCredentials generic ответ на неизвестный username или неверный пароль
	// Текст показывается клиентом как есть, поэтому с заглавной буквы
	ErrInvalidCredentials = errors.New("Username or password is incorrect. Try again")

	// ErrInvalidRefreshToken indicates unknown or rotated-out refresh token
	ErrInvalidRefreshToken = errors.New("invalid refresh token")

	// ErrScopeNotSupported indicates an unsupported scope value for the password grant
	ErrScopeNotSupported = errors.New("scope not supported")

	// ErrInvalidProvider терминальная ошибка попытки: неизвестный id провайдера
	ErrInvalidProvider = errors.New("invalid two-factor provider")

	// ErrNoSuchProvider выбранный провайдер не зарегистрирован у пользователя
	ErrNoSuchProvider = errors.New("no such provider registered")

	// ErrDeviceEmailRequired доставка уведомления обязательна конфигурацией,
	// но не удалась. Текст показывается клиенту как есть.
	ErrDeviceEmailRequired = errors.New("Could not send login notification email. Please contact your administrator.")
)

// ValidationError отсутствие обязательного поля для выбранного grant type.
// Проверяется до любого обращения к storage.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s cannot be blank", e.Field)
}

// UnsupportedGrantTypeError неизвестный grant_type; значение возвращается
// для диагностики.
type UnsupportedGrantTypeError struct {
	GrantType string
}

func (e *UnsupportedGrantTypeError) Error() string {
	return fmt.Sprintf("unsupported grant type: %q", e.GrantType)
}

// IsClientError сообщает, является ли ошибка ошибкой запроса (HTTP 400),
// а не внутренней ошибкой сервера.
func IsClientError(err error) bool {
	var vErr *ValidationError
	var gErr *UnsupportedGrantTypeError
	if errors.As(err, &vErr) || errors.As(err, &gErr) {
		return true
	}

	return errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrInvalidRefreshToken) ||
		errors.Is(err, ErrScopeNotSupported) ||
		errors.Is(err, ErrInvalidProvider) ||
		errors.Is(err, ErrNoSuchProvider) ||
		errors.Is(err, ErrDeviceEmailRequired)
}
