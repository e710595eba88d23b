package auth

import (
	"log/slog"
	"net/url"
	"strconv"
	"strings"
)

// Grant types, принимаемые token endpoint
const (
	GrantTypePassword     = "password"
	GrantTypeRefreshToken = "refresh_token"
)

// ConnectRequest представляет разобранный запрос token endpoint.
// Пустая строка означает, что поле не было передано.
type ConnectRequest struct {
	GrantType string

	// grant_type=refresh_token
	RefreshToken string

	// grant_type=password
	ClientID         string
	Username         string
	Password         string
	Scope            string
	DeviceIdentifier string
	DeviceName       string
	DeviceType       string

	// two-factor
	TwoFactorProvider *int
	TwoFactorToken    string
	TwoFactorRemember *int
}

// ParseConnectForm разбирает form-encoded тело запроса.
// Ключи сравниваются без учета регистра и подчеркиваний: клиенты присылают
// и "grant_type", и "GrantType". Неизвестные ключи логируются и игнорируются.
func ParseConnectForm(logger *slog.Logger, form url.Values) *ConnectRequest {
	req := &ConnectRequest{}

	for key, values := range form {
		if len(values) == 0 {
			continue
		}
		value := values[0]

		normalized := strings.ToLower(key)
		normalized = strings.ReplaceAll(normalized, "_", "")

		switch normalized {
		case "granttype":
			req.GrantType = value
		case "refreshtoken":
			req.RefreshToken = value
		case "clientid":
			req.ClientID = value
		case "username":
			req.Username = value
		case "password":
			req.Password = value
		case "scope":
			req.Scope = value
		case "deviceidentifier":
			req.DeviceIdentifier = value
		case "devicename":
			req.DeviceName = value
		case "devicetype":
			req.DeviceType = value
		case "twofactorprovider":
			if n, err := strconv.Atoi(value); err == nil {
				req.TwoFactorProvider = &n
			}
		case "twofactortoken":
			req.TwoFactorToken = value
		case "twofactorremember":
			if n, err := strconv.Atoi(value); err == nil {
				req.TwoFactorRemember = &n
			}
		default:
			logger.Debug("unexpected parameter during login", slog.String("key", key))
		}
	}

	return req
}

// validatePasswordGrant проверяет обязательные поля password grant
// в фиксированном порядке; первая отсутствующая называется в ошибке
func (r *ConnectRequest) validatePasswordGrant() error {
	checks := []struct {
		value string
		field string
	}{
		{r.ClientID, "client_id"},
		{r.Password, "password"},
		{r.Scope, "scope"},
		{r.Username, "username"},
		{r.DeviceIdentifier, "device_identifier"},
		{r.DeviceName, "device_name"},
		{r.DeviceType, "device_type"},
	}

	for _, check := range checks {
		if check.value == "" {
			return &ValidationError{Field: check.field}
		}
	}

	return nil
}

// validateRefreshGrant проверяет обязательные поля refresh grant
func (r *ConnectRequest) validateRefreshGrant() error {
	if r.RefreshToken == "" {
		return &ValidationError{Field: "refresh_token"}
	}
	return nil
}
