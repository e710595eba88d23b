package models

import (
	"strconv"
	"strings"
	"time"
)

// Известные типы устройств (platform classifier).
// Значения совпадают с классификатором официальных клиентов.
const (
	DeviceTypeAndroid        = 0
	DeviceTypeIOS            = 1
	DeviceTypeChromeExt      = 2
	DeviceTypeFirefoxExt     = 3
	DeviceTypeOperaExt       = 4
	DeviceTypeEdgeExt        = 5
	DeviceTypeWindowsDesktop = 6
	DeviceTypeMacOSDesktop   = 7
	DeviceTypeLinuxDesktop   = 8
	DeviceTypeWeb            = 9
)

// deviceTypeNames маппинг строковых названий платформ на классификатор.
// iOS клиенты присылают "iOS" вместо числа.
var deviceTypeNames = map[string]int{
	"android": DeviceTypeAndroid,
	"ios":     DeviceTypeIOS,
	"chrome":  DeviceTypeChromeExt,
	"firefox": DeviceTypeFirefoxExt,
	"opera":   DeviceTypeOperaExt,
	"edge":    DeviceTypeEdgeExt,
	"windows": DeviceTypeWindowsDesktop,
	"macos":   DeviceTypeMacOSDesktop,
	"linux":   DeviceTypeLinuxDesktop,
	"web":     DeviceTypeWeb,
}

// ParseDeviceType разбирает device_type из запроса: либо число, либо название
// платформы. Неизвестные значения дают 0 — классификация устройства это
// телеметрия, а не security boundary, поэтому запрос не отклоняется.
func ParseDeviceType(raw string) int {
	if n, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil {
		return n
	}
	if n, ok := deviceTypeNames[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return n
	}
	return 0
}

// Device представляет устройство (установку клиента) пользователя.
// ID приходит от клиента и стабилен между сессиями, но не доверен:
// владение устройством определяется только через reconciliation.
type Device struct {
	ID                string    `json:"id"`                  // client-supplied device identifier
	UserID            string    `json:"user_id"`             // владелец устройства
	Name              string    `json:"name"`                // название устройства
	Type              int       `json:"type"`                // platform classifier
	RefreshToken      string    `json:"refresh_token"`       // текущий rotating refresh token
	TwoFactorRemember string    `json:"two_factor_remember"` // bypass token для "remembered device", пустая строка если нет
	CreatedAt         time.Time `json:"created_at"`          // время создания
	UpdatedAt         time.Time `json:"updated_at"`          // время последнего логина/refresh
}

// NewDevice создает новое устройство, привязанное к пользователю
func NewDevice(id, userID, name string, deviceType int) *Device {
	now := time.Now()
	return &Device{
		ID:        id,
		UserID:    userID,
		Name:      name,
		Type:      deviceType,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
