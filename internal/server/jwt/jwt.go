// Package jwt выпускает и валидирует access tokens сервера.
package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iudanet/authvault/internal/models"
)

// AccessClaims представляет JWT claims access token
type AccessClaims struct {
	Email         string   `json:"email"`
	EmailVerified bool     `json:"email_verified"`
	Name          string   `json:"name"`
	Premium       bool     `json:"premium"`
	Device        string   `json:"device"`
	Scope         []string `json:"scope"`
	AMR           []string `json:"amr"`
	OrgOwner      []string `json:"orgowner,omitempty"`
	OrgAdmin      []string `json:"orgadmin,omitempty"`
	OrgUser       []string `json:"orguser,omitempty"`
	OrgManager    []string `json:"orgmanager,omitempty"`
	jwt.RegisteredClaims
}

// Config содержит конфигурацию для выпуска токенов
type Config struct {
	Secret         []byte
	Issuer         string
	AccessTokenTTL time.Duration
}

// Service выпускает access tokens
type Service struct {
	cfg Config
}

// NewService создает новый JWT service
// secret должен быть криптографически случайным, минимум 32 байта
func NewService(cfg Config) *Service {
	return &Service{cfg: cfg}
}

// GenerateAccessToken создает JWT access token для пользователя на устройстве.
// Возвращает токен и время жизни в секундах.
func (s *Service) GenerateAccessToken(user *models.User, device *models.Device, orgs []*models.UserOrganization) (string, int64, error) {
	now := time.Now()
	expiresAt := now.Add(s.cfg.AccessTokenTTL)

	claims := AccessClaims{
		Email:         user.Email,
		EmailVerified: true,
		Name:          user.Name,
		Premium:       user.Premium,
		Device:        device.ID,
		Scope:         []string{"api", "offline_access"},
		AMR:           []string{"Application"},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    s.cfg.Issuer,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	for _, org := range orgs {
		switch org.Role {
		case models.OrgRoleOwner:
			claims.OrgOwner = append(claims.OrgOwner, org.OrgID)
		case models.OrgRoleAdmin:
			claims.OrgAdmin = append(claims.OrgAdmin, org.OrgID)
		case models.OrgRoleManager:
			claims.OrgManager = append(claims.OrgManager, org.OrgID)
		default:
			claims.OrgUser = append(claims.OrgUser, org.OrgID)
		}
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.cfg.Secret)
	if err != nil {
		return "", 0, fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, int64(s.cfg.AccessTokenTTL.Seconds()), nil
}

// ValidateAccessToken валидирует и парсит JWT access token
func (s *Service) ValidateAccessToken(tokenString string) (*AccessClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AccessClaims{}, func(token *jwt.Token) (interface{}, error) {
		// Проверяем что используется правильный алгоритм подписи
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.cfg.Secret, nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if claims, ok := token.Claims.(*AccessClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}
