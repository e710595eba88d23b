package models

import "time"

// User представляет пользователя в системе
type User struct {
	ID            string    `json:"id"`             // UUID пользователя
	Email         string    `json:"email"`          // email, используется как username при входе
	Name          string    `json:"name"`           // отображаемое имя
	PasswordHash  string    `json:"password_hash"`  // hex-encoded PBKDF2-SHA256 хеш master password
	PasswordSalt  string    `json:"password_salt"`  // base64 encoded соль
	KDFIterations int       `json:"kdf_iterations"` // количество итераций PBKDF2
	Key           string    `json:"key"`            // зашифрованный симметричный ключ пользователя
	PrivateKey    string    `json:"private_key"`    // зашифрованный приватный ключ пользователя
	Premium       bool      `json:"premium"`        // premium статус
	CreatedAt     time.Time `json:"created_at"`     // время создания
	UpdatedAt     time.Time `json:"updated_at"`     // время последнего обновления
}

// Роли пользователя в организации
const (
	OrgRoleOwner   = 0
	OrgRoleAdmin   = 1
	OrgRoleUser    = 2
	OrgRoleManager = 3
)

// UserOrganization представляет членство пользователя в организации.
// Читается только для формирования claims access token.
type UserOrganization struct {
	UserID string `json:"user_id"` // ID пользователя
	OrgID  string `json:"org_id"`  // ID организации
	Role   int    `json:"role"`    // роль: owner/admin/user/manager
}
