package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/authvault/internal/models"
)

func setupTestStorage(t *testing.T) (*Storage, func()) {
	ctx := context.Background()

	// Используем in-memory database для тестов
	storage, err := New(ctx, ":memory:")
	require.NoError(t, err)

	cleanup := func() {
		_ = storage.Close()
	}

	return storage, cleanup
}

// insertTestUser вставляет пользователя напрямую: storage layer ядра
// читает users, управление аккаунтами живет вне его
func insertTestUser(t *testing.T, ctx context.Context, s *Storage) *models.User {
	t.Helper()

	user := &models.User{
		ID:            uuid.New().String(),
		Email:         uuid.New().String() + "@example.com",
		Name:          "Test User",
		PasswordHash:  "deadbeef",
		PasswordSalt:  "c2FsdA==",
		KDFIterations: 5000,
		Key:           "encrypted-user-key",
		PrivateKey:    "encrypted-private-key",
		Premium:       true,
		CreatedAt:     time.Now().UTC().Truncate(time.Second),
		UpdatedAt:     time.Now().UTC().Truncate(time.Second),
	}

	_, err := s.DB().ExecContext(ctx, `
		INSERT INTO users (id, email, name, password_hash, password_salt, kdf_iterations,
		                   key, private_key, premium, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID, user.Email, user.Name, user.PasswordHash, user.PasswordSalt,
		user.KDFIterations, user.Key, user.PrivateKey, user.Premium,
		user.CreatedAt, user.UpdatedAt,
	)
	require.NoError(t, err)

	return user
}

func insertTestTwoFactor(t *testing.T, ctx context.Context, s *Storage, userID string, atype models.TwoFactorType, data string, createdAt time.Time) {
	t.Helper()

	_, err := s.DB().ExecContext(ctx, `
		INSERT INTO two_factors (user_id, type, data, created_at)
		VALUES (?, ?, ?, ?)`,
		userID, atype, data, createdAt,
	)
	require.NoError(t, err)
}

func insertTestOrg(t *testing.T, ctx context.Context, s *Storage, userID, orgID string, role int) {
	t.Helper()

	_, err := s.DB().ExecContext(ctx, `
		INSERT INTO org_users (user_id, org_id, role) VALUES (?, ?, ?)`,
		userID, orgID, role,
	)
	require.NoError(t, err)
}
