package twofactor

import (
	"context"
	"io"
	"log/slog"

	"github.com/iudanet/authvault/internal/models"
	"github.com/iudanet/authvault/internal/server/storage"
)

func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

// mockStore is a mock implementation of TwoFactorStorage for testing
type mockStore struct {
	records []*models.TwoFactor
}

func (m *mockStore) GetTwoFactorsByUser(ctx context.Context, userID string) ([]*models.TwoFactor, error) {
	var result []*models.TwoFactor
	for _, tf := range m.records {
		if tf.UserID == userID {
			result = append(result, tf)
		}
	}
	return result, nil
}

func (m *mockStore) GetTwoFactorByUserAndType(ctx context.Context, userID string, atype models.TwoFactorType) (*models.TwoFactor, error) {
	for _, tf := range m.records {
		if tf.UserID == userID && tf.Type == atype {
			return tf, nil
		}
	}
	return nil, storage.ErrTwoFactorNotFound
}

func setupTestService(cfg Config, records ...*models.TwoFactor) *Service {
	return NewService(setupTestLogger(), &mockStore{records: records}, cfg)
}
