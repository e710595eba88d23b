package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/authvault/internal/models"
	"github.com/iudanet/authvault/internal/server/storage"
)

func TestUserStorage_GetUserByEmail(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	user := insertTestUser(t, ctx, s)

	got, err := s.GetUserByEmail(ctx, user.Email)
	require.NoError(t, err)

	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, user.Email, got.Email)
	assert.Equal(t, user.PasswordHash, got.PasswordHash)
	assert.Equal(t, user.PasswordSalt, got.PasswordSalt)
	assert.Equal(t, user.KDFIterations, got.KDFIterations)
	assert.Equal(t, user.Key, got.Key)
	assert.Equal(t, user.PrivateKey, got.PrivateKey)
	assert.True(t, got.Premium)
}

func TestUserStorage_GetUserByEmail_NotFound(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	_, err := s.GetUserByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
}

func TestUserStorage_GetUserByID(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	user := insertTestUser(t, ctx, s)

	got, err := s.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, got.Email)

	_, err = s.GetUserByID(ctx, "no-such-id")
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
}

func TestUserStorage_GetUserOrganizations(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	user := insertTestUser(t, ctx, s)
	insertTestOrg(t, ctx, s, user.ID, "org-b", models.OrgRoleUser)
	insertTestOrg(t, ctx, s, user.ID, "org-a", models.OrgRoleOwner)

	orgs, err := s.GetUserOrganizations(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, orgs, 2)

	// Стабильный порядок по org_id
	assert.Equal(t, "org-a", orgs[0].OrgID)
	assert.Equal(t, models.OrgRoleOwner, orgs[0].Role)
	assert.Equal(t, "org-b", orgs[1].OrgID)
	assert.Equal(t, models.OrgRoleUser, orgs[1].Role)
}

func TestUserStorage_GetUserOrganizations_Empty(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	user := insertTestUser(t, ctx, s)

	orgs, err := s.GetUserOrganizations(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, orgs)
}
