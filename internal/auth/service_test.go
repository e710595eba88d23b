package auth

import (
	"context"
	"encoding/base64"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/authvault/internal/crypto"
	"github.com/iudanet/authvault/internal/models"
	"github.com/iudanet/authvault/internal/server/jwt"
	"github.com/iudanet/authvault/internal/server/storage"
	"github.com/iudanet/authvault/internal/twofactor"
)

const (
	testPassword   = "master-password"
	testIterations = 5000
)

func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

// mockUserStorage is a mock implementation of UserStorage for testing
type mockUserStorage struct {
	users    map[string]*models.User // email -> User
	orgs     map[string][]*models.UserOrganization
	getError error
	calls    int // total storage lookups, for no-storage-access assertions
}

func (m *mockUserStorage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	m.calls++
	if m.getError != nil {
		return nil, m.getError
	}
	user, ok := m.users[email]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	return user, nil
}

func (m *mockUserStorage) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	m.calls++
	if m.getError != nil {
		return nil, m.getError
	}
	for _, user := range m.users {
		if user.ID == userID {
			return user, nil
		}
	}
	return nil, storage.ErrUserNotFound
}

func (m *mockUserStorage) GetUserOrganizations(ctx context.Context, userID string) ([]*models.UserOrganization, error) {
	m.calls++
	return m.orgs[userID], nil
}

// mockDeviceStorage is a mock implementation of DeviceStorage for testing
type mockDeviceStorage struct {
	devices   map[string]*models.Device // device ID -> Device
	saveError error
	saved     []*models.Device
	calls     int
}

func (m *mockDeviceStorage) GetDeviceByID(ctx context.Context, deviceID string) (*models.Device, error) {
	m.calls++
	device, ok := m.devices[deviceID]
	if !ok {
		return nil, storage.ErrDeviceNotFound
	}
	return device, nil
}

func (m *mockDeviceStorage) GetDeviceByRefreshToken(ctx context.Context, refreshToken string) (*models.Device, error) {
	m.calls++
	for _, device := range m.devices {
		if device.RefreshToken == refreshToken {
			return device, nil
		}
	}
	return nil, storage.ErrDeviceNotFound
}

func (m *mockDeviceStorage) SaveDevice(ctx context.Context, device *models.Device) error {
	m.calls++
	if m.saveError != nil {
		return m.saveError
	}
	m.devices[device.ID] = device
	m.saved = append(m.saved, device)
	return nil
}

// mockTwoFactorStorage is a mock implementation of TwoFactorStorage for testing
type mockTwoFactorStorage struct {
	records []*models.TwoFactor
	calls   int
}

func (m *mockTwoFactorStorage) GetTwoFactorsByUser(ctx context.Context, userID string) ([]*models.TwoFactor, error) {
	m.calls++
	var result []*models.TwoFactor
	for _, tf := range m.records {
		if tf.UserID == userID {
			result = append(result, tf)
		}
	}
	return result, nil
}

func (m *mockTwoFactorStorage) GetTwoFactorByUserAndType(ctx context.Context, userID string, atype models.TwoFactorType) (*models.TwoFactor, error) {
	m.calls++
	for _, tf := range m.records {
		if tf.UserID == userID && tf.Type == atype {
			return tf, nil
		}
	}
	return nil, storage.ErrTwoFactorNotFound
}

// mockVerifier is a mock implementation of SecondFactorVerifier for testing
type mockVerifier struct {
	totpErr    error
	u2fErr     error
	yubikeyErr error
	duoErr     error

	u2fChallenge *twofactor.U2FSignRequest
	duoHost      string
	duoSignature string
}

func (m *mockVerifier) ValidateTOTP(code, data string) error { return m.totpErr }

func (m *mockVerifier) ValidateU2F(ctx context.Context, userID, response string) error {
	return m.u2fErr
}

func (m *mockVerifier) ValidateYubikey(code, data string) error { return m.yubikeyErr }

func (m *mockVerifier) ValidateDuo(email, response string) error { return m.duoErr }

func (m *mockVerifier) U2FSignChallenge(ctx context.Context, userID string) (*twofactor.U2FSignRequest, error) {
	if m.u2fChallenge != nil {
		return m.u2fChallenge, nil
	}
	return &twofactor.U2FSignRequest{}, nil
}

func (m *mockVerifier) DuoSignRequest(email string) (host, signature string, err error) {
	return m.duoHost, m.duoSignature, nil
}

// mockMailer records new device notifications
type mockMailer struct {
	sendError error
	sent      []string // emails
}

func (m *mockMailer) SendNewDeviceLogin(ctx context.Context, email, ip string, at time.Time, deviceName string) error {
	if m.sendError != nil {
		return m.sendError
	}
	m.sent = append(m.sent, email)
	return nil
}

// testEnv bundles the service with its mocks
type testEnv struct {
	service    *Service
	users      *mockUserStorage
	devices    *mockDeviceStorage
	twofactors *mockTwoFactorStorage
	verifier   *mockVerifier
	mailer     *mockMailer
}

func setupTestService(t *testing.T, opts Options) *testEnv {
	t.Helper()

	env := &testEnv{
		users: &mockUserStorage{
			users: make(map[string]*models.User),
			orgs:  make(map[string][]*models.UserOrganization),
		},
		devices:    &mockDeviceStorage{devices: make(map[string]*models.Device)},
		twofactors: &mockTwoFactorStorage{},
		verifier:   &mockVerifier{},
		mailer:     &mockMailer{},
	}

	jwtService := jwt.NewService(jwt.Config{
		Secret:         []byte("test-secret-that-is-long-enough!"),
		Issuer:         "https://vault.example.com",
		AccessTokenTTL: 15 * time.Minute,
	})

	env.service = NewService(
		setupTestLogger(),
		env.users, env.devices, env.twofactors,
		jwtService, env.verifier, env.mailer,
		opts,
	)

	return env
}

func newTestUser(t *testing.T) *models.User {
	t.Helper()

	salt := base64.StdEncoding.EncodeToString([]byte("0123456789abcdef"))
	hash, err := crypto.HashPassword(testPassword, salt, testIterations)
	require.NoError(t, err)

	return &models.User{
		ID:            uuid.New().String(),
		Email:         "user@example.com",
		Name:          "Test User",
		PasswordHash:  hash,
		PasswordSalt:  salt,
		KDFIterations: testIterations,
		Key:           "encrypted-user-key",
		PrivateKey:    "encrypted-private-key",
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
}

func newPasswordRequest(deviceID string) *ConnectRequest {
	return &ConnectRequest{
		GrantType:        GrantTypePassword,
		ClientID:         "desktop",
		Username:         "user@example.com",
		Password:         testPassword,
		Scope:            "api offline_access",
		DeviceIdentifier: deviceID,
		DeviceName:       "firefox",
		DeviceType:       "3",
	}
}

func TestLogin_UnsupportedGrantType(t *testing.T) {
	env := setupTestService(t, Options{})

	req := &ConnectRequest{GrantType: "client_credentials"}
	result, err := env.service.Login(context.Background(), req, "10.0.0.1")

	require.Error(t, err)
	assert.Nil(t, result)

	var gErr *UnsupportedGrantTypeError
	require.ErrorAs(t, err, &gErr)
	assert.Equal(t, "client_credentials", gErr.GrantType)
	assert.Contains(t, err.Error(), `"client_credentials"`)

	// Unknown grant type is rejected before any storage access
	assert.Zero(t, env.users.calls)
	assert.Zero(t, env.devices.calls)
	assert.Zero(t, env.twofactors.calls)
}

func TestLogin_PasswordGrant_FieldValidationOrder(t *testing.T) {
	tests := []struct {
		mutate    func(r *ConnectRequest)
		name      string
		wantField string
	}{
		{
			name:      "missing client_id reported first",
			mutate:    func(r *ConnectRequest) { r.ClientID = "" },
			wantField: "client_id",
		},
		{
			name:      "missing password",
			mutate:    func(r *ConnectRequest) { r.Password = "" },
			wantField: "password",
		},
		{
			name:      "missing scope",
			mutate:    func(r *ConnectRequest) { r.Scope = "" },
			wantField: "scope",
		},
		{
			name:      "missing username",
			mutate:    func(r *ConnectRequest) { r.Username = "" },
			wantField: "username",
		},
		{
			name:      "missing device_identifier",
			mutate:    func(r *ConnectRequest) { r.DeviceIdentifier = "" },
			wantField: "device_identifier",
		},
		{
			name:      "missing device_name",
			mutate:    func(r *ConnectRequest) { r.DeviceName = "" },
			wantField: "device_name",
		},
		{
			name:      "missing device_type",
			mutate:    func(r *ConnectRequest) { r.DeviceType = "" },
			wantField: "device_type",
		},
		{
			name: "client_id wins when several fields are missing",
			mutate: func(r *ConnectRequest) {
				r.ClientID = ""
				r.Username = ""
				r.DeviceName = ""
			},
			wantField: "client_id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestService(t, Options{})

			req := newPasswordRequest(uuid.New().String())
			tt.mutate(req)

			result, err := env.service.Login(context.Background(), req, "10.0.0.1")
			require.Error(t, err)
			assert.Nil(t, result)

			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.wantField, vErr.Field)
			assert.Equal(t, tt.wantField+" cannot be blank", err.Error())

			// Validation never touches storage
			assert.Zero(t, env.users.calls)
		})
	}
}

func TestLogin_RefreshGrant_MissingToken(t *testing.T) {
	env := setupTestService(t, Options{})

	req := &ConnectRequest{GrantType: GrantTypeRefreshToken}
	_, err := env.service.Login(context.Background(), req, "10.0.0.1")

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "refresh_token", vErr.Field)
	assert.Zero(t, env.devices.calls)
}

func TestIsClientError(t *testing.T) {
	assert.True(t, IsClientError(ErrInvalidCredentials))
	assert.True(t, IsClientError(ErrInvalidRefreshToken))
	assert.True(t, IsClientError(ErrScopeNotSupported))
	assert.True(t, IsClientError(ErrInvalidProvider))
	assert.True(t, IsClientError(ErrNoSuchProvider))
	assert.True(t, IsClientError(ErrDeviceEmailRequired))
	assert.True(t, IsClientError(&ValidationError{Field: "scope"}))
	assert.True(t, IsClientError(&UnsupportedGrantTypeError{GrantType: "x"}))

	assert.False(t, IsClientError(context.DeadlineExceeded))
}
