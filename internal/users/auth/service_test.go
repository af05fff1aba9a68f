// Copyright (c) 2026 NICAA. All rights reserved.
// Author: platform@nicaa.org

package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nicaa/alumni-api/internal/platform/apperr"
	"github.com/nicaa/alumni-api/internal/platform/sec"
	"github.com/nicaa/alumni-api/internal/users/auth"
)

// # Test Doubles

// fakeUserStore is an in-memory UserRepository for exercising full auth flows.
type fakeUserStore struct {
	users map[string]*auth.User // keyed by ID
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*auth.User)}
}

func (store *fakeUserStore) FindByID(_ context.Context, id string) (*auth.User, error) {
	if user, ok := store.users[id]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, apperr.NotFound("User")
}

func (store *fakeUserStore) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	for _, user := range store.users {
		if user.Email != "" && user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (store *fakeUserStore) FindByPhone(_ context.Context, phone string) (*auth.User, error) {
	for _, user := range store.users {
		if user.Phone == phone {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (store *fakeUserStore) FindByResetTokenHash(_ context.Context, tokenHash string) (*auth.User, error) {
	for _, user := range store.users {
		if user.ResetTokenHash != "" && user.ResetTokenHash == tokenHash {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("Reset token")
}

func (store *fakeUserStore) Create(_ context.Context, user *auth.User) error {
	copied := *user
	store.users[user.ID] = &copied
	return nil
}

func (store *fakeUserStore) UpdatePassword(_ context.Context, userID, newHash string) error {
	store.users[userID].PasswordHash = newHash
	return nil
}

func (store *fakeUserStore) UpdateRefreshToken(_ context.Context, userID, refreshToken string) error {
	store.users[userID].RefreshToken = refreshToken
	return nil
}

func (store *fakeUserStore) SetResetToken(_ context.Context, userID, tokenHash string, expiry time.Time) error {
	user := store.users[userID]
	user.ResetTokenHash = tokenHash
	expiryCopy := expiry
	user.ResetTokenExpiry = &expiryCopy
	return nil
}

func (store *fakeUserStore) ClearResetToken(_ context.Context, userID string) error {
	user := store.users[userID]
	user.ResetTokenHash = ""
	user.ResetTokenExpiry = nil
	return nil
}

// fakeDenylist is an in-memory DenylistRepository.
type fakeDenylist struct {
	denied map[string]bool
}

func newFakeDenylist() *fakeDenylist {
	return &fakeDenylist{denied: make(map[string]bool)}
}

func (list *fakeDenylist) Deny(_ context.Context, token string, _ time.Duration) error {
	list.denied[token] = true
	return nil
}

func (list *fakeDenylist) IsDenied(_ context.Context, token string) (bool, error) {
	return list.denied[token], nil
}

// # Fixtures

func newTestService(t *testing.T) (*auth.Service, *fakeUserStore, *fakeDenylist) {
	t.Helper()

	issuer, err := sec.NewTokenIssuer(
		"access-secret-for-tests",
		"refresh-secret-for-tests",
		"nicaa.org",
		15*time.Minute,
		168*time.Hour,
	)
	require.NoError(t, err)

	store := newFakeUserStore()
	denylist := newFakeDenylist()

	// Minimum bcrypt cost keeps the test suite fast
	service := auth.NewService(store, denylist, issuer, sec.NewPasswordHasher(4))
	return service, store, denylist
}

func registerTestUser(t *testing.T, service *auth.Service) *auth.LoginSession {
	t.Helper()

	session, err := service.Register(context.Background(), auth.RegisterInput{
		FirstName: "Rahim",
		LastName:  "Uddin",
		Phone:     "01712345678",
		Email:     "rahim@nicaa.org",
		Password:  "Abcd123!@",
	})
	require.NoError(t, err)
	require.NotNil(t, session)
	return session
}

// # Registration & Login

/*
TestService_RegisterThenLogin verifies that a freshly registered user can
immediately authenticate with the same credentials.
*/
func TestService_RegisterThenLogin(t *testing.T) {
	service, store, _ := newTestService(t)
	session := registerTestUser(t, service)

	assert.NotEmpty(t, session.AccessToken)
	assert.NotEmpty(t, session.RefreshToken)
	assert.Equal(t, sec.RoleUser, session.User.Role)
	assert.Equal(t, sec.StatusActive, session.User.Status)
	assert.Len(t, store.users, 1)

	// Login with the phone identifier
	loginSession, err := service.Login(context.Background(), "01712345678", "Abcd123!@")
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, loginSession.User.ID)

	// Login with the email identifier
	loginSession, err = service.Login(context.Background(), "rahim@nicaa.org", "Abcd123!@")
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, loginSession.User.ID)
}

/*
TestService_Register_DuplicatePhone ensures duplicate registration fails
and creates no additional record.
*/
func TestService_Register_DuplicatePhone(t *testing.T) {
	service, store, _ := newTestService(t)
	registerTestUser(t, service)

	_, err := service.Register(context.Background(), auth.RegisterInput{
		FirstName: "Karim",
		LastName:  "Uddin",
		Phone:     "01712345678", // Same phone
		Password:  "Other123!@",
	})

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, 400, ae.HTTPStatus)
	assert.Len(t, store.users, 1)
}

/*
TestService_Login_InvalidCredentials checks that wrong passwords and unknown
identifiers both produce the same generic unauthorized error.
*/
func TestService_Login_InvalidCredentials(t *testing.T) {
	service, _, _ := newTestService(t)
	registerTestUser(t, service)

	tests := []struct {
		name       string
		identifier string
		password   string
	}{
		{"wrong_password", "01712345678", "WrongPass1!"},
		{"unknown_identifier", "01999999999", "Abcd123!@"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Login(context.Background(), tt.identifier, tt.password)
			require.Error(t, err)

			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, 401, ae.HTTPStatus)
			assert.Equal(t, "Invalid login credentials", ae.Message)
		})
	}
}

// # Refresh Rotation

/*
TestService_Refresh_Rotation verifies the rotation contract: a successful
refresh invalidates the previously issued refresh token.
*/
func TestService_Refresh_Rotation(t *testing.T) {
	service, _, _ := newTestService(t)
	session := registerTestUser(t, service)

	// First rotation succeeds
	rotated, err := service.Refresh(context.Background(), session.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, rotated.AccessToken)
	assert.NotEqual(t, session.RefreshToken, rotated.RefreshToken)

	// Replaying the superseded token must fail even though its signature is valid
	_, err = service.Refresh(context.Background(), session.RefreshToken)
	require.Error(t, err)
	assert.Equal(t, 401, apperr.As(err).HTTPStatus)

	// The rotated token remains redeemable
	_, err = service.Refresh(context.Background(), rotated.RefreshToken)
	require.NoError(t, err)
}

/*
TestService_Refresh_InactiveUser ensures a deactivated account cannot renew
its session even with a valid stored refresh token.
*/
func TestService_Refresh_InactiveUser(t *testing.T) {
	service, store, _ := newTestService(t)
	session := registerTestUser(t, service)

	store.users[session.User.ID].Status = sec.StatusInactive

	_, err := service.Refresh(context.Background(), session.RefreshToken)
	require.Error(t, err)
	assert.Equal(t, 401, apperr.As(err).HTTPStatus)
}

/*
TestService_Refresh_GarbageToken rejects tokens that fail verification outright.
*/
func TestService_Refresh_GarbageToken(t *testing.T) {
	service, _, _ := newTestService(t)
	registerTestUser(t, service)

	_, err := service.Refresh(context.Background(), "not-a-jwt")
	require.Error(t, err)
	assert.Equal(t, 401, apperr.As(err).HTTPStatus)
}

// # Logout & Revocation

/*
TestService_Logout denylists the access token and clears the stored refresh
token so neither credential remains usable.
*/
func TestService_Logout(t *testing.T) {
	service, store, denylist := newTestService(t)
	session := registerTestUser(t, service)

	// The access token is usable before logout
	_, err := service.CheckAccessToken(context.Background(), session.AccessToken)
	require.NoError(t, err)

	require.NoError(t, service.Logout(context.Background(), session.User.ID, session.AccessToken))

	// Denylisted: verification now fails despite a valid signature
	assert.True(t, denylist.denied[session.AccessToken])
	_, err = service.CheckAccessToken(context.Background(), session.AccessToken)
	require.Error(t, err)

	// Stored refresh token cleared: silent refresh is no longer possible
	assert.Empty(t, store.users[session.User.ID].RefreshToken)
	_, err = service.Refresh(context.Background(), session.RefreshToken)
	require.Error(t, err)
}

// # Password Management

/*
TestService_ChangePassword_WrongOldPassword verifies the stored hash is left
untouched when the current password does not verify.
*/
func TestService_ChangePassword_WrongOldPassword(t *testing.T) {
	service, store, _ := newTestService(t)
	session := registerTestUser(t, service)
	originalHash := store.users[session.User.ID].PasswordHash

	err := service.ChangePassword(context.Background(), session.User.ID, "WrongOld1!", "Brand123!@")
	require.Error(t, err)
	assert.Equal(t, 401, apperr.As(err).HTTPStatus)
	assert.Equal(t, originalHash, store.users[session.User.ID].PasswordHash)
}

/*
TestService_ChangePassword_Success rotates the stored hash and allows login
with the new password only.
*/
func TestService_ChangePassword_Success(t *testing.T) {
	service, _, _ := newTestService(t)
	session := registerTestUser(t, service)

	require.NoError(t, service.ChangePassword(
		context.Background(), session.User.ID, "Abcd123!@", "Brand123!@"))

	_, err := service.Login(context.Background(), "01712345678", "Abcd123!@")
	require.Error(t, err)

	_, err = service.Login(context.Background(), "01712345678", "Brand123!@")
	require.NoError(t, err)
}

// # Password Recovery

/*
TestService_ForgotPassword_ResetFlow runs the full recovery round trip:
forgot-password, redeem the plaintext token, verify forced logout.
*/
func TestService_ForgotPassword_ResetFlow(t *testing.T) {
	service, store, _ := newTestService(t)
	session := registerTestUser(t, service)

	reset, err := service.ForgotPassword(context.Background(), "rahim@nicaa.org")
	require.NoError(t, err)
	require.NotEmpty(t, reset.Token)
	assert.Equal(t, session.User.ID, reset.User.ID)

	// Only the digest is persisted, never the plaintext
	stored := store.users[session.User.ID]
	assert.NotEmpty(t, stored.ResetTokenHash)
	assert.NotEqual(t, reset.Token, stored.ResetTokenHash)
	assert.Equal(t, sec.HashToken(reset.Token), stored.ResetTokenHash)

	// Redeem the token
	require.NoError(t, service.ResetPasswordWithToken(context.Background(), reset.Token, "Fresh123!@"))

	// Reset fields cleared (single use) and refresh token cleared (forced logout)
	stored = store.users[session.User.ID]
	assert.Empty(t, stored.ResetTokenHash)
	assert.Nil(t, stored.ResetTokenExpiry)
	assert.Empty(t, stored.RefreshToken)

	_, err = service.Refresh(context.Background(), session.RefreshToken)
	require.Error(t, err)

	// The token cannot be redeemed twice
	err = service.ResetPasswordWithToken(context.Background(), reset.Token, "Again123!@")
	require.Error(t, err)

	// The new password works
	_, err = service.Login(context.Background(), "01712345678", "Fresh123!@")
	require.NoError(t, err)
}

/*
TestService_ResetPasswordWithToken_Expired rejects a matching token whose
expiry has passed.
*/
func TestService_ResetPasswordWithToken_Expired(t *testing.T) {
	service, store, _ := newTestService(t)
	session := registerTestUser(t, service)

	reset, err := service.ForgotPassword(context.Background(), "rahim@nicaa.org")
	require.NoError(t, err)

	// Simulate expiry in the past
	past := time.Now().Add(-1 * time.Minute)
	store.users[session.User.ID].ResetTokenExpiry = &past

	err = service.ResetPasswordWithToken(context.Background(), reset.Token, "Fresh123!@")
	require.Error(t, err)
	assert.Equal(t, 401, apperr.As(err).HTTPStatus)
}

/*
TestService_ForgotPassword_InternalErrors verifies the sentinel errors the
handler is expected to swallow.
*/
func TestService_ForgotPassword_InternalErrors(t *testing.T) {
	service, store, _ := newTestService(t)
	session := registerTestUser(t, service)

	// Unknown identifier
	_, err := service.ForgotPassword(context.Background(), "01999999999")
	assert.ErrorIs(t, err, auth.ErrAccountNotFound)

	// Account without an email cannot receive a reset link
	store.users[session.User.ID].Email = ""
	_, err = service.ForgotPassword(context.Background(), "01712345678")
	assert.ErrorIs(t, err, auth.ErrNoEmailOnAccount)
}
