// Copyright (c) 2026 NICAA. All rights reserved.
// Author: platform@nicaa.org

package sec_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nicaa/alumni-api/internal/platform/sec"
)

// claimsStub satisfies [sec.TokenClaimsProvider] without the auth domain.
type claimsStub struct {
	id, email, role, status, userType, firstName, lastName string
}

func (s claimsStub) TokenSubject() string   { return s.id }
func (s claimsStub) TokenEmail() string     { return s.email }
func (s claimsStub) TokenRole() string      { return s.role }
func (s claimsStub) TokenStatus() string    { return s.status }
func (s claimsStub) TokenUserType() string  { return s.userType }
func (s claimsStub) TokenFirstName() string { return s.firstName }
func (s claimsStub) TokenLastName() string  { return s.lastName }

func newTestIssuer(t *testing.T, accessTTL time.Duration) *sec.TokenIssuer {
	t.Helper()
	issuer, err := sec.NewTokenIssuer("access-secret", "refresh-secret", "nicaa.org", accessTTL, 168*time.Hour)
	require.NoError(t, err)
	return issuer
}

/*
TestTokenIssuer_Construction enforces the fail-fast secret policy.
*/
func TestTokenIssuer_Construction(t *testing.T) {
	_, err := sec.NewTokenIssuer("", "refresh", "nicaa.org", time.Minute, time.Hour)
	assert.Error(t, err)

	_, err = sec.NewTokenIssuer("access", "", "nicaa.org", time.Minute, time.Hour)
	assert.Error(t, err)

	_, err = sec.NewTokenIssuer("same", "same", "nicaa.org", time.Minute, time.Hour)
	assert.Error(t, err)
}

/*
TestTokenIssuer_AccessRoundTrip verifies that issued access tokens decode
back to the original identity claims.
*/
func TestTokenIssuer_AccessRoundTrip(t *testing.T) {
	issuer := newTestIssuer(t, 15*time.Minute)

	stub := claimsStub{
		id:        "user-123",
		email:     "rahim@nicaa.org",
		role:      "USER",
		status:    "ACTIVE",
		userType:  "USER",
		firstName: "Rahim",
		lastName:  "Uddin",
	}

	token, err := issuer.IssueAccessToken(stub)
	require.NoError(t, err)

	claims, err := issuer.VerifyAccessToken(token)
	require.NoError(t, err)

	assert.Equal(t, "user-123", claims.UserID())
	assert.Equal(t, "rahim@nicaa.org", claims.Email)
	assert.Equal(t, "USER", claims.Role)
	assert.Equal(t, "ACTIVE", claims.Status)
	assert.Equal(t, "Rahim", claims.FirstName)
}

/*
TestTokenIssuer_KeySeparation ensures a refresh token never verifies as an
access token and vice versa.
*/
func TestTokenIssuer_KeySeparation(t *testing.T) {
	issuer := newTestIssuer(t, 15*time.Minute)

	refreshToken, err := issuer.IssueRefreshToken("user-123")
	require.NoError(t, err)

	// Valid as a refresh token
	subject, err := issuer.VerifyRefreshToken(refreshToken)
	require.NoError(t, err)
	assert.Equal(t, "user-123", subject)

	// Rejected when presented as an access token
	_, err = issuer.VerifyAccessToken(refreshToken)
	assert.Error(t, err)
}

/*
TestTokenIssuer_ExpiredAccessToken verifies expiry enforcement.
*/
func TestTokenIssuer_ExpiredAccessToken(t *testing.T) {
	issuer := newTestIssuer(t, -1*time.Minute)

	token, err := issuer.IssueAccessToken(claimsStub{id: "user-123", role: "USER", status: "ACTIVE"})
	require.NoError(t, err)

	_, err = issuer.VerifyAccessToken(token)
	assert.Error(t, err)
}

/*
TestTokenIssuer_RefreshTokensAreUnique guards the rotation contract: tokens
minted back-to-back must differ so overwriting truly invalidates the old one.
*/
func TestTokenIssuer_RefreshTokensAreUnique(t *testing.T) {
	issuer := newTestIssuer(t, 15*time.Minute)

	first, err := issuer.IssueRefreshToken("user-123")
	require.NoError(t, err)

	second, err := issuer.IssueRefreshToken("user-123")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

/*
TestGenerateSecureToken checks entropy length and hex encoding.
*/
func TestGenerateSecureToken(t *testing.T) {
	token, err := sec.GenerateSecureToken(32)
	require.NoError(t, err)
	assert.Len(t, token, 64) // 32 bytes hex-encoded

	other, err := sec.GenerateSecureToken(32)
	require.NoError(t, err)
	assert.NotEqual(t, token, other)
}

/*
TestHashToken verifies the digest is deterministic and never the identity.
*/
func TestHashToken(t *testing.T) {
	digest := sec.HashToken("some-token")
	assert.Equal(t, digest, sec.HashToken("some-token"))
	assert.NotEqual(t, "some-token", digest)
	assert.Len(t, digest, 64) // SHA-256 hex
}

/*
TestPasswordHasher covers hash and constant-time verify.
*/
func TestPasswordHasher(t *testing.T) {
	hasher := sec.NewPasswordHasher(4)

	hash, err := hasher.Hash("Abcd123!@")
	require.NoError(t, err)
	assert.NotEqual(t, "Abcd123!@", hash)

	assert.True(t, hasher.Verify("Abcd123!@", hash))
	assert.False(t, hasher.Verify("wrong", hash))
}
