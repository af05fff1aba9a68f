// Copyright (c) 2026 NICAA. All rights reserved.
// Author: platform@nicaa.org

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing) from
// the domain logic. It acts as an Infrastructure service injected into the
// Application layer via small interfaces.
package sec

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AuthClaims represents the payload embedded inside a JWT Access Token.
//
// # Why custom claims?
//
// By embedding identity, role and status directly inside the JWT, the
// [middleware.Authenticate] chain can reconstruct the active user context
// WITHOUT querying the database on every single API request. The trade-off
// is that role/status changes only take effect at the next refresh, which is
// why refresh tokens carry the subject only and everything else is re-read
// from storage when they are redeemed.
type AuthClaims struct {
	jwt.RegisteredClaims

	Email     string `json:"email,omitempty"`
	Role      string `json:"role"`
	Status    string `json:"status"`
	UserType  string `json:"userType"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// UserID returns the token subject (the account ID).
func (claims *AuthClaims) UserID() string {
	return claims.Subject
}

// TokenClaimsProvider is the subset of identity fields the issuer embeds.
// The auth domain's User satisfies it; tests can use a lightweight stub.
type TokenClaimsProvider interface {
	TokenSubject() string
	TokenEmail() string
	TokenRole() string
	TokenStatus() string
	TokenUserType() string
	TokenFirstName() string
	TokenLastName() string
}

// TokenIssuer handles generation and verification of HS256-signed JWTs.
//
// # Key Separation
//
// Access and refresh tokens are signed with independent secrets. A leaked
// access secret therefore cannot be used to forge refresh tokens, and vice
// versa.
type TokenIssuer struct {
	accessSecret  []byte
	refreshSecret []byte
	issuer        string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewTokenIssuer creates a new TokenIssuer.
//
// Both secrets must be non-empty; configuration loading enforces this before
// the process accepts traffic.
func NewTokenIssuer(accessSecret, refreshSecret, issuer string, accessTTL, refreshTTL time.Duration) (*TokenIssuer, error) {
	if accessSecret == "" || refreshSecret == "" {
		return nil, fmt.Errorf("sec: signing secrets must not be empty")
	}
	if accessSecret == refreshSecret {
		return nil, fmt.Errorf("sec: access and refresh secrets must differ")
	}

	return &TokenIssuer{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		issuer:        issuer,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}, nil
}

// AccessTokenTTL returns the configured access token lifetime.
func (issuer *TokenIssuer) AccessTokenTTL() time.Duration {
	return issuer.accessTTL
}

// RefreshTokenTTL returns the configured refresh token lifetime.
func (issuer *TokenIssuer) RefreshTokenTTL() time.Duration {
	return issuer.refreshTTL
}

// IssueAccessToken creates a new short-lived JWT access token for a user.
func (issuer *TokenIssuer) IssueAccessToken(user TokenClaimsProvider) (string, error) {
	currentTime := time.Now()
	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.TokenSubject(),
			Issuer:    issuer.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(issuer.accessTTL)),
		},
		Email:     user.TokenEmail(),
		Role:      user.TokenRole(),
		Status:    user.TokenStatus(),
		UserType:  user.TokenUserType(),
		FirstName: user.TokenFirstName(),
		LastName:  user.TokenLastName(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(issuer.accessSecret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign access token: %w", err)
	}

	return signedToken, nil
}

// IssueRefreshToken creates a new long-lived refresh token.
//
// The payload is claim-minimal (subject only): role and status are re-read
// from the credential store on every redemption, so a demotion or
// deactivation takes effect at the next refresh.
func (issuer *TokenIssuer) IssueRefreshToken(userID string) (string, error) {
	currentTime := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		Issuer:    issuer.issuer,
		IssuedAt:  jwt.NewNumericDate(currentTime),
		ExpiresAt: jwt.NewNumericDate(currentTime.Add(issuer.refreshTTL)),
		// NumericDate has second precision, so without a unique ID two tokens
		// minted in the same second would be byte-identical and rotation
		// would not actually invalidate the previous one.
		ID: uuid.NewString(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(issuer.refreshSecret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign refresh token: %w", err)
	}

	return signedToken, nil
}

// VerifyAccessToken checks the signature and validity of an access token.
func (issuer *TokenIssuer) VerifyAccessToken(tokenString string) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{}, issuer.keyFunc(issuer.accessSecret))
	if err != nil {
		return nil, fmt.Errorf("sec: invalid access token: %w", err)
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("sec: invalid access token claims")
	}

	return claims, nil
}

// VerifyRefreshToken checks the signature and validity of a refresh token
// and returns the subject (user ID).
func (issuer *TokenIssuer) VerifyRefreshToken(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, issuer.keyFunc(issuer.refreshSecret))
	if err != nil {
		return "", fmt.Errorf("sec: invalid refresh token: %w", err)
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return "", fmt.Errorf("sec: invalid refresh token claims")
	}

	return claims.Subject, nil
}

// keyFunc builds a [jwt.Keyfunc] that rejects any non-HMAC signing method.
func (issuer *TokenIssuer) keyFunc(secret []byte) jwt.Keyfunc {
	return func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	}
}
