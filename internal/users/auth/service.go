// Copyright (c) 2026 NICAA. All rights reserved.
// Author: platform@nicaa.org

/*
Package auth implements the core identity and access management (IAM) system.

It handles everything from user registration and secure password hashing to
session lifecycle management via rotating JWT pairs and a Redis-backed
access-token denylist.

Architecture:

  - Service: Orchestrates business logic (Register, Login, Refresh, Recovery).
  - Repository: Abstracted interfaces for Postgres (Users) and Redis (Denylist).
  - Security: Leverages bcrypt and HS256-signed JWTs with split secrets.

The package ensures that identity data remains consistent and secure throughout
the platform's lifecycle.
*/
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nicaa/alumni-api/internal/platform/apperr"
	"github.com/nicaa/alumni-api/internal/platform/sec"
	"github.com/nicaa/alumni-api/pkg/uuid"
)

// # Contracts & Types

// TokenProvider defines the contract for generating and verifying security tokens.
type TokenProvider interface {
	// IssueAccessToken creates a signed short-lived JWT carrying identity claims.
	IssueAccessToken(user sec.TokenClaimsProvider) (string, error)

	// IssueRefreshToken creates a signed long-lived JWT carrying the subject only.
	IssueRefreshToken(userID string) (string, error)

	// VerifyAccessToken checks signature and expiry of an access token.
	VerifyAccessToken(tokenStr string) (*sec.AuthClaims, error)

	// VerifyRefreshToken checks signature and expiry and returns the subject.
	VerifyRefreshToken(tokenStr string) (string, error)

	// AccessTokenTTL returns the configured access token lifetime.
	AccessTokenTTL() time.Duration

	// RefreshTokenTTL returns the configured refresh token lifetime.
	RefreshTokenTTL() time.Duration
}

// PasswordHasher defines the contract for one-way password hashing.
type PasswordHasher interface {
	Hash(plainTextPassword string) (string, error)
	Verify(plainTextPassword, existingHash string) bool
}

// Internal sentinel errors for the forgot-password flow. They are swallowed
// at the HTTP boundary so the endpoint never reveals whether an account exists.
var (
	ErrAccountNotFound  = errors.New("auth_account_not_found")
	ErrNoEmailOnAccount = errors.New("auth_no_email_on_account")
)

// Service implements user authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, registration,
// or token rotation logic must be reviewed by the security team.
type Service struct {
	userRepository     UserRepository
	denylistRepository DenylistRepository
	tokenProvider      TokenProvider
	passwordHasher     PasswordHasher
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(
	userRepo UserRepository,
	denylistRepo DenylistRepository,
	tokenProv TokenProvider,
	hasher PasswordHasher,
) *Service {
	return &Service{
		userRepository:     userRepo,
		denylistRepository: denylistRepo,
		tokenProvider:      tokenProv,
		passwordHasher:     hasher,
	}
}

// AccessTokenTTL exposes the configured access token lifetime to the transport layer.
func (service *Service) AccessTokenTTL() time.Duration {
	return service.tokenProvider.AccessTokenTTL()
}

// RefreshTokenTTL exposes the configured refresh token lifetime to the transport layer.
func (service *Service) RefreshTokenTTL() time.Duration {
	return service.tokenProvider.RefreshTokenTTL()
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	FirstName string
	LastName  string
	Phone     string
	Email     string // Optional
	Password  string
}

// LoginSession represents a successfully established user session.
type LoginSession struct {
	AccessToken           string
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
	User                  *User
}

/*
Register validates, hashes, and persists a brand new user account.

Description: Enrolls a new member, handling password hashing and immediate
session establishment (access token + stored refresh token).

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *LoginSession: Created user plus transport-ready session identifiers
  - error: BadRequest (if identity exists) or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*LoginSession, error) {

	// Verify phone uniqueness. Return a client-safe duplicate error.
	_, err := service.userRepository.FindByPhone(context, input.Phone)
	if err == nil {
		return nil, apperr.BadRequest("Phone number is already registered")
	}

	// Verify email uniqueness when an email was supplied.
	if input.Email != "" {
		_, err = service.userRepository.FindByEmail(context, input.Email)
		if err == nil {
			return nil, apperr.BadRequest("Email is already registered")
		}
	}

	// Prevent storing plain-text passwords. The cost factor comes from
	// configuration to balance security and CPU during registration spikes.
	hashedPassword, err := service.passwordHasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// Construct the new User entity. Time-sortable ID to prevent PG index fragmentation.
	user := &User{
		ID:                 uuid.New(),
		FirstName:          input.FirstName,
		LastName:           input.LastName,
		Phone:              input.Phone,
		Email:              input.Email,
		PasswordHash:       hashedPassword,
		Role:               sec.RoleUser,
		UserType:           sec.TypeUser,
		MembershipCategory: sec.MembershipFree,
		Status:             sec.StatusActive,
	}

	// Persist the user to the database
	if err := service.userRepository.Create(context, user); err != nil {
		return nil, fmt.Errorf("auth_service_register_failed: %w", err)
	}

	// Establish the initial session so the frontend can sign the user in directly
	return service.establishSession(context, user)
}

// # Authentication Flow

/*
Login validates user credentials and issues security tokens.

Description: Resolves the identifier against email first, then phone, performs
constant-time password comparison, and establishes a fresh session. The stored
refresh token is overwritten, ending any previous session (single-session model).

Parameters:
  - context: context.Context
  - identifier: string (Email or Phone)
  - password: string

Returns:
  - *LoginSession: Transport-ready session identifiers
  - error: Unauthorized or internal failures
*/
func (service *Service) Login(context context.Context, identifier, password string) (*LoginSession, error) {

	// Flexible login: look up by Email first, then Phone
	user, err := service.userRepository.FindByEmail(context, identifier)
	if err != nil {
		user, err = service.userRepository.FindByPhone(context, identifier)
	}

	// If (err != nil) the user does not exist. Generic message to prevent enumeration.
	if err != nil {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	// Verify password hash using constant-time comparison in bcrypt to prevent timing attacks
	if !service.passwordHasher.Verify(password, user.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	return service.establishSession(context, user)
}

// establishSession mints an access/refresh token pair and persists the
// refresh token as the single live session for the user.
func (service *Service) establishSession(context context.Context, user *User) (*LoginSession, error) {

	// Generate short-lived Access Token
	accessToken, err := service.tokenProvider.IssueAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	// Generate long-lived Refresh Token (subject only)
	refreshToken, err := service.tokenProvider.IssueRefreshToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_token_failed: %w", err)
	}

	// Overwrite the stored refresh token. The previous session (if any) is
	// now unredeemable because its token no longer matches the stored value.
	if err := service.userRepository.UpdateRefreshToken(context, user.ID, refreshToken); err != nil {
		return nil, fmt.Errorf("auth_service_session_persist_failed: %w", err)
	}
	user.RefreshToken = refreshToken

	return &LoginSession{
		AccessToken:           accessToken,
		RefreshToken:          refreshToken,
		RefreshTokenExpiresAt: time.Now().Add(service.tokenProvider.RefreshTokenTTL()),
		User:                  user,
	}, nil
}

// # Session Management

/*
Refresh implements the Refresh Token Rotation mechanism.

Description: Verifies the presented refresh token cryptographically, re-reads
the user record to enforce fresh role/status state, checks the presented value
against the stored one (replay protection), then rotates the pair.

Parameters:
  - context: context.Context
  - presentedToken: string

Returns:
  - *LoginSession: New session credentials
  - error: Unauthorized or storage failures
*/
func (service *Service) Refresh(context context.Context, presentedToken string) (*LoginSession, error) {

	// Cryptographic verification: signature, expiry, signing method
	userID, err := service.tokenProvider.VerifyRefreshToken(presentedToken)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid or expired refresh token")
	}

	// Re-read the user so role/status changes take effect at the next refresh
	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid or expired refresh token")
	}

	// Deactivated accounts cannot renew their session
	if user.Status != sec.StatusActive {
		return nil, apperr.Unauthorized("Account is inactive")
	}

	// Replay protection: the presented value must exactly equal the single
	// stored value. A superseded token fails here even though its signature
	// is still valid.
	if user.RefreshToken == "" || user.RefreshToken != presentedToken {
		return nil, apperr.Unauthorized("Invalid or expired refresh token")
	}

	// Rotation: establish a fresh session, overwriting the stored token
	return service.establishSession(context, user)
}

/*
Logout permanently revokes the user's active session.

Description: Adds the presented access token to the shared denylist (TTL =
remaining token lifetime) and clears the stored refresh token, ending the
ability to silently refresh.

Parameters:
  - context: context.Context
  - userID: string
  - accessToken: string

Returns:
  - error: Revocation failures
*/
func (service *Service) Logout(context context.Context, userID, accessToken string) error {

	// Determine the remaining lifetime so the denylist entry self-cleans.
	// Fall back to the full TTL if the expiry cannot be read.
	ttl := service.tokenProvider.AccessTokenTTL()
	if claims, err := service.tokenProvider.VerifyAccessToken(accessToken); err == nil && claims.ExpiresAt != nil {
		if remaining := time.Until(claims.ExpiresAt.Time); remaining > 0 {
			ttl = remaining
		}
	}

	// Revoke the access token across all instances
	if err := service.denylistRepository.Deny(context, accessToken, ttl); err != nil {
		return fmt.Errorf("auth_service_logout_deny_failed: %w", err)
	}

	// Clear the stored refresh token to end the session
	if err := service.userRepository.UpdateRefreshToken(context, userID, ""); err != nil {
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}

	return nil
}

/*
CheckAccessToken verifies an access token including its revocation state.

Description: Used by the check-token endpoint and the auth boundary. A token
is usable only if its signature and expiry hold AND it is not on the denylist.

Parameters:
  - context: context.Context
  - accessToken: string

Returns:
  - *sec.AuthClaims: Verified identity claims
  - error: Unauthorized if invalid, expired, or revoked
*/
func (service *Service) CheckAccessToken(context context.Context, accessToken string) (*sec.AuthClaims, error) {

	// Cryptographic verification first
	claims, err := service.tokenProvider.VerifyAccessToken(accessToken)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid or expired token")
	}

	// Revocation check against the shared denylist
	denied, err := service.denylistRepository.IsDenied(context, accessToken)
	if err != nil {
		return nil, fmt.Errorf("auth_service_denylist_check_failed: %w", err)
	}
	if denied {
		return nil, apperr.Unauthorized("Token has been revoked")
	}

	return claims, nil
}

// # Password Management

/*
ChangePassword allows an authenticated user to update their credentials.

Description: Verifies the current password before storing the new hash.

Parameters:
  - context: context.Context
  - userID: string
  - oldPassword: string
  - newPassword: string

Returns:
  - error: Unauthorized or storage failures
*/
func (service *Service) ChangePassword(context context.Context, userID, oldPassword, newPassword string) error {

	// Fetch user by ID
	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return err
	}

	// Verify the current password before allowing change
	if !service.passwordHasher.Verify(oldPassword, user.PasswordHash) {
		return apperr.Unauthorized("Current password is incorrect")
	}

	// Hash the brand new password
	hashedPassword, err := service.passwordHasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("auth_service_change_password_hash_failed: %w", err)
	}

	// Update the database with the new hash
	if err := service.userRepository.UpdatePassword(context, userID, hashedPassword); err != nil {
		return fmt.Errorf("auth_service_change_password_update_failed: %w", err)
	}

	return nil
}

/*
ResetPassword sets a new password for an already-authenticated user.

Description: Unlike [Service.ChangePassword] this does not require the old
password; the caller must have proven identity via a valid access token.

Parameters:
  - context: context.Context
  - userID: string
  - newPassword: string

Returns:
  - error: Hashing or storage failures
*/
func (service *Service) ResetPassword(context context.Context, userID, newPassword string) error {

	// Hash the new password
	hashedPassword, err := service.passwordHasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("auth_service_reset_hash_failed: %w", err)
	}

	// Update the database with the new hash
	if err := service.userRepository.UpdatePassword(context, userID, hashedPassword); err != nil {
		return fmt.Errorf("auth_service_reset_update_failed: %w", err)
	}

	return nil
}

// # Password Recovery

// PasswordResetRequest carries the outcome of a successful forgot-password
// lookup: the account and the PLAINTEXT token for out-of-band delivery.
// The plaintext must never be logged or persisted.
type PasswordResetRequest struct {
	User  *User
	Token string
}

/*
ForgotPassword initiates the password recovery flow.

Description: Resolves the identifier (email first, then phone), generates a
high-entropy token, and stores only its SHA-256 digest with a 1-hour expiry.
The caller is responsible for delivering the plaintext by email AND for never
revealing to the client whether the account exists.

Parameters:
  - context: context.Context
  - identifier: string (Email or Phone)

Returns:
  - *PasswordResetRequest: Account and plaintext token for delivery
  - error: ErrAccountNotFound, ErrNoEmailOnAccount, or generation failures
*/
func (service *Service) ForgotPassword(context context.Context, identifier string) (*PasswordResetRequest, error) {

	// Look up by email first, then phone
	user, err := service.userRepository.FindByEmail(context, identifier)
	if err != nil {
		user, err = service.userRepository.FindByPhone(context, identifier)
	}
	if err != nil {
		return nil, ErrAccountNotFound
	}

	// Reset links are delivered by email only
	if user.Email == "" {
		return nil, ErrNoEmailOnAccount
	}

	// Generate the high-entropy reset token
	token, err := sec.GenerateSecureToken(ResetTokenLength)
	if err != nil {
		return nil, fmt.Errorf("auth_service_generate_reset_token_failed: %w", err)
	}

	// Persist only the digest plus expiry. The plaintext never touches storage.
	expiry := time.Now().Add(ResetTokenTTL)
	if err := service.userRepository.SetResetToken(context, user.ID, sec.HashToken(token), expiry); err != nil {
		return nil, fmt.Errorf("auth_service_save_reset_token_failed: %w", err)
	}

	return &PasswordResetRequest{User: user, Token: token}, nil
}

/*
ResetPasswordWithToken completes the forgot-password flow.

Description: Re-hashes the presented token and compares it against the stored
digest; both hash match and expiry must hold. On success the password is
updated, the reset fields are cleared (single use), and the stored refresh
token is cleared to force re-login everywhere.

Parameters:
  - context: context.Context
  - token: string (Plaintext from the email link)
  - newPassword: string

Returns:
  - error: Unauthorized (invalid/expired token) or update failures
*/
func (service *Service) ResetPasswordWithToken(context context.Context, token, newPassword string) error {

	// Resolve the digest to an account
	user, err := service.userRepository.FindByResetTokenHash(context, sec.HashToken(token))
	if err != nil {
		return apperr.Unauthorized("Reset token is invalid or expired")
	}

	// A matching but expired token is rejected identically
	if user.ResetTokenExpiry == nil || time.Now().After(*user.ResetTokenExpiry) {
		return apperr.Unauthorized("Reset token is invalid or expired")
	}

	// Hash the new password securely
	hashedPassword, err := service.passwordHasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("auth_service_reset_password_hash_failed: %w", err)
	}

	// Update the user's password in persistent storage
	if err := service.userRepository.UpdatePassword(context, user.ID, hashedPassword); err != nil {
		return fmt.Errorf("auth_service_reset_password_update_failed: %w", err)
	}

	// Single use: clear the reset token fields
	if err := service.userRepository.ClearResetToken(context, user.ID); err != nil {
		return fmt.Errorf("auth_service_reset_token_clear_failed: %w", err)
	}

	// Security Cleanup: clear the stored refresh token to force re-login
	if err := service.userRepository.UpdateRefreshToken(context, user.ID, ""); err != nil {
		return fmt.Errorf("auth_service_reset_session_clear_failed: %w", err)
	}

	return nil
}
