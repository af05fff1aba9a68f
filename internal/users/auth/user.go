// Copyright (c) 2026 NICAA. All rights reserved.
// Author: platform@nicaa.org

/*
Package auth implements the user identity and session management layer.

It defines the core domain entity (User) and logic for authentication,
authorization, and account lifecycle.

# Architecture

This layer is the "Truth" of the system. Entities defined here have no external
dependencies and encapsulate all business rules related to user identity.
*/
package auth

import (
	"time"

	"github.com/nicaa/alumni-api/internal/platform/sec"
)

// # Domain Entities

// User represents a registered member of the alumni association.
//
// A user holds at most one live refresh token (single active session):
// issuing a new one overwrites and thereby invalidates the previous one.
type User struct {
	ID                 string                 `json:"id"`
	FirstName          string                 `json:"firstName"`
	LastName           string                 `json:"lastName"`
	Phone              string                 `json:"phone"`
	Email              string                 `json:"email,omitempty"`
	PasswordHash       string                 `json:"-"` // Explicitly omitted from JSON for security.
	Role               sec.UserRole           `json:"role"`
	UserType           sec.UserType           `json:"userType"`
	MembershipCategory sec.MembershipCategory `json:"membershipCategory"`
	Status             sec.UserStatus         `json:"status"`
	RefreshToken       string                 `json:"-"` // Most recently issued refresh token. Omitted for security.
	ResetTokenHash     string                 `json:"-"` // SHA-256 digest of the outstanding reset token.
	ResetTokenExpiry   *time.Time             `json:"-"`
	CreatedAt          time.Time              `json:"createdAt"`
	UpdatedAt          time.Time              `json:"updatedAt"`
}

// # Token Claim Mapping

// The User entity satisfies [sec.TokenClaimsProvider] so the token issuer can
// embed identity claims without depending on this package.

func (user *User) TokenSubject() string   { return user.ID }
func (user *User) TokenEmail() string     { return user.Email }
func (user *User) TokenRole() string      { return string(user.Role) }
func (user *User) TokenStatus() string    { return string(user.Status) }
func (user *User) TokenUserType() string  { return string(user.UserType) }
func (user *User) TokenFirstName() string { return user.FirstName }
func (user *User) TokenLastName() string  { return user.LastName }

// # Field Identifiers

// Global field names for validation and identity mapping in the authentication domain.
const (
	FieldFirstName   = "firstName"
	FieldLastName    = "lastName"
	FieldPhone       = "phone"
	FieldEmail       = "email"
	FieldPassword    = "password"
	FieldIdentifier  = "identifier"
	FieldToken       = "token"
	FieldOldPassword = "oldPassword"
	FieldNewPassword = "newPassword"
	FieldAccessToken = "accessToken"
	FieldTokenType   = "tokenType"
	FieldExpiresIn   = "expiresIn"
	FieldUser        = "user"
	FieldMessage     = "message"
	FieldValid       = "valid"
)
