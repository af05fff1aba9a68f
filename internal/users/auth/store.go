// Copyright (c) 2026 NICAA. All rights reserved.
// Author: platform@nicaa.org

package auth

import (
	"context"
	"time"
)

// # User Data Access

// UserRepository defines the data access contract for user accounts.
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByEmail returns the account with the given email.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		FindByPhone returns the account with the given phone number.

		Parameters:
		  - context: context.Context
		  - phone: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByPhone(context context.Context, phone string) (*User, error)

	/*
		FindByResetTokenHash returns the account holding the given reset token
		digest, regardless of whether the token has expired. Expiry is a
		business rule enforced by the service.

		Parameters:
		  - context: context.Context
		  - tokenHash: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByResetTokenHash(context context.Context, tokenHash string) (*User, error)

	/*
		Create persists a brand-new user account to the storage.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, user *User) error

	/*
		UpdatePassword replaces only the user's password hash.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - newHash: string

		Returns:
		  - error: Persistence failures
	*/
	UpdatePassword(context context.Context, userID, newHash string) error

	/*
		UpdateRefreshToken overwrites the single stored refresh token.
		An empty string clears it, ending the ability to silently refresh.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - refreshToken: string

		Returns:
		  - error: Persistence failures
	*/
	UpdateRefreshToken(context context.Context, userID, refreshToken string) error

	/*
		SetResetToken stores the digest and expiry of an outstanding
		password-reset token. The plaintext token is never persisted.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - tokenHash: string
		  - expiry: time.Time

		Returns:
		  - error: Persistence failures
	*/
	SetResetToken(context context.Context, userID, tokenHash string, expiry time.Time) error

	/*
		ClearResetToken removes the stored reset token digest and expiry
		after redemption (single-use guarantee).

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - error: Persistence failures
	*/
	ClearResetToken(context context.Context, userID string) error
}

// # Volatile Data Access

// DenylistRepository defines the contract for revoking access tokens before
// their natural expiry. Entries live in a shared TTL-expiring store so that
// revocation survives restarts and propagates across instances.
type DenylistRepository interface {

	/*
		Deny marks an access token as revoked for the given duration.
		The TTL should equal the token's remaining lifetime so entries
		self-clean once the token would have expired anyway.

		Parameters:
		  - context: context.Context
		  - token: string
		  - ttl: time.Duration

		Returns:
		  - error: Persistence failures
	*/
	Deny(context context.Context, token string, ttl time.Duration) error

	/*
		IsDenied reports whether an access token has been revoked.

		Parameters:
		  - context: context.Context
		  - token: string

		Returns:
		  - bool: true if the token is on the denylist
		  - error: Retrieval failures
	*/
	IsDenied(context context.Context, token string) (bool, error)
}
