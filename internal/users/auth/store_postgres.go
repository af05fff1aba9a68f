// Copyright (c) 2026 NICAA. All rights reserved.
// Author: platform@nicaa.org

// Package auth: PostgreSQL storage layer for user accounts.
//
// # Architecture
//
// Repositories in this file are strictly separated from domain logic. They
// implement domain-defined interfaces (e.g., [UserRepository]) using the
// [pgxpool.Pool] connection manager.
//
// # Error Mapping
//
// Storage-specific errors (like pgx.ErrNoRows) are mapped to domain-friendly
// [apperr.AppError] types to avoid leaking storage implementation details.
package auth

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nicaa/alumni-api/internal/platform/apperr"
	"github.com/nicaa/alumni-api/internal/platform/dberr"
)

// # User Repository

// userColumns is the canonical SELECT list for hydrating a full User entity.
const userColumns = `
	id, firstname, lastname, phone, COALESCE(email, ''), passwordhash,
	role, usertype, membershipcategory, status,
	COALESCE(refreshtoken, ''), COALESCE(resettokenhash, ''), resettokenexpiry,
	createdat, updatedat`

// PostgresUserRepository implements the UserRepository interface using pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

// scanUser hydrates a User from a row produced with [userColumns].
func scanUser(row pgx.Row) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID,
		&user.FirstName,
		&user.LastName,
		&user.Phone,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.UserType,
		&user.MembershipCategory,
		&user.Status,
		&user.RefreshToken,
		&user.ResetTokenHash,
		&user.ResetTokenExpiry,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

/*
Create persists a new user record into the users.account table.

Description: Deep-persists account metadata, ensuring timestamps are initialized
if not provided.

Parameters:
  - context: context.Context
  - user: *User (Entity to persist)

Returns:
  - error: Database constraint violations or connectivity errors
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	const query = `
		INSERT INTO users.account (
			id, firstname, lastname, phone, email, passwordhash,
			role, usertype, membershipcategory, status, createdat, updatedat
		) VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, $8, $9, $10, $11, $12)`

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		user.ID,
		user.FirstName,
		user.LastName,
		user.Phone,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.UserType,
		user.MembershipCategory,
		user.Status,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "create_user")
	}

	return nil
}

/*
FindByEmail retrieves a user record by their unique email address.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	query := "SELECT " + userColumns + " FROM users.account WHERE email = $1"

	user, err := scanUser(repository.pool.QueryRow(context, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User not found with this email")
		}
		return nil, dberr.Wrap(err, "get_user_by_email")
	}

	return user, nil
}

/*
FindByPhone retrieves a user record by their unique phone number.

Parameters:
  - context: context.Context
  - phone: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByPhone(context context.Context, phone string) (*User, error) {
	query := "SELECT " + userColumns + " FROM users.account WHERE phone = $1"

	user, err := scanUser(repository.pool.QueryRow(context, query, phone))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User not found with this phone")
		}
		return nil, dberr.Wrap(err, "get_user_by_phone")
	}

	return user, nil
}

/*
FindByID retrieves a user record by their unique ID.

Description: Primary key resolution for user accounts.

Parameters:
  - context: context.Context
  - id: string (UUIDv7)

Returns:
  - *User: Hydrated account entity
  - error: Not found or execution errors
*/
func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	query := "SELECT " + userColumns + " FROM users.account WHERE id = $1"

	user, err := scanUser(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, dberr.Wrap(err, "get_user")
	}

	return user, nil
}

/*
FindByResetTokenHash retrieves the user holding a given reset token digest.

Description: Expiry is intentionally NOT filtered here so the service can
distinguish business-rule rejection from absence.

Parameters:
  - context: context.Context
  - tokenHash: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresUserRepository) FindByResetTokenHash(context context.Context, tokenHash string) (*User, error) {
	query := "SELECT " + userColumns + " FROM users.account WHERE resettokenhash = $1"

	user, err := scanUser(repository.pool.QueryRow(context, query, tokenHash))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Reset token not found")
		}
		return nil, dberr.Wrap(err, "get_user_by_reset_token")
	}

	return user, nil
}

/*
UpdatePassword updates only the password hash for a specific user.

Parameters:
  - context: context.Context
  - userID: string
  - newHash: string

Returns:
  - error: Execution errors
*/
func (repository *PostgresUserRepository) UpdatePassword(context context.Context, userID, newHash string) error {
	const query = `
		UPDATE users.account
		SET passwordhash = $2, updatedat = $3
		WHERE id = $1`

	_, err := repository.pool.Exec(context, query, userID, newHash, time.Now())
	if err != nil {
		return dberr.Wrap(err, "update_user_password")
	}

	return nil
}

/*
UpdateRefreshToken overwrites the single stored refresh token for a user.

Description: An empty string stores NULL, which ends the session entirely.

Parameters:
  - context: context.Context
  - userID: string
  - refreshToken: string

Returns:
  - error: Execution errors
*/
func (repository *PostgresUserRepository) UpdateRefreshToken(context context.Context, userID, refreshToken string) error {
	const query = `
		UPDATE users.account
		SET refreshtoken = NULLIF($2, ''), updatedat = $3
		WHERE id = $1`

	_, err := repository.pool.Exec(context, query, userID, refreshToken, time.Now())
	if err != nil {
		return dberr.Wrap(err, "update_user_refresh_token")
	}

	return nil
}

/*
SetResetToken stores the reset token digest and expiry on the user row.

Parameters:
  - context: context.Context
  - userID: string
  - tokenHash: string
  - expiry: time.Time

Returns:
  - error: Execution errors
*/
func (repository *PostgresUserRepository) SetResetToken(context context.Context, userID, tokenHash string, expiry time.Time) error {
	const query = `
		UPDATE users.account
		SET resettokenhash = $2, resettokenexpiry = $3, updatedat = $4
		WHERE id = $1`

	_, err := repository.pool.Exec(context, query, userID, tokenHash, expiry, time.Now())
	if err != nil {
		return dberr.Wrap(err, "set_user_reset_token")
	}

	return nil
}

/*
ClearResetToken removes the stored reset token digest and expiry.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: Execution errors
*/
func (repository *PostgresUserRepository) ClearResetToken(context context.Context, userID string) error {
	const query = `
		UPDATE users.account
		SET resettokenhash = NULL, resettokenexpiry = NULL, updatedat = $2
		WHERE id = $1`

	_, err := repository.pool.Exec(context, query, userID, time.Now())
	if err != nil {
		return dberr.Wrap(err, "clear_user_reset_token")
	}

	return nil
}
