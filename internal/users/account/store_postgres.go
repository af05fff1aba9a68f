// Copyright (c) 2026 NICAA. All rights reserved.
// Author: platform@nicaa.org

/*
Package account (Postgres) implements the storage layer for account
administration over the users.account table.
*/
package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nicaa/alumni-api/internal/platform/apperr"
	"github.com/nicaa/alumni-api/internal/platform/dberr"
	"github.com/nicaa/alumni-api/internal/platform/sec"
	"github.com/nicaa/alumni-api/internal/users/auth"
)

// directoryColumns is the SELECT list for the administrative account view.
// The password hash is carried so partial updates can write it back intact;
// token material is excluded.
const directoryColumns = `
	id, firstname, lastname, phone, COALESCE(email, ''), passwordhash,
	role, usertype, membershipcategory, status, createdat, updatedat`

// PostgresDirectoryRepository implements [DirectoryRepository] using pgx.
type PostgresDirectoryRepository struct {
	pool *pgxpool.Pool
}

// NewDirectoryRepository creates a new Postgres implementation for account administration.
func NewDirectoryRepository(pool *pgxpool.Pool) *PostgresDirectoryRepository {
	return &PostgresDirectoryRepository{pool: pool}
}

// scanDirectoryUser hydrates a User from a row produced with [directoryColumns].
func scanDirectoryUser(row pgx.Row) (*auth.User, error) {
	user := &auth.User{}
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
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// # DirectoryRepository Methods

/*
List retrieves a filtered, paginated page of accounts, newest first.

Parameters:
  - context: context.Context
  - filter: ListFilter

Returns:
  - []auth.User: The requested page
  - int: Total matching rows
  - error: Retrieval failures
*/
func (repository *PostgresDirectoryRepository) List(context context.Context, filter ListFilter) ([]auth.User, int, error) {
	conditions := "WHERE 1=1"
	args := []interface{}{}

	if !filter.IncludeSuperAdmins {
		conditions += fmt.Sprintf(" AND role != $%d", len(args)+1)
		args = append(args, string(sec.RoleSuperAdmin))
	}

	if filter.Search != "" {
		placeholder := len(args) + 1
		conditions += fmt.Sprintf(
			" AND (firstname ILIKE $%d OR lastname ILIKE $%d OR phone ILIKE $%d OR email ILIKE $%d)",
			placeholder, placeholder, placeholder, placeholder,
		)
		args = append(args, "%"+filter.Search+"%")
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM users.account " + conditions
	if err := repository.pool.QueryRow(context, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_accounts")
	}

	pageQuery := fmt.Sprintf(
		"SELECT %s FROM users.account %s ORDER BY createdat DESC LIMIT $%d OFFSET $%d",
		directoryColumns, conditions, len(args)+1, len(args)+2,
	)
	args = append(args, filter.Pagination.Limit, filter.Pagination.Offset())

	rows, err := repository.pool.Query(context, pageQuery, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_accounts")
	}
	defer rows.Close()

	var users []auth.User
	for rows.Next() {
		user, err := scanDirectoryUser(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_account")
		}
		users = append(users, *user)
	}

	return users, total, nil
}

/*
FindByID retrieves a single account by its primary key.

Parameters:
  - context: context.Context
  - id: string (UUID)

Returns:
  - *auth.User: Hydrated account entity
  - error: apperr.NotFound or execution failures
*/
func (repository *PostgresDirectoryRepository) FindByID(context context.Context, id string) (*auth.User, error) {
	query := "SELECT " + directoryColumns + " FROM users.account WHERE id = $1"

	user, err := scanDirectoryUser(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, dberr.Wrap(err, "get_account")
	}

	return user, nil
}

/*
PhoneInUse reports whether another account already holds a phone number.

Parameters:
  - context: context.Context
  - phone: string
  - excludeID: string

Returns:
  - bool: True when taken by a different account
  - error: Execution failures
*/
func (repository *PostgresDirectoryRepository) PhoneInUse(context context.Context, phone, excludeID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM users.account WHERE phone = $1 AND id != $2)`

	var taken bool
	if err := repository.pool.QueryRow(context, query, phone, excludeID).Scan(&taken); err != nil {
		return false, dberr.Wrap(err, "check_account_phone")
	}
	return taken, nil
}

/*
EmailInUse reports whether another account already holds an email address.

Parameters:
  - context: context.Context
  - email: string
  - excludeID: string

Returns:
  - bool: True when taken by a different account
  - error: Execution failures
*/
func (repository *PostgresDirectoryRepository) EmailInUse(context context.Context, email, excludeID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM users.account WHERE email = $1 AND id != $2)`

	var taken bool
	if err := repository.pool.QueryRow(context, query, email, excludeID).Scan(&taken); err != nil {
		return false, dberr.Wrap(err, "check_account_email")
	}
	return taken, nil
}

/*
Update persists the mutable profile and authorization fields of an account.

Parameters:
  - context: context.Context
  - user: *auth.User

Returns:
  - error: Update failures
*/
func (repository *PostgresDirectoryRepository) Update(context context.Context, user *auth.User) error {
	const query = `
		UPDATE users.account
		SET firstname = $2, lastname = $3, phone = $4, email = NULLIF($5, ''),
			passwordhash = $6, role = $7, usertype = $8, membershipcategory = $9,
			updatedat = $10
		WHERE id = $1`

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
		time.Now(),
	)
	if err != nil {
		return dberr.Wrap(err, "update_account")
	}

	return nil
}

/*
UpdateStatus switches an account's status.

Parameters:
  - context: context.Context
  - id: string
  - status: string

Returns:
  - error: Execution failures
*/
func (repository *PostgresDirectoryRepository) UpdateStatus(context context.Context, id, status string) error {
	const query = `UPDATE users.account SET status = $2, updatedat = $3 WHERE id = $1`

	_, err := repository.pool.Exec(context, query, id, status, time.Now())
	if err != nil {
		return dberr.Wrap(err, "update_account_status")
	}
	return nil
}

/*
Delete permanently removes an account row.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: Execution failures
*/
func (repository *PostgresDirectoryRepository) Delete(context context.Context, id string) error {
	const query = `DELETE FROM users.account WHERE id = $1`

	_, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_account")
	}
	return nil
}
