// Copyright (c) 2026 NICAA. All rights reserved.
// Author: platform@nicaa.org

/*
Package account handles administrative management of user accounts.

It provides functionality for platform administrators to list, inspect,
update, activate or deactivate, and remove member accounts, plus the
self-service profile endpoint for authenticated members.

# Architecture

  - Entities: This package depends on the auth package for the User entity.
  - Visibility: SUPER_ADMIN accounts are invisible to lower-privileged admins.
  - Security: Status changes take effect at the next token verification.
*/
package account

import (
	"context"

	"github.com/nicaa/alumni-api/internal/users/auth"
	"github.com/nicaa/alumni-api/pkg/pagination"
)

// # Query Types

// ListFilter narrows and pages the administrative account listing.
type ListFilter struct {
	// Search matches against name, phone and email (case-insensitive)
	Search string

	// IncludeSuperAdmins exposes SUPER_ADMIN rows; only set for SUPER_ADMIN actors
	IncludeSuperAdmins bool

	Pagination pagination.Params
}

// # Repository Contracts

// DirectoryRepository defines the persistence contract for account administration.
type DirectoryRepository interface {
	/*
		List retrieves a filtered, paginated page of user accounts.

		Parameters:
		  - context: context.Context
		  - filter: ListFilter

		Returns:
		  - []auth.User: The requested page, newest first
		  - int: Total matching rows across all pages
		  - error: Retrieval failures
	*/
	List(context context.Context, filter ListFilter) ([]auth.User, int, error)

	/*
		FindByID retrieves a user record by their unique ID.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)

		Returns:
		  - *auth.User: Loaded account entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, id string) (*auth.User, error)

	/*
		PhoneInUse reports whether a phone number belongs to another account.

		Parameters:
		  - context: context.Context
		  - phone: string
		  - excludeID: string (Account allowed to keep the number)

		Returns:
		  - bool: True when a different account already holds the number
		  - error: Retrieval failures
	*/
	PhoneInUse(context context.Context, phone, excludeID string) (bool, error)

	/*
		EmailInUse reports whether an email address belongs to another account.

		Parameters:
		  - context: context.Context
		  - email: string
		  - excludeID: string

		Returns:
		  - bool: True when a different account already holds the address
		  - error: Retrieval failures
	*/
	EmailInUse(context context.Context, email, excludeID string) (bool, error)

	/*
		Update persists the mutable profile and authorization fields of a user.

		Parameters:
		  - context: context.Context
		  - user: *auth.User (Hydrated entity with changes)

		Returns:
		  - error: Storage or constraint failures
	*/
	Update(context context.Context, user *auth.User) error

	/*
		UpdateStatus switches an account between ACTIVE and INACTIVE.

		Parameters:
		  - context: context.Context
		  - id: string
		  - status: string

		Returns:
		  - error: Execution failures
	*/
	UpdateStatus(context context.Context, id, status string) error

	/*
		Delete permanently removes a user account.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - error: Execution failures
	*/
	Delete(context context.Context, id string) error
}
