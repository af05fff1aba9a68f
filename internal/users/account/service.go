// Copyright (c) 2026 NICAA. All rights reserved.
// Author: platform@nicaa.org

package account

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nicaa/alumni-api/internal/platform/apperr"
	"github.com/nicaa/alumni-api/internal/platform/sec"
	"github.com/nicaa/alumni-api/internal/users/auth"
	"github.com/nicaa/alumni-api/pkg/pagination"
)

// PasswordHasher produces password digests for administrative resets.
type PasswordHasher interface {
	Hash(password string) (string, error)
}

// # Service Layer

// Service orchestrates business logic for administrative account management.
//
// Every operation receives the acting administrator's role so the SUPER_ADMIN
// visibility rule can be enforced uniformly: accounts a caller is not allowed
// to see behave exactly as if they did not exist.
type Service struct {
	directoryRepository DirectoryRepository
	passwordHasher      PasswordHasher
	logger              *slog.Logger
}

// NewService constructs a new [Service] with its dependencies.
func NewService(directoryRepo DirectoryRepository, hasher PasswordHasher, logger *slog.Logger) *Service {
	return &Service{
		directoryRepository: directoryRepo,
		passwordHasher:      hasher,
		logger:              logger,
	}
}

// visibleTo reports whether an account may be seen by an actor of the given role.
func visibleTo(actorRole sec.UserRole, user *auth.User) bool {
	if user.Role != sec.RoleSuperAdmin {
		return true
	}
	return actorRole == sec.RoleSuperAdmin
}

// # Account Listing

/*
List retrieves a paginated page of user accounts visible to the actor.

Description: SUPER_ADMIN rows are excluded from the result set entirely when
the actor holds a lower role; totals and page counts reflect the filtered view.

Parameters:
  - context: context.Context
  - actorRole: sec.UserRole (Role of the requesting administrator)
  - search: string (Optional name, phone or email fragment)
  - params: pagination.Params

Returns:
  - []auth.User: The requested page
  - pagination.Meta: Metadata over the filtered total
  - error: Retrieval failures
*/
func (service *Service) List(
	context context.Context,
	actorRole sec.UserRole,
	search string,
	params pagination.Params,
) ([]auth.User, pagination.Meta, error) {

	users, total, err := service.directoryRepository.List(context, ListFilter{
		Search:             search,
		IncludeSuperAdmins: actorRole == sec.RoleSuperAdmin,
		Pagination:         params,
	})
	if err != nil {
		return nil, pagination.Meta{}, fmt.Errorf("account_service_list_failed: %w", err)
	}

	return users, pagination.NewMeta(params.Page, params.Limit, total), nil
}

// # Account Inspection

/*
Get retrieves a single account by ID, subject to the visibility rule.

Parameters:
  - context: context.Context
  - actorRole: sec.UserRole
  - userID: string

Returns:
  - *auth.User: The hydrated account
  - error: apperr.NotFound when absent or invisible to the actor
*/
func (service *Service) Get(context context.Context, actorRole sec.UserRole, userID string) (*auth.User, error) {
	user, err := service.directoryRepository.FindByID(context, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_get_failed: %w", err)
	}

	// Hidden accounts are indistinguishable from absent ones
	if !visibleTo(actorRole, user) {
		return nil, apperr.NotFound("User not found")
	}

	return user, nil
}

// # Account Updates

// UpdateInput defines the mutable subset of account fields. Nil pointers
// leave the corresponding field untouched.
type UpdateInput struct {
	FirstName          *string
	LastName           *string
	Phone              *string
	Email              *string
	Password           *string
	Role               *string
	UserType           *string
	MembershipCategory *string
}

/*
Update applies a partial set of changes to a user account.

Description: Fetches the existing account, verifies phone and email
uniqueness against every other account, re-hashes the password when one is
supplied, and persists the merged state. Only a SUPER_ADMIN actor may touch
SUPER_ADMIN accounts or grant the SUPER_ADMIN role.

Parameters:
  - context: context.Context
  - actorRole: sec.UserRole
  - userID: string
  - input: UpdateInput

Returns:
  - *auth.User: The updated account
  - error: Duplicate phone/email, authorization or storage failures
*/
func (service *Service) Update(
	context context.Context,
	actorRole sec.UserRole,
	userID string,
	input UpdateInput,
) (*auth.User, error) {

	user, err := service.Get(context, actorRole, userID)
	if err != nil {
		return nil, err
	}

	if input.Phone != nil && *input.Phone != user.Phone {
		taken, err := service.directoryRepository.PhoneInUse(context, *input.Phone, userID)
		if err != nil {
			return nil, fmt.Errorf("account_service_phone_check_failed: %w", err)
		}
		if taken {
			return nil, apperr.BadRequest("An account with this phone number already exists")
		}
		user.Phone = *input.Phone
	}

	if input.Email != nil && *input.Email != user.Email {
		if *input.Email != "" {
			taken, err := service.directoryRepository.EmailInUse(context, *input.Email, userID)
			if err != nil {
				return nil, fmt.Errorf("account_service_email_check_failed: %w", err)
			}
			if taken {
				return nil, apperr.BadRequest("An account with this email already exists")
			}
		}
		user.Email = *input.Email
	}

	if input.Password != nil {
		hash, err := service.passwordHasher.Hash(*input.Password)
		if err != nil {
			return nil, fmt.Errorf("account_service_hash_failed: %w", err)
		}
		user.PasswordHash = hash
	}

	if input.Role != nil {
		newRole := sec.UserRole(*input.Role)
		if newRole == sec.RoleSuperAdmin && actorRole != sec.RoleSuperAdmin {
			return nil, apperr.Forbidden("Only a super admin can grant the super admin role")
		}
		user.Role = newRole
	}

	// Apply delta updates
	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.UserType != nil {
		user.UserType = sec.UserType(*input.UserType)
	}
	if input.MembershipCategory != nil {
		user.MembershipCategory = sec.MembershipCategory(*input.MembershipCategory)
	}

	if err := service.directoryRepository.Update(context, user); err != nil {
		return nil, fmt.Errorf("account_service_update_failed: %w", err)
	}

	service.logger.Info("user_account_updated", slog.String("user_id", userID))

	return user, nil
}

// # Status Management

/*
UpdateStatus switches an account between ACTIVE and INACTIVE.

Description: Deactivation is a lockout, not a deletion. The account's tokens
stop verifying at the boundary and its refresh attempts are rejected, while
the record and its data remain intact.

Parameters:
  - context: context.Context
  - actorRole: sec.UserRole
  - userID: string
  - status: sec.UserStatus

Returns:
  - *auth.User: The account with its new status
  - error: Authorization or execution failures
*/
func (service *Service) UpdateStatus(
	context context.Context,
	actorRole sec.UserRole,
	userID string,
	status sec.UserStatus,
) (*auth.User, error) {

	user, err := service.Get(context, actorRole, userID)
	if err != nil {
		return nil, err
	}

	if err := service.directoryRepository.UpdateStatus(context, userID, string(status)); err != nil {
		return nil, fmt.Errorf("account_service_update_status_failed: %w", err)
	}
	user.Status = status

	service.logger.Warn("user_status_changed",
		slog.String("user_id", userID),
		slog.String("status", string(status)),
	)

	return user, nil
}

// # Account Removal

/*
Delete permanently removes a user account.

Parameters:
  - context: context.Context
  - actorRole: sec.UserRole
  - userID: string

Returns:
  - error: Authorization or execution failures
*/
func (service *Service) Delete(context context.Context, actorRole sec.UserRole, userID string) error {

	// Visibility check doubles as an existence check
	if _, err := service.Get(context, actorRole, userID); err != nil {
		return err
	}

	if err := service.directoryRepository.Delete(context, userID); err != nil {
		return fmt.Errorf("account_service_delete_failed: %w", err)
	}

	service.logger.Warn("user_account_deleted", slog.String("user_id", userID))

	return nil
}

// # Self Service

/*
GetProfile retrieves the authenticated member's own account.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *auth.User: The hydrated account
  - error: Not found or execution failures
*/
func (service *Service) GetProfile(context context.Context, userID string) (*auth.User, error) {
	user, err := service.directoryRepository.FindByID(context, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_get_profile_failed: %w", err)
	}
	return user, nil
}
