// Copyright (c) 2026 NICAA. All rights reserved.
// Author: platform@nicaa.org

package sec

// # User Roles

// UserRole represents the authorization level granted to an account.
type UserRole string

const (
	// Unrestricted system access, including management of other admins
	RoleSuperAdmin UserRole = "SUPER_ADMIN"

	// Can manage platform content and regular users
	RoleAdmin UserRole = "ADMIN"

	// Default role for standard registered alumni
	RoleUser UserRole = "USER"
)

// # User Types

// UserType is the operational category of an account, orthogonal to role.
type UserType string

const (
	TypeAdmin     UserType = "ADMIN"
	TypeModerator UserType = "MODERATOR"
	TypeUser      UserType = "USER"
)

// # Account Status

// UserStatus gates every authenticated session: an INACTIVE account is
// rejected at token verification and at refresh, without deleting the record.
type UserStatus string

const (
	StatusActive   UserStatus = "ACTIVE"
	StatusInactive UserStatus = "INACTIVE"
)

// # Membership Categories

// MembershipCategory is the alumni-association membership tier.
type MembershipCategory string

const (
	MembershipFree      MembershipCategory = "FREE"
	MembershipYearly    MembershipCategory = "YEARLY"
	MembershipPermanent MembershipCategory = "PERMANENT"
)

// # Role Hierarchy

// AtLeast checks if the current role meets or exceeds the required target role.
func (r UserRole) AtLeast(target UserRole) bool {
	return r.level() >= target.level()
}

// level maps a role to a numeric hierarchy level for comparison logic.
func (r UserRole) level() int {

	// Linear scale (10-40) allows for future intermediate roles
	switch r {
	case RoleSuperAdmin:
		return 40
	case RoleAdmin:
		return 30
	case RoleUser:
		return 10
	default:
		return 0
	}
}
