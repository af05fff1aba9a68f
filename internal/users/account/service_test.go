// Copyright (c) 2026 NICAA. All rights reserved.
// Author: platform@nicaa.org

package account_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nicaa/alumni-api/internal/platform/apperr"
	"github.com/nicaa/alumni-api/internal/platform/sec"
	"github.com/nicaa/alumni-api/internal/users/account"
	"github.com/nicaa/alumni-api/internal/users/auth"
	"github.com/nicaa/alumni-api/pkg/pagination"
)

// # Test Doubles

// fakeDirectory is an in-memory DirectoryRepository keyed by user ID.
type fakeDirectory struct {
	users map[string]*auth.User
	order []string
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{users: make(map[string]*auth.User)}
}

func (directory *fakeDirectory) add(user *auth.User) {
	copied := *user
	directory.users[user.ID] = &copied
	directory.order = append(directory.order, user.ID)
}

func (directory *fakeDirectory) List(_ context.Context, filter account.ListFilter) ([]auth.User, int, error) {
	var matched []auth.User
	for _, id := range directory.order {
		user := directory.users[id]
		if user.Role == sec.RoleSuperAdmin && !filter.IncludeSuperAdmins {
			continue
		}
		if filter.Search != "" {
			haystack := strings.ToLower(user.FirstName + " " + user.LastName + " " + user.Phone + " " + user.Email)
			if !strings.Contains(haystack, strings.ToLower(filter.Search)) {
				continue
			}
		}
		matched = append(matched, *user)
	}

	total := len(matched)
	offset := filter.Pagination.Offset()
	if offset > total {
		offset = total
	}
	end := offset + filter.Pagination.Limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func (directory *fakeDirectory) FindByID(_ context.Context, id string) (*auth.User, error) {
	user, ok := directory.users[id]
	if !ok {
		return nil, apperr.NotFound("User not found")
	}
	copied := *user
	return &copied, nil
}

func (directory *fakeDirectory) PhoneInUse(_ context.Context, phone, excludeID string) (bool, error) {
	for _, user := range directory.users {
		if user.Phone == phone && user.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (directory *fakeDirectory) EmailInUse(_ context.Context, email, excludeID string) (bool, error) {
	for _, user := range directory.users {
		if user.Email == email && user.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (directory *fakeDirectory) Update(_ context.Context, user *auth.User) error {
	copied := *user
	directory.users[user.ID] = &copied
	return nil
}

func (directory *fakeDirectory) UpdateStatus(_ context.Context, id, status string) error {
	directory.users[id].Status = sec.UserStatus(status)
	return nil
}

func (directory *fakeDirectory) Delete(_ context.Context, id string) error {
	delete(directory.users, id)
	for index, stored := range directory.order {
		if stored == id {
			directory.order = append(directory.order[:index], directory.order[index+1:]...)
			break
		}
	}
	return nil
}

// # Fixtures

func newTestService(t *testing.T) (*account.Service, *fakeDirectory) {
	t.Helper()

	directory := newFakeDirectory()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := account.NewService(directory, sec.NewPasswordHasher(4), logger)
	return service, directory
}

func testUser(id, phone string, role sec.UserRole) *auth.User {
	return &auth.User{
		ID:                 id,
		FirstName:          "Test",
		LastName:           "User",
		Phone:              phone,
		Email:              id + "@nicaa.org",
		PasswordHash:       "$2a$04$existinghash",
		Role:               role,
		UserType:           sec.TypeUser,
		MembershipCategory: sec.MembershipFree,
		Status:             sec.StatusActive,
		CreatedAt:          time.Now(),
		UpdatedAt:          time.Now(),
	}
}

// # Visibility Rule

/*
TestList_SuperAdminVisibility verifies that SUPER_ADMIN accounts are invisible
to ADMIN actors in listings, including the reported totals.
*/
func TestList_SuperAdminVisibility(t *testing.T) {
	service, directory := newTestService(t)
	directory.add(testUser("user-1", "01711111111", sec.RoleUser))
	directory.add(testUser("root-1", "01722222222", sec.RoleSuperAdmin))
	directory.add(testUser("admin-1", "01733333333", sec.RoleAdmin))

	params := pagination.Params{Page: 1, Limit: 20}

	// An ADMIN actor never sees the SUPER_ADMIN row
	users, meta, err := service.List(context.Background(), sec.RoleAdmin, "", params)
	require.NoError(t, err)
	assert.Len(t, users, 2)
	assert.Equal(t, 2, meta.Total)
	for _, user := range users {
		assert.NotEqual(t, sec.RoleSuperAdmin, user.Role)
	}

	// A SUPER_ADMIN actor sees everything
	users, meta, err = service.List(context.Background(), sec.RoleSuperAdmin, "", params)
	require.NoError(t, err)
	assert.Len(t, users, 3)
	assert.Equal(t, 3, meta.Total)
}

/*
TestGet_HiddenAccountBehavesAsAbsent verifies that a SUPER_ADMIN account is
indistinguishable from a missing one for lower-privileged actors.
*/
func TestGet_HiddenAccountBehavesAsAbsent(t *testing.T) {
	service, directory := newTestService(t)
	directory.add(testUser("root-1", "01722222222", sec.RoleSuperAdmin))

	_, err := service.Get(context.Background(), sec.RoleAdmin, "root-1")
	require.Error(t, err)

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, 404, appError.HTTPStatus)

	// The owner of the role sees it normally
	user, err := service.Get(context.Background(), sec.RoleSuperAdmin, "root-1")
	require.NoError(t, err)
	assert.Equal(t, "root-1", user.ID)
}

// # Updates

/*
TestUpdate_DuplicatePhoneRejected verifies that moving an account onto a phone
number held by another account fails with a 400.
*/
func TestUpdate_DuplicatePhoneRejected(t *testing.T) {
	service, directory := newTestService(t)
	directory.add(testUser("user-1", "01711111111", sec.RoleUser))
	directory.add(testUser("user-2", "01722222222", sec.RoleUser))

	takenPhone := "01722222222"
	_, err := service.Update(context.Background(), sec.RoleAdmin, "user-1", account.UpdateInput{
		Phone: &takenPhone,
	})
	require.Error(t, err)

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, 400, appError.HTTPStatus)

	// Re-submitting an account's own phone is not a duplicate
	ownPhone := "01711111111"
	_, err = service.Update(context.Background(), sec.RoleAdmin, "user-1", account.UpdateInput{
		Phone: &ownPhone,
	})
	assert.NoError(t, err)
}

/*
TestUpdate_PasswordRehash verifies that a supplied password is stored as a
fresh bcrypt digest rather than plaintext.
*/
func TestUpdate_PasswordRehash(t *testing.T) {
	service, directory := newTestService(t)
	directory.add(testUser("user-1", "01711111111", sec.RoleUser))
	originalHash := directory.users["user-1"].PasswordHash

	newPassword := "Fresh123!@"
	updated, err := service.Update(context.Background(), sec.RoleAdmin, "user-1", account.UpdateInput{
		Password: &newPassword,
	})
	require.NoError(t, err)

	stored := directory.users["user-1"].PasswordHash
	assert.NotEqual(t, originalHash, stored)
	assert.NotEqual(t, newPassword, stored)
	assert.True(t, sec.NewPasswordHasher(4).Verify(newPassword, stored))

	// Untouched fields survive the partial update
	assert.Equal(t, "01711111111", updated.Phone)
}

/*
TestUpdate_RoleEscalationDenied verifies that only a SUPER_ADMIN actor can
grant the SUPER_ADMIN role.
*/
func TestUpdate_RoleEscalationDenied(t *testing.T) {
	service, directory := newTestService(t)
	directory.add(testUser("user-1", "01711111111", sec.RoleUser))

	superRole := string(sec.RoleSuperAdmin)

	_, err := service.Update(context.Background(), sec.RoleAdmin, "user-1", account.UpdateInput{
		Role: &superRole,
	})
	require.Error(t, err)
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, 403, appError.HTTPStatus)

	_, err = service.Update(context.Background(), sec.RoleSuperAdmin, "user-1", account.UpdateInput{
		Role: &superRole,
	})
	require.NoError(t, err)
	assert.Equal(t, sec.RoleSuperAdmin, directory.users["user-1"].Role)
}

// # Status Lockout

/*
TestUpdateStatus_Lockout verifies the ACTIVE/INACTIVE switch persists without
touching the rest of the record.
*/
func TestUpdateStatus_Lockout(t *testing.T) {
	service, directory := newTestService(t)
	directory.add(testUser("user-1", "01711111111", sec.RoleUser))

	updated, err := service.UpdateStatus(context.Background(), sec.RoleAdmin, "user-1", sec.StatusInactive)
	require.NoError(t, err)
	assert.Equal(t, sec.StatusInactive, updated.Status)
	assert.Equal(t, sec.StatusInactive, directory.users["user-1"].Status)

	// The record itself survives deactivation
	assert.Equal(t, "01711111111", directory.users["user-1"].Phone)
}

// # Removal

/*
TestDelete_RespectsVisibility verifies that an ADMIN cannot delete a
SUPER_ADMIN account while a SUPER_ADMIN can.
*/
func TestDelete_RespectsVisibility(t *testing.T) {
	service, directory := newTestService(t)
	directory.add(testUser("root-1", "01722222222", sec.RoleSuperAdmin))

	err := service.Delete(context.Background(), sec.RoleAdmin, "root-1")
	require.Error(t, err)
	assert.Contains(t, directory.users, "root-1")

	err = service.Delete(context.Background(), sec.RoleSuperAdmin, "root-1")
	require.NoError(t, err)
	assert.NotContains(t, directory.users, "root-1")
}
