// Copyright (c) 2026 NICAA. All rights reserved.
// Author: platform@nicaa.org

/*
Package account provides the HTTP delivery layer for account administration.

# Security

The /me endpoint requires any authenticated session; every other endpoint is
restricted to ADMIN or above via the RequireRole middleware. The SUPER_ADMIN
visibility rule is enforced in the service layer.
*/
package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nicaa/alumni-api/internal/platform/middleware"
	requestutil "github.com/nicaa/alumni-api/internal/platform/request"
	"github.com/nicaa/alumni-api/internal/platform/respond"
	"github.com/nicaa/alumni-api/internal/platform/sec"
	"github.com/nicaa/alumni-api/internal/platform/validate"
	"github.com/nicaa/alumni-api/pkg/pagination"
)

// Handler implements the HTTP layer for account administration.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new account [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// Routes returns a [chi.Router] configured with the account domain's endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Self Service
	router.Group(func(router chi.Router) {
		router.Use(middleware.RequireAuth)
		router.Get("/me", handler.getMe)
	})

	// Account Administration
	router.Group(func(router chi.Router) {
		router.Use(middleware.RequireRole(sec.RoleAdmin))

		router.Get("/", handler.listUsers)
		router.Get("/{id}", handler.getUser)
		router.Patch("/{id}", handler.updateUser)
		router.Patch("/{id}/status", handler.updateUserStatus)
		router.Delete("/{id}", handler.deleteUser)
	})

	return router
}

// actorRole extracts the authenticated administrator's role from the request.
func actorRole(request *http.Request) (sec.UserRole, error) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		return "", err
	}
	return sec.UserRole(claims.Role), nil
}

// # Self Service Endpoints

/*
GET /api/users/me.

Description: Retrieves the full private profile of the authenticated member.

Response:
  - 200: User: Fully hydrated user profile
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) getMe(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.GetProfile(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

// # Administration Endpoints

/*
GET /api/users.

Description: Lists user accounts visible to the acting administrator with
optional search and pagination.

Request:
  - search: string (Optional query parameter)
  - page, limit: int (Optional pagination)

Response:
  - 200: []User + Meta: Paginated account listing
  - 401: ErrUnauthorized: Authentication required
  - 403: ErrForbidden: Insufficient role
*/
func (handler *Handler) listUsers(writer http.ResponseWriter, request *http.Request) {
	role, err := actorRole(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)
	search := request.URL.Query().Get("search")

	users, meta, err := handler.accountService.List(request.Context(), role, search, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, users, meta)
}

/*
GET /api/users/{id}.

Description: Retrieves a single account, subject to the visibility rule.

Response:
  - 200: User: Hydrated account
  - 404: ErrNotFound: Absent or invisible account
*/
func (handler *Handler) getUser(writer http.ResponseWriter, request *http.Request) {
	role, err := actorRole(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.Get(request.Context(), role, requestutil.ID(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

// updateUserRequest defines the expected JSON payload for account updates.
type updateUserRequest struct {
	FirstName          *string `json:"firstName"`
	LastName           *string `json:"lastName"`
	Phone              *string `json:"phone"`
	Email              *string `json:"email"`
	Password           *string `json:"password"`
	Role               *string `json:"role"`
	UserType           *string `json:"userType"`
	MembershipCategory *string `json:"membershipCategory"`
}

/*
PATCH /api/users/{id}.

Description: Applies partial updates to a user account, including duplicate
phone/email checks and password re-hashing.

Request:
  - body: updateUserRequest (Partial JSON)

Response:
  - 200: User: The updated account
  - 400: ErrInvalidJSON/Validation/Duplicate: Invalid input data
  - 403: ErrForbidden: Role escalation denied
  - 404: ErrNotFound: Absent or invisible account
*/
func (handler *Handler) updateUser(writer http.ResponseWriter, request *http.Request) {
	role, err := actorRole(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateUserRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	if input.FirstName != nil {
		v.Required("firstName", *input.FirstName).MaxLen("firstName", *input.FirstName, 100)
	}
	if input.LastName != nil {
		v.Required("lastName", *input.LastName).MaxLen("lastName", *input.LastName, 100)
	}
	if input.Phone != nil {
		v.Phone("phone", *input.Phone)
	}
	if input.Email != nil && *input.Email != "" {
		v.Email("email", *input.Email)
	}
	if input.Password != nil {
		v.MinLen("password", *input.Password, 6)
	}
	if input.Role != nil {
		v.OneOf("role", *input.Role,
			string(sec.RoleSuperAdmin), string(sec.RoleAdmin), string(sec.RoleUser))
	}
	if input.UserType != nil {
		v.OneOf("userType", *input.UserType,
			string(sec.TypeAdmin), string(sec.TypeModerator), string(sec.TypeUser))
	}
	if input.MembershipCategory != nil {
		v.OneOf("membershipCategory", *input.MembershipCategory,
			string(sec.MembershipFree), string(sec.MembershipYearly), string(sec.MembershipPermanent))
	}

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.Update(request.Context(), role, requestutil.ID(request), UpdateInput{
		FirstName:          input.FirstName,
		LastName:           input.LastName,
		Phone:              input.Phone,
		Email:              input.Email,
		Password:           input.Password,
		Role:               input.Role,
		UserType:           input.UserType,
		MembershipCategory: input.MembershipCategory,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

// updateStatusRequest defines the expected JSON payload for status changes.
type updateStatusRequest struct {
	Status string `json:"status"`
}

/*
PATCH /api/users/{id}/status.

Description: Activates or deactivates a user account. A deactivated account
keeps its data but fails token verification and refresh until reactivated.

Request:
  - body: updateStatusRequest (status: ACTIVE | INACTIVE)

Response:
  - 200: User: The account with its new status
  - 400: Validation: Unknown status value
  - 404: ErrNotFound: Absent or invisible account
*/
func (handler *Handler) updateUserStatus(writer http.ResponseWriter, request *http.Request) {
	role, err := actorRole(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateStatusRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	v.OneOf("status", input.Status, string(sec.StatusActive), string(sec.StatusInactive))
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.UpdateStatus(
		request.Context(), role, requestutil.ID(request), sec.UserStatus(input.Status))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
DELETE /api/users/{id}.

Description: Permanently removes a user account.

Response:
  - 204: No Content: Account deleted successfully
  - 404: ErrNotFound: Absent or invisible account
*/
func (handler *Handler) deleteUser(writer http.ResponseWriter, request *http.Request) {
	role, err := actorRole(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.accountService.Delete(request.Context(), role, requestutil.ID(request)); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
