// Copyright (c) 2026 NICAA. All rights reserved.
// Author: platform@nicaa.org

/*
Package auth provides the HTTP delivery layer for user identity management.

It implements the gateway for the authentication lifecycle, from account
creation to session rotation and recovery.

# Architecture

The handler acts as a thin mediation layer between the web and domain services:
  - Protocol: Standard RESTful JSON interface.
  - Security: Handles JWT orchestration and refresh token cookie injection.
  - Verification: Enforces strict input validation before passing to [Service].

This layer is strictly responsible for transport concerns (status codes, headers, JSON).
*/
package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nicaa/alumni-api/internal/platform/apperr"
	"github.com/nicaa/alumni-api/internal/platform/constants"
	"github.com/nicaa/alumni-api/internal/platform/ctxutil"
	"github.com/nicaa/alumni-api/internal/platform/middleware"
	requestutil "github.com/nicaa/alumni-api/internal/platform/request"
	"github.com/nicaa/alumni-api/internal/platform/respond"
	"github.com/nicaa/alumni-api/internal/platform/validate"
)

// # Definitions & Constructors

// ResetMailer delivers password-reset links out-of-band.
//
// Delivery failures must never surface to the forgot-password caller; the
// handler logs them server-side and responds identically either way.
type ResetMailer interface {
	SendPasswordReset(context context.Context, user *User, resetLink string) error
}

// Handler implements authentication-related HTTP endpoints.
//
// # Scope
//
// This handler manages everything related to the user lifecycle entry points
// (Registration, Login, Refresh rotation, Password Recovery).
type Handler struct {
	authService   *Service
	mailer        ResetMailer
	frontendURL   string
	secureCookies bool
}

// NewHandler constructs a new [Handler] with its service dependencies.
//
// secureCookies should be true in production so refresh cookies are only
// ever transmitted over TLS.
func NewHandler(service *Service, mailer ResetMailer, frontendURL string, secureCookies bool) *Handler {
	return &Handler{
		authService:   service,
		mailer:        mailer,
		frontendURL:   frontendURL,
		secureCookies: secureCookies,
	}
}

// Routes returns a [chi.Router] configured with authentication-specific routes.
//
// # Endpoints
//   - POST /register : Creates a new account.
//   - POST /login    : Authenticates and returns a JWT.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Post("/register", handler.register)
	router.Post("/login", handler.login)
	router.Post("/refresh-token", handler.refreshToken)
	router.Post("/check-token", handler.checkToken)
	router.Post("/forgot-password", handler.forgotPassword)
	router.Post("/reset-password-with-token", handler.resetPasswordWithToken)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/logout", handler.logout)
		r.Post("/change-password", handler.changePassword)
		r.Post("/reset-password", handler.resetPassword)
	})

	return router
}

// # Request Payloads

type registerRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type forgotPasswordRequest struct {
	Identifier string `json:"identifier"`
}

type resetPasswordWithTokenRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

type resetPasswordRequest struct {
	Password string `json:"password"`
}

// # Cookie Management

// setRefreshCookie attaches the rotating refresh token to the response,
// scoped strictly to the refresh endpoint path.
func (handler *Handler) setRefreshCookie(writer http.ResponseWriter, token string, expires time.Time) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.RefreshTokenCookieName,
		Value:    token,
		Path:     constants.RefreshTokenCookiePath,
		Expires:  expires,
		Secure:   handler.secureCookies,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// clearRefreshCookie instructs the client to drop the refresh cookie.
func (handler *Handler) clearRefreshCookie(writer http.ResponseWriter) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.RefreshTokenCookieName,
		Value:    "",
		Path:     constants.RefreshTokenCookiePath,
		MaxAge:   -1,
		Secure:   handler.secureCookies,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// bearerToken extracts the raw access token from the Authorization header.
func bearerToken(request *http.Request) string {
	header := request.Header.Get("Authorization")
	parts := strings.Split(header, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}
	return parts[1]
}

// # Handlers

/*
Register handles the creation of a new user account.

POST /api/auth/register

Description: Validates input, checks for identity conflicts, persists a new
user profile, and signs the member in immediately.

Request:
  - Body: registerRequest (FirstName, LastName, Phone, Email?, Password)

Response:
  - 200: Session: Access token and User profile + refresh cookie
  - 400: ErrInvalidJSON: Bad input, validation failure, or duplicate identity
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldFirstName, input.FirstName).
		Required(FieldLastName, input.LastName).
		Required(FieldPhone, input.Phone).
		Phone(FieldPhone, input.Phone).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, MinPasswordLength)

	if input.Email != "" {
		validator.Email(FieldEmail, input.Email)
	}

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Register(request.Context(), RegisterInput{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Phone:     input.Phone,
		Email:     input.Email,
		Password:  input.Password,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.setRefreshCookie(writer, session.RefreshToken, session.RefreshTokenExpiresAt)

	respond.OK(writer, map[string]any{
		FieldAccessToken: session.AccessToken,
		FieldUser:        session.User,
	})
}

/*
Login authenticates a user and establishes a session.

POST /api/auth/login

Description: Verifies credentials, generates JWT access tokens, and injects
a secure refresh token cookie into the response.

Request:
  - Body: loginRequest (Identifier, Password)

Response:
  - 200: Session: Access token and User profile
  - 401: ErrUnauthorized: Invalid credentials
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldIdentifier, input.Identifier)
	validator.Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Login(request.Context(), input.Identifier, input.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.setRefreshCookie(writer, session.RefreshToken, session.RefreshTokenExpiresAt)

	respond.OK(writer, map[string]any{
		FieldAccessToken: session.AccessToken,
		FieldUser:        session.User,
	})
}

/*
RefreshToken issues a new access token using a valid refresh token.

POST /api/auth/refresh-token

Description: Rotates the session by validating the refresh token cookie
against the stored value and issuing a fresh token pair.

Response:
  - 200: RefreshResponse: New access token credentials + rotated cookie
  - 401: ErrUnauthorized: Missing or invalid refresh token
*/
func (handler *Handler) refreshToken(writer http.ResponseWriter, request *http.Request) {
	cookie, err := request.Cookie(constants.RefreshTokenCookieName)
	if err != nil || cookie.Value == "" {
		respond.Error(writer, request,
			apperr.Unauthorized("Missing refresh token in cookies").WithAction(constants.ActionLogin))
		return
	}

	session, err := handler.authService.Refresh(request.Context(), cookie.Value)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.setRefreshCookie(writer, session.RefreshToken, session.RefreshTokenExpiresAt)

	respond.OK(writer, map[string]any{
		FieldAccessToken: session.AccessToken,
		FieldTokenType:   "Bearer",
		FieldExpiresIn:   int64(handler.authService.AccessTokenTTL() / time.Second),
	})
}

/*
CheckToken reports whether the caller currently holds usable credentials.

POST /api/auth/check-token

Description: Verifies the bearer access token first (including revocation
state). If it is absent or invalid, falls back to rotating the refresh cookie.
Only when BOTH credentials are unusable does the endpoint return 401 with a
machine-readable "login" action hint.

Response:
  - 200: {valid: true} or {valid: true, accessToken: <rotated>}
  - 401: ErrUnauthorized with action "login"
*/
func (handler *Handler) checkToken(writer http.ResponseWriter, request *http.Request) {

	// 1. Try the bearer access token
	if token := bearerToken(request); token != "" {
		if _, err := handler.authService.CheckAccessToken(request.Context(), token); err == nil {
			respond.OK(writer, map[string]any{FieldValid: true})
			return
		}
	}

	// 2. Fall back to refresh rotation
	cookie, err := request.Cookie(constants.RefreshTokenCookieName)
	if err == nil && cookie.Value != "" {
		session, err := handler.authService.Refresh(request.Context(), cookie.Value)
		if err == nil {
			handler.setRefreshCookie(writer, session.RefreshToken, session.RefreshTokenExpiresAt)
			respond.OK(writer, map[string]any{
				FieldValid:       true,
				FieldAccessToken: session.AccessToken,
			})
			return
		}
	}

	// 3. Nothing usable: the client must re-authenticate
	respond.Error(writer, request,
		apperr.Unauthorized("Authentication required").WithAction(constants.ActionLogin))
}

/*
Logout terminates the current user session.

POST /api/auth/logout

Description: Adds the access token to the shared denylist, clears the stored
refresh token, and removes the security cookie from the client.

Response:
  - 200: Success: Session terminated
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.Logout(request.Context(), claims.UserID(), bearerToken(request)); err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.clearRefreshCookie(writer)

	respond.Message(writer, "Logged out successfully")
}

/*
ChangePassword updates the authenticated user's password.

POST /api/auth/change-password

Description: Verifies the current password before applying a new one.

Request:
  - Body: changePasswordRequest (OldPassword, NewPassword)

Response:
  - 200: Success: Password changed
  - 401: ErrUnauthorized: Old password incorrect or authentication required
  - 400: ErrInvalidJSON: Weak password or validation failure
*/
func (handler *Handler) changePassword(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input changePasswordRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	v.Required(FieldOldPassword, input.OldPassword).
		Required(FieldNewPassword, input.NewPassword).
		MinLen(FieldNewPassword, input.NewPassword, MinPasswordLength)

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	err = handler.authService.ChangePassword(
		request.Context(),
		claims.UserID(),
		input.OldPassword,
		input.NewPassword,
	)

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Message(writer, "Password changed successfully")
}

/*
ResetPassword sets a new password for the authenticated user.

POST /api/auth/reset-password

Description: Identity is proven by the access token alone; no old password is
required. Used by the frontend's account-settings recovery flow.

Request:
  - Body: resetPasswordRequest (Password)

Response:
  - 200: Success: Password updated
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) resetPassword(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input resetPasswordRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	v.Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, MinPasswordLength)

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.ResetPassword(request.Context(), claims.UserID(), input.Password); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Message(writer, "Password updated successfully")
}

/*
ForgotPassword initiates the password recovery flow.

POST /api/auth/forgot-password

Description: Always answers with the same generic message, regardless of
whether the account exists, has an email, or the delivery failed. This is a
deliberate information-leak mitigation and must be preserved exactly.

Request:
  - Body: forgotPasswordRequest (Identifier)

Response:
  - 200: Success: Generic acknowledgement (always)
  - 400: ErrInvalidJSON: Missing identifier
*/
func (handler *Handler) forgotPassword(writer http.ResponseWriter, request *http.Request) {
	var input forgotPasswordRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	v.Required(FieldIdentifier, input.Identifier)

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	const genericMessage = "If this account exists, a reset link has been sent to its email."

	reset, err := handler.authService.ForgotPassword(request.Context(), input.Identifier)
	if err != nil {
		// Swallow ALL failures (unknown account, no email, storage errors).
		// Log server-side only; the client always sees the generic message.
		logger := ctxutil.GetLogger(request.Context())
		logger.WarnContext(request.Context(), "forgot_password_not_delivered",
			slog.String("error", err.Error()),
		)
		respond.Message(writer, genericMessage)
		return
	}

	// Deliver out-of-band. Failures here are equally invisible to the caller.
	resetLink := handler.frontendURL + "/reset-password?token=" + reset.Token
	if err := handler.mailer.SendPasswordReset(request.Context(), reset.User, resetLink); err != nil {
		logger := ctxutil.GetLogger(request.Context())
		logger.ErrorContext(request.Context(), "reset_email_send_failed",
			slog.String("user_id", reset.User.ID),
			slog.String("error", err.Error()),
		)
	}

	respond.Message(writer, genericMessage)
}

/*
ResetPasswordWithToken completes the password recovery flow.

POST /api/auth/reset-password-with-token

Description: Validates the emailed reset token and updates the user's
password, force-terminating any existing session.

Request:
  - Body: resetPasswordWithTokenRequest (Token, NewPassword)

Response:
  - 200: Success: Password updated
  - 401: ErrUnauthorized: Invalid or expired token
*/
func (handler *Handler) resetPasswordWithToken(writer http.ResponseWriter, request *http.Request) {
	var input resetPasswordWithTokenRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	v.Required(FieldToken, input.Token).
		Required(FieldNewPassword, input.NewPassword).
		MinLen(FieldNewPassword, input.NewPassword, MinPasswordLength)

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.ResetPasswordWithToken(request.Context(), input.Token, input.NewPassword); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Message(writer, "Password updated successfully")
}
