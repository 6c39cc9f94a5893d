// Copyright (c) 2026 Vendora. All rights reserved.
// Author: dev@vendora.shop

/*
Package auth provides the HTTP delivery layer for user identity management.

It implements the gateway for the authentication lifecycle—from account creation
to session management and recovery.

# Architecture

The handler acts as a thin mediation layer between the web and domain services:
  - Protocol: Form-encoded submissions in, RESTful JSON out.
  - Security: CSRF double-submit cookies, conditional captcha gating, JWT
    orchestration and refresh token cookie injection.
  - Verification: Every public flow runs through the declarative form pipeline
    before reaching [Service].

This layer is strictly responsible for transport concerns (status codes, headers, JSON).
*/
package auth

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vendorahq/vendora/internal/form"
	"github.com/vendorahq/vendora/internal/platform/apperr"
	"github.com/vendorahq/vendora/internal/platform/constants"
	"github.com/vendorahq/vendora/internal/platform/middleware"
	requestutil "github.com/vendorahq/vendora/internal/platform/request"
	"github.com/vendorahq/vendora/internal/platform/respond"
	"github.com/vendorahq/vendora/internal/security/csrf"
)

// # Definitions & Constructors

// Handler implements authentication-related HTTP endpoints.
//
// # Scope
//
// This handler manages everything related to the user lifecycle entry points
// (Registration, Login, Password Reset callbacks).
type Handler struct {
	authService *Service
	forms       *FormSet
	processor   *form.Handler
	csrf        *csrf.Guard
}

// NewHandler constructs a new [Handler] with its service dependencies.
func NewHandler(service *Service, forms *FormSet, processor *form.Handler, guard *csrf.Guard) *Handler {
	return &Handler{
		authService: service,
		forms:       forms,
		processor:   processor,
		csrf:        guard,
	}
}

// Routes returns a [chi.Router] configured with authentication-specific routes.
//
// # Endpoints
//   - GET  /csrf     : Issues the CSRF double-submit cookie.
//   - POST /register : Creates a new account.
//   - POST /login    : Authenticates and returns a JWT.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Get("/csrf", handler.issueCSRF)
	router.Post("/register", handler.register)
	router.Post("/login", handler.login)
	router.Post("/refresh", handler.refresh)
	router.Post("/verify-email", handler.verifyEmail)
	router.Post("/forgot-password", handler.forgotPassword)
	router.Post("/reset-password", handler.resetPassword)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/logout", handler.logout)
		r.Post("/change-password", handler.changePassword)
	})

	return router
}

// # CSRF Tokens

/*
IssueCSRF mints the CSRF double-submit token.

GET /api/v1/auth/csrf

Description: Generates an HMAC-signed token, stores it in a cookie, and echoes
it in the body. Submissions must carry the same value in the csrf_token form
field; the signature proves the cookie was minted by this server.

Response:
  - 200: csrf_token: The value to submit with every mutating form
*/
func (handler *Handler) issueCSRF(writer http.ResponseWriter, request *http.Request) {
	signed, err := handler.csrf.Issue(writer)
	if err != nil {
		respond.Error(writer, request, apperr.Internal(err))
		return
	}

	respond.OK(writer, map[string]string{
		form.FieldCSRFToken: signed,
	})
}

// rejected writes the standard response for a form that failed processing.
func rejected(writer http.ResponseWriter, request *http.Request, f *form.Form) {
	err := f.AppError()
	if err == nil {
		err = apperr.Unprocessable("Submission failed validation")
	}
	respond.Error(writer, request, err)
}

// # Account Lifecycle

/*
Register handles the creation of a new user account.

POST /api/v1/auth/register

Description: Runs the registration form (CSRF, conditional captcha, field
validation), checks for identity conflicts, and persists a new user profile.

Request:
  - Body: form fields username, email, password, display_name (+ csrf_token,
    g-recaptcha-response when challenged)

Response:
  - 201: User: Created user profile
  - 422: UNPROCESSABLE: Per-field error codes
  - 409: CONFLICT: Username or Email already exists
  - 429: RATE_LIMITED: Registration ceiling reached
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	f := handler.forms.Registration(request, handler.csrf.Expected(request))

	if !handler.processor.Handle(f, request) {
		rejected(writer, request, f)
		return
	}

	user, err := handler.authService.Register(request.Context(), RegisterInput{
		Username:    f.String(FieldUsername),
		Email:       f.String(FieldEmail),
		Password:    f.String(FieldPassword),
		DisplayName: f.String(FieldDisplayName),
		UserAgent:   request.UserAgent(),
		IPAddress:   middleware.RealIP(request),
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, user)
}

/*
Login authenticates a user and establishes a session.

POST /api/v1/auth/login

Description: Runs the login form, verifies credentials against the attempt
ceiling, generates JWT access tokens, and injects a secure refresh token
cookie into the response.

Request:
  - Body: form fields login, password (+ csrf_token, g-recaptcha-response
    when challenged)

Response:
  - 200: Session: Access token and User profile
  - 422: UNPROCESSABLE: Per-field error codes
  - 401: UNAUTHORIZED: Invalid credentials
  - 429: RATE_LIMITED: Attempt ceiling reached
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	f := handler.forms.Login(request, handler.csrf.Expected(request))

	if !handler.processor.Handle(f, request) {
		rejected(writer, request, f)
		return
	}

	session, err := handler.authService.Login(request.Context(), LoginInput{
		Login:     f.String(FieldLogin),
		Password:  f.String(FieldPassword),
		UserAgent: request.UserAgent(),
		IPAddress: middleware.RealIP(request),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	http.SetCookie(writer, &http.Cookie{
		Name:     constants.RefreshTokenCookieName,
		Value:    session.RefreshToken,
		Path:     constants.RefreshTokenCookiePath,
		Expires:  session.RefreshTokenExpiresAt,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})

	respond.OK(writer, map[string]any{
		FieldAccessToken: session.AccessToken,
		FieldUser:        session.User,
	})
}

/*
Logout terminates the current user session.

POST /api/v1/auth/logout

Description: Invalidates the refresh token (if present) and clears the
security cookies from the client.

Response:
  - 204: No Content: Session terminated
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	cookie, err := request.Cookie(constants.RefreshTokenCookieName)

	if err == nil && cookie != nil && cookie.Value != "" {
		_ = handler.authService.Logout(request.Context(), cookie.Value)
	}

	http.SetCookie(writer, &http.Cookie{
		Name:     constants.RefreshTokenCookieName,
		Value:    "",
		Path:     constants.RefreshTokenCookiePath,
		MaxAge:   -1,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})

	respond.NoContent(writer)
}

/*
Refresh issues a new access token using a valid refresh token.

POST /api/v1/auth/refresh

Description: Rotates the session by validating the refresh token cookie
and issuing a fresh access token and an updated refresh token.

Response:
  - 200: RefreshResponse: New access token credentials
  - 401: UNAUTHORIZED: Missing or invalid refresh token
*/
func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	cookie, err := request.Cookie(constants.RefreshTokenCookieName)
	if err != nil || cookie.Value == "" {
		respond.Error(writer, request, apperr.Unauthorized("Missing refresh token in cookies"))
		return
	}

	session, err := handler.authService.RefreshSession(
		request.Context(),
		cookie.Value,
		request.UserAgent(),
		middleware.RealIP(request),
	)

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	http.SetCookie(writer, &http.Cookie{
		Name:     constants.RefreshTokenCookieName,
		Value:    session.RefreshToken,
		Path:     constants.RefreshTokenCookiePath,
		Expires:  session.RefreshTokenExpiresAt,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})

	respond.OK(writer, map[string]any{
		FieldAccessToken: session.AccessToken,
		FieldTokenType:   "Bearer",
		FieldExpiresIn:   AccessTokenTTL / time.Second,
	})
}

// # Recovery & Verification

/*
VerifyEmail confirms a user's email ownership.

POST /api/v1/auth/verify-email

Description: Validates an email verification token and marks the account as verified.

Request:
  - Body: form field token (+ csrf_token)

Response:
  - 200: Success: Email verified
  - 422: UNPROCESSABLE: Missing or invalid token
*/
func (handler *Handler) verifyEmail(writer http.ResponseWriter, request *http.Request) {
	f := handler.forms.VerifyEmail(handler.csrf.Expected(request))

	if !handler.processor.Handle(f, request) {
		rejected(writer, request, f)
		return
	}

	if err := handler.authService.VerifyEmail(request.Context(), f.String(FieldToken)); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		FieldMessage: "Email verified successfully",
	})
}

/*
ForgotPassword initiates the password recovery flow.

POST /api/v1/auth/forgot-password

Description: Sends a password reset link to the provided email if the account
exists. The response is identical either way to prevent enumeration.

Request:
  - Body: form field email (+ csrf_token, g-recaptcha-response when challenged)

Response:
  - 200: Success: Generic confirmation message
  - 422: UNPROCESSABLE: Invalid email format
  - 429: RATE_LIMITED: Request ceiling reached
*/
func (handler *Handler) forgotPassword(writer http.ResponseWriter, request *http.Request) {
	f := handler.forms.ForgotPassword(request, handler.csrf.Expected(request))

	if !handler.processor.Handle(f, request) {
		rejected(writer, request, f)
		return
	}

	_, err := handler.authService.RequestPasswordReset(
		request.Context(),
		f.String(FieldEmail),
		middleware.RealIP(request),
		request.UserAgent(),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		FieldMessage: "If this email is registered, a reset link has been sent.",
	})
}

/*
ResetPassword completes the password recovery flow.

POST /api/v1/auth/reset-password

Description: Validates the reset token and updates the user's password.

Request:
  - Body: form fields token, password (+ csrf_token)

Response:
  - 200: Success: Password updated
  - 422: UNPROCESSABLE: Bad token or weak password
*/
func (handler *Handler) resetPassword(writer http.ResponseWriter, request *http.Request) {
	f := handler.forms.ResetPassword(handler.csrf.Expected(request))

	if !handler.processor.Handle(f, request) {
		rejected(writer, request, f)
		return
	}

	if err := handler.authService.ResetPassword(request.Context(), f.String(FieldToken), f.String(FieldPassword)); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		FieldMessage: "Password updated successfully",
	})
}

/*
ChangePassword updates the authenticated user's password.

POST /api/v1/auth/change-password

Description: Verifies the current password and security context before
applying a new password.

Request:
  - Body: form fields current_password, new_password (+ csrf_token)

Response:
  - 200: Success: Password changed
  - 401: UNAUTHORIZED: Session invalid or authentication required
  - 422: UNPROCESSABLE: Weak password or validation failure
*/
func (handler *Handler) changePassword(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	cookie, err := request.Cookie(constants.RefreshTokenCookieName)
	if err != nil || cookie.Value == "" {
		respond.Error(writer, request, apperr.Unauthorized("Missing active session cookie"))
		return
	}

	f := handler.forms.ChangePassword(handler.csrf.Expected(request))

	if !handler.processor.Handle(f, request) {
		rejected(writer, request, f)
		return
	}

	err = handler.authService.ChangePassword(
		request.Context(),
		claims.UserID,
		f.String(FieldCurrentPassword),
		f.String(FieldNewPassword),
		cookie.Value,
	)

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		FieldMessage: "Password changed successfully",
	})
}
