// Copyright (c) 2026 Vendora. All rights reserved.
// Author: dev@vendora.shop

/*
Package account provides the HTTP delivery layer for profile and session management.

It implements the RESTful interface for users to interact with their account
data and active sessions. Profile updates arrive as form-encoded submissions
and run through the full form pipeline (CSRF, sanitization, validation).

# Security

All /me endpoints require an active authentication session provided
by the Authenticate middleware.
*/
package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vendorahq/vendora/internal/form"
	"github.com/vendorahq/vendora/internal/platform/apperr"
	requestutil "github.com/vendorahq/vendora/internal/platform/request"
	"github.com/vendorahq/vendora/internal/platform/respond"
	"github.com/vendorahq/vendora/internal/platform/validate"
	"github.com/vendorahq/vendora/internal/security/csrf"
)

// Handler implements the HTTP layer for user account management.
type Handler struct {
	accountService *Service
	processor      *form.Handler
	csrf           *csrf.Guard
}

// NewHandler constructs a new account [Handler].
func NewHandler(service *Service, processor *form.Handler, guard *csrf.Guard) *Handler {
	return &Handler{accountService: service, processor: processor, csrf: guard}
}

// Routes returns a [chi.Router] configured with the account domain's endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Account Management
	router.Get("/me", handler.getMe)
	router.Put("/me", handler.updateMe)
	router.Delete("/me", handler.deleteMe)

	// Session Security
	router.Get("/me/sessions", handler.listSessions)
	router.Delete("/me/sessions", handler.revokeOtherSessions)
	router.Delete("/me/sessions/{id}", handler.revokeSession)

	// Public Profile discovery
	router.Get("/users/{id}", handler.getUserProfile)

	return router
}

// # User Profile Endpoints

/*
GET /api/v1/me.

Description: Retrieves the full private profile of the authenticated user.

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

/*
PUT /api/v1/me.

Description: Replaces the authenticated user's profile metadata. The
submission is form-encoded and CSRF-protected.

Request:
  - body: display_name, bio, website, avatar_url (all optional)

Response:
  - 200: User: The updated profile
  - 422: UNPROCESSABLE: Invalid input data
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) updateMe(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	f := ProfileForm(handler.csrf.Expected(request), nil)
	if !handler.processor.Handle(f, request) {
		err := f.AppError()
		if err == nil {
			err = apperr.Unprocessable("Submission failed validation")
		}
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.UpdateProfile(request.Context(), userID, ProfileInput{
		DisplayName: f.String(FieldDisplayName),
		Bio:         f.String(FieldBio),
		Website:     f.String(FieldWebsite),
		AvatarURL:   f.String(FieldAvatarURL),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
DELETE /api/v1/me.

Description: Performs a soft-deletion of the authenticated user's account.

Response:
  - 204: No Content: Account deleted successfully
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) deleteMe(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.accountService.DeleteAccount(request.Context(), userID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
GET /api/v1/users/{id}.

Description: Retrieves public profile information for a specific user.

Request:
  - id: string (UUID)

Response:
  - 200: PublicProfile: Public profile data
  - 404: ErrNotFound: User not found or account private
*/
func (handler *Handler) getUserProfile(writer http.ResponseWriter, request *http.Request) {
	userID := chi.URLParam(request, "id")
	if userID == "" {
		respond.Error(writer, request, apperr.NotFound("User"))
		return
	}

	profile, err := handler.accountService.GetPublicProfile(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profile)
}

// # Session Security Endpoints

/*
GET /api/v1/me/sessions.

Description: Enumerates all devices currently authenticated into the user's account.

Response:
  - 200: []SessionInfo: List of active device sessions
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) listSessions(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	sessions, err := handler.accountService.ListSessions(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, sessions)
}

/*
DELETE /api/v1/me/sessions/{id}.

Description: Forces a sign-out on a specific device identified by its session ID.

Request:
  - id: string (Session UUID)

Response:
  - 204: No Content: Session terminated successfully
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) revokeSession(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	sessionID := chi.URLParam(request, "id")

	v := &validate.Validator{}
	if err := v.UUID("id", sessionID).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.accountService.RevokeSession(request.Context(), userID, sessionID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
DELETE /api/v1/me/sessions.

Description: Forces a sign-out on all devices except the one making the request.

Response:
  - 204: No Content: All other sessions terminated
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) revokeOtherSessions(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.accountService.RevokeOtherSessions(request.Context(), userID, ""); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
