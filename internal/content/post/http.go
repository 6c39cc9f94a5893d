// Copyright (c) 2026 Vendora. All rights reserved.
// Author: dev@vendora.shop

package post

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vendorahq/vendora/internal/form"
	"github.com/vendorahq/vendora/internal/platform/apperr"
	"github.com/vendorahq/vendora/internal/platform/middleware"
	requestutil "github.com/vendorahq/vendora/internal/platform/request"
	"github.com/vendorahq/vendora/internal/platform/respond"
	"github.com/vendorahq/vendora/internal/platform/sec"
	"github.com/vendorahq/vendora/internal/platform/validate"
	"github.com/vendorahq/vendora/internal/security/csrf"
	"github.com/vendorahq/vendora/pkg/pagination"
)

// Handler implements the editorial content HTTP endpoints.
type Handler struct {
	service   *Service
	processor *form.Handler
	csrf      *csrf.Guard
}

// NewHandler constructs a post [Handler].
func NewHandler(service *Service, processor *form.Handler, guard *csrf.Guard) *Handler {
	return &Handler{service: service, processor: processor, csrf: guard}
}

// RegisterRoutes mounts the post routes.
//
// # Endpoints
//   - GET    /            : Public listing of published posts.
//   - GET    /{slug}      : Public single post by slug.
//   - GET    /editor      : The caller's own posts (authors see theirs, mods all).
//   - POST   /            : Create (author role).
//   - PUT    /{id}        : Update (author role; ownership checked in service).
//   - DELETE /{id}        : Soft delete (author role; ownership checked in service).
func (handler *Handler) RegisterRoutes(router chi.Router) {
	// Public
	router.Get("/", handler.listPublished)
	router.Get("/{slug}", handler.getBySlug)

	// Editorial
	router.Group(func(editorRoute chi.Router) {
		editorRoute.Use(middleware.RequireRole(sec.RoleAuthor))

		editorRoute.Get("/editor", handler.listForEditor)
		editorRoute.Post("/", handler.create)
		editorRoute.Put("/{id}", handler.update)
		editorRoute.Delete("/{id}", handler.remove)
	})
}

func (handler *Handler) listPublished(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	posts, total, err := handler.service.ListPublished(request.Context(), params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, posts, pagination.NewMeta(params.Page, params.Limit, total))
}

func (handler *Handler) getBySlug(writer http.ResponseWriter, request *http.Request) {
	slugValue := requestutil.Param(request, "slug")

	found, err := handler.service.GetBySlug(request.Context(), slugValue, requestutil.Claims(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, found)
}

func (handler *Handler) listForEditor(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)

	posts, total, err := handler.service.ListForEditor(request.Context(), claims, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, posts, pagination.NewMeta(params.Page, params.Limit, total))
}

func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	f := EditorForm(handler.csrf.Expected(request), nil)
	if !handler.processor.Handle(f, request) {
		handler.rejected(writer, request, f)
		return
	}

	created, err := handler.service.Create(request.Context(), claims.UserID, editorInput(f))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, created)
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	postID := requestutil.ID(request, "id")

	v := &validate.Validator{}
	if err := v.UUID("id", postID).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	f := EditorForm(handler.csrf.Expected(request), nil)
	if !handler.processor.Handle(f, request) {
		handler.rejected(writer, request, f)
		return
	}

	updated, err := handler.service.Update(request.Context(), postID, claims, editorInput(f))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, updated)
}

func (handler *Handler) remove(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	postID := requestutil.ID(request, "id")

	v := &validate.Validator{}
	if err := v.UUID("id", postID).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), postID, claims); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// rejected writes the standard response for a form that failed processing.
func (handler *Handler) rejected(writer http.ResponseWriter, request *http.Request, f *form.Form) {
	err := f.AppError()
	if err == nil {
		err = apperr.Unprocessable("Submission failed validation")
	}
	respond.Error(writer, request, err)
}

// editorInput maps the sanitized form data onto the service input.
func editorInput(f *form.Form) EditorInput {
	return EditorInput{
		Title:   f.String(FieldTitle),
		Slug:    f.String(FieldSlug),
		Excerpt: f.String(FieldExcerpt),
		Body:    f.String(FieldBody),
		Status:  Status(f.String(FieldStatus)),
	}
}
