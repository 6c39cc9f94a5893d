// Copyright (c) 2026 Vendora. All rights reserved.
// Author: dev@vendora.shop

package post

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vendorahq/vendora/internal/platform/apperr"
	"github.com/vendorahq/vendora/internal/platform/sec"
	"github.com/vendorahq/vendora/internal/security/token"
	"github.com/vendorahq/vendora/pkg/slug"
	"github.com/vendorahq/vendora/pkg/uuid"
)

// slugSuffixBytes is the entropy appended to a colliding slug.
const slugSuffixBytes = 3

// Service implements the editorial content use cases.
type Service struct {
	repository Repository
	tokens     *token.Service
	logger     *slog.Logger
	now        func() time.Time
}

// NewService constructs a post [Service].
func NewService(repository Repository, tokens *token.Service, logger *slog.Logger) *Service {
	return &Service{
		repository: repository,
		tokens:     tokens,
		logger:     logger,
		now:        time.Now,
	}
}

// EditorInput carries the sanitized editor form values.
type EditorInput struct {
	Title   string
	Slug    string
	Excerpt string
	Body    string
	Status  Status
}

/*
Create persists a new post for the given author.

Description: An empty slug is derived from the title; either way the slug is
made unique by appending a short random suffix on collision. Publishing sets
the publication timestamp exactly once.

Parameters:
  - ctx: context.Context
  - authorID: Authenticated author
  - input: Sanitized editor values

Returns:
  - *Post: Created entity
  - error: Validation or storage failures
*/
func (service *Service) Create(ctx context.Context, authorID string, input EditorInput) (*Post, error) {
	uniqueSlug, err := service.resolveSlug(ctx, input.Slug, input.Title, "")
	if err != nil {
		return nil, err
	}

	now := service.now()
	post := &Post{
		ID:        uuid.New(),
		AuthorID:  authorID,
		Title:     input.Title,
		Slug:      uniqueSlug,
		Excerpt:   input.Excerpt,
		Body:      input.Body,
		Status:    input.Status,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if post.Status == StatusPublished {
		post.PublishedAt = &now
	}

	if err := service.repository.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("post_service_create_failed: %w", err)
	}

	service.logger.InfoContext(ctx, "post_created",
		slog.String("post_id", post.ID),
		slog.String("slug", post.Slug),
		slog.String("status", string(post.Status)),
	)

	return post, nil
}

/*
Update applies editor values to an existing post.

Description: Only the author or a moderator may edit. The publication
timestamp is set on the first transition to published and never cleared by a
later unpublish — "published_at" records the first publication.

Parameters:
  - ctx: context.Context
  - id: Post ID
  - actor: Authenticated user claims
  - input: Sanitized editor values

Returns:
  - *Post: Updated entity
  - error: NotFound, Forbidden, or storage failures
*/
func (service *Service) Update(ctx context.Context, id string, actor *sec.AuthClaims, input EditorInput) (*Post, error) {
	post, err := service.repository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !service.canEdit(actor, post) {
		return nil, apperr.Forbidden("You cannot edit this post")
	}

	uniqueSlug, err := service.resolveSlug(ctx, input.Slug, input.Title, post.ID)
	if err != nil {
		return nil, err
	}

	now := service.now()
	post.Title = input.Title
	post.Slug = uniqueSlug
	post.Excerpt = input.Excerpt
	post.Body = input.Body
	post.UpdatedAt = now

	if input.Status == StatusPublished && post.PublishedAt == nil {
		post.PublishedAt = &now
	}
	post.Status = input.Status

	if err := service.repository.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("post_service_update_failed: %w", err)
	}

	return post, nil
}

/*
Delete soft-deletes a post.

Parameters:
  - ctx: context.Context
  - id: Post ID
  - actor: Authenticated user claims

Returns:
  - error: NotFound, Forbidden, or storage failures
*/
func (service *Service) Delete(ctx context.Context, id string, actor *sec.AuthClaims) error {
	post, err := service.repository.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if !service.canEdit(actor, post) {
		return apperr.Forbidden("You cannot delete this post")
	}

	if err := service.repository.SoftDelete(ctx, id); err != nil {
		return fmt.Errorf("post_service_delete_failed: %w", err)
	}

	return nil
}

/*
GetBySlug resolves one post for display.

Description: Unpublished posts are only visible to their author and to
moderators; everyone else receives NotFound rather than Forbidden so that
draft slugs leak nothing.

Parameters:
  - ctx: context.Context
  - slugValue: URL slug
  - actor: Authenticated user claims (nil for anonymous)

Returns:
  - *Post: Hydrated entity
  - error: NotFound or storage failures
*/
func (service *Service) GetBySlug(ctx context.Context, slugValue string, actor *sec.AuthClaims) (*Post, error) {
	post, err := service.repository.FindBySlug(ctx, slugValue)
	if err != nil {
		return nil, err
	}

	if !post.IsPublished() && !service.canEdit(actor, post) {
		return nil, apperr.NotFound("Post")
	}

	return post, nil
}

// ListPublished returns a page of published posts, newest first.
func (service *Service) ListPublished(ctx context.Context, limit, offset int) ([]*Post, int, error) {
	return service.repository.List(ctx, Filter{Status: StatusPublished}, limit, offset)
}

// ListForEditor returns a page of the author's own posts in every state.
// Moderators see everything.
func (service *Service) ListForEditor(ctx context.Context, actor *sec.AuthClaims, limit, offset int) ([]*Post, int, error) {
	filter := Filter{}
	if !sec.UserRole(actor.Role).AtLeast(sec.RoleModerator) {
		filter.AuthorID = actor.UserID
	}
	return service.repository.List(ctx, filter, limit, offset)
}

// canEdit reports whether the actor may mutate the post.
func (service *Service) canEdit(actor *sec.AuthClaims, post *Post) bool {
	if actor == nil {
		return false
	}
	if actor.UserID == post.AuthorID {
		return true
	}
	return sec.UserRole(actor.Role).AtLeast(sec.RoleModerator)
}

// resolveSlug picks the requested slug (or derives one from the title) and
// guarantees uniqueness by appending a short random suffix on collision.
func (service *Service) resolveSlug(ctx context.Context, requested, title, excludeID string) (string, error) {
	candidate := requested
	if candidate == "" {
		candidate = slug.From(title)
	}
	if candidate == "" {
		return "", apperr.Unprocessable("Title does not yield a usable slug")
	}

	taken, err := service.repository.SlugExists(ctx, candidate, excludeID)
	if err != nil {
		return "", fmt.Errorf("post_service_slug_check_failed: %w", err)
	}
	if !taken {
		return candidate, nil
	}

	suffix, err := service.tokens.Generate(slugSuffixBytes)
	if err != nil {
		return "", fmt.Errorf("post_service_slug_suffix_failed: %w", err)
	}

	return candidate + "-" + suffix, nil
}
