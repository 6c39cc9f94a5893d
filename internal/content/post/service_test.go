// Copyright (c) 2026 Vendora. All rights reserved.
// Author: dev@vendora.shop

package post

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendorahq/vendora/internal/platform/apperr"
	"github.com/vendorahq/vendora/internal/platform/dberr"
	"github.com/vendorahq/vendora/internal/platform/sec"
	"github.com/vendorahq/vendora/internal/security/token"
)

// memoryRepository is an in-memory Repository for service tests. Soft
// deletion is tracked in a side set, mirroring the SQL "deletedat IS NULL"
// predicates of the real store.
type memoryRepository struct {
	byID    map[string]*Post
	deleted map[string]bool
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		byID:    make(map[string]*Post),
		deleted: make(map[string]bool),
	}
}

func (repository *memoryRepository) Create(_ context.Context, post *Post) error {
	clone := *post
	repository.byID[post.ID] = &clone
	return nil
}

func (repository *memoryRepository) Update(_ context.Context, post *Post) error {
	if _, found := repository.byID[post.ID]; !found || repository.deleted[post.ID] {
		return dberr.ErrNotFound
	}
	clone := *post
	repository.byID[post.ID] = &clone
	return nil
}

func (repository *memoryRepository) SoftDelete(_ context.Context, id string) error {
	if _, found := repository.byID[id]; !found || repository.deleted[id] {
		return dberr.ErrNotFound
	}
	repository.deleted[id] = true
	return nil
}

func (repository *memoryRepository) FindByID(_ context.Context, id string) (*Post, error) {
	existing, found := repository.byID[id]
	if !found || repository.deleted[id] {
		return nil, apperr.NotFound("Post")
	}
	clone := *existing
	return &clone, nil
}

func (repository *memoryRepository) FindBySlug(_ context.Context, slugValue string) (*Post, error) {
	for id, existing := range repository.byID {
		if existing.Slug == slugValue && !repository.deleted[id] {
			clone := *existing
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("Post")
}

func (repository *memoryRepository) SlugExists(_ context.Context, slugValue, excludeID string) (bool, error) {
	for id, existing := range repository.byID {
		if existing.Slug == slugValue && !repository.deleted[id] && id != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (repository *memoryRepository) List(_ context.Context, filter Filter, limit, offset int) ([]*Post, int, error) {
	matched := make([]*Post, 0)
	for id, existing := range repository.byID {
		if repository.deleted[id] {
			continue
		}
		if filter.Status != "" && existing.Status != filter.Status {
			continue
		}
		if filter.AuthorID != "" && existing.AuthorID != filter.AuthorID {
			continue
		}
		clone := *existing
		matched = append(matched, &clone)
	}

	total := len(matched)
	if offset >= total {
		return []*Post{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func newTestService(t *testing.T) (*Service, *memoryRepository) {
	t.Helper()

	tokens, err := token.NewService("test-secret")
	require.NoError(t, err)

	repository := newMemoryRepository()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	return NewService(repository, tokens, logger), repository
}

func claims(userID string, role sec.UserRole) *sec.AuthClaims {
	return &sec.AuthClaims{UserID: userID, Role: string(role)}
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	var appError *apperr.AppError
	require.ErrorAs(t, err, &appError)
	assert.Equal(t, code, appError.Code)
}

func TestCreate_DerivesSlugFromTitle(t *testing.T) {
	service, _ := newTestService(t)

	created, err := service.Create(context.Background(), "author-1", EditorInput{
		Title:  "Spring Sale: Everything Must Gó!",
		Body:   "Details inside.",
		Status: StatusDraft,
	})

	require.NoError(t, err)
	assert.Equal(t, "spring-sale-everything-must-go", created.Slug)
	assert.Equal(t, StatusDraft, created.Status)
	assert.Nil(t, created.PublishedAt)
}

func TestCreate_KeepsRequestedSlug(t *testing.T) {
	service, _ := newTestService(t)

	created, err := service.Create(context.Background(), "author-1", EditorInput{
		Title:  "Shipping Update",
		Slug:   "shipping-2026",
		Body:   "New carriers.",
		Status: StatusDraft,
	})

	require.NoError(t, err)
	assert.Equal(t, "shipping-2026", created.Slug)
}

func TestCreate_SlugCollisionGetsSuffix(t *testing.T) {
	service, _ := newTestService(t)

	first, err := service.Create(context.Background(), "author-1", EditorInput{
		Title:  "Holiday Hours",
		Body:   "x",
		Status: StatusDraft,
	})
	require.NoError(t, err)

	second, err := service.Create(context.Background(), "author-2", EditorInput{
		Title:  "Holiday Hours",
		Body:   "y",
		Status: StatusDraft,
	})
	require.NoError(t, err)

	assert.Equal(t, "holiday-hours", first.Slug)
	assert.NotEqual(t, first.Slug, second.Slug)
	assert.Regexp(t, `^holiday-hours-[0-9a-f]{6}$`, second.Slug)
}

func TestCreate_UnusableTitleIsRejected(t *testing.T) {
	service, _ := newTestService(t)

	_, err := service.Create(context.Background(), "author-1", EditorInput{
		Title:  "!!!",
		Body:   "x",
		Status: StatusDraft,
	})

	requireCode(t, err, "UNPROCESSABLE")
}

func TestCreate_PublishingSetsTimestamp(t *testing.T) {
	service, _ := newTestService(t)

	created, err := service.Create(context.Background(), "author-1", EditorInput{
		Title:  "Launch Day",
		Body:   "We are live.",
		Status: StatusPublished,
	})

	require.NoError(t, err)
	require.NotNil(t, created.PublishedAt)
	assert.WithinDuration(t, time.Now(), *created.PublishedAt, time.Second)
}

func TestUpdate_OnlyAuthorOrModerator(t *testing.T) {
	service, _ := newTestService(t)

	created, err := service.Create(context.Background(), "author-1", EditorInput{
		Title:  "Returns Policy",
		Body:   "30 days.",
		Status: StatusDraft,
	})
	require.NoError(t, err)

	input := EditorInput{Title: "Returns Policy", Slug: created.Slug, Body: "60 days.", Status: StatusDraft}

	_, err = service.Update(context.Background(), created.ID, claims("author-2", sec.RoleAuthor), input)
	requireCode(t, err, "FORBIDDEN")

	updated, err := service.Update(context.Background(), created.ID, claims("mod-1", sec.RoleModerator), input)
	require.NoError(t, err)
	assert.Equal(t, "60 days.", updated.Body)
}

func TestUpdate_FirstPublishTimestampIsSticky(t *testing.T) {
	service, _ := newTestService(t)

	created, err := service.Create(context.Background(), "author-1", EditorInput{
		Title:  "Restock Notes",
		Body:   "x",
		Status: StatusDraft,
	})
	require.NoError(t, err)

	actor := claims("author-1", sec.RoleAuthor)

	published, err := service.Update(context.Background(), created.ID, actor, EditorInput{
		Title: created.Title, Slug: created.Slug, Body: "x", Status: StatusPublished,
	})
	require.NoError(t, err)
	require.NotNil(t, published.PublishedAt)
	firstPublication := *published.PublishedAt

	// Unpublishing and republishing keeps the original publication time.
	archived, err := service.Update(context.Background(), created.ID, actor, EditorInput{
		Title: created.Title, Slug: created.Slug, Body: "x", Status: StatusArchived,
	})
	require.NoError(t, err)
	require.NotNil(t, archived.PublishedAt)
	assert.Equal(t, firstPublication, *archived.PublishedAt)

	republished, err := service.Update(context.Background(), created.ID, actor, EditorInput{
		Title: created.Title, Slug: created.Slug, Body: "x", Status: StatusPublished,
	})
	require.NoError(t, err)
	assert.Equal(t, firstPublication, *republished.PublishedAt)
}

func TestUpdate_SlugCollisionWithOtherPost(t *testing.T) {
	service, _ := newTestService(t)

	_, err := service.Create(context.Background(), "author-1", EditorInput{
		Title: "First", Slug: "taken", Body: "x", Status: StatusDraft,
	})
	require.NoError(t, err)

	second, err := service.Create(context.Background(), "author-1", EditorInput{
		Title: "Second", Slug: "free", Body: "x", Status: StatusDraft,
	})
	require.NoError(t, err)

	actor := claims("author-1", sec.RoleAuthor)

	// Moving onto a taken slug picks a suffixed variant; keeping your own slug
	// on update never counts as a collision with yourself.
	moved, err := service.Update(context.Background(), second.ID, actor, EditorInput{
		Title: "Second", Slug: "taken", Body: "x", Status: StatusDraft,
	})
	require.NoError(t, err)
	assert.Regexp(t, `^taken-[0-9a-f]{6}$`, moved.Slug)

	unchanged, err := service.Update(context.Background(), second.ID, actor, EditorInput{
		Title: "Second", Slug: moved.Slug, Body: "x", Status: StatusDraft,
	})
	require.NoError(t, err)
	assert.Equal(t, moved.Slug, unchanged.Slug)
}

func TestDelete_ChecksOwnership(t *testing.T) {
	service, repository := newTestService(t)

	created, err := service.Create(context.Background(), "author-1", EditorInput{
		Title: "Ephemeral", Body: "x", Status: StatusDraft,
	})
	require.NoError(t, err)

	err = service.Delete(context.Background(), created.ID, claims("author-2", sec.RoleAuthor))
	requireCode(t, err, "FORBIDDEN")

	err = service.Delete(context.Background(), created.ID, claims("author-1", sec.RoleAuthor))
	require.NoError(t, err)

	_, err = repository.FindByID(context.Background(), created.ID)
	var appError *apperr.AppError
	require.True(t, errors.As(err, &appError))
}

func TestGetBySlug_DraftVisibility(t *testing.T) {
	service, _ := newTestService(t)

	created, err := service.Create(context.Background(), "author-1", EditorInput{
		Title: "Unannounced Feature", Body: "x", Status: StatusDraft,
	})
	require.NoError(t, err)

	// Anonymous readers and unrelated members get NotFound, never Forbidden.
	_, err = service.GetBySlug(context.Background(), created.Slug, nil)
	requireCode(t, err, "NOT_FOUND")

	_, err = service.GetBySlug(context.Background(), created.Slug, claims("member-1", sec.RoleMember))
	requireCode(t, err, "NOT_FOUND")

	found, err := service.GetBySlug(context.Background(), created.Slug, claims("author-1", sec.RoleAuthor))
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	found, err = service.GetBySlug(context.Background(), created.Slug, claims("mod-1", sec.RoleModerator))
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
}

func TestGetBySlug_PublishedIsPublic(t *testing.T) {
	service, _ := newTestService(t)

	created, err := service.Create(context.Background(), "author-1", EditorInput{
		Title: "Open News", Body: "x", Status: StatusPublished,
	})
	require.NoError(t, err)

	found, err := service.GetBySlug(context.Background(), created.Slug, nil)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
}

func TestListPublished_ExcludesDrafts(t *testing.T) {
	service, _ := newTestService(t)

	_, err := service.Create(context.Background(), "author-1", EditorInput{
		Title: "Visible", Body: "x", Status: StatusPublished,
	})
	require.NoError(t, err)

	_, err = service.Create(context.Background(), "author-1", EditorInput{
		Title: "Hidden", Body: "x", Status: StatusDraft,
	})
	require.NoError(t, err)

	posts, total, err := service.ListPublished(context.Background(), 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, posts, 1)
	assert.Equal(t, "visible", posts[0].Slug)
}

func TestListForEditor_ScopesByRole(t *testing.T) {
	service, _ := newTestService(t)

	_, err := service.Create(context.Background(), "author-1", EditorInput{
		Title: "Mine", Body: "x", Status: StatusDraft,
	})
	require.NoError(t, err)

	_, err = service.Create(context.Background(), "author-2", EditorInput{
		Title: "Theirs", Body: "x", Status: StatusDraft,
	})
	require.NoError(t, err)

	posts, total, err := service.ListForEditor(context.Background(), claims("author-1", sec.RoleAuthor), 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, posts, 1)
	assert.Equal(t, "mine", posts[0].Slug)

	_, total, err = service.ListForEditor(context.Background(), claims("mod-1", sec.RoleModerator), 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
}
