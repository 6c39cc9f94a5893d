// Copyright (c) 2026 Vendora. All rights reserved.
// Author: dev@vendora.shop

package post

import "context"

// Filter narrows post listings.
type Filter struct {
	// Status restricts results to one lifecycle state ("" means any).
	Status Status
	// AuthorID restricts results to one author ("" means any).
	AuthorID string
}

// Repository defines the persistence contract for posts.
type Repository interface {
	// Create persists a new post.
	Create(ctx context.Context, post *Post) error

	// Update persists changes to an existing post.
	Update(ctx context.Context, post *Post) error

	// SoftDelete marks the post as deleted without removing the row.
	SoftDelete(ctx context.Context, id string) error

	// FindByID returns the post with the given ID, soft-deleted rows excluded.
	FindByID(ctx context.Context, id string) (*Post, error)

	// FindBySlug returns the post with the given slug, soft-deleted rows excluded.
	FindBySlug(ctx context.Context, slug string) (*Post, error)

	// SlugExists reports whether a live post other than excludeID owns the slug.
	SlugExists(ctx context.Context, slug, excludeID string) (bool, error)

	// List returns a page of posts matching the filter, newest first, plus the
	// total match count.
	List(ctx context.Context, filter Filter, limit, offset int) ([]*Post, int, error)
}
