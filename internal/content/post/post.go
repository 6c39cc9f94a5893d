// Copyright (c) 2026 Vendora. All rights reserved.
// Author: dev@vendora.shop

/*
Package post implements the storefront's editorial content: announcements,
guides, and campaign pages written by the shop team.

# Architecture

  - Entity: Post with a draft/published/archived lifecycle and soft deletion.
  - Service: Slug management, status transitions, and visibility rules.
  - Repository: PostgreSQL persistence under the content schema.
  - Delivery: Form-driven editor endpoints plus public read endpoints.
*/
package post

import "time"

// # Status Lifecycle

// Status is the editorial lifecycle state of a post.
type Status string

const (
	// StatusDraft is only visible to its author and moderators.
	StatusDraft Status = "draft"
	// StatusPublished is publicly visible.
	StatusPublished Status = "published"
	// StatusArchived is hidden from listings but still resolvable by slug
	// for editors.
	StatusArchived Status = "archived"
)

// Statuses lists every valid lifecycle state, in editor display order.
func Statuses() []string {
	return []string{string(StatusDraft), string(StatusPublished), string(StatusArchived)}
}

// # Domain Entity

// Post is one editorial content entry.
type Post struct {
	ID          string     `json:"id"`
	AuthorID    string     `json:"author_id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Excerpt     string     `json:"excerpt,omitempty"`
	Body        string     `json:"body"`
	Status      Status     `json:"status"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// IsPublished reports whether the post is publicly visible.
func (p *Post) IsPublished() bool {
	return p.Status == StatusPublished
}

// # Field Identifiers

const (
	FieldTitle   = "title"
	FieldSlug    = "slug"
	FieldExcerpt = "excerpt"
	FieldBody    = "body"
	FieldStatus  = "status"
)
