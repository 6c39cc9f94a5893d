// Copyright (c) 2026 Vendora. All rights reserved.
// Author: dev@vendora.shop

package post

import (
	"regexp"

	"github.com/vendorahq/vendora/internal/form"
)

// slugPattern accepts lowercase ASCII slugs as produced by pkg/slug.
var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

/*
EditorForm builds the post editor submission form.

Description: One form serves both create and update; for updates the current
entity values are seeded as initial data so a re-rendered form shows them.
The slug field is optional — an empty value means "derive from the title".
No captcha: the editor endpoints already sit behind role authorization.

Parameters:
  - csrfToken: Expected CSRF token for this session
  - initial: Current entity values for updates (nil for creation)

Returns:
  - *form.Form: Built form
*/
func EditorForm(csrfToken string, initial map[string]any) *form.Form {
	builder := form.NewBuilder("content.post_editor").
		Add(FieldTitle, form.TypeText, form.Options{
			Required:  true,
			MinLength: 3,
			MaxLength: 200,
			Label:     "Title",
		}).
		Add(FieldSlug, form.TypeText, form.Options{
			MaxLength: 220,
			Pattern:   slugPattern,
			Label:     "Slug",
		}).
		Add(FieldExcerpt, form.TypeText, form.Options{
			MaxLength: 500,
			Label:     "Excerpt",
		}).
		Add(FieldBody, form.TypeText, form.Options{
			Required: true,
			Label:    "Body",
		}).
		Add(FieldStatus, form.TypeText, form.Options{
			Required: true,
			Allowed:  Statuses(),
			Label:    "Status",
		}).
		WithCSRFToken(csrfToken)

	if initial != nil {
		builder.WithInitialData(initial)
	}

	return builder.Build()
}
