// Copyright (c) 2026 Vendora. All rights reserved.
// Author: dev@vendora.shop

package account

import (
	"regexp"

	"github.com/vendorahq/vendora/internal/form"
	"github.com/vendorahq/vendora/internal/users/auth"
)

// websitePattern accepts absolute http(s) URLs only; schemeless values would
// render as relative links on the profile page.
var websitePattern = regexp.MustCompile(`^https?://\S+$`)

/*
ProfileForm builds the profile editor submission form.

Description: A full-replace form — every field is submitted on save, so the
current values are seeded as initial data. All fields are optional; an empty
submission clears the profile. No captcha: the endpoint already requires an
authenticated session.

Parameters:
  - csrfToken: Expected CSRF token for this session
  - user: Current account state (nil skips seeding)

Returns:
  - *form.Form: Built form
*/
func ProfileForm(csrfToken string, user *auth.User) *form.Form {
	builder := form.NewBuilder("account.profile").
		Add(FieldDisplayName, form.TypeText, form.Options{
			MaxLength: 50,
			Label:     "Display name",
		}).
		Add(FieldBio, form.TypeText, form.Options{
			MaxLength: 500,
			Label:     "Bio",
		}).
		Add(FieldWebsite, form.TypeText, form.Options{
			MaxLength: 255,
			Pattern:   websitePattern,
			Label:     "Website",
		}).
		Add(FieldAvatarURL, form.TypeText, form.Options{
			MaxLength: 500,
			Pattern:   websitePattern,
			Label:     "Avatar URL",
		}).
		WithCSRFToken(csrfToken)

	if user != nil {
		builder.WithInitialData(map[string]any{
			FieldDisplayName: user.DisplayName,
			FieldBio:         user.Bio,
			FieldWebsite:     user.Website,
			FieldAvatarURL:   user.AvatarURL,
		})
	}

	return builder.Build()
}
