// Copyright (c) 2026 Vendora. All rights reserved.
// Author: dev@vendora.shop

package post

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendorahq/vendora/internal/form"
)

func newEditorProcessor() *form.Handler {
	return form.NewHandler(form.NewRegistry(), nil)
}

func editorPost(values url.Values) *http.Request {
	request := httptest.NewRequest(http.MethodPost, "/posts", strings.NewReader(values.Encode()))
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return request
}

func TestEditorForm_Fields(t *testing.T) {
	f := EditorForm("expected-token", nil)

	for _, name := range []string{FieldTitle, FieldSlug, FieldExcerpt, FieldBody, FieldStatus} {
		assert.True(t, f.HasField(name), "field %s should be declared", name)
	}
	assert.False(t, f.HasField(form.FieldCaptcha))
	assert.Equal(t, "expected-token", f.CSRFToken())
}

func TestEditorForm_InitialDataSeedsValues(t *testing.T) {
	f := EditorForm("expected-token", map[string]any{
		FieldTitle: "Existing Title",
		FieldSlug:  "existing-title",
	})

	assert.Equal(t, "Existing Title", f.String(FieldTitle))
	assert.Equal(t, "existing-title", f.String(FieldSlug))
}

func TestEditorForm_ValidSubmission(t *testing.T) {
	f := EditorForm("expected-token", nil)

	ok := newEditorProcessor().Handle(f, editorPost(url.Values{
		form.FieldCSRFToken: {"expected-token"},
		FieldTitle:          {"  Care Guide  "},
		FieldBody:           {"Wash cold."},
		FieldStatus:         {string(StatusDraft)},
	}))

	require.True(t, ok, "errors: %v", f.Errors())
	assert.Equal(t, "Care Guide", f.String(FieldTitle))
	assert.Equal(t, "", f.String(FieldSlug))
}

func TestEditorForm_SlugPattern(t *testing.T) {
	cases := []struct {
		slug  string
		valid bool
	}{
		{"care-guide", true},
		{"guide2026", true},
		{"", true}, // optional: empty means derive from title
		{"Care-Guide", false},
		{"care_guide", false},
		{"-leading", false},
		{"trailing-", false},
	}

	for _, testCase := range cases {
		f := EditorForm("expected-token", nil)

		ok := newEditorProcessor().Handle(f, editorPost(url.Values{
			form.FieldCSRFToken: {"expected-token"},
			FieldTitle:          {"Care Guide"},
			FieldSlug:           {testCase.slug},
			FieldBody:           {"Wash cold."},
			FieldStatus:         {string(StatusDraft)},
		}))

		if testCase.valid {
			assert.True(t, ok, "slug %q should pass, errors: %v", testCase.slug, f.Errors())
		} else {
			assert.False(t, ok, "slug %q should fail", testCase.slug)
			assert.Contains(t, f.FieldErrors(FieldSlug), form.CodePattern)
		}
	}
}

func TestEditorForm_StatusMustBeKnown(t *testing.T) {
	f := EditorForm("expected-token", nil)

	ok := newEditorProcessor().Handle(f, editorPost(url.Values{
		form.FieldCSRFToken: {"expected-token"},
		FieldTitle:          {"Care Guide"},
		FieldBody:           {"Wash cold."},
		FieldStatus:         {"live"},
	}))

	require.False(t, ok)
	assert.Contains(t, f.FieldErrors(FieldStatus), form.CodeAllowed)
}

func TestEditorForm_RequiredFields(t *testing.T) {
	f := EditorForm("expected-token", nil)

	ok := newEditorProcessor().Handle(f, editorPost(url.Values{
		form.FieldCSRFToken: {"expected-token"},
	}))

	require.False(t, ok)
	assert.Contains(t, f.FieldErrors(FieldTitle), form.CodeRequired)
	assert.Contains(t, f.FieldErrors(FieldBody), form.CodeRequired)
	assert.Contains(t, f.FieldErrors(FieldStatus), form.CodeRequired)
	assert.Empty(t, f.FieldErrors(FieldSlug))
	assert.Empty(t, f.FieldErrors(FieldExcerpt))
}
