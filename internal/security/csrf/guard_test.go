// Copyright (c) 2026 Vendora. All rights reserved.
// Author: dev@vendora.shop

package csrf

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendorahq/vendora/internal/platform/constants"
	"github.com/vendorahq/vendora/internal/security/token"
)

func newTestGuard(t *testing.T) *Guard {
	t.Helper()

	tokens, err := token.NewService("test-secret")
	require.NoError(t, err)

	return NewGuard(tokens)
}

func issueCookie(t *testing.T, guard *Guard) (*http.Cookie, string) {
	t.Helper()

	recorder := httptest.NewRecorder()
	signed, err := guard.Issue(recorder)
	require.NoError(t, err)

	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 1)
	return cookies[0], signed
}

func TestIssue_SetsReadableCookie(t *testing.T) {
	guard := newTestGuard(t)

	cookie, signed := issueCookie(t, guard)

	assert.Equal(t, constants.CSRFCookieName, cookie.Name)
	assert.Equal(t, signed, cookie.Value)

	// The frontend must be able to read the cookie back into the form field.
	assert.False(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
}

func TestExpected_AcceptsOwnCookie(t *testing.T) {
	guard := newTestGuard(t)
	cookie, signed := issueCookie(t, guard)

	request := httptest.NewRequest("POST", "/submit", nil)
	request.AddCookie(cookie)

	assert.Equal(t, signed, guard.Expected(request))
}

func TestExpected_RejectsTamperedCookie(t *testing.T) {
	guard := newTestGuard(t)
	cookie, signed := issueCookie(t, guard)

	// Flip the last hex digit of the signature half.
	flipped := "0"
	if strings.HasSuffix(signed, "0") {
		flipped = "1"
	}
	cookie.Value = signed[:len(signed)-1] + flipped

	request := httptest.NewRequest("POST", "/submit", nil)
	request.AddCookie(cookie)

	// A forged cookie demands a fresh value no submission can know.
	assert.NotEqual(t, cookie.Value, guard.Expected(request))
}

func TestExpected_RejectsForeignSignature(t *testing.T) {
	guard := newTestGuard(t)

	foreignTokens, err := token.NewService("other-secret")
	require.NoError(t, err)
	foreign := NewGuard(foreignTokens)

	cookie, _ := issueCookie(t, foreign)

	request := httptest.NewRequest("POST", "/submit", nil)
	request.AddCookie(cookie)

	assert.NotEqual(t, cookie.Value, guard.Expected(request))
}

func TestExpected_MissingCookieNeverMatchesSubmission(t *testing.T) {
	guard := newTestGuard(t)

	request := httptest.NewRequest("POST", "/submit", nil)

	first := guard.Expected(request)
	second := guard.Expected(request)

	assert.NotEmpty(t, first)
	// Each demand is a fresh random value, so an attacker cannot predict it.
	assert.NotEqual(t, first, second)
}
