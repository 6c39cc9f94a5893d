// Copyright (c) 2026 Vendora. All rights reserved.
// Author: dev@vendora.shop

package captcha_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendorahq/vendora/internal/security/captcha"
	"github.com/vendorahq/vendora/internal/security/ratelimit"
)

// countingStub is an AttemptCounter with a scripted count and call counter.
type countingStub struct {
	count int
	err   error
	calls int
}

func (s *countingStub) CountRecentFailures(_ context.Context, _, _ string) (int, error) {
	s.calls++
	return s.count, s.err
}

/*
TestIsRequired_Disabled ensures a globally disabled service never requires a
challenge and never consults the attempt counter.
*/
func TestIsRequired_Disabled(t *testing.T) {
	counter := &countingStub{count: 100}
	service := captcha.NewService(captcha.Config{Enabled: false}, counter)

	assert.False(t, service.IsEnabled())
	assert.False(t, service.IsRequired(context.Background(), ratelimit.ActionLogin, "1.2.3.4"))
	assert.Equal(t, 0, counter.calls)
}

/*
TestIsRequired_Thresholds covers the per-action threshold policy.
*/
func TestIsRequired_Thresholds(t *testing.T) {
	tests := []struct {
		name       string
		thresholds map[string]int
		count      int
		required   bool
	}{
		{"below_threshold", map[string]int{"login": 3}, 2, false},
		{"at_threshold", map[string]int{"login": 3}, 3, true},
		{"zero_threshold_exempts", map[string]int{"login": 0}, 50, false},
		{"negative_threshold_exempts", map[string]int{"login": -1}, 50, false},
		{"unconfigured_uses_default", nil, captcha.DefaultFailureThreshold, true},
		{"unconfigured_below_default", nil, captcha.DefaultFailureThreshold - 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			counter := &countingStub{count: tt.count}
			service := captcha.NewService(captcha.Config{
				Enabled:    true,
				Thresholds: tt.thresholds,
			}, counter)

			assert.Equal(t, tt.required, service.IsRequired(context.Background(), "login", "ana@vendora.shop"))
		})
	}
}

/*
TestIsRequired_CounterFailure demands a challenge when counting breaks
(fail closed).
*/
func TestIsRequired_CounterFailure(t *testing.T) {
	counter := &countingStub{err: errors.New("storage down")}
	service := captcha.NewService(captcha.Config{Enabled: true}, counter)

	assert.True(t, service.IsRequired(context.Background(), "login", "ana@vendora.shop"))
}

/*
TestStaticPolicy checks the allow-list stand-in counter.
*/
func TestStaticPolicy(t *testing.T) {
	policy := captcha.NewStaticPolicy("login", "registration", "password_reset")
	service := captcha.NewService(captcha.Config{Enabled: true}, policy)

	assert.True(t, service.IsRequired(context.Background(), "login", "anyone"))
	assert.True(t, service.IsRequired(context.Background(), "registration", "anyone"))
	assert.False(t, service.IsRequired(context.Background(), "checkout", "anyone"))
}

/*
TestVerify_Disabled accepts anything, even an empty token.
*/
func TestVerify_Disabled(t *testing.T) {
	service := captcha.NewService(captcha.Config{Enabled: false}, captcha.NewStaticPolicy())

	assert.True(t, service.Verify(context.Background(), "", "1.2.3.4"))
	assert.True(t, service.Verify(context.Background(), "anything", "1.2.3.4"))
}

/*
TestVerify_EmptyToken rejects empty tokens outright when enabled, without
calling the provider.
*/
func TestVerify_EmptyToken(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	service := captcha.NewService(captcha.Config{
		Enabled:        true,
		Secret:         "shh",
		VerifyEndpoint: server.URL,
	}, captcha.NewStaticPolicy())

	assert.False(t, service.Verify(context.Background(), "", "1.2.3.4"))
	assert.False(t, called)
}

/*
TestVerify_Provider covers the siteverify wire contract: form fields sent,
v2 success flag trusted, v3 score threshold enforced.
*/
func TestVerify_Provider(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected bool
	}{
		{"v2_success", `{"success": true}`, true},
		{"v2_failure", `{"success": false}`, false},
		{"v3_above_score", `{"success": true, "score": 0.9}`, true},
		{"v3_at_score", `{"success": true, "score": 0.5}`, true},
		{"v3_below_score", `{"success": true, "score": 0.2}`, false},
		{"v3_success_false", `{"success": false, "score": 0.9}`, false},
		{"malformed_json", `{"success": tru`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				require.NoError(t, r.ParseForm())
				assert.Equal(t, "shh", r.PostFormValue("secret"))
				assert.Equal(t, "tok-123", r.PostFormValue("response"))
				assert.Equal(t, "1.2.3.4", r.PostFormValue("remoteip"))

				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			service := captcha.NewService(captcha.Config{
				Enabled:        true,
				Secret:         "shh",
				VerifyEndpoint: server.URL,
			}, captcha.NewStaticPolicy())

			assert.Equal(t, tt.expected, service.Verify(context.Background(), "tok-123", "1.2.3.4"))
		})
	}
}

/*
TestVerify_FailClosed treats provider outages as failed verification.
*/
func TestVerify_FailClosed(t *testing.T) {
	t.Run("endpoint_unreachable", func(t *testing.T) {
		service := captcha.NewService(captcha.Config{
			Enabled:        true,
			Secret:         "shh",
			VerifyEndpoint: "http://127.0.0.1:1",
		}, captcha.NewStaticPolicy())

		assert.False(t, service.Verify(context.Background(), "tok-123", "1.2.3.4"))
	})

	t.Run("http_500", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		service := captcha.NewService(captcha.Config{
			Enabled:        true,
			Secret:         "shh",
			VerifyEndpoint: server.URL,
		}, captcha.NewStaticPolicy())

		assert.False(t, service.Verify(context.Background(), "tok-123", "1.2.3.4"))
	})
}

/*
TestRender covers the three widget states: disabled, v2 div, v3 script.
*/
func TestRender(t *testing.T) {
	t.Run("disabled_renders_nothing", func(t *testing.T) {
		service := captcha.NewService(captcha.Config{Enabled: false}, captcha.NewStaticPolicy())
		assert.Empty(t, string(service.Render("login")))
	})

	t.Run("v2_div", func(t *testing.T) {
		service := captcha.NewService(captcha.Config{
			Enabled: true,
			SiteKey: "site-key",
			Version: captcha.VersionV2,
			Theme:   "dark",
		}, captcha.NewStaticPolicy())

		markup := string(service.Render("login"))
		assert.Contains(t, markup, `class="g-recaptcha"`)
		assert.Contains(t, markup, `data-sitekey="site-key"`)
		assert.Contains(t, markup, `data-theme="dark"`)
	})

	t.Run("v3_hidden_input", func(t *testing.T) {
		service := captcha.NewService(captcha.Config{
			Enabled: true,
			SiteKey: "site-key",
			Version: captcha.VersionV3,
		}, captcha.NewStaticPolicy())

		markup := string(service.Render("login"))
		assert.Contains(t, markup, `name="g-recaptcha-response"`)
		assert.Contains(t, markup, "grecaptcha.execute")
		assert.False(t, strings.Contains(markup, "g-recaptcha\" data-sitekey"))
	})
}
