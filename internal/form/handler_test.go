// Copyright (c) 2026 Vendora. All rights reserved.
// Author: dev@vendora.shop

package form_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendorahq/vendora/internal/form"
)

// captchaStub scripts the gate's behavior and counts verification calls.
type captchaStub struct {
	enabled     bool
	verdict     bool
	verifyCalls int
}

func (s *captchaStub) IsEnabled() bool { return s.enabled }

func (s *captchaStub) Verify(_ context.Context, _, _ string) bool {
	s.verifyCalls++
	return s.verdict
}

// postRequest builds a form-encoded POST submission.
func postRequest(values url.Values) *http.Request {
	request := httptest.NewRequest(http.MethodPost, "/submit", strings.NewReader(values.Encode()))
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return request
}

func loginForm(csrf string) *form.Form {
	return form.NewBuilder("login").
		Add("email", form.TypeEmail, form.Options{Required: true}).
		Add("password", form.TypePassword, form.Options{Required: true, MinLength: 8}).
		WithCSRFToken(csrf).
		Build()
}

/*
TestHandle_Unsubmitted returns false for non-mutating methods and leaves the
form untouched.
*/
func TestHandle_Unsubmitted(t *testing.T) {
	handler := form.NewHandler(form.NewRegistry(), &captchaStub{})
	f := loginForm("tok")

	request := httptest.NewRequest(http.MethodGet, "/login", nil)

	assert.False(t, handler.Handle(f, request))
	assert.False(t, f.HasErrors())
	assert.Empty(t, f.String("email"))
}

/*
TestHandle_CSRF covers the constant-time token comparison stage.
*/
func TestHandle_CSRF(t *testing.T) {
	handler := form.NewHandler(form.NewRegistry(), &captchaStub{})

	t.Run("missing_token", func(t *testing.T) {
		f := loginForm("expected-token")
		ok := handler.Handle(f, postRequest(url.Values{
			"email":    {"ana@vendora.shop"},
			"password": {"s3cret-pass"},
		}))

		assert.False(t, ok)
		assert.Contains(t, f.FieldErrors(form.FieldForm), form.CodeCSRF)
	})

	t.Run("wrong_token", func(t *testing.T) {
		f := loginForm("expected-token")
		ok := handler.Handle(f, postRequest(url.Values{
			"csrf_token": {"forged"},
			"email":      {"ana@vendora.shop"},
			"password":   {"s3cret-pass"},
		}))

		assert.False(t, ok)
		assert.True(t, f.HasErrors())
	})

	t.Run("valid_token", func(t *testing.T) {
		f := loginForm("expected-token")
		ok := handler.Handle(f, postRequest(url.Values{
			"csrf_token": {"expected-token"},
			"email":      {"ana@vendora.shop"},
			"password":   {"s3cret-pass"},
		}))

		assert.True(t, ok)
		assert.False(t, f.HasErrors())
	})
}

/*
TestHandle_CaptchaGate exercises the captcha stage: declared field + enabled
service.
*/
func TestHandle_CaptchaGate(t *testing.T) {
	newCaptchaForm := func() *form.Form {
		return form.NewBuilder("login").
			Add("email", form.TypeEmail, form.Options{Required: true}).
			WithCaptcha(true).
			WithCSRFToken("tok").
			Build()
	}

	base := url.Values{
		"csrf_token": {"tok"},
		"email":      {"ana@vendora.shop"},
	}

	t.Run("missing_response_fails_without_verify_call", func(t *testing.T) {
		gate := &captchaStub{enabled: true, verdict: true}
		handler := form.NewHandler(form.NewRegistry(), gate)
		f := newCaptchaForm()

		assert.False(t, handler.Handle(f, postRequest(base)))
		assert.Contains(t, f.FieldErrors(form.FieldCaptcha), form.CodeCaptcha)
		assert.Equal(t, 0, gate.verifyCalls)
	})

	t.Run("failed_verification", func(t *testing.T) {
		gate := &captchaStub{enabled: true, verdict: false}
		handler := form.NewHandler(form.NewRegistry(), gate)
		f := newCaptchaForm()

		values := url.Values{}
		for k, v := range base {
			values[k] = v
		}
		values.Set("g-recaptcha-response", "bot-token")

		assert.False(t, handler.Handle(f, postRequest(values)))
		assert.Contains(t, f.FieldErrors(form.FieldCaptcha), form.CodeCaptcha)
		assert.Equal(t, 1, gate.verifyCalls)
	})

	t.Run("passing_verification", func(t *testing.T) {
		gate := &captchaStub{enabled: true, verdict: true}
		handler := form.NewHandler(form.NewRegistry(), gate)
		f := newCaptchaForm()

		values := url.Values{}
		for k, v := range base {
			values[k] = v
		}
		values.Set("g-recaptcha-response", "human-token")

		assert.True(t, handler.Handle(f, postRequest(values)))
	})

	t.Run("disabled_service_skips_gate", func(t *testing.T) {
		gate := &captchaStub{enabled: false}
		handler := form.NewHandler(form.NewRegistry(), gate)
		f := newCaptchaForm()

		assert.True(t, handler.Handle(f, postRequest(base)))
		assert.Equal(t, 0, gate.verifyCalls)
	})

	t.Run("form_without_captcha_field_skips_gate", func(t *testing.T) {
		gate := &captchaStub{enabled: true, verdict: false}
		handler := form.NewHandler(form.NewRegistry(), gate)
		f := loginForm("tok")

		values := url.Values{
			"csrf_token": {"tok"},
			"email":      {"ana@vendora.shop"},
			"password":   {"s3cret-pass"},
		}

		assert.True(t, handler.Handle(f, postRequest(values)))
		assert.Equal(t, 0, gate.verifyCalls)
	})
}

/*
TestHandle_FieldValidation covers required-first short-circuiting and data
population on success.
*/
func TestHandle_FieldValidation(t *testing.T) {
	handler := form.NewHandler(form.NewRegistry(), &captchaStub{})

	t.Run("required_short_circuits_other_rules", func(t *testing.T) {
		f := loginForm("tok")
		ok := handler.Handle(f, postRequest(url.Values{
			"csrf_token": {"tok"},
		}))

		assert.False(t, ok)
		// Only the required code: minlength must not pile on.
		assert.Equal(t, []string{form.CodeRequired}, f.FieldErrors("password"))
		assert.Equal(t, []string{form.CodeRequired}, f.FieldErrors("email"))
	})

	t.Run("invalid_email_and_short_password", func(t *testing.T) {
		f := loginForm("tok")
		ok := handler.Handle(f, postRequest(url.Values{
			"csrf_token": {"tok"},
			"email":      {"not-an-email"},
			"password":   {"short"},
		}))

		assert.False(t, ok)
		assert.Equal(t, []string{form.CodeInvalid}, f.FieldErrors("email"))
		assert.Equal(t, []string{form.CodeMinLength}, f.FieldErrors("password"))
	})

	t.Run("success_populates_sanitized_data", func(t *testing.T) {
		f := loginForm("tok")
		ok := handler.Handle(f, postRequest(url.Values{
			"csrf_token": {"tok"},
			"email":      {"  ana@vendora.shop  "},
			"password":   {"s3cret-pass"},
		}))

		require.True(t, ok)
		assert.True(t, f.IsValid())
		assert.Equal(t, "ana@vendora.shop", f.String("email"))
		assert.Equal(t, "s3cret-pass", f.String("password"))
	})
}

/*
TestHandle_CustomValidators runs custom rules after the built-in validator.
*/
func TestHandle_CustomValidators(t *testing.T) {
	handler := form.NewHandler(form.NewRegistry(), &captchaStub{})

	f := form.NewBuilder("coupon").
		Add("code", form.TypeText, form.Options{
			Required: true,
			Validators: []form.ValidateFunc{
				func(value any, _ form.Options) string {
					if text, _ := value.(string); !strings.HasPrefix(text, "VND-") {
						return "coupon.unknown_prefix"
					}
					return ""
				},
			},
		}).
		WithCSRFToken("tok").
		Build()

	ok := handler.Handle(f, postRequest(url.Values{
		"csrf_token": {"tok"},
		"code":       {"SAVE20"},
	}))

	assert.False(t, ok)
	assert.Equal(t, []string{"coupon.unknown_prefix"}, f.FieldErrors("code"))
}

/*
TestHandle_Observers fires the form-processed event with the final verdict
and never lets observers change it.
*/
func TestHandle_Observers(t *testing.T) {
	handler := form.NewHandler(form.NewRegistry(), &captchaStub{})

	var seenName string
	var seenAccepted []bool
	handler.Observe(func(f *form.Form, accepted bool) {
		seenName = f.Name()
		seenAccepted = append(seenAccepted, accepted)
		// Mutating the form here must not flip the already-returned verdict.
		f.AddError("email", "observer.noise")
	})

	f := loginForm("tok")
	ok := handler.Handle(f, postRequest(url.Values{
		"csrf_token": {"tok"},
		"email":      {"ana@vendora.shop"},
		"password":   {"s3cret-pass"},
	}))

	assert.True(t, ok)
	assert.Equal(t, "login", seenName)
	assert.Equal(t, []bool{true}, seenAccepted)

	rejected := loginForm("tok")
	ok = handler.Handle(rejected, postRequest(url.Values{"csrf_token": {"tok"}}))
	assert.False(t, ok)
	assert.Equal(t, []bool{true, false}, seenAccepted)
}
