// Copyright (c) 2026 Vendora. All rights reserved.
// Author: dev@vendora.shop

package auth

import (
	"net/http"
	"regexp"

	"github.com/vendorahq/vendora/internal/form"
	"github.com/vendorahq/vendora/internal/platform/middleware"
	"github.com/vendorahq/vendora/internal/security/captcha"
	"github.com/vendorahq/vendora/internal/security/ratelimit"
)

// ForceCaptchaParam is the query parameter that forces the challenge onto a
// form regardless of the failure-count policy. The storefront frontend sets it
// after a rejected submission so the re-rendered form always carries the
// widget the server will demand.
const ForceCaptchaParam = "show_captcha"

// usernamePattern constrains usernames to the URL-embeddable alphabet.
var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// FormSet builds the per-request submission forms for the authentication
// flows. Captcha requirement decisions are made at build time so that
// rendering and enforcement cannot disagree within one request.
type FormSet struct {
	captcha *captcha.Service
}

// NewFormSet constructs a [FormSet] around the captcha policy service.
func NewFormSet(captchaService *captcha.Service) *FormSet {
	return &FormSet{captcha: captchaService}
}

/*
Login builds the credential submission form.

Description: The captcha field is attached whenever the service is enabled;
whether it is actually enforced for this request depends on the force flag or
the recent failure count for the submitted login (falling back to the client
IP before any value was submitted).

Parameters:
  - request: Incoming request (query flag, prior submission values, client IP)
  - csrfToken: Expected CSRF token for this session

Returns:
  - *form.Form: Built form
*/
func (set *FormSet) Login(request *http.Request, csrfToken string) *form.Form {
	builder := form.NewBuilder("auth.login").
		Add(FieldLogin, form.TypeText, form.Options{Required: true, MaxLength: 254, Label: "Username or email"}).
		Add(FieldPassword, form.TypePassword, form.Options{Required: true, Label: "Password"}).
		WithCSRFToken(csrfToken)

	set.attachCaptcha(builder, request, ratelimit.ActionLogin, request.PostFormValue(FieldLogin))

	return builder.Build()
}

// Registration builds the account creation form.
func (set *FormSet) Registration(request *http.Request, csrfToken string) *form.Form {
	builder := form.NewBuilder("auth.registration").
		Add(FieldUsername, form.TypeText, form.Options{
			Required:  true,
			MinLength: 3,
			MaxLength: 30,
			Pattern:   usernamePattern,
			Label:     "Username",
		}).
		Add(FieldEmail, form.TypeEmail, form.Options{Required: true, MaxLength: 254, Label: "Email"}).
		Add(FieldPassword, form.TypePassword, form.Options{Required: true, MinLength: 8, Label: "Password"}).
		Add(FieldDisplayName, form.TypeText, form.Options{MaxLength: 50, Label: "Display name"}).
		WithCSRFToken(csrfToken)

	set.attachCaptcha(builder, request, ratelimit.ActionRegistration, request.PostFormValue(FieldEmail))

	return builder.Build()
}

// ForgotPassword builds the reset-link request form.
func (set *FormSet) ForgotPassword(request *http.Request, csrfToken string) *form.Form {
	builder := form.NewBuilder("auth.forgot_password").
		Add(FieldEmail, form.TypeEmail, form.Options{Required: true, MaxLength: 254, Label: "Email"}).
		WithCSRFToken(csrfToken)

	set.attachCaptcha(builder, request, ratelimit.ActionPasswordReset, request.PostFormValue(FieldEmail))

	return builder.Build()
}

// ResetPassword builds the recovery completion form. No captcha: possession
// of a valid reset token already proves the email round trip.
func (set *FormSet) ResetPassword(csrfToken string) *form.Form {
	return form.NewBuilder("auth.reset_password").
		Add(FieldToken, form.TypeText, form.Options{Required: true, Label: "Reset token"}).
		Add(FieldPassword, form.TypePassword, form.Options{Required: true, MinLength: 8, Label: "New password"}).
		WithCSRFToken(csrfToken).
		Build()
}

// ChangePassword builds the authenticated credential rotation form.
func (set *FormSet) ChangePassword(csrfToken string) *form.Form {
	return form.NewBuilder("auth.change_password").
		Add(FieldCurrentPassword, form.TypePassword, form.Options{Required: true, Label: "Current password"}).
		Add(FieldNewPassword, form.TypePassword, form.Options{Required: true, MinLength: 8, Label: "New password"}).
		WithCSRFToken(csrfToken).
		Build()
}

// VerifyEmail builds the email confirmation form.
func (set *FormSet) VerifyEmail(csrfToken string) *form.Form {
	return form.NewBuilder("auth.verify_email").
		Add(FieldToken, form.TypeText, form.Options{Required: true, Label: "Verification token"}).
		WithCSRFToken(csrfToken).
		Build()
}

// attachCaptcha declares the captcha field when the policy demands a solved
// challenge for this request: force flag first, failure threshold second. The
// submission handler enforces the gate for every declared captcha field, so a
// form below the threshold simply never declares one. The identifier falls
// back to the client IP when the request carries no value for the flow's
// subject field yet.
func (set *FormSet) attachCaptcha(builder *form.Builder, request *http.Request, actionType, identifier string) {
	if set.captcha == nil || !set.captcha.IsEnabled() {
		return
	}

	if identifier == "" {
		identifier = middleware.RealIP(request)
	}

	required := request.URL.Query().Get(ForceCaptchaParam) == "1" ||
		set.captcha.IsRequired(request.Context(), actionType, identifier)
	if !required {
		return
	}

	builder.WithCaptcha(true)
}
