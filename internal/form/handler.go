// Copyright (c) 2026 Vendora. All rights reserved.
// Author: dev@vendora.shop

package form

import (
	"context"
	"crypto/hmac"
	"net/http"

	"github.com/vendorahq/vendora/internal/platform/middleware"
)

// # Well-Known Field Names

const (
	// FieldCaptcha is the declared captcha field name.
	FieldCaptcha = "captcha"
	// FieldCSRFToken is the submitted CSRF token parameter.
	FieldCSRFToken = "csrf_token"
	// FieldCaptchaResponse is the submitted reCAPTCHA response parameter.
	FieldCaptchaResponse = "g-recaptcha-response"
	// FieldForm is the synthetic key for form-level (non-field) errors.
	FieldForm = "_form"
)

// # Collaborators

// CaptchaVerifier is the captcha gate consulted when a form declares a
// captcha field. Satisfied by the captcha service.
type CaptchaVerifier interface {
	IsEnabled() bool
	Verify(ctx context.Context, responseToken, remoteIP string) bool
}

// Observer receives the form-processed event after a submission was handled.
// Observers are fire-and-forget: they run after the outcome is decided and
// cannot affect it.
type Observer func(form *Form, accepted bool)

// # Handler

// Handler orchestrates one HTTP form submission:
// CSRF check -> captcha gate -> sanitization -> per-field validation.
type Handler struct {
	registry  *Registry
	captcha   CaptchaVerifier
	observers []Observer
}

// NewHandler constructs a form [Handler].
func NewHandler(registry *Registry, captcha CaptchaVerifier) *Handler {
	return &Handler{registry: registry, captcha: captcha}
}

// Observe registers a form-processed observer.
func (handler *Handler) Observe(observer Observer) {
	handler.observers = append(handler.observers, observer)
}

/*
Handle processes one submission against a built form.

Description: The state machine, in order:

 1. UNSUBMITTED — a non-mutating method returns false with the form untouched.
 2. CSRF — the submitted csrf_token must match the form's expected token
    (constant-time). Failure attaches a form-level error and stops.
 3. CAPTCHA — only when the form declares a captcha field AND the captcha
    service is enabled: a missing or unverifiable response attaches an error
    on the captcha field and stops.
 4. SANITIZE + VALIDATE — the body is sanitized into the form's data map and
    every field runs required-first validation.
 5. OBSERVERS — the form-processed event fires regardless of outcome and
    never changes the returned boolean.

CSRF and captcha failures are field errors, exactly like validation failures;
callers inspect form.HasErrors() for presentation and use the returned bool
for control flow.

Parameters:
  - form: The built form for this request
  - request: The incoming submission

Returns:
  - bool: true only if the method is mutating, CSRF passed, the captcha gate
    passed (or was not required), and every field validated
*/
func (handler *Handler) Handle(form *Form, request *http.Request) bool {
	if !isSubmission(request.Method) {
		return false
	}

	accepted := handler.process(form, request)

	for _, observer := range handler.observers {
		observer(form, accepted)
	}

	return accepted
}

// process runs the CSRF/captcha/validation stages and reports acceptance.
func (handler *Handler) process(form *Form, request *http.Request) bool {
	if err := request.ParseForm(); err != nil {
		form.AddError(FieldForm, CodeInvalid)
		return false
	}

	input := make(map[string]any, len(request.PostForm))
	for key := range request.PostForm {
		input[key] = request.PostForm.Get(key)
	}

	// CSRF before anything else. A form built without a token opted out
	// (API-to-API flows); everything user-facing carries one.
	if expected := form.CSRFToken(); expected != "" {
		submitted, _ := input[FieldCSRFToken].(string)
		if !hmac.Equal([]byte(expected), []byte(submitted)) {
			form.AddError(FieldForm, CodeCSRF)
			return false
		}
	}

	// Captcha gate: declared field + enabled service.
	if form.HasField(FieldCaptcha) && handler.captcha != nil && handler.captcha.IsEnabled() {
		response, _ := input[FieldCaptchaResponse].(string)
		if response == "" {
			form.AddError(FieldCaptcha, CodeCaptcha)
			return false
		}

		if !handler.captcha.Verify(request.Context(), response, middleware.RealIP(request)) {
			form.AddError(FieldCaptcha, CodeCaptcha)
			return false
		}
	}

	form.setData(Sanitize(input, form.FieldMap()))

	return form.Validate(handler.registry)
}

// isSubmission reports whether the method carries a form body.
func isSubmission(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	default:
		return false
	}
}

// # Field Validation

/*
Validate runs required-first validation over the form's sanitized data.

Description: For each declared field, in declaration order: the required rule
runs first and short-circuits every other rule for that field on failure.
Otherwise the registry validator for the field's type runs, then any custom
validators, first failure winning. Captcha fields are skipped — the gate in
[Handler.Handle] already judged them.

Parameters:
  - registry: Validator registry

Returns:
  - bool: Whether no new error was attached
*/
func (f *Form) Validate(registry *Registry) bool {
	valid := true

	for _, field := range f.fields {
		if field.Type == TypeCaptcha {
			continue
		}

		value := f.data[field.Name]

		if field.Options.Required && isEmptySubmission(value) {
			f.AddError(field.Name, field.Options.message(RuleRequired, CodeRequired))
			valid = false
			continue
		}

		if code := registry.Validate(value, field.Type, field.Options); code != "" {
			f.AddError(field.Name, code)
			valid = false
			continue
		}

		for _, custom := range field.Options.Validators {
			if isAbsent(value) {
				break
			}
			if code := custom(value, field.Options); code != "" {
				f.AddError(field.Name, code)
				valid = false
				break
			}
		}
	}

	return valid
}

// isEmptySubmission decides what "empty" means for the required rule: nil,
// empty string, or an unticked checkbox.
func isEmptySubmission(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case bool:
		return !v
	default:
		return false
	}
}
