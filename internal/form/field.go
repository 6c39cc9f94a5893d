// Copyright (c) 2026 Vendora. All rights reserved.
// Author: dev@vendora.shop

/*
Package form implements the declarative form pipeline that turns a raw HTTP
submission into either a populated data map or a rejected form with
field-level errors.

Every storefront form (login, registration, post editing) is described as an
ordered list of [Field] descriptors. One [Handler] orchestrates a submission:
sanitize, CSRF check, captcha gate, per-field validation, observer dispatch.

Architecture:

  - Field: Immutable descriptor (name, type, constraints). Built once.
  - Form: Per-request container for sanitized data and error codes.
  - Registry: Type-keyed validators returning translation-key error codes.
  - Handler: The submission state machine.

Validation failures are never Go errors — they accumulate on the form and the
HTTP layer maps them to a 422 with field details.
*/
package form

import "regexp"

// # Field Types

// Type identifies the sanitization and validation behavior of a field.
type Type string

const (
	TypeText     Type = "text"
	TypeEmail    Type = "email"
	TypePassword Type = "password"
	TypeNumber   Type = "number"
	TypeInteger  Type = "integer"
	TypeFloat    Type = "float"
	TypeCheckbox Type = "checkbox"
	TypeCaptcha  Type = "captcha"
)

// # Error Codes

// Validation error codes are translation keys, resolved to copy by the
// frontend. Custom messages from [Options.Messages] take precedence.
const (
	CodeRequired  = "validation.required"
	CodeInvalid   = "validation.invalid"
	CodeMinLength = "validation.minlength"
	CodeMaxLength = "validation.maxlength"
	CodePattern   = "validation.pattern"
	CodeAllowed   = "validation.allowed"
	CodeForbidden = "validation.forbidden"
	CodeCSRF      = "validation.csrf"
	CodeCaptcha   = "validation.captcha"
)

// Rule names used to look up per-rule message overrides.
const (
	RuleRequired  = "required"
	RuleInvalid   = "invalid"
	RuleMinLength = "minlength"
	RuleMaxLength = "maxlength"
	RulePattern   = "pattern"
	RuleAllowed   = "allowed"
	RuleForbidden = "forbidden"
)

// # Descriptors

// SanitizeFunc replaces the built-in sanitization for one field. Its result
// is used verbatim; no trimming or casting happens afterwards.
type SanitizeFunc func(value any, field Field, input map[string]any) any

// ValidateFunc is a custom validation rule. It returns an error code (or a
// literal message) for invalid values and "" for valid ones.
type ValidateFunc func(value any, opts Options) string

// Options carries the declarative constraints of a [Field].
type Options struct {
	// Required makes empty submissions fail with [CodeRequired]. The
	// required rule is evaluated before every other rule and short-circuits
	// them on failure.
	Required bool

	// MinLength / MaxLength bound the Unicode character count (0 = unbounded).
	MinLength int
	MaxLength int

	// Pattern is matched against string values after built-in checks.
	Pattern *regexp.Regexp

	// Allowed / Forbidden are membership lists. For email fields they apply
	// to the domain part only, case-insensitively.
	Allowed   []string
	Forbidden []string

	// Messages overrides error codes per rule name; the "message" key is the
	// generic fallback for any rule.
	Messages map[string]string

	// Sanitize replaces the built-in sanitization for this field.
	Sanitize SanitizeFunc

	// Validators are custom rules evaluated after the built-in validator.
	Validators []ValidateFunc

	// Attributes are passthrough HTML attributes for rendering layers.
	Attributes map[string]string

	// Label is the human-readable field label for rendering layers.
	Label string
}

// message resolves the error text for a failing rule: per-rule override
// first, then the generic override, then the canonical code.
func (o Options) message(rule, code string) string {
	if o.Messages != nil {
		if custom, found := o.Messages[rule+"_message"]; found {
			return custom
		}
		if custom, found := o.Messages["message"]; found {
			return custom
		}
	}
	return code
}

// Field is an immutable descriptor of one form input.
//
// Per-request state (value, errors) lives on the owning [Form], not here, so
// a field list can be shared between requests safely.
type Field struct {
	Name    string
	Type    Type
	Options Options
}
