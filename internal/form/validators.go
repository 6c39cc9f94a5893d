// Copyright (c) 2026 Vendora. All rights reserved.
// Author: dev@vendora.shop

package form

import (
	"slices"
	"unicode/utf8"
)

// # Validator Contract

// Validator checks one sanitized value against the field's declared options.
//
// A non-empty return is a translation-key error code (or a custom message
// from [Options.Messages]); "" means the value passed.
type Validator interface {
	// Name identifies the validator ("text", "email", ...).
	Name() string
	// Validate applies the rules in order; the first failing rule wins and
	// later rules are not evaluated.
	Validate(value any, opts Options) string
}

// # Registry

// Registry dispatches validation by field type.
//
// The map is built once at startup — an explicit tagged-variant table, not
// reflection — so an unmapped field type is a visible wiring mistake rather
// than a silent runtime lookup failure.
type Registry struct {
	byType map[Type]Validator
}

// NewRegistry returns a registry with the built-in validators mounted.
func NewRegistry() *Registry {
	registry := &Registry{byType: make(map[Type]Validator)}

	text := TextValidator{}
	number := NumberValidator{}

	registry.Register(TypeText, text)
	registry.Register(TypePassword, text)
	registry.Register(TypeEmail, EmailValidator{})
	registry.Register(TypeNumber, number)
	registry.Register(TypeInteger, number)
	registry.Register(TypeFloat, number)
	registry.Register(TypeCheckbox, CheckboxValidator{})

	return registry
}

// Register mounts (or replaces) the validator for a field type.
func (r *Registry) Register(fieldType Type, validator Validator) {
	r.byType[fieldType] = validator
}

/*
Validate runs the type-appropriate validator for one value.

Description: The universal skip rule applies first: nil and empty-string
values are "nothing to validate" and always pass — the required rule is the
orchestrator's job and runs before this method. Unmapped field types pass,
matching the sanitizer's pass-through contract for unknown types.

Parameters:
  - value: Sanitized value
  - fieldType: Declared field type
  - opts: The field's declared options

Returns:
  - string: Error code ("" when valid)
*/
func (r *Registry) Validate(value any, fieldType Type, opts Options) string {
	if isAbsent(value) {
		return ""
	}

	validator, found := r.byType[fieldType]
	if !found {
		return ""
	}

	return validator.Validate(value, opts)
}

// isAbsent implements the universal skip rule: nil or empty string.
func isAbsent(value any) bool {
	if value == nil {
		return true
	}
	text, isString := value.(string)
	return isString && text == ""
}

// # Text

// TextValidator enforces the ordered rule chain for free-text fields:
// type check, minlength, maxlength, pattern, allowed list, forbidden list.
type TextValidator struct{}

func (TextValidator) Name() string { return "text" }

func (TextValidator) Validate(value any, opts Options) string {
	text, isString := value.(string)
	if !isString {
		return opts.message(RuleInvalid, CodeInvalid)
	}

	length := utf8.RuneCountInString(text)

	if opts.MinLength > 0 && length < opts.MinLength {
		return opts.message(RuleMinLength, CodeMinLength)
	}

	if opts.MaxLength > 0 && length > opts.MaxLength {
		return opts.message(RuleMaxLength, CodeMaxLength)
	}

	if opts.Pattern != nil && !opts.Pattern.MatchString(text) {
		return opts.message(RulePattern, CodePattern)
	}

	if len(opts.Allowed) > 0 && !slices.Contains(opts.Allowed, text) {
		return opts.message(RuleAllowed, CodeAllowed)
	}

	if len(opts.Forbidden) > 0 && slices.Contains(opts.Forbidden, text) {
		return opts.message(RuleForbidden, CodeForbidden)
	}

	return ""
}

// # Email

// EmailValidator validates structure via IDN-aware normalization, then
// applies length and pattern rules to the normalized address, then matches
// the allowed/forbidden lists against the domain part only.
type EmailValidator struct{}

func (EmailValidator) Name() string { return "email" }

func (EmailValidator) Validate(value any, opts Options) string {
	text, isString := value.(string)
	if !isString {
		return opts.message(RuleInvalid, CodeInvalid)
	}

	normalized, err := NormalizeEmail(text)
	if err != nil {
		return opts.message(RuleInvalid, CodeInvalid)
	}

	length := utf8.RuneCountInString(normalized.Address)

	if opts.MinLength > 0 && length < opts.MinLength {
		return opts.message(RuleMinLength, CodeMinLength)
	}

	if opts.MaxLength > 0 && length > opts.MaxLength {
		return opts.message(RuleMaxLength, CodeMaxLength)
	}

	if opts.Pattern != nil && !opts.Pattern.MatchString(normalized.Address) {
		return opts.message(RulePattern, CodePattern)
	}

	if len(opts.Allowed) > 0 {
		if !slices.ContainsFunc(opts.Allowed, normalized.domainMatches) {
			return opts.message(RuleAllowed, CodeAllowed)
		}
	}

	if len(opts.Forbidden) > 0 {
		if slices.ContainsFunc(opts.Forbidden, normalized.domainMatches) {
			return opts.message(RuleForbidden, CodeForbidden)
		}
	}

	return ""
}

// # Checkbox

// CheckboxValidator accepts every value. Presence is the only semantic a
// checkbox carries; the required rule (handled upstream) covers "must be
// ticked". Intentionally permissive, never a deep validation target.
type CheckboxValidator struct{}

func (CheckboxValidator) Name() string { return "checkbox" }

func (CheckboxValidator) Validate(any, Options) string { return "" }

// # Number

// NumberValidator only verifies the sanitizer produced a numeric value.
// Range rules, when needed, are declared as custom [ValidateFunc]s.
type NumberValidator struct{}

func (NumberValidator) Name() string { return "number" }

func (NumberValidator) Validate(value any, opts Options) string {
	switch value.(type) {
	case int, int64, float32, float64:
		return ""
	default:
		return opts.message(RuleInvalid, CodeInvalid)
	}
}
