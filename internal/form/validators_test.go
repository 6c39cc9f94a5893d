// Copyright (c) 2026 Vendora. All rights reserved.
// Author: dev@vendora.shop

package form_test

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendorahq/vendora/internal/form"
)

/*
TestRegistry_SkipRule pins the universal skip law: nil and empty-string
values pass every validator regardless of options.
*/
func TestRegistry_SkipRule(t *testing.T) {
	registry := form.NewRegistry()

	strict := form.Options{
		MinLength: 10,
		MaxLength: 2,
		Pattern:   regexp.MustCompile(`^\d+$`),
		Allowed:   []string{"never"},
	}

	for _, fieldType := range []form.Type{
		form.TypeText, form.TypeEmail, form.TypePassword,
		form.TypeNumber, form.TypeInteger, form.TypeCheckbox,
	} {
		t.Run(string(fieldType), func(t *testing.T) {
			assert.Empty(t, registry.Validate(nil, fieldType, strict))
			assert.Empty(t, registry.Validate("", fieldType, strict))
		})
	}
}

/*
TestTextValidator_RuleOrder checks that the first failing rule wins and later
rules are not reported.
*/
func TestTextValidator_RuleOrder(t *testing.T) {
	registry := form.NewRegistry()

	tests := []struct {
		name     string
		value    any
		opts     form.Options
		expected string
	}{
		{"non_string", 42, form.Options{}, form.CodeInvalid},
		{"minlength_first", "ab", form.Options{MinLength: 5, Pattern: regexp.MustCompile(`^\d+$`)}, form.CodeMinLength},
		{"maxlength_before_pattern", "abcdef", form.Options{MaxLength: 3, Pattern: regexp.MustCompile(`^\d+$`)}, form.CodeMaxLength},
		{"pattern_before_allowed", "abc", form.Options{Pattern: regexp.MustCompile(`^\d+$`), Allowed: []string{"abc"}}, form.CodePattern},
		{"allowed_before_forbidden", "xyz", form.Options{Allowed: []string{"abc"}, Forbidden: []string{"xyz"}}, form.CodeAllowed},
		{"forbidden_last", "xyz", form.Options{Allowed: []string{"xyz"}, Forbidden: []string{"xyz"}}, form.CodeForbidden},
		{"all_pass", "abc", form.Options{MinLength: 2, MaxLength: 5, Pattern: regexp.MustCompile(`^[a-z]+$`)}, ""},
		{"unicode_length", "héllo", form.Options{MinLength: 5, MaxLength: 5}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, registry.Validate(tt.value, form.TypeText, tt.opts))
		})
	}
}

/*
TestTextValidator_CustomMessages checks per-rule and generic overrides.
*/
func TestTextValidator_CustomMessages(t *testing.T) {
	registry := form.NewRegistry()

	t.Run("per_rule_override", func(t *testing.T) {
		opts := form.Options{
			MinLength: 5,
			Messages:  map[string]string{"minlength_message": "Too short for a product name"},
		}
		assert.Equal(t, "Too short for a product name", registry.Validate("ab", form.TypeText, opts))
	})

	t.Run("generic_override", func(t *testing.T) {
		opts := form.Options{
			MinLength: 5,
			Messages:  map[string]string{"message": "Invalid value"},
		}
		assert.Equal(t, "Invalid value", registry.Validate("ab", form.TypeText, opts))
	})
}

/*
TestEmailValidator_Unicode validates internationalized addresses end to end.
*/
func TestEmailValidator_Unicode(t *testing.T) {
	registry := form.NewRegistry()

	tests := []struct {
		name     string
		email    string
		expected string
	}{
		{"ascii", "user@example.com", ""},
		{"latin_diacritics", "üser@exämple.com", ""},
		{"cjk", "用户@例子.中国", ""},
		{"cyrillic", "пользователь@пример.рф", ""},
		{"missing_domain", "user@", form.CodeInvalid},
		{"empty_local", "@domain.com", form.CodeInvalid},
		{"no_at", "not-an-email", form.CodeInvalid},
		{"dot_before_at", "user.@domain.com", form.CodeInvalid},
		{"domain_without_dot", "user@localhost", form.CodeInvalid},
		{"whitespace", "us er@domain.com", form.CodeInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, registry.Validate(tt.email, form.TypeEmail, form.Options{}))
		})
	}
}

/*
TestEmailValidator_DomainLists matches allowed/forbidden lists against the
domain part only, case-insensitively, in both Unicode and punycode forms.
*/
func TestEmailValidator_DomainLists(t *testing.T) {
	registry := form.NewRegistry()

	t.Run("allowed_domain", func(t *testing.T) {
		opts := form.Options{Allowed: []string{"Vendora.shop"}}
		assert.Empty(t, registry.Validate("ana@vendora.shop", form.TypeEmail, opts))
		assert.Equal(t, form.CodeAllowed, registry.Validate("ana@gmail.com", form.TypeEmail, opts))
	})

	t.Run("forbidden_domain", func(t *testing.T) {
		opts := form.Options{Forbidden: []string{"mailinator.com"}}
		assert.Equal(t, form.CodeForbidden, registry.Validate("bot@MAILINATOR.com", form.TypeEmail, opts))
		assert.Empty(t, registry.Validate("ana@vendora.shop", form.TypeEmail, opts))
	})

	t.Run("unicode_list_matches_punycode_address", func(t *testing.T) {
		opts := form.Options{Allowed: []string{"例子.中国"}}
		assert.Empty(t, registry.Validate("用户@xn--fsqu00a.xn--fiqs8s", form.TypeEmail, opts))
	})

	t.Run("local_part_never_matches", func(t *testing.T) {
		// The list applies to domains only; a matching local part is irrelevant.
		opts := form.Options{Forbidden: []string{"admin"}}
		assert.Empty(t, registry.Validate("admin@vendora.shop", form.TypeEmail, opts))
	})
}

/*
TestEmailValidator_Length applies length bounds to the normalized address.
*/
func TestEmailValidator_Length(t *testing.T) {
	registry := form.NewRegistry()

	opts := form.Options{MinLength: 10, MaxLength: 20}
	assert.Empty(t, registry.Validate("ana@vendora.shop", form.TypeEmail, opts))
	assert.Equal(t, form.CodeMinLength, registry.Validate("a@b.co", form.TypeEmail, opts))
	assert.Equal(t, form.CodeMaxLength, registry.Validate("a-very-long-local-part@vendora.shop", form.TypeEmail, opts))
}

/*
TestCheckboxValidator_Permissive documents the intentional no-op: presence is
the only semantic a checkbox carries.
*/
func TestCheckboxValidator_Permissive(t *testing.T) {
	registry := form.NewRegistry()

	for _, value := range []any{true, false, "on", "anything", 42} {
		assert.Empty(t, registry.Validate(value, form.TypeCheckbox, form.Options{
			Pattern: regexp.MustCompile(`^never$`),
		}))
	}
}

/*
TestNumberValidator rejects non-numeric sanitized values.
*/
func TestNumberValidator(t *testing.T) {
	registry := form.NewRegistry()

	assert.Empty(t, registry.Validate(19.99, form.TypeNumber, form.Options{}))
	assert.Empty(t, registry.Validate(3, form.TypeInteger, form.Options{}))
	assert.Equal(t, form.CodeInvalid, registry.Validate("not-a-number", form.TypeNumber, form.Options{}))
}

/*
TestNormalizeEmail checks the exported normalization helper directly.
*/
func TestNormalizeEmail(t *testing.T) {
	normalized, err := form.NormalizeEmail("Ana@Vendora.SHOP")
	require.NoError(t, err)

	assert.Equal(t, "Ana@vendora.shop", normalized.Address)
	assert.Equal(t, "vendora.shop", normalized.Domain)
	assert.Equal(t, "vendora.shop", normalized.ASCIIDomain)

	idn, err := form.NormalizeEmail("пользователь@Пример.рф")
	require.NoError(t, err)
	assert.Equal(t, "пример.рф", idn.Domain)
	assert.Equal(t, "xn--e1afmkfd.xn--p1ai", idn.ASCIIDomain)
}
