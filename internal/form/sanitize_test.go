// Copyright (c) 2026 Vendora. All rights reserved.
// Author: dev@vendora.shop

package form_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendorahq/vendora/internal/form"
)

func fieldMap(fields ...form.Field) map[string]form.Field {
	m := make(map[string]form.Field, len(fields))
	for _, f := range fields {
		m[f.Name] = f
	}
	return m
}

/*
TestSanitize_Strings covers trimming, control character stripping, and the
empty-string-to-nil collapse for text-like types.
*/
func TestSanitize_Strings(t *testing.T) {
	fields := fieldMap(
		form.Field{Name: "title", Type: form.TypeText},
		form.Field{Name: "email", Type: form.TypeEmail},
	)

	tests := []struct {
		name     string
		input    map[string]any
		expected map[string]any
	}{
		{
			"trims_whitespace",
			map[string]any{"title": "  Summer Sale  "},
			map[string]any{"title": "Summer Sale", "email": nil},
		},
		{
			"strips_control_chars",
			map[string]any{"title": "Sum\x00mer\x1fSale\n"},
			map[string]any{"title": "SummerSale", "email": nil},
		},
		{
			"empty_string_becomes_nil",
			map[string]any{"title": "   ", "email": ""},
			map[string]any{"title": nil, "email": nil},
		},
		{
			"missing_keys_are_nil",
			map[string]any{},
			map[string]any{"title": nil, "email": nil},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, form.Sanitize(tt.input, fields))
		})
	}
}

/*
TestSanitize_TypeCasts covers the numeric and checkbox casting rules.
*/
func TestSanitize_TypeCasts(t *testing.T) {
	fields := fieldMap(
		form.Field{Name: "price", Type: form.TypeNumber},
		form.Field{Name: "weight", Type: form.TypeFloat},
		form.Field{Name: "quantity", Type: form.TypeInteger},
		form.Field{Name: "newsletter", Type: form.TypeCheckbox},
	)

	tests := []struct {
		name     string
		input    map[string]any
		expected map[string]any
	}{
		{
			"numeric_strings_cast",
			map[string]any{"price": "19.99", "weight": "0.5", "quantity": "3", "newsletter": "on"},
			map[string]any{"price": 19.99, "weight": 0.5, "quantity": 3, "newsletter": true},
		},
		{
			"empty_numbers_are_nil",
			map[string]any{"price": "", "weight": "", "quantity": ""},
			map[string]any{"price": nil, "weight": nil, "quantity": nil, "newsletter": false},
		},
		{
			"malformed_numbers_degrade",
			map[string]any{"price": "abc", "quantity": "2.9"},
			map[string]any{"price": float64(0), "weight": nil, "quantity": 2, "newsletter": false},
		},
		{
			"checkbox_falsy_indicators",
			map[string]any{"newsletter": "off"},
			map[string]any{"price": nil, "weight": nil, "quantity": nil, "newsletter": false},
		},
		{
			"checkbox_absent_is_false",
			map[string]any{},
			map[string]any{"price": nil, "weight": nil, "quantity": nil, "newsletter": false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, form.Sanitize(tt.input, fields))
		})
	}
}

/*
TestSanitize_CustomClosure ensures a declared Sanitize closure is used
verbatim and skips every built-in rule.
*/
func TestSanitize_CustomClosure(t *testing.T) {
	fields := fieldMap(form.Field{
		Name: "sku",
		Type: form.TypeText,
		Options: form.Options{
			Sanitize: func(value any, _ form.Field, input map[string]any) any {
				text, _ := value.(string)
				// No trimming: the closure's output is final.
				return "SKU-" + strings.ToUpper(text)
			},
		},
	})

	result := form.Sanitize(map[string]any{"sku": " ab12 "}, fields)
	assert.Equal(t, "SKU- AB12 ", result["sku"])
}

/*
TestSanitize_UndeclaredKeysPassThrough keeps unknown submission keys intact.
*/
func TestSanitize_UndeclaredKeysPassThrough(t *testing.T) {
	fields := fieldMap(form.Field{Name: "title", Type: form.TypeText})

	result := form.Sanitize(map[string]any{
		"title":      "Hello",
		"csrf_token": "  raw-token  ",
	}, fields)

	assert.Equal(t, "Hello", result["title"])
	assert.Equal(t, "  raw-token  ", result["csrf_token"])
}

/*
TestSanitize_Idempotence checks sanitize(sanitize(x)) == sanitize(x) for a
mixed-type form.
*/
func TestSanitize_Idempotence(t *testing.T) {
	fields := fieldMap(
		form.Field{Name: "title", Type: form.TypeText},
		form.Field{Name: "email", Type: form.TypeEmail},
		form.Field{Name: "price", Type: form.TypeNumber},
		form.Field{Name: "quantity", Type: form.TypeInteger},
		form.Field{Name: "newsletter", Type: form.TypeCheckbox},
	)

	input := map[string]any{
		"title":      "  Vendora \x01 Launch ",
		"email":      "ana@vendora.shop",
		"price":      "12.50",
		"quantity":   "4",
		"newsletter": "on",
		"extra":      "untouched",
	}

	once := form.Sanitize(input, fields)
	twice := form.Sanitize(once, fields)

	require.Equal(t, once, twice)
}
