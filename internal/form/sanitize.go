// Copyright (c) 2026 Vendora. All rights reserved.
// Author: dev@vendora.shop

package form

import (
	"strconv"
	"strings"
)

// # Sanitization

/*
Sanitize normalizes raw submitted values before validation.

Description: Pure function. For every key declared in fields, the input value
is passed through, in order:

 1. the field's custom Sanitize closure, if declared — its result is used
    verbatim and no further rule applies;
 2. control-character stripping (0x00–0x1F) and whitespace trimming, for
    string values;
 3. a type-specific cast (numbers to float64/int, checkbox to bool, text and
    email to a trimmed string or nil when empty).

Keys present in input but not declared in fields pass through unchanged.
Declared keys absent from input yield nil (false for checkboxes). The result
is idempotent: sanitizing already-sanitized data is a no-op.

Parameters:
  - input: Raw submission map (field name -> value)
  - fields: Field descriptors keyed by name

Returns:
  - map[string]any: Sanitized data map
*/
func Sanitize(input map[string]any, fields map[string]Field) map[string]any {
	sanitized := make(map[string]any, len(input)+len(fields))

	// Undeclared keys pass through untouched.
	for key, value := range input {
		if _, declared := fields[key]; !declared {
			sanitized[key] = value
		}
	}

	for name, field := range fields {
		raw, present := input[name]

		// Custom closures see the raw value, even an absent one.
		if field.Options.Sanitize != nil {
			sanitized[name] = field.Options.Sanitize(raw, field, input)
			continue
		}

		if !present {
			raw = nil
		}

		sanitized[name] = sanitizeValue(raw, field.Type)
	}

	return sanitized
}

// sanitizeValue applies the built-in per-type normalization to one value.
func sanitizeValue(value any, fieldType Type) any {
	// Strings are always stripped and trimmed before casting.
	if text, isString := value.(string); isString {
		value = strings.TrimSpace(stripControlChars(text))
	}

	switch fieldType {
	case TypeNumber, TypeFloat:
		return castFloat(value)

	case TypeInteger:
		return castInt(value)

	case TypeCheckbox:
		return castBool(value)

	default:
		// text, email, password, captcha, and unrecognized types: the
		// stripped/trimmed value as-is, with empty strings collapsed to nil.
		if text, isString := value.(string); isString {
			if text == "" {
				return nil
			}
			return text
		}
		return value
	}
}

// stripControlChars removes ASCII control characters (0x00–0x1F).
func stripControlChars(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 {
			return -1
		}
		return r
	}, s)
}

// castFloat converts to float64; empty/nil collapses to nil, malformed text
// degrades to 0 rather than erroring.
func castFloat(value any) any {
	switch v := value.(type) {
	case nil:
		return nil
	case string:
		if v == "" {
			return nil
		}
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return float64(0)
		}
		return parsed
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return float64(0)
	}
}

// castInt converts to int with the same degradation rules as castFloat.
func castInt(value any) any {
	switch v := value.(type) {
	case nil:
		return nil
	case string:
		if v == "" {
			return nil
		}
		parsed, err := strconv.Atoi(v)
		if err != nil {
			// Fractional submissions truncate instead of zeroing.
			if asFloat, floatErr := strconv.ParseFloat(v, 64); floatErr == nil {
				return int(asFloat)
			}
			return 0
		}
		return parsed
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

// castBool maps checkbox indicators to a boolean. The browser sends "on" for
// a checked box and omits the key entirely for an unchecked one.
func castBool(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		switch strings.ToLower(v) {
		case "", "0", "false", "off", "no":
			return false
		default:
			return true
		}
	case int:
		return v != 0
	case float64:
		return v != 0
	default:
		return true
	}
}
