// Copyright (c) 2026 Vendora. All rights reserved.
// Author: dev@vendora.shop

package form

import "github.com/vendorahq/vendora/internal/platform/apperr"

// AppError converts the form's accumulated errors into a client-facing
// 422 error. Each attached code becomes one field detail; form-level
// errors travel under the synthetic "_form" field name.
//
// Returns nil when the form has no errors.
func (f *Form) AppError() *apperr.AppError {
	if !f.HasErrors() {
		return nil
	}

	var details []apperr.FieldError
	// Declared fields first, in declaration order, so clients see stable output.
	for _, field := range f.fields {
		for _, code := range f.errors[field.Name] {
			details = append(details, apperr.FieldError{Field: field.Name, Message: code})
		}
	}
	for _, code := range f.errors[FieldForm] {
		details = append(details, apperr.FieldError{Field: FieldForm, Message: code})
	}

	return apperr.Unprocessable("Submission failed validation", details...)
}
