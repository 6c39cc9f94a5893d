// Copyright (c) 2026 Vendora. All rights reserved.
// Author: dev@vendora.shop

package form

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_NilWithoutErrors(t *testing.T) {
	f := NewBuilder("test.clean").Build()

	assert.Nil(t, f.AppError())
}

func TestAppError_RejectedSubmissionIs422(t *testing.T) {
	f := NewBuilder("test.contact").
		Add("name", TypeText, Options{Required: true}).
		Build()

	processor := NewHandler(NewRegistry(), nil)

	request := httptest.NewRequest("POST", "/contact", strings.NewReader(""))
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	require.False(t, processor.Handle(f, request))

	appError := f.AppError()
	require.NotNil(t, appError)

	// Well-formed request, semantically invalid content.
	assert.Equal(t, http.StatusUnprocessableEntity, appError.HTTPStatus)
	assert.Equal(t, "UNPROCESSABLE", appError.Code)

	require.Len(t, appError.Details, 1)
	assert.Equal(t, "name", appError.Details[0].Field)
	assert.Equal(t, CodeRequired, appError.Details[0].Message)
}

func TestAppError_FormLevelErrorsTrailFieldErrors(t *testing.T) {
	f := NewBuilder("test.contact").
		Add("name", TypeText, Options{}).
		Build()

	f.AddError("name", CodeInvalid)
	f.AddError(FieldForm, CodeCSRF)

	appError := f.AppError()
	require.NotNil(t, appError)
	require.Len(t, appError.Details, 2)
	assert.Equal(t, "name", appError.Details[0].Field)
	assert.Equal(t, FieldForm, appError.Details[1].Field)
	assert.Equal(t, CodeCSRF, appError.Details[1].Message)
}
