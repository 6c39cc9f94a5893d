// Copyright (c) 2026 Vendora. All rights reserved.
// Author: dev@vendora.shop

package form

// # Render Options

// ErrorDisplay selects how a rendering layer presents validation errors.
type ErrorDisplay string

const (
	// ErrorDisplayInline renders each error next to its field.
	ErrorDisplayInline ErrorDisplay = "inline"
	// ErrorDisplaySummary renders all errors in one block above the form.
	ErrorDisplaySummary ErrorDisplay = "summary"
)

// RenderOptions carries presentation hints that travel with the form.
type RenderOptions struct {
	// CaptchaRequired marks that the rendered form must include the captcha
	// widget. Decided at build time by the controller (policy + force flag).
	CaptchaRequired bool

	// ErrorDisplay selects inline or summary error presentation.
	ErrorDisplay ErrorDisplay

	// Layout names the template layout variant.
	Layout string
}

// # Form Container

// Form is the per-request container: ordered field descriptors, the
// sanitized data map, accumulated error codes, and the expected CSRF token.
//
// # Lifecycle
//
// Built by a [Builder] per request, mutated by [Handler.Handle], discarded
// when the response is written. Never persisted, never shared across requests.
type Form struct {
	name    string
	fields  []Field
	index   map[string]int
	data    map[string]any
	errors  map[string][]string
	csrf    string
	options RenderOptions
}

// Name returns the form's identifier (used for logging and the observer hook).
func (f *Form) Name() string { return f.name }

// Fields returns the field descriptors in declaration order.
func (f *Form) Fields() []Field { return f.fields }

// HasField reports whether a field with the given name is declared.
func (f *Form) HasField(name string) bool {
	_, found := f.index[name]
	return found
}

// Field returns the descriptor for name. The second result is false when the
// field is not declared.
func (f *Form) Field(name string) (Field, bool) {
	position, found := f.index[name]
	if !found {
		return Field{}, false
	}
	return f.fields[position], true
}

// FieldMap returns the descriptors keyed by name, as consumed by [Sanitize].
func (f *Form) FieldMap() map[string]Field {
	m := make(map[string]Field, len(f.fields))
	for _, field := range f.fields {
		m[field.Name] = field
	}
	return m
}

// # Data Access

// Data returns the sanitized data map. Empty until the form was handled.
func (f *Form) Data() map[string]any { return f.data }

// Value returns the sanitized value for one field (nil when absent).
func (f *Form) Value(name string) any { return f.data[name] }

// String returns the sanitized value as a string ("" for nil or non-strings).
func (f *Form) String(name string) string {
	value, _ := f.data[name].(string)
	return value
}

// Bool returns the sanitized value as a bool (false for nil or non-bools).
func (f *Form) Bool(name string) bool {
	value, _ := f.data[name].(bool)
	return value
}

// setData replaces the data map. Called by the handler after sanitization.
func (f *Form) setData(data map[string]any) { f.data = data }

// # Errors

// AddError attaches an error code (or literal message) to a field. The
// synthetic "_form" name carries form-level errors such as CSRF failures.
func (f *Form) AddError(field, code string) {
	f.errors[field] = append(f.errors[field], code)
}

// Errors returns the full error map (field name -> codes).
func (f *Form) Errors() map[string][]string { return f.errors }

// FieldErrors returns the error codes attached to one field.
func (f *Form) FieldErrors(field string) []string { return f.errors[field] }

// HasErrors reports whether any error has been attached.
func (f *Form) HasErrors() bool { return len(f.errors) > 0 }

// IsValid is the inverse of [Form.HasErrors], for caller readability.
func (f *Form) IsValid() bool { return !f.HasErrors() }

// # Security & Rendering

// CSRFToken returns the expected CSRF token set at build time.
func (f *Form) CSRFToken() string { return f.csrf }

// Options returns the render options.
func (f *Form) Options() RenderOptions { return f.options }

// CaptchaRequired reports the build-time captcha decision.
func (f *Form) CaptchaRequired() bool { return f.options.CaptchaRequired }

// # Builder

// Builder assembles a [Form] from field declarations.
//
// # Concurrency
//
// A Builder is not safe for concurrent use; build one form per request.
type Builder struct {
	form *Form
}

// NewBuilder starts a form definition.
func NewBuilder(name string) *Builder {
	return &Builder{
		form: &Form{
			name:   name,
			index:  make(map[string]int),
			data:   make(map[string]any),
			errors: make(map[string][]string),
			options: RenderOptions{
				ErrorDisplay: ErrorDisplayInline,
			},
		},
	}
}

// Add declares a field. Redeclaring a name replaces the earlier descriptor
// while keeping its position.
func (b *Builder) Add(name string, fieldType Type, options Options) *Builder {
	if position, found := b.form.index[name]; found {
		b.form.fields[position] = Field{Name: name, Type: fieldType, Options: options}
		return b
	}

	b.form.index[name] = len(b.form.fields)
	b.form.fields = append(b.form.fields, Field{Name: name, Type: fieldType, Options: options})
	return b
}

// WithCSRFToken sets the expected CSRF token for this request.
func (b *Builder) WithCSRFToken(token string) *Builder {
	b.form.csrf = token
	return b
}

// WithCaptcha declares the captcha field and records whether the widget must
// actually be rendered and enforced for this request.
func (b *Builder) WithCaptcha(required bool) *Builder {
	b.Add(FieldCaptcha, TypeCaptcha, Options{})
	b.form.options.CaptchaRequired = required
	return b
}

// WithOptions overrides the render options.
func (b *Builder) WithOptions(options RenderOptions) *Builder {
	captchaRequired := b.form.options.CaptchaRequired
	b.form.options = options
	// The captcha decision is made via WithCaptcha, not render options.
	b.form.options.CaptchaRequired = b.form.options.CaptchaRequired || captchaRequired
	return b
}

// WithInitialData seeds the data map (e.g. when editing an existing entity).
func (b *Builder) WithInitialData(data map[string]any) *Builder {
	for key, value := range data {
		b.form.data[key] = value
	}
	return b
}

// Build returns the assembled form.
func (b *Builder) Build() *Form {
	return b.form
}
