// Package service contains the business logic: validation, slug derivation,
// transactional mutations and the read paths the pages are built from.
// Services speak the repository interfaces below and the Result form
// contract above; they know nothing about HTTP.
package service

// FieldErrors maps a form field name to its validation messages, mirroring
// the shape the admin forms consume.
type FieldErrors map[string][]string

// Add appends a message to a field's error list.
func (fe FieldErrors) Add(field, message string) {
	fe[field] = append(fe[field], message)
}

// Result is the outcome of a form mutation: success with a value, or
// failure with a summary message and optional per-field errors. The same
// shape serves articles, categories and users.
type Result[T any] struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Value   T           `json:"value,omitempty"`
	Errors  FieldErrors `json:"errors,omitempty"`
}

// OK builds a success result.
func OK[T any](value T, message string) Result[T] {
	return Result[T]{Success: true, Message: message, Value: value}
}

// Fail builds a failure result with a summary message only. Used for
// storage failures, where the real cause is logged server-side and never
// shown to the caller.
func Fail[T any](message string) Result[T] {
	return Result[T]{Success: false, Message: message}
}

// Invalid builds a validation failure with per-field messages. No storage
// access happens before a mutation passes validation.
func Invalid[T any](message string, errs FieldErrors) Result[T] {
	return Result[T]{Success: false, Message: message, Errors: errs}
}

// Revalidator marks rendered listing views stale after a committed
// mutation. Satisfied by *viewcache.Cache.
type Revalidator interface {
	Invalidate(path string)
}

// Admin paths passed to the Revalidator.
const (
	PathAdminArticles   = "/admin/artigos"
	PathAdminCategories = "/admin/categorias"
	PathAdminUsers      = "/admin/usuarios"
)
