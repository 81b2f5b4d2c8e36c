// Package validation binds request parameters and validates them with
// go-playground/validator struct tags, turning failures into field-level
// errs.HTTPError responses.
package validation
