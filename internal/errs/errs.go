// Package errs defines the error shapes returned to API clients.
//
// HTTPError is serialized as-is by the global error handler; FieldError
// carries per-parameter validation failures.
package errs
