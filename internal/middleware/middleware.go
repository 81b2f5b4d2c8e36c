// Package middleware holds the Echo middleware shared by every route:
// request ids, request-scoped loggers, New Relic tracing, request logging,
// CORS, secure headers, panic recovery and the global error handler.
package middleware
