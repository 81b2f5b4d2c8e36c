// Package handler is the HTTP layer behind the router.
//
// It binds and validates request parameters through the validation package,
// calls the service layer and writes JSON responses.
package handler
