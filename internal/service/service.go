// Package service contains the business logic.
//
// It sits between the handler and repository layers. Every call opens one
// read-only unit of work, binds the configured query style to it and runs a
// single repository operation.
package service
