// Package entity defines the persistent domain model.
//
// Every type here maps to one table (or to columns embedded into one).
// Associations are plain fields that stay empty unless a query joins
// or preloads them explicitly; nothing is fetched lazily.
package entity
