// Package entity defines the records and errors shared by the use cases and the
// storage adapters. It includes the ShortURL forward record, the ReverseIndex
// record that maps a long URL back to its token, and the error taxonomy.
package entity

import "errors"

var (
	// ErrNotFound is returned when a token or a long URL has no record.
	ErrNotFound = errors.New("not found")
	// ErrTokenExists is returned when inserting a forward record whose token is already taken.
	ErrTokenExists = errors.New("token exists")
	// ErrStorageUnavailable wraps every backing store failure that is not a miss or a collision.
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// ShortURL is the forward record keyed by token.
type ShortURL struct {
	Token     string // Token is the short identifier, unique and immutable once created.
	LongURL   string // LongURL is the original URL the token redirects to.
	CreatedAt int64  // CreatedAt is the Unix timestamp (seconds) of creation.
	Visits    int64  // Visits is the number of successful redirects.
}

// ReverseIndex is the record keyed by long URL that points back to its token.
type ReverseIndex struct {
	LongURL string
	Token   string
}
