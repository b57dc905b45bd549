// Package usecase implements token allocation and URL resolution on top of a
// key-value URL store.
package usecase

import (
	"context"

	"github.com/vadimbarashkov/uriz/internal/entity"
)

// urlRepository is the storage contract shared by both use cases: a forward
// table keyed by token and a reverse table keyed by long URL.
type urlRepository interface {
	// Exists reports whether a forward record with the token exists.
	Exists(ctx context.Context, token string) (bool, error)
	// GetForward returns the forward record or entity.ErrNotFound.
	GetForward(ctx context.Context, token string) (*entity.ShortURL, error)
	// GetReverse returns the token stored for longURL or entity.ErrNotFound.
	GetReverse(ctx context.Context, longURL string) (string, error)
	// InsertForward creates the record only if its token is free,
	// otherwise it returns entity.ErrTokenExists.
	InsertForward(ctx context.Context, url *entity.ShortURL) error
	// InsertReverse writes the reverse record. The last write wins.
	InsertReverse(ctx context.Context, idx *entity.ReverseIndex) error
	// IncrementVisits atomically adds one to the visit counter.
	IncrementVisits(ctx context.Context, token string) error
}
