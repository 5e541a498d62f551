package repository

import (
	"context"
	"errors"

	"github.com/xytext/xytext/internal/document"
)

var (
	ErrNotFound = errors.New("document not found")
)

// Repository is the durable document store contract. All mutating calls for
// one namespace are funneled through that namespace's actor, so
// implementations only need per-call atomicity, not cross-call coordination.
type Repository interface {
	// Get returns the document at path or ErrNotFound.
	Get(ctx context.Context, path string) (*document.Document, error)
	// Upsert writes content at path. CreatedAt is preserved when the path
	// already exists; UpdatedAt is always refreshed.
	Upsert(ctx context.Context, path, content string) error
	// Delete removes the document at path and reports whether it existed.
	Delete(ctx context.Context, path string) (bool, error)
	// ListByPrefix returns every document whose path starts with prefix.
	ListByPrefix(ctx context.Context, prefix string) ([]*document.Document, error)
}
