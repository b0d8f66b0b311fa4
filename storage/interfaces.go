package storage

import (
	"context"
	"errors"

	"subito-tracker/models"
)

var (
	// ErrNotFound is returned by Load when no database has been written yet.
	ErrNotFound = errors.New("storage: database not found")
	// ErrMalformed is returned by Load when the persisted document cannot be decoded.
	ErrMalformed = errors.New("storage: malformed database")
)

// Persistence is the interface any storage backend must satisfy.
type Persistence interface {
	Load(ctx context.Context) (*models.State, error)
	Save(ctx context.Context, state *models.State) error
	Close() error
}

// ListingExporter is the interface for exporting visible listings.
type ListingExporter interface {
	WriteQuery(q *models.Query) error
	Close() error
}
