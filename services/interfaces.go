package services

import (
	"context"

	"subito-tracker/models"
)

// Fetcher returns the current listings behind a search URL. Implementations
// drop items marked as sold before returning.
type Fetcher interface {
	FetchListings(ctx context.Context, queryURL string) ([]models.RawListing, error)
}

// VisibilityPrompt asks whether a newly seen listing should be hidden.
// It is called exactly once per added listing.
type VisibilityPrompt interface {
	Hidden(ctx context.Context, l models.Listing) (bool, error)
}

// Narrator receives one event per user-visible outcome.
type Narrator interface {
	Removed(q *models.Query, l models.Listing)
	Added(q *models.Query, l models.Listing)
	Unchanged(q *models.Query)
	Info(format string, args ...any)
}

// NopNarrator discards every event.
type NopNarrator struct{}

func (NopNarrator) Removed(*models.Query, models.Listing) {}
func (NopNarrator) Added(*models.Query, models.Listing)   {}
func (NopNarrator) Unchanged(*models.Query)               {}
func (NopNarrator) Info(string, ...any)                   {}
