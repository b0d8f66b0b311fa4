package services

import (
	"context"
	"fmt"

	"subito-tracker/models"
	"subito-tracker/utils"
)

// FetchError wraps a failure of the fetch collaborator for one query.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Tracker runs one fetch-reconcile cycle for a query.
type Tracker struct {
	fetcher    Fetcher
	reconciler *Reconciler
	narrator   Narrator
	logger     *utils.Logger
}

// NewTracker wires a Tracker. A nil narrator discards events.
func NewTracker(fetcher Fetcher, prompt VisibilityPrompt, narrator Narrator, logger *utils.Logger) *Tracker {
	if narrator == nil {
		narrator = NopNarrator{}
	}
	return &Tracker{
		fetcher:    fetcher,
		reconciler: NewReconciler(prompt, narrator),
		narrator:   narrator,
		logger:     logger,
	}
}

// Run fetches q.URL and replaces q.Listings with the reconciled set. On a
// fetch or prompt failure q is left untouched.
func (t *Tracker) Run(ctx context.Context, q *models.Query) error {
	t.logger.Debug("[tracker] Fetching %q from %s", q.Name, q.URL)

	fresh, err := t.fetcher.FetchListings(ctx, q.URL)
	if err != nil {
		return &FetchError{URL: q.URL, Err: err}
	}

	res, err := t.reconciler.Reconcile(ctx, q, fresh)
	if err != nil {
		t.narrator.Info("Update of %q aborted, no changes saved.", q.Name)
		return err
	}

	q.Listings = res.Listings
	// Equal prices can reorder between fetches, so an empty delta counts as
	// unchanged even when the content check failed.
	if res.Unchanged || (len(res.Added) == 0 && len(res.Removed) == 0) {
		t.narrator.Unchanged(q)
		return nil
	}

	t.logger.Debug("[tracker] %q: %d fetched, +%d -%d, %d stored",
		q.Name, len(fresh), len(res.Added), len(res.Removed), len(q.Listings))
	return nil
}
