package services

import (
	"context"
	"fmt"

	"subito-tracker/models"
)

// Result is the outcome of one reconciliation.
type Result struct {
	Listings  []models.Listing
	Added     []models.Listing
	Removed   []models.Listing
	Unchanged bool
}

// Reconciler applies a Diff to a query, narrating removals first and then
// each addition followed by its visibility prompt.
type Reconciler struct {
	prompt   VisibilityPrompt
	narrator Narrator
}

// NewReconciler creates a Reconciler. A nil narrator discards events.
func NewReconciler(prompt VisibilityPrompt, narrator Narrator) *Reconciler {
	if narrator == nil {
		narrator = NopNarrator{}
	}
	return &Reconciler{prompt: prompt, narrator: narrator}
}

// Reconcile computes the new listing set of q from a fresh fetch. q is not
// modified; the caller installs Result.Listings. A prompt failure aborts the
// whole cycle.
func (r *Reconciler) Reconcile(ctx context.Context, q *models.Query, fresh []models.RawListing) (*Result, error) {
	d := Diff(q.Listings, fresh, q.MinPrice, q.MaxPrice)
	if d.Unchanged {
		return &Result{Listings: q.Listings, Unchanged: true}, nil
	}

	for _, l := range d.Removed {
		r.narrator.Removed(q, l)
	}

	added := make([]models.Listing, 0, len(d.Added))
	for _, l := range d.Added {
		r.narrator.Added(q, l)
		hidden, err := r.prompt.Hidden(ctx, l)
		if err != nil {
			return nil, fmt.Errorf("reconcile: prompt for %s: %w", l.URL, err)
		}
		l.Hidden = hidden
		added = append(added, l)
	}

	return &Result{
		Listings: d.Merge(added),
		Added:    added,
		Removed:  d.Removed,
	}, nil
}
