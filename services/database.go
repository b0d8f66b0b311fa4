package services

import (
	"context"
	"errors"
	"fmt"

	"subito-tracker/models"
	"subito-tracker/storage"
	"subito-tracker/utils"
)

// Database owns the ordered set of queries between a Load and a Save.
type Database struct {
	store    storage.Persistence
	tracker  *Tracker
	narrator Narrator
	logger   *utils.Logger

	queries []*models.Query
}

// NewDatabase creates an empty Database backed by store.
func NewDatabase(store storage.Persistence, tracker *Tracker, narrator Narrator, logger *utils.Logger) *Database {
	if narrator == nil {
		narrator = NopNarrator{}
	}
	return &Database{
		store:    store,
		tracker:  tracker,
		narrator: narrator,
		logger:   logger,
	}
}

// Load replaces the in-memory queries with the persisted state. A missing
// document initialises an empty database and persists it right away.
func (db *Database) Load(ctx context.Context) error {
	state, err := db.store.Load(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		db.logger.Info("[database] No database found, creating an empty one")
		db.queries = nil
		return db.Save(ctx)
	}
	if err != nil {
		return fmt.Errorf("database: load: %w", err)
	}

	db.queries = make([]*models.Query, 0, len(state.Queries))
	for i := range state.Queries {
		q := state.Queries[i]
		if q.Listings == nil {
			q.Listings = []models.Listing{}
		}
		db.queries = append(db.queries, &q)
	}
	db.logger.Debug("[database] Loaded %d queries", len(db.queries))
	return nil
}

// Save persists every query in order.
func (db *Database) Save(ctx context.Context) error {
	state := &models.State{Queries: make([]models.Query, 0, len(db.queries))}
	for _, q := range db.queries {
		state.Queries = append(state.Queries, *q)
	}
	if err := db.store.Save(ctx, state); err != nil {
		return fmt.Errorf("database: save: %w", err)
	}
	return nil
}

// Queries returns the stored queries in insertion order.
func (db *Database) Queries() []*models.Query {
	return db.queries
}

// Len returns the number of stored queries.
func (db *Database) Len() int {
	return len(db.queries)
}

// Find returns the query with the given URL, or nil.
func (db *Database) Find(url string) *models.Query {
	for _, q := range db.queries {
		if q.URL == url {
			return q
		}
	}
	return nil
}

// Add runs the first cycle of q and appends it. It returns false without
// touching the database when a query with the same URL already exists.
func (db *Database) Add(ctx context.Context, q *models.Query) (bool, error) {
	if db.Find(q.URL) != nil {
		db.narrator.Info("Query with url %q already in the database", q.URL)
		return false, nil
	}

	if err := db.tracker.Run(ctx, q); err != nil {
		return false, err
	}

	db.queries = append(db.queries, q)
	db.narrator.Info("Query %q added with %d listings", q.Name, len(q.Listings))
	return true, nil
}

// Remove deletes the first query named name.
func (db *Database) Remove(name string) bool {
	for i, q := range db.queries {
		if q.Name != name {
			continue
		}
		kept := make([]*models.Query, 0, len(db.queries)-1)
		kept = append(kept, db.queries[:i]...)
		kept = append(kept, db.queries[i+1:]...)
		db.queries = kept
		db.narrator.Info("Query %q removed.", name)
		return true
	}
	db.narrator.Info("Query %q not found, aborting.", name)
	return false
}

// UpdateAll runs every query in order and stops at the first failure.
// Queries processed before the failure keep their new listings.
func (db *Database) UpdateAll(ctx context.Context) error {
	for i, q := range db.queries {
		if err := db.tracker.Run(ctx, q); err != nil {
			return fmt.Errorf("database: update %q (%d/%d): %w", q.Name, i+1, len(db.queries), err)
		}
	}
	return nil
}
