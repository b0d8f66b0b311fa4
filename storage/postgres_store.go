package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"subito-tracker/models"
)

const listingColumns = 7

// PostgresStore persists queries and their listings to PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresStore.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 5; i++ {
		if err = db.PingContext(ctx); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	ps := &PostgresStore{db: db}
	if err := ps.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return ps, nil
}

func (ps *PostgresStore) migrate(ctx context.Context) error {
	_, err := ps.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS queries (
			id        SERIAL PRIMARY KEY,
			position  INTEGER NOT NULL,
			name      TEXT    NOT NULL,
			url       TEXT    UNIQUE NOT NULL,
			min_price BIGINT  NOT NULL,
			max_price BIGINT  NOT NULL
		);

		CREATE TABLE IF NOT EXISTS listings (
			id        SERIAL PRIMARY KEY,
			query_id  INTEGER NOT NULL REFERENCES queries(id) ON DELETE CASCADE,
			position  INTEGER NOT NULL,
			title     TEXT    NOT NULL DEFAULT '',
			price     BIGINT,
			url       TEXT    NOT NULL,
			location  TEXT    NOT NULL DEFAULT '',
			hidden    BOOLEAN NOT NULL DEFAULT FALSE,
			UNIQUE (query_id, url)
		);

		CREATE INDEX IF NOT EXISTS idx_listings_query ON listings(query_id, position);
	`)
	return err
}

// Load reads every query with its listings in stored order. An empty schema
// is a valid, empty database.
func (ps *PostgresStore) Load(ctx context.Context) (*models.State, error) {
	rows, err := ps.db.QueryContext(ctx, `
		SELECT id, name, url, min_price, max_price
		FROM queries
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch queries: %w", err)
	}
	defer rows.Close()

	state := &models.State{Queries: []models.Query{}}
	index := make(map[int64]int)
	for rows.Next() {
		var (
			id int64
			q  models.Query
		)
		if err := rows.Scan(&id, &q.Name, &q.URL, &q.MinPrice, &q.MaxPrice); err != nil {
			return nil, fmt.Errorf("%w: postgres: scan query: %v", ErrMalformed, err)
		}
		q.Listings = []models.Listing{}
		index[id] = len(state.Queries)
		state.Queries = append(state.Queries, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: fetch queries: %w", err)
	}

	if err := ps.loadListings(ctx, state, index); err != nil {
		return nil, err
	}
	return state, nil
}

func (ps *PostgresStore) loadListings(ctx context.Context, state *models.State, index map[int64]int) error {
	rows, err := ps.db.QueryContext(ctx, `
		SELECT query_id, title, price, url, location, hidden
		FROM listings
		ORDER BY query_id, position
	`)
	if err != nil {
		return fmt.Errorf("postgres: fetch listings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			queryID int64
			price   sql.NullInt64
			l       models.Listing
		)
		if err := rows.Scan(&queryID, &l.Title, &price, &l.URL, &l.Location, &l.Hidden); err != nil {
			return fmt.Errorf("%w: postgres: scan listing: %v", ErrMalformed, err)
		}
		if price.Valid {
			l.Price = models.IntPtr(int(price.Int64))
		}
		i, ok := index[queryID]
		if !ok {
			return fmt.Errorf("%w: postgres: listing %s references unknown query %d", ErrMalformed, l.URL, queryID)
		}
		state.Queries[i].Listings = append(state.Queries[i].Listings, l)
	}
	return rows.Err()
}

// Save replaces the stored database with state in a single transaction.
func (ps *PostgresStore) Save(ctx context.Context, state *models.State) error {
	tx, err := ps.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("postgres: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM queries"); err != nil {
		return fmt.Errorf("postgres: clear: %w", err)
	}

	for pos, q := range state.Queries {
		var id int64
		err := tx.QueryRowContext(ctx, `
			INSERT INTO queries (position, name, url, min_price, max_price)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`, pos, q.Name, q.URL, q.MinPrice, q.MaxPrice).Scan(&id)
		if err != nil {
			return fmt.Errorf("postgres: insert query %q: %w", q.Name, err)
		}

		const batchSize = 50
		for i := 0; i < len(q.Listings); i += batchSize {
			end := i + batchSize
			if end > len(q.Listings) {
				end = len(q.Listings)
			}
			if err := insertBatch(ctx, tx, id, i, q.Listings[i:end]); err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("postgres: commit: %w", err)
	}
	return nil
}

func insertBatch(ctx context.Context, tx *sql.Tx, queryID int64, offset int, batch []models.Listing) error {
	valueArgs := make([]interface{}, 0, len(batch)*listingColumns)
	for idx, l := range batch {
		var price interface{}
		if l.Price != nil {
			price = int64(*l.Price)
		}
		valueArgs = append(valueArgs,
			queryID, offset+idx, l.Title, price, l.URL, l.Location, l.Hidden)
	}

	query := fmt.Sprintf(`
		INSERT INTO listings (query_id, position, title, price, url, location, hidden)
		VALUES %s
		ON CONFLICT (query_id, url) DO NOTHING
	`, valuesClause(len(batch), listingColumns))

	if _, err := tx.ExecContext(ctx, query, valueArgs...); err != nil {
		return fmt.Errorf("postgres: insert listings: %w", err)
	}
	return nil
}

// valuesClause builds "($1,$2),($3,$4)" for rows × cols placeholders.
func valuesClause(rows, cols int) string {
	groups := make([]string, 0, rows)
	for r := 0; r < rows; r++ {
		ph := make([]string, cols)
		for c := 0; c < cols; c++ {
			ph[c] = fmt.Sprintf("$%d", r*cols+c+1)
		}
		groups = append(groups, "("+strings.Join(ph, ",")+")")
	}
	return strings.Join(groups, ",")
}

func (ps *PostgresStore) Close() error {
	return ps.db.Close()
}
