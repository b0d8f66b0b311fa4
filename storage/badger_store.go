package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v4"

	"subito-tracker/models"
)

var (
	metaKey     = []byte("meta:initialised")
	queryPrefix = []byte("query:")
)

// BadgerStore keeps one key per query, ordered by its position.
type BadgerStore struct {
	db *badger.DB
}

// NewBadgerStore opens (or creates) a Badger database in dir. An empty dir
// opens an in-memory database.
func NewBadgerStore(dir string) (*BadgerStore, error) {
	var opts badger.Options
	if dir == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("badger: create dir %s: %w", dir, err)
		}
		opts = badger.DefaultOptions(dir)
	}
	opts = opts.WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badger: open: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

// Load reads every query in position order.
func (bs *BadgerStore) Load(_ context.Context) (*models.State, error) {
	state := &models.State{Queries: []models.Query{}}

	err := bs.db.View(func(txn *badger.Txn) error {
		if _, err := txn.Get(metaKey); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrNotFound
			}
			return err
		}

		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(queryPrefix); it.ValidForPrefix(queryPrefix); it.Next() {
			item := it.Item()
			err := item.Value(func(v []byte) error {
				var q models.Query
				if err := json.Unmarshal(v, &q); err != nil {
					return fmt.Errorf("%w: badger: decode %s: %v", ErrMalformed, item.Key(), err)
				}
				state.Queries = append(state.Queries, q)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrMalformed) {
			return nil, err
		}
		return nil, fmt.Errorf("badger: load: %w", err)
	}
	return state, nil
}

// Save replaces every stored query with state.
func (bs *BadgerStore) Save(_ context.Context, state *models.State) error {
	err := bs.db.Update(func(txn *badger.Txn) error {
		if err := deletePrefix(txn, queryPrefix); err != nil {
			return err
		}
		for pos, q := range state.Queries {
			v, err := json.Marshal(q)
			if err != nil {
				return fmt.Errorf("badger: encode %q: %w", q.Name, err)
			}
			if err := txn.Set(queryKey(pos), v); err != nil {
				return err
			}
		}
		return txn.Set(metaKey, []byte("1"))
	})
	if err != nil {
		return fmt.Errorf("badger: save: %w", err)
	}
	return nil
}

func deletePrefix(txn *badger.Txn, prefix []byte) error {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	it := txn.NewIterator(opts)
	var keys [][]byte
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		keys = append(keys, it.Item().KeyCopy(nil))
	}
	it.Close()

	for _, k := range keys {
		if err := txn.Delete(k); err != nil {
			return err
		}
	}
	return nil
}

// queryKey zero-pads pos so lexical key order matches insertion order.
func queryKey(pos int) []byte {
	return []byte(fmt.Sprintf("%s%08d", queryPrefix, pos))
}

func (bs *BadgerStore) Close() error {
	return bs.db.Close()
}
