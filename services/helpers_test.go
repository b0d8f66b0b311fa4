package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"subito-tracker/models"
	"subito-tracker/storage"
	"subito-tracker/utils"
)

func quietLogger() *utils.Logger {
	return utils.NewLoggerWithWriters(utils.LevelError, io.Discard, io.Discard)
}

func raw(url string, price *int) models.RawListing {
	return models.RawListing{Title: "item " + url, Price: price, URL: url, Location: "Roma (RM)"}
}

func listing(url string, price int) models.Listing {
	return models.Listing{Title: "item " + url, Price: models.IntPtr(price), URL: url, Location: "Roma (RM)"}
}

type fakeFetcher struct {
	pages map[string][]models.RawListing
	fail  map[string]error
	calls []string
}

func (f *fakeFetcher) FetchListings(_ context.Context, url string) ([]models.RawListing, error) {
	f.calls = append(f.calls, url)
	if err := f.fail[url]; err != nil {
		return nil, err
	}
	return f.pages[url], nil
}

// scriptedPrompt answers from a fixed list and records who was asked.
type scriptedPrompt struct {
	answers []bool
	asked   []string
	err     error
}

func (p *scriptedPrompt) Hidden(_ context.Context, l models.Listing) (bool, error) {
	if p.err != nil {
		return false, p.err
	}
	p.asked = append(p.asked, l.URL)
	if len(p.asked) > len(p.answers) {
		return false, nil
	}
	return p.answers[len(p.asked)-1], nil
}

type recordingNarrator struct {
	events []string
}

func (n *recordingNarrator) Removed(q *models.Query, l models.Listing) {
	n.events = append(n.events, "removed "+l.URL)
}

func (n *recordingNarrator) Added(q *models.Query, l models.Listing) {
	n.events = append(n.events, "added "+l.URL)
}

func (n *recordingNarrator) Unchanged(q *models.Query) {
	n.events = append(n.events, "unchanged "+q.Name)
}

func (n *recordingNarrator) Info(format string, args ...any) {
	n.events = append(n.events, fmt.Sprintf(format, args...))
}

type memStore struct {
	state   *models.State
	loadErr error
	saves   int
}

func (m *memStore) Load(context.Context) (*models.State, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.state == nil {
		return nil, storage.ErrNotFound
	}
	return m.state, nil
}

func (m *memStore) Save(_ context.Context, s *models.State) error {
	m.saves++
	m.state = s
	return nil
}

func (m *memStore) Close() error { return nil }

var errNetwork = errors.New("connection reset")
