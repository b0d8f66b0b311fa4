package subito

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"subito-tracker/config"
	"subito-tracker/models"
	"subito-tracker/utils"
)

const resultsPage = `<!doctype html>
<html><body>
<div class="items-list">
  <div class="SmallCard-module_item-card__abc12 item-card--small">
    <a href="https://www.subito.it/biciclette/bici-corsa-roma-1.htm">
      <h2 class="ItemTitle-module_item-title">Bici da corsa</h2>
      <p class="index-module_price__N7M2x">1.250 €<span class="shipping">Spedizione disponibile</span></p>
      <span class="index-module_town__abc">Roma</span>
      <span class="index-module_city__def">(RM)</span>
    </a>
  </div>
  <div class="SmallCard-module_item-card__abc12">
    <a href="https://www.subito.it/biciclette/bici-venduta-2.htm">
      <h2>Bici venduta</h2>
      <p class="index-module_price__N7M2x">90 €</p>
      <span class="item-sold-badge">Venduto</span>
    </a>
  </div>
  <div class="SmallCard-module_item-card__abc12">
    <a href="https://www.subito.it/biciclette/bici-regalo-3.htm">
      <h2>  Bici   in regalo </h2>
      <span class="index-module_town__abc">Milano</span>
    </a>
  </div>
</div>
</body></html>`

func testConfig() *config.Config {
	return &config.Config{
		UserAgent:         "tracker-test/1.0",
		MaxRetries:        1,
		RequestTimeoutSec: 5,
	}
}

func quietLogger() *utils.Logger {
	return utils.NewLoggerWithWriters(utils.LevelError, io.Discard, io.Discard)
}

func TestParseCards(t *testing.T) {
	cards, err := ParseCards(strings.NewReader(resultsPage))
	require.NoError(t, err)
	require.Len(t, cards, 3)

	assert.Equal(t, models.Card{
		Title: "Bici da corsa",
		Price: "1.250 €",
		URL:   "https://www.subito.it/biciclette/bici-corsa-roma-1.htm",
		Town:  "Roma",
		City:  "(RM)",
	}, cards[0])
	assert.True(t, cards[1].Sold)
	assert.Empty(t, cards[2].Price)
	assert.Empty(t, cards[2].City)
}

func TestParseCardsWithoutResults(t *testing.T) {
	cards, err := ParseCards(strings.NewReader("<html><body><p>Nessun risultato</p></body></html>"))
	require.NoError(t, err)
	assert.Empty(t, cards)
}

func TestHTTPFetcherFetchListings(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		_, _ = io.WriteString(w, resultsPage)
	}))
	defer srv.Close()

	f := NewHTTPFetcher(testConfig(), quietLogger())
	listings, err := f.FetchListings(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Equal(t, "tracker-test/1.0", gotUA)
	require.Len(t, listings, 2)

	assert.Equal(t, "Bici da corsa", listings[0].Title)
	require.NotNil(t, listings[0].Price)
	assert.Equal(t, 1250, *listings[0].Price)
	assert.Equal(t, "Roma (RM)", listings[0].Location)

	assert.Equal(t, "Bici in regalo", listings[1].Title)
	assert.Nil(t, listings[1].Price)
	assert.Equal(t, "Unknown", listings[1].Location)
}

func TestHTTPFetcherClientErrorNotRetried(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		http.Error(w, "blocked", http.StatusForbidden)
	}))
	defer srv.Close()

	cfg := testConfig()
	cfg.MaxRetries = 3
	f := NewHTTPFetcher(cfg, quietLogger())
	_, err := f.FetchListings(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
	assert.ErrorIs(t, err, utils.ErrPermanent)
	assert.Equal(t, 1, requests)
}

func TestNewFetcherBackends(t *testing.T) {
	cfg := testConfig()

	cfg.FetchBackend = "http"
	f, err := NewFetcher(cfg, quietLogger())
	require.NoError(t, err)
	assert.IsType(t, &HTTPFetcher{}, f)

	cfg.FetchBackend = "chrome"
	f, err = NewFetcher(cfg, quietLogger())
	require.NoError(t, err)
	assert.IsType(t, &ChromeFetcher{}, f)

	cfg.FetchBackend = "carrier-pigeon"
	_, err = NewFetcher(cfg, quietLogger())
	assert.Error(t, err)
}
