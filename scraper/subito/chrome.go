package subito

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/chromedp/chromedp"

	"subito-tracker/config"
	"subito-tracker/models"
	"subito-tracker/services"
	"subito-tracker/utils"
)

// extractCardsJS mirrors ParseCards for pages rendered in a real browser.
const extractCardsJS = `
(function() {
	function cls(el, frag) {
		return Array.prototype.some.call(el.classList, function(c) { return c.indexOf(frag) !== -1; });
	}
	function first(root, tag, frag) {
		var els = root.getElementsByTagName(tag);
		for (var i = 0; i < els.length; i++) {
			if (!frag || cls(els[i], frag)) return els[i];
		}
		return null;
	}
	function text(el) { return el ? el.textContent : ''; }

	var results = [];
	var divs = document.getElementsByTagName('div');
	for (var i = 0; i < divs.length; i++) {
		var card = divs[i];
		if (!cls(card, 'item-card')) continue;
		if (card.parentElement && card.parentElement.closest('div[class*="item-card"]')) continue;

		var price = first(card, 'p', 'price');
		var link = first(card, 'a');
		results.push({
			title: text(first(card, 'h2')),
			price: price && price.firstChild ? price.firstChild.textContent : '',
			url:   link ? link.getAttribute('href') || '' : '',
			town:  text(first(card, 'span', 'town')),
			city:  text(first(card, 'span', 'city')),
			sold:  first(card, 'span', 'item-sold-badge') !== null
		});
	}
	return results;
})()
`

// ChromeFetcher loads results pages in headless Chrome. It is slower than
// HTTPFetcher but survives pages that need JavaScript to render.
type ChromeFetcher struct {
	chromeBin string
	userAgent string
	timeout   time.Duration
	retry     *utils.RetryConfig
	cleaner   *services.Cleaner
	logger    *utils.Logger
}

// NewChromeFetcher creates a ChromeFetcher from cfg.
func NewChromeFetcher(cfg *config.Config, logger *utils.Logger) *ChromeFetcher {
	return &ChromeFetcher{
		chromeBin: findChromeBinary(cfg.ChromeBin),
		userAgent: cfg.UserAgent,
		timeout:   time.Duration(cfg.RequestTimeoutSec) * time.Second,
		retry: &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		},
		cleaner: services.NewCleaner(logger),
		logger:  logger,
	}
}

// FetchListings returns the unsold listings on the page at queryURL.
func (f *ChromeFetcher) FetchListings(ctx context.Context, queryURL string) ([]models.RawListing, error) {
	f.logger.Debug("[subito] Using browser binary: %q", f.chromeBin)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(f.userAgent),
	)
	if f.chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(f.chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	// Suppress chromedp log noise
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelBrowser()

	type cardData struct {
		Title string `json:"title"`
		Price string `json:"price"`
		URL   string `json:"url"`
		Town  string `json:"town"`
		City  string `json:"city"`
		Sold  bool   `json:"sold"`
	}

	var data []cardData
	err := f.retry.Do(ctx, "chrome "+queryURL, func() error {
		tabCtx, cancel := chromedp.NewContext(browserCtx)
		defer cancel()

		tabCtx, cancelTimeout := context.WithTimeout(tabCtx, f.timeout)
		defer cancelTimeout()

		err := chromedp.Run(tabCtx,
			chromedp.Navigate(queryURL),
			chromedp.WaitReady("body", chromedp.ByQuery),
			chromedp.Sleep(2*time.Second),
			chromedp.Evaluate(extractCardsJS, &data),
		)
		if err != nil {
			return fmt.Errorf("chromedp page scrape: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	cards := make([]models.Card, 0, len(data))
	for _, d := range data {
		cards = append(cards, models.Card{
			Title: d.Title, Price: d.Price, URL: d.URL,
			Town: d.Town, City: d.City, Sold: d.Sold,
		})
	}
	f.logger.Debug("[subito] %s: %d cards", queryURL, len(cards))
	return f.cleaner.Clean(cards), nil
}

// findChromeBinary locates Chrome/Chromium. An empty result lets chromedp
// use its own lookup.
func findChromeBinary(configured string) string {
	if configured != "" {
		return configured
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
