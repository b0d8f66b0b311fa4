package subito

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"subito-tracker/config"
	"subito-tracker/models"
	"subito-tracker/services"
	"subito-tracker/utils"
)

// maxPageBytes bounds the size of a results page read into memory.
const maxPageBytes = 8 << 20

// HTTPFetcher downloads a results page and parses it without a browser.
type HTTPFetcher struct {
	client  *http.Client
	headers map[string]string
	retry   *utils.RetryConfig
	cleaner *services.Cleaner
	logger  *utils.Logger
}

// NewHTTPFetcher creates an HTTPFetcher from cfg.
func NewHTTPFetcher(cfg *config.Config, logger *utils.Logger) *HTTPFetcher {
	return &HTTPFetcher{
		client:  &http.Client{Timeout: time.Duration(cfg.RequestTimeoutSec) * time.Second},
		headers: browserHeaders(cfg.UserAgent),
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
func (f *HTTPFetcher) FetchListings(ctx context.Context, queryURL string) ([]models.RawListing, error) {
	var cards []models.Card

	err := f.retry.Do(ctx, "fetch "+queryURL, func() error {
		body, err := f.get(ctx, queryURL)
		if err != nil {
			return err
		}
		cards, err = ParseCards(bytes.NewReader(body))
		return err
	})
	if err != nil {
		return nil, err
	}

	f.logger.Debug("[subito] %s: %d cards", queryURL, len(cards))
	return f.cleaner.Clean(cards), nil
}

func (f *HTTPFetcher) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("subito: build request: %w", err)
	}
	for k, v := range f.headers {
		req.Header.Set(k, v)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("subito: get %s: %w", u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return nil, utils.Permanent(fmt.Errorf("subito: get %s: http status %d", u, resp.StatusCode))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("subito: get %s: http status %d", u, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, fmt.Errorf("subito: read body: %w", err)
	}
	return body, nil
}

func browserHeaders(userAgent string) map[string]string {
	return map[string]string{
		"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8",
		"Accept-Language":           "en-US,en;q=0.5",
		"Sec-Ch-Ua":                 `"Chromium";v="128", "Not;A=Brand";v="24", "Brave";v="128"`,
		"Sec-Ch-Ua-Mobile":          "?0",
		"Sec-Ch-Ua-Platform":        `"Windows"`,
		"Sec-Fetch-Dest":            "document",
		"Sec-Fetch-Mode":            "navigate",
		"Sec-Fetch-Site":            "none",
		"Sec-Fetch-User":            "?1",
		"Sec-Gpc":                   "1",
		"Upgrade-Insecure-Requests": "1",
		"User-Agent":                userAgent,
	}
}
