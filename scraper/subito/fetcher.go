// Package subito fetches search result pages from subito.it and turns the
// result cards into listings.
package subito

import (
	"fmt"

	"subito-tracker/config"
	"subito-tracker/services"
	"subito-tracker/utils"
)

// NewFetcher returns the fetcher selected by cfg.FetchBackend.
func NewFetcher(cfg *config.Config, logger *utils.Logger) (services.Fetcher, error) {
	switch cfg.FetchBackend {
	case "", "http":
		return NewHTTPFetcher(cfg, logger), nil
	case "chrome":
		return NewChromeFetcher(cfg, logger), nil
	default:
		return nil, fmt.Errorf("subito: unknown fetch backend %q", cfg.FetchBackend)
	}
}
