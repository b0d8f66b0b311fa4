package services

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"subito-tracker/models"
	"subito-tracker/utils"
)

// unknownLocation is used when a card lacks the town or the city.
const unknownLocation = "Unknown"

// priceRegexp captures an Italian-formatted amount such as "1.250".
var priceRegexp = regexp.MustCompile(`\d[\d.]*`)

// Cleaner transforms scraped cards into RawListings.
type Cleaner struct {
	logger *utils.Logger
}

// NewCleaner creates a Cleaner with the given logger.
func NewCleaner(logger *utils.Logger) *Cleaner {
	return &Cleaner{logger: logger}
}

// Clean drops sold, URL-less and duplicate cards and parses the rest.
func (c *Cleaner) Clean(cards []models.Card) []models.RawListing {
	seen := utils.NewURLSet()
	result := make([]models.RawListing, 0, len(cards))

	for _, card := range cards {
		if card.Sold {
			c.logger.Debug("[cleaner] Skipping sold item: %s", card.URL)
			continue
		}

		url := strings.TrimSpace(card.URL)
		if url == "" {
			c.logger.Warn("[cleaner] Dropping card with empty URL: %s", card.Title)
			continue
		}

		if !seen.Add(url) {
			c.logger.Debug("[cleaner] Duplicate URL skipped: %s", url)
			continue
		}

		result = append(result, models.RawListing{
			Title:    normaliseText(card.Title),
			Price:    c.parsePrice(card.Price),
			URL:      url,
			Location: parseLocation(card.Town, card.City),
		})
	}

	c.logger.Debug("[cleaner] Cleaned %d → %d listings (dropped %d)",
		len(cards), len(result), len(cards)-len(result))
	return result
}

// parsePrice turns "1.250 €" into 1250. Missing or unparsable prices yield nil.
func (c *Cleaner) parsePrice(raw string) *int {
	match := priceRegexp.FindString(raw)
	if match == "" {
		return nil
	}
	n, err := strconv.Atoi(strings.ReplaceAll(match, ".", ""))
	if err != nil {
		c.logger.Debug("[cleaner] Unparsable price %q: %v", raw, err)
		return nil
	}
	return &n
}

func parseLocation(town, city string) string {
	town, city = normaliseText(town), normaliseText(city)
	if town == "" || city == "" {
		return unknownLocation
	}
	return town + " " + city
}

// normaliseText strips leading/trailing whitespace and collapses internal whitespace.
func normaliseText(s string) string {
	fields := strings.FieldsFunc(s, unicode.IsSpace)
	return strings.Join(fields, " ")
}
