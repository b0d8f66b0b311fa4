package services

import (
	"fmt"
	"math"

	"subito-tracker/models"
)

// Report is the printable summary of one query: its bounds and the listings
// the user has not hidden.
type Report struct {
	Name     string
	URL      string
	MinPrice int
	MaxPrice int
	Entries  []models.Listing
	Hidden   int
}

// BuildReport collects the visible listings of q, sorted by price.
func BuildReport(q *models.Query) Report {
	r := Report{
		Name:     q.Name,
		URL:      q.URL,
		MinPrice: q.MinPrice,
		MaxPrice: q.MaxPrice,
	}
	for _, l := range q.Listings {
		switch {
		case l.Hidden:
			r.Hidden++
		case l.Price != nil:
			r.Entries = append(r.Entries, l)
		}
	}
	sortByPrice(r.Entries)
	return r
}

// Header returns the title line of the report.
func (r Report) Header() string {
	return fmt.Sprintf("Query: %s          Minimum price: %s          Maximum price: %s",
		r.Name, formatBound(r.MinPrice), formatBound(r.MaxPrice))
}

// EntryLines renders one listing as the two lines shown by "list".
func EntryLines(l models.Listing) (summary, link string) {
	return fmt.Sprintf("%s %s - %s", FormatPrice(l.Price), l.Title, l.Location), l.URL
}

// FormatPrice renders a price in euro, or "n/a" when it is absent.
func FormatPrice(p *int) string {
	if p == nil {
		return "n/a"
	}
	return fmt.Sprintf("%d€", *p)
}

func formatBound(v int) string {
	switch v {
	case math.MaxInt, -1:
		return "none"
	default:
		return fmt.Sprintf("%d", v)
	}
}
