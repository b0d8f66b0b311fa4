package services

import (
	"sort"

	"subito-tracker/models"
)

// Delta is the outcome of comparing a stored listing set with a fresh fetch.
type Delta struct {
	// Unchanged is set when the filtered, sorted fetch matches the stored set
	// field for field. All other fields are empty in that case.
	Unchanged bool
	// Kept are stored listings still present in the fetch, in stored order.
	Kept []models.Listing
	// Removed are stored listings whose URL is missing from the fetch.
	Removed []models.Listing
	// Added are fetched listings with no stored counterpart, in price order.
	Added []models.Listing
}

// Diff compares old against a fresh fetch restricted to [minPrice, maxPrice].
// It never mutates old.
func Diff(old []models.Listing, fresh []models.RawListing, minPrice, maxPrice int) Delta {
	candidates := make([]models.Listing, 0, len(fresh))
	for _, r := range fresh {
		if InRange(r.Price, minPrice, maxPrice) {
			candidates = append(candidates, models.FromRaw(r))
		}
	}
	sortByPrice(candidates)

	if sameContent(candidates, old) {
		return Delta{Unchanged: true}
	}

	present := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		present[c.URL] = struct{}{}
	}

	var d Delta
	known := make(map[string]struct{}, len(old))
	for _, l := range old {
		if _, ok := present[l.URL]; !ok {
			d.Removed = append(d.Removed, l)
			continue
		}
		// A stored entry without a price cannot be ordered; drop it and let
		// the fetched copy come back as an addition.
		if l.Price == nil {
			continue
		}
		if _, dup := known[l.URL]; dup {
			continue
		}
		known[l.URL] = struct{}{}
		d.Kept = append(d.Kept, l)
	}

	for _, c := range candidates {
		if _, ok := known[c.URL]; ok {
			continue
		}
		known[c.URL] = struct{}{}
		d.Added = append(d.Added, c)
	}
	return d
}

// Merge returns a new slice of the kept listings plus added, sorted by price.
func (d Delta) Merge(added []models.Listing) []models.Listing {
	out := make([]models.Listing, 0, len(d.Kept)+len(added))
	out = append(out, d.Kept...)
	out = append(out, added...)
	sortByPrice(out)
	return out
}

// sortByPrice orders listings by price, keeping fetch order for equal prices.
// Callers guarantee every price is present.
func sortByPrice(ls []models.Listing) {
	sort.SliceStable(ls, func(i, j int) bool {
		return models.PriceLess(ls[i], ls[j])
	})
}

func sameContent(a, b []models.Listing) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !models.EqualContent(a[i], b[i]) {
			return false
		}
	}
	return true
}
