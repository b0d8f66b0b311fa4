package models

// RawListing is one item as returned by a fetch, before reconciliation.
// Price is nil when the page did not carry a parsable price.
type RawListing struct {
	Title    string
	Price    *int
	URL      string
	Location string
	Sold     bool
}

// Listing is a tracked item stored under a Query.
type Listing struct {
	Title    string `json:"title"`
	Price    *int   `json:"price"`
	URL      string `json:"url"`
	Location string `json:"location"`
	Hidden   bool   `json:"hidden"`
}

// FromRaw converts a fetched item into a visible Listing.
func FromRaw(r RawListing) Listing {
	return Listing{
		Title:    r.Title,
		Price:    r.Price,
		URL:      r.URL,
		Location: r.Location,
	}
}

// SameListing reports whether a and b are the same item. Identity is the URL only.
func SameListing(a, b Listing) bool {
	return a.URL == b.URL
}

// PriceLess orders listings by price. Both prices must be present.
func PriceLess(a, b Listing) bool {
	return *a.Price < *b.Price
}

// EqualContent compares every field a fetch can produce: title, price, url
// and location. Hidden is user state and is not part of the comparison.
func EqualContent(a, b Listing) bool {
	if a.Title != b.Title || a.URL != b.URL || a.Location != b.Location {
		return false
	}
	if (a.Price == nil) != (b.Price == nil) {
		return false
	}
	return a.Price == nil || *a.Price == *b.Price
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int { return &v }

// Card holds the unprocessed text of one result card as scraped from the page.
type Card struct {
	Title string
	Price string
	URL   string
	Town  string
	City  string
	Sold  bool
}
