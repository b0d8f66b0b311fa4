package models

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var queryValidate = validator.New()

// Query is a named, price-bounded search with its current listing set.
// Listings is kept sorted by price and every entry lies within the bounds.
type Query struct {
	Name     string    `json:"name" validate:"required"`
	URL      string    `json:"url" validate:"required,url"`
	MinPrice int       `json:"min_price"`
	MaxPrice int       `json:"max_price" validate:"gtefield=MinPrice"`
	Listings []Listing `json:"entries"`
}

// NewQuery returns an empty query with the given bounds.
func NewQuery(name, url string, minPrice, maxPrice int) *Query {
	return &Query{
		Name:     name,
		URL:      url,
		MinPrice: minPrice,
		MaxPrice: maxPrice,
		Listings: []Listing{},
	}
}

// Validate checks user-supplied fields before a query is added.
func (q *Query) Validate() error {
	if err := queryValidate.Struct(q); err != nil {
		return fmt.Errorf("invalid query %q: %w", q.Name, err)
	}
	return nil
}

// Visible returns the listings not flagged hidden, in stored order.
func (q *Query) Visible() []Listing {
	out := make([]Listing, 0, len(q.Listings))
	for _, l := range q.Listings {
		if !l.Hidden {
			out = append(out, l)
		}
	}
	return out
}

// State is the persisted document: every query in insertion order.
type State struct {
	Queries []Query `json:"queries"`
}
