package services

import (
	"testing"

	"subito-tracker/models"
)

func TestCleanerParsePrice(t *testing.T) {
	c := NewCleaner(quietLogger())

	tests := []struct {
		raw  string
		want *int
	}{
		{"120 €", models.IntPtr(120)},
		{"1.250 €", models.IntPtr(1250)},
		{"12.000 €", models.IntPtr(12000)},
		{"", nil},
		{"Gratis", nil},
		{"€ 99", models.IntPtr(99)},
	}

	for _, tt := range tests {
		got := c.parsePrice(tt.raw)
		switch {
		case got == nil && tt.want == nil:
		case got == nil || tt.want == nil:
			t.Errorf("parsePrice(%q) = %v; want %v", tt.raw, got, tt.want)
		case *got != *tt.want:
			t.Errorf("parsePrice(%q) = %d; want %d", tt.raw, *got, *tt.want)
		}
	}
}

func TestCleanerLocation(t *testing.T) {
	tests := []struct {
		town, city, want string
	}{
		{"Roma", "(RM)", "Roma (RM)"},
		{" Milano ", "(MI) ", "Milano (MI)"},
		{"Roma", "", "Unknown"},
		{"", "(RM)", "Unknown"},
	}
	for _, tt := range tests {
		if got := parseLocation(tt.town, tt.city); got != tt.want {
			t.Errorf("parseLocation(%q, %q) = %q; want %q", tt.town, tt.city, got, tt.want)
		}
	}
}

func TestCleanerDropsSoldAndEmptyURL(t *testing.T) {
	c := NewCleaner(quietLogger())
	cards := []models.Card{
		{Title: "No URL", Price: "100 €", URL: ""},
		{Title: "Sold", Price: "100 €", URL: "https://www.subito.it/sold.htm", Sold: true},
		{Title: "Has URL", Price: "200 €", URL: "https://www.subito.it/ok.htm"},
	}

	cleaned := c.Clean(cards)
	if len(cleaned) != 1 {
		t.Fatalf("expected 1 listing, got %d", len(cleaned))
	}
	if cleaned[0].Title != "Has URL" {
		t.Errorf("kept the wrong card: %q", cleaned[0].Title)
	}
}

func TestCleanerDeduplicatesURL(t *testing.T) {
	c := NewCleaner(quietLogger())
	cards := []models.Card{
		{Title: "A", URL: "https://www.subito.it/1.htm"},
		{Title: "B", URL: " https://www.subito.it/1.htm "},
	}

	cleaned := c.Clean(cards)
	if len(cleaned) != 1 {
		t.Errorf("expected 1 listing after deduplication, got %d", len(cleaned))
	}
}
