package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"subito-tracker/models"
)

var _ ListingExporter = (*CSVWriter)(nil)

// CSVWriter exports visible listings to a CSV file, one row per listing.
type CSVWriter struct {
	file   *os.File
	writer *csv.Writer
}

// NewCSVWriter creates (or truncates) the CSV file at the given path and
// writes the header row. Intermediate directories are created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w := csv.NewWriter(f)

	// Write header
	if err := w.Write([]string{"query", "price", "title", "location", "url"}); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: write header: %w", err)
	}

	return &CSVWriter{file: f, writer: w}, nil
}

// WriteQuery appends the visible listings of q.
func (c *CSVWriter) WriteQuery(q *models.Query) error {
	for _, l := range q.Visible() {
		price := ""
		if l.Price != nil {
			price = strconv.Itoa(*l.Price)
		}
		if err := c.writer.Write([]string{q.Name, price, l.Title, l.Location, l.URL}); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	if err := c.writer.Error(); err != nil {
		_ = c.file.Close()
		return fmt.Errorf("csv: flush: %w", err)
	}
	return c.file.Close()
}
