// Package ui renders tracker output on the terminal and asks the user
// whether new listings should be hidden.
package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"subito-tracker/models"
	"subito-tracker/services"
)

var (
	colorAdded   = lipgloss.Color("#2CD7C7")
	colorRemoved = lipgloss.Color("#E74C3C")
	colorMuted   = lipgloss.Color("#7F8C8D")

	addedStyle   = lipgloss.NewStyle().Foreground(colorAdded)
	removedStyle = lipgloss.NewStyle().Foreground(colorRemoved)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorAdded)
)

// Console writes one line per event.
type Console struct {
	out io.Writer
}

// NewConsole creates a Console writing to out.
func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

func (c *Console) Removed(q *models.Query, l models.Listing) {
	c.line(removedStyle.Render(fmt.Sprintf("Removed entry \"%s %s\" because probably sold", services.FormatPrice(l.Price), l.Title)))
}

func (c *Console) Added(q *models.Query, l models.Listing) {
	c.line(addedStyle.Render(fmt.Sprintf("Added entry -> %s %s", services.FormatPrice(l.Price), l.Title)))
	c.line(mutedStyle.Render(fmt.Sprintf("  %s - %s", l.Location, l.URL)))
}

func (c *Console) Unchanged(q *models.Query) {
	c.line(mutedStyle.Render(fmt.Sprintf("No changes for %q", q.Name)))
}

func (c *Console) Info(format string, args ...any) {
	c.line(fmt.Sprintf(format, args...))
}

// PrintReport writes the "list" dump of one query.
func (c *Console) PrintReport(r services.Report) {
	c.line(titleStyle.Render(r.Header()))
	c.line("URL: " + r.URL)
	for _, l := range r.Entries {
		summary, link := services.EntryLines(l)
		c.line("")
		c.line(summary)
		c.line(mutedStyle.Render(link))
	}
	if r.Hidden > 0 {
		c.line("")
		c.line(mutedStyle.Render(fmt.Sprintf("(%d hidden)", r.Hidden)))
	}
	c.line(strings.Repeat("─", 54))
}

func (c *Console) line(s string) {
	fmt.Fprintln(c.out, s)
}
