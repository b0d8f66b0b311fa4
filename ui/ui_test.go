package ui

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"subito-tracker/models"
	"subito-tracker/services"
)

func TestLinePromptAnswers(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"yes short", "y\n", true},
		{"yes long upper", "YES\n", true},
		{"padded", "  y  \n", true},
		{"no", "n\n", false},
		{"empty line", "\n", false},
		{"anything else", "maybe\n", false},
		{"no trailing newline", "y", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			p := NewLinePrompt(strings.NewReader(tt.input), &out)

			got, err := p.Hidden(context.Background(), models.Listing{Title: "Bici"})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "Hide this listing?")
		})
	}
}

func TestLinePromptEndOfInput(t *testing.T) {
	p := NewLinePrompt(strings.NewReader(""), &bytes.Buffer{})

	_, err := p.Hidden(context.Background(), models.Listing{})
	assert.ErrorIs(t, err, ErrNoAnswer)
}

func TestLinePromptReadsSequentialAnswers(t *testing.T) {
	p := NewLinePrompt(strings.NewReader("y\nn\n"), &bytes.Buffer{})
	ctx := context.Background()

	first, err := p.Hidden(ctx, models.Listing{})
	require.NoError(t, err)
	second, err := p.Hidden(ctx, models.Listing{})
	require.NoError(t, err)

	assert.True(t, first)
	assert.False(t, second)
}

func TestConsoleNarration(t *testing.T) {
	var out bytes.Buffer
	c := NewConsole(&out)
	q := models.NewQuery("bici", "https://www.subito.it/q", 0, 100)
	l := models.Listing{Title: "Bici", Price: models.IntPtr(50), URL: "https://www.subito.it/a.htm", Location: "Roma (RM)"}

	c.Removed(q, l)
	c.Added(q, l)
	c.Unchanged(q)

	text := out.String()
	assert.Contains(t, text, `Removed entry "50€ Bici" because probably sold`)
	assert.Contains(t, text, "Added entry -> 50€ Bici")
	assert.Contains(t, text, `No changes for "bici"`)
}

func TestConsolePrintReportSkipsHidden(t *testing.T) {
	var out bytes.Buffer
	q := models.NewQuery("bici", "https://www.subito.it/q", 0, 1000)
	q.Listings = []models.Listing{
		{Title: "Visible", Price: models.IntPtr(10), URL: "https://www.subito.it/v.htm", Location: "Roma (RM)"},
		{Title: "Secret", Price: models.IntPtr(20), URL: "https://www.subito.it/s.htm", Location: "Unknown", Hidden: true},
	}

	NewConsole(&out).PrintReport(services.BuildReport(q))

	text := out.String()
	assert.Contains(t, text, "Query: bici")
	assert.Contains(t, text, "10€ Visible - Roma (RM)")
	assert.NotContains(t, text, "Secret")
	assert.Contains(t, text, "(1 hidden)")
}
