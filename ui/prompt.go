package ui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"

	"subito-tracker/models"
	"subito-tracker/services"
)

// ErrNoAnswer is returned when input ends before the user answers.
var ErrNoAnswer = errors.New("ui: no answer to visibility prompt")

// NewVisibilityPrompt returns an interactive form on a terminal and a plain
// line reader when stdin is piped.
func NewVisibilityPrompt() services.VisibilityPrompt {
	if isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		return &FormPrompt{}
	}
	return NewLinePrompt(os.Stdin, os.Stdout)
}

// FormPrompt asks with a huh confirm field.
type FormPrompt struct{}

func (p *FormPrompt) Hidden(ctx context.Context, l models.Listing) (bool, error) {
	var hide bool
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(fmt.Sprintf("Hide %s %s?", services.FormatPrice(l.Price), l.Title)).
			Description(l.URL).
			Affirmative("Hide").
			Negative("Show").
			Value(&hide),
	))
	if err := form.RunWithContext(ctx); err != nil {
		return false, fmt.Errorf("ui: visibility prompt: %w", err)
	}
	return hide, nil
}

// LinePrompt reads a y/N answer per line.
type LinePrompt struct {
	reader *bufio.Reader
	writer io.Writer
}

// NewLinePrompt creates a LinePrompt on the given streams.
func NewLinePrompt(r io.Reader, w io.Writer) *LinePrompt {
	return &LinePrompt{reader: bufio.NewReader(r), writer: w}
}

func (p *LinePrompt) Hidden(ctx context.Context, l models.Listing) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	fmt.Fprintf(p.writer, "Hide this listing? [y/N]: ")
	line, err := p.reader.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return false, fmt.Errorf("ui: read answer: %w", err)
		}
		if line == "" {
			return false, ErrNoAnswer
		}
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
