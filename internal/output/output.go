// Package output renders filtered records for non-interactive use.
package output

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/charmbracelet/glamour"

	"github.com/stefanclaw/todosearch/internal/record"
)

// NoResults is printed when nothing matches.
const NoResults = "No results found."

// Format selects how records are printed.
type Format string

const (
	Plain    Format = "plain"
	Markdown Format = "markdown"
)

// ParseFormat validates a format name.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(name)); f {
	case Plain, Markdown:
		return f, nil
	case "":
		return Plain, nil
	}
	return "", fmt.Errorf("unknown format %q (want plain or markdown)", name)
}

// Options tune the rendering.
type Options struct {
	Format   Format
	Theme    string // glamour style for Markdown: auto, dark, light, notty
	WordWrap int
}

// Write prints records to w in the requested format.
func Write(w io.Writer, records []record.Record, opts Options) error {
	if opts.Format == Markdown {
		return writeMarkdown(w, records, opts)
	}
	return writePlain(w, records)
}

func writePlain(w io.Writer, records []record.Record) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, NoResults)
		return err
	}
	for _, r := range records {
		box := " "
		if r.Completed {
			box = "x"
		}
		if _, err := fmt.Fprintf(w, "%d\t[%s]\t%s\n", r.ID, box, SingleLine(r.Title)); err != nil {
			return err
		}
	}
	return nil
}

func writeMarkdown(w io.Writer, records []record.Record, opts Options) error {
	renderer, err := newRenderer(opts)
	if err != nil {
		return fmt.Errorf("creating markdown renderer: %w", err)
	}
	rendered, err := renderer.Render(MarkdownTable(records))
	if err != nil {
		return fmt.Errorf("rendering markdown: %w", err)
	}
	_, err = io.WriteString(w, rendered)
	return err
}

func newRenderer(opts Options) (*glamour.TermRenderer, error) {
	wrap := opts.WordWrap
	if wrap <= 0 {
		wrap = 80
	}
	style := glamour.WithAutoStyle()
	if opts.Theme != "" && opts.Theme != "auto" {
		style = glamour.WithStandardStyle(opts.Theme)
	}
	return glamour.NewTermRenderer(style, glamour.WithWordWrap(wrap))
}

// MarkdownTable formats records as a Markdown table. An empty list
// yields the no-results sentence instead.
func MarkdownTable(records []record.Record) string {
	if len(records) == 0 {
		return NoResults + "\n"
	}

	var b strings.Builder
	b.WriteString("| ID | Title | Completed |\n")
	b.WriteString("|---:|-------|:---------:|\n")
	for _, r := range records {
		fmt.Fprintf(&b, "| %d | %s | %s |\n", r.ID, escapeCell(r.Title), YesNo(r.Completed))
	}
	return b.String()
}

// YesNo renders a completion flag the way every view shows it.
func YesNo(completed bool) string {
	if completed {
		return "Yes"
	}
	return "No"
}

// SingleLine flattens a remote title onto one line. Line breaks and tabs
// become spaces; other control characters are dropped.
func SingleLine(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\r' || r == '\t':
			return ' '
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, s)
}

func escapeCell(s string) string {
	return strings.ReplaceAll(SingleLine(s), `|`, `\|`)
}
