package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Status is the information shown in the top bar.
type Status struct {
	Host      string
	Shown     int
	Total     int
	Done      int
	Pending   int
	Loaded    bool
	Searching bool
	Notice    string
}

// StatusBar renders the top status bar.
func StatusBar(s Status, width int) string {
	parts := []string{"todosearch - " + s.Host}
	if s.Loaded {
		parts = append(parts,
			fmt.Sprintf("%d/%d records", s.Shown, s.Total),
			fmt.Sprintf("✔ %d  • %d", s.Done, s.Pending),
		)
	}
	if s.Searching {
		parts = append(parts, "searching…")
	}
	if s.Notice != "" {
		parts = append(parts, s.Notice)
	}

	text := strings.Join(parts, "  ·  ")
	// Padding(0, 1) takes two columns.
	if width > 2 {
		text = ansi.Truncate(text, width-2, "…")
	}
	return statusBarStyle.Width(width).Render(text)
}
