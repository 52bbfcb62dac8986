package ui

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Table renders aligned columns. Widths are measured in terminal cells so
// wide runes in identities do not break alignment.
type Table struct {
	Header []string
	Rows   [][]string
	// MaxWidth truncates every cell; 0 disables truncation.
	MaxWidth int
	Styled   bool
}

// Render writes the table to w.
func (t *Table) Render(w io.Writer) error {
	cols := len(t.Header)
	for _, r := range t.Rows {
		cols = max(cols, len(r))
	}
	widths := make([]int, cols)
	measure := func(row []string) {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(t.cell(cell)))
		}
	}
	measure(t.Header)
	for _, r := range t.Rows {
		measure(r)
	}

	headStyle := lipgloss.NewStyle().Bold(true).Underline(true)
	var sb strings.Builder
	line := func(row []string, head bool) {
		for i := 0; i < cols; i++ {
			cell := ""
			if i < len(row) {
				cell = t.cell(row[i])
			}
			if i < cols-1 {
				cell = runewidth.FillRight(cell, widths[i])
			}
			if head && t.Styled {
				cell = headStyle.Render(cell)
			}
			if i > 0 {
				sb.WriteString("  ")
			}
			sb.WriteString(cell)
		}
		sb.WriteString("\n")
	}
	if len(t.Header) > 0 {
		line(t.Header, true)
	}
	for _, r := range t.Rows {
		line(r, false)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func (t *Table) cell(s string) string {
	return Truncate(s, t.MaxWidth)
}

// Title renders a bold banner line, plain when styled is false.
func Title(text string, styled bool) string {
	if !styled {
		return text
	}
	return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")).Render(text)
}

// Truncate shortens value to width terminal cells, marking the cut with
// "...". A width of 0 or less leaves value untouched.
func Truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
