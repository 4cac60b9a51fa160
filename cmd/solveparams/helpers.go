package main

import (
	"errors"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/joho/godotenv"
	"github.com/mattn/go-runewidth"
)

// loadDotEnv loads environment variables from path. Missing files are ignored.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// renderMarkdown converts markdown text to terminal-formatted output. The
// text is returned unchanged when rendering fails.
func renderMarkdown(text string, width int) string {
	if width <= 0 {
		width = 100
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return text
	}
	out, err := r.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(out, "\n")
}

// padRight pads s with spaces to the given display width.
func padRight(s string, width int) string {
	return runewidth.FillRight(s, width)
}

// columnWidth returns the widest display width among values.
func columnWidth(values ...string) int {
	w := 0
	for _, v := range values {
		w = max(w, runewidth.StringWidth(v))
	}
	return w
}

// table lays rows out in space-separated columns. The first row is the
// header and is passed through style.
func table(rows [][]string, header func(string) string) string {
	if len(rows) == 0 {
		return ""
	}

	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], runewidth.StringWidth(cell))
			}
		}
	}

	var b strings.Builder
	for r, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			if i < len(row)-1 {
				cell = padRight(cell, widths[i])
			}
			cells[i] = cell
		}
		line := strings.TrimRight(strings.Join(cells, "  "), " ")
		if r == 0 && header != nil {
			line = header(line)
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

// markdownTable renders rows as a GitHub-flavored markdown table.
func markdownTable(rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	var b strings.Builder
	writeRow := func(cells []string) {
		b.WriteString("| ")
		b.WriteString(strings.Join(cells, " | "))
		b.WriteString(" |\n")
	}

	writeRow(rows[0])
	sep := make([]string, len(rows[0]))
	for i := range sep {
		sep[i] = "---"
	}
	writeRow(sep)
	for _, row := range rows[1:] {
		escaped := make([]string, len(row))
		for i, cell := range row {
			escaped[i] = strings.ReplaceAll(cell, "|", `\|`)
		}
		writeRow(escaped)
	}
	return b.String()
}
