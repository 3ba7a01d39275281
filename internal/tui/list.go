package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Zuo-Peng/history-analyser/internal/parse"
	"github.com/Zuo-Peng/history-analyser/internal/search"
	"github.com/mattn/go-runewidth"
)

// linesPerItem is the number of terminal lines each match occupies.
const linesPerItem = 2

// renderList renders the left panel: the match list with scrolling.
func (m model) renderList(width, height int) string {
	if len(m.matches) == 0 {
		return styles.empty.Width(width).Height(height).Render("No matches")
	}

	var lines []string
	for i, r := range m.matches {
		if i < m.listOffset {
			continue
		}
		if len(lines)+linesPerItem > height {
			break
		}
		lines = append(lines, formatMatchLine(r, width, i == m.cursor)...)
	}

	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

// formatMatchLine formats a single match as two lines:
//
//	line 1: [>] type  MM-DD  project:line
//	line 2:    preview (dimmed)
func formatMatchLine(r search.Match, width int, selected bool) []string {
	var typ string
	switch r.Type {
	case parse.TypeUser:
		typ = styles.user.Render("user")
	case parse.TypeAssistant:
		typ = styles.assistant.Render("asst")
	default:
		typ = styles.otherType.Render(runewidth.Truncate(r.Type, 4, ""))
	}

	// "2024-01-27T..." -> "01-27"
	date := r.Timestamp.String()
	if len(date) >= 10 && date[4] == '-' {
		date = date[5:10]
	} else {
		date = "-----"
	}

	project := r.Project
	if project == "" {
		project = strings.TrimSuffix(filepath.Base(r.File), ".jsonl")
	}
	label := fmt.Sprintf("%s:%d", project, r.Line)
	labelMax := max(0, width-2-4-1-5-2) // prefix + type + gap + date + padding
	if runewidth.StringWidth(label) > labelMax {
		label = runewidth.Truncate(label, labelMax, "")
	}

	line1 := fmt.Sprintf("%s %s %s", typ, date, label)
	if selected {
		line1 = styles.cursor.Render("> ") + line1
	} else {
		line1 = "  " + line1
	}

	preview := strings.ReplaceAll(r.Preview, "\n", " ")
	preview = strings.ReplaceAll(preview, "\t", " ")
	previewMax := max(0, width-4) // indent
	if runewidth.StringWidth(preview) > previewMax {
		preview = runewidth.Truncate(preview, previewMax, "")
	}
	line2 := "    " + styles.dim.Render(preview)

	return []string{line1, line2}
}

// adjustListScroll keeps the cursor visible within the list viewport.
func (m *model) adjustListScroll(listHeight int) {
	visibleItems := max(1, listHeight/linesPerItem)
	if m.cursor < m.listOffset {
		m.listOffset = m.cursor
	}
	if m.cursor >= m.listOffset+visibleItems {
		m.listOffset = m.cursor - visibleItems + 1
	}
}
