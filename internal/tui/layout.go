package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// layout holds panel sizes for the current terminal.
type layout struct {
	listW    int
	previewW int
	panelH   int
}

// The list takes 40% of the width and the preview the rest, each minus
// its border. The input row, status bar and borders take 6 rows.
func (m model) layout() layout {
	l := layout{listW: 40, previewW: 60, panelH: 20}
	if m.width > 0 {
		l.listW = max(20, m.width*40/100-4)
		l.previewW = max(20, m.width*60/100-4)
	}
	if m.height > 0 {
		l.panelH = max(5, m.height-6)
	}
	return l
}

func (m model) View() string {
	if m.quitting || !m.ready {
		return ""
	}
	l := m.layout()

	list := styles.list.
		Width(l.listW).
		Height(l.panelH).
		Render(m.renderList(l.listW, l.panelH))

	m.preview.Width = l.previewW
	m.preview.Height = l.panelH
	preview := styles.preview.
		Width(l.previewW).
		Height(l.panelH).
		Render(m.preview.View())

	return lipgloss.JoinVertical(lipgloss.Left,
		m.input.View(),
		lipgloss.JoinHorizontal(lipgloss.Top, list, preview),
		m.statusBar(),
	)
}

type mouseRegion int

const (
	regionNone mouseRegion = iota
	regionList
	regionPreview
)

// hitTest maps terminal coordinates to a panel and, in the list, the match
// under the pointer.
func (m model) hitTest(x, y int) (mouseRegion, int) {
	l := m.layout()
	top := 2 // input row + top border
	if y < top || y >= top+l.panelH {
		return regionNone, -1
	}

	// col 0 is the border, 1..listW the content, listW+1 the border
	switch {
	case x >= 1 && x <= l.listW:
		return regionList, m.listOffset + (y-top)/linesPerItem
	case x > l.listW+2:
		return regionPreview, -1
	}
	return regionNone, -1
}

func (m model) statusBar() string {
	count := fmt.Sprintf("%d matches", m.total)
	if m.total > len(m.matches)+m.failed {
		count = fmt.Sprintf("%d of %d matches", len(m.matches), m.total)
	}
	if m.failed > 0 {
		count += fmt.Sprintf(", %d unreadable", m.failed)
	}
	return styles.status.Render(count + " | " + m.help.View(keys))
}
