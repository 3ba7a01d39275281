package tui

import (
	"github.com/Zuo-Peng/history-analyser/internal/render"
	"github.com/Zuo-Peng/history-analyser/internal/search"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// previewRenderedMsg is sent when an async preview render completes.
type previewRenderedMsg struct {
	file    string
	line    int
	content string
	hitLine int
	err     error
}

// loadPreviewCmd renders the transcript around a match asynchronously.
func loadPreviewCmd(m search.Match, query string, width int) tea.Cmd {
	return func() tea.Msg {
		opts := render.Options{
			Line:    m.Line,
			Context: -1,
			Width:   width,
		}
		if re, err := search.Compile(query); err == nil {
			opts.Pattern = re
		}
		content, hitLine, err := render.RenderFile(m.File, opts)
		return previewRenderedMsg{
			file:    m.File,
			line:    m.Line,
			content: content,
			hitLine: hitLine,
			err:     err,
		}
	}
}

// newViewport creates a new viewport model with the given dimensions.
func newViewport(width, height int) viewport.Model {
	vp := viewport.New(width, height)
	vp.Style = styles.list
	return vp
}
