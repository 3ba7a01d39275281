package tui

import (
	"fmt"
	"time"

	"github.com/Zuo-Peng/history-analyser/internal/search"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const debounceDelay = 200 * time.Millisecond

type searchResultMsg struct {
	query  string
	report *search.Report
	err    error
}

type debounceTickMsg struct {
	query string
}

func (m model) Init() tea.Cmd {
	if m.query == "" {
		return textinput.Blink
	}
	return tea.Batch(textinput.Blink, m.doSearch(m.query))
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ready = true
		m.help.Width = msg.Width
		m.preview = newViewport(m.layout().previewW, m.layout().panelH)
		m.shown = ""
		return m, m.loadCurrentPreview()

	case tea.KeyMsg:
		return m.onKey(msg)

	case tea.MouseMsg:
		return m.onMouse(msg)

	case debounceTickMsg:
		// stale ticks are dropped
		if msg.query != m.query {
			return m, nil
		}
		return m, m.doSearch(msg.query)

	case searchResultMsg:
		return m.onResults(msg)

	case previewRenderedMsg:
		return m.onPreview(msg), nil
	}
	return m, nil
}

func (m model) onKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	panelH := m.layout().panelH

	switch {
	case key.Matches(msg, keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, keys.Copy):
		if m.cursor < len(m.matches) {
			sel := m.matches[m.cursor]
			m.selected = &sel
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil

	case key.Matches(msg, keys.Up):
		return m.moveTo(m.cursor - 1)
	case key.Matches(msg, keys.Down):
		return m.moveTo(m.cursor + 1)
	case key.Matches(msg, keys.Top):
		return m.moveTo(0)
	case key.Matches(msg, keys.Bottom):
		return m.moveTo(len(m.matches) - 1)

	case key.Matches(msg, keys.PreviewUp):
		m.preview.LineUp(panelH / 2)
		return m, nil
	case key.Matches(msg, keys.PreviewDn):
		m.preview.LineDown(panelH / 2)
		return m, nil
	case key.Matches(msg, keys.PageUp):
		m.preview.LineUp(panelH)
		return m, nil
	case key.Matches(msg, keys.PageDown):
		m.preview.LineDown(panelH)
		return m, nil
	}

	var inputCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	if q := m.input.Value(); q != m.query {
		m.query = q
		return m, tea.Batch(inputCmd, debounce(q))
	}
	return m, inputCmd
}

// moveTo puts the cursor on match i, clamped to the list.
func (m model) moveTo(i int) (tea.Model, tea.Cmd) {
	i = min(i, len(m.matches)-1)
	i = max(i, 0)
	if i == m.cursor || len(m.matches) == 0 {
		return m, nil
	}
	m.cursor = i
	m.adjustListScroll(m.layout().panelH)
	return m, m.loadCurrentPreview()
}

func (m model) onMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if !m.ready || len(m.matches) == 0 {
		return m, nil
	}

	region, item := m.hitTest(msg.X, msg.Y)
	wheel := msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown

	switch {
	case region == regionPreview && wheel:
		var cmd tea.Cmd
		m.preview, cmd = m.preview.Update(msg)
		return m, cmd

	case region == regionList && msg.Button == tea.MouseButtonWheelUp:
		m.listOffset = max(0, m.listOffset-1)
	case region == regionList && msg.Button == tea.MouseButtonWheelDown:
		maxOffset := max(0, len(m.matches)-m.layout().panelH/linesPerItem)
		m.listOffset = min(maxOffset, m.listOffset+1)

	case region == regionList && msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress:
		if item < len(m.matches) {
			return m.moveTo(item)
		}
	}
	return m, nil
}

func (m model) onResults(msg searchResultMsg) (tea.Model, tea.Cmd) {
	if msg.query != m.query {
		return m, nil
	}

	m.cursor, m.listOffset = 0, 0
	m.shown = ""
	m.matches = nil
	m.total, m.failed = 0, 0

	if msg.err != nil {
		m.preview.SetContent("Error: " + msg.err.Error())
		return m, nil
	}
	if msg.report != nil {
		m.total = msg.report.TotalMatches
		for _, match := range msg.report.Matches {
			if match.IsError() {
				m.failed++
				continue
			}
			m.matches = append(m.matches, match)
		}
	}
	if len(m.matches) == 0 {
		m.preview.SetContent("")
		return m, nil
	}
	return m, m.loadCurrentPreview()
}

func (m model) onPreview(msg previewRenderedMsg) model {
	k := previewKey(msg.file, msg.line)
	if k == m.shown {
		return m
	}
	if m.cursor < len(m.matches) {
		cur := m.matches[m.cursor]
		if k != previewKey(cur.File, cur.Line) {
			return m // stale preview
		}
	}

	switch {
	case msg.err != nil:
		m.preview.SetContent("Preview error: " + msg.err.Error())
	default:
		m.preview.SetContent(msg.content)
		if msg.hitLine > 0 {
			m.preview.SetYOffset(msg.hitLine)
		} else {
			m.preview.GotoTop()
		}
	}
	m.shown = k
	return m
}

func (m model) doSearch(query string) tea.Cmd {
	files := m.files
	opts := m.opts
	opts.Query = query
	return func() tea.Msg {
		if query == "" {
			return searchResultMsg{query: query}
		}
		report, err := search.Search(files, opts)
		return searchResultMsg{query: query, report: report, err: err}
	}
}

func debounce(query string) tea.Cmd {
	return tea.Tick(debounceDelay, func(time.Time) tea.Msg {
		return debounceTickMsg{query: query}
	})
}

func (m model) loadCurrentPreview() tea.Cmd {
	if m.cursor >= len(m.matches) {
		return nil
	}
	cur := m.matches[m.cursor]
	if previewKey(cur.File, cur.Line) == m.shown {
		return nil
	}
	return loadPreviewCmd(cur, m.query, m.layout().previewW)
}

func previewKey(file string, line int) string {
	return fmt.Sprintf("%s:%d", file, line)
}
