// Package tui is an interactive browser over regex search matches: a
// query input, the match list and a preview of the transcript around the
// selected match.
package tui

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/Zuo-Peng/history-analyser/internal/search"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
)

type model struct {
	files []string
	opts  search.Options

	input   textinput.Model
	preview viewport.Model
	help    help.Model

	query   string
	matches []search.Match // error entries filtered out
	total   int
	failed  int

	cursor     int
	listOffset int
	shown      string // preview key of the rendered match

	width, height int
	ready         bool
	quitting      bool
	selected      *search.Match
}

func initialModel(files []string, query string, opts search.Options) model {
	in := textinput.New()
	in.Placeholder = "Regex..."
	in.Prompt = "> "
	in.PromptStyle = styles.prompt
	in.TextStyle = styles.input
	in.CharLimit = 256
	in.SetValue(query)
	in.Focus()

	return model{
		files:   files,
		opts:    opts,
		input:   in,
		preview: viewport.New(0, 0),
		help:    help.New(),
		query:   query,
	}
}

// Run starts the browser over files and blocks until it exits. Selecting a
// match copies its resume command to the clipboard, or prints it to out when
// the clipboard is unavailable.
func Run(files []string, query string, opts search.Options, out io.Writer) error {
	p := tea.NewProgram(initialModel(files, query, opts), tea.WithAltScreen(), tea.WithMouseCellMotion())
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("tui: %w", err)
	}

	m := final.(model)
	if m.selected == nil {
		return nil
	}
	cmd, err := resumeCommand(*m.selected)
	if err != nil {
		return err
	}
	if err := clipboard.WriteAll(cmd); err != nil {
		fmt.Fprintln(out, cmd)
		return nil
	}
	fmt.Fprintf(out, "Copied to clipboard: %s\n", cmd)
	return nil
}

// uuidRe matches a standard UUID (8-4-4-4-12 hex pattern).
var uuidRe = regexp.MustCompile(`[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`)

// sessionID returns the resumable session id of a match: its sessionId
// field, else a UUID embedded in the transcript file name.
func sessionID(m search.Match) (string, error) {
	if id, err := uuid.Parse(m.SessionID); err == nil {
		return id.String(), nil
	}
	if found := uuidRe.FindString(strings.ToLower(m.File)); found != "" {
		return found, nil
	}
	if m.SessionID != "" {
		return "", fmt.Errorf("invalid session id %q", m.SessionID)
	}
	return "", errors.New("match has no session id")
}

// resumeCommand builds the shell command that resumes the match's session.
func resumeCommand(m search.Match) (string, error) {
	id, err := sessionID(m)
	if err != nil {
		return "", err
	}
	cmd := "claude --resume " + id
	if m.Cwd != "" {
		cmd = fmt.Sprintf("cd %s && %s", shellQuote(m.Cwd), cmd)
	}
	return cmd, nil
}

var shellSafeRe = regexp.MustCompile(`^[A-Za-z0-9_./~:@%+=,-]+$`)

// shellQuote single-quotes s for a POSIX shell unless it is already safe.
func shellQuote(s string) string {
	if shellSafeRe.MatchString(s) {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
