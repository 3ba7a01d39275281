package render

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/Zuo-Peng/history-analyser/internal/parse"
	"github.com/mattn/go-runewidth"
)

const (
	colorReset   = "\033[0m"
	colorUser    = "\033[1;34m" // bold blue
	colorAssist  = "\033[1;32m" // bold green
	colorDim     = "\033[2m"
	colorHit     = "\033[43m"   // yellow background
	colorBoldRed = "\033[1;31m" // bold red for pattern highlights
)

type Options struct {
	Line    int            // 1-based line of the record to centre on
	Context int            // records before/after the hit to show; <0 means all
	Width   int            // wrap width (0 = no wrap)
	Pattern *regexp.Regexp // highlighted when set
}

type entry struct {
	line      int
	typ       string
	ts        string
	cwd       string
	sessionID string
	text      string
}

// highlight wraps every match of re in bold red ANSI codes.
func highlight(text string, re *regexp.Regexp) string {
	if re == nil || text == "" {
		return text
	}
	return re.ReplaceAllStringFunc(text, func(m string) string {
		if m == "" {
			return m
		}
		return colorBoldRed + m + colorReset
	})
}

// indentLines prepends each line of text with the given prefix.
func indentLines(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}

// wrapLine breaks a single line into multiple lines that fit within maxWidth
// visible columns, skipping ANSI escape sequences when measuring width.
func wrapLine(line string, maxWidth int) []string {
	if maxWidth <= 0 {
		return []string{line}
	}

	var result []string
	var cur strings.Builder
	visW := 0

	i := 0
	for i < len(line) {
		// ESC[ ... m
		if i+1 < len(line) && line[i] == '\033' && line[i+1] == '[' {
			j := i + 2
			for j < len(line) && line[j] != 'm' {
				j++
			}
			if j < len(line) {
				j++
			}
			cur.WriteString(line[i:j])
			i = j
			continue
		}

		r, size := utf8.DecodeRuneInString(line[i:])
		rw := runewidth.RuneWidth(r)
		if visW+rw > maxWidth && visW > 0 {
			result = append(result, cur.String())
			cur.Reset()
			visW = 0
		}
		cur.WriteRune(r)
		visW += rw
		i += size
	}

	if cur.Len() > 0 {
		result = append(result, cur.String())
	}
	if len(result) == 0 {
		return []string{""}
	}
	return result
}

func loadEntries(path string) ([]entry, error) {
	var entries []entry
	_, err := parse.ReadRecords(path, func(lineNum int, rec *parse.Record) {
		if rec.Type == parse.TypeFileHistorySnapshot {
			return
		}
		text := parse.Extract(rec)
		if strings.TrimSpace(text) == "" {
			return
		}
		entries = append(entries, entry{
			line:      lineNum,
			typ:       rec.TypeOrUnknown(),
			ts:        rec.Timestamp.String(),
			cwd:       rec.Cwd,
			sessionID: rec.SessionID,
			text:      text,
		})
	})
	return entries, err
}

// hitIndex returns the entry on line, or the first one after it.
func hitIndex(entries []entry, line int) int {
	for i, e := range entries {
		if e.line >= line {
			return i
		}
	}
	return len(entries) - 1
}

// RenderFile renders the records of a transcript around opts.Line and
// returns the content together with the 0-based output line of the hit
// header (-1 if there is none).
func RenderFile(path string, opts Options) (string, int, error) {
	if opts.Context == 0 {
		opts.Context = 10
	}

	entries, err := loadEntries(path)
	if err != nil {
		return "", -1, err
	}
	if len(entries) == 0 {
		return "(empty transcript)", -1, nil
	}

	hit := -1
	if opts.Line > 0 {
		hit = hitIndex(entries, opts.Line)
	}

	start, end := 0, len(entries)
	if opts.Context > 0 {
		centre := hit
		if centre < 0 {
			centre = 0
		}
		start = max(0, centre-opts.Context)
		end = min(len(entries), centre+opts.Context+1)
	}

	var b strings.Builder
	hitLine := -1
	lineCount := 0
	separator := colorDim + strings.Repeat("-", 50) + colorReset

	writeLine := func(s string) {
		for _, wl := range wrapLine(s, opts.Width) {
			b.WriteString(wl)
			b.WriteString("\n")
			lineCount++
		}
	}

	first := entries[start]
	project := parse.ProjectName(first.cwd)
	if project == "" {
		project = "-"
	}
	writeLine(fmt.Sprintf("%s--- %s [%s] %s ---%s", colorDim, path, project, first.sessionID, colorReset))

	if start > 0 {
		writeLine(fmt.Sprintf("%s... (%d records before) ...%s", colorDim, start, colorReset))
	}

	for i := start; i < end; i++ {
		e := entries[i]
		isHit := i == hit

		if i > start {
			writeLine(separator)
		}
		if isHit {
			hitLine = lineCount
		}

		var roleColor, roleLabel string
		switch e.typ {
		case parse.TypeUser:
			roleColor, roleLabel = colorUser, "USER"
		case parse.TypeAssistant:
			roleColor, roleLabel = colorAssist, "ASST"
		default:
			roleColor, roleLabel = colorDim, strings.ToUpper(e.typ)
		}

		if isHit {
			writeLine(fmt.Sprintf("%s>> %s > L%d %s <<%s", colorHit, roleLabel, e.line, e.ts, colorReset))
		} else {
			writeLine(fmt.Sprintf("%s%s >%s %sL%d %s%s", roleColor, roleLabel, colorReset, colorDim, e.line, e.ts, colorReset))
		}

		text := indentLines(highlight(e.text, opts.Pattern), "  ")
		for _, tl := range strings.Split(text, "\n") {
			writeLine(tl)
		}
		writeLine("")
	}

	if after := len(entries) - end; after > 0 {
		writeLine(fmt.Sprintf("%s... (%d records after) ...%s", colorDim, after, colorReset))
	}

	return b.String(), hitLine, nil
}
