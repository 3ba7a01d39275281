package search

import (
	"fmt"
	"log/slog"
	"regexp"

	"github.com/Zuo-Peng/history-analyser/internal/fanout"
	"github.com/Zuo-Peng/history-analyser/internal/logger"
	"github.com/Zuo-Peng/history-analyser/internal/output"
	"github.com/Zuo-Peng/history-analyser/internal/parse"
)

const (
	// MaxMatches caps the matches returned across all files.
	MaxMatches = 100
	// PreviewRunes is the length of a match preview.
	PreviewRunes = 300
)

// InvalidPatternError reports a query that does not compile.
type InvalidPatternError struct {
	Pattern string
	Err     error
}

func (e *InvalidPatternError) Error() string {
	return fmt.Sprintf("Invalid regex: %v", e.Err)
}

func (e *InvalidPatternError) Unwrap() error { return e.Err }

// Match is one matching record, or a file-level error entry when Error is set.
type Match struct {
	File      string          `json:"file"`
	Line      int             `json:"line_number"`
	Type      string          `json:"type"`
	Timestamp parse.Timestamp `json:"timestamp"`
	Project   string          `json:"project"`
	Cwd       string          `json:"cwd"`
	SessionID string          `json:"session_id"`
	Preview   string          `json:"preview"`

	Error string `json:"-"`
}

type matchFields Match

type errorEntry struct {
	Error string `json:"error" yaml:"error"`
}

// MarshalJSON renders error entries as {"error": ...} only.
func (m Match) MarshalJSON() ([]byte, error) {
	if m.Error != "" {
		return output.Marshal(errorEntry{Error: m.Error})
	}
	return output.Marshal(matchFields(m))
}

// MarshalYAML mirrors MarshalJSON.
func (m Match) MarshalYAML() (interface{}, error) {
	if m.Error != "" {
		return errorEntry{Error: m.Error}, nil
	}
	return struct {
		File      string          `yaml:"file"`
		Line      int             `yaml:"line_number"`
		Type      string          `yaml:"type"`
		Timestamp parse.Timestamp `yaml:"timestamp"`
		Project   string          `yaml:"project"`
		Cwd       string          `yaml:"cwd"`
		SessionID string          `yaml:"session_id"`
		Preview   string          `yaml:"preview"`
	}{m.File, m.Line, m.Type, m.Timestamp, m.Project, m.Cwd, m.SessionID, m.Preview}, nil
}

// IsError reports whether the entry stands for a failed file.
func (m Match) IsError() bool { return m.Error != "" }

// Report is the aggregate result of a search.
type Report struct {
	Query         string  `json:"query" yaml:"query"`
	FilesSearched int     `json:"files_searched" yaml:"files_searched"`
	TotalMatches  int     `json:"total_matches" yaml:"total_matches"`
	Matches       []Match `json:"matches" yaml:"matches"`
}

type Options struct {
	Query   string
	Window  parse.Window
	Workers int // files scanned concurrently; <= 1 is sequential
	Logger  *slog.Logger
}

// Compile compiles a query case-insensitively.
func Compile(query string) (*regexp.Regexp, error) {
	re, err := regexp.Compile("(?i)" + query)
	if err != nil {
		return nil, &InvalidPatternError{Pattern: query, Err: err}
	}
	return re, nil
}

// Search scans files for records whose extracted content matches the query.
// The pattern is validated before any file is opened. A file that cannot be
// read contributes a single error entry and the search moves on.
func Search(files []string, opts Options) (*Report, error) {
	re, err := Compile(opts.Query)
	if err != nil {
		return nil, err
	}
	log := logger.ForComponent(opts.Logger, "search")

	perFile := make([][]Match, len(files))
	fanout.Run(len(files), opts.Workers, func(i int) {
		matches, stats, err := searchFile(files[i], re, opts.Window)
		if err != nil {
			log.Warn("read failed", "file", files[i], "err", err)
			perFile[i] = []Match{{Error: err.Error()}}
			return
		}
		log.Debug("searched file", "file", files[i],
			"lines", stats.Lines, "malformed", stats.Malformed, "matches", len(matches))
		perFile[i] = matches
	})

	report := &Report{
		Query:         opts.Query,
		FilesSearched: len(files),
		Matches:       make([]Match, 0),
	}
	for _, matches := range perFile {
		report.TotalMatches += len(matches)
		for _, m := range matches {
			if len(report.Matches) >= MaxMatches {
				break
			}
			report.Matches = append(report.Matches, m)
		}
	}
	return report, nil
}

func searchFile(path string, re *regexp.Regexp, window parse.Window) ([]Match, parse.ReadStats, error) {
	var matches []Match
	stats, err := parse.ReadRecords(path, func(lineNum int, rec *parse.Record) {
		if rec.Type == parse.TypeFileHistorySnapshot {
			return
		}
		if !window.Contains(rec.Timestamp.Millis) {
			return
		}

		content := parse.Extract(rec)
		if !re.MatchString(content) {
			return
		}

		matches = append(matches, Match{
			File:      path,
			Line:      lineNum,
			Type:      rec.TypeOrUnknown(),
			Timestamp: rec.Timestamp,
			Project:   parse.ProjectName(rec.Cwd),
			Cwd:       rec.Cwd,
			SessionID: rec.SessionID,
			Preview:   parse.Truncate(content, PreviewRunes),
		})
	})
	if err != nil {
		return nil, stats, err
	}
	return matches, stats, nil
}
