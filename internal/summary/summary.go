package summary

import (
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/Zuo-Peng/history-analyser/internal/fanout"
	"github.com/Zuo-Peng/history-analyser/internal/logger"
	"github.com/Zuo-Peng/history-analyser/internal/output"
	"github.com/Zuo-Peng/history-analyser/internal/parse"
)

const (
	fileTopN       = 10
	fileMaxQueries = 20
	minQueryRunes  = 10 // queries must be longer than this
	queryRunes     = 200
)

// Query is a user prompt worth surfacing in a summary.
type Query struct {
	Query     string `json:"query" yaml:"query"`
	Timestamp string `json:"timestamp" yaml:"timestamp"`
}

// FileSummary holds the statistics of one transcript file.
type FileSummary struct {
	File           string  `json:"file,omitempty" yaml:"file,omitempty"`
	Projects       Ranking `json:"projects" yaml:"projects"`
	ToolsUsed      Ranking `json:"tools_used" yaml:"tools_used"`
	UserQueries    []Query `json:"user_queries" yaml:"user_queries"`
	MessageCount   int     `json:"message_count" yaml:"message_count"`
	UserCount      int     `json:"user_count" yaml:"user_count"`
	AssistantCount int     `json:"assistant_count" yaml:"assistant_count"`
	EarliestTS     *int64  `json:"earliest_ts" yaml:"earliest_ts"`
	LatestTS       *int64  `json:"latest_ts" yaml:"latest_ts"`
}

// Result is the outcome of summarising one file: a summary or an error.
type Result struct {
	Summary *FileSummary
	Err     error
}

type errorEntry struct {
	Error string `json:"error" yaml:"error"`
}

// MarshalJSON renders failed files as {"error": ...}.
func (r Result) MarshalJSON() ([]byte, error) {
	if r.Err != nil {
		return output.Marshal(errorEntry{Error: r.Err.Error()})
	}
	return output.Marshal(r.Summary)
}

// MarshalYAML mirrors MarshalJSON.
func (r Result) MarshalYAML() (interface{}, error) {
	if r.Err != nil {
		return errorEntry{Error: r.Err.Error()}, nil
	}
	return r.Summary, nil
}

// UnmarshalJSON reads a summary, or an error entry, back.
func (r *Result) UnmarshalJSON(data []byte) error {
	var probe struct {
		Error *string `json:"error"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	if probe.Error != nil {
		*r = Result{Err: errors.New(*probe.Error)}
		return nil
	}
	var s FileSummary
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*r = Result{Summary: &s}
	return nil
}

type Options struct {
	Window  parse.Window
	Workers int // files summarised concurrently; <= 1 is sequential
	Logger  *slog.Logger
}

// Summarise summarises every file. Results are in input order regardless of
// Workers, so merging them is deterministic.
func Summarise(files []string, opts Options) []Result {
	results := make([]Result, len(files))
	fanout.Run(len(files), opts.Workers, func(i int) {
		results[i] = SummariseFile(files[i], opts)
	})
	return results
}

// SummariseFile collects the statistics of user and assistant records of a
// file that fall within the window. A read failure yields Result.Err.
func SummariseFile(path string, opts Options) Result {
	log := logger.ForComponent(opts.Logger, "summary")

	projects := newCounter()
	tools := newCounter()
	s := &FileSummary{File: path, UserQueries: []Query{}}

	stats, err := parse.ReadRecords(path, func(_ int, rec *parse.Record) {
		if rec.Type != parse.TypeUser && rec.Type != parse.TypeAssistant {
			return
		}
		ts := rec.Timestamp.Millis
		if !opts.Window.Contains(ts) {
			return
		}

		s.MessageCount++
		if ts != 0 {
			if s.EarliestTS == nil || ts < *s.EarliestTS {
				s.EarliestTS = int64Ptr(ts)
			}
			if s.LatestTS == nil || ts > *s.LatestTS {
				s.LatestTS = int64Ptr(ts)
			}
		}

		if project := parse.ProjectName(rec.Cwd); project != "" {
			projects.add(project, 1)
		}

		switch rec.Type {
		case parse.TypeUser:
			s.UserCount++
			query := parse.QueryText(rec)
			if parse.RuneLen(query) > minQueryRunes && len(s.UserQueries) < fileMaxQueries {
				s.UserQueries = append(s.UserQueries, Query{
					Query:     parse.Truncate(query, queryRunes),
					Timestamp: rec.Timestamp.String(),
				})
			}
		case parse.TypeAssistant:
			s.AssistantCount++
			for _, name := range parse.ToolNames(rec) {
				tools.add(name, 1)
			}
		}
	})
	if err != nil {
		log.Warn("read failed", "file", path, "err", err)
		return Result{Err: err}
	}
	log.Debug("summarised file", "file", path,
		"lines", stats.Lines, "malformed", stats.Malformed, "messages", s.MessageCount)

	s.Projects = projects.top(fileTopN)
	s.ToolsUsed = tools.top(fileTopN)
	return Result{Summary: s}
}

func int64Ptr(v int64) *int64 { return &v }
