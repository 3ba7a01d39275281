package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Zuo-Peng/history-analyser/internal/dates"
	"github.com/Zuo-Peng/history-analyser/internal/parse"
	"github.com/Zuo-Peng/history-analyser/internal/scan"
	"github.com/spf13/cobra"
)

// selection is the file and time filtering shared by search and summarise.
type selection struct {
	files   string
	root    string
	project string
	startTS int64
	endTS   int64
	since   string
	until   string
	workers int
}

func (s *selection) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&s.files, "files", "", "Comma-separated transcript files (default: discover under the configured roots)")
	f.StringVar(&s.root, "root", "", "Discover transcripts under this directory instead of claude_root")
	f.StringVar(&s.project, "project", "", "Only discovered transcripts whose project fuzzy-matches this")
	f.Int64Var(&s.startTS, "start-ts", 0, "Window start, epoch milliseconds (0 = unbounded)")
	f.Int64Var(&s.endTS, "end-ts", 0, "Window end, epoch milliseconds (0 = unbounded)")
	f.StringVar(&s.since, "since", "", `Date expression for the window, e.g. "last 2 weeks"; overrides --start-ts/--end-ts`)
	f.StringVar(&s.until, "until", "", "End date expression paired with --since")
	f.IntVar(&s.workers, "workers", 0, "Files processed concurrently (default from config)")
}

// splitFiles splits a comma-separated list, dropping blanks.
func splitFiles(list string) []string {
	var files []string
	for _, f := range strings.Split(list, ",") {
		if f = strings.TrimSpace(f); f != "" {
			files = append(files, f)
		}
	}
	return files
}

func (s *selection) resolveFiles(a *app) ([]string, error) {
	if s.files != "" {
		files := splitFiles(s.files)
		if len(files) == 0 {
			return nil, errors.New("Missing --files")
		}
		return files, nil
	}

	root, history := a.cfg.ClaudeRoot, a.cfg.HistoryFile
	if s.root != "" {
		root, history = s.root, ""
	}
	found, err := scan.ScanRoots(root, history)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}
	found = scan.FilterProject(found, s.project)
	if len(found) == 0 {
		return nil, fmt.Errorf("Missing --files: no transcripts found under %s", root)
	}
	a.log.Debug("discovered transcripts", "root", root, "count", len(found))
	return scan.Paths(found), nil
}

func (s *selection) window(now time.Time) (parse.Window, error) {
	if s.since == "" {
		if s.until != "" {
			return parse.Window{}, errors.New("--until requires --since")
		}
		return parse.Window{Start: s.startTS, End: s.endTS}, nil
	}
	r, err := dates.Resolve(s.since, s.until, now)
	if err != nil {
		return parse.Window{}, err
	}
	return r.Window(), nil
}

func (s *selection) workerCount(a *app) int {
	if s.workers > 0 {
		return s.workers
	}
	return a.cfg.Workers
}
