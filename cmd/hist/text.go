package main

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Zuo-Peng/history-analyser/internal/dates"
	"github.com/Zuo-Peng/history-analyser/internal/output"
	"github.com/Zuo-Peng/history-analyser/internal/parse"
	"github.com/Zuo-Peng/history-analyser/internal/scan"
	"github.com/Zuo-Peng/history-analyser/internal/search"
	"github.com/Zuo-Peng/history-analyser/internal/summary"
)

const (
	colorReset   = "\033[0m"
	colorBoldRed = "\033[1;31m"

	snippetContext = 60
)

// Text renderings for --format text. The named types marshal exactly like
// the values they wrap.

type rangeText dates.Range

func (r rangeText) WriteText(w *output.Writer) error {
	w.PrintKeyValue("Start", fmt.Sprintf("%s (%d)", r.StartDate, r.StartTS))
	w.PrintKeyValue("End", fmt.Sprintf("%s (%d)", r.EndDate, r.EndTS))
	return nil
}

type reportText struct {
	report *search.Report
	re     *regexp.Regexp
	color  bool
}

func (r reportText) MarshalJSON() ([]byte, error) { return output.Marshal(r.report) }
func (r reportText) MarshalYAML() (interface{}, error) { return r.report, nil }

func (r reportText) WriteText(w *output.Writer) error {
	rep := r.report
	w.PrintLine("%s matches for %q in %s files", output.FormatNumber(rep.TotalMatches), rep.Query, output.FormatNumber(rep.FilesSearched))
	if len(rep.Matches) < rep.TotalMatches {
		w.PrintLine("showing the first %d", len(rep.Matches))
	}

	for _, m := range rep.Matches {
		if m.IsError() {
			w.PrintLine("! %s", m.Error)
			continue
		}
		project := m.Project
		if project == "" {
			project = "-"
		}
		ts := m.Timestamp.String()
		if ts == "" {
			ts = "-"
		}
		w.PrintLine("%s:%d  %s  %s  %s", m.File, m.Line, m.Type, ts, project)
		w.PrintLine("    %s", r.snippet(m.Preview))
	}
	return nil
}

func (r reportText) snippet(preview string) string {
	preview = strings.Join(strings.Fields(preview), " ")
	s := search.Snippet(preview, r.re, snippetContext)
	if r.color {
		s = strings.ReplaceAll(s, search.HitStart, colorBoldRed)
		s = strings.ReplaceAll(s, search.HitEnd, colorReset)
	}
	return s
}

type mergedText summary.Merged

func (m mergedText) WriteText(w *output.Writer) error {
	w.PrintKeyValue("Files processed", output.FormatNumber(m.FilesProcessed))
	writeSummaryBody(w, summary.FileSummary{
		Projects:       m.Projects,
		ToolsUsed:      m.ToolsUsed,
		UserQueries:    m.UserQueries,
		MessageCount:   m.MessageCount,
		UserCount:      m.UserCount,
		AssistantCount: m.AssistantCount,
		EarliestTS:     m.EarliestTS,
		LatestTS:       m.LatestTS,
	})
	return nil
}

type resultsText []summary.Result

func (rs resultsText) WriteText(w *output.Writer) error {
	for i, r := range rs {
		if i > 0 {
			w.PrintLine("")
		}
		if r.Err != nil {
			w.PrintLine("! %s", r.Err)
			continue
		}
		w.PrintLine("== %s", r.Summary.File)
		writeSummaryBody(w, *r.Summary)
	}
	return nil
}

func writeSummaryBody(w *output.Writer, s summary.FileSummary) {
	w.PrintKeyValue("Messages", fmt.Sprintf("%s (user %s, assistant %s)",
		output.FormatNumber(s.MessageCount), output.FormatNumber(s.UserCount), output.FormatNumber(s.AssistantCount)))
	w.PrintKeyValue("Earliest", formatMillis(s.EarliestTS))
	w.PrintKeyValue("Latest", formatMillis(s.LatestTS))

	if len(s.Projects) > 0 {
		w.PrintSection("Projects")
		w.WriteTable([]string{"project", "messages"}, rankingRows(s.Projects))
	}
	if len(s.ToolsUsed) > 0 {
		w.PrintSection("Tools")
		w.WriteTable([]string{"tool", "uses"}, rankingRows(s.ToolsUsed))
	}
	if len(s.UserQueries) > 0 {
		w.PrintSection("Queries")
		for _, q := range s.UserQueries {
			text := parse.Truncate(strings.Join(strings.Fields(q.Query), " "), 100)
			w.PrintLine("%s  %s", q.Timestamp, text)
		}
	}
}

func rankingRows(r summary.Ranking) [][]string {
	rows := make([][]string, len(r))
	for i, e := range r {
		rows[i] = []string{e.Name, strconv.Itoa(e.Count)}
	}
	return rows
}

// formatMillis formats an epoch-millisecond timestamp for display.
func formatMillis(ms *int64) string {
	if ms == nil || *ms == 0 {
		return "-"
	}
	return time.UnixMilli(*ms).Format("2006-01-02 15:04")
}

type filesText []scan.FileInfo

func (fs filesText) WriteText(w *output.Writer) error {
	if len(fs) == 0 {
		w.PrintLine("no transcripts found")
		return nil
	}
	rows := make([][]string, len(fs))
	for i, f := range fs {
		project := f.Project
		if project == "" {
			project = f.Source
		}
		rows[i] = []string{
			time.Unix(f.Mtime, 0).Format("2006-01-02 15:04"),
			fmt.Sprintf("%.1fK", float64(f.Size)/1024),
			project,
			f.Path,
		}
	}
	w.WriteTable([]string{"modified", "size", "project", "path"}, rows)
	return nil
}
