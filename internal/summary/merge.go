package summary

import "sort"

const (
	mergedTopN       = 15
	mergedMaxQueries = 30
)

// Merged is the aggregate of several file summaries.
type Merged struct {
	Projects       Ranking `json:"projects" yaml:"projects"`
	ToolsUsed      Ranking `json:"tools_used" yaml:"tools_used"`
	UserQueries    []Query `json:"user_queries" yaml:"user_queries"`
	MessageCount   int     `json:"message_count" yaml:"message_count"`
	UserCount      int     `json:"user_count" yaml:"user_count"`
	AssistantCount int     `json:"assistant_count" yaml:"assistant_count"`
	EarliestTS     *int64  `json:"earliest_ts" yaml:"earliest_ts"`
	LatestTS       *int64  `json:"latest_ts" yaml:"latest_ts"`
	FilesProcessed int     `json:"files_processed" yaml:"files_processed"`
}

// Merge combines per-file results. Failed files are skipped. Counters are
// summed by name and re-ranked, ties keeping the order names were first
// met in. Queries are ordered newest first by timestamp text.
func Merge(results []Result) *Merged {
	projects := newCounter()
	tools := newCounter()
	m := &Merged{UserQueries: []Query{}}

	for _, r := range results {
		if r.Err != nil || r.Summary == nil {
			continue
		}
		s := r.Summary

		m.FilesProcessed++
		m.MessageCount += s.MessageCount
		m.UserCount += s.UserCount
		m.AssistantCount += s.AssistantCount

		for _, e := range s.Projects {
			projects.add(e.Name, e.Count)
		}
		for _, e := range s.ToolsUsed {
			tools.add(e.Name, e.Count)
		}
		m.UserQueries = append(m.UserQueries, s.UserQueries...)

		if s.EarliestTS != nil && *s.EarliestTS != 0 &&
			(m.EarliestTS == nil || *s.EarliestTS < *m.EarliestTS) {
			m.EarliestTS = int64Ptr(*s.EarliestTS)
		}
		if s.LatestTS != nil && *s.LatestTS != 0 &&
			(m.LatestTS == nil || *s.LatestTS > *m.LatestTS) {
			m.LatestTS = int64Ptr(*s.LatestTS)
		}
	}

	m.Projects = projects.top(mergedTopN)
	m.ToolsUsed = tools.top(mergedTopN)

	sort.SliceStable(m.UserQueries, func(i, j int) bool {
		return m.UserQueries[i].Timestamp > m.UserQueries[j].Timestamp
	})
	if len(m.UserQueries) > mergedMaxQueries {
		m.UserQueries = m.UserQueries[:mergedMaxQueries]
	}
	return m
}
