package summary

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Zuo-Peng/history-analyser/internal/parse"
	"github.com/Zuo-Peng/history-analyser/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func userLine(cwd, text, ts string) string {
	return fmt.Sprintf(`{"type":"user","cwd":%q,"timestamp":%q,"message":{"content":%q}}`, cwd, ts, text)
}

func assistantLine(cwd, ts string, tools ...string) string {
	var blocks []string
	for _, name := range tools {
		blocks = append(blocks, fmt.Sprintf(`{"type":"tool_use","name":%q,"input":{}}`, name))
	}
	blocks = append(blocks, `{"type":"text","text":"done"}`)
	return fmt.Sprintf(`{"type":"assistant","cwd":%q,"timestamp":%q,"message":{"content":[%s]}}`,
		cwd, ts, strings.Join(blocks, ","))
}

func TestSummariseFileEmptyToolName(t *testing.T) {
	path := testutil.WriteTranscript(t, t.TempDir(), "s.jsonl",
		assistantLine("/work/alpha", "2024-01-01T10:00:05Z", "", "Read"),
		`{"type":"assistant","message":{"content":[{"type":"tool_use"}]},"timestamp":"2024-01-01T12:00:00Z"}`,
	)

	res := SummariseFile(path, Options{})
	require.NoError(t, res.Err)
	assert.Equal(t, Ranking{{"", 1}, {"Read", 1}, {"unknown", 1}}, res.Summary.ToolsUsed)
}

func TestSummariseFile(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteTranscript(t, dir, "s.jsonl",
		userLine("/work/alpha", "please refactor the parser", "2024-01-01T10:00:00Z"),
		assistantLine("/work/alpha", "2024-01-01T10:00:05Z", "Read", "Edit", "Read"),
		userLine("/work/beta", "short", "2024-01-01T11:00:00Z"),
		`{"type":"file-history-snapshot","cwd":"/work/gamma","timestamp":"2030-01-01T00:00:00Z"}`,
		`{"type":"summary","summary":"ignored"}`,
		`not json`,
		`{"type":"assistant","message":{"content":[{"type":"tool_use"}]},"timestamp":"2024-01-01T12:00:00Z"}`,
	)

	res := SummariseFile(path, Options{})
	require.NoError(t, res.Err)
	s := res.Summary

	assert.Equal(t, 4, s.MessageCount)
	assert.Equal(t, 2, s.UserCount)
	assert.Equal(t, 2, s.AssistantCount)
	assert.Equal(t, Ranking{{"alpha", 2}, {"beta", 1}}, s.Projects)
	assert.Equal(t, Ranking{{"Read", 2}, {"Edit", 1}, {"unknown", 1}}, s.ToolsUsed)
	require.Len(t, s.UserQueries, 1)
	assert.Equal(t, Query{Query: "please refactor the parser", Timestamp: "2024-01-01T10:00:00Z"}, s.UserQueries[0])

	require.NotNil(t, s.EarliestTS)
	require.NotNil(t, s.LatestTS)
	assert.Equal(t, int64(1704103200000), *s.EarliestTS)
	assert.Equal(t, int64(1704110400000), *s.LatestTS)
}

func TestSummariseFileWindow(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteTranscript(t, dir, "s.jsonl",
		`{"type":"user","timestamp":1000,"message":{"content":"too early to count"}}`,
		`{"type":"user","timestamp":2000,"message":{"content":"inside the window"}}`,
		`{"type":"user","message":{"content":"no timestamp at all"}}`,
	)

	res := SummariseFile(path, Options{Window: parse.Window{Start: 1500, End: 2500}})
	require.NoError(t, res.Err)
	assert.Equal(t, 1, res.Summary.MessageCount)
	assert.Equal(t, "2000", res.Summary.UserQueries[0].Timestamp)

	// unbounded: untimed record counts but leaves timestamps untouched
	res = SummariseFile(path, Options{})
	require.NoError(t, res.Err)
	assert.Equal(t, 3, res.Summary.MessageCount)
	assert.Equal(t, int64(1000), *res.Summary.EarliestTS)
	assert.Equal(t, int64(2000), *res.Summary.LatestTS)
}

func TestSummariseFileNoTimestamps(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteTranscript(t, dir, "s.jsonl",
		`{"type":"user","message":{"content":"no timestamp here"}}`,
	)

	res := SummariseFile(path, Options{})
	require.NoError(t, res.Err)
	assert.Nil(t, res.Summary.EarliestTS)
	assert.Nil(t, res.Summary.LatestTS)

	b, err := json.Marshal(res)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"earliest_ts":null`)
}

func TestSummariseFileLimits(t *testing.T) {
	dir := t.TempDir()
	var lines []string
	for i := 0; i < 25; i++ {
		lines = append(lines, userLine(fmt.Sprintf("/p/proj%02d", i), fmt.Sprintf("question number %02d %s", i, strings.Repeat("z", 300)), "2024-01-01T00:00:00Z"))
	}
	path := testutil.WriteTranscript(t, dir, "s.jsonl", lines...)

	res := SummariseFile(path, Options{})
	require.NoError(t, res.Err)
	s := res.Summary

	require.Len(t, s.UserQueries, fileMaxQueries)
	assert.True(t, strings.HasPrefix(s.UserQueries[0].Query, "question number 00"))
	assert.Equal(t, queryRunes, parse.RuneLen(s.UserQueries[0].Query))

	// all counts tie at 1: the first ten projects seen win
	require.Len(t, s.Projects, fileTopN)
	assert.Equal(t, "proj00", s.Projects[0].Name)
	assert.Equal(t, "proj09", s.Projects[9].Name)
}

func TestSummariseFileReadError(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "gone.jsonl")
	res := SummariseFile(missing, Options{})

	var fe *parse.FileReadError
	require.True(t, errors.As(res.Err, &fe))
	assert.Nil(t, res.Summary)

	b, err := json.Marshal(res)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"error":"Failed to read `+missing)
}

func TestSummariseParallelMatchesSequential(t *testing.T) {
	dir := t.TempDir()
	var files []string
	for f := 0; f < 6; f++ {
		files = append(files, testutil.WriteTranscript(t, dir, fmt.Sprintf("f%d.jsonl", f),
			userLine(fmt.Sprintf("/p/proj%d", f%3), fmt.Sprintf("a long enough query %d", f), fmt.Sprintf("2024-01-0%dT00:00:00Z", f+1)),
			assistantLine("/p/shared", fmt.Sprintf("2024-01-0%dT00:00:01Z", f+1), "Bash"),
		))
	}

	seq := Merge(Summarise(files, Options{}))
	par := Merge(Summarise(files, Options{Workers: 3}))
	assert.Equal(t, seq, par)
	assert.Equal(t, 6, par.FilesProcessed)
	assert.Equal(t, 6, par.ToolsUsed.Get("Bash"))
}

func TestMerge(t *testing.T) {
	a := Result{Summary: &FileSummary{
		Projects:       Ranking{{"alpha", 3}, {"beta", 1}},
		ToolsUsed:      Ranking{{"Read", 4}},
		UserQueries:    []Query{{"older query", "2024-01-01T00:00:00Z"}},
		MessageCount:   4,
		UserCount:      1,
		AssistantCount: 3,
		EarliestTS:     int64Ptr(100),
		LatestTS:       int64Ptr(200),
	}}
	b := Result{Summary: &FileSummary{
		Projects:       Ranking{{"beta", 5}},
		ToolsUsed:      Ranking{{"Edit", 2}, {"Read", 1}},
		UserQueries:    []Query{{"newer query", "2024-02-01T00:00:00Z"}},
		MessageCount:   3,
		UserCount:      2,
		AssistantCount: 1,
		EarliestTS:     int64Ptr(50),
		LatestTS:       int64Ptr(150),
	}}
	empty := Result{Summary: &FileSummary{}}
	failed := Result{Err: errors.New("Failed to read x: boom")}

	m := Merge([]Result{a, failed, b, empty})
	assert.Equal(t, 3, m.FilesProcessed)
	assert.Equal(t, 7, m.MessageCount)
	assert.Equal(t, 3, m.UserCount)
	assert.Equal(t, 4, m.AssistantCount)
	assert.Equal(t, Ranking{{"beta", 6}, {"alpha", 3}}, m.Projects)
	assert.Equal(t, Ranking{{"Read", 5}, {"Edit", 2}}, m.ToolsUsed)
	assert.Equal(t, []Query{{"newer query", "2024-02-01T00:00:00Z"}, {"older query", "2024-01-01T00:00:00Z"}}, m.UserQueries)
	assert.Equal(t, int64(50), *m.EarliestTS)
	assert.Equal(t, int64(200), *m.LatestTS)
}

func TestMergeIsCommutative(t *testing.T) {
	dir := t.TempDir()
	fa := testutil.WriteTranscript(t, dir, "a.jsonl",
		userLine("/p/alpha", "first question asked", "2024-03-01T09:00:00Z"),
		assistantLine("/p/alpha", "2024-03-01T09:00:01Z", "Bash", "Bash", "Read"),
	)
	fb := testutil.WriteTranscript(t, dir, "b.jsonl",
		userLine("/p/beta", "second question asked", "2024-03-02T09:00:00Z"),
		assistantLine("/p/beta", "2024-03-02T09:00:01Z", "Edit", "Bash"),
		assistantLine("/p/beta", "2024-03-02T09:00:02Z", "Edit"),
	)

	ab := Merge(Summarise([]string{fa, fb}, Options{}))
	ba := Merge(Summarise([]string{fb, fa}, Options{}))

	asMap := func(r Ranking) map[string]int {
		out := map[string]int{}
		for _, e := range r {
			out[e.Name] = e.Count
		}
		return out
	}
	assert.Equal(t, ab.MessageCount, ba.MessageCount)
	assert.Equal(t, ab.FilesProcessed, ba.FilesProcessed)
	assert.Equal(t, asMap(ab.Projects), asMap(ba.Projects))
	assert.Equal(t, asMap(ab.ToolsUsed), asMap(ba.ToolsUsed))
	assert.Equal(t, ab.UserQueries, ba.UserQueries)
	assert.Equal(t, *ab.EarliestTS, *ba.EarliestTS)
	assert.Equal(t, *ab.LatestTS, *ba.LatestTS)

	// distinct counts rank identically in either order
	assert.Equal(t, ab.ToolsUsed, ba.ToolsUsed)
}

func TestMergeCapsQueries(t *testing.T) {
	var results []Result
	for f := 0; f < 3; f++ {
		s := &FileSummary{}
		for i := 0; i < 15; i++ {
			s.UserQueries = append(s.UserQueries, Query{
				Query:     fmt.Sprintf("file %d query %d", f, i),
				Timestamp: fmt.Sprintf("2024-01-%02dT00:00:%02dZ", f+1, i),
			})
		}
		results = append(results, Result{Summary: s})
	}

	m := Merge(results)
	require.Len(t, m.UserQueries, mergedMaxQueries)
	assert.Equal(t, "file 2 query 14", m.UserQueries[0].Query)
	assert.Equal(t, "file 1 query 0", m.UserQueries[29].Query)
}

func TestMergeNothing(t *testing.T) {
	m := Merge(nil)
	assert.Equal(t, 0, m.FilesProcessed)
	assert.Nil(t, m.EarliestTS)

	b, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"projects":{},"tools_used":{},"user_queries":[],"message_count":0,"user_count":0,"assistant_count":0,"earliest_ts":null,"latest_ts":null,"files_processed":0}`, string(b))
}

func TestRankingJSONKeepsOrder(t *testing.T) {
	r := Ranking{{"zeta", 9}, {"alpha", 3}, {"mid", 3}}
	b, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Equal(t, `{"zeta":9,"alpha":3,"mid":3}`, string(b))

	var back Ranking
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, r, back)
}

func TestRankingYAMLKeepsOrder(t *testing.T) {
	r := Ranking{{"zeta", 9}, {"alpha", 3}}
	b, err := yaml.Marshal(struct {
		Tools Ranking `yaml:"tools"`
	}{r})
	require.NoError(t, err)
	assert.Equal(t, "tools:\n    zeta: 9\n    alpha: 3\n", string(b))
}

func TestResultRoundTrip(t *testing.T) {
	in := []Result{
		{Summary: &FileSummary{File: "a.jsonl", Projects: Ranking{{"p", 2}}, ToolsUsed: Ranking{}, UserQueries: []Query{}, MessageCount: 2, EarliestTS: int64Ptr(5), LatestTS: int64Ptr(9)}},
		{Err: errors.New("Failed to read b.jsonl: missing")},
	}
	b, err := json.Marshal(in)
	require.NoError(t, err)

	var out []Result
	require.NoError(t, json.Unmarshal(b, &out))
	require.Len(t, out, 2)
	assert.Equal(t, in[0].Summary, out[0].Summary)
	assert.EqualError(t, out[1].Err, "Failed to read b.jsonl: missing")
}

func TestCounterTopIsStable(t *testing.T) {
	c := newCounter()
	for _, name := range []string{"b", "a", "c", "a", "b", "d"} {
		c.add(name, 1)
	}
	assert.Equal(t, Ranking{{"b", 2}, {"a", 2}, {"c", 1}}, c.top(3))
}
