package parse

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Zuo-Peng/history-analyser/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDecode(t *testing.T, line string) *Record {
	t.Helper()
	rec, err := DecodeRecord([]byte(line))
	require.NoError(t, err)
	return rec
}

func TestDecodeRecordRejectsNonObjects(t *testing.T) {
	for _, line := range []string{"", "not json", "[1,2]", "42", `"text"`, `{"type":`} {
		_, err := DecodeRecord([]byte(line))
		var me *MalformedRecordError
		assert.True(t, errors.As(err, &me), "line %q", line)
	}
}

func TestDecodeRecordFields(t *testing.T) {
	rec := mustDecode(t, `{"type":"user","timestamp":"2024-01-01T10:00:00Z","cwd":"/home/a/proj","sessionId":"s-1","message":{"content":"hi"}}`)
	assert.Equal(t, "user", rec.Type)
	assert.Equal(t, time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC).UnixMilli(), rec.Timestamp.Millis)
	assert.Equal(t, "/home/a/proj", rec.Cwd)
	assert.Equal(t, "s-1", rec.SessionID)
	require.NotNil(t, rec.Message)
	assert.True(t, rec.Message.Content.IsString)

	rec = mustDecode(t, `{"session_id":"s-2","cwd":7,"message":"oops"}`)
	assert.Equal(t, "s-2", rec.SessionID)
	assert.Equal(t, "", rec.Cwd)
	assert.Nil(t, rec.Message)
	assert.Equal(t, "unknown", rec.TypeOrUnknown())
}

func TestParseTimestamp(t *testing.T) {
	utc := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC).UnixMilli()

	tests := []struct {
		name string
		raw  string
		want int64
	}{
		{"epoch millis", `1700000000000`, 1700000000000},
		{"float truncates", `1700000000000.9`, 1700000000000},
		{"zulu", `"2024-06-01T12:00:00Z"`, utc},
		{"zulu with fraction", `"2024-06-01T12:00:00.000Z"`, utc},
		{"offset", `"2024-06-01T14:00:00+02:00"`, utc},
		{"garbage string", `"yesterday-ish"`, 0},
		{"bool", `true`, 0},
		{"null", `null`, 0},
		{"absent", ``, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseTimestamp([]byte(tt.raw)).Millis)
		})
	}
}

func TestTimestampDisplay(t *testing.T) {
	assert.Equal(t, "2024-06-01T12:00:00Z", ParseTimestamp([]byte(`"2024-06-01T12:00:00Z"`)).String())
	assert.Equal(t, "1700000000000", ParseTimestamp([]byte(`1700000000000`)).String())
	assert.Equal(t, "", ParseTimestamp(nil).String())

	b, err := ParseTimestamp(nil).MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `""`, string(b))
}

func TestExtract(t *testing.T) {
	long := strings.Repeat("x", 600)

	tests := []struct {
		name string
		line string
		want string
	}{
		{
			name: "display wins",
			line: `{"display":"typed text","message":{"content":"ignored"}}`,
			want: "typed text",
		},
		{
			name: "string content",
			line: `{"message":{"content":"hello world"}}`,
			want: "hello world",
		},
		{
			name: "blocks in order",
			line: `{"message":{"content":[{"type":"text","text":"look"},{"type":"tool_use","name":"Bash","input":{"command": "ls"}},{"type":"thinking","thinking":"hmm"},{"type":"tool_result","content":"file.txt"}]}}`,
			want: "look\n[tool: Bash]\n{\"command\":\"ls\"}\nfile.txt",
		},
		{
			name: "tool_use without input",
			line: `{"message":{"content":[{"type":"tool_use","name":"Read"}]}}`,
			want: "[tool: Read]",
		},
		{
			name: "tool_result with block content skipped",
			line: `{"message":{"content":[{"type":"tool_result","content":[{"type":"text","text":"x"}]}]}}`,
			want: "",
		},
		{
			name: "tool_result truncated",
			line: `{"message":{"content":[{"type":"tool_result","content":"` + long + `"}]}}`,
			want: strings.Repeat("x", 500),
		},
		{
			name: "non-object blocks skipped",
			line: `{"message":{"content":["raw",{"type":"text","text":"ok"}]}}`,
			want: "ok",
		},
		{name: "no message", line: `{"type":"user"}`, want: ""},
		{name: "no content", line: `{"message":{}}`, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Extract(mustDecode(t, tt.line)))
		})
	}
}

func TestQueryText(t *testing.T) {
	assert.Equal(t, "shown", QueryText(mustDecode(t, `{"display":"shown"}`)))
	assert.Equal(t, "plain", QueryText(mustDecode(t, `{"message":{"content":"plain"}}`)))
	assert.Equal(t, "second",
		QueryText(mustDecode(t, `{"message":{"content":[{"type":"tool_use","name":"Bash"},{"type":"text","text":"second"},{"type":"text","text":"third"}]}}`)))
	assert.Equal(t, "", QueryText(mustDecode(t, `{"message":{"content":[{"type":"tool_result","content":"r"}]}}`)))
}

func TestToolNames(t *testing.T) {
	rec := mustDecode(t, `{"message":{"content":[{"type":"tool_use","name":"Bash"},{"type":"text","text":"x"},{"type":"tool_use","name":"Edit"}]}}`)
	assert.Equal(t, []string{"Bash", "Edit"}, ToolNames(rec))

	rec = mustDecode(t, `{"message":{"content":[{"type":"tool_use"},{"type":"tool_use","name":""},{"type":"tool_use","name":7}]}}`)
	assert.Equal(t, []string{UnknownTool, "", ""}, ToolNames(rec))
}

func TestTruncateCountsRunes(t *testing.T) {
	assert.Equal(t, "héll", Truncate("héllo", 4))
	assert.Equal(t, "ab", Truncate("ab", 10))
	assert.Equal(t, "", Truncate("ab", 0))
	assert.Equal(t, 5, RuneLen("héllo"))
}

func TestProjectName(t *testing.T) {
	assert.Equal(t, "proj", ProjectName("/home/a/proj"))
	assert.Equal(t, "proj", ProjectName("/home/a/proj/"))
	assert.Equal(t, "", ProjectName(""))
	assert.Equal(t, "", ProjectName("/"))
}

func TestWindowContains(t *testing.T) {
	w := Window{Start: 100, End: 200}
	assert.True(t, w.Contains(100))
	assert.True(t, w.Contains(200))
	assert.False(t, w.Contains(99))
	assert.False(t, w.Contains(0))

	open := Window{}
	assert.True(t, open.Contains(0))
	assert.True(t, Window{End: 50}.Contains(0))
}

func TestReadRecords(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteTranscript(t, dir, "s.jsonl",
		`{"type":"user","message":{"content":"one"}}`,
		`garbage`,
		``,
		`{"type":"assistant","message":{"content":"two"}}`,
	)

	var lines []int
	stats, err := ReadRecords(path, func(lineNum int, rec *Record) {
		lines = append(lines, lineNum)
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 4}, lines)
	assert.Equal(t, ReadStats{Lines: 4, Records: 2, Malformed: 2}, stats)
}

func TestReadRecordsMissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.jsonl")
	_, err := ReadRecords(missing, func(int, *Record) {})

	var fe *FileReadError
	require.True(t, errors.As(err, &fe))
	assert.True(t, strings.HasPrefix(err.Error(), "Failed to read "+missing+": "))
}
