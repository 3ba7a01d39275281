package render

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/Zuo-Peng/history-analyser/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapLine(t *testing.T) {
	assert.Equal(t, []string{"abcdef"}, wrapLine("abcdef", 0))
	assert.Equal(t, []string{"abc", "def", "g"}, wrapLine("abcdefg", 3))
	assert.Equal(t, []string{""}, wrapLine("", 5))

	// escape sequences take no columns
	assert.Equal(t, []string{"\033[1mab\033[0m"}, wrapLine("\033[1mab\033[0m", 2))

	// wide runes occupy two columns
	assert.Equal(t, []string{"日本", "語"}, wrapLine("日本語", 4))
}

func TestHighlight(t *testing.T) {
	re := regexp.MustCompile(`(?i)needle`)
	assert.Equal(t, "a "+colorBoldRed+"NEEDLE"+colorReset+" b", highlight("a NEEDLE b", re))
	assert.Equal(t, "plain", highlight("plain", nil))
}

func writeSession(t *testing.T, n int) string {
	t.Helper()
	lines := []string{`{"type":"file-history-snapshot","snapshot":{}}`}
	for i := 0; i < n; i++ {
		typ := "user"
		if i%2 == 1 {
			typ = "assistant"
		}
		lines = append(lines, fmt.Sprintf(`{"type":%q,"cwd":"/work/proj","sessionId":"s-1","timestamp":"2024-01-01T00:00:%02dZ","message":{"content":"message %d"}}`, typ, i, i))
	}
	return testutil.WriteTranscript(t, t.TempDir(), "s.jsonl", lines...)
}

func TestRenderFileWindow(t *testing.T) {
	path := writeSession(t, 30)

	// line 12 holds "message 10"
	out, hitLine, err := RenderFile(path, Options{Line: 12, Context: 2, Pattern: regexp.MustCompile("message 10")})
	require.NoError(t, err)

	lines := strings.Split(out, "\n")
	require.Greater(t, len(lines), hitLine)
	assert.Contains(t, lines[hitLine], ">> USER > L12")
	assert.Contains(t, out, "[proj] s-1")
	assert.Contains(t, out, "(8 records before)")
	assert.Contains(t, out, "(17 records after)")
	assert.Contains(t, out, colorBoldRed+"message 10"+colorReset)
	assert.Contains(t, out, "message 8\n")
	assert.NotContains(t, out, "message 7\n")
	assert.Contains(t, out, "message 12\n")
	assert.NotContains(t, out, "message 13\n")
}

func TestRenderFileAll(t *testing.T) {
	path := writeSession(t, 3)

	out, hitLine, err := RenderFile(path, Options{Context: -1})
	require.NoError(t, err)
	assert.Equal(t, -1, hitLine)
	assert.Contains(t, out, "USER >")
	assert.Contains(t, out, "ASST >")
	assert.NotContains(t, out, "records before")
}

func TestRenderFileEmptyAndMissing(t *testing.T) {
	path := testutil.WriteTranscript(t, t.TempDir(), "e.jsonl", `{"type":"file-history-snapshot"}`)
	out, hitLine, err := RenderFile(path, Options{})
	require.NoError(t, err)
	assert.Equal(t, "(empty transcript)", out)
	assert.Equal(t, -1, hitLine)

	_, _, err = RenderFile(filepath.Join(t.TempDir(), "gone.jsonl"), Options{})
	assert.ErrorContains(t, err, "Failed to read")
}
