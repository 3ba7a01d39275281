package scan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Zuo-Peng/history-analyser/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const line = `{"type":"user","message":{"content":"hi"}}`

func TestScanRoots(t *testing.T) {
	home := t.TempDir()
	root := filepath.Join(home, "projects")

	alpha := testutil.WriteTranscript(t, root, "-work-alpha/one.jsonl", line)
	beta := testutil.WriteTranscript(t, root, "-work-beta/two.jsonl", line)
	testutil.WriteTranscript(t, root, "-work-beta/subagents/agent.jsonl", line)
	testutil.WriteTranscript(t, root, "-work-beta/sessions-index.jsonl", line)
	testutil.WriteTranscript(t, root, "-work-beta/notes.txt", "x")
	history := testutil.WriteTranscript(t, home, "history.jsonl", line)

	files, err := ScanRoots(root, history)
	require.NoError(t, err)
	assert.Equal(t, []string{alpha, beta, history}, Paths(files))

	assert.Equal(t, "-work-alpha", files[0].Project)
	assert.Equal(t, SourceProject, files[0].Source)
	assert.Equal(t, SourceHistory, files[2].Source)
	assert.Empty(t, files[2].Project)
	assert.Positive(t, files[0].Size)
}

func TestScanRootsMissing(t *testing.T) {
	dir := t.TempDir()
	files, err := ScanRoots(filepath.Join(dir, "nope"), filepath.Join(dir, "none.jsonl"))
	require.NoError(t, err)
	assert.Empty(t, files)

	files, err = ScanRoots("", "")
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestScanRootsSkipsHistoryDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "history.jsonl"), 0o755))

	files, err := ScanRoots("", filepath.Join(dir, "history.jsonl"))
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestFilterProject(t *testing.T) {
	files := []FileInfo{
		{Path: "a", Source: SourceProject, Project: "-Users-me-work-alpha"},
		{Path: "b", Source: SourceProject, Project: "-Users-me-work-beta"},
		{Path: "c", Source: SourceProject, Project: "-Users-me-scratch-alphabet"},
		{Path: "h", Source: SourceHistory},
	}

	got := FilterProject(files, "alpha")
	assert.Equal(t, []string{"a", "c"}, Paths(got))

	assert.Empty(t, FilterProject(files, "zzz"))
	assert.Equal(t, files, FilterProject(files, ""))
}
