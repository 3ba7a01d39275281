package scan

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
)

const (
	SourceProject = "project"
	SourceHistory = "history"
)

// FileInfo describes one discovered transcript.
type FileInfo struct {
	Path    string `json:"path" yaml:"path"`
	Source  string `json:"source" yaml:"source"`
	Project string `json:"project,omitempty" yaml:"project,omitempty"` // project directory under the root
	Mtime   int64  `json:"mtime" yaml:"mtime"`
	Size    int64  `json:"size" yaml:"size"`
}

// ScanRoots lists the transcripts under claudeRoot followed by the history
// file. Missing locations are not an error.
func ScanRoots(claudeRoot, historyFile string) ([]FileInfo, error) {
	var files []FileInfo

	if claudeRoot != "" {
		pf, err := scanProjects(claudeRoot)
		if err != nil && !os.IsNotExist(err) {
			return nil, err
		}
		files = append(files, pf...)
	}

	if historyFile != "" {
		info, err := os.Stat(historyFile)
		switch {
		case err == nil && !info.IsDir():
			files = append(files, FileInfo{
				Path:   historyFile,
				Source: SourceHistory,
				Mtime:  info.ModTime().Unix(),
				Size:   info.Size(),
			})
		case err != nil && !os.IsNotExist(err):
			return nil, err
		}
	}

	return files, nil
}

func scanProjects(root string) ([]FileInfo, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, err
	}

	var files []FileInfo
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // skip unreadable dirs
		}
		if info.IsDir() {
			if filepath.Base(path) == "subagents" {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".jsonl" {
			return nil
		}
		if strings.Contains(filepath.Base(path), "sessions-index") {
			return nil
		}
		files = append(files, FileInfo{
			Path:    path,
			Source:  SourceProject,
			Project: projectDir(root, path),
			Mtime:   info.ModTime().Unix(),
			Size:    info.Size(),
		})
		return nil
	})
	return files, err
}

// projectDir returns the first directory below root, or "" for files
// directly in it.
func projectDir(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return ""
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	if len(parts) < 2 {
		return ""
	}
	return parts[0]
}

type projectSource []FileInfo

func (s projectSource) String(i int) string { return s[i].Project }
func (s projectSource) Len() int            { return len(s) }

// FilterProject keeps the project transcripts whose project directory
// fuzzy-matches query, in their original order. An empty query keeps all.
func FilterProject(files []FileInfo, query string) []FileInfo {
	if query == "" {
		return files
	}

	var projects projectSource
	for _, f := range files {
		if f.Source == SourceProject && f.Project != "" {
			projects = append(projects, f)
		}
	}

	matches := fuzzy.FindFrom(query, projects)
	idx := make([]int, 0, len(matches))
	for _, m := range matches {
		idx = append(idx, m.Index)
	}
	sort.Ints(idx)

	out := make([]FileInfo, 0, len(idx))
	for _, i := range idx {
		out = append(out, projects[i])
	}
	return out
}

// Paths returns the path of every file.
func Paths(files []FileInfo) []string {
	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Path
	}
	return paths
}
