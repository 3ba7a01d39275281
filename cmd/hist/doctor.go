package main

import (
	"fmt"
	"os"

	"github.com/Zuo-Peng/history-analyser/internal/output"
	"github.com/Zuo-Peng/history-analyser/internal/scan"
	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
)

type pathCheck struct {
	Path   string `json:"path" yaml:"path"`
	Status string `json:"status" yaml:"status"`
}

type doctorReport struct {
	ClaudeRoot  pathCheck `json:"claude_root" yaml:"claude_root"`
	HistoryFile pathCheck `json:"history_file" yaml:"history_file"`
	Transcripts int       `json:"transcripts" yaml:"transcripts"`
	Projects    int       `json:"projects" yaml:"projects"`
	TotalBytes  int64     `json:"total_bytes" yaml:"total_bytes"`
	Workers     int       `json:"workers" yaml:"workers"`
	Editor      string    `json:"editor" yaml:"editor"`
	Clipboard   bool      `json:"clipboard" yaml:"clipboard"`
	ScanError   string    `json:"scan_error,omitempty" yaml:"scan_error,omitempty"`
}

func (r doctorReport) WriteText(w *output.Writer) error {
	w.PrintSection("Roots")
	w.PrintKeyValue("Claude projects", fmt.Sprintf("%s (%s)", r.ClaudeRoot.Path, r.ClaudeRoot.Status))
	w.PrintKeyValue("History file", fmt.Sprintf("%s (%s)", r.HistoryFile.Path, r.HistoryFile.Status))

	w.PrintSection("Transcripts")
	if r.ScanError != "" {
		w.PrintKeyValue("Scan error", r.ScanError)
	}
	w.PrintKeyValue("Files", output.FormatNumber(r.Transcripts))
	w.PrintKeyValue("Projects", output.FormatNumber(r.Projects))
	w.PrintKeyValue("Size", fmt.Sprintf("%.1f MB", float64(r.TotalBytes)/1024/1024))

	w.PrintSection("Settings")
	w.PrintKeyValue("Workers", fmt.Sprintf("%d", r.Workers))
	w.PrintKeyValue("Editor", r.Editor)
	clip := "available"
	if !r.Clipboard {
		clip = "unavailable (resume commands are printed)"
	}
	w.PrintKeyValue("Clipboard", clip)
	return nil
}

func doctorCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Self-check: verify roots and show transcript stats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r := doctorReport{
				ClaudeRoot:  checkPath(a.cfg.ClaudeRoot, true),
				HistoryFile: checkPath(a.cfg.HistoryFile, false),
				Workers:     a.cfg.Workers,
				Editor:      a.cfg.EditorCommand(),
				Clipboard:   !clipboard.Unsupported,
			}

			files, err := scan.ScanRoots(a.cfg.ClaudeRoot, a.cfg.HistoryFile)
			if err != nil {
				r.ScanError = err.Error()
			}
			projects := make(map[string]bool)
			for _, f := range files {
				r.Transcripts++
				r.TotalBytes += f.Size
				if f.Project != "" {
					projects[f.Project] = true
				}
			}
			r.Projects = len(projects)

			return a.out.Write(r)
		},
	}
}

func checkPath(path string, wantDir bool) pathCheck {
	info, err := os.Stat(path)
	switch {
	case err != nil:
		return pathCheck{Path: path, Status: "NOT FOUND"}
	case wantDir && !info.IsDir():
		return pathCheck{Path: path, Status: "NOT A DIRECTORY"}
	case !wantDir && info.IsDir():
		return pathCheck{Path: path, Status: "IS A DIRECTORY"}
	default:
		return pathCheck{Path: path, Status: "OK"}
	}
}
