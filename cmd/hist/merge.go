package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/Zuo-Peng/history-analyser/internal/summary"
	"github.com/spf13/cobra"
)

func mergeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "merge <summaries.json>...",
		Short: "Merge per-file summaries produced by summarise --per-file",
		Long: `Merge JSON written by "hist summarise --per-file". Each input holds an
array of per-file summaries or a single one; "-" reads stdin. Error entries
are skipped.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var all []summary.Result
			for _, name := range args {
				results, err := readResults(name, cmd.InOrStdin())
				if err != nil {
					return a.fail(err)
				}
				a.log.Debug("read summaries", "file", name, "count", len(results))
				all = append(all, results...)
			}
			return a.out.Write(mergedText(*summary.Merge(all)))
		},
	}
}

func readResults(name string, stdin io.Reader) ([]summary.Result, error) {
	var data []byte
	var err error
	if name == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(name)
	}
	if err != nil {
		return nil, fmt.Errorf("Failed to read %s: %w", name, err)
	}

	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var results []summary.Result
		if err := json.Unmarshal(data, &results); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		return results, nil
	}

	var r summary.Result
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	return []summary.Result{r}, nil
}
