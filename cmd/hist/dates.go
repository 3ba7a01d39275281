package main

import (
	"time"

	"github.com/Zuo-Peng/history-analyser/internal/dates"
	"github.com/spf13/cobra"
)

func datesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dates <expression> [end]",
		Short: "Resolve a natural-language date expression to a time window",
		Long: `Resolve a date expression relative to now. Examples:
  hist dates today
  hist dates "last 3 weeks"
  hist dates "2 months ago"
  hist dates "jan 2025 to mar 2025"
  hist dates 2025-01-01 2025-01-31`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var end string
			if len(args) > 1 {
				end = args[1]
			}
			r, err := dates.Resolve(args[0], end, time.Now())
			if err != nil {
				return a.fail(err)
			}
			return a.out.Write(rangeText(r))
		},
	}
}
