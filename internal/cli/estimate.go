package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/haskel/drainfox/internal/retention"
)

var estimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Estimate tank retention time from telemetry",
	Long: `Compute the deterministic retention-time estimate for one telemetry
observation. The net-flow branch is used when the tank is draining through
its outlet; otherwise the estimate falls back to the level change rate.

Examples:
  drainfox estimate --inlet 50 --outlet 100 --capacity 30000 --level-percent 80 --rate-percent -1
  drainfox estimate --capacity 1200 --level-percent 60 --rate-percent -3 --json`,
	RunE: runEstimate,
}

var estimateFlags recordFlags

func init() {
	estimateFlags.register(estimateCmd)
	rootCmd.AddCommand(estimateCmd)
}

func runEstimate(cmd *cobra.Command, args []string) error {
	rec := estimateFlags.rec

	if err := rec.Validate(); err != nil {
		return err
	}

	res, err := retention.Estimate(rec)
	if err != nil {
		// Undefined retention is an expected outcome, not a crash;
		// report it and exit non-zero so scripts can branch on it.
		fmt.Fprintf(os.Stderr, "retention time undefined: %v\n", err)
		os.Exit(2)
	}

	if jsonOut {
		return json.NewEncoder(os.Stdout).Encode(map[string]any{
			"hours":  res.Hours,
			"branch": string(res.Branch),
		})
	}

	fmt.Printf("Retention time: %.2f hours (%.1f days)\n", res.Hours, res.Hours/24)
	fmt.Printf("Branch:         %s\n", res.Branch)
	return nil
}
