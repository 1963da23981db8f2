package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/haskel/drainfox/internal/config"
	"github.com/haskel/drainfox/internal/deploy"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a tanker deployment decision for a supply interruption",
	Long: `Evaluate whether deploying tankers is worthwhile for one supply
interruption. Prints the weighted score, its per-factor breakdown, and a
deploy/hold recommendation against the configured threshold.

Examples:
  drainfox score --properties 200 --outage-hours 8 --artics 2 --fill-hours 0.25
  drainfox score --properties 50 --outage-hours 2 --rigids 1 --critical-customers`,
	RunE: runScore,
}

var (
	scoreProperties  int
	scoreOutageHours float64
	scoreRepairDelay float64
	scoreNightFlow   float64
	scorePeakFlow    float64
	scoreFillHours   float64
	scoreArtics      int
	scoreRigids      int
	scoreHookloaders int
	scoreAssets      bool
	scoreCritical    bool
)

func init() {
	scoreCmd.Flags().IntVar(&scoreProperties, "properties", 0, "properties out of supply")
	scoreCmd.Flags().Float64Var(&scoreOutageHours, "outage-hours", 0, "expected outage duration, hours")
	scoreCmd.Flags().Float64Var(&scoreRepairDelay, "repair-delay", 0, "extra repair delay from tankering, minutes")
	scoreCmd.Flags().Float64Var(&scoreNightFlow, "night-flow", 0, "night demand, m³/h")
	scoreCmd.Flags().Float64Var(&scorePeakFlow, "peak-flow", 0, "peak demand, m³/h")
	scoreCmd.Flags().Float64Var(&scoreFillHours, "fill-hours", 0, "tanker fill turnaround, hours")
	scoreCmd.Flags().IntVar(&scoreArtics, "artics", 0, "available artic tankers")
	scoreCmd.Flags().IntVar(&scoreRigids, "rigids", 0, "available rigid tankers")
	scoreCmd.Flags().IntVar(&scoreHookloaders, "hookloaders", 0, "available hookloader tankers")
	scoreCmd.Flags().BoolVar(&scoreAssets, "assets-at-risk", false, "downstream assets at risk")
	scoreCmd.Flags().BoolVar(&scoreCritical, "critical-customers", false, "critical customers affected")
	scoreCmd.MarkFlagRequired("properties")
	scoreCmd.MarkFlagRequired("outage-hours")
	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, args []string) error {
	cfg := config.LoadOrDefault(cfgFile)

	in := deploy.Inputs{
		PropertiesAffected: scoreProperties,
		OutageHours:        scoreOutageHours,
		RepairDelayMinutes: scoreRepairDelay,
		NightFlowM3h:       scoreNightFlow,
		PeakFlowM3h:        scorePeakFlow,
		FillHours:          scoreFillHours,
		AssetsAtRisk:       scoreAssets,
		CriticalCustomers:  scoreCritical,
		Tankers: map[deploy.TankerType]int{
			deploy.TankerArtic:      scoreArtics,
			deploy.TankerRigid:      scoreRigids,
			deploy.TankerHookloader: scoreHookloaders,
		},
	}

	assessment := deploy.Evaluate(in, cfg.Deployment)

	if jsonOut {
		return json.NewEncoder(os.Stdout).Encode(assessment)
	}

	decision := "HOLD"
	if assessment.Deploy {
		decision = "DEPLOY"
	}

	fmt.Printf("Decision: %s (score %.3f, threshold %.2f)\n", decision, assessment.Score, cfg.Deployment.Threshold)
	fmt.Printf("CML cost: £%.0f\n", assessment.CMLCost)
	fmt.Printf("Delivered: %.1f m³/h against %.1f m³/h mean demand\n", assessment.DeliveredRate, assessment.MeanFlow)
	fmt.Printf("Deployment cost: £%.0f per cycle\n", assessment.DeploymentCost)

	fmt.Println("\nBreakdown:")
	for _, f := range deploy.Factors {
		fmt.Printf("  %-20s %.3f\n", f, assessment.Breakdown[f])
	}

	for _, warning := range assessment.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", warning)
	}

	return nil
}
