package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/haskel/drainfox/internal/config"
	"github.com/haskel/drainfox/internal/storage"
	"github.com/haskel/drainfox/internal/telemetry"
	"github.com/haskel/drainfox/internal/trainer"
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train a regression model from a telemetry file",
	Long: `Fit a regression model over labeled telemetry and persist the artifact
to the data directory. Records whose retention time is undefined are
skipped; the rest are labeled with the deterministic estimate.

Input is CSV with named header columns, or JSON lines when the file
ends in .jsonl.

Examples:
  drainfox train --input telemetry.csv
  drainfox train --input telemetry.jsonl --model linear --data-dir ./models`,
	RunE: runTrain,
}

var (
	trainInput   string
	trainModel   string
	trainDataDir string
)

func init() {
	trainCmd.Flags().StringVarP(&trainInput, "input", "i", "", "telemetry file, .csv or .jsonl (required)")
	trainCmd.Flags().StringVar(&trainModel, "model", "", "model type: forest or linear (overrides config)")
	trainCmd.Flags().StringVar(&trainDataDir, "data-dir", "", "artifact directory (overrides config)")
	trainCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(trainCmd)
}

func runTrain(cmd *cobra.Command, args []string) error {
	cfg := config.LoadOrDefault(cfgFile)

	if trainModel != "" {
		cfg.Model.Type = trainModel
	}
	if trainDataDir != "" {
		cfg.Persistence.DataDir = trainDataDir
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	f, err := os.Open(trainInput)
	if err != nil {
		return fmt.Errorf("failed to open input: %w", err)
	}
	defer f.Close()

	var records telemetry.Dataset
	if strings.HasSuffix(trainInput, ".jsonl") {
		records, err = telemetry.ReadJSONL(f)
	} else {
		records, err = telemetry.ReadCSV(f)
	}
	if err != nil {
		return fmt.Errorf("failed to read telemetry: %w", err)
	}

	log := cmdLogger()

	tr := trainer.New(cfg.Model.RegressConfig(), log)
	p, err := tr.Fit(records)
	if err != nil {
		return fmt.Errorf("training failed: %w", err)
	}

	store := storage.New(cfg.Persistence.DataDir, log)
	if err := store.SaveModel(p); err != nil {
		return fmt.Errorf("failed to persist model: %w", err)
	}

	if jsonOut {
		fmt.Printf(`{"model":%q,"records":%d,"path":%q}`+"\n", p.Model(), len(records), store.ModelPath())
		return nil
	}

	fmt.Printf("Trained %s model on %d records\n", p.Model(), len(records))
	fmt.Printf("Artifact: %s\n", store.ModelPath())
	return nil
}
