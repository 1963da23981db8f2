package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/haskel/drainfox/internal/config"
	"github.com/haskel/drainfox/internal/storage"
	"github.com/haskel/drainfox/internal/trainer"
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Predict retention time with a trained model",
	Long: `Score one telemetry observation with a previously trained model. The
model artifact is loaded from the data directory; train one first with
'drainfox train'.

Examples:
  drainfox predict --inlet 50 --outlet 100 --capacity 30000 --level-percent 80 --rate-percent -1
  drainfox predict --capacity 1200 --level-percent 60 --rate-percent -3 --data-dir ./models`,
	RunE: runPredict,
}

var (
	predictFlags   recordFlags
	predictDataDir string
)

func init() {
	predictFlags.register(predictCmd)
	predictCmd.Flags().StringVar(&predictDataDir, "data-dir", "", "artifact directory (overrides config)")
	rootCmd.AddCommand(predictCmd)
}

func runPredict(cmd *cobra.Command, args []string) error {
	cfg := config.LoadOrDefault(cfgFile)
	if predictDataDir != "" {
		cfg.Persistence.DataDir = predictDataDir
	}

	store := storage.New(cfg.Persistence.DataDir, cmdLogger())

	var p trainer.Predictor
	if err := store.LoadModel(&p); err != nil {
		return fmt.Errorf("no trained model available: %w", err)
	}

	hours, err := p.Predict(predictFlags.rec)
	if err != nil {
		return fmt.Errorf("prediction failed: %w", err)
	}

	if jsonOut {
		return json.NewEncoder(os.Stdout).Encode(map[string]any{
			"hours": hours,
			"model": p.Model(),
		})
	}

	fmt.Printf("Predicted retention time: %.2f hours (%.1f days)\n", hours, hours/24)
	fmt.Printf("Model:                    %s\n", p.Model())
	return nil
}
