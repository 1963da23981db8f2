package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/haskel/drainfox/internal/logger"
	"github.com/haskel/drainfox/internal/telemetry"
)

// recordFlags binds the telemetry fields of one observation to a command's
// flag set, so estimate and predict share the same interface.
type recordFlags struct {
	rec telemetry.Record
}

func (f *recordFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.rec.InletFlow, "inlet", 0, "inlet flow, L/s")
	cmd.Flags().Float64Var(&f.rec.OutletFlow, "outlet", 0, "outlet flow, L/s")
	cmd.Flags().Float64Var(&f.rec.Capacity, "capacity", 0, "tank capacity, m³")
	cmd.Flags().Float64Var(&f.rec.LevelM, "level-m", 0, "current level, meters")
	cmd.Flags().Float64Var(&f.rec.RatePercent, "rate-percent", 0, "level change rate, %/hour (negative = draining)")
	cmd.Flags().Float64Var(&f.rec.RateMPH, "rate-mph", 0, "level change rate, m/hour")
	cmd.Flags().Float64Var(&f.rec.SurfaceArea, "surface-area", 0, "tank surface area, m²")
	cmd.Flags().Float64Var(&f.rec.LevelPercent, "level-percent", 0, "current level, percent of capacity")

	cmd.MarkFlagRequired("capacity")
}

// cmdLogger returns a logger for one-shot commands: quiet by default so
// stdout stays machine-readable, debug text on stderr with --verbose.
func cmdLogger() *slog.Logger {
	if verbose {
		return logger.New("debug", "text")
	}
	return logger.Nop()
}
