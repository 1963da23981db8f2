// Package trainer fits a regression model that reproduces the
// deterministic retention-time formula from raw telemetry, so new
// records can be scored without re-running the physical computation.
package trainer

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/haskel/drainfox/internal/regress"
	"github.com/haskel/drainfox/internal/retention"
	"github.com/haskel/drainfox/internal/telemetry"
)

// MinRecords is the smallest number of labeled records a regression fit
// is meaningful for.
const MinRecords = 2

// Trainer labels telemetry records with the retention formula and fits
// a regressor over them. Each Fit call is independent; the trainer holds
// only configuration.
type Trainer struct {
	factory *regress.Factory
	logger  *slog.Logger
}

// New creates a trainer for the given regressor configuration.
func New(cfg regress.Config, logger *slog.Logger) *Trainer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Trainer{
		factory: regress.NewFactory(cfg),
		logger:  logger,
	}
}

// Fit labels every record via the retention estimator and fits the
// configured regressor on the (features, label) pairs. Records whose
// retention time is undefined are excluded; a record that fails schema
// validation aborts the whole fit.
func (t *Trainer) Fit(records []telemetry.Record) (*Predictor, error) {
	X := make([][]float64, 0, len(records))
	y := make([]float64, 0, len(records))

	skipped := 0
	for i, rec := range records {
		if err := validateRecord(rec); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}

		res, err := retention.Estimate(rec)
		if err != nil {
			if errors.Is(err, retention.ErrUndefined) {
				t.logger.Debug("skipping record with undefined retention",
					"index", i,
					"reason", err,
				)
				skipped++
				continue
			}
			return nil, fmt.Errorf("record %d: %w", i, err)
		}

		X = append(X, rec.Features())
		y = append(y, res.Hours)
	}

	if len(y) < MinRecords {
		return nil, &InsufficientDataError{Have: len(y), Need: MinRecords}
	}

	reg, err := t.factory.Create()
	if err != nil {
		return nil, fmt.Errorf("failed to create regressor: %w", err)
	}

	if err := reg.Fit(X, y); err != nil {
		return nil, fmt.Errorf("failed to fit %s regressor: %w", reg.Name(), err)
	}

	t.logger.Info("model fitted",
		"model", reg.Name(),
		"records", len(records),
		"labeled", len(y),
		"skipped", skipped,
	)

	return &Predictor{reg: reg}, nil
}

// validateRecord maps telemetry field errors onto the trainer's schema
// error type.
func validateRecord(rec telemetry.Record) error {
	err := rec.Validate()
	if err == nil {
		return nil
	}
	var fieldErr *telemetry.FieldError
	if errors.As(err, &fieldErr) {
		return &SchemaMismatchError{Field: fieldErr.Field, Reason: fieldErr.Reason}
	}
	return err
}

// Predictor is a fitted regression model. Immutable after fitting;
// concurrent Predict calls are safe.
type Predictor struct {
	reg regress.Regressor
}

// Model returns the name of the underlying regressor.
func (p *Predictor) Model() string {
	return p.reg.Name()
}

// Predict feeds the record's feature vector through the fitted
// regressor. It never invokes the retention formula.
func (p *Predictor) Predict(rec telemetry.Record) (float64, error) {
	if err := validateRecord(rec); err != nil {
		return 0, err
	}

	pred, err := p.reg.Predict(rec.Features())
	if err != nil {
		return 0, err
	}
	if math.IsNaN(pred) || math.IsInf(pred, 0) {
		return 0, fmt.Errorf("regressor produced a non-finite prediction")
	}
	return pred, nil
}
