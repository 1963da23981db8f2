// Package regress provides the supervised regression capability used to
// generalize retention-time labels to unseen telemetry. Regressors are
// accessed only through the Regressor interface, so the underlying
// algorithm is swappable without touching the trainer.
package regress

import (
	"errors"
	"fmt"
	"io"
)

// ModelType represents the type of regression model.
type ModelType string

const (
	ModelTypeLinear ModelType = "linear"
	ModelTypeForest ModelType = "forest"
)

// IsValid checks if the model type is valid.
func (m ModelType) IsValid() bool {
	switch m {
	case ModelTypeLinear, ModelTypeForest:
		return true
	}
	return false
}

// String returns string representation.
func (m ModelType) String() string {
	return string(m)
}

// ErrNotFitted is returned by Predict before a successful Fit.
var ErrNotFitted = errors.New("regressor is not fitted")

// DimensionError reports a feature-vector length mismatch.
type DimensionError struct {
	Want int
	Got  int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("feature vector has %d values, model expects %d", e.Got, e.Want)
}

// Regressor is the capability set every regression algorithm must
// provide: fit a feature matrix against labels, then predict single
// vectors. Implementations are immutable after Fit apart from the fit
// itself; concurrent Predict calls are safe.
type Regressor interface {
	// Name returns the model name.
	Name() string

	// Fit trains the model on X (rows are feature vectors) and y
	// (one label per row). len(X) must equal len(y) and be >= 2.
	Fit(X [][]float64, y []float64) error

	// Predict returns the predicted label for one feature vector.
	// Returns ErrNotFitted before Fit.
	Predict(x []float64) (float64, error)

	// Persistence
	Save(w io.Writer) error
	Load(r io.Reader) error
}

// validateFit checks the common Fit preconditions.
func validateFit(X [][]float64, y []float64) error {
	if len(X) != len(y) {
		return fmt.Errorf("feature matrix has %d rows but %d labels", len(X), len(y))
	}
	if len(X) < 2 {
		return fmt.Errorf("need at least 2 samples to fit, got %d", len(X))
	}
	width := len(X[0])
	for i, row := range X {
		if len(row) != width {
			return fmt.Errorf("row %d has %d values, expected %d", i, len(row), width)
		}
	}
	return nil
}
