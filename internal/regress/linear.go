package regress

import (
	"encoding/json"
	"io"
	"math"
	"sync"
)

// LinearRegressor fits a multivariate linear model by ridge-regularized
// least squares: y = coefs[0] + coefs[1]*x1 + ... + coefs[n]*xn.
// The normal equations are solved with Gaussian elimination.
type LinearRegressor struct {
	lambda float64
	mu     sync.RWMutex

	state linearState
}

type linearState struct {
	Coefs       []float64 `json:"coefs"` // intercept first
	NumFeatures int       `json:"num_features"`
	Fitted      bool      `json:"fitted"`
}

// NewLinearRegressor creates a linear regressor with the given ridge
// regularization strength. Lambda <= 0 disables regularization apart
// from the minimal jitter needed for numerical stability.
func NewLinearRegressor(lambda float64) *LinearRegressor {
	if lambda < 0 {
		lambda = 0
	}
	return &LinearRegressor{lambda: lambda}
}

// Name returns the model name.
func (m *LinearRegressor) Name() string {
	return string(ModelTypeLinear)
}

// Fit solves (X'X + λI) coefs = X'y over the design matrix with a
// leading intercept column.
func (m *LinearRegressor) Fit(X [][]float64, y []float64) error {
	if err := validateFit(X, y); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	nFeatures := len(X[0])
	dim := nFeatures + 1 // intercept column

	// X'X and X'y, accumulated row by row so the design matrix is never
	// materialized.
	xtx := make([][]float64, dim)
	for i := range xtx {
		xtx[i] = make([]float64, dim)
	}
	xty := make([]float64, dim)

	row := make([]float64, dim)
	for r, x := range X {
		row[0] = 1
		copy(row[1:], x)
		for i := 0; i < dim; i++ {
			for j := 0; j < dim; j++ {
				xtx[i][j] += row[i] * row[j]
			}
			xty[i] += row[i] * y[r]
		}
	}

	lambda := m.lambda
	if lambda == 0 {
		lambda = 1e-9 * float64(len(X))
	}
	// The intercept is not regularized.
	for i := 1; i < dim; i++ {
		xtx[i][i] += lambda
	}

	coefs := solveLinearSystem(xtx, xty)

	m.state = linearState{
		Coefs:       coefs,
		NumFeatures: nFeatures,
		Fitted:      true,
	}
	return nil
}

// Predict evaluates the fitted hyperplane at x.
func (m *LinearRegressor) Predict(x []float64) (float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.state.Fitted {
		return 0, ErrNotFitted
	}
	if len(x) != m.state.NumFeatures {
		return 0, &DimensionError{Want: m.state.NumFeatures, Got: len(x)}
	}

	result := m.state.Coefs[0]
	for i, v := range x {
		result += m.state.Coefs[i+1] * v
	}
	return result, nil
}

// solveLinearSystem solves Ax = b using Gaussian elimination with
// partial pivoting. A and b are modified in place.
func solveLinearSystem(A [][]float64, b []float64) []float64 {
	n := len(b)

	for k := 0; k < n; k++ {
		// Find pivot
		maxIdx := k
		maxVal := math.Abs(A[k][k])
		for i := k + 1; i < n; i++ {
			if math.Abs(A[i][k]) > maxVal {
				maxVal = math.Abs(A[i][k])
				maxIdx = i
			}
		}

		// Swap rows
		if maxIdx != k {
			A[k], A[maxIdx] = A[maxIdx], A[k]
			b[k], b[maxIdx] = b[maxIdx], b[k]
		}

		// Check for singular matrix
		if math.Abs(A[k][k]) < 1e-12 {
			// Return zero coefficients for singular matrix
			return make([]float64, n)
		}

		// Eliminate
		for i := k + 1; i < n; i++ {
			factor := A[i][k] / A[k][k]
			for j := k; j < n; j++ {
				A[i][j] -= factor * A[k][j]
			}
			b[i] -= factor * b[k]
		}
	}

	// Back substitution
	x := make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		x[i] = b[i]
		for j := i + 1; j < n; j++ {
			x[i] -= A[i][j] * x[j]
		}
		x[i] /= A[i][i]
	}

	return x
}

// Save serializes the model state to a writer.
func (m *LinearRegressor) Save(w io.Writer) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return json.NewEncoder(w).Encode(m.state)
}

// Load deserializes the model state from a reader.
func (m *LinearRegressor) Load(r io.Reader) error {
	var state linearState
	if err := json.NewDecoder(r).Decode(&state); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.state = state
	return nil
}
