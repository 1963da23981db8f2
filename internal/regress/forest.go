package regress

import (
	"encoding/json"
	"io"
	"math"
	"math/rand"
	"runtime"
	"sync"
)

// ForestConfig holds configuration for the random forest regressor.
type ForestConfig struct {
	Trees    int
	MaxDepth int
	MinLeaf  int
	Seed     int64
	// Workers bounds tree-fitting parallelism. 0 means GOMAXPROCS.
	Workers int
}

// ForestRegressor is a random forest of regression trees: bootstrap
// samples, random feature subsets per split, variance-reduction split
// selection, mean-of-trees prediction. Trees are fitted independently
// and in parallel; the result is deterministic for a fixed seed.
type ForestRegressor struct {
	config ForestConfig
	mu     sync.RWMutex

	state forestState
}

type forestState struct {
	Trees       []*treeNode `json:"trees"`
	NumFeatures int         `json:"num_features"`
	Fitted      bool        `json:"fitted"`
}

// treeNode is one node of a regression tree. Samples with
// x[Feature] <= Threshold descend left.
type treeNode struct {
	Leaf      bool      `json:"leaf"`
	Value     float64   `json:"value,omitempty"`
	Feature   int       `json:"feature,omitempty"`
	Threshold float64   `json:"threshold,omitempty"`
	Left      *treeNode `json:"left,omitempty"`
	Right     *treeNode `json:"right,omitempty"`
}

// NewForestRegressor creates a random forest regressor.
func NewForestRegressor(cfg ForestConfig) *ForestRegressor {
	if cfg.Trees < 1 {
		cfg.Trees = 100
	}
	if cfg.MaxDepth < 1 {
		cfg.MaxDepth = 8
	}
	if cfg.MinLeaf < 1 {
		cfg.MinLeaf = 1
	}
	if cfg.Workers < 1 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	return &ForestRegressor{config: cfg}
}

// Name returns the model name.
func (m *ForestRegressor) Name() string {
	return string(ModelTypeForest)
}

// Fit grows the ensemble. Each tree sees a bootstrap sample of the rows
// and considers a random subset of features at every split.
func (m *ForestRegressor) Fit(X [][]float64, y []float64) error {
	if err := validateFit(X, y); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	nSamples := len(X)
	nFeatures := len(X[0])
	trees := make([]*treeNode, m.config.Trees)

	var wg sync.WaitGroup
	sem := make(chan struct{}, m.config.Workers)

	for i := range trees {
		wg.Add(1)
		sem <- struct{}{}
		// Per-tree source keeps fitting deterministic regardless of
		// goroutine scheduling.
		rng := rand.New(rand.NewSource(m.config.Seed + int64(i)))
		go func(slot int, rng *rand.Rand) {
			defer wg.Done()
			defer func() { <-sem }()

			idx := make([]int, nSamples)
			for j := range idx {
				idx[j] = rng.Intn(nSamples)
			}
			trees[slot] = m.buildTree(X, y, idx, 0, nFeatures, rng)
		}(i, rng)
	}
	wg.Wait()

	m.state = forestState{
		Trees:       trees,
		NumFeatures: nFeatures,
		Fitted:      true,
	}
	return nil
}

func (m *ForestRegressor) buildTree(X [][]float64, y []float64, idx []int, depth, nFeatures int, rng *rand.Rand) *treeNode {
	if depth >= m.config.MaxDepth || len(idx) < 2*m.config.MinLeaf {
		return leafNode(y, idx)
	}

	mean, sse := meanAndSSE(y, idx)
	if sse < 1e-12 {
		// All labels equal, splitting gains nothing.
		return &treeNode{Leaf: true, Value: mean}
	}

	feature, threshold, ok := m.bestSplit(X, y, idx, nFeatures, rng)
	if !ok {
		return leafNode(y, idx)
	}

	var left, right []int
	for _, i := range idx {
		if X[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return leafNode(y, idx)
	}

	return &treeNode{
		Feature:   feature,
		Threshold: threshold,
		Left:      m.buildTree(X, y, left, depth+1, nFeatures, rng),
		Right:     m.buildTree(X, y, right, depth+1, nFeatures, rng),
	}
}

// bestSplit scans a random subset of features for the split that most
// reduces the sum of squared errors.
func (m *ForestRegressor) bestSplit(X [][]float64, y []float64, idx []int, nFeatures int, rng *rand.Rand) (int, float64, bool) {
	mtry := nFeatures / 3
	if mtry < 1 {
		mtry = 1
	}

	features := rng.Perm(nFeatures)[:mtry]

	bestSSE := math.Inf(1)
	bestFeature := -1
	bestThreshold := 0.0

	sorted := make([]int, len(idx))
	for _, f := range features {
		copy(sorted, idx)
		sortByFeature(sorted, X, f)

		// Prefix sums over the sorted order allow O(1) SSE per split.
		var sumL, sumSqL float64
		var sumR, sumSqR float64
		for _, i := range sorted {
			sumR += y[i]
			sumSqR += y[i] * y[i]
		}

		n := len(sorted)
		for pos := 0; pos < n-1; pos++ {
			v := y[sorted[pos]]
			sumL += v
			sumSqL += v * v
			sumR -= v
			sumSqR -= v * v

			nl := pos + 1
			nr := n - nl
			if nl < m.config.MinLeaf || nr < m.config.MinLeaf {
				continue
			}

			cur := X[sorted[pos]][f]
			next := X[sorted[pos+1]][f]
			if cur == next {
				// Cannot split between identical values.
				continue
			}

			sse := (sumSqL - sumL*sumL/float64(nl)) + (sumSqR - sumR*sumR/float64(nr))
			if sse < bestSSE {
				bestSSE = sse
				bestFeature = f
				bestThreshold = (cur + next) / 2
			}
		}
	}

	if bestFeature < 0 {
		return 0, 0, false
	}
	return bestFeature, bestThreshold, true
}

func sortByFeature(idx []int, X [][]float64, f int) {
	// Insertion sort keeps allocations down; node sample sets shrink
	// quickly with depth.
	for i := 1; i < len(idx); i++ {
		for j := i; j > 0 && X[idx[j]][f] < X[idx[j-1]][f]; j-- {
			idx[j], idx[j-1] = idx[j-1], idx[j]
		}
	}
}

func leafNode(y []float64, idx []int) *treeNode {
	mean, _ := meanAndSSE(y, idx)
	return &treeNode{Leaf: true, Value: mean}
}

func meanAndSSE(y []float64, idx []int) (float64, float64) {
	if len(idx) == 0 {
		return 0, 0
	}
	var sum float64
	for _, i := range idx {
		sum += y[i]
	}
	mean := sum / float64(len(idx))

	var sse float64
	for _, i := range idx {
		d := y[i] - mean
		sse += d * d
	}
	return mean, sse
}

// Predict averages the predictions of all trees.
func (m *ForestRegressor) Predict(x []float64) (float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.state.Fitted {
		return 0, ErrNotFitted
	}
	if len(x) != m.state.NumFeatures {
		return 0, &DimensionError{Want: m.state.NumFeatures, Got: len(x)}
	}

	var sum float64
	for _, tree := range m.state.Trees {
		node := tree
		for !node.Leaf {
			if x[node.Feature] <= node.Threshold {
				node = node.Left
			} else {
				node = node.Right
			}
		}
		sum += node.Value
	}
	return sum / float64(len(m.state.Trees)), nil
}

// Save serializes the model state to a writer.
func (m *ForestRegressor) Save(w io.Writer) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return json.NewEncoder(w).Encode(m.state)
}

// Load deserializes the model state from a reader.
func (m *ForestRegressor) Load(r io.Reader) error {
	var state forestState
	if err := json.NewDecoder(r).Decode(&state); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.state = state
	return nil
}
