package regress

import (
	"fmt"
)

// Config holds regressor configuration.
type Config struct {
	Type ModelType

	// Forest params
	Trees    int
	MaxDepth int
	MinLeaf  int
	Seed     int64
	Workers  int

	// Linear params
	Lambda float64
}

// DefaultConfig returns default regressor configuration.
func DefaultConfig() Config {
	return Config{
		Type:     ModelTypeForest,
		Trees:    100,
		MaxDepth: 8,
		MinLeaf:  1,
		Seed:     1,
		Lambda:   1e-6,
	}
}

// Factory creates regressors.
type Factory struct {
	config Config
}

// NewFactory creates a new regressor factory.
func NewFactory(cfg Config) *Factory {
	return &Factory{config: cfg}
}

// Create creates a regressor based on configuration.
func (f *Factory) Create() (Regressor, error) {
	return f.CreateByType(f.config.Type)
}

// CreateByType creates a regressor of the specified type.
func (f *Factory) CreateByType(modelType ModelType) (Regressor, error) {
	switch modelType {
	case ModelTypeLinear:
		return NewLinearRegressor(f.config.Lambda), nil

	case ModelTypeForest:
		return NewForestRegressor(ForestConfig{
			Trees:    f.config.Trees,
			MaxDepth: f.config.MaxDepth,
			MinLeaf:  f.config.MinLeaf,
			Seed:     f.config.Seed,
			Workers:  f.config.Workers,
		}), nil

	default:
		return nil, fmt.Errorf("unknown model type: %s", modelType)
	}
}
