package config

import (
	"github.com/haskel/drainfox/internal/deploy"
	"github.com/haskel/drainfox/internal/regress"
)

type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Auth        AuthConfig        `yaml:"auth"`
	Model       ModelConfig       `yaml:"model"`
	Synth       SynthConfig       `yaml:"synth"`
	Persistence PersistenceConfig `yaml:"persistence"`
	Logging     LoggingConfig     `yaml:"logging"`
	Deployment  deploy.Scoring    `yaml:"deployment"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`

	// MaxBodyBytes caps request body size. Training datasets posted to
	// the daemon are the sizing driver; 0 selects the built-in default.
	MaxBodyBytes int64 `yaml:"max_body_bytes"`

	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

type RateLimitConfig struct {
	Enabled           bool    `yaml:"enabled"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

type AuthConfig struct {
	Enabled  bool   `yaml:"enabled"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

// ModelConfig holds regressor configuration.
type ModelConfig struct {
	// Type: forest or linear
	Type string `yaml:"type"`

	// Forest parameters
	Trees    int   `yaml:"trees"`
	MaxDepth int   `yaml:"max_depth"`
	MinLeaf  int   `yaml:"min_leaf"`
	Seed     int64 `yaml:"seed"`

	// Workers bounds tree-fitting parallelism; 0 means GOMAXPROCS.
	Workers int `yaml:"workers"`

	// Linear: ridge regularization strength
	Lambda float64 `yaml:"lambda"`
}

// RegressConfig converts the section into the regress package's config.
func (m ModelConfig) RegressConfig() regress.Config {
	return regress.Config{
		Type:     regress.ModelType(m.Type),
		Trees:    m.Trees,
		MaxDepth: m.MaxDepth,
		MinLeaf:  m.MinLeaf,
		Seed:     m.Seed,
		Workers:  m.Workers,
		Lambda:   m.Lambda,
	}
}

// SynthConfig holds synthetic dataset generation parameters.
type SynthConfig struct {
	Count int   `yaml:"count"`
	Seed  int64 `yaml:"seed"`
}

type PersistenceConfig struct {
	DataDir string `yaml:"data_dir"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}
