package config

import "github.com/haskel/drainfox/internal/deploy"

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			MaxBodyBytes: 8 << 20,
			RateLimit: RateLimitConfig{
				Enabled:           false,
				RequestsPerSecond: 100,
				Burst:             200,
			},
		},
		Auth: AuthConfig{
			Enabled:  false,
			User:     "",
			Password: "",
		},
		Model: ModelConfig{
			Type:     "forest",
			Trees:    100,
			MaxDepth: 8,
			MinLeaf:  1,
			Seed:     1,
			Workers:  0,
			Lambda:   1e-6,
		},
		Synth: SynthConfig{
			Count: 500,
			Seed:  1,
		},
		Persistence: PersistenceConfig{
			DataDir: "/var/lib/drainfox",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Deployment: deploy.DefaultScoring(),
	}
}
