package config

import (
	"errors"
	"fmt"

	"github.com/haskel/drainfox/internal/regress"
)

func (c *Config) Validate() error {
	var errs []error

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("server: %w", err))
	}

	if err := c.Auth.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("auth: %w", err))
	}

	if err := c.Model.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("model: %w", err))
	}

	if err := c.Synth.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("synth: %w", err))
	}

	if err := c.Persistence.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("persistence: %w", err))
	}

	if err := c.Logging.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("logging: %w", err))
	}

	if err := c.Deployment.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("deployment: %w", err))
	}

	return errors.Join(errs...)
}

func (s *ServerConfig) Validate() error {
	var errs []error

	if s.Port < 1 || s.Port > 65535 {
		errs = append(errs, fmt.Errorf("port must be between 1 and 65535, got %d", s.Port))
	}

	if s.MaxBodyBytes < 0 {
		errs = append(errs, fmt.Errorf("max_body_bytes must be non-negative, got %d", s.MaxBodyBytes))
	}

	if s.RateLimit.Enabled {
		if s.RateLimit.RequestsPerSecond <= 0 {
			errs = append(errs, fmt.Errorf("rate_limit.requests_per_second must be positive"))
		}
		if s.RateLimit.Burst < 1 {
			errs = append(errs, fmt.Errorf("rate_limit.burst must be at least 1"))
		}
	}

	return errors.Join(errs...)
}

func (a *AuthConfig) Validate() error {
	if a.Enabled {
		if a.User == "" {
			return fmt.Errorf("user cannot be empty when auth is enabled")
		}
		if a.Password == "" {
			return fmt.Errorf("password cannot be empty when auth is enabled")
		}
	}
	return nil
}

func (m *ModelConfig) Validate() error {
	var errs []error

	if !regress.ModelType(m.Type).IsValid() {
		errs = append(errs, fmt.Errorf("invalid model type: %s (valid: forest, linear)", m.Type))
	}

	if m.Trees < 1 {
		errs = append(errs, fmt.Errorf("trees must be at least 1, got %d", m.Trees))
	}

	if m.MaxDepth < 1 {
		errs = append(errs, fmt.Errorf("max_depth must be at least 1, got %d", m.MaxDepth))
	}

	if m.MinLeaf < 1 {
		errs = append(errs, fmt.Errorf("min_leaf must be at least 1, got %d", m.MinLeaf))
	}

	if m.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must be non-negative, got %d", m.Workers))
	}

	if m.Lambda < 0 {
		errs = append(errs, fmt.Errorf("lambda must be non-negative, got %g", m.Lambda))
	}

	return errors.Join(errs...)
}

func (s *SynthConfig) Validate() error {
	if s.Count < 1 {
		return fmt.Errorf("count must be at least 1, got %d", s.Count)
	}
	return nil
}

func (p *PersistenceConfig) Validate() error {
	if p.DataDir == "" {
		return fmt.Errorf("data_dir cannot be empty")
	}
	return nil
}

func (l *LoggingConfig) Validate() error {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[l.Level] {
		return fmt.Errorf("invalid log level: %s (valid: debug, info, warn, error)", l.Level)
	}

	validFormats := map[string]bool{
		"json": true,
		"text": true,
	}
	if !validFormats[l.Format] {
		return fmt.Errorf("invalid log format: %s (valid: json, text)", l.Format)
	}

	return nil
}
