package config

import (
	"fmt"
)

// Validate performs business-rule validation on the loaded configuration.
// Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}
	if c.Auth.AccessTokenTTL <= 0 {
		return fmt.Errorf("auth.access_token_ttl must be positive (got %v)", c.Auth.AccessTokenTTL)
	}

	if err := c.Study.validate(); err != nil {
		return fmt.Errorf("study: %w", err)
	}
	if err := c.Cleanup.validate(); err != nil {
		return fmt.Errorf("cleanup: %w", err)
	}

	return nil
}

func (s *StudyConfig) validate() error {
	if s.MaxCardsPerFetch <= 0 {
		return fmt.Errorf("max_cards_per_fetch must be > 0 (got %d)", s.MaxCardsPerFetch)
	}
	if s.DefaultChunkSize <= 0 {
		return fmt.Errorf("default_chunk_size must be > 0 (got %d)", s.DefaultChunkSize)
	}
	if s.MaxNextCards < 0 {
		return fmt.Errorf("max_next_cards must be >= 0 (got %d)", s.MaxNextCards)
	}
	return nil
}

func (c *CleanupConfig) validate() error {
	if c.RetentionDays <= 0 {
		return fmt.Errorf("retention_days must be > 0 (got %d)", c.RetentionDays)
	}
	if c.Interval <= 0 {
		return fmt.Errorf("interval must be positive (got %v)", c.Interval)
	}
	return nil
}
