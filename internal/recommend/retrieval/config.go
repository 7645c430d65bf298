// internal/recommend/retrieval/config.go
package retrieval

import "time"

// Config bounds the page fan-out. The budget and batching discipline are
// client-side rate limiting against the provider, not tuning knobs for
// throughput.
type Config struct {
	PageBudget int
	BatchSize  int
	BatchDelay time.Duration
	CacheTTL   time.Duration
}

const (
	defaultPageBudget = 100
	defaultBatchSize  = 5
	defaultBatchDelay = 250 * time.Millisecond
	defaultCacheTTL   = 24 * time.Hour
)

func (c Config) withDefaults() Config {
	if c.PageBudget <= 0 {
		c.PageBudget = defaultPageBudget
	}
	if c.BatchSize <= 0 {
		c.BatchSize = defaultBatchSize
	}
	if c.BatchDelay <= 0 {
		c.BatchDelay = defaultBatchDelay
	}
	if c.CacheTTL <= 0 {
		c.CacheTTL = defaultCacheTTL
	}
	return c
}
