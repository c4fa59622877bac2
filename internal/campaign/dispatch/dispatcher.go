// Package dispatch fans one logical campaign request out to several
// platforms concurrently and joins all outcomes before reporting.
package dispatch

import (
	"context"
	"sync"

	"github.com/regobertatangangwatangie-eng/farmpro/internal/campaign/domain"
	"go.uber.org/zap"
)

// RunFunc produces one platform's outcome. Implementations report failure
// through the outcome's Error field rather than panicking or returning an
// error; one platform's failure must not affect the others.
type RunFunc func(ctx context.Context, platform string) domain.PlatformOutcome

// Dispatcher runs per-platform work concurrently with a best-effort join:
// slower branches are never cancelled because another branch failed.
type Dispatcher struct {
	log *zap.Logger
}

func New(log *zap.Logger) *Dispatcher {
	return &Dispatcher{log: log.Named("campaign.dispatch")}
}

// Run invokes run once per platform, waits for every branch to settle, and
// aggregates outcomes keyed by platform. The errors map contains only the
// platforms whose outcome carries an error.
func (d *Dispatcher) Run(ctx context.Context, platforms []string, run RunFunc) *domain.MultiPlatformResult {
	results := make(map[string]domain.PlatformOutcome, len(platforms))
	errs := make(map[string]string)

	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, platform := range platforms {
		wg.Add(1)
		go func(platform string) {
			defer wg.Done()
			outcome := run(ctx, platform)

			mu.Lock()
			results[platform] = outcome
			if outcome.Error != "" {
				errs[platform] = outcome.Error
			}
			mu.Unlock()

			if outcome.Error != "" {
				d.log.Warn("platform dispatch failed",
					zap.String("platform", platform),
					zap.String("error", outcome.Error))
			}
		}(platform)
	}
	wg.Wait()

	result := &domain.MultiPlatformResult{Results: results}
	if len(errs) > 0 {
		result.Errors = errs
	}
	return result
}
