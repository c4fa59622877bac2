package domain

import (
	"context"
	"errors"
	"fmt"
)

var ErrPlatformNotConfigured = errors.New("platform_not_configured")

// ProviderError carries an ad platform's failure response, tagged with the
// platform that produced it.
type ProviderError struct {
	Platform string
	Details  string
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Platform, e.Details)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Platform, e.Err)
	}
	return e.Platform + ": provider error"
}

func (e *ProviderError) Unwrap() error { return e.Err }

// NewProviderError tags a failure with the platform name.
func NewProviderError(platform, details string, err error) *ProviderError {
	return &ProviderError{Platform: platform, Details: details, Err: err}
}

// AdSetSpec parameterizes the ad-set step.
type AdSetSpec struct {
	Name string
	// DailyBudgetMinor is the daily budget in the account currency's minor
	// unit, the way the Meta API expects it.
	DailyBudgetMinor int64
	Targeting        map[string]any
}

// CreativeSpec parameterizes the creative step.
type CreativeSpec struct {
	Title    string
	Body     string
	ImageRef string
}

// StepAdapter drives a platform that requires a dependent chain of object
// creations. Each operation is a single call; retry is the caller's concern.
type StepAdapter interface {
	Name() string
	// Configured reports whether credentials are present. Callers check
	// this before starting a pipeline so unconfigured platforms degrade to
	// drafts instead of erroring.
	Configured() bool
	CreateCampaign(ctx context.Context, name, objective string) (string, error)
	CreateAdSet(ctx context.Context, campaignID string, spec AdSetSpec) (string, error)
	CreateCreative(ctx context.Context, spec CreativeSpec) (string, error)
	CreateAd(ctx context.Context, adSetID, creativeID string) (string, error)
}

// CampaignAdapter drives a platform whose integration is a single call. Ids
// returned by stub integrations are synthesized and must not be assumed
// resolvable against a live platform.
type CampaignAdapter interface {
	Name() string
	CreateCampaign(ctx context.Context, name string, budget float64) (string, error)
}
