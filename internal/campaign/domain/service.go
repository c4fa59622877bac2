package domain

import (
	"context"
	"errors"
)

var (
	ErrMissingFields = errors.New("missing_fields")
	ErrAdNotFound    = errors.New("ad_not_found")
)

// CreateAdRequest records a campaign and, when the platform integration is
// configured, creates a single campaign object on it.
type CreateAdRequest struct {
	Name      string
	Platform  string
	Objective string
	Budget    float64
	Payload   map[string]any
}

// CreateAdResult carries the persisted ad plus an advisory note for
// integrations that were skipped.
type CreateAdResult struct {
	Ad   *Ad
	Note string
}

// CreateFullAdRequest runs the whole campaign → ad-set → creative → ad chain.
type CreateFullAdRequest struct {
	Name          string
	Platform      string
	Objective     string
	DailyBudget   float64
	CreativeTitle string
	CreativeBody  string
	ImageURL      string
	Targeting     map[string]any
}

// FullAdResult carries the persisted ad and the per-step external ids. The
// ad is present even when the pipeline failed partway, so callers can see the
// partial payload.
type FullAdResult struct {
	Ad         *Ad
	Components map[string]any
	Note       string
}

// MultiPlatformRequest fans one logical campaign out to several platforms.
type MultiPlatformRequest struct {
	Name      string
	Platforms []string
	Budget    float64
	Objective string
}

// PlatformOutcome is one platform's result within a multi-platform run.
type PlatformOutcome struct {
	ID         string  `json:"id"`
	ProviderID *string `json:"provider_id,omitempty"`
	Status     string  `json:"status"`
	Note       string  `json:"note,omitempty"`
	Error      string  `json:"error,omitempty"`
}

// MultiPlatformResult aggregates per-platform outcomes. Errors holds only the
// platforms that failed.
type MultiPlatformResult struct {
	Results map[string]PlatformOutcome `json:"results"`
	Errors  map[string]string          `json:"errors,omitempty"`
}

// AdEventInput is an inbound ad-platform webhook notification.
type AdEventInput struct {
	Source string
	Body   map[string]any
}

// PerformanceSummary aggregates metric-bearing events for one ad.
type PerformanceSummary struct {
	Impressions int64   `json:"impressions"`
	Clicks      int64   `json:"clicks"`
	Spend       float64 `json:"spend"`
	CTR         float64 `json:"ctr"`
	CPC         float64 `json:"cpc"`
}

// Performance is the ad plus its recent events and derived metrics.
type Performance struct {
	Ad      *Ad                `json:"ad"`
	Events  []AdEvent          `json:"events"`
	Summary PerformanceSummary `json:"performance"`
}

// Service owns campaign creation and the campaign event log.
type Service interface {
	CreateAd(ctx context.Context, req CreateAdRequest) (*CreateAdResult, error)
	// CreateFullAd returns a non-nil result alongside the error when the
	// pipeline failed after persisting a partial ad.
	CreateFullAd(ctx context.Context, req CreateFullAdRequest) (*FullAdResult, error)
	MultiPlatform(ctx context.Context, req MultiPlatformRequest) (*MultiPlatformResult, error)
	IngestAdEvent(ctx context.Context, input AdEventInput) error
	ListAds(ctx context.Context) ([]Ad, error)
	Events(ctx context.Context, adID string) ([]AdEvent, error)
	Performance(ctx context.Context, adID string) (*Performance, error)
}
