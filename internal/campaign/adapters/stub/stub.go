// Package stub provides single-call adapters for platforms without a real
// integration. They synthesize deterministic-looking ids; callers must not
// assume those ids resolve against a live platform.
package stub

import (
	"context"

	"github.com/google/uuid"
)

// Adapter synthesizes a `<prefix>_<uuid>` id per campaign.
type Adapter struct {
	platform string
	prefix   string
}

// NewGoogleAds models Google Ads, whose real setup is too involved for this
// service to drive directly.
func NewGoogleAds() *Adapter { return &Adapter{platform: "google_ads", prefix: "gads"} }

// NewLinkedIn models LinkedIn Ads.
func NewLinkedIn() *Adapter { return &Adapter{platform: "linkedin", prefix: "linkedin"} }

// NewTwitter models Twitter/X Ads.
func NewTwitter() *Adapter { return &Adapter{platform: "twitter", prefix: "twitter"} }

func (a *Adapter) Name() string { return a.platform }

func (a *Adapter) CreateCampaign(_ context.Context, _ string, _ float64) (string, error) {
	return a.prefix + "_" + uuid.NewString(), nil
}
