// Package pipeline drives the step-based campaign creation chain. The chain
// is not atomic: objects created on the external platform before a failure
// stay there, and the persisted payload records exactly how far the run got
// so the operator can reconcile by hand.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/regobertatangangwatangie-eng/farmpro/internal/campaign/domain"
	"github.com/regobertatangangwatangie-eng/farmpro/internal/clock"
	"github.com/regobertatangangwatangie-eng/farmpro/internal/events"
	"github.com/regobertatangangwatangie-eng/farmpro/internal/retry"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	stepAttempts  = 3
	stepBaseDelay = time.Second
)

// Pipeline runs the campaign → ad-set → creative → ad chain against one
// step-based platform, recording each step outcome in the ad event log.
type Pipeline struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository

	attempts  int
	baseDelay time.Duration
}

func New(db *gorm.DB, log *zap.Logger, genID *snowflake.Node, clk clock.Clock, repo domain.Repository) *Pipeline {
	return &Pipeline{
		db:        db,
		log:       log.Named("campaign.pipeline"),
		genID:     genID,
		clock:     clk,
		repo:      repo,
		attempts:  stepAttempts,
		baseDelay: stepBaseDelay,
	}
}

// SetRetryPolicy overrides the per-step retry policy, for tests.
func (p *Pipeline) SetRetryPolicy(attempts int, baseDelay time.Duration) {
	p.attempts = attempts
	p.baseDelay = baseDelay
}

// Run executes the chain for an already-built draft ad and persists the
// outcome exactly once. On failure the ad row carries status error and the
// partial payload; the error is returned so the caller can surface details.
func (p *Pipeline) Run(ctx context.Context, ad *domain.Ad, adapter domain.StepAdapter, req domain.CreateFullAdRequest) error {
	var accumulated events.StepPayload

	campaignID, err := retry.Do(ctx, p.attempts, p.baseDelay, func(ctx context.Context) (string, error) {
		return adapter.CreateCampaign(ctx, ad.Name, ad.Objective)
	})
	if err != nil {
		return p.fail(ctx, ad, accumulated, err)
	}
	accumulated.CampaignID = campaignID
	p.logStep(ctx, ad, events.AdCampaignCreated, accumulated)

	adSetID, err := retry.Do(ctx, p.attempts, p.baseDelay, func(ctx context.Context) (string, error) {
		return adapter.CreateAdSet(ctx, campaignID, domain.AdSetSpec{
			Name:             ad.Name + "-adset",
			DailyBudgetMinor: int64(math.Round(req.DailyBudget * 100)),
			Targeting:        req.Targeting,
		})
	})
	if err != nil {
		return p.fail(ctx, ad, accumulated, err)
	}
	accumulated.AdSetID = adSetID
	p.logStep(ctx, ad, events.AdSetCreated, accumulated)

	title := req.CreativeTitle
	if title == "" {
		title = ad.Name
	}
	body := req.CreativeBody
	if body == "" {
		body = ad.Name
	}
	creativeID, err := retry.Do(ctx, p.attempts, p.baseDelay, func(ctx context.Context) (string, error) {
		return adapter.CreateCreative(ctx, domain.CreativeSpec{
			Title:    title,
			Body:     body,
			ImageRef: req.ImageURL,
		})
	})
	if err != nil {
		return p.fail(ctx, ad, accumulated, err)
	}
	accumulated.CreativeID = creativeID
	p.logStep(ctx, ad, events.AdCreativeCreated, accumulated)

	externalAdID, err := retry.Do(ctx, p.attempts, p.baseDelay, func(ctx context.Context) (string, error) {
		return adapter.CreateAd(ctx, adSetID, creativeID)
	})
	if err != nil {
		return p.fail(ctx, ad, accumulated, err)
	}
	accumulated.AdID = externalAdID
	p.logStep(ctx, ad, events.AdCreated, accumulated)

	ad.Status = domain.AdStatusCreated
	ad.ProviderID = &externalAdID
	ad.Payload = marshalPayload(accumulated)
	if err := p.repo.Insert(ctx, p.db, ad); err != nil {
		return err
	}

	p.log.Info("campaign pipeline completed",
		zap.String("ad_id", ad.ID.String()),
		zap.String("external_ad_id", externalAdID))
	return nil
}

// fail persists the ad with whatever the run accumulated. External objects
// already created are left in place; there is no compensating rollback.
func (p *Pipeline) fail(ctx context.Context, ad *domain.Ad, accumulated events.StepPayload, stepErr error) error {
	p.appendEvent(ctx, ad.ID.String(), events.AdError, map[string]any{"error": stepErr.Error()})

	ad.Status = domain.AdStatusError
	ad.Payload = marshalPayload(accumulated)
	if err := p.repo.Insert(ctx, p.db, ad); err != nil {
		p.log.Error("persisting failed pipeline run",
			zap.String("ad_id", ad.ID.String()),
			zap.Error(err))
		return fmt.Errorf("persist failed run: %w", err)
	}

	p.log.Warn("campaign pipeline failed",
		zap.String("ad_id", ad.ID.String()),
		zap.Error(stepErr))
	return stepErr
}

func (p *Pipeline) logStep(ctx context.Context, ad *domain.Ad, eventType string, accumulated events.StepPayload) {
	p.appendEvent(ctx, ad.ID.String(), eventType, accumulated.ToMap())
}

func (p *Pipeline) appendEvent(ctx context.Context, adID, eventType string, data map[string]any) {
	dataJSON, err := json.Marshal(data)
	if err != nil {
		p.log.Warn("marshal ad event", zap.Error(err))
		return
	}
	event := &domain.AdEvent{
		ID:        p.genID.Generate(),
		AdID:      adID,
		EventType: eventType,
		Data:      datatypes.JSON(dataJSON),
		CreatedAt: p.clock.Now(),
	}
	if err := p.repo.AppendEvent(ctx, p.db, event); err != nil {
		p.log.Warn("append ad event",
			zap.String("ad_id", adID),
			zap.String("event_type", eventType),
			zap.Error(err))
	}
}

func marshalPayload(accumulated events.StepPayload) datatypes.JSON {
	payloadJSON, err := json.Marshal(accumulated.ToMap())
	if err != nil {
		return nil
	}
	return datatypes.JSON(payloadJSON)
}
