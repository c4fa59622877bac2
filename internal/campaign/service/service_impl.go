package service

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/regobertatangangwatangie-eng/farmpro/internal/cache"
	"github.com/regobertatangangwatangie-eng/farmpro/internal/campaign/adapters"
	"github.com/regobertatangangwatangie-eng/farmpro/internal/campaign/dispatch"
	"github.com/regobertatangangwatangie-eng/farmpro/internal/campaign/domain"
	"github.com/regobertatangangwatangie-eng/farmpro/internal/campaign/pipeline"
	"github.com/regobertatangangwatangie-eng/farmpro/internal/clock"
	"github.com/regobertatangangwatangie-eng/farmpro/internal/events"
	"github.com/regobertatangangwatangie-eng/farmpro/internal/retry"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	defaultObjective = "BRAND_AWARENESS"

	// performanceEventWindow bounds how many recent events feed the
	// metrics aggregation.
	performanceEventWindow = 100
	performanceEventsShown = 10
	performanceCacheTTL    = 30 * time.Second

	multiPlatformAttempts  = 3
	multiPlatformBaseDelay = time.Second
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Clock      clock.Clock
	Repo       domain.Repository
	Registry   *adapters.Registry
	Pipeline   *pipeline.Pipeline
	Dispatcher *dispatch.Dispatcher
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	clock      clock.Clock
	repo       domain.Repository
	registry   *adapters.Registry
	pipeline   *pipeline.Pipeline
	dispatcher *dispatch.Dispatcher

	performanceCache cache.Cache[string, domain.PerformanceSummary]

	attempts  int
	baseDelay time.Duration
}

func NewService(p Params) domain.Service {
	return &Service{
		db:               p.DB,
		log:              p.Log.Named("campaign.service"),
		genID:            p.GenID,
		clock:            p.Clock,
		repo:             p.Repo,
		registry:         p.Registry,
		pipeline:         p.Pipeline,
		dispatcher:       p.Dispatcher,
		performanceCache: cache.NewTTLCache[string, domain.PerformanceSummary](),
		attempts:         multiPlatformAttempts,
		baseDelay:        multiPlatformBaseDelay,
	}
}

// CreateAd records a campaign and creates a single campaign object on the
// platform when its integration is configured. Unconfigured or stub
// platforms are stored as drafts.
func (s *Service) CreateAd(ctx context.Context, req domain.CreateAdRequest) (*domain.CreateAdResult, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" || strings.TrimSpace(req.Platform) == "" {
		return nil, domain.ErrMissingFields
	}

	ad := s.newDraft(name, req.Platform, req.Objective, req.Budget)
	if req.Payload != nil {
		if payloadJSON, err := json.Marshal(req.Payload); err == nil {
			ad.Payload = datatypes.JSON(payloadJSON)
		}
	}

	platform := domain.ParsePlatform(req.Platform)
	adapter, ok := s.registry.StepFor(platform)
	if !ok || !adapter.Configured() {
		if err := s.repo.Insert(ctx, s.db, ad); err != nil {
			return nil, err
		}
		note := "stored_as_draft"
		if ok {
			note = adapter.Name() + "_not_configured"
		}
		return &domain.CreateAdResult{Ad: ad, Note: note}, nil
	}

	providerID, err := adapter.CreateCampaign(ctx, ad.Name, ad.Objective)
	if err != nil {
		ad.Status = domain.AdStatusError
		if insertErr := s.repo.Insert(ctx, s.db, ad); insertErr != nil {
			return nil, insertErr
		}
		s.appendEvent(ctx, ad.ID.String(), events.AdCreateFailed, map[string]any{"error": err.Error()})
		return &domain.CreateAdResult{Ad: ad}, err
	}

	ad.Status = domain.AdStatusCreated
	ad.ProviderID = &providerID
	if err := s.repo.Insert(ctx, s.db, ad); err != nil {
		return nil, err
	}
	s.appendEvent(ctx, ad.ID.String(), events.AdCampaignCreated, map[string]any{
		"platform":    adapter.Name(),
		"provider_id": providerID,
	})
	return &domain.CreateAdResult{Ad: ad}, nil
}

// CreateFullAd runs the whole step chain for step-based platforms. For
// everything else the ad is stored as a draft.
func (s *Service) CreateFullAd(ctx context.Context, req domain.CreateFullAdRequest) (*domain.FullAdResult, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" || strings.TrimSpace(req.Platform) == "" {
		return nil, domain.ErrMissingFields
	}

	budget := req.DailyBudget
	if budget <= 0 {
		budget = 10
	}
	req.DailyBudget = budget

	ad := s.newDraft(name, req.Platform, req.Objective, budget)

	platform := domain.ParsePlatform(req.Platform)
	adapter, ok := s.registry.StepFor(platform)
	if !ok {
		if err := s.repo.Insert(ctx, s.db, ad); err != nil {
			return nil, err
		}
		return &domain.FullAdResult{Ad: ad, Note: "stored_as_draft"}, nil
	}
	if !adapter.Configured() {
		if err := s.repo.Insert(ctx, s.db, ad); err != nil {
			return nil, err
		}
		return &domain.FullAdResult{Ad: ad, Note: adapter.Name() + "_not_configured"}, nil
	}

	if err := s.pipeline.Run(ctx, ad, adapter, req); err != nil {
		// The pipeline already persisted the partial run.
		return &domain.FullAdResult{Ad: ad, Components: payloadMap(ad)}, err
	}
	return &domain.FullAdResult{Ad: ad, Components: payloadMap(ad)}, nil
}

// MultiPlatform fans the request out to every named platform and aggregates
// outcomes without letting one platform's failure affect the others.
func (s *Service) MultiPlatform(ctx context.Context, req domain.MultiPlatformRequest) (*domain.MultiPlatformResult, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" || len(req.Platforms) == 0 {
		return nil, domain.ErrMissingFields
	}
	objective := strings.TrimSpace(req.Objective)
	if objective == "" {
		objective = defaultObjective
	}

	return s.dispatcher.Run(ctx, req.Platforms, func(ctx context.Context, rawPlatform string) domain.PlatformOutcome {
		outcome := domain.PlatformOutcome{ID: s.genID.Generate().String()}

		switch platform := domain.ParsePlatform(rawPlatform); platform {
		case domain.PlatformMeta:
			adapter, ok := s.registry.StepFor(platform)
			if !ok || !adapter.Configured() {
				outcome.Status = string(domain.AdStatusDraft)
				outcome.Note = "not_configured"
				return outcome
			}
			providerID, err := retry.Do(ctx, s.attempts, s.baseDelay, func(ctx context.Context) (string, error) {
				return adapter.CreateCampaign(ctx, name, objective)
			})
			if err != nil {
				outcome.Status = string(domain.AdStatusError)
				outcome.Error = err.Error()
				return outcome
			}
			outcome.Status = string(domain.AdStatusCreated)
			outcome.ProviderID = &providerID
			return outcome

		case domain.PlatformGoogleAds, domain.PlatformLinkedIn, domain.PlatformTwitter:
			adapter, ok := s.registry.SimpleFor(platform)
			if !ok {
				outcome.Status = string(domain.AdStatusDraft)
				outcome.Note = "not_configured"
				return outcome
			}
			providerID, err := adapter.CreateCampaign(ctx, name, req.Budget)
			if err != nil {
				outcome.Status = string(domain.AdStatusError)
				outcome.Error = err.Error()
				return outcome
			}
			outcome.Status = string(domain.AdStatusDraft)
			outcome.ProviderID = &providerID
			return outcome

		default:
			outcome.Status = "unknown"
			return outcome
		}
	}), nil
}

// IngestAdEvent records an external ad-platform notification in the event
// log. Payloads that cannot be attributed to an ad are logged and dropped;
// the sender always gets an acknowledgment.
func (s *Service) IngestAdEvent(ctx context.Context, input domain.AdEventInput) error {
	body := input.Body
	source := strings.ToLower(strings.TrimSpace(input.Source))

	adID := firstString(body, "ad_id", "campaign_id")
	if adID == "" {
		if data, ok := body["data"].(map[string]any); ok {
			adID = firstString(data, "ad_id")
		}
	}

	switch {
	case source == "meta" || body["object"] == "ad_campaign":
		eventType := firstString(body, "action", "event")
		if eventType == "" {
			eventType = "meta_event"
		}
		if adID == "" {
			break
		}
		s.appendEvent(ctx, adID, eventType, body)

	case (source == "paystack" || source == "paystack-direct") && body["event"] == "charge.success":
		data, _ := body["data"].(map[string]any)
		reference := firstString(data, "reference")
		if !strings.HasPrefix(reference, "ad_") {
			break
		}
		// The dedicated Paystack endpoint and the shared events webhook
		// record distinct event types for the same notification shape.
		eventType := events.AdPaymentSuccess
		if source == "paystack-direct" {
			eventType = events.AdPaystackPayment
		}
		s.appendEvent(ctx, strings.TrimPrefix(reference, "ad_"), eventType, data)

	case source == "linkedin":
		if adID == "" {
			break
		}
		s.appendEvent(ctx, adID, "linkedin_event", body)

	case source == "twitter":
		eventType := "twitter_event"
		if data, ok := body["data"].(map[string]any); ok {
			if t := firstString(data, "type"); t != "" {
				eventType = t
			}
		}
		if adID == "" {
			break
		}
		s.appendEvent(ctx, adID, eventType, body)

	default:
		s.log.Debug("unattributed ad event", zap.String("source", source))
	}
	return nil
}

func (s *Service) ListAds(ctx context.Context) ([]domain.Ad, error) {
	return s.repo.List(ctx, s.db)
}

func (s *Service) Events(ctx context.Context, adID string) ([]domain.AdEvent, error) {
	return s.repo.ListEvents(ctx, s.db, strings.TrimSpace(adID), 0)
}

// Performance aggregates metric-bearing events into a summary. Summaries are
// cached briefly because dashboards poll this endpoint.
func (s *Service) Performance(ctx context.Context, rawID string) (*domain.Performance, error) {
	id, err := parseID(rawID)
	if err != nil {
		return nil, domain.ErrAdNotFound
	}
	ad, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if ad == nil {
		return nil, domain.ErrAdNotFound
	}

	adID := ad.ID.String()
	recent, err := s.repo.ListEvents(ctx, s.db, adID, performanceEventWindow)
	if err != nil {
		return nil, err
	}

	summary, ok := s.performanceCache.Get(adID)
	if !ok {
		summary = summarize(recent)
		s.performanceCache.Set(adID, summary, performanceCacheTTL)
	}

	shown := recent
	if len(shown) > performanceEventsShown {
		shown = shown[:performanceEventsShown]
	}
	return &domain.Performance{Ad: ad, Events: shown, Summary: summary}, nil
}

func summarize(recent []domain.AdEvent) domain.PerformanceSummary {
	var summary domain.PerformanceSummary
	for _, event := range recent {
		var data map[string]any
		if len(event.Data) == 0 || json.Unmarshal(event.Data, &data) != nil {
			continue
		}
		summary.Impressions += int64(numberField(data, "impressions"))
		summary.Clicks += int64(numberField(data, "clicks"))
		summary.Spend += numberField(data, "spend")
	}
	if summary.Impressions > 0 && summary.Clicks > 0 {
		summary.CTR = float64(summary.Clicks) / float64(summary.Impressions) * 100
	}
	if summary.Clicks > 0 && summary.Spend > 0 {
		summary.CPC = summary.Spend / float64(summary.Clicks)
	}
	return summary
}

func (s *Service) newDraft(name, platform, objective string, budget float64) *domain.Ad {
	if strings.TrimSpace(objective) == "" {
		objective = defaultObjective
	}
	return &domain.Ad{
		ID:        s.genID.Generate(),
		Name:      name,
		Platform:  strings.ToLower(strings.TrimSpace(platform)),
		Objective: objective,
		Budget:    budget,
		Status:    domain.AdStatusDraft,
		CreatedAt: s.clock.Now(),
	}
}

func (s *Service) appendEvent(ctx context.Context, adID, eventType string, data map[string]any) {
	dataJSON, err := json.Marshal(data)
	if err != nil {
		s.log.Warn("marshal ad event", zap.Error(err))
		return
	}
	event := &domain.AdEvent{
		ID:        s.genID.Generate(),
		AdID:      adID,
		EventType: eventType,
		Data:      datatypes.JSON(dataJSON),
		CreatedAt: s.clock.Now(),
	}
	if err := s.repo.AppendEvent(ctx, s.db, event); err != nil {
		s.log.Warn("append ad event",
			zap.String("ad_id", adID),
			zap.String("event_type", eventType),
			zap.Error(err))
	}
}

func payloadMap(ad *domain.Ad) map[string]any {
	if len(ad.Payload) == 0 {
		return nil
	}
	var payload map[string]any
	if err := json.Unmarshal(ad.Payload, &payload); err != nil {
		return nil
	}
	return payload
}

func parseID(raw string) (snowflake.ID, error) {
	parsed, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, err
	}
	return snowflake.ParseInt64(parsed), nil
}

func firstString(m map[string]any, keys ...string) string {
	for _, key := range keys {
		if value, ok := m[key].(string); ok && value != "" {
			return value
		}
	}
	return ""
}

func numberField(m map[string]any, key string) float64 {
	switch value := m[key].(type) {
	case float64:
		return value
	case int:
		return float64(value)
	case int64:
		return float64(value)
	case json.Number:
		parsed, err := value.Float64()
		if err == nil {
			return parsed
		}
	}
	return 0
}
