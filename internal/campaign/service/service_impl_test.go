package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/regobertatangangwatangie-eng/farmpro/internal/cache"
	"github.com/regobertatangangwatangie-eng/farmpro/internal/campaign/adapters"
	"github.com/regobertatangangwatangie-eng/farmpro/internal/campaign/adapters/stub"
	"github.com/regobertatangangwatangie-eng/farmpro/internal/campaign/dispatch"
	"github.com/regobertatangangwatangie-eng/farmpro/internal/campaign/domain"
	"github.com/regobertatangangwatangie-eng/farmpro/internal/campaign/pipeline"
	"github.com/regobertatangangwatangie-eng/farmpro/internal/campaign/repository"
	"github.com/regobertatangangwatangie-eng/farmpro/internal/clock"
	"github.com/regobertatangangwatangie-eng/farmpro/internal/events"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type fakeStepAdapter struct {
	configured bool
	campaignID string
	err        error
	calls      int
}

func (f *fakeStepAdapter) Name() string     { return "meta" }
func (f *fakeStepAdapter) Configured() bool { return f.configured }

func (f *fakeStepAdapter) CreateCampaign(_ context.Context, _, _ string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.campaignID, nil
}

func (f *fakeStepAdapter) CreateAdSet(_ context.Context, _ string, _ domain.AdSetSpec) (string, error) {
	return "set_1", nil
}

func (f *fakeStepAdapter) CreateCreative(_ context.Context, _ domain.CreativeSpec) (string, error) {
	return "creative_1", nil
}

func (f *fakeStepAdapter) CreateAd(_ context.Context, _, _ string) (string, error) {
	return "ad_1", nil
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&domain.Ad{}, &domain.AdEvent{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newTestService(t *testing.T, db *gorm.DB, step domain.StepAdapter) *Service {
	t.Helper()
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake: %v", err)
	}
	clk := clock.Fixed{At: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	log := zap.NewNop()
	repo := repository.Provide()

	registry := adapters.NewRegistry().
		RegisterSimple(domain.PlatformGoogleAds, stub.NewGoogleAds()).
		RegisterSimple(domain.PlatformLinkedIn, stub.NewLinkedIn()).
		RegisterSimple(domain.PlatformTwitter, stub.NewTwitter())
	if step != nil {
		registry.RegisterStep(domain.PlatformMeta, step)
	}

	pl := pipeline.New(db, log, node, clk, repo)
	pl.SetRetryPolicy(2, time.Millisecond)

	return &Service{
		db:               db,
		log:              log,
		genID:            node,
		clock:            clk,
		repo:             repo,
		registry:         registry,
		pipeline:         pl,
		dispatcher:       dispatch.New(log),
		performanceCache: cache.NewTTLCache[string, domain.PerformanceSummary](),
		attempts:         2,
		baseDelay:        time.Millisecond,
	}
}

func adEvents(t *testing.T, db *gorm.DB, adID string) []domain.AdEvent {
	t.Helper()
	var rows []domain.AdEvent
	if err := db.Where("ad_id = ?", adID).Find(&rows).Error; err != nil {
		t.Fatalf("load events: %v", err)
	}
	return rows
}

func TestCreateAdMissingFields(t *testing.T) {
	s := newTestService(t, setupTestDB(t), nil)

	if _, err := s.CreateAd(context.Background(), domain.CreateAdRequest{Platform: "meta"}); !errors.Is(err, domain.ErrMissingFields) {
		t.Fatalf("err = %v, want ErrMissingFields", err)
	}
	if _, err := s.CreateAd(context.Background(), domain.CreateAdRequest{Name: "Harvest Promo"}); !errors.Is(err, domain.ErrMissingFields) {
		t.Fatalf("err = %v, want ErrMissingFields", err)
	}
}

func TestCreateAdStoresDraftForStubPlatform(t *testing.T) {
	db := setupTestDB(t)
	s := newTestService(t, db, nil)

	result, err := s.CreateAd(context.Background(), domain.CreateAdRequest{Name: "Harvest Promo", Platform: "google_ads"})
	if err != nil {
		t.Fatalf("create ad: %v", err)
	}
	if result.Note != "stored_as_draft" {
		t.Fatalf("note = %q, want stored_as_draft", result.Note)
	}
	if result.Ad.Status != domain.AdStatusDraft {
		t.Fatalf("status = %q, want draft", result.Ad.Status)
	}
	if result.Ad.Objective != "BRAND_AWARENESS" {
		t.Fatalf("objective = %q, want default", result.Ad.Objective)
	}

	stored, err := s.repo.FindByID(context.Background(), db, result.Ad.ID)
	if err != nil || stored == nil {
		t.Fatalf("draft not persisted: %v", err)
	}
}

func TestCreateAdUnconfiguredPlatformNotes(t *testing.T) {
	db := setupTestDB(t)
	s := newTestService(t, db, &fakeStepAdapter{configured: false})

	result, err := s.CreateAd(context.Background(), domain.CreateAdRequest{Name: "Harvest Promo", Platform: "facebook"})
	if err != nil {
		t.Fatalf("create ad: %v", err)
	}
	if result.Note != "meta_not_configured" {
		t.Fatalf("note = %q, want meta_not_configured", result.Note)
	}
	if result.Ad.Status != domain.AdStatusDraft {
		t.Fatalf("status = %q, want draft", result.Ad.Status)
	}
}

func TestCreateAdConfiguredPlatformCreatesCampaign(t *testing.T) {
	db := setupTestDB(t)
	s := newTestService(t, db, &fakeStepAdapter{configured: true, campaignID: "camp_1"})

	result, err := s.CreateAd(context.Background(), domain.CreateAdRequest{Name: "Harvest Promo", Platform: "meta"})
	if err != nil {
		t.Fatalf("create ad: %v", err)
	}
	if result.Ad.Status != domain.AdStatusCreated {
		t.Fatalf("status = %q, want created", result.Ad.Status)
	}
	if result.Ad.ProviderID == nil || *result.Ad.ProviderID != "camp_1" {
		t.Fatalf("provider id = %v, want camp_1", result.Ad.ProviderID)
	}

	logged := adEvents(t, db, result.Ad.ID.String())
	if len(logged) != 1 || logged[0].EventType != events.AdCampaignCreated {
		t.Fatalf("events = %+v, want one campaign_created", logged)
	}
}

func TestCreateAdProviderFailurePersistsErrorRecord(t *testing.T) {
	db := setupTestDB(t)
	s := newTestService(t, db, &fakeStepAdapter{configured: true, err: errors.New("campaign rejected")})

	result, err := s.CreateAd(context.Background(), domain.CreateAdRequest{Name: "Harvest Promo", Platform: "meta"})
	if err == nil {
		t.Fatal("expected provider error")
	}
	if result == nil || result.Ad.Status != domain.AdStatusError {
		t.Fatalf("result = %+v, want persisted error record", result)
	}

	logged := adEvents(t, db, result.Ad.ID.String())
	if len(logged) != 1 || logged[0].EventType != events.AdCreateFailed {
		t.Fatalf("events = %+v, want one ad_create_failed", logged)
	}
}

func TestCreateFullAdPartialFailureReturnsRecord(t *testing.T) {
	db := setupTestDB(t)
	adapter := &failAfterCampaign{campaignID: "camp_1"}
	s := newTestService(t, db, adapter)

	result, err := s.CreateFullAd(context.Background(), domain.CreateFullAdRequest{Name: "Harvest Promo", Platform: "meta"})
	if err == nil {
		t.Fatal("expected pipeline error")
	}
	if result == nil || result.Ad == nil {
		t.Fatal("partial failure must still return the persisted ad")
	}
	if result.Ad.Status != domain.AdStatusError {
		t.Fatalf("status = %q, want error", result.Ad.Status)
	}
	if result.Components["campaign_id"] != "camp_1" {
		t.Fatalf("components = %v, want completed campaign step", result.Components)
	}
	if _, ok := result.Components["adset_id"]; ok {
		t.Fatalf("components carry id for failed step: %v", result.Components)
	}
}

func TestCreateFullAdUnknownPlatformStoresDraft(t *testing.T) {
	db := setupTestDB(t)
	s := newTestService(t, db, nil)

	result, err := s.CreateFullAd(context.Background(), domain.CreateFullAdRequest{Name: "Harvest Promo", Platform: "myspace"})
	if err != nil {
		t.Fatalf("create full ad: %v", err)
	}
	if result.Note != "stored_as_draft" {
		t.Fatalf("note = %q, want stored_as_draft", result.Note)
	}
	if result.Ad.Budget != 10 {
		t.Fatalf("budget = %v, want default 10", result.Ad.Budget)
	}
}

func TestMultiPlatformAggregatesOutcomes(t *testing.T) {
	db := setupTestDB(t)
	s := newTestService(t, db, &fakeStepAdapter{configured: false})

	result, err := s.MultiPlatform(context.Background(), domain.MultiPlatformRequest{
		Name:      "Harvest Promo",
		Platforms: []string{"meta", "google_ads", "tiktok"},
	})
	if err != nil {
		t.Fatalf("multi platform: %v", err)
	}
	if len(result.Results) != 3 {
		t.Fatalf("got %d results, want 3", len(result.Results))
	}

	metaOutcome := result.Results["meta"]
	if metaOutcome.Status != "draft" || metaOutcome.Note != "not_configured" {
		t.Fatalf("meta outcome = %+v, want unconfigured draft", metaOutcome)
	}

	googleOutcome := result.Results["google_ads"]
	if googleOutcome.Status != "draft" || googleOutcome.ProviderID == nil {
		t.Fatalf("google outcome = %+v, want draft with synthetic id", googleOutcome)
	}

	if result.Results["tiktok"].Status != "unknown" {
		t.Fatalf("tiktok outcome = %+v, want unknown", result.Results["tiktok"])
	}
	if result.Errors != nil {
		t.Fatalf("errors = %v, want none", result.Errors)
	}
}

func TestMultiPlatformFailureIsolated(t *testing.T) {
	db := setupTestDB(t)
	adapter := &fakeStepAdapter{configured: true, err: errors.New("campaign rejected")}
	s := newTestService(t, db, adapter)

	result, err := s.MultiPlatform(context.Background(), domain.MultiPlatformRequest{
		Name:      "Harvest Promo",
		Platforms: []string{"meta", "twitter"},
	})
	if err != nil {
		t.Fatalf("multi platform: %v", err)
	}
	if result.Errors["meta"] != "campaign rejected" {
		t.Fatalf("errors = %v, want meta failure", result.Errors)
	}
	if result.Results["twitter"].Status != "draft" {
		t.Fatalf("twitter outcome = %+v, unaffected draft expected", result.Results["twitter"])
	}
	if adapter.calls != 2 {
		t.Fatalf("campaign attempts = %d, want 2", adapter.calls)
	}
}

func TestIngestAdEventPaystackReference(t *testing.T) {
	db := setupTestDB(t)
	s := newTestService(t, db, nil)

	err := s.IngestAdEvent(context.Background(), domain.AdEventInput{
		Source: "paystack",
		Body: map[string]any{
			"event": "charge.success",
			"data":  map[string]any{"reference": "ad_12345", "amount": float64(500)},
		},
	})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}

	logged := adEvents(t, db, "12345")
	if len(logged) != 1 || logged[0].EventType != events.AdPaymentSuccess {
		t.Fatalf("events = %+v, want one payment_success", logged)
	}
}

func TestIngestAdEventUnattributedIsAcknowledged(t *testing.T) {
	db := setupTestDB(t)
	s := newTestService(t, db, nil)

	err := s.IngestAdEvent(context.Background(), domain.AdEventInput{
		Source: "somewhere",
		Body:   map[string]any{"hello": "world"},
	})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}

	var count int64
	if err := db.Model(&domain.AdEvent{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("got %d events, want none", count)
	}
}

func TestIngestAdEventMetaCampaign(t *testing.T) {
	db := setupTestDB(t)
	s := newTestService(t, db, nil)

	err := s.IngestAdEvent(context.Background(), domain.AdEventInput{
		Source: "meta",
		Body: map[string]any{
			"object":      "ad_campaign",
			"action":      "impressions",
			"campaign_id": "camp_77",
		},
	})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}

	logged := adEvents(t, db, "camp_77")
	if len(logged) != 1 || logged[0].EventType != "impressions" {
		t.Fatalf("events = %+v, want one impressions event", logged)
	}
}

func TestPerformanceAggregatesMetrics(t *testing.T) {
	db := setupTestDB(t)
	s := newTestService(t, db, nil)

	result, err := s.CreateAd(context.Background(), domain.CreateAdRequest{Name: "Harvest Promo", Platform: "google_ads"})
	if err != nil {
		t.Fatalf("create ad: %v", err)
	}
	adID := result.Ad.ID.String()

	for i, data := range []map[string]any{
		{"impressions": 1000, "clicks": 40, "spend": 12.5},
		{"impressions": 500, "clicks": 10, "spend": 7.5},
		{"note": "no metrics here"},
	} {
		dataJSON, _ := json.Marshal(data)
		event := &domain.AdEvent{
			ID:        s.genID.Generate(),
			AdID:      adID,
			EventType: "metrics",
			Data:      datatypes.JSON(dataJSON),
			CreatedAt: s.clock.Now().Add(time.Duration(i) * time.Second),
		}
		if err := s.repo.AppendEvent(context.Background(), db, event); err != nil {
			t.Fatalf("append event: %v", err)
		}
	}

	perf, err := s.Performance(context.Background(), adID)
	if err != nil {
		t.Fatalf("performance: %v", err)
	}
	if perf.Summary.Impressions != 1500 || perf.Summary.Clicks != 50 {
		t.Fatalf("summary = %+v", perf.Summary)
	}
	if perf.Summary.Spend != 20 {
		t.Fatalf("spend = %v, want 20", perf.Summary.Spend)
	}
	wantCTR := float64(50) / float64(1500) * 100
	if perf.Summary.CTR != wantCTR {
		t.Fatalf("ctr = %v, want %v", perf.Summary.CTR, wantCTR)
	}
	if perf.Summary.CPC != 0.4 {
		t.Fatalf("cpc = %v, want 0.4", perf.Summary.CPC)
	}
	if len(perf.Events) != 3 {
		t.Fatalf("got %d events, want 3", len(perf.Events))
	}
}

func TestPerformanceUnknownAd(t *testing.T) {
	s := newTestService(t, setupTestDB(t), nil)

	if _, err := s.Performance(context.Background(), "123456789"); !errors.Is(err, domain.ErrAdNotFound) {
		t.Fatalf("err = %v, want ErrAdNotFound", err)
	}
	if _, err := s.Performance(context.Background(), "not-a-number"); !errors.Is(err, domain.ErrAdNotFound) {
		t.Fatalf("err = %v, want ErrAdNotFound", err)
	}
}

type failAfterCampaign struct {
	campaignID string
}

func (f *failAfterCampaign) Name() string     { return "meta" }
func (f *failAfterCampaign) Configured() bool { return true }

func (f *failAfterCampaign) CreateCampaign(_ context.Context, _, _ string) (string, error) {
	return f.campaignID, nil
}

func (f *failAfterCampaign) CreateAdSet(_ context.Context, _ string, _ domain.AdSetSpec) (string, error) {
	return "", errors.New("adset rejected")
}

func (f *failAfterCampaign) CreateCreative(_ context.Context, _ domain.CreativeSpec) (string, error) {
	return "", errors.New("unreachable")
}

func (f *failAfterCampaign) CreateAd(_ context.Context, _, _ string) (string, error) {
	return "", errors.New("unreachable")
}
