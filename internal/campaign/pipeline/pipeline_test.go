package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/regobertatangangwatangie-eng/farmpro/internal/campaign/domain"
	"github.com/regobertatangangwatangie-eng/farmpro/internal/campaign/repository"
	"github.com/regobertatangangwatangie-eng/farmpro/internal/clock"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type fakeStepAdapter struct {
	campaignID string
	adSetID    string
	creativeID string
	adID       string

	failStep     string
	failuresLeft int

	calls map[string]int
}

func (f *fakeStepAdapter) Name() string     { return "meta" }
func (f *fakeStepAdapter) Configured() bool { return true }

func (f *fakeStepAdapter) step(step, id string) (string, error) {
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[step]++
	if step == f.failStep && f.failuresLeft != 0 {
		if f.failuresLeft > 0 {
			f.failuresLeft--
		}
		return "", fmt.Errorf("%s unavailable", step)
	}
	return id, nil
}

func (f *fakeStepAdapter) CreateCampaign(_ context.Context, _, _ string) (string, error) {
	return f.step("campaign", f.campaignID)
}

func (f *fakeStepAdapter) CreateAdSet(_ context.Context, _ string, _ domain.AdSetSpec) (string, error) {
	return f.step("adset", f.adSetID)
}

func (f *fakeStepAdapter) CreateCreative(_ context.Context, _ domain.CreativeSpec) (string, error) {
	return f.step("creative", f.creativeID)
}

func (f *fakeStepAdapter) CreateAd(_ context.Context, _, _ string) (string, error) {
	return f.step("ad", f.adID)
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

func newTestPipeline(t *testing.T, db *gorm.DB) *Pipeline {
	t.Helper()
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake: %v", err)
	}
	p := New(db, zap.NewNop(), node, clock.Fixed{At: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}, repository.Provide())
	p.baseDelay = time.Millisecond
	return p
}

func newDraft(t *testing.T, p *Pipeline) *domain.Ad {
	t.Helper()
	return &domain.Ad{
		ID:        p.genID.Generate(),
		Name:      "Harvest Promo",
		Platform:  "meta",
		Objective: "BRAND_AWARENESS",
		Budget:    10,
		Status:    domain.AdStatusDraft,
		CreatedAt: p.clock.Now(),
	}
}

func payloadOf(t *testing.T, ad *domain.Ad) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.Unmarshal(ad.Payload, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	return payload
}

func TestRunPersistsCreatedAdWithFullPayload(t *testing.T) {
	db := setupTestDB(t)
	p := newTestPipeline(t, db)
	adapter := &fakeStepAdapter{campaignID: "c1", adSetID: "s1", creativeID: "cr1", adID: "a1"}

	ad := newDraft(t, p)
	if err := p.Run(context.Background(), ad, adapter, domain.CreateFullAdRequest{DailyBudget: 10}); err != nil {
		t.Fatalf("run: %v", err)
	}

	stored, err := p.repo.FindByID(context.Background(), db, ad.ID)
	if err != nil || stored == nil {
		t.Fatalf("find ad: %v", err)
	}
	if stored.Status != domain.AdStatusCreated {
		t.Fatalf("status = %q, want created", stored.Status)
	}
	if stored.ProviderID == nil || *stored.ProviderID != "a1" {
		t.Fatalf("provider id = %v, want a1", stored.ProviderID)
	}

	payload := payloadOf(t, stored)
	want := map[string]string{"campaign_id": "c1", "adset_id": "s1", "creative_id": "cr1", "ad_id": "a1"}
	for key, value := range want {
		if payload[key] != value {
			t.Fatalf("payload[%s] = %v, want %s", key, payload[key], value)
		}
	}

	logged, err := p.repo.ListEvents(context.Background(), db, ad.ID.String(), 0)
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(logged) != 4 {
		t.Fatalf("got %d events, want 4", len(logged))
	}
}

func TestRunMidwayFailureKeepsPartialPayload(t *testing.T) {
	db := setupTestDB(t)
	p := newTestPipeline(t, db)
	adapter := &fakeStepAdapter{
		campaignID: "c1", adSetID: "s1", creativeID: "cr1", adID: "a1",
		failStep: "creative", failuresLeft: -1,
	}

	ad := newDraft(t, p)
	err := p.Run(context.Background(), ad, adapter, domain.CreateFullAdRequest{DailyBudget: 10})
	if err == nil {
		t.Fatal("expected step error")
	}

	stored, findErr := p.repo.FindByID(context.Background(), db, ad.ID)
	if findErr != nil || stored == nil {
		t.Fatalf("find ad: %v", findErr)
	}
	if stored.Status != domain.AdStatusError {
		t.Fatalf("status = %q, want error", stored.Status)
	}
	if stored.ProviderID != nil {
		t.Fatalf("provider id = %v, want nil", stored.ProviderID)
	}

	payload := payloadOf(t, stored)
	if payload["campaign_id"] != "c1" || payload["adset_id"] != "s1" {
		t.Fatalf("payload missing completed steps: %v", payload)
	}
	if _, ok := payload["creative_id"]; ok {
		t.Fatalf("payload carries id for failed step: %v", payload)
	}
	if adapter.calls["ad"] != 0 {
		t.Fatal("ad step ran after creative failure")
	}

	logged, listErr := p.repo.ListEvents(context.Background(), db, ad.ID.String(), 0)
	if listErr != nil {
		t.Fatalf("list events: %v", listErr)
	}
	var sawError bool
	for _, event := range logged {
		if event.EventType == "error" {
			sawError = true
		}
	}
	if !sawError {
		t.Fatal("no error event logged")
	}
}

func TestRunRetriesTransientStepFailures(t *testing.T) {
	db := setupTestDB(t)
	p := newTestPipeline(t, db)
	adapter := &fakeStepAdapter{
		campaignID: "c1", adSetID: "s1", creativeID: "cr1", adID: "a1",
		failStep: "campaign", failuresLeft: 2,
	}

	ad := newDraft(t, p)
	if err := p.Run(context.Background(), ad, adapter, domain.CreateFullAdRequest{DailyBudget: 10}); err != nil {
		t.Fatalf("run: %v", err)
	}
	if adapter.calls["campaign"] != 3 {
		t.Fatalf("campaign attempts = %d, want 3", adapter.calls["campaign"])
	}
}

func TestRunReturnsLastStepError(t *testing.T) {
	db := setupTestDB(t)
	p := newTestPipeline(t, db)
	adapter := &fakeStepAdapter{
		campaignID: "c1", adSetID: "s1", creativeID: "cr1", adID: "a1",
		failStep: "adset", failuresLeft: -1,
	}

	ad := newDraft(t, p)
	err := p.Run(context.Background(), ad, adapter, domain.CreateFullAdRequest{DailyBudget: 10})
	if err == nil {
		t.Fatal("expected step error")
	}
	if err.Error() != "adset unavailable" {
		t.Fatalf("err = %q, want the last step error", err)
	}
	if adapter.calls["adset"] != 3 {
		t.Fatalf("adset attempts = %d, want 3", adapter.calls["adset"])
	}
}
