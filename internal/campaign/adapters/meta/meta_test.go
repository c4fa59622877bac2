package meta

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/regobertatangangwatangie-eng/farmpro/internal/campaign/domain"
	"github.com/regobertatangangwatangie-eng/farmpro/internal/config"
)

func newTestAdapter(baseURL string) *Adapter {
	return New(config.MetaConfig{
		AccessToken: "token-123",
		AdAccountID: "999",
		PageID:      "42",
		BaseURL:     baseURL,
	}, "https://farmpro.local")
}

func TestCreateCampaignSendsGraphParams(t *testing.T) {
	var gotPath string
	var gotQuery map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		w.Write([]byte(`{"id":"camp_1"}`))
	}))
	defer server.Close()

	a := newTestAdapter(server.URL)
	a.SetHTTPClient(server.Client())

	id, err := a.CreateCampaign(context.Background(), "Harvest Promo", "BRAND_AWARENESS")
	if err != nil {
		t.Fatalf("create campaign: %v", err)
	}
	if id != "camp_1" {
		t.Fatalf("id = %q, want camp_1", id)
	}
	if gotPath != "/act_999/campaigns" {
		t.Fatalf("path = %q", gotPath)
	}
	for key, want := range map[string]string{
		"name":         "Harvest Promo",
		"objective":    "BRAND_AWARENESS",
		"status":       "PAUSED",
		"access_token": "token-123",
	} {
		if len(gotQuery[key]) != 1 || gotQuery[key][0] != want {
			t.Fatalf("query[%s] = %v, want %s", key, gotQuery[key], want)
		}
	}
}

func TestCreateAdSetDefaultsTargeting(t *testing.T) {
	var gotQuery map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`{"id":"set_1"}`))
	}))
	defer server.Close()

	a := newTestAdapter(server.URL)
	a.SetHTTPClient(server.Client())

	id, err := a.CreateAdSet(context.Background(), "camp_1", domain.AdSetSpec{
		Name:             "Harvest Promo-adset",
		DailyBudgetMinor: 1000,
	})
	if err != nil {
		t.Fatalf("create adset: %v", err)
	}
	if id != "set_1" {
		t.Fatalf("id = %q, want set_1", id)
	}
	if got := gotQuery["daily_budget"]; len(got) != 1 || got[0] != "1000" {
		t.Fatalf("daily_budget = %v", got)
	}
	if got := gotQuery["targeting"]; len(got) != 1 || got[0] != `{"geo_locations":[{"country":"CM"}]}` {
		t.Fatalf("targeting = %v", got)
	}
}

func TestPostErrorSurfacesProviderBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"Invalid objective"}}`))
	}))
	defer server.Close()

	a := newTestAdapter(server.URL)
	a.SetHTTPClient(server.Client())

	_, err := a.CreateCampaign(context.Background(), "Harvest Promo", "BOGUS")
	if err == nil {
		t.Fatal("expected provider error")
	}
	var provider *domain.ProviderError
	if !errors.As(err, &provider) {
		t.Fatalf("err = %T, want ProviderError", err)
	}
	if provider.Platform != "meta" || provider.Details != `{"error":{"message":"Invalid objective"}}` {
		t.Fatalf("provider = %+v", provider)
	}
}

func TestConfigured(t *testing.T) {
	if newTestAdapter("http://unused").Configured() != true {
		t.Fatal("adapter with credentials should report configured")
	}
	missing := New(config.MetaConfig{AdAccountID: "999"}, "")
	if missing.Configured() {
		t.Fatal("adapter without access token should not report configured")
	}
}
