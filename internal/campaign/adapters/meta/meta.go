// Package meta drives the Meta Marketing API, which requires a dependent
// chain of object creations: campaign, ad set, creative, then ad. Every
// object is created PAUSED so nothing spends until the operator activates it.
package meta

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/regobertatangangwatangie-eng/farmpro/internal/campaign/domain"
	"github.com/regobertatangangwatangie-eng/farmpro/internal/config"
)

const name = "meta"

// defaultTargeting is applied when the caller supplies none.
var defaultTargeting = map[string]any{
	"geo_locations": []map[string]any{{"country": "CM"}},
}

// Adapter exposes the four Graph API operations as independent calls; the
// pipeline owns retry and sequencing.
type Adapter struct {
	accessToken string
	adAccountID string
	pageID      string
	baseURL     string
	siteURL     string
	httpClient  *http.Client
}

func New(cfg config.MetaConfig, siteURL string) *Adapter {
	return &Adapter{
		accessToken: cfg.AccessToken,
		adAccountID: cfg.AdAccountID,
		pageID:      cfg.PageID,
		baseURL:     cfg.BaseURL,
		siteURL:     siteURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetHTTPClient overrides the HTTP client, used for instrumentation and tests.
func (a *Adapter) SetHTTPClient(client *http.Client) { a.httpClient = client }

func (a *Adapter) Name() string { return name }

// Configured reports whether the Marketing API credentials are present.
func (a *Adapter) Configured() bool {
	return a.accessToken != "" && a.adAccountID != ""
}

func (a *Adapter) CreateCampaign(ctx context.Context, campaignName, objective string) (string, error) {
	params := url.Values{}
	params.Set("name", campaignName)
	params.Set("objective", objective)
	params.Set("status", "PAUSED")
	return a.post(ctx, "/act_"+a.adAccountID+"/campaigns", params)
}

func (a *Adapter) CreateAdSet(ctx context.Context, campaignID string, spec domain.AdSetSpec) (string, error) {
	targeting := spec.Targeting
	if len(targeting) == 0 {
		targeting = defaultTargeting
	}
	targetingJSON, err := json.Marshal(targeting)
	if err != nil {
		return "", err
	}

	params := url.Values{}
	params.Set("name", spec.Name)
	params.Set("campaign_id", campaignID)
	params.Set("daily_budget", strconv.FormatInt(spec.DailyBudgetMinor, 10))
	params.Set("targeting", string(targetingJSON))
	params.Set("status", "PAUSED")
	return a.post(ctx, "/"+campaignID+"/adsets", params)
}

func (a *Adapter) CreateCreative(ctx context.Context, spec domain.CreativeSpec) (string, error) {
	storySpec, err := json.Marshal(map[string]any{
		"page_id": a.pageID,
		"link_data": map[string]any{
			"message":    spec.Body,
			"link":       a.siteURL,
			"image_hash": spec.ImageRef,
		},
	})
	if err != nil {
		return "", err
	}

	params := url.Values{}
	params.Set("name", spec.Title)
	params.Set("object_story_spec", string(storySpec))
	return a.post(ctx, "/act_"+a.adAccountID+"/adcreatives", params)
}

func (a *Adapter) CreateAd(ctx context.Context, adSetID, creativeID string) (string, error) {
	creative, err := json.Marshal(map[string]string{"creative_id": creativeID})
	if err != nil {
		return "", err
	}

	params := url.Values{}
	params.Set("adset_id", adSetID)
	params.Set("creative", string(creative))
	params.Set("status", "PAUSED")
	return a.post(ctx, "/act_"+a.adAccountID+"/ads", params)
}

type createResponse struct {
	ID string `json:"id"`
}

// post issues one Graph API call and returns the created object id. The
// provider's error body is surfaced untouched.
func (a *Adapter) post(ctx context.Context, path string, params url.Values) (string, error) {
	params.Set("access_token", a.accessToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return "", err
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", domain.NewProviderError(name, "", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", domain.NewProviderError(name, "", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", domain.NewProviderError(name, string(body), nil)
	}

	var parsed createResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", domain.NewProviderError(name, string(body), err)
	}
	if parsed.ID == "" {
		return "", domain.NewProviderError(name, string(body), nil)
	}
	return parsed.ID, nil
}
