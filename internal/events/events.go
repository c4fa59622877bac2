package events

// Payment event types recorded against subscriptions.
const (
	PaymentCreated         = "created"
	PaymentWebhookReceived = "webhook_received"
	PaymentPaid            = "paid"
	PaymentFailed          = "failed"
)

// Ad event types recorded against campaigns during pipeline runs.
const (
	AdCampaignCreated = "campaign_created"
	AdSetCreated      = "adset_created"
	AdCreativeCreated = "creative_created"
	AdCreated         = "ad_created"
	AdCreateFailed    = "ad_create_failed"
	AdError           = "error"
	AdPaymentSuccess  = "payment_success"
	AdPaystackPayment = "paystack_payment"
)

// StepPayload captures the external ids accumulated by a pipeline run.
type StepPayload struct {
	CampaignID string `json:"campaign_id,omitempty"`
	AdSetID    string `json:"adset_id,omitempty"`
	CreativeID string `json:"creative_id,omitempty"`
	AdID       string `json:"ad_id,omitempty"`
}

// ToMap converts a step payload into an event-log-friendly map.
func (p StepPayload) ToMap() map[string]any {
	payload := map[string]any{}
	if p.CampaignID != "" {
		payload["campaign_id"] = p.CampaignID
	}
	if p.AdSetID != "" {
		payload["adset_id"] = p.AdSetID
	}
	if p.CreativeID != "" {
		payload["creative_id"] = p.CreativeID
	}
	if p.AdID != "" {
		payload["ad_id"] = p.AdID
	}
	return payload
}
