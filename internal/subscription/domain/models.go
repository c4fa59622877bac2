package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Status is the subscription lifecycle state. Subscriptions start pending and
// move exactly once, to active or failed, driven by gateway webhooks.
type Status string

const (
	StatusPending Status = "pending"
	StatusActive  Status = "active"
	StatusFailed  Status = "failed"
)

// Terminal reports whether no further transition is permitted.
func (s Status) Terminal() bool {
	return s == StatusActive || s == StatusFailed
}

// Subscription is one purchased plan awaiting or holding payment.
type Subscription struct {
	ID                  snowflake.ID   `gorm:"primaryKey" json:"id"`
	PlanID              string         `gorm:"type:text;not null" json:"plan_id"`
	PlanName            string         `gorm:"type:text;not null" json:"plan_name"`
	AmountUSD           float64        `gorm:"not null" json:"amount_usd"`
	CustomerName        string         `gorm:"type:text;not null" json:"customer_name"`
	CustomerEmail       *string        `gorm:"type:text" json:"customer_email,omitempty"`
	Status              Status         `gorm:"type:text;not null" json:"status"`
	PaymentMethod       string         `gorm:"type:text;not null" json:"payment_method"`
	PaymentProvider     *string        `gorm:"type:text" json:"payment_provider,omitempty"`
	PaymentInstructions datatypes.JSON `gorm:"type:text" json:"payment_instructions,omitempty"`
	CreatedAt           time.Time      `gorm:"not null" json:"created_at"`
	ActivatedAt         *time.Time     `json:"activated_at,omitempty"`
}

// TableName sets the database table name.
func (Subscription) TableName() string { return "subscriptions" }

// PaymentEvent is one immutable entry in the payment event log. SubscriptionID
// is nil for webhooks that could not be correlated.
type PaymentEvent struct {
	ID             snowflake.ID   `gorm:"primaryKey" json:"id"`
	SubscriptionID *snowflake.ID  `gorm:"index" json:"subscription_id,omitempty"`
	EventType      string         `gorm:"type:text;not null" json:"event_type"`
	Payload        datatypes.JSON `gorm:"type:text" json:"payload,omitempty"`
	CreatedAt      time.Time      `gorm:"not null" json:"created_at"`
}

// TableName sets the database table name.
func (PaymentEvent) TableName() string { return "payment_events" }
