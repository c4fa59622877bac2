package domain

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Platform identifies an external advertising platform. The set is closed;
// anything unrecognized maps to PlatformUnknown rather than falling through.
type Platform string

const (
	PlatformMeta      Platform = "meta"
	PlatformGoogleAds Platform = "google_ads"
	PlatformLinkedIn  Platform = "linkedin"
	PlatformTwitter   Platform = "twitter"
	PlatformUnknown   Platform = "unknown"
)

// ParsePlatform normalizes a raw platform name. Facebook and Instagram are
// aliases for the Meta Marketing API.
func ParsePlatform(raw string) Platform {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "meta", "facebook", "instagram":
		return PlatformMeta
	case "google_ads", "google":
		return PlatformGoogleAds
	case "linkedin":
		return PlatformLinkedIn
	case "twitter", "x":
		return PlatformTwitter
	default:
		return PlatformUnknown
	}
}

// AdStatus is the persisted campaign outcome.
type AdStatus string

const (
	AdStatusDraft   AdStatus = "draft"
	AdStatusCreated AdStatus = "created"
	AdStatusError   AdStatus = "error"
)

// Ad is one campaign record. A pipeline run mutates it exactly once: the
// persisted row reflects the last known outcome, including partial payloads
// from runs that failed midway.
type Ad struct {
	ID         snowflake.ID   `gorm:"primaryKey" json:"id"`
	Name       string         `gorm:"type:text;not null" json:"name"`
	Platform   string         `gorm:"type:text;not null" json:"platform"`
	Objective  string         `gorm:"type:text;not null" json:"objective"`
	Budget     float64        `gorm:"not null" json:"budget"`
	Status     AdStatus       `gorm:"type:text;not null" json:"status"`
	ProviderID *string        `gorm:"type:text" json:"provider_id,omitempty"`
	Payload    datatypes.JSON `gorm:"type:text" json:"payload,omitempty"`
	CreatedAt  time.Time      `gorm:"not null" json:"created_at"`
}

// TableName sets the database table name.
func (Ad) TableName() string { return "ads" }

// AdEvent is one immutable entry in the campaign event log. AdID is a string
// because external webhooks may reference provider-side campaign ids rather
// than local ones.
type AdEvent struct {
	ID        snowflake.ID   `gorm:"primaryKey" json:"id"`
	AdID      string         `gorm:"type:text;not null;index" json:"ad_id"`
	EventType string         `gorm:"type:text;not null" json:"event_type"`
	Data      datatypes.JSON `gorm:"type:text" json:"data,omitempty"`
	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
}

// TableName sets the database table name.
func (AdEvent) TableName() string { return "ad_events" }
