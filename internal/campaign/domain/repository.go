package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Repository persists ads and their append-only event log.
type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, ad *Ad) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Ad, error)
	// List returns ads ordered by creation time, newest first.
	List(ctx context.Context, db *gorm.DB) ([]Ad, error)
	AppendEvent(ctx context.Context, db *gorm.DB, event *AdEvent) error
	// ListEvents returns an ad's events newest first, bounded by limit.
	ListEvents(ctx context.Context, db *gorm.DB, adID string, limit int) ([]AdEvent, error)
}
