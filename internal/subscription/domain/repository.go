package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Repository persists subscriptions and their append-only event log.
type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, sub *Subscription) error
	// UpdateStatus transitions a pending subscription; the activation
	// timestamp is set iff the new status is active. Rows already in a
	// terminal state are left untouched.
	UpdateStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, status Status, at time.Time) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Subscription, error)
	// List returns subscriptions ordered by creation time, newest first.
	List(ctx context.Context, db *gorm.DB) ([]Subscription, error)
	AppendEvent(ctx context.Context, db *gorm.DB, event *PaymentEvent) error
	ListEvents(ctx context.Context, db *gorm.DB, subscriptionID snowflake.ID) ([]PaymentEvent, error)
}
