package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/regobertatangangwatangie-eng/farmpro/internal/campaign/domain"
	"gorm.io/gorm"
)

type gormRepository struct{}

// Provide constructs the gorm-backed campaign repository.
func Provide() domain.Repository {
	return &gormRepository{}
}

func (r *gormRepository) Insert(ctx context.Context, db *gorm.DB, ad *domain.Ad) error {
	return db.WithContext(ctx).Create(ad).Error
}

func (r *gormRepository) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Ad, error) {
	var ad domain.Ad
	err := db.WithContext(ctx).First(&ad, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ad, nil
}

func (r *gormRepository) List(ctx context.Context, db *gorm.DB) ([]domain.Ad, error) {
	var ads []domain.Ad
	err := db.WithContext(ctx).
		Order("created_at DESC").
		Find(&ads).Error
	if err != nil {
		return nil, err
	}
	return ads, nil
}

func (r *gormRepository) AppendEvent(ctx context.Context, db *gorm.DB, event *domain.AdEvent) error {
	return db.WithContext(ctx).Create(event).Error
}

func (r *gormRepository) ListEvents(ctx context.Context, db *gorm.DB, adID string, limit int) ([]domain.AdEvent, error) {
	query := db.WithContext(ctx).
		Where("ad_id = ?", adID).
		Order("created_at DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var events []domain.AdEvent
	if err := query.Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}
