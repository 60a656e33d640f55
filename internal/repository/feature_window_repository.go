package repository

import (
	"context"

	"github.com/affectsense/wearable-affect/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FeatureWindowRepository persists feature windows, append-only.
type FeatureWindowRepository interface {
	Save(ctx context.Context, window *domain.FeatureWindow) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.FeatureWindow, error)
}

type featureWindowRepository struct {
	db *gorm.DB
}

func NewFeatureWindowRepository(db *gorm.DB) FeatureWindowRepository {
	return &featureWindowRepository{db: db}
}

func (r *featureWindowRepository) Save(ctx context.Context, window *domain.FeatureWindow) error {
	return r.db.WithContext(ctx).Create(window).Error
}

func (r *featureWindowRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.FeatureWindow, error) {
	var fw domain.FeatureWindow
	err := r.db.WithContext(ctx).First(&fw, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &fw, nil
}
