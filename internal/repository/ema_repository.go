package repository

import (
	"context"
	"time"

	"github.com/affectsense/wearable-affect/internal/domain"
	"gorm.io/gorm"
)

// EMARepository stores self-report labels, append-only.
type EMARepository interface {
	Save(ctx context.Context, label *domain.EMALabel) error
	// CountToday counts labels stored during the UTC day containing now.
	CountToday(ctx context.Context, participantID string, now time.Time) (int, error)
	// GetByParticipant returns up to limit labels, most recent first.
	GetByParticipant(ctx context.Context, participantID string, limit int) ([]domain.EMALabel, error)
}

type emaRepository struct {
	db *gorm.DB
}

func NewEMARepository(db *gorm.DB) EMARepository {
	return &emaRepository{db: db}
}

func (r *emaRepository) Save(ctx context.Context, label *domain.EMALabel) error {
	return r.db.WithContext(ctx).Create(label).Error
}

func (r *emaRepository) CountToday(ctx context.Context, participantID string, now time.Time) (int, error) {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.AddDate(0, 0, 1)

	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.EMALabel{}).
		Where("participant_id = ?", participantID).
		Where("timestamp >= ? AND timestamp < ?", dayStart, dayEnd).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

func (r *emaRepository) GetByParticipant(ctx context.Context, participantID string, limit int) ([]domain.EMALabel, error) {
	var labels []domain.EMALabel
	err := r.db.WithContext(ctx).
		Where("participant_id = ?", participantID).
		Order("timestamp DESC").
		Limit(limit).
		Find(&labels).Error
	if err != nil {
		return nil, err
	}
	return labels, nil
}
