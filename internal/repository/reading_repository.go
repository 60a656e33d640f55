package repository

import (
	"context"
	"time"

	"github.com/affectsense/wearable-affect/internal/domain"
	"gorm.io/gorm"
)

// ReadingRepository reads vendor sensor samples. Readings are written by
// the collector layer; this service only queries them.
type ReadingRepository interface {
	// GetRange returns readings in [start, end), oldest first.
	GetRange(ctx context.Context, participantID string, metric domain.MetricType, start, end time.Time) ([]domain.SensorReading, error)
	// GetLatest returns up to limit readings, most recent first.
	GetLatest(ctx context.Context, participantID string, metric domain.MetricType, limit int) ([]domain.SensorReading, error)
	Save(ctx context.Context, reading *domain.SensorReading) error
}

type readingRepository struct {
	db *gorm.DB
}

func NewReadingRepository(db *gorm.DB) ReadingRepository {
	return &readingRepository{db: db}
}

func (r *readingRepository) GetRange(ctx context.Context, participantID string, metric domain.MetricType, start, end time.Time) ([]domain.SensorReading, error) {
	var readings []domain.SensorReading
	err := r.db.WithContext(ctx).
		Where("participant_id = ? AND metric_type = ?", participantID, metric).
		Where("timestamp >= ? AND timestamp < ?", start, end).
		Order("timestamp ASC").
		Find(&readings).Error
	if err != nil {
		return nil, err
	}
	return readings, nil
}

func (r *readingRepository) GetLatest(ctx context.Context, participantID string, metric domain.MetricType, limit int) ([]domain.SensorReading, error) {
	var readings []domain.SensorReading
	err := r.db.WithContext(ctx).
		Where("participant_id = ? AND metric_type = ?", participantID, metric).
		Order("timestamp DESC").
		Limit(limit).
		Find(&readings).Error
	if err != nil {
		return nil, err
	}
	return readings, nil
}

func (r *readingRepository) Save(ctx context.Context, reading *domain.SensorReading) error {
	return r.db.WithContext(ctx).Create(reading).Error
}
