package repository

import (
	"context"
	"time"

	"github.com/affectsense/wearable-affect/internal/domain"
	"github.com/affectsense/wearable-affect/pkg/pagination"
	"gorm.io/gorm"
)

// InferenceHistoryFilter bounds a history query.
type InferenceHistoryFilter struct {
	Start  time.Time
	End    time.Time
	Limit  int
	Cursor string
}

// InferenceOutputRepository persists inference results, append-only.
type InferenceOutputRepository interface {
	Save(ctx context.Context, output *domain.InferenceOutput) error
	// GetLatest returns up to limit outputs, most recent first.
	GetLatest(ctx context.Context, participantID string, limit int) ([]domain.InferenceOutput, error)
	// GetRange returns outputs in [start, end), most recent first, with
	// cursor pagination. One extra row beyond the limit signals more pages.
	GetRange(ctx context.Context, participantID string, filter InferenceHistoryFilter) ([]domain.InferenceOutput, error)
}

type inferenceOutputRepository struct {
	db *gorm.DB
}

func NewInferenceOutputRepository(db *gorm.DB) InferenceOutputRepository {
	return &inferenceOutputRepository{db: db}
}

func (r *inferenceOutputRepository) Save(ctx context.Context, output *domain.InferenceOutput) error {
	return r.db.WithContext(ctx).Create(output).Error
}

func (r *inferenceOutputRepository) GetLatest(ctx context.Context, participantID string, limit int) ([]domain.InferenceOutput, error) {
	var outputs []domain.InferenceOutput
	err := r.db.WithContext(ctx).
		Where("participant_id = ?", participantID).
		Order("timestamp DESC").
		Limit(limit).
		Find(&outputs).Error
	if err != nil {
		return nil, err
	}
	return outputs, nil
}

func (r *inferenceOutputRepository) GetRange(ctx context.Context, participantID string, filter InferenceHistoryFilter) ([]domain.InferenceOutput, error) {
	query := r.db.WithContext(ctx).
		Where("participant_id = ?", participantID).
		Where("timestamp >= ? AND timestamp < ?", filter.Start, filter.End).
		Order("timestamp DESC")

	if filter.Cursor != "" {
		cursor, err := pagination.DecodeCursor(filter.Cursor)
		if err == nil && cursor != nil {
			query = query.Where(
				"(timestamp < ?) OR (timestamp = ? AND id < ?)",
				cursor.Timestamp, cursor.Timestamp, cursor.ID,
			)
		}
	}

	limit := pagination.NormalizeLimit(filter.Limit)
	query = query.Limit(limit + 1)

	var outputs []domain.InferenceOutput
	if err := query.Find(&outputs).Error; err != nil {
		return nil, err
	}
	return outputs, nil
}
