package repository

import (
	"context"
	"errors"

	"github.com/affectsense/wearable-affect/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BaselineRepository stores one mutable baseline row per participant.
type BaselineRepository interface {
	// Get returns nil (no error) when the participant has no baseline yet.
	Get(ctx context.Context, participantID string) (*domain.ParticipantBaseline, error)
	Upsert(ctx context.Context, baseline *domain.ParticipantBaseline) error
}

type baselineRepository struct {
	db *gorm.DB
}

func NewBaselineRepository(db *gorm.DB) BaselineRepository {
	return &baselineRepository{db: db}
}

func (r *baselineRepository) Get(ctx context.Context, participantID string) (*domain.ParticipantBaseline, error) {
	var b domain.ParticipantBaseline
	err := r.db.WithContext(ctx).First(&b, "participant_id = ?", participantID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

func (r *baselineRepository) Upsert(ctx context.Context, baseline *domain.ParticipantBaseline) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "participant_id"}},
			UpdateAll: true,
		}).
		Create(baseline).Error
}
