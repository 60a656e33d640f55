package domain

import (
	"time"

	"github.com/google/uuid"
)

// EMATrigger says what caused an EMA label to be collected.
type EMATrigger string

const (
	EMATriggerScheduled     EMATrigger = "scheduled"
	EMATriggerEventBased    EMATrigger = "event_based"
	EMATriggerUserInitiated EMATrigger = "user_initiated"
)

// EMALabel is an Ecological Momentary Assessment self-report: the ground
// truth used to calibrate and validate affect inference. Immutable once
// stored. Arousal/valence use the 1-9 SAM scale, stress a 1-5 scale.
type EMALabel struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ParticipantID string    `gorm:"type:varchar(64);not null;index:idx_ema_participant_ts,priority:1" json:"participant_id"`
	Timestamp     time.Time `gorm:"not null;index:idx_ema_participant_ts,priority:2,sort:desc" json:"timestamp"`

	Arousal    *int             `gorm:"type:smallint" json:"arousal,omitempty"`
	Valence    *int             `gorm:"type:smallint" json:"valence,omitempty"`
	Stress     *int             `gorm:"type:smallint" json:"stress,omitempty"`
	EmotionTag *DiscreteEmotion `gorm:"type:varchar(16)" json:"emotion_tag,omitempty"`

	ContextNote string     `gorm:"type:text" json:"context_note"`
	Trigger     EMATrigger `gorm:"type:varchar(16);not null;default:'scheduled'" json:"trigger"`

	InferenceOutputID *uuid.UUID `gorm:"type:uuid" json:"inference_output_id,omitempty"`
	CreatedAt         time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (EMALabel) TableName() string {
	return "ema_labels"
}

// SubmitEMARequest is the request body for submitting a self-report.
// An emotion tag outside the closed set is nulled, not rejected.
type SubmitEMARequest struct {
	// Self-rated arousal, 1 (calm) to 9 (excited)
	Arousal *int `json:"arousal,omitempty" validate:"omitempty,min=1,max=9"`
	// Self-rated valence, 1 (unpleasant) to 9 (pleasant)
	Valence *int `json:"valence,omitempty" validate:"omitempty,min=1,max=9"`
	// Self-rated stress, 1 (none) to 5 (extreme)
	Stress *int `json:"stress,omitempty" validate:"omitempty,min=1,max=5"`
	// Free-form discrete-emotion tag; invalid values are dropped
	EmotionTag string `json:"emotion_tag,omitempty"`
	// Free-text context, e.g. "in meeting", "after coffee"
	ContextNote string `json:"context_note,omitempty" validate:"omitempty,max=2000"`
	// What prompted this report
	Trigger EMATrigger `json:"trigger,omitempty" validate:"omitempty,oneof=scheduled event_based user_initiated"`
	// Inference output that triggered this report, if event-based
	InferenceOutputID *uuid.UUID `json:"inference_output_id,omitempty"`
}

// EMATriggerResult is the decision returned by the EMA scheduler for one
// inference output. Exactly one reason is ever set.
type EMATriggerResult struct {
	Trigger           bool       `json:"trigger"`
	Reason            string     `json:"reason"`
	StressScore       *float64   `json:"stress_score,omitempty"`
	InferenceOutputID *uuid.UUID `json:"inference_output_id,omitempty"`
}

// EMAScheduleResponse describes the scheduled prompt plan.
type EMAScheduleResponse struct {
	PromptTimes []string `json:"prompt_times"`
	PromptDue   bool     `json:"prompt_due"`
}
