package domain

import (
	"time"

	"github.com/google/uuid"
)

// ModelVersionRuleV1 tags outputs from the rule-based scoring engine. A
// future learned model slots into the same output contract under a new tag.
const ModelVersionRuleV1 = "rule_v1"

// InferenceOutput is the persisted, API-facing inference result. Created
// once per cycle, immutable, one-to-one with its FeatureWindow.
type InferenceOutput struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ParticipantID string    `gorm:"type:varchar(64);not null;index:idx_inference_participant_ts,priority:1" json:"participant_id"`
	Timestamp     time.Time `gorm:"not null;index:idx_inference_participant_ts,priority:2,sort:desc" json:"timestamp"`

	State           AffectiveState  `gorm:"serializer:json;type:jsonb" json:"state"`
	FeatureWindowID *uuid.UUID      `gorm:"type:uuid" json:"feature_window_id,omitempty"`
	ActivityContext ActivityContext `gorm:"type:varchar(24);not null;default:'unknown'" json:"activity_context"`

	// Explainability: deduplicated signal tags, templated rationale, and
	// the feature values that drove the score.
	ContributingSignals []string           `gorm:"serializer:json;type:jsonb" json:"contributing_signals"`
	Explanation         string             `gorm:"type:text" json:"explanation"`
	TopFeatures         map[string]float64 `gorm:"serializer:json;type:jsonb" json:"top_features"`

	Quality QualityFlags `gorm:"serializer:json;type:jsonb" json:"quality"`

	ModelVersion string    `gorm:"type:varchar(32);not null;default:'rule_v1'" json:"model_version"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (InferenceOutput) TableName() string {
	return "inference_outputs"
}

// InferenceSummary is the compact history representation.
type InferenceSummary struct {
	ID                uuid.UUID       `json:"id"`
	Timestamp         time.Time       `json:"timestamp"`
	ArousalScore      float64         `json:"arousal_score"`
	ArousalConfidence Confidence      `json:"arousal_confidence"`
	StressScore       float64         `json:"stress_score"`
	StressConfidence  Confidence      `json:"stress_confidence"`
	ValenceScore      float64         `json:"valence_score"`
	ValenceConfidence Confidence      `json:"valence_confidence"`
	DominantEmotion   DiscreteEmotion `json:"dominant_emotion"`
	ActivityContext   ActivityContext `json:"activity_context"`
	Explanation       string          `json:"explanation"`
	ModelVersion      string          `json:"model_version"`
}

// ToSummary projects an output into its history representation.
func (o *InferenceOutput) ToSummary() InferenceSummary {
	return InferenceSummary{
		ID:                o.ID,
		Timestamp:         o.Timestamp,
		ArousalScore:      o.State.ArousalScore,
		ArousalConfidence: o.State.ArousalConfidence,
		StressScore:       o.State.StressScore,
		StressConfidence:  o.State.StressConfidence,
		ValenceScore:      o.State.ValenceScore,
		ValenceConfidence: o.State.ValenceConfidence,
		DominantEmotion:   o.State.DominantEmotion,
		ActivityContext:   o.ActivityContext,
		Explanation:       o.Explanation,
		ModelVersion:      o.ModelVersion,
	}
}

// InferenceHistoryResponse is the paginated history payload.
type InferenceHistoryResponse struct {
	Data       []InferenceSummary `json:"data"`
	Pagination PaginationResponse `json:"pagination"`
}

// PaginationResponse contains cursor pagination metadata.
type PaginationResponse struct {
	NextCursor string `json:"next_cursor,omitempty"`
	HasMore    bool   `json:"has_more"`
}

// RunInferenceRequest is the optional body for triggering an inference
// cycle. Both fields default to "now" / unknown when omitted.
type RunInferenceRequest struct {
	WindowEnd    *time.Time `json:"window_end,omitempty"`
	LastSyncTime *time.Time `json:"last_sync_time,omitempty"`
}
