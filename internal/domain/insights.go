package domain

import "time"

// AffectTrend aggregates inference outputs over a window for the LLM.
type AffectTrend struct {
	From             time.Time `json:"from"`
	To               time.Time `json:"to"`
	SampleCount      int       `json:"sample_count"`
	ArousalMean      *float64  `json:"arousal_mean,omitempty"`
	StressMean       *float64  `json:"stress_mean,omitempty"`
	ValenceMean      *float64  `json:"valence_mean,omitempty"`
	StressMax        *float64  `json:"stress_max,omitempty"`
	HighStressEvents int       `json:"high_stress_events"`
}

// EMASummary aggregates recent self-reports for the LLM.
type EMASummary struct {
	SampleCount int      `json:"sample_count"`
	ArousalMean *float64 `json:"arousal_mean,omitempty"`
	ValenceMean *float64 `json:"valence_mean,omitempty"`
	StressMean  *float64 `json:"stress_mean,omitempty"`
	TopEmotions []string `json:"top_emotions,omitempty"`
}

// InsightsContext is the full data package sent to the LLM.
type InsightsContext struct {
	ParticipantID      string            `json:"participant_id"`
	BaselineCalibrated bool              `json:"baseline_calibrated"`
	ObservationCount   int               `json:"baseline_observation_count"`
	Latest             *InferenceSummary `json:"latest,omitempty"`
	Recent             AffectTrend       `json:"recent"`
	History            AffectTrend       `json:"history"`
	SelfReports        EMASummary        `json:"self_reports"`
}

// LLMInsightsOutput is the structured response expected from the LLM.
type LLMInsightsOutput struct {
	Summary      string   `json:"summary"`
	Observations []string `json:"observations"`
	Guidance     []string `json:"guidance"`
}

// InsightsResponse is the API response for the insights endpoint.
type InsightsResponse struct {
	ParticipantID string            `json:"participant_id"`
	GeneratedAt   time.Time         `json:"generated_at"`
	Insights      LLMInsightsOutput `json:"insights"`
	Trends        struct {
		Recent  AffectTrend `json:"recent"`
		History AffectTrend `json:"history"`
	} `json:"trends"`
	SelfReports EMASummary `json:"self_reports"`
}
