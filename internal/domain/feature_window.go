package domain

import (
	"time"

	"github.com/google/uuid"
)

// QualityFlags carries data-quality metadata attached to every feature
// window and inference output. Nil pointer fields mean "unknown", which is
// distinct from false/zero.
type QualityFlags struct {
	SyncLagSeconds       *float64 `json:"sync_lag_seconds,omitempty"`
	WearingDevice        *bool    `json:"wearing_device,omitempty"`
	HRCoveragePct        *float64 `json:"hr_coverage_pct,omitempty"`
	SleepDataAvailable   bool     `json:"sleep_data_available"`
	SleepInfoCode        *int     `json:"sleep_info_code,omitempty"`
	SufficientBaseline   bool     `json:"sufficient_baseline"`
	DataStalenessWarning bool     `json:"data_staleness_warning"`
}

// FeatureWindow is the aggregate over [WindowStart, WindowEnd) for one
// participant that the inference engine consumes. Any nullable field may be
// nil: absence of a signal is a first-class value and is never coerced to
// zero. Created once per inference cycle, persisted for audit, never mutated.
type FeatureWindow struct {
	ID                    uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ParticipantID         string          `gorm:"type:varchar(64);not null;index:idx_feature_windows_participant_end,priority:1" json:"participant_id"`
	WindowStart           time.Time       `gorm:"not null" json:"window_start"`
	WindowEnd             time.Time       `gorm:"not null;index:idx_feature_windows_participant_end,priority:2,sort:desc" json:"window_end"`
	WindowDurationSeconds int             `gorm:"not null" json:"window_duration_seconds"`
	ActivityContext       ActivityContext `gorm:"type:varchar(24);not null;default:'unknown'" json:"activity_context"`

	// Activity
	StepsInWindow    *float64 `json:"steps_in_window,omitempty"`
	CaloriesInWindow *float64 `json:"calories_in_window,omitempty"`
	METsMean         *float64 `json:"mets_mean,omitempty"`
	AZMMinutes       *float64 `json:"azm_minutes,omitempty"`

	// Heart rate
	HRMean              *float64 `json:"hr_mean,omitempty"`
	HRStd               *float64 `json:"hr_std,omitempty"`
	HRMin               *float64 `json:"hr_min,omitempty"`
	HRMax               *float64 `json:"hr_max,omitempty"`
	HRSlope             *float64 `json:"hr_slope,omitempty"`
	HRBaselineDeviation *float64 `json:"hr_baseline_deviation,omitempty"`
	RestingHR           *float64 `json:"resting_hr,omitempty"`

	// HRV (overnight)
	HRVRMSSD                  *float64 `json:"hrv_rmssd,omitempty"`
	HRVRMSSDBaselineDeviation *float64 `json:"hrv_rmssd_baseline_deviation,omitempty"`
	HRVDeepRMSSD              *float64 `json:"hrv_deep_rmssd,omitempty"`

	// Breathing rate (overnight)
	BreathingRate       *float64 `json:"breathing_rate,omitempty"`
	BRBaselineDeviation *float64 `json:"br_baseline_deviation,omitempty"`

	// Skin temperature: vendor value is already relative to the wearer's
	// nightly baseline, so this is a deviation, not an absolute.
	SkinTempDeviation *float64 `json:"skin_temp_deviation,omitempty"`

	// SpO2 (overnight)
	SpO2Avg *float64 `json:"spo2_avg,omitempty"`
	SpO2Min *float64 `json:"spo2_min,omitempty"`

	// Sleep (most recent sleep log)
	SleepDurationMinutes *float64 `json:"sleep_duration_minutes,omitempty"`
	SleepEfficiency      *float64 `json:"sleep_efficiency,omitempty"`
	SleepDeepPct         *float64 `json:"sleep_deep_pct,omitempty"`
	SleepREMPct          *float64 `json:"sleep_rem_pct,omitempty"`
	SleepWakePct         *float64 `json:"sleep_wake_pct,omitempty"`
	SleepWakeCount       *int     `json:"sleep_wake_count,omitempty"`

	Quality QualityFlags `gorm:"serializer:json;type:jsonb" json:"quality"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (FeatureWindow) TableName() string {
	return "feature_windows"
}
