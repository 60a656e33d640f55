package domain

import "time"

// DefaultEWMAAlpha is the default exponential smoothing factor for
// baseline updates.
const DefaultEWMAAlpha = 0.1

// MinBaselineObservations is how many observed windows a participant needs
// before their personalised baseline is considered calibrated.
const MinBaselineObservations = 7

// TimeOfDayBand segments HR baselines by circadian phase.
type TimeOfDayBand string

const (
	BandMorning   TimeOfDayBand = "morning"   // [06:00, 12:00)
	BandAfternoon TimeOfDayBand = "afternoon" // [12:00, 18:00)
	BandEvening   TimeOfDayBand = "evening"   // [18:00, 24:00)
	BandNight     TimeOfDayBand = "night"     // [00:00, 06:00)
)

// TimeOfDayBandForHour maps an hour of day to its band. Night is the
// fallback for anything outside 0-23.
func TimeOfDayBandForHour(hour int) TimeOfDayBand {
	switch {
	case hour >= 6 && hour < 12:
		return BandMorning
	case hour >= 12 && hour < 18:
		return BandAfternoon
	case hour >= 18 && hour < 24:
		return BandEvening
	default:
		return BandNight
	}
}

// ParticipantBaseline holds personalised physiological baselines maintained
// via EWMA, segmented by time-of-day band for HR. One mutable row per
// participant, created lazily on first inference, never deleted here.
//
// Invariant: the at-rest HR fields update only from windows classified
// rest/low_movement so exercise never contaminates the resting reference.
type ParticipantBaseline struct {
	ParticipantID string    `gorm:"type:varchar(64);primaryKey" json:"participant_id"`
	UpdatedAt     time.Time `json:"updated_at"`

	HRBaselineMorning   *float64 `json:"hr_baseline_morning,omitempty"`
	HRBaselineAfternoon *float64 `json:"hr_baseline_afternoon,omitempty"`
	HRBaselineEvening   *float64 `json:"hr_baseline_evening,omitempty"`
	HRBaselineNight     *float64 `json:"hr_baseline_night,omitempty"`
	HRBaselineRest      *float64 `json:"hr_baseline_rest,omitempty"`
	HRStdBaseline       *float64 `json:"hr_std_baseline,omitempty"`

	HRVRMSSDBaseline *float64 `json:"hrv_rmssd_baseline,omitempty"`
	HRVRMSSDStd      *float64 `json:"hrv_rmssd_std,omitempty"`

	BRBaseline *float64 `json:"br_baseline,omitempty"`
	BRStd      *float64 `json:"br_std,omitempty"`

	SkinTempBaseline *float64 `json:"skin_temp_baseline,omitempty"`

	SleepDurationBaseline   *float64 `json:"sleep_duration_baseline,omitempty"`
	SleepEfficiencyBaseline *float64 `json:"sleep_efficiency_baseline,omitempty"`

	EWMAAlpha        float64 `gorm:"not null;default:0.1" json:"ewma_alpha"`
	ObservationCount int     `gorm:"not null;default:0" json:"observation_count"`
}

func (ParticipantBaseline) TableName() string {
	return "participant_baselines"
}

// NewParticipantBaseline returns a zero-state baseline for a participant:
// all fields nil, observation count 0.
func NewParticipantBaseline(participantID string) *ParticipantBaseline {
	return &ParticipantBaseline{
		ParticipantID: participantID,
		EWMAAlpha:     DefaultEWMAAlpha,
	}
}

// HRBaselineForBand returns the HR EWMA for a time-of-day band, nil when
// not yet observed.
func (b *ParticipantBaseline) HRBaselineForBand(band TimeOfDayBand) *float64 {
	switch band {
	case BandMorning:
		return b.HRBaselineMorning
	case BandAfternoon:
		return b.HRBaselineAfternoon
	case BandEvening:
		return b.HRBaselineEvening
	default:
		return b.HRBaselineNight
	}
}

// SetHRBaselineForBand stores the HR EWMA for a time-of-day band.
func (b *ParticipantBaseline) SetHRBaselineForBand(band TimeOfDayBand, v *float64) {
	switch band {
	case BandMorning:
		b.HRBaselineMorning = v
	case BandAfternoon:
		b.HRBaselineAfternoon = v
	case BandEvening:
		b.HRBaselineEvening = v
	default:
		b.HRBaselineNight = v
	}
}

// IsCalibrated reports whether enough windows have been observed for the
// personalised baseline to be trusted.
func (b *ParticipantBaseline) IsCalibrated() bool {
	return b.ObservationCount >= MinBaselineObservations
}
