package service

import (
	"math"
	"time"

	"github.com/affectsense/wearable-affect/internal/domain"
)

// UpdateBaseline folds one feature window into a participant's EWMA
// baselines in place; the caller persists the result.
//
// Update rules per field: first observation seeds the EWMA, a nil window
// value preserves the existing EWMA, otherwise new = alpha*x + (1-alpha)*old.
// HR fields (per-band and at-rest) update only from rest/low-movement
// windows so exercise never pollutes the resting reference used for stress
// detection. Overnight fields (HRV, BR, skin temp, sleep) update whenever
// present; they are already activity-filtered by when the vendor reports
// them. The observation count increments once per call regardless of which
// sub-fields moved.
func UpdateBaseline(b *domain.ParticipantBaseline, w *domain.FeatureWindow, now time.Time) {
	alpha := b.EWMAAlpha

	if w.HRMean != nil && w.ActivityContext.IsRestful() {
		band := domain.TimeOfDayBandForHour(w.WindowStart.Hour())
		b.SetHRBaselineForBand(band, ewma(alpha, b.HRBaselineForBand(band), w.HRMean))

		b.HRBaselineRest = ewma(alpha, b.HRBaselineRest, w.HRMean)
		b.HRStdBaseline = ewmaStd(alpha, b.HRStdBaseline, b.HRBaselineRest, w.HRMean)
	}

	if w.HRVRMSSD != nil {
		b.HRVRMSSDStd = ewmaStd(alpha, b.HRVRMSSDStd, b.HRVRMSSDBaseline, w.HRVRMSSD)
		b.HRVRMSSDBaseline = ewma(alpha, b.HRVRMSSDBaseline, w.HRVRMSSD)
	}

	if w.BreathingRate != nil {
		b.BRStd = ewmaStd(alpha, b.BRStd, b.BRBaseline, w.BreathingRate)
		b.BRBaseline = ewma(alpha, b.BRBaseline, w.BreathingRate)
	}

	// Skin temperature is already relative; the baseline tracks the
	// wearer's typical deviation.
	if w.SkinTempDeviation != nil {
		b.SkinTempBaseline = ewma(alpha, b.SkinTempBaseline, w.SkinTempDeviation)
	}

	if w.SleepDurationMinutes != nil {
		b.SleepDurationBaseline = ewma(alpha, b.SleepDurationBaseline, w.SleepDurationMinutes)
	}
	if w.SleepEfficiency != nil {
		b.SleepEfficiencyBaseline = ewma(alpha, b.SleepEfficiencyBaseline, w.SleepEfficiency)
	}

	b.ObservationCount++
	b.UpdatedAt = now
}

// ewma blends a new observation into the running average. A nil new value
// preserves the old; a nil old value seeds with the new.
func ewma(alpha float64, old, new *float64) *float64 {
	if new == nil {
		return old
	}
	if old == nil {
		v := *new
		return &v
	}
	v := alpha**new + (1-alpha)**old
	return &v
}

// ewmaStd maintains a running standard-deviation estimate by blending
// squared deviations from the current mean with the same alpha. The first
// deviation seeds the std directly; a zero first deviation seeds 1.0 so the
// std can never get stuck at zero and blow up every later z-score.
func ewmaStd(alpha float64, oldStd, oldMean, newVal *float64) *float64 {
	if newVal == nil || oldMean == nil {
		return oldStd
	}
	d := *newVal - *oldMean
	deviationSq := d * d
	if oldStd == nil {
		seed := math.Sqrt(deviationSq)
		if seed == 0 {
			seed = 1.0
		}
		return &seed
	}
	oldVar := *oldStd * *oldStd
	newVar := alpha*deviationSq + (1-alpha)*oldVar
	v := math.Sqrt(newVar)
	return &v
}
