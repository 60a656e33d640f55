package service

import (
	"math"
	"time"

	"github.com/affectsense/wearable-affect/internal/domain"
)

const (
	// MinHRPointsForWear is the minimum HR sample count before the device
	// is assumed to be on-wrist.
	MinHRPointsForWear = 3

	// SyncLagStaleThresholdSeconds flags data older than 30 minutes since
	// the last device sync.
	SyncLagStaleThresholdSeconds = 1800
)

// FeatureWindowInput bundles everything the window builder needs. Readings
// are the daytime samples inside [WindowStart, WindowEnd); overnight
// readings carry at most the single most-recent sample per metric, since
// HRV/BR/SpO2/skin temperature are nightly-resolution signals.
type FeatureWindowInput struct {
	ParticipantID     string
	Readings          []domain.SensorReading
	WindowStart       time.Time
	WindowEnd         time.Time
	Baseline          *domain.ParticipantBaseline
	SleepReadings     []domain.SensorReading
	OvernightReadings map[domain.MetricType][]domain.SensorReading
	LastSyncTime      *time.Time
	Now               time.Time
}

// BuildFeatureWindow aggregates raw readings into a FeatureWindow. Pure:
// no I/O, no clock access (the caller supplies Now for sync-lag math).
// Every derived field is nil, never a sentinel number, when its inputs are
// absent; downstream scoring relies on that to pick which signals to weight.
func BuildFeatureWindow(in FeatureWindowInput) *domain.FeatureWindow {
	byMetric := make(map[domain.MetricType][]domain.SensorReading)
	for _, r := range in.Readings {
		byMetric[r.MetricType] = append(byMetric[r.MetricType], r)
	}

	fw := &domain.FeatureWindow{
		ParticipantID:         in.ParticipantID,
		WindowStart:           in.WindowStart,
		WindowEnd:             in.WindowEnd,
		WindowDurationSeconds: int(in.WindowEnd.Sub(in.WindowStart).Seconds()),
	}

	// Heart rate statistics
	hrReadings := byMetric[domain.MetricHeartRate]
	hrValues := make([]float64, 0, len(hrReadings))
	for _, r := range hrReadings {
		hrValues = append(hrValues, r.Value)
	}
	if len(hrValues) > 0 {
		fw.HRMean = floatPtr(mean(hrValues))
		fw.HRMin = floatPtr(minOf(hrValues))
		fw.HRMax = floatPtr(maxOf(hrValues))
	}
	if len(hrValues) >= 2 {
		fw.HRStd = floatPtr(sampleStd(hrValues))
		fw.HRSlope = floatPtr(linearSlope(hrValues))
	}
	for _, r := range hrReadings {
		if r.MetaString("type") == "resting" {
			fw.RestingHR = floatPtr(r.Value)
			break
		}
	}

	// Steps, calories, METs, AZM
	if steps := byMetric[domain.MetricSteps]; len(steps) > 0 {
		fw.StepsInWindow = floatPtr(sumValues(steps))
	}
	calReadings := byMetric[domain.MetricCalories]
	if len(calReadings) > 0 {
		fw.CaloriesInWindow = floatPtr(sumValues(calReadings))
	}
	var metsValues []float64
	for _, r := range calReadings {
		if m := r.MetaFloat("mets"); m != nil {
			metsValues = append(metsValues, *m)
		}
	}
	if len(metsValues) > 0 {
		fw.METsMean = floatPtr(mean(metsValues))
	}
	if azm := byMetric[domain.MetricActiveZoneMinutes]; len(azm) > 0 {
		fw.AZMMinutes = floatPtr(sumValues(azm))
	}

	// Activity context. Any sleep-typed reading inside the window marks it
	// as a sleep period.
	sleepPeriod := len(byMetric[domain.MetricSleep]) > 0
	startHour := in.WindowStart.Hour()
	fw.ActivityContext = ClassifyActivityContext(fw.StepsInWindow, fw.METsMean, fw.AZMMinutes, startHour, sleepPeriod)

	// HR z-score against the time-of-day band baseline
	if in.Baseline != nil && fw.HRMean != nil {
		band := domain.TimeOfDayBandForHour(startHour)
		ref := in.Baseline.HRBaselineForBand(band)
		std := in.Baseline.HRStdBaseline
		if ref != nil && std != nil && *std > 0 {
			fw.HRBaselineDeviation = floatPtr((*fw.HRMean - *ref) / *std)
		}
	}

	buildOvernightFeatures(fw, in.Baseline, in.OvernightReadings)
	buildSleepFeatures(fw, in.SleepReadings)
	fw.Quality = buildQualityFlags(in, len(hrValues), fw)

	return fw
}

// buildOvernightFeatures pulls the single most-recent reading per overnight
// metric into the window.
func buildOvernightFeatures(fw *domain.FeatureWindow, baseline *domain.ParticipantBaseline, overnight map[domain.MetricType][]domain.SensorReading) {
	if rs := overnight[domain.MetricHRV]; len(rs) > 0 {
		r := rs[0]
		fw.HRVRMSSD = floatPtr(r.Value)
		fw.HRVDeepRMSSD = r.MetaFloat("deep_rmssd")
		if baseline != nil && baseline.HRVRMSSDBaseline != nil && baseline.HRVRMSSDStd != nil && *baseline.HRVRMSSDStd > 0 {
			fw.HRVRMSSDBaselineDeviation = floatPtr((r.Value - *baseline.HRVRMSSDBaseline) / *baseline.HRVRMSSDStd)
		}
	}

	if rs := overnight[domain.MetricBreathingRate]; len(rs) > 0 {
		r := rs[0]
		fw.BreathingRate = floatPtr(r.Value)
		if baseline != nil && baseline.BRBaseline != nil && baseline.BRStd != nil && *baseline.BRStd > 0 {
			fw.BRBaselineDeviation = floatPtr((r.Value - *baseline.BRBaseline) / *baseline.BRStd)
		}
	}

	if rs := overnight[domain.MetricSpO2]; len(rs) > 0 {
		r := rs[0]
		fw.SpO2Avg = floatPtr(r.Value)
		fw.SpO2Min = r.MetaFloat("min")
	}

	if rs := overnight[domain.MetricSkinTemperature]; len(rs) > 0 {
		// Vendor skin temperature is already a nightly-relative deviation.
		fw.SkinTempDeviation = floatPtr(rs[0].Value)
	}
}

// buildSleepFeatures derives sleep-architecture fields from the most recent
// sleep log. Stage percentages guard against a zero total by defaulting the
// denominator to one minute.
func buildSleepFeatures(fw *domain.FeatureWindow, sleepReadings []domain.SensorReading) {
	if len(sleepReadings) == 0 {
		return
	}
	mainSleep := sleepReadings[0]
	fw.SleepDurationMinutes = floatPtr(mainSleep.Value)
	fw.SleepEfficiency = mainSleep.MetaFloat("efficiency")

	total := mainSleep.Value
	if total <= 0 {
		total = 1
	}
	if deep := mainSleep.MetaFloat("deep_minutes"); deep != nil {
		fw.SleepDeepPct = floatPtr(*deep / total * 100)
	}
	if rem := mainSleep.MetaFloat("rem_minutes"); rem != nil {
		fw.SleepREMPct = floatPtr(*rem / total * 100)
	}
	if wake := mainSleep.MetaFloat("wake_minutes"); wake != nil {
		fw.SleepWakePct = floatPtr(*wake / total * 100)
	}
	if code := mainSleep.MetaFloat("info_code"); code != nil {
		c := int(*code)
		fw.Quality.SleepInfoCode = &c
	}
}

func buildQualityFlags(in FeatureWindowInput, hrPointCount int, fw *domain.FeatureWindow) domain.QualityFlags {
	q := fw.Quality // keep SleepInfoCode set by buildSleepFeatures

	if in.LastSyncTime != nil {
		lag := in.Now.Sub(*in.LastSyncTime).Seconds()
		q.SyncLagSeconds = floatPtr(lag)
		q.DataStalenessWarning = lag > SyncLagStaleThresholdSeconds
	}

	windowMinutes := in.WindowEnd.Sub(in.WindowStart).Minutes()
	if windowMinutes < 1 {
		windowMinutes = 1
	}
	if hrPointCount > 0 {
		coverage := math.Min(float64(hrPointCount)/windowMinutes, 1.0)
		q.HRCoveragePct = floatPtr(coverage)
		q.WearingDevice = boolPtr(hrPointCount >= MinHRPointsForWear)
	} else {
		q.HRCoveragePct = floatPtr(0.0)
	}

	q.SleepDataAvailable = len(in.SleepReadings) > 0
	q.SufficientBaseline = in.Baseline != nil && in.Baseline.IsCalibrated()
	return q
}

// linearSlope fits a least-squares line over the ordered sequence with
// x = index rather than wall-clock time, which keeps the trend robust to
// uneven sampling.
func linearSlope(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}
	xMean := float64(n-1) / 2
	yMean := mean(values)
	var num, den float64
	for i, v := range values {
		dx := float64(i) - xMean
		num += dx * (v - yMean)
		den += dx * dx
	}
	if den == 0 {
		return 0
	}
	return num / den
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// sampleStd is the n-1 standard deviation; callers must pass >= 2 values.
func sampleStd(values []float64) float64 {
	m := mean(values)
	var sumSq float64
	for _, v := range values {
		d := v - m
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values)-1))
}

func minOf(values []float64) float64 {
	m := values[0]
	for _, v := range values {
		if v < m {
			m = v
		}
	}
	return m
}

func maxOf(values []float64) float64 {
	m := values[0]
	for _, v := range values {
		if v > m {
			m = v
		}
	}
	return m
}

func sumValues(readings []domain.SensorReading) float64 {
	sum := 0.0
	for _, r := range readings {
		sum += r.Value
	}
	return sum
}

func floatPtr(v float64) *float64 { return &v }
func boolPtr(v bool) *bool        { return &v }
