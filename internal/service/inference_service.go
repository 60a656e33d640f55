package service

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/affectsense/wearable-affect/internal/domain"
	"github.com/google/uuid"
)

// signalProvenance records which evidence category a score component came
// from. Confidence rules count overnight-category components directly
// instead of substring-matching tag names.
type signalProvenance int

const (
	signalDaytime signalProvenance = iota
	signalOvernight
)

// scoreAccumulator collects weighted 0-1 components for one affect
// dimension, along with the explainability tags and feature values they
// produced.
type scoreAccumulator struct {
	values      []float64
	weights     []float64
	provenances []signalProvenance
	signals     []string
	features    map[string]float64
}

func newScoreAccumulator() *scoreAccumulator {
	return &scoreAccumulator{features: make(map[string]float64)}
}

func (a *scoreAccumulator) add(value, weight float64, prov signalProvenance) {
	a.values = append(a.values, value)
	a.weights = append(a.weights, weight)
	a.provenances = append(a.provenances, prov)
}

func (a *scoreAccumulator) tag(s string) {
	a.signals = append(a.signals, s)
}

func (a *scoreAccumulator) feature(name string, v float64) {
	a.features[name] = v
}

func (a *scoreAccumulator) count() int { return len(a.values) }

func (a *scoreAccumulator) overnightCount() int {
	n := 0
	for _, p := range a.provenances {
		if p == signalOvernight {
			n++
		}
	}
	return n
}

// score returns the weighted average clamped to [0,1], or the neutral
// midpoint when no evidence is available.
func (a *scoreAccumulator) score() float64 {
	if len(a.values) == 0 {
		return 0.5
	}
	var sum, totalWeight float64
	for i, v := range a.values {
		sum += v * a.weights[i]
		totalWeight += a.weights[i]
	}
	return clamp01(sum / totalWeight)
}

// InferAffectiveState runs the rule-based inference engine on a feature
// window. Pure and deterministic: identical inputs produce identical
// outputs. Absent evidence yields neutral 0.5 scores at very_low
// confidence, never a fabricated confident answer.
func InferAffectiveState(fw *domain.FeatureWindow) *domain.InferenceOutput {
	arousal := computeArousal(fw)
	stress := computeStress(fw)
	valence := computeValence(fw, stress.score)

	emotions, dominant, dominantConf := mapDiscreteEmotions(arousal.score, valence.score, stress.score)

	state := domain.AffectiveState{
		ArousalScore:      round3(arousal.score),
		ArousalLevel:      domain.ArousalLevelForScore(arousal.score),
		ArousalConfidence: arousal.confidence,

		StressScore:      round3(stress.score),
		StressLevel:      domain.StressLevelForScore(stress.score),
		StressConfidence: stress.confidence,

		ValenceScore:      round3(valence.score),
		ValenceLevel:      domain.ValenceLevelForScore(valence.score),
		ValenceConfidence: valence.confidence,

		DiscreteEmotions:          emotions,
		DominantEmotion:           dominant,
		DominantEmotionConfidence: dominantConf,
	}

	allSignals := dedupeSignals(arousal.signals, stress.signals, valence.signals)
	allFeatures := mergeFeatures(arousal.features, stress.features, valence.features)

	out := &domain.InferenceOutput{
		ParticipantID:       fw.ParticipantID,
		Timestamp:           fw.WindowEnd,
		State:               state,
		ActivityContext:     fw.ActivityContext,
		ContributingSignals: allSignals,
		Explanation:         buildExplanation(state, allSignals, fw),
		TopFeatures:         allFeatures,
		Quality:             fw.Quality,
		ModelVersion:        domain.ModelVersionRuleV1,
	}
	if fw.ID != uuid.Nil {
		id := fw.ID
		out.FeatureWindowID = &id
	}
	return out
}

type dimensionResult struct {
	score      float64
	confidence domain.Confidence
	signals    []string
	features   map[string]float64
}

// computeArousal scores physiological activation. HR deviation from the
// personalised baseline is the strongest signal but only counts at
// rest/low movement, where exercise confounders are controlled.
func computeArousal(fw *domain.FeatureWindow) dimensionResult {
	acc := newScoreAccumulator()

	if fw.HRBaselineDeviation != nil && fw.ActivityContext.IsRestful() {
		z := *fw.HRBaselineDeviation
		acc.add(sigmoid(z, 1.0), 3.0, signalDaytime)
		acc.feature("hr_baseline_z", round2(z))
		if z > 1.0 {
			acc.tag("hr_elevated_at_rest")
		} else if z < -1.0 {
			acc.tag("hr_low_at_rest")
		}
	} else if fw.HRMean != nil && fw.ActivityContext.IsRestful() {
		// Absolute-HR heuristic when no baseline exists: 60-100 bpm is
		// typical at rest, so normalise (hr-50)/80 into [0,1].
		hrNorm := clamp01((*fw.HRMean - 50) / 80)
		acc.add(hrNorm, 1.5, signalDaytime)
		acc.feature("hr_mean", round1(*fw.HRMean))
		if *fw.HRMean > 100 {
			acc.tag("hr_elevated_absolute")
		}
	}

	if fw.HRSlope != nil && math.Abs(*fw.HRSlope) > 0.5 {
		acc.add(sigmoid(*fw.HRSlope, 0.5), 1.0, signalDaytime)
		acc.feature("hr_slope", round3(*fw.HRSlope))
		if *fw.HRSlope > 1.0 {
			acc.tag("hr_rising_trend")
		}
	}

	if fw.BRBaselineDeviation != nil {
		z := *fw.BRBaselineDeviation
		acc.add(sigmoid(z, 0.8), 1.5, signalOvernight)
		acc.feature("br_baseline_z", round2(z))
		if z > 1.0 {
			acc.tag("breathing_rate_elevated")
		}
	}

	// Sign-inverted: acute stress causes vasoconstriction, so a skin
	// temperature drop reads as elevated arousal.
	if fw.SkinTempDeviation != nil {
		acc.add(sigmoid(-*fw.SkinTempDeviation, 1.0), 0.8, signalOvernight)
		acc.feature("skin_temp_dev", round2(*fw.SkinTempDeviation))
		if *fw.SkinTempDeviation < -1.0 {
			acc.tag("skin_temp_drop")
		}
	}

	if acc.count() == 0 {
		return dimensionResult{0.5, domain.ConfidenceVeryLow, acc.signals, acc.features}
	}

	var conf domain.Confidence
	switch {
	case fw.ActivityContext.IsRestful() && acc.count() >= 1:
		conf = domain.ConfidenceMedium
	case acc.count() >= 1:
		conf = domain.ConfidenceLow
	default:
		conf = domain.ConfidenceVeryLow
	}

	return dimensionResult{acc.score(), conf, acc.signals, acc.features}
}

// computeStress scores allostatic load from overnight recovery metrics
// (HRV, sleep, breathing rate) plus sustained HR elevation at rest.
func computeStress(fw *domain.FeatureWindow) dimensionResult {
	acc := newScoreAccumulator()

	if fw.HRVRMSSDBaselineDeviation != nil {
		z := *fw.HRVRMSSDBaselineDeviation
		// Inverted: suppressed HRV means elevated stress.
		acc.add(sigmoid(-z, 1.0), 3.0, signalOvernight)
		acc.feature("hrv_baseline_z", round2(z))
		if z < -1.0 {
			acc.tag("hrv_below_baseline")
		} else if z > 1.0 {
			acc.tag("hrv_above_baseline")
		}
	} else if fw.HRVRMSSD != nil {
		// Absolute heuristic: <20ms RMSSD reads high stress, >60ms relaxed.
		hrvNorm := clamp01(1.0 - (*fw.HRVRMSSD-15)/60)
		acc.add(hrvNorm, 2.0, signalOvernight)
		acc.feature("hrv_rmssd", round1(*fw.HRVRMSSD))
		if *fw.HRVRMSSD < 20 {
			acc.tag("hrv_very_low_absolute")
		}
	}

	if fw.HRBaselineDeviation != nil && fw.ActivityContext.IsRestful() {
		z := *fw.HRBaselineDeviation
		acc.add(sigmoid(z, 0.8), 2.5, signalDaytime)
		acc.feature("hr_rest_z", round2(z))
		if z > 1.5 {
			acc.tag("hr_sustained_elevation")
		}
	}

	addSleepStressComponent(fw, acc)

	if fw.BRBaselineDeviation != nil {
		z := *fw.BRBaselineDeviation
		acc.add(sigmoid(z, 0.8), 1.5, signalOvernight)
		acc.feature("br_stress_z", round2(z))
		if z > 1.0 {
			acc.tag("br_elevated_overnight")
		}
	}

	if fw.SkinTempDeviation != nil {
		acc.add(sigmoid(-*fw.SkinTempDeviation, 0.6), 0.8, signalOvernight)
	}

	if acc.count() == 0 {
		return dimensionResult{0.5, domain.ConfidenceVeryLow, acc.signals, acc.features}
	}

	var conf domain.Confidence
	switch {
	case acc.count() >= 3 && acc.overnightCount() >= 1:
		conf = domain.ConfidenceHigh
	case acc.count() >= 2:
		conf = domain.ConfidenceMedium
	case acc.count() >= 1:
		conf = domain.ConfidenceLow
	default:
		conf = domain.ConfidenceVeryLow
	}

	return dimensionResult{acc.score(), conf, acc.signals, acc.features}
}

// addSleepStressComponent averages up to three sleep-quality signals into
// one component. Returns false when no sleep data exists.
func addSleepStressComponent(fw *domain.FeatureWindow, acc *scoreAccumulator) bool {
	var parts []float64

	if fw.SleepEfficiency != nil {
		parts = append(parts, clamp01(1.0-*fw.SleepEfficiency/100))
		acc.feature("sleep_efficiency", round1(*fw.SleepEfficiency))
		if *fw.SleepEfficiency < 75 {
			acc.tag("sleep_poor_efficiency")
		}
	}

	if fw.SleepWakePct != nil {
		parts = append(parts, clamp01(*fw.SleepWakePct/30))
		acc.feature("sleep_wake_pct", round1(*fw.SleepWakePct))
		if *fw.SleepWakePct > 15 {
			acc.tag("sleep_fragmented")
		}
	}

	if fw.SleepDurationMinutes != nil {
		hours := *fw.SleepDurationMinutes / 60
		parts = append(parts, clamp01(1.0-(hours-4)/5))
		acc.feature("sleep_hours", round1(hours))
		if hours < 5 {
			acc.tag("sleep_very_short")
		} else if hours < 6 {
			acc.tag("sleep_short")
		}
	}

	if len(parts) == 0 {
		return false
	}
	acc.add(mean(parts), 2.0, signalOvernight)
	return true
}

// computeValence estimates pleasantness. Without EDA or self-report this
// is the weakest dimension: the inverse-stress proxy always contributes,
// HRV and sleep quality add weak corroboration, and confidence is capped
// at low no matter how much physiology agrees.
func computeValence(fw *domain.FeatureWindow, stressScore float64) dimensionResult {
	acc := newScoreAccumulator()

	inverseStress := 1.0 - stressScore
	acc.add(inverseStress, 2.0, signalDaytime)
	acc.feature("inverse_stress", round2(inverseStress))

	if fw.HRVRMSSDBaselineDeviation != nil {
		z := *fw.HRVRMSSDBaselineDeviation
		acc.add(sigmoid(z, 0.5), 1.5, signalOvernight)
		if z > 1.0 {
			acc.tag("hrv_high_positive_tendency")
		}
	}

	if fw.SleepEfficiency != nil && fw.SleepDurationMinutes != nil {
		hours := *fw.SleepDurationMinutes / 60
		quality := math.Min(1.0, (*fw.SleepEfficiency/100)*math.Min(1.0, hours/7))
		acc.add(quality, 1.5, signalOvernight)
		acc.feature("sleep_quality_proxy", round2(quality))
		if quality > 0.7 {
			acc.tag("good_sleep_positive_tendency")
		} else if quality < 0.3 {
			acc.tag("poor_sleep_negative_tendency")
		}
	}

	// Deliberate ceiling: valence from physiology alone never reaches
	// medium or high. Low requires a named signal; weak untagged
	// corroboration stays very_low.
	conf := domain.ConfidenceLow
	if len(acc.signals) == 0 {
		conf = domain.ConfidenceVeryLow
	}

	return dimensionResult{acc.score(), conf, acc.signals, acc.features}
}

// mapDiscreteEmotions maps the dimensional octant to a ranked list of
// low-confidence discrete-emotion guesses (Russell-circumplex heuristic).
// First matching bucket wins.
func mapDiscreteEmotions(arousal, valence, stress float64) ([]domain.EmotionPrediction, domain.DiscreteEmotion, domain.Confidence) {
	var predictions []domain.EmotionPrediction

	switch {
	case arousal < 0.3 && valence > 0.6:
		predictions = []domain.EmotionPrediction{
			{Emotion: domain.EmotionCalm, Probability: 0.5, Confidence: domain.ConfidenceLow},
			{Emotion: domain.EmotionJoy, Probability: 0.2, Confidence: domain.ConfidenceVeryLow},
			{Emotion: domain.EmotionSadness, Probability: 0.05, Confidence: domain.ConfidenceVeryLow},
		}
	case arousal < 0.3 && valence < 0.4:
		predictions = []domain.EmotionPrediction{
			{Emotion: domain.EmotionSadness, Probability: 0.35, Confidence: domain.ConfidenceLow},
			{Emotion: domain.EmotionCalm, Probability: 0.25, Confidence: domain.ConfidenceVeryLow},
		}
	case arousal > 0.7 && valence < 0.3:
		predictions = []domain.EmotionPrediction{
			{Emotion: domain.EmotionFear, Probability: 0.3, Confidence: domain.ConfidenceLow},
			{Emotion: domain.EmotionAnger, Probability: 0.3, Confidence: domain.ConfidenceLow},
		}
	case arousal > 0.7 && valence > 0.6:
		predictions = []domain.EmotionPrediction{
			{Emotion: domain.EmotionJoy, Probability: 0.4, Confidence: domain.ConfidenceLow},
			{Emotion: domain.EmotionSurprise, Probability: 0.2, Confidence: domain.ConfidenceVeryLow},
		}
	case stress > 0.7:
		predictions = []domain.EmotionPrediction{
			{Emotion: domain.EmotionFear, Probability: 0.25, Confidence: domain.ConfidenceLow},
			{Emotion: domain.EmotionAnger, Probability: 0.2, Confidence: domain.ConfidenceVeryLow},
		}
	default:
		predictions = []domain.EmotionPrediction{
			{Emotion: domain.EmotionCalm, Probability: 0.3, Confidence: domain.ConfidenceVeryLow},
			{Emotion: domain.EmotionUnknown, Probability: 0.3, Confidence: domain.ConfidenceVeryLow},
		}
	}

	sort.SliceStable(predictions, func(i, j int) bool {
		return predictions[i].Probability > predictions[j].Probability
	})

	return predictions, predictions[0].Emotion, predictions[0].Confidence
}

// buildExplanation renders the fixed-template rationale: activity context,
// the three dimensional estimates, contributing signals, conditional
// quality warnings, and the discrete-emotion caveat.
func buildExplanation(state domain.AffectiveState, signals []string, fw *domain.FeatureWindow) string {
	parts := []string{
		fmt.Sprintf("Activity context: %s.", fw.ActivityContext),
		fmt.Sprintf("Arousal: %s (%.2f), confidence %s.", state.ArousalLevel, state.ArousalScore, state.ArousalConfidence),
		fmt.Sprintf("Stress: %s (%.2f), confidence %s.", state.StressLevel, state.StressScore, state.StressConfidence),
		fmt.Sprintf("Valence: %s (%.2f), confidence %s.", state.ValenceLevel, state.ValenceScore, state.ValenceConfidence),
	}

	if len(signals) > 0 {
		parts = append(parts, fmt.Sprintf("Contributing signals: %s.", strings.Join(signals, ", ")))
	}

	if fw.Quality.DataStalenessWarning {
		parts = append(parts, "Warning: data may be stale (sync lag > 30 min).")
	}
	if !fw.Quality.SufficientBaseline {
		parts = append(parts, "Note: personalised baseline not yet calibrated (< 7 days of data).")
	}
	if fw.ActivityContext.IsExercise() {
		parts = append(parts, "Warning: physical activity detected - arousal/stress estimates may reflect exercise rather than emotional state.")
	}

	if len(state.DiscreteEmotions) > 0 {
		parts = append(parts, fmt.Sprintf(
			"Dominant emotion estimate: %s (confidence: %s). Note: discrete emotion classification from wearable physiology alone has inherently low accuracy.",
			state.DominantEmotion, state.DominantEmotionConfidence))
	}

	return strings.Join(parts, " ")
}

// dedupeSignals flattens signal lists preserving first-occurrence order.
func dedupeSignals(lists ...[]string) []string {
	seen := make(map[string]bool)
	out := make([]string, 0)
	for _, list := range lists {
		for _, s := range list {
			if !seen[s] {
				seen[s] = true
				out = append(out, s)
			}
		}
	}
	return out
}

func mergeFeatures(maps ...map[string]float64) map[string]float64 {
	out := make(map[string]float64)
	for _, m := range maps {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}

// sigmoid maps a z-score or deviation into (0,1): x=0 yields 0.5 and the
// tails saturate smoothly. k controls steepness.
func sigmoid(x, k float64) float64 {
	return 1.0 / (1.0 + math.Exp(-k*x))
}

func clamp01(v float64) float64 {
	return math.Max(0.0, math.Min(1.0, v))
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
