package domain

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
)

// The JSON-serialized sub-records (state, signals, features, quality) must
// survive a round-trip exactly; gorm stores them through the same encoding.
func TestInferenceOutputJSONRoundTrip(t *testing.T) {
	fwID := uuid.New()
	original := InferenceOutput{
		ID:            uuid.New(),
		ParticipantID: "p1",
		Timestamp:     time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC),
		State: AffectiveState{
			ArousalScore:      0.62,
			ArousalLevel:      ArousalModerate,
			ArousalConfidence: ConfidenceMedium,
			StressScore:       0.71,
			StressLevel:       StressHigh,
			StressConfidence:  ConfidenceHigh,
			ValenceScore:      0.35,
			ValenceLevel:      ValenceSlightlyNegative,
			ValenceConfidence: ConfidenceLow,
			DiscreteEmotions: []EmotionPrediction{
				{Emotion: EmotionFear, Probability: 0.3, Confidence: ConfidenceLow},
				{Emotion: EmotionAnger, Probability: 0.2, Confidence: ConfidenceLow},
			},
			DominantEmotion:           EmotionFear,
			DominantEmotionConfidence: ConfidenceLow,
		},
		FeatureWindowID:     &fwID,
		ActivityContext:     ActivityRest,
		ContributingSignals: []string{"hr_elevated_at_rest", "hrv_below_baseline"},
		Explanation:         "Activity context: rest.",
		TopFeatures:         map[string]float64{"hr_baseline_z": 2.5},
		Quality: QualityFlags{
			HRCoveragePct:        floatPtr(0.8),
			SufficientBaseline:   true,
			DataStalenessWarning: true,
		},
		ModelVersion: ModelVersionRuleV1,
	}

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded InferenceOutput
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if !reflect.DeepEqual(original.State, decoded.State) {
		t.Errorf("State changed across round-trip:\n got %+v\nwant %+v", decoded.State, original.State)
	}
	if !reflect.DeepEqual(original.ContributingSignals, decoded.ContributingSignals) {
		t.Errorf("ContributingSignals = %v, want %v", decoded.ContributingSignals, original.ContributingSignals)
	}
	if !reflect.DeepEqual(original.TopFeatures, decoded.TopFeatures) {
		t.Errorf("TopFeatures = %v, want %v", decoded.TopFeatures, original.TopFeatures)
	}
	if !reflect.DeepEqual(original.Quality, decoded.Quality) {
		t.Errorf("Quality = %+v, want %+v", decoded.Quality, original.Quality)
	}
}

func floatPtr(f float64) *float64 {
	return &f
}
