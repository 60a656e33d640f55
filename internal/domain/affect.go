package domain

// Confidence is the evidence-quality tier attached to every affect estimate.
// It reflects signal availability, activity context, and personalisation
// state; outputs are estimates with confidence, never diagnoses.
type Confidence string

const (
	ConfidenceHigh    Confidence = "high"
	ConfidenceMedium  Confidence = "medium"
	ConfidenceLow     Confidence = "low"
	ConfidenceVeryLow Confidence = "very_low"
)

// ArousalLevel is the discretised physiological-activation level.
type ArousalLevel string

const (
	ArousalVeryLow  ArousalLevel = "very_low"
	ArousalLow      ArousalLevel = "low"
	ArousalModerate ArousalLevel = "moderate"
	ArousalHigh     ArousalLevel = "high"
	ArousalVeryHigh ArousalLevel = "very_high"
)

// StressLevel is the discretised stress / recovery level.
type StressLevel string

const (
	StressRelaxed  StressLevel = "relaxed"
	StressLow      StressLevel = "low_stress"
	StressModerate StressLevel = "moderate_stress"
	StressHigh     StressLevel = "high_stress"
	StressVeryHigh StressLevel = "very_high_stress"
)

// ValenceLevel is the coarse pleasantness estimate.
type ValenceLevel string

const (
	ValenceNegative         ValenceLevel = "negative"
	ValenceSlightlyNegative ValenceLevel = "slightly_negative"
	ValenceNeutral          ValenceLevel = "neutral"
	ValenceSlightlyPositive ValenceLevel = "slightly_positive"
	ValencePositive         ValenceLevel = "positive"
)

// DiscreteEmotion is the closed basic-emotion set (Ekman + calm).
// Classification confidence from wearable physiology alone is inherently low.
type DiscreteEmotion string

const (
	EmotionJoy      DiscreteEmotion = "joy"
	EmotionSadness  DiscreteEmotion = "sadness"
	EmotionAnger    DiscreteEmotion = "anger"
	EmotionFear     DiscreteEmotion = "fear"
	EmotionDisgust  DiscreteEmotion = "disgust"
	EmotionSurprise DiscreteEmotion = "surprise"
	EmotionCalm     DiscreteEmotion = "calm"
	EmotionUnknown  DiscreteEmotion = "unknown"
)

// ParseDiscreteEmotion validates a free-form tag against the closed emotion
// set. Returns ok=false for anything outside it.
func ParseDiscreteEmotion(tag string) (DiscreteEmotion, bool) {
	switch DiscreteEmotion(tag) {
	case EmotionJoy, EmotionSadness, EmotionAnger, EmotionFear,
		EmotionDisgust, EmotionSurprise, EmotionCalm, EmotionUnknown:
		return DiscreteEmotion(tag), true
	}
	return "", false
}

// ActivityContext labels the movement state of a window, used to control
// for physical-activity confounders in arousal/stress scoring.
type ActivityContext string

const (
	ActivityRest             ActivityContext = "rest"
	ActivityLowMovement      ActivityContext = "low_movement"
	ActivityModerateMovement ActivityContext = "moderate_movement"
	ActivityHighMovement     ActivityContext = "high_movement"
	ActivitySleep            ActivityContext = "sleep"
	ActivityUnknown          ActivityContext = "unknown"
)

// IsRestful reports whether the context is calm enough for HR-based
// arousal/stress evidence (rest or low movement).
func (a ActivityContext) IsRestful() bool {
	return a == ActivityRest || a == ActivityLowMovement
}

// IsExercise reports whether the context indicates active exercise.
func (a ActivityContext) IsExercise() bool {
	return a == ActivityModerateMovement || a == ActivityHighMovement
}

// Level threshold tables. Half-open buckets [lo, hi); the upper bound of the
// last bucket is 1.01 so a score of exactly 1.0 lands in it.

type levelBucket struct {
	lo, hi float64
}

var arousalBuckets = []struct {
	level ArousalLevel
	levelBucket
}{
	{ArousalVeryLow, levelBucket{0.0, 0.15}},
	{ArousalLow, levelBucket{0.15, 0.35}},
	{ArousalModerate, levelBucket{0.35, 0.65}},
	{ArousalHigh, levelBucket{0.65, 0.85}},
	{ArousalVeryHigh, levelBucket{0.85, 1.01}},
}

var stressBuckets = []struct {
	level StressLevel
	levelBucket
}{
	{StressRelaxed, levelBucket{0.0, 0.15}},
	{StressLow, levelBucket{0.15, 0.35}},
	{StressModerate, levelBucket{0.35, 0.60}},
	{StressHigh, levelBucket{0.60, 0.80}},
	{StressVeryHigh, levelBucket{0.80, 1.01}},
}

var valenceBuckets = []struct {
	level ValenceLevel
	levelBucket
}{
	{ValenceNegative, levelBucket{0.0, 0.20}},
	{ValenceSlightlyNegative, levelBucket{0.20, 0.40}},
	{ValenceNeutral, levelBucket{0.40, 0.60}},
	{ValenceSlightlyPositive, levelBucket{0.60, 0.80}},
	{ValencePositive, levelBucket{0.80, 1.01}},
}

// ArousalLevelForScore maps a 0-1 arousal score to its categorical level.
func ArousalLevelForScore(score float64) ArousalLevel {
	for _, b := range arousalBuckets {
		if score >= b.lo && score < b.hi {
			return b.level
		}
	}
	return ArousalVeryHigh
}

// StressLevelForScore maps a 0-1 stress score to its categorical level.
func StressLevelForScore(score float64) StressLevel {
	for _, b := range stressBuckets {
		if score >= b.lo && score < b.hi {
			return b.level
		}
	}
	return StressVeryHigh
}

// ValenceLevelForScore maps a 0-1 valence score to its categorical level.
func ValenceLevelForScore(score float64) ValenceLevel {
	for _, b := range valenceBuckets {
		if score >= b.lo && score < b.hi {
			return b.level
		}
	}
	return ValencePositive
}

// EmotionPrediction is one ranked discrete-emotion guess.
type EmotionPrediction struct {
	Emotion     DiscreteEmotion `json:"emotion"`
	Probability float64         `json:"probability"`
	Confidence  Confidence      `json:"confidence"`
}

// AffectiveState is the dimensional + discrete affect estimate produced by
// the inference engine. All scores live in [0,1].
type AffectiveState struct {
	ArousalScore      float64      `json:"arousal_score"`
	ArousalLevel      ArousalLevel `json:"arousal_level"`
	ArousalConfidence Confidence   `json:"arousal_confidence"`

	StressScore      float64     `json:"stress_score"`
	StressLevel      StressLevel `json:"stress_level"`
	StressConfidence Confidence  `json:"stress_confidence"`

	ValenceScore      float64      `json:"valence_score"`
	ValenceLevel      ValenceLevel `json:"valence_level"`
	ValenceConfidence Confidence   `json:"valence_confidence"`

	DiscreteEmotions          []EmotionPrediction `json:"discrete_emotions"`
	DominantEmotion           DiscreteEmotion     `json:"dominant_emotion"`
	DominantEmotionConfidence Confidence          `json:"dominant_emotion_confidence"`
}
