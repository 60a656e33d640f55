package service

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/affectsense/wearable-affect/internal/domain"
)

// EMA protocol defaults: 6 scheduled prompts across waking hours plus
// event-based prompts, capped to avoid prompt fatigue.
const (
	DefaultStressTriggerThreshold = 0.65
	DefaultMaxDailyPrompts        = 8
	DefaultMinEventInterval       = 2 * time.Hour
)

// PromptTime is a time-of-day for a scheduled EMA prompt.
type PromptTime struct {
	Hour   int
	Minute int
}

func (p PromptTime) String() string {
	return fmt.Sprintf("%02d:%02d", p.Hour, p.Minute)
}

// DefaultPromptTimes spreads six prompts across 08:00-22:00.
var DefaultPromptTimes = []PromptTime{
	{8, 30}, {10, 30}, {12, 30}, {14, 30}, {17, 30}, {20, 30},
}

// ParsePromptTime parses an "HH:MM" clock string.
func ParsePromptTime(s string) (PromptTime, error) {
	var pt PromptTime
	if _, err := fmt.Sscanf(s, "%d:%d", &pt.Hour, &pt.Minute); err != nil {
		return PromptTime{}, fmt.Errorf("invalid prompt time %q: %w", s, err)
	}
	if pt.Hour < 0 || pt.Hour > 23 || pt.Minute < 0 || pt.Minute > 59 {
		return PromptTime{}, fmt.Errorf("invalid prompt time %q: out of range", s)
	}
	return pt, nil
}

// EMASchedulerConfig tunes the scheduler. Zero values fall back to the
// defaults above.
type EMASchedulerConfig struct {
	PromptTimes      []PromptTime
	MaxDaily         int
	StressThreshold  float64
	MinEventInterval time.Duration
}

// EMAScheduler decides when to solicit self-reports: fixed scheduled
// prompts polled by an external scheduler, and event-based prompts fired
// on high stress at rest. It is an injected dependency, not a singleton;
// its per-participant state is mutex-guarded so concurrent cycles for
// different participants are safe.
type EMAScheduler struct {
	promptTimes      []PromptTime
	maxDaily         int
	stressThreshold  float64
	minEventInterval time.Duration

	mu              sync.Mutex
	lastEventPrompt map[string]time.Time
	dailyCounts     map[string]int
	dailyDate       map[string]string
}

// NewEMAScheduler builds a scheduler from config, applying defaults for
// zero values.
func NewEMAScheduler(cfg EMASchedulerConfig) *EMAScheduler {
	s := &EMAScheduler{
		promptTimes:      cfg.PromptTimes,
		maxDaily:         cfg.MaxDaily,
		stressThreshold:  cfg.StressThreshold,
		minEventInterval: cfg.MinEventInterval,
		lastEventPrompt:  make(map[string]time.Time),
		dailyCounts:      make(map[string]int),
		dailyDate:        make(map[string]string),
	}
	if len(s.promptTimes) == 0 {
		s.promptTimes = DefaultPromptTimes
	}
	if s.maxDaily <= 0 {
		s.maxDaily = DefaultMaxDailyPrompts
	}
	if s.stressThreshold <= 0 {
		s.stressThreshold = DefaultStressTriggerThreshold
	}
	if s.minEventInterval <= 0 {
		s.minEventInterval = DefaultMinEventInterval
	}
	return s
}

// ScheduledPrompts returns the configured prompt times.
func (s *EMAScheduler) ScheduledPrompts() []PromptTime {
	out := make([]PromptTime, len(s.promptTimes))
	copy(out, s.promptTimes)
	return out
}

// IsPromptDue reports whether now falls within the tolerance window of any
// scheduled prompt time.
func (s *EMAScheduler) IsPromptDue(now time.Time, toleranceMinutes int) bool {
	tolerance := time.Duration(toleranceMinutes) * time.Minute
	for _, pt := range s.promptTimes {
		prompt := time.Date(now.Year(), now.Month(), now.Day(), pt.Hour, pt.Minute, 0, 0, now.Location())
		diff := now.Sub(prompt)
		if diff < 0 {
			diff = -diff
		}
		if diff <= tolerance {
			return true
		}
	}
	return false
}

// ShouldTriggerEventPrompt evaluates whether an event-based prompt should
// fire for this inference output. Checks run in a fixed order and the
// first failing one short-circuits with its reason, so exactly one reason
// is ever returned: daily cap, stress threshold, activity context, then
// cooldown. Triggering updates the internal counters as a side effect.
// dailyEMACount is the day's already-stored label count from the EMA store.
func (s *EMAScheduler) ShouldTriggerEventPrompt(participantID string, inference *domain.InferenceOutput, dailyEMACount int) domain.EMATriggerResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	stress := inference.State.StressScore
	ctx := inference.ActivityContext
	now := inference.Timestamp

	// Reset internal counters when the date rolls over.
	todayStr := now.Format("2006-01-02")
	if s.dailyDate[participantID] != todayStr {
		s.dailyCounts[participantID] = 0
		s.dailyDate[participantID] = todayStr
	}

	if dailyEMACount+s.dailyCounts[participantID] >= s.maxDaily {
		return domain.EMATriggerResult{Reason: "daily_limit_reached"}
	}

	if stress < s.stressThreshold {
		return domain.EMATriggerResult{Reason: "stress_below_threshold"}
	}

	if ctx.IsExercise() {
		return domain.EMATriggerResult{Reason: "physical_activity_in_progress"}
	}

	if last, ok := s.lastEventPrompt[participantID]; ok {
		elapsed := now.Sub(last)
		if elapsed < s.minEventInterval {
			return domain.EMATriggerResult{
				Reason: fmt.Sprintf("too_recent (last %ds ago)", int(elapsed.Seconds())),
			}
		}
	}

	s.lastEventPrompt[participantID] = now
	s.dailyCounts[participantID]++

	id := inference.ID
	log.Printf("ema: event prompt triggered for %s (stress=%.2f, context=%s)", participantID, stress, ctx)
	return domain.EMATriggerResult{
		Trigger:           true,
		Reason:            fmt.Sprintf("stress_score=%.2f at %s", stress, ctx),
		StressScore:       &stress,
		InferenceOutputID: &id,
	}
}

// BuildEMALabel validates user input into a storable label. An emotion tag
// outside the closed set is nulled with a warning rather than failing the
// submission.
func BuildEMALabel(participantID string, req *domain.SubmitEMARequest, now time.Time) *domain.EMALabel {
	var emotion *domain.DiscreteEmotion
	if req.EmotionTag != "" {
		if parsed, ok := domain.ParseDiscreteEmotion(strings.ToLower(req.EmotionTag)); ok {
			emotion = &parsed
		} else {
			log.Printf("ema: invalid emotion tag %q dropped for %s", req.EmotionTag, participantID)
		}
	}

	trigger := req.Trigger
	if trigger == "" {
		trigger = domain.EMATriggerScheduled
	}

	return &domain.EMALabel{
		ParticipantID:     participantID,
		Timestamp:         now,
		Arousal:           req.Arousal,
		Valence:           req.Valence,
		Stress:            req.Stress,
		EmotionTag:        emotion,
		ContextNote:       req.ContextNote,
		Trigger:           trigger,
		InferenceOutputID: req.InferenceOutputID,
	}
}
