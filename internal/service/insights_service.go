package service

import (
	"context"
	"sort"
	"time"

	"github.com/affectsense/wearable-affect/internal/domain"
	"github.com/affectsense/wearable-affect/internal/llm"
	"github.com/affectsense/wearable-affect/internal/repository"
)

const (
	// Window sizes for insights
	HistoryWindowDays = 30
	RecentWindowDays  = 7

	// MaxEMAForSummary bounds how many self-reports feed the summary.
	MaxEMAForSummary = 50
)

// InsightsService generates LLM-backed affect insights.
type InsightsService interface {
	// Generate creates affect insights for a participant.
	Generate(ctx context.Context, participantID string) (*domain.InsightsResponse, error)
}

type insightsService struct {
	llmClient       llm.InsightsLLM
	inferenceRepo   repository.InferenceOutputRepository
	emaRepo         repository.EMARepository
	baselineRepo    repository.BaselineRepository
	participantRepo repository.ParticipantRepository
}

// NewInsightsService creates a new InsightsService.
func NewInsightsService(
	llmClient llm.InsightsLLM,
	inferenceRepo repository.InferenceOutputRepository,
	emaRepo repository.EMARepository,
	baselineRepo repository.BaselineRepository,
	participantRepo repository.ParticipantRepository,
) InsightsService {
	return &insightsService{
		llmClient:       llmClient,
		inferenceRepo:   inferenceRepo,
		emaRepo:         emaRepo,
		baselineRepo:    baselineRepo,
		participantRepo: participantRepo,
	}
}

func (s *insightsService) Generate(ctx context.Context, participantID string) (*domain.InsightsResponse, error) {
	exists, err := s.participantRepo.Exists(ctx, participantID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrNotFound
	}

	now := time.Now().UTC()

	historyFrom := now.AddDate(0, 0, -HistoryWindowDays)
	history, err := s.computeTrend(ctx, participantID, historyFrom, now)
	if err != nil {
		return nil, err
	}

	recentFrom := now.AddDate(0, 0, -RecentWindowDays)
	recent, err := s.computeTrend(ctx, participantID, recentFrom, now)
	if err != nil {
		return nil, err
	}

	var latest *domain.InferenceSummary
	latestRows, err := s.inferenceRepo.GetLatest(ctx, participantID, 1)
	if err != nil {
		return nil, err
	}
	if len(latestRows) > 0 {
		summary := latestRows[0].ToSummary()
		latest = &summary
	}

	selfReports, err := s.computeEMASummary(ctx, participantID)
	if err != nil {
		return nil, err
	}

	calibrated := false
	observations := 0
	baseline, err := s.baselineRepo.Get(ctx, participantID)
	if err != nil {
		return nil, err
	}
	if baseline != nil {
		calibrated = baseline.IsCalibrated()
		observations = baseline.ObservationCount
	}

	insightsCtx := &domain.InsightsContext{
		ParticipantID:      participantID,
		BaselineCalibrated: calibrated,
		ObservationCount:   observations,
		Latest:             latest,
		Recent:             *recent,
		History:            *history,
		SelfReports:        *selfReports,
	}

	llmOutput, err := s.llmClient.GenerateInsights(ctx, insightsCtx)
	if err != nil {
		return nil, err
	}

	response := &domain.InsightsResponse{
		ParticipantID: participantID,
		GeneratedAt:   now,
		Insights:      *llmOutput,
		SelfReports:   *selfReports,
	}
	response.Trends.Recent = *recent
	response.Trends.History = *history

	return response, nil
}

// computeTrend aggregates inference outputs over [from, to).
func (s *insightsService) computeTrend(ctx context.Context, participantID string, from, to time.Time) (*domain.AffectTrend, error) {
	outputs, err := s.inferenceRepo.GetRange(ctx, participantID, repository.InferenceHistoryFilter{
		Start: from,
		End:   to,
		Limit: 100,
	})
	if err != nil {
		return nil, err
	}

	trend := &domain.AffectTrend{
		From:        from,
		To:          to,
		SampleCount: len(outputs),
	}
	if len(outputs) == 0 {
		return trend, nil
	}

	var arousalSum, stressSum, valenceSum, stressMax float64
	for i, out := range outputs {
		arousalSum += out.State.ArousalScore
		stressSum += out.State.StressScore
		valenceSum += out.State.ValenceScore
		if i == 0 || out.State.StressScore > stressMax {
			stressMax = out.State.StressScore
		}
		if out.State.StressScore > DefaultStressTriggerThreshold {
			trend.HighStressEvents++
		}
	}

	n := float64(len(outputs))
	trend.ArousalMean = floatPtr(round3(arousalSum / n))
	trend.StressMean = floatPtr(round3(stressSum / n))
	trend.ValenceMean = floatPtr(round3(valenceSum / n))
	trend.StressMax = floatPtr(round3(stressMax))

	return trend, nil
}

// computeEMASummary aggregates recent self-reports.
func (s *insightsService) computeEMASummary(ctx context.Context, participantID string) (*domain.EMASummary, error) {
	labels, err := s.emaRepo.GetByParticipant(ctx, participantID, MaxEMAForSummary)
	if err != nil {
		return nil, err
	}

	summary := &domain.EMASummary{SampleCount: len(labels)}
	if len(labels) == 0 {
		return summary, nil
	}

	var arousalSum, valenceSum, stressSum float64
	var arousalN, valenceN, stressN int
	emotionCounts := map[string]int{}
	for _, label := range labels {
		if label.Arousal != nil {
			arousalSum += float64(*label.Arousal)
			arousalN++
		}
		if label.Valence != nil {
			valenceSum += float64(*label.Valence)
			valenceN++
		}
		if label.Stress != nil {
			stressSum += float64(*label.Stress)
			stressN++
		}
		if label.EmotionTag != nil {
			emotionCounts[string(*label.EmotionTag)]++
		}
	}

	if arousalN > 0 {
		summary.ArousalMean = floatPtr(round2(arousalSum / float64(arousalN)))
	}
	if valenceN > 0 {
		summary.ValenceMean = floatPtr(round2(valenceSum / float64(valenceN)))
	}
	if stressN > 0 {
		summary.StressMean = floatPtr(round2(stressSum / float64(stressN)))
	}

	summary.TopEmotions = topEmotions(emotionCounts, 3)

	return summary, nil
}

// topEmotions returns up to n emotion tags by descending count, ties broken
// alphabetically for stable output.
func topEmotions(counts map[string]int, n int) []string {
	tags := make([]string, 0, len(counts))
	for tag := range counts {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool {
		if counts[tags[i]] != counts[tags[j]] {
			return counts[tags[i]] > counts[tags[j]]
		}
		return tags[i] < tags[j]
	})
	if len(tags) > n {
		tags = tags[:n]
	}
	return tags
}
