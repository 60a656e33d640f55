package service

import (
	"context"
	"sort"
	"time"

	"github.com/affectsense/wearable-affect/internal/domain"
	"github.com/affectsense/wearable-affect/internal/repository"
	"github.com/affectsense/wearable-affect/pkg/pagination"
	"github.com/google/uuid"
)

// MockParticipantRepository is a mock implementation of ParticipantRepository
type MockParticipantRepository struct {
	participants map[string]*domain.Participant
	err          error
}

func NewMockParticipantRepository() *MockParticipantRepository {
	return &MockParticipantRepository{
		participants: make(map[string]*domain.Participant),
	}
}

func (m *MockParticipantRepository) Create(ctx context.Context, p *domain.Participant) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.participants[p.ID]; ok {
		return domain.ErrConflict
	}
	p.CreatedAt = time.Now()
	m.participants[p.ID] = p
	return nil
}

func (m *MockParticipantRepository) GetByID(ctx context.Context, id string) (*domain.Participant, error) {
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.participants[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (m *MockParticipantRepository) Exists(ctx context.Context, id string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	_, ok := m.participants[id]
	return ok, nil
}

func (m *MockParticipantRepository) SetError(err error) {
	m.err = err
}

// MockReadingRepository is a mock implementation of ReadingRepository.
// Failures can be injected per metric to exercise degraded fetch paths.
type MockReadingRepository struct {
	readings    map[domain.MetricType][]domain.SensorReading
	metricError map[domain.MetricType]error
	err         error
}

func NewMockReadingRepository() *MockReadingRepository {
	return &MockReadingRepository{
		readings:    make(map[domain.MetricType][]domain.SensorReading),
		metricError: make(map[domain.MetricType]error),
	}
}

func (m *MockReadingRepository) Add(r domain.SensorReading) {
	m.readings[r.MetricType] = append(m.readings[r.MetricType], r)
}

func (m *MockReadingRepository) FailMetric(metric domain.MetricType, err error) {
	m.metricError[metric] = err
}

func (m *MockReadingRepository) GetRange(ctx context.Context, participantID string, metric domain.MetricType, start, end time.Time) ([]domain.SensorReading, error) {
	if m.err != nil {
		return nil, m.err
	}
	if err := m.metricError[metric]; err != nil {
		return nil, err
	}
	var result []domain.SensorReading
	for _, r := range m.readings[metric] {
		if r.ParticipantID == participantID && !r.Timestamp.Before(start) && r.Timestamp.Before(end) {
			result = append(result, r)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Timestamp.Before(result[j].Timestamp)
	})
	return result, nil
}

func (m *MockReadingRepository) GetLatest(ctx context.Context, participantID string, metric domain.MetricType, limit int) ([]domain.SensorReading, error) {
	if m.err != nil {
		return nil, m.err
	}
	if err := m.metricError[metric]; err != nil {
		return nil, err
	}
	var result []domain.SensorReading
	for _, r := range m.readings[metric] {
		if r.ParticipantID == participantID {
			result = append(result, r)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Timestamp.After(result[j].Timestamp)
	})
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (m *MockReadingRepository) Save(ctx context.Context, reading *domain.SensorReading) error {
	if m.err != nil {
		return m.err
	}
	m.Add(*reading)
	return nil
}

// MockBaselineRepository is a mock implementation of BaselineRepository
type MockBaselineRepository struct {
	baselines map[string]*domain.ParticipantBaseline
	err       error
}

func NewMockBaselineRepository() *MockBaselineRepository {
	return &MockBaselineRepository{
		baselines: make(map[string]*domain.ParticipantBaseline),
	}
}

func (m *MockBaselineRepository) Get(ctx context.Context, participantID string) (*domain.ParticipantBaseline, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.baselines[participantID], nil
}

func (m *MockBaselineRepository) Upsert(ctx context.Context, baseline *domain.ParticipantBaseline) error {
	if m.err != nil {
		return m.err
	}
	m.baselines[baseline.ParticipantID] = baseline
	return nil
}

// MockFeatureWindowRepository is a mock implementation of FeatureWindowRepository
type MockFeatureWindowRepository struct {
	windows map[uuid.UUID]*domain.FeatureWindow
	saved   []*domain.FeatureWindow
	err     error
}

func NewMockFeatureWindowRepository() *MockFeatureWindowRepository {
	return &MockFeatureWindowRepository{
		windows: make(map[uuid.UUID]*domain.FeatureWindow),
	}
}

func (m *MockFeatureWindowRepository) Save(ctx context.Context, window *domain.FeatureWindow) error {
	if m.err != nil {
		return m.err
	}
	if window.ID == uuid.Nil {
		window.ID = uuid.New()
	}
	m.windows[window.ID] = window
	m.saved = append(m.saved, window)
	return nil
}

func (m *MockFeatureWindowRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.FeatureWindow, error) {
	if m.err != nil {
		return nil, m.err
	}
	fw, ok := m.windows[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return fw, nil
}

// MockInferenceOutputRepository is a mock implementation of InferenceOutputRepository
type MockInferenceOutputRepository struct {
	outputs []domain.InferenceOutput
	err     error
}

func NewMockInferenceOutputRepository() *MockInferenceOutputRepository {
	return &MockInferenceOutputRepository{}
}

func (m *MockInferenceOutputRepository) Save(ctx context.Context, output *domain.InferenceOutput) error {
	if m.err != nil {
		return m.err
	}
	if output.ID == uuid.Nil {
		output.ID = uuid.New()
	}
	output.CreatedAt = time.Now()
	m.outputs = append(m.outputs, *output)
	return nil
}

func (m *MockInferenceOutputRepository) GetLatest(ctx context.Context, participantID string, limit int) ([]domain.InferenceOutput, error) {
	if m.err != nil {
		return nil, m.err
	}
	result := m.forParticipantDesc(participantID)
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (m *MockInferenceOutputRepository) GetRange(ctx context.Context, participantID string, filter repository.InferenceHistoryFilter) ([]domain.InferenceOutput, error) {
	if m.err != nil {
		return nil, m.err
	}
	var result []domain.InferenceOutput
	for _, o := range m.forParticipantDesc(participantID) {
		if o.Timestamp.Before(filter.Start) || !o.Timestamp.Before(filter.End) {
			continue
		}
		result = append(result, o)
	}
	if filter.Cursor != "" {
		cursor, err := pagination.DecodeCursor(filter.Cursor)
		if err == nil && cursor != nil {
			var filtered []domain.InferenceOutput
			for _, o := range result {
				if o.Timestamp.Before(cursor.Timestamp) {
					filtered = append(filtered, o)
				}
			}
			result = filtered
		}
	}
	limit := pagination.NormalizeLimit(filter.Limit)
	if len(result) > limit+1 {
		result = result[:limit+1]
	}
	return result, nil
}

func (m *MockInferenceOutputRepository) forParticipantDesc(participantID string) []domain.InferenceOutput {
	var result []domain.InferenceOutput
	for _, o := range m.outputs {
		if o.ParticipantID == participantID {
			result = append(result, o)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Timestamp.After(result[j].Timestamp)
	})
	return result
}

// MockEMARepository is a mock implementation of EMARepository
type MockEMARepository struct {
	labels       []domain.EMALabel
	err          error
	countTodayFn func() (int, error)
}

func NewMockEMARepository() *MockEMARepository {
	return &MockEMARepository{}
}

func (m *MockEMARepository) Save(ctx context.Context, label *domain.EMALabel) error {
	if m.err != nil {
		return m.err
	}
	if label.ID == uuid.Nil {
		label.ID = uuid.New()
	}
	m.labels = append(m.labels, *label)
	return nil
}

func (m *MockEMARepository) CountToday(ctx context.Context, participantID string, now time.Time) (int, error) {
	if m.countTodayFn != nil {
		return m.countTodayFn()
	}
	if m.err != nil {
		return 0, m.err
	}
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.AddDate(0, 0, 1)
	count := 0
	for _, l := range m.labels {
		if l.ParticipantID == participantID && !l.Timestamp.Before(dayStart) && l.Timestamp.Before(dayEnd) {
			count++
		}
	}
	return count, nil
}

func (m *MockEMARepository) GetByParticipant(ctx context.Context, participantID string, limit int) ([]domain.EMALabel, error) {
	if m.err != nil {
		return nil, m.err
	}
	var result []domain.EMALabel
	for _, l := range m.labels {
		if l.ParticipantID == participantID {
			result = append(result, l)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Timestamp.After(result[j].Timestamp)
	})
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// MockNotifier records broadcasts from the pipeline.
type MockNotifier struct {
	notified []string
}

func (m *MockNotifier) NotifyInference(participantID string, output *domain.InferenceOutput) {
	m.notified = append(m.notified, participantID)
}

// MockInsightsLLM returns a canned insights output.
type MockInsightsLLM struct {
	output  *domain.LLMInsightsOutput
	lastCtx *domain.InsightsContext
	err     error
}

func (m *MockInsightsLLM) GenerateInsights(ctx context.Context, insightsCtx *domain.InsightsContext) (*domain.LLMInsightsOutput, error) {
	m.lastCtx = insightsCtx
	if m.err != nil {
		return nil, m.err
	}
	if m.output != nil {
		return m.output, nil
	}
	return &domain.LLMInsightsOutput{
		Summary:      "Stable affective trends.",
		Observations: []string{"Stress stayed low."},
		Guidance:     []string{"Keep the current routine."},
	}, nil
}

// Helper functions

func intPtr(i int) *int {
	return &i
}

func timePtr(t time.Time) *time.Time {
	return &t
}
