package service

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/affectsense/wearable-affect/internal/domain"
	"github.com/affectsense/wearable-affect/internal/repository"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// DefaultWindowSeconds is the default feature-window duration (5 minutes).
const DefaultWindowSeconds = 300

// RunInferenceOptions carries the optional knobs for one inference cycle.
type RunInferenceOptions struct {
	WindowEnd    *time.Time
	LastSyncTime *time.Time
}

// Notifier receives every persisted inference output for fan-out (e.g. a
// websocket hub). Delivery is best-effort and must not block the cycle.
type Notifier interface {
	NotifyInference(participantID string, output *domain.InferenceOutput)
}

// PipelineService orchestrates the affect inference cycle: window building,
// baseline lookup and EWMA update, inference, persistence, and the EMA
// trigger check. It is the only component with side effects; everything it
// calls in this package is pure.
type PipelineService interface {
	// RunInference executes one full cycle for a participant.
	RunInference(ctx context.Context, participantID string, opts RunInferenceOptions) (*domain.InferenceOutput, error)
	// GetLatestState returns the most recent inference output, or
	// ErrNotFound when none exists.
	GetLatestState(ctx context.Context, participantID string) (*domain.InferenceOutput, error)
	// GetHistory returns inference summaries in [start, end), newest first.
	GetHistory(ctx context.Context, participantID string, filter repository.InferenceHistoryFilter) ([]domain.InferenceOutput, error)
	// SubmitEMALabel validates and stores a self-report.
	SubmitEMALabel(ctx context.Context, participantID string, req *domain.SubmitEMARequest) (*domain.EMALabel, error)
	// ListEMALabels returns up to limit self-reports, most recent first.
	ListEMALabels(ctx context.Context, participantID string, limit int) ([]domain.EMALabel, error)
}

type pipelineService struct {
	readingRepo     repository.ReadingRepository
	inferenceRepo   repository.InferenceOutputRepository
	featureRepo     repository.FeatureWindowRepository
	baselineRepo    repository.BaselineRepository
	emaRepo         repository.EMARepository
	participantRepo repository.ParticipantRepository
	emaScheduler    *EMAScheduler
	notifier        Notifier
	windowSeconds   int

	// Cycles for the same participant must be serialized: the baseline
	// read-modify-write is not atomic across fetch, compute, and upsert.
	// Cycles for different participants run freely in parallel.
	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

// NewPipelineService wires the orchestrator. notifier may be nil;
// windowSeconds <= 0 falls back to the 5-minute default.
func NewPipelineService(
	readingRepo repository.ReadingRepository,
	inferenceRepo repository.InferenceOutputRepository,
	featureRepo repository.FeatureWindowRepository,
	baselineRepo repository.BaselineRepository,
	emaRepo repository.EMARepository,
	participantRepo repository.ParticipantRepository,
	emaScheduler *EMAScheduler,
	notifier Notifier,
	windowSeconds int,
) PipelineService {
	if windowSeconds <= 0 {
		windowSeconds = DefaultWindowSeconds
	}
	return &pipelineService{
		readingRepo:     readingRepo,
		inferenceRepo:   inferenceRepo,
		featureRepo:     featureRepo,
		baselineRepo:    baselineRepo,
		emaRepo:         emaRepo,
		participantRepo: participantRepo,
		emaScheduler:    emaScheduler,
		notifier:        notifier,
		windowSeconds:   windowSeconds,
		locks:           make(map[string]*sync.Mutex),
	}
}

func (s *pipelineService) participantLock(participantID string) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	if mu, ok := s.locks[participantID]; ok {
		return mu
	}
	mu := &sync.Mutex{}
	s.locks[participantID] = mu
	return mu
}

var overnightMetrics = []domain.MetricType{
	domain.MetricHRV,
	domain.MetricBreathingRate,
	domain.MetricSpO2,
	domain.MetricSkinTemperature,
}

var daytimeMetrics = []domain.MetricType{
	domain.MetricHeartRate,
	domain.MetricSteps,
	domain.MetricCalories,
	domain.MetricActiveZoneMinutes,
}

func (s *pipelineService) RunInference(ctx context.Context, participantID string, opts RunInferenceOptions) (*domain.InferenceOutput, error) {
	exists, err := s.participantRepo.Exists(ctx, participantID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrNotFound
	}

	mu := s.participantLock(participantID)
	mu.Lock()
	defer mu.Unlock()

	tracer := otel.Tracer("wearable-affect/pipeline")
	ctx, span := tracer.Start(ctx, "PipelineService.RunInference",
		trace.WithAttributes(
			attribute.String("participant.id", participantID),
		),
	)
	defer span.End()

	now := time.Now().UTC()
	if opts.WindowEnd != nil {
		now = opts.WindowEnd.UTC()
	}
	windowStart := now.Add(-time.Duration(s.windowSeconds) * time.Second)
	span.SetAttributes(
		attribute.String("window.start", windowStart.Format(time.RFC3339)),
		attribute.String("window.end", now.Format(time.RFC3339)),
	)

	// Daytime readings inside the window. A failed fetch here is fatal:
	// without activity and HR data there is nothing to infer on.
	var allReadings []domain.SensorReading
	for _, metric := range daytimeMetrics {
		rows, err := s.readingRepo.GetRange(ctx, participantID, metric, windowStart, now)
		if err != nil {
			return nil, err
		}
		allReadings = append(allReadings, rows...)
	}

	// Overnight metrics: most recent one each. A failed fetch degrades to
	// "no data for that metric"; daytime-only inference with lowered
	// confidence beats no inference.
	overnight := make(map[domain.MetricType][]domain.SensorReading)
	for _, metric := range overnightMetrics {
		rows, err := s.readingRepo.GetLatest(ctx, participantID, metric, 1)
		if err != nil {
			log.Printf("pipeline: overnight fetch failed for %s/%s: %v", participantID, metric, err)
			continue
		}
		if len(rows) > 0 {
			overnight[metric] = rows
		}
	}

	sleepRows, err := s.readingRepo.GetLatest(ctx, participantID, domain.MetricSleep, 1)
	if err != nil {
		log.Printf("pipeline: sleep fetch failed for %s: %v", participantID, err)
		sleepRows = nil
	}

	baseline, err := s.baselineRepo.Get(ctx, participantID)
	if err != nil {
		return nil, err
	}

	fw := BuildFeatureWindow(FeatureWindowInput{
		ParticipantID:     participantID,
		Readings:          allReadings,
		WindowStart:       windowStart,
		WindowEnd:         now,
		Baseline:          baseline,
		SleepReadings:     sleepRows,
		OvernightReadings: overnight,
		LastSyncTime:      opts.LastSyncTime,
		Now:               time.Now().UTC(),
	})

	if err := s.featureRepo.Save(ctx, fw); err != nil {
		return nil, err
	}

	output := InferAffectiveState(fw)
	output.FeatureWindowID = &fw.ID

	// The baseline only moves after inference succeeds; it is the one
	// piece of state that must not desync.
	if baseline == nil {
		baseline = domain.NewParticipantBaseline(participantID)
	}
	UpdateBaseline(baseline, fw, time.Now().UTC())
	if err := s.baselineRepo.Upsert(ctx, baseline); err != nil {
		return nil, err
	}

	if err := s.inferenceRepo.Save(ctx, output); err != nil {
		return nil, err
	}

	span.SetAttributes(
		attribute.Float64("affect.arousal", output.State.ArousalScore),
		attribute.Float64("affect.stress", output.State.StressScore),
		attribute.Float64("affect.valence", output.State.ValenceScore),
		attribute.String("affect.activity", string(output.ActivityContext)),
		attribute.Int("affect.signals", len(output.ContributingSignals)),
	)

	if s.notifier != nil {
		s.notifier.NotifyInference(participantID, output)
	}

	// EMA trigger check. Prompt delivery belongs to the notification
	// layer; a positive trigger is only logged here.
	dailyCount, err := s.emaRepo.CountToday(ctx, participantID, now)
	if err != nil {
		log.Printf("pipeline: ema count fetch failed for %s: %v", participantID, err)
		dailyCount = 0
	}
	result := s.emaScheduler.ShouldTriggerEventPrompt(participantID, output, dailyCount)
	if result.Trigger {
		log.Printf("pipeline: ema prompt triggered for %s: %s", participantID, result.Reason)
	}

	return output, nil
}

func (s *pipelineService) GetLatestState(ctx context.Context, participantID string) (*domain.InferenceOutput, error) {
	exists, err := s.participantRepo.Exists(ctx, participantID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrNotFound
	}

	rows, err := s.inferenceRepo.GetLatest(ctx, participantID, 1)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, domain.ErrNotFound
	}
	return &rows[0], nil
}

func (s *pipelineService) GetHistory(ctx context.Context, participantID string, filter repository.InferenceHistoryFilter) ([]domain.InferenceOutput, error) {
	exists, err := s.participantRepo.Exists(ctx, participantID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrNotFound
	}
	return s.inferenceRepo.GetRange(ctx, participantID, filter)
}

func (s *pipelineService) SubmitEMALabel(ctx context.Context, participantID string, req *domain.SubmitEMARequest) (*domain.EMALabel, error) {
	exists, err := s.participantRepo.Exists(ctx, participantID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrNotFound
	}

	label := BuildEMALabel(participantID, req, time.Now().UTC())
	if err := s.emaRepo.Save(ctx, label); err != nil {
		return nil, err
	}
	return label, nil
}

func (s *pipelineService) ListEMALabels(ctx context.Context, participantID string, limit int) ([]domain.EMALabel, error) {
	exists, err := s.participantRepo.Exists(ctx, participantID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrNotFound
	}
	return s.emaRepo.GetByParticipant(ctx, participantID, limit)
}
