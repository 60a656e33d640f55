package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/affectsense/wearable-affect/internal/domain"
	"github.com/affectsense/wearable-affect/internal/repository"
	"github.com/google/uuid"
)

type pipelineFixture struct {
	participants *MockParticipantRepository
	readings     *MockReadingRepository
	baselines    *MockBaselineRepository
	features     *MockFeatureWindowRepository
	inferences   *MockInferenceOutputRepository
	emas         *MockEMARepository
	notifier     *MockNotifier
	svc          PipelineService
}

func newPipelineFixture(t *testing.T) *pipelineFixture {
	t.Helper()
	f := &pipelineFixture{
		participants: NewMockParticipantRepository(),
		readings:     NewMockReadingRepository(),
		baselines:    NewMockBaselineRepository(),
		features:     NewMockFeatureWindowRepository(),
		inferences:   NewMockInferenceOutputRepository(),
		emas:         NewMockEMARepository(),
		notifier:     &MockNotifier{},
	}
	f.svc = NewPipelineService(
		f.readings, f.inferences, f.features, f.baselines, f.emas,
		f.participants, NewEMAScheduler(EMASchedulerConfig{}), f.notifier, 300,
	)
	if err := f.participants.Create(context.Background(), &domain.Participant{ID: "p1"}); err != nil {
		t.Fatalf("seed participant: %v", err)
	}
	return f
}

func (f *pipelineFixture) addHR(participantID string, ts time.Time, bpm float64) {
	f.readings.Add(domain.SensorReading{
		ID:            uuid.New(),
		ParticipantID: participantID,
		MetricType:    domain.MetricHeartRate,
		Timestamp:     ts,
		Value:         bpm,
	})
}

func TestRunInference_UnknownParticipant(t *testing.T) {
	f := newPipelineFixture(t)

	_, err := f.svc.RunInference(context.Background(), "ghost", RunInferenceOptions{})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestRunInference_FullCycle(t *testing.T) {
	f := newPipelineFixture(t)
	end := time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		f.addHR("p1", end.Add(-time.Duration(5-i)*time.Minute), 60+float64(i))
	}

	out, err := f.svc.RunInference(context.Background(), "p1", RunInferenceOptions{WindowEnd: timePtr(end)})
	if err != nil {
		t.Fatalf("RunInference: %v", err)
	}

	if len(f.features.saved) != 1 {
		t.Fatalf("saved %d feature windows, want 1", len(f.features.saved))
	}
	fw := f.features.saved[0]
	if out.FeatureWindowID == nil || *out.FeatureWindowID != fw.ID {
		t.Errorf("FeatureWindowID = %v, want %v", out.FeatureWindowID, fw.ID)
	}
	if !fw.WindowEnd.Equal(end) || !fw.WindowStart.Equal(end.Add(-5*time.Minute)) {
		t.Errorf("window = [%v, %v], want 5 minutes ending at %v", fw.WindowStart, fw.WindowEnd, end)
	}

	if len(f.inferences.outputs) != 1 {
		t.Errorf("saved %d inference outputs, want 1", len(f.inferences.outputs))
	}

	// A baseline is created on the first cycle and seeded from the window.
	b, _ := f.baselines.Get(context.Background(), "p1")
	if b == nil {
		t.Fatal("baseline was not created")
	}
	if b.ObservationCount != 1 {
		t.Errorf("ObservationCount = %d, want 1", b.ObservationCount)
	}

	if len(f.notifier.notified) != 1 || f.notifier.notified[0] != "p1" {
		t.Errorf("notified = %v, want [p1]", f.notifier.notified)
	}
}

func TestRunInference_ReusesExistingBaseline(t *testing.T) {
	f := newPipelineFixture(t)
	end := time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)
	f.addHR("p1", end.Add(-time.Minute), 62)

	existing := domain.NewParticipantBaseline("p1")
	existing.ObservationCount = 5
	if err := f.baselines.Upsert(context.Background(), existing); err != nil {
		t.Fatalf("seed baseline: %v", err)
	}

	if _, err := f.svc.RunInference(context.Background(), "p1", RunInferenceOptions{WindowEnd: timePtr(end)}); err != nil {
		t.Fatalf("RunInference: %v", err)
	}

	b, _ := f.baselines.Get(context.Background(), "p1")
	if b.ObservationCount != 6 {
		t.Errorf("ObservationCount = %d, want 6", b.ObservationCount)
	}
}

func TestRunInference_OvernightFetchFailureDegrades(t *testing.T) {
	f := newPipelineFixture(t)
	end := time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)
	f.addHR("p1", end.Add(-time.Minute), 62)
	f.readings.FailMetric(domain.MetricHRV, errors.New("store down"))

	out, err := f.svc.RunInference(context.Background(), "p1", RunInferenceOptions{WindowEnd: timePtr(end)})
	if err != nil {
		t.Fatalf("RunInference should degrade, got %v", err)
	}
	if f.features.saved[0].HRVRMSSD != nil {
		t.Error("HRVRMSSD should be nil when the overnight fetch fails")
	}
	if out.State.ArousalScore < 0 || out.State.ArousalScore > 1 {
		t.Errorf("ArousalScore = %v out of range", out.State.ArousalScore)
	}
}

func TestRunInference_DaytimeFetchFailureIsFatal(t *testing.T) {
	f := newPipelineFixture(t)
	storeErr := errors.New("store down")
	f.readings.FailMetric(domain.MetricHeartRate, storeErr)

	_, err := f.svc.RunInference(context.Background(), "p1", RunInferenceOptions{})
	if !errors.Is(err, storeErr) {
		t.Errorf("err = %v, want the store error", err)
	}
	if len(f.inferences.outputs) != 0 {
		t.Error("nothing should be persisted on a fatal fetch failure")
	}
}

func TestGetLatestState(t *testing.T) {
	f := newPipelineFixture(t)

	if _, err := f.svc.GetLatestState(context.Background(), "p1"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound with no history", err)
	}

	end := time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)
	f.addHR("p1", end.Add(-time.Minute), 62)
	if _, err := f.svc.RunInference(context.Background(), "p1", RunInferenceOptions{WindowEnd: timePtr(end)}); err != nil {
		t.Fatalf("RunInference: %v", err)
	}

	got, err := f.svc.GetLatestState(context.Background(), "p1")
	if err != nil {
		t.Fatalf("GetLatestState: %v", err)
	}
	if got.ParticipantID != "p1" {
		t.Errorf("ParticipantID = %q, want p1", got.ParticipantID)
	}
}

func TestGetHistory(t *testing.T) {
	f := newPipelineFixture(t)
	base := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		end := base.Add(time.Duration(i) * time.Hour)
		f.addHR("p1", end.Add(-time.Minute), 60+float64(i))
		if _, err := f.svc.RunInference(context.Background(), "p1", RunInferenceOptions{WindowEnd: timePtr(end)}); err != nil {
			t.Fatalf("RunInference %d: %v", i, err)
		}
	}

	got, err := f.svc.GetHistory(context.Background(), "p1", repository.InferenceHistoryFilter{
		Start: base.Add(-time.Hour),
		End:   base.Add(3 * time.Hour),
		Limit: 10,
	})
	if err != nil {
		t.Fatalf("GetHistory: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d outputs, want 3", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].Timestamp.After(got[i-1].Timestamp) {
			t.Error("history must be newest first")
		}
	}

	if _, err := f.svc.GetHistory(context.Background(), "ghost", repository.InferenceHistoryFilter{}); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound for unknown participant", err)
	}
}

func TestSubmitAndListEMALabels(t *testing.T) {
	f := newPipelineFixture(t)

	label, err := f.svc.SubmitEMALabel(context.Background(), "p1", &domain.SubmitEMARequest{
		Arousal:    intPtr(5),
		Stress:     intPtr(3),
		EmotionTag: "calm",
	})
	if err != nil {
		t.Fatalf("SubmitEMALabel: %v", err)
	}
	if label.ID == uuid.Nil {
		t.Error("label should be assigned an ID on save")
	}

	labels, err := f.svc.ListEMALabels(context.Background(), "p1", 10)
	if err != nil {
		t.Fatalf("ListEMALabels: %v", err)
	}
	if len(labels) != 1 {
		t.Fatalf("got %d labels, want 1", len(labels))
	}
	if labels[0].EmotionTag == nil || *labels[0].EmotionTag != domain.EmotionCalm {
		t.Errorf("EmotionTag = %v, want calm", labels[0].EmotionTag)
	}

	if _, err := f.svc.SubmitEMALabel(context.Background(), "ghost", &domain.SubmitEMARequest{}); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound for unknown participant", err)
	}
}
