package handler

import (
	"context"
	"time"

	"github.com/affectsense/wearable-affect/internal/domain"
	"github.com/affectsense/wearable-affect/internal/repository"
	"github.com/affectsense/wearable-affect/internal/service"
	"github.com/google/uuid"
)

// MockPipelineService is a mock implementation of PipelineService
type MockPipelineService struct {
	runInferenceFunc   func(ctx context.Context, participantID string, opts service.RunInferenceOptions) (*domain.InferenceOutput, error)
	getLatestStateFunc func(ctx context.Context, participantID string) (*domain.InferenceOutput, error)
	getHistoryFunc     func(ctx context.Context, participantID string, filter repository.InferenceHistoryFilter) ([]domain.InferenceOutput, error)
	submitEMAFunc      func(ctx context.Context, participantID string, req *domain.SubmitEMARequest) (*domain.EMALabel, error)
	listEMAFunc        func(ctx context.Context, participantID string, limit int) ([]domain.EMALabel, error)
}

func sampleOutput(participantID string) *domain.InferenceOutput {
	return &domain.InferenceOutput{
		ID:            uuid.New(),
		ParticipantID: participantID,
		Timestamp:     time.Now().UTC(),
		State: domain.AffectiveState{
			ArousalScore: 0.5,
			StressScore:  0.5,
			ValenceScore: 0.5,
		},
		ActivityContext: domain.ActivityRest,
		ModelVersion:    domain.ModelVersionRuleV1,
	}
}

func (m *MockPipelineService) RunInference(ctx context.Context, participantID string, opts service.RunInferenceOptions) (*domain.InferenceOutput, error) {
	if m.runInferenceFunc != nil {
		return m.runInferenceFunc(ctx, participantID, opts)
	}
	return sampleOutput(participantID), nil
}

func (m *MockPipelineService) GetLatestState(ctx context.Context, participantID string) (*domain.InferenceOutput, error) {
	if m.getLatestStateFunc != nil {
		return m.getLatestStateFunc(ctx, participantID)
	}
	return nil, domain.ErrNotFound
}

func (m *MockPipelineService) GetHistory(ctx context.Context, participantID string, filter repository.InferenceHistoryFilter) ([]domain.InferenceOutput, error) {
	if m.getHistoryFunc != nil {
		return m.getHistoryFunc(ctx, participantID, filter)
	}
	return nil, nil
}

func (m *MockPipelineService) SubmitEMALabel(ctx context.Context, participantID string, req *domain.SubmitEMARequest) (*domain.EMALabel, error) {
	if m.submitEMAFunc != nil {
		return m.submitEMAFunc(ctx, participantID, req)
	}
	return &domain.EMALabel{
		ID:            uuid.New(),
		ParticipantID: participantID,
		Timestamp:     time.Now().UTC(),
		Trigger:       domain.EMATriggerScheduled,
	}, nil
}

func (m *MockPipelineService) ListEMALabels(ctx context.Context, participantID string, limit int) ([]domain.EMALabel, error) {
	if m.listEMAFunc != nil {
		return m.listEMAFunc(ctx, participantID, limit)
	}
	return nil, nil
}

// MockParticipantService is a mock implementation of ParticipantService
type MockParticipantService struct {
	registerFunc func(ctx context.Context, req *domain.CreateParticipantRequest) (*domain.Participant, error)
	getByIDFunc  func(ctx context.Context, id string) (*domain.Participant, error)
}

func (m *MockParticipantService) Register(ctx context.Context, req *domain.CreateParticipantRequest) (*domain.Participant, error) {
	if m.registerFunc != nil {
		return m.registerFunc(ctx, req)
	}
	return &domain.Participant{ID: req.ID, DisplayName: req.DisplayName, DeviceType: "fitbit"}, nil
}

func (m *MockParticipantService) GetByID(ctx context.Context, id string) (*domain.Participant, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, domain.ErrNotFound
}

// MockInsightsService is a mock implementation of InsightsService
type MockInsightsService struct {
	generateFunc func(ctx context.Context, participantID string) (*domain.InsightsResponse, error)
}

func (m *MockInsightsService) Generate(ctx context.Context, participantID string) (*domain.InsightsResponse, error) {
	if m.generateFunc != nil {
		return m.generateFunc(ctx, participantID)
	}
	return &domain.InsightsResponse{
		ParticipantID: participantID,
		GeneratedAt:   time.Now().UTC(),
	}, nil
}
