package service

import (
	"context"

	"github.com/affectsense/wearable-affect/internal/domain"
	"github.com/affectsense/wearable-affect/internal/repository"
)

// ParticipantService manages the participant registry.
type ParticipantService interface {
	// Register creates a participant. Returns ErrConflict if the ID is taken.
	Register(ctx context.Context, req *domain.CreateParticipantRequest) (*domain.Participant, error)
	// GetByID returns a participant by ID.
	GetByID(ctx context.Context, id string) (*domain.Participant, error)
}

type participantService struct {
	repo repository.ParticipantRepository
}

func NewParticipantService(repo repository.ParticipantRepository) ParticipantService {
	return &participantService{repo: repo}
}

func (s *participantService) Register(ctx context.Context, req *domain.CreateParticipantRequest) (*domain.Participant, error) {
	deviceType := req.DeviceType
	if deviceType == "" {
		deviceType = "fitbit"
	}

	participant := &domain.Participant{
		ID:          req.ID,
		DisplayName: req.DisplayName,
		DeviceType:  deviceType,
	}

	if err := s.repo.Create(ctx, participant); err != nil {
		return nil, err
	}
	return participant, nil
}

func (s *participantService) GetByID(ctx context.Context, id string) (*domain.Participant, error) {
	return s.repo.GetByID(ctx, id)
}
