package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/affectsense/wearable-affect/internal/api/validation"
	"github.com/affectsense/wearable-affect/internal/domain"
	"github.com/affectsense/wearable-affect/internal/service"
	"github.com/affectsense/wearable-affect/pkg/problem"
	"github.com/go-chi/chi/v5"
)

// @title Wearable Affect API
// @version 1.0
// @description Affect inference over wearable sensor data
// @BasePath /v1

type ParticipantHandler struct {
	service service.ParticipantService
}

func NewParticipantHandler(service service.ParticipantService) *ParticipantHandler {
	return &ParticipantHandler{service: service}
}

// Create handles POST /v1/participants
// @Summary Register a participant
// @Description Register a study participant with a linked wearable device
// @Tags participants
// @Accept json
// @Produce json
// @Param request body domain.CreateParticipantRequest true "Participant registration request"
// @Success 201 {object} domain.Participant
// @Failure 400 {object} problem.Problem
// @Failure 409 {object} problem.Problem "Participant ID already registered"
// @Failure 500 {object} problem.Problem
// @Router /participants [post]
func (h *ParticipantHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateParticipantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		problem.BadRequest("Invalid JSON body").Write(w)
		return
	}

	if fieldErrors := validation.Validate(req); fieldErrors != nil {
		problem.ValidationError("Request body contains invalid fields", fieldErrors).Write(w)
		return
	}

	participant, err := h.service.Register(r.Context(), &req)
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			problem.Conflict("Participant ID already registered").Write(w)
			return
		}
		problem.InternalError("Failed to register participant").Write(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(participant)
}

// GetByID handles GET /v1/participants/{participantId}
// @Summary Get participant by ID
// @Tags participants
// @Produce json
// @Param participantId path string true "Participant ID"
// @Success 200 {object} domain.Participant
// @Failure 404 {object} problem.Problem
// @Failure 500 {object} problem.Problem
// @Router /participants/{participantId} [get]
func (h *ParticipantHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	participantID := chi.URLParam(r, "participantId")

	participant, err := h.service.GetByID(r.Context(), participantID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			problem.NotFound("Participant not found").Write(w)
			return
		}
		problem.InternalError("Failed to get participant").Write(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(participant)
}
