package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/affectsense/wearable-affect/internal/api/validation"
	"github.com/affectsense/wearable-affect/internal/domain"
	"github.com/affectsense/wearable-affect/internal/service"
	"github.com/affectsense/wearable-affect/pkg/pagination"
	"github.com/affectsense/wearable-affect/pkg/problem"
	"github.com/go-chi/chi/v5"
)

// DefaultPromptToleranceMinutes is the window around a scheduled prompt time
// during which the schedule endpoint reports a prompt as due.
const DefaultPromptToleranceMinutes = 5

type EMAHandler struct {
	pipeline  service.PipelineService
	scheduler *service.EMAScheduler
}

func NewEMAHandler(pipeline service.PipelineService, scheduler *service.EMAScheduler) *EMAHandler {
	return &EMAHandler{pipeline: pipeline, scheduler: scheduler}
}

// Submit handles POST /v1/participants/{participantId}/affect/ema
// @Summary Submit a self-report
// @Description Store an Ecological Momentary Assessment label. Arousal and valence use the 1-9 SAM scale, stress a 1-5 scale. An emotion tag outside the known set is dropped, not rejected.
// @Tags ema
// @Accept json
// @Produce json
// @Param participantId path string true "Participant ID"
// @Param request body domain.SubmitEMARequest true "Self-report"
// @Success 201 {object} domain.EMALabel
// @Failure 400 {object} problem.Problem
// @Failure 404 {object} problem.Problem "Participant not found"
// @Failure 500 {object} problem.Problem
// @Router /participants/{participantId}/affect/ema [post]
func (h *EMAHandler) Submit(w http.ResponseWriter, r *http.Request) {
	participantID := chi.URLParam(r, "participantId")

	var req domain.SubmitEMARequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		problem.BadRequest("Invalid JSON body").Write(w)
		return
	}

	if fieldErrors := validation.Validate(req); fieldErrors != nil {
		problem.ValidationError("Request body contains invalid fields", fieldErrors).Write(w)
		return
	}

	label, err := h.pipeline.SubmitEMALabel(r.Context(), participantID, &req)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			problem.NotFound("Participant not found").Write(w)
			return
		}
		problem.InternalError("Failed to store self-report").Write(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(label)
}

// List handles GET /v1/participants/{participantId}/affect/ema
// @Summary List self-reports
// @Description Fetch recent self-reports, most recent first.
// @Tags ema
// @Produce json
// @Param participantId path string true "Participant ID"
// @Param limit query integer false "Maximum results (1-100)" default(20)
// @Success 200 {array} domain.EMALabel
// @Failure 400 {object} problem.Problem
// @Failure 404 {object} problem.Problem "Participant not found"
// @Failure 500 {object} problem.Problem
// @Router /participants/{participantId}/affect/ema [get]
func (h *EMAHandler) List(w http.ResponseWriter, r *http.Request) {
	participantID := chi.URLParam(r, "participantId")

	limit := pagination.DefaultLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 {
			problem.BadRequest("limit must be a positive integer").Write(w)
			return
		}
		limit = parsed
	}
	limit = pagination.NormalizeLimit(limit)

	labels, err := h.pipeline.ListEMALabels(r.Context(), participantID, limit)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			problem.NotFound("Participant not found").Write(w)
			return
		}
		problem.InternalError("Failed to list self-reports").Write(w)
		return
	}

	if labels == nil {
		labels = []domain.EMALabel{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(labels)
}

// GetSchedule handles GET /v1/ema/schedule
// @Summary Get the EMA prompt schedule
// @Description Return the configured scheduled prompt times and whether a prompt is currently due.
// @Tags ema
// @Produce json
// @Param tolerance_minutes query integer false "Due-window tolerance in minutes" default(5)
// @Success 200 {object} domain.EMAScheduleResponse
// @Router /ema/schedule [get]
func (h *EMAHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	tolerance := DefaultPromptToleranceMinutes
	if tolStr := r.URL.Query().Get("tolerance_minutes"); tolStr != "" {
		if parsed, err := strconv.Atoi(tolStr); err == nil && parsed > 0 {
			tolerance = parsed
		}
	}

	prompts := h.scheduler.ScheduledPrompts()
	response := domain.EMAScheduleResponse{
		PromptTimes: make([]string, 0, len(prompts)),
		PromptDue:   h.scheduler.IsPromptDue(time.Now().UTC(), tolerance),
	}
	for _, pt := range prompts {
		response.PromptTimes = append(response.PromptTimes, pt.String())
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
