package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/affectsense/wearable-affect/internal/domain"
	"github.com/affectsense/wearable-affect/internal/notify"
	"github.com/affectsense/wearable-affect/internal/repository"
	"github.com/affectsense/wearable-affect/internal/service"
	"github.com/affectsense/wearable-affect/pkg/pagination"
	"github.com/affectsense/wearable-affect/pkg/problem"
	"github.com/go-chi/chi/v5"
)

// HistoryDefaultWindowDays bounds the history query when from/to are omitted.
const HistoryDefaultWindowDays = 7

type AffectHandler struct {
	pipeline     service.PipelineService
	participants service.ParticipantService
	hub          *notify.Hub
}

func NewAffectHandler(pipeline service.PipelineService, participants service.ParticipantService, hub *notify.Hub) *AffectHandler {
	return &AffectHandler{pipeline: pipeline, participants: participants, hub: hub}
}

// RunInference handles POST /v1/participants/{participantId}/affect/infer
// @Summary Run an inference cycle
// @Description Build a feature window from recent sensor data, infer the affective state, update the personalised baseline, and persist the result. The optional body pins the window end and the device's last sync time.
// @Tags affect
// @Accept json
// @Produce json
// @Param participantId path string true "Participant ID"
// @Param request body domain.RunInferenceRequest false "Inference options"
// @Success 201 {object} domain.InferenceOutput
// @Failure 400 {object} problem.Problem
// @Failure 404 {object} problem.Problem "Participant not found"
// @Failure 500 {object} problem.Problem
// @Router /participants/{participantId}/affect/infer [post]
func (h *AffectHandler) RunInference(w http.ResponseWriter, r *http.Request) {
	participantID := chi.URLParam(r, "participantId")

	var req domain.RunInferenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		problem.BadRequest("Invalid JSON body").Write(w)
		return
	}

	output, err := h.pipeline.RunInference(r.Context(), participantID, service.RunInferenceOptions{
		WindowEnd:    req.WindowEnd,
		LastSyncTime: req.LastSyncTime,
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			problem.NotFound("Participant not found").Write(w)
			return
		}
		problem.InternalError("Failed to run inference").Write(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(output)
}

// GetState handles GET /v1/participants/{participantId}/affect/state
// @Summary Get the current affective state
// @Description Return the most recent inference output for the participant.
// @Tags affect
// @Produce json
// @Param participantId path string true "Participant ID"
// @Success 200 {object} domain.InferenceOutput
// @Failure 404 {object} problem.Problem "Participant not found or no inference yet"
// @Failure 500 {object} problem.Problem
// @Router /participants/{participantId}/affect/state [get]
func (h *AffectHandler) GetState(w http.ResponseWriter, r *http.Request) {
	participantID := chi.URLParam(r, "participantId")

	output, err := h.pipeline.GetLatestState(r.Context(), participantID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			problem.NotFound("No affective state available").Write(w)
			return
		}
		problem.InternalError("Failed to get affective state").Write(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(output)
}

// GetHistory handles GET /v1/participants/{participantId}/affect/history
// @Summary List inference history
// @Description Fetch paginated inference summaries, newest first. Defaults to the last 7 days.
// @Tags affect
// @Produce json
// @Param participantId path string true "Participant ID"
// @Param from query string false "Start of range (RFC3339)" format(date-time)
// @Param to query string false "End of range (RFC3339)" format(date-time)
// @Param limit query integer false "Results per page (1-100)" default(20)
// @Param cursor query string false "Cursor from previous response's next_cursor"
// @Success 200 {object} domain.InferenceHistoryResponse
// @Failure 400 {object} problem.Problem
// @Failure 404 {object} problem.Problem "Participant not found"
// @Failure 500 {object} problem.Problem
// @Router /participants/{participantId}/affect/history [get]
func (h *AffectHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	participantID := chi.URLParam(r, "participantId")

	filter, fieldErrors := parseHistoryFilter(r)
	if fieldErrors != nil {
		problem.ValidationError("Invalid query parameters", fieldErrors).Write(w)
		return
	}

	outputs, err := h.pipeline.GetHistory(r.Context(), participantID, filter)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			problem.NotFound("Participant not found").Write(w)
			return
		}
		problem.InternalError("Failed to list inference history").Write(w)
		return
	}

	limit := pagination.NormalizeLimit(filter.Limit)
	response := domain.InferenceHistoryResponse{Data: []domain.InferenceSummary{}}
	if len(outputs) > limit {
		response.Pagination.HasMore = true
		outputs = outputs[:limit]
		last := outputs[len(outputs)-1]
		cursor := pagination.Cursor{ID: last.ID, Timestamp: last.Timestamp}
		response.Pagination.NextCursor = cursor.Encode()
	}
	for i := range outputs {
		response.Data = append(response.Data, outputs[i].ToSummary())
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// Stream handles GET /v1/participants/{participantId}/affect/stream
// @Summary Subscribe to live inference results
// @Description Upgrade to a websocket and receive each new inference output as JSON.
// @Tags affect
// @Param participantId path string true "Participant ID"
// @Success 101 "Switching Protocols"
// @Failure 404 {object} problem.Problem "Participant not found"
// @Router /participants/{participantId}/affect/stream [get]
func (h *AffectHandler) Stream(w http.ResponseWriter, r *http.Request) {
	participantID := chi.URLParam(r, "participantId")

	// Reject unknown participants before upgrading.
	if _, err := h.participants.GetByID(r.Context(), participantID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			problem.NotFound("Participant not found").Write(w)
			return
		}
		problem.InternalError("Failed to open stream").Write(w)
		return
	}

	h.hub.ServeWS(w, r, participantID)
}

func parseHistoryFilter(r *http.Request) (repository.InferenceHistoryFilter, []problem.FieldError) {
	var fieldErrors []problem.FieldError
	now := time.Now().UTC()
	filter := repository.InferenceHistoryFilter{
		Start: now.AddDate(0, 0, -HistoryDefaultWindowDays),
		End:   now,
	}

	if fromStr := r.URL.Query().Get("from"); fromStr != "" {
		from, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			fieldErrors = append(fieldErrors, problem.FieldError{
				Field:   "from",
				Message: "must be a valid RFC3339 timestamp",
			})
		} else {
			filter.Start = from
		}
	}

	if toStr := r.URL.Query().Get("to"); toStr != "" {
		to, err := time.Parse(time.RFC3339, toStr)
		if err != nil {
			fieldErrors = append(fieldErrors, problem.FieldError{
				Field:   "to",
				Message: "must be a valid RFC3339 timestamp",
			})
		} else {
			filter.End = to
		}
	}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 1 {
			fieldErrors = append(fieldErrors, problem.FieldError{
				Field:   "limit",
				Message: "must be a positive integer",
			})
		} else {
			filter.Limit = limit
		}
	}

	filter.Cursor = r.URL.Query().Get("cursor")

	if len(fieldErrors) > 0 {
		return filter, fieldErrors
	}

	return filter, nil
}
