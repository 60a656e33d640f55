package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/affectsense/wearable-affect/internal/domain"
	"github.com/affectsense/wearable-affect/internal/llm"
	"github.com/affectsense/wearable-affect/internal/service"
	"github.com/affectsense/wearable-affect/pkg/problem"
	"github.com/go-chi/chi/v5"
)

// InsightsHandler handles LLM-backed affect insights.
type InsightsHandler struct {
	insightsService service.InsightsService
}

// NewInsightsHandler creates a new InsightsHandler.
func NewInsightsHandler(insightsService service.InsightsService) *InsightsHandler {
	return &InsightsHandler{insightsService: insightsService}
}

// GetInsights handles GET /v1/participants/{participantId}/affect/insights
// @Summary Get LLM-powered affect insights
// @Description Generate a non-medical narrative summary over the participant's recent inference history and self-reports.
// @Tags affect-insights
// @Produce json
// @Param participantId path string true "Participant ID"
// @Success 200 {object} domain.InsightsResponse "Affect insights with LLM analysis"
// @Failure 404 {object} problem.Problem "Participant not found"
// @Failure 500 {object} problem.Problem "Server error"
// @Failure 502 {object} problem.Problem "LLM error"
// @Failure 503 {object} problem.Problem "LLM service unavailable"
// @Router /participants/{participantId}/affect/insights [get]
func (h *InsightsHandler) GetInsights(w http.ResponseWriter, r *http.Request) {
	participantID := chi.URLParam(r, "participantId")

	result, err := h.insightsService.Generate(r.Context(), participantID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			problem.NotFound("Participant not found").Write(w)
			return
		}
		if errors.Is(err, llm.ErrOpenAIUnavailable) {
			problem.ServiceUnavailable("OpenAI service is not configured").Write(w)
			return
		}
		if errors.Is(err, llm.ErrOpenAIRequest) || errors.Is(err, llm.ErrOpenAIResponse) {
			problem.New(http.StatusBadGateway, "llm-error", "LLM Error", "Failed to generate insights from LLM").Write(w)
			return
		}
		problem.InternalError("Failed to generate insights").Write(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}
