package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/affectsense/wearable-affect/internal/domain"
	"github.com/affectsense/wearable-affect/internal/llm"
	"github.com/go-chi/chi/v5"
)

func TestGetInsights_Success(t *testing.T) {
	mock := &MockInsightsService{
		generateFunc: func(ctx context.Context, participantID string) (*domain.InsightsResponse, error) {
			return &domain.InsightsResponse{
				ParticipantID: participantID,
				Insights: domain.LLMInsightsOutput{
					Summary:      "Mostly calm week.",
					Observations: []string{"Low stress at rest"},
					Guidance:     []string{"Keep it up"},
				},
			}, nil
		},
	}
	handler := NewInsightsHandler(mock)

	r := chi.NewRouter()
	r.Get("/participants/{participantId}/affect/insights", handler.GetInsights)

	req := httptest.NewRequest(http.MethodGet, "/participants/p1/affect/insights", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var response domain.InsightsResponse
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.ParticipantID != "p1" || response.Insights.Summary == "" {
		t.Errorf("unexpected response: %+v", response)
	}
}

func TestGetInsights_ErrorMapping(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		wantStatusCode int
	}{
		{"unknown participant", domain.ErrNotFound, http.StatusNotFound},
		{"llm not configured", llm.ErrOpenAIUnavailable, http.StatusServiceUnavailable},
		{"llm request failed", fmt.Errorf("%w: timeout", llm.ErrOpenAIRequest), http.StatusBadGateway},
		{"llm response malformed", fmt.Errorf("%w: bad json", llm.ErrOpenAIResponse), http.StatusBadGateway},
		{"unexpected error", errors.New("db down"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &MockInsightsService{
				generateFunc: func(ctx context.Context, participantID string) (*domain.InsightsResponse, error) {
					return nil, tt.err
				},
			}
			handler := NewInsightsHandler(mock)

			r := chi.NewRouter()
			r.Get("/participants/{participantId}/affect/insights", handler.GetInsights)

			req := httptest.NewRequest(http.MethodGet, "/participants/p1/affect/insights", nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Errorf("status = %d, want %d, body: %s", w.Code, tt.wantStatusCode, w.Body.String())
			}
		})
	}
}
