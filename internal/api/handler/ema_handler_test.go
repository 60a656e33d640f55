package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/affectsense/wearable-affect/internal/domain"
	"github.com/affectsense/wearable-affect/internal/service"
)

func TestEMAHandler_Submit(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		mockService    *MockPipelineService
		wantStatusCode int
	}{
		{
			name:           "valid self-report",
			body:           `{"arousal": 6, "valence": 3, "stress": 4, "emotion_tag": "anger", "trigger": "event_based"}`,
			mockService:    &MockPipelineService{},
			wantStatusCode: http.StatusCreated,
		},
		{
			name:           "minimal body",
			body:           `{}`,
			mockService:    &MockPipelineService{},
			wantStatusCode: http.StatusCreated,
		},
		{
			name:           "invalid JSON",
			body:           `{invalid}`,
			mockService:    &MockPipelineService{},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "arousal out of SAM range",
			body:           `{"arousal": 12}`,
			mockService:    &MockPipelineService{},
			wantStatusCode: http.StatusUnprocessableEntity,
		},
		{
			name:           "stress out of range",
			body:           `{"stress": 7}`,
			mockService:    &MockPipelineService{},
			wantStatusCode: http.StatusUnprocessableEntity,
		},
		{
			name:           "unknown trigger",
			body:           `{"trigger": "random"}`,
			mockService:    &MockPipelineService{},
			wantStatusCode: http.StatusUnprocessableEntity,
		},
		{
			name: "unknown participant",
			body: `{"arousal": 5}`,
			mockService: &MockPipelineService{
				submitEMAFunc: func(ctx context.Context, participantID string, req *domain.SubmitEMARequest) (*domain.EMALabel, error) {
					return nil, domain.ErrNotFound
				},
			},
			wantStatusCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewEMAHandler(tt.mockService, service.NewEMAScheduler(service.EMASchedulerConfig{}))

			req := affectRequest(http.MethodPost, "/v1/participants/p1/affect/ema", "p1", tt.body)
			rec := httptest.NewRecorder()

			handler.Submit(rec, req)

			if rec.Code != tt.wantStatusCode {
				t.Errorf("Submit() status = %d, want %d, body: %s", rec.Code, tt.wantStatusCode, rec.Body.String())
			}
		})
	}
}

func TestEMAHandler_List(t *testing.T) {
	t.Run("empty result is an empty array", func(t *testing.T) {
		handler := NewEMAHandler(&MockPipelineService{}, service.NewEMAScheduler(service.EMASchedulerConfig{}))

		req := affectRequest(http.MethodGet, "/v1/participants/p1/affect/ema", "p1", "")
		rec := httptest.NewRecorder()
		handler.List(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
		}
		var labels []domain.EMALabel
		if err := json.NewDecoder(rec.Body).Decode(&labels); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if labels == nil {
			t.Error("response should be [] rather than null")
		}
	})

	t.Run("invalid limit", func(t *testing.T) {
		handler := NewEMAHandler(&MockPipelineService{}, service.NewEMAScheduler(service.EMASchedulerConfig{}))

		req := affectRequest(http.MethodGet, "/v1/participants/p1/affect/ema?limit=zero", "p1", "")
		rec := httptest.NewRecorder()
		handler.List(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("limit is clamped and forwarded", func(t *testing.T) {
		var gotLimit int
		mock := &MockPipelineService{
			listEMAFunc: func(ctx context.Context, participantID string, limit int) ([]domain.EMALabel, error) {
				gotLimit = limit
				return []domain.EMALabel{}, nil
			},
		}
		handler := NewEMAHandler(mock, service.NewEMAScheduler(service.EMASchedulerConfig{}))

		req := affectRequest(http.MethodGet, "/v1/participants/p1/affect/ema?limit=500", "p1", "")
		rec := httptest.NewRecorder()
		handler.List(rec, req)

		if gotLimit != 100 {
			t.Errorf("forwarded limit = %d, want clamped 100", gotLimit)
		}
	})
}

func TestEMAHandler_GetSchedule(t *testing.T) {
	scheduler := service.NewEMAScheduler(service.EMASchedulerConfig{
		PromptTimes: []service.PromptTime{{Hour: 9, Minute: 0}, {Hour: 21, Minute: 0}},
	})
	handler := NewEMAHandler(&MockPipelineService{}, scheduler)

	req := httptest.NewRequest(http.MethodGet, "/v1/ema/schedule", nil)
	rec := httptest.NewRecorder()
	handler.GetSchedule(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}
	var response domain.EMAScheduleResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(response.PromptTimes) != 2 || response.PromptTimes[0] != "09:00" || response.PromptTimes[1] != "21:00" {
		t.Errorf("PromptTimes = %v, want [09:00 21:00]", response.PromptTimes)
	}
}

func TestEMAHandler_GetSchedule_DefaultTolerance(t *testing.T) {
	// A prompt 10 minutes away sits outside the default 5-minute due window
	// but inside an explicit 15-minute one.
	now := time.Now().UTC()
	target := now.Add(10 * time.Minute)
	if target.Day() != now.Day() {
		target = now.Add(-10 * time.Minute)
	}
	scheduler := service.NewEMAScheduler(service.EMASchedulerConfig{
		PromptTimes: []service.PromptTime{{Hour: target.Hour(), Minute: target.Minute()}},
	})
	handler := NewEMAHandler(&MockPipelineService{}, scheduler)

	due := func(t *testing.T, url string) bool {
		t.Helper()
		req := httptest.NewRequest(http.MethodGet, url, nil)
		rec := httptest.NewRecorder()
		handler.GetSchedule(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
		}
		var response domain.EMAScheduleResponse
		if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
			t.Fatalf("decode: %v", err)
		}
		return response.PromptDue
	}

	if due(t, "/v1/ema/schedule") {
		t.Error("prompt 10 minutes out reported due under the default 5-minute tolerance")
	}
	if !due(t, "/v1/ema/schedule?tolerance_minutes=15") {
		t.Error("prompt 10 minutes out not reported due with tolerance_minutes=15")
	}
}
