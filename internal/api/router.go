package api

import (
	"encoding/json"
	"net/http"

	_ "github.com/affectsense/wearable-affect/docs"
	"github.com/affectsense/wearable-affect/internal/api/handler"
	"github.com/affectsense/wearable-affect/internal/api/middleware"
	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

type Router struct {
	participantHandler *handler.ParticipantHandler
	affectHandler      *handler.AffectHandler
	emaHandler         *handler.EMAHandler
	insightsHandler    *handler.InsightsHandler
}

func NewRouter(
	participantHandler *handler.ParticipantHandler,
	affectHandler *handler.AffectHandler,
	emaHandler *handler.EMAHandler,
	insightsHandler *handler.InsightsHandler,
) *Router {
	return &Router{
		participantHandler: participantHandler,
		affectHandler:      affectHandler,
		emaHandler:         emaHandler,
		insightsHandler:    insightsHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Recovery)
	r.Use(middleware.Logger)
	r.Use(middleware.Tracing)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	))

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		// Participants
		r.Route("/participants", func(r chi.Router) {
			r.Post("/", rt.participantHandler.Create)
			r.Get("/{participantId}", rt.participantHandler.GetByID)

			// Affect pipeline (nested under participants)
			r.Route("/{participantId}/affect", func(r chi.Router) {
				r.Post("/infer", rt.affectHandler.RunInference)
				r.Get("/state", rt.affectHandler.GetState)
				r.Get("/history", rt.affectHandler.GetHistory)
				r.Get("/stream", rt.affectHandler.Stream)

				r.Post("/ema", rt.emaHandler.Submit)
				r.Get("/ema", rt.emaHandler.List)

				r.Get("/insights", rt.insightsHandler.GetInsights)
			})
		})

		// EMA protocol schedule (participant-independent)
		r.Get("/ema/schedule", rt.emaHandler.GetSchedule)
	})

	return r
}
