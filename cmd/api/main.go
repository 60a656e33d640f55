// Wearable Affect API
//
// REST API for affect inference over wearable sensor data.
//
//	@title			Wearable Affect API
//	@version		1.0
//	@description	Infer arousal, stress, and valence estimates from wearable sensor streams, with personalised baselines and EMA self-report collection.
//
//	@BasePath	/v1
//
//	@tag.name			participants
//	@tag.description	Participant registry endpoints
//
//	@tag.name			affect
//	@tag.description	Inference pipeline endpoints
//
//	@tag.name			ema
//	@tag.description	Self-report (EMA) endpoints
//
//	@tag.name			affect-insights
//	@tag.description	LLM-backed narrative insights
package main

import (
	"context"
	"log"
	"net/http"

	"github.com/affectsense/wearable-affect/internal/api"
	"github.com/affectsense/wearable-affect/internal/api/handler"
	"github.com/affectsense/wearable-affect/internal/config"
	"github.com/affectsense/wearable-affect/internal/domain"
	"github.com/affectsense/wearable-affect/internal/llm"
	"github.com/affectsense/wearable-affect/internal/notify"
	"github.com/affectsense/wearable-affect/internal/repository"
	"github.com/affectsense/wearable-affect/internal/seed"
	"github.com/affectsense/wearable-affect/internal/service"
	"github.com/affectsense/wearable-affect/internal/telemetry"
)

func main() {
	ctx := context.Background()

	// Load configuration
	cfg := config.Load()

	// Initialize tracing (no-op when Langfuse is not configured)
	shutdownTracer, err := telemetry.InitTracer(ctx, cfg, "wearable-affect-api")
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := shutdownTracer(ctx); err != nil {
			log.Printf("Failed to shut down tracer: %v", err)
		}
	}()

	// Connect to database
	db, err := config.NewDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto-migrate database schema
	if err := db.AutoMigrate(
		&domain.Participant{},
		&domain.SensorReading{},
		&domain.ParticipantBaseline{},
		&domain.FeatureWindow{},
		&domain.InferenceOutput{},
		&domain.EMALabel{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed")

	if cfg.Seed {
		log.Println("Seeding database with sample data (SEED=true)...")
		if err := seed.Run(db); err != nil {
			log.Fatalf("Failed to seed database: %v", err)
		}
	}

	// Initialize repositories
	participantRepo := repository.NewParticipantRepository(db)
	readingRepo := repository.NewReadingRepository(db)
	baselineRepo := repository.NewBaselineRepository(db)
	featureRepo := repository.NewFeatureWindowRepository(db)
	inferenceRepo := repository.NewInferenceOutputRepository(db)
	emaRepo := repository.NewEMARepository(db)

	// Initialize EMA scheduler from tuning config
	schedulerCfg := service.EMASchedulerConfig{
		MaxDaily:         cfg.Affect.MaxDailyPrompts,
		StressThreshold:  cfg.Affect.StressTriggerThreshold,
		MinEventInterval: cfg.Affect.MinEventInterval(),
	}
	for _, s := range cfg.Affect.PromptTimes {
		pt, err := service.ParsePromptTime(s)
		if err != nil {
			log.Fatalf("Invalid prompt time in affect config: %v", err)
		}
		schedulerCfg.PromptTimes = append(schedulerCfg.PromptTimes, pt)
	}
	emaScheduler := service.NewEMAScheduler(schedulerCfg)

	// Initialize websocket hub for live inference fan-out
	hub := notify.NewHub()

	// Initialize services
	participantService := service.NewParticipantService(participantRepo)
	pipelineService := service.NewPipelineService(
		readingRepo, inferenceRepo, featureRepo, baselineRepo, emaRepo,
		participantRepo, emaScheduler, hub, cfg.Affect.WindowSeconds,
	)

	// Initialize OpenAI client (may be nil if not configured)
	openaiClient := llm.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIInsightsModel)
	if openaiClient == nil {
		log.Println("Warning: OpenAI API key not configured, insights endpoint will be unavailable")
	}

	insightsService := service.NewInsightsService(openaiClient, inferenceRepo, emaRepo, baselineRepo, participantRepo)

	// Initialize handlers
	participantHandler := handler.NewParticipantHandler(participantService)
	affectHandler := handler.NewAffectHandler(pipelineService, participantService, hub)
	emaHandler := handler.NewEMAHandler(pipelineService, emaScheduler)
	insightsHandler := handler.NewInsightsHandler(insightsService)

	// Setup router
	router := api.NewRouter(participantHandler, affectHandler, emaHandler, insightsHandler)
	routerHandler := router.Setup()

	// Start server
	addr := ":" + cfg.Port
	log.Printf("Starting server on %s", addr)
	if err := http.ListenAndServe(addr, routerHandler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
