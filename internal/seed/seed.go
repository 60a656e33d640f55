package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/affectsense/wearable-affect/internal/domain"
	"gorm.io/gorm"
)

const seededDays = 10

// Run seeds the database with sample participants and sensor readings.
// Safe to call multiple times.
func Run(db *gorm.DB) error {
	if err := db.AutoMigrate(&domain.Participant{}, &domain.SensorReading{}); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}

	participants := []domain.Participant{
		{ID: "pilot-001", DisplayName: "Pilot One", DeviceType: "fitbit"},
		{ID: "pilot-002", DisplayName: "Pilot Two", DeviceType: "fitbit"},
		{ID: "pilot-003", DisplayName: "Pilot Three", DeviceType: "fitbit"},
	}

	for _, p := range participants {
		if err := db.Where("id = ?", p.ID).FirstOrCreate(&p).Error; err != nil {
			return fmt.Errorf("failed to create participant %s: %w", p.ID, err)
		}
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	for _, p := range participants {
		if err := seedReadingsForParticipant(db, p, rng); err != nil {
			return err
		}
	}

	log.Println("Seed completed")
	return nil
}

// seedReadingsForParticipant writes a plausible multi-day trace: minute-level
// HR in the current window, daily activity, and nightly HRV, breathing rate,
// SpO2, skin temperature, and a sleep log.
func seedReadingsForParticipant(db *gorm.DB, p domain.Participant, rng *rand.Rand) error {
	now := time.Now().UTC()

	// Minute-level heart rate over the last 10 minutes so an inference
	// cycle run right after seeding has daytime data to chew on.
	for i := 0; i < 10; i++ {
		ts := now.Add(-time.Duration(i) * time.Minute)
		hr := domain.SensorReading{
			ParticipantID: p.ID,
			MetricType:    domain.MetricHeartRate,
			Timestamp:     ts,
			Value:         62 + float64(rng.Intn(18)),
			Unit:          "bpm",
		}
		if err := createReading(db, &hr); err != nil {
			return err
		}
	}

	stepsNow := domain.SensorReading{
		ParticipantID: p.ID,
		MetricType:    domain.MetricSteps,
		Timestamp:     now.Add(-2 * time.Minute),
		Value:         float64(rng.Intn(40)),
		Unit:          "steps",
	}
	if err := createReading(db, &stepsNow); err != nil {
		return err
	}

	calNow := domain.SensorReading{
		ParticipantID: p.ID,
		MetricType:    domain.MetricCalories,
		Timestamp:     now.Add(-2 * time.Minute),
		Value:         6 + rng.Float64()*4,
		Unit:          "kcal",
		Metadata:      map[string]any{"mets": 1.2 + rng.Float64()},
	}
	if err := createReading(db, &calNow); err != nil {
		return err
	}

	// Nightly signals for each seeded day.
	for day := 0; day < seededDays; day++ {
		night := time.Date(now.Year(), now.Month(), now.Day(), 7, 0, 0, 0, time.UTC).AddDate(0, 0, -day)

		hrv := domain.SensorReading{
			ParticipantID: p.ID,
			MetricType:    domain.MetricHRV,
			Timestamp:     night,
			Value:         35 + rng.Float64()*25,
			Unit:          "ms",
			Metadata:      map[string]any{"deep_rmssd": 40 + rng.Float64()*25},
		}
		if err := createReading(db, &hrv); err != nil {
			return err
		}

		br := domain.SensorReading{
			ParticipantID: p.ID,
			MetricType:    domain.MetricBreathingRate,
			Timestamp:     night,
			Value:         13 + rng.Float64()*3,
			Unit:          "breaths/min",
		}
		if err := createReading(db, &br); err != nil {
			return err
		}

		spo2 := domain.SensorReading{
			ParticipantID: p.ID,
			MetricType:    domain.MetricSpO2,
			Timestamp:     night,
			Value:         95 + rng.Float64()*3,
			Unit:          "%",
			Metadata:      map[string]any{"min": 92 + rng.Float64()*3},
		}
		if err := createReading(db, &spo2); err != nil {
			return err
		}

		skinTemp := domain.SensorReading{
			ParticipantID: p.ID,
			MetricType:    domain.MetricSkinTemperature,
			Timestamp:     night,
			Value:         -0.5 + rng.Float64(),
			Unit:          "degC",
		}
		if err := createReading(db, &skinTemp); err != nil {
			return err
		}

		durationMin := 360 + rng.Float64()*120
		sleep := domain.SensorReading{
			ParticipantID: p.ID,
			MetricType:    domain.MetricSleep,
			Timestamp:     night,
			Value:         durationMin,
			Unit:          "min",
			Metadata: map[string]any{
				"efficiency":   80 + rng.Float64()*15,
				"deep_minutes": durationMin * (0.12 + rng.Float64()*0.08),
				"rem_minutes":  durationMin * (0.18 + rng.Float64()*0.07),
				"wake_minutes": durationMin * (0.03 + rng.Float64()*0.07),
			},
		}
		if err := createReading(db, &sleep); err != nil {
			return err
		}
	}

	return nil
}

func createReading(db *gorm.DB, r *domain.SensorReading) error {
	err := db.Where(
		"participant_id = ? AND metric_type = ? AND timestamp = ?",
		r.ParticipantID, r.MetricType, r.Timestamp,
	).FirstOrCreate(r).Error
	if err != nil {
		return fmt.Errorf("failed to create %s reading: %w", r.MetricType, err)
	}
	return nil
}
