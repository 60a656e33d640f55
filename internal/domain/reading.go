package domain

import (
	"time"

	"github.com/google/uuid"
)

// MetricType categorises physiological and behavioural metrics as delivered
// by the wearable vendor API (already aggregated, no raw PPG/IBI).
type MetricType string

const (
	MetricHeartRate         MetricType = "heart_rate"
	MetricSteps             MetricType = "steps"
	MetricSleep             MetricType = "sleep"
	MetricSpO2              MetricType = "spo2"
	MetricSkinTemperature   MetricType = "skin_temperature"
	MetricHRV               MetricType = "hrv"
	MetricCalories          MetricType = "calories"
	MetricDistance          MetricType = "distance"
	MetricFloors            MetricType = "floors"
	MetricBreathingRate     MetricType = "breathing_rate"
	MetricBodyWeight        MetricType = "body_weight"
	MetricBodyFat           MetricType = "body_fat"
	MetricVO2Max            MetricType = "vo2_max"
	MetricActiveZoneMinutes MetricType = "active_zone_minutes"
)

// SensorReading is a single vendor metric sample. Readings are immutable
// once recorded; this service only ever reads them.
type SensorReading struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ParticipantID string         `gorm:"type:varchar(64);not null;index:idx_readings_participant_metric_ts,priority:1" json:"participant_id"`
	MetricType    MetricType     `gorm:"type:varchar(32);not null;index:idx_readings_participant_metric_ts,priority:2" json:"metric_type"`
	Value         float64        `gorm:"not null" json:"value"`
	Unit          string         `gorm:"type:varchar(32)" json:"unit"`
	Timestamp     time.Time      `gorm:"not null;index:idx_readings_participant_metric_ts,priority:3,sort:desc" json:"timestamp"`
	Metadata      map[string]any `gorm:"serializer:json" json:"metadata,omitempty"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

func (SensorReading) TableName() string {
	return "sensor_readings"
}

// MetaFloat extracts a numeric metadata field, tolerating the float64/int
// variants JSON decoding produces. Returns nil when absent or non-numeric.
func (r *SensorReading) MetaFloat(key string) *float64 {
	if r.Metadata == nil {
		return nil
	}
	switch v := r.Metadata[key].(type) {
	case float64:
		return &v
	case int:
		f := float64(v)
		return &f
	case int64:
		f := float64(v)
		return &f
	}
	return nil
}

// MetaString extracts a string metadata field, empty when absent.
func (r *SensorReading) MetaString(key string) string {
	if r.Metadata == nil {
		return ""
	}
	if s, ok := r.Metadata[key].(string); ok {
		return s
	}
	return ""
}
