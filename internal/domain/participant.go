package domain

import "time"

// Participant is a study participant with a linked wearable. Device linking
// and OAuth are handled elsewhere; this is the identity the affect engine
// keys everything on.
type Participant struct {
	ID          string    `gorm:"type:varchar(64);primaryKey" json:"id"`
	DisplayName string    `gorm:"type:varchar(128)" json:"display_name"`
	DeviceType  string    `gorm:"type:varchar(32);not null;default:'fitbit'" json:"device_type"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Participant) TableName() string {
	return "participants"
}

// CreateParticipantRequest is the request body for registering a participant.
type CreateParticipantRequest struct {
	ID          string `json:"id" validate:"required,min=1,max=64"`
	DisplayName string `json:"display_name,omitempty" validate:"omitempty,max=128"`
	DeviceType  string `json:"device_type,omitempty" validate:"omitempty,max=32"`
}
