package model

import (
	"time"

	"github.com/google/uuid"
)

type MedicalServiceType int

const (
	ServiceTypeSpeciality MedicalServiceType = 1
	ServiceTypeGeneral    MedicalServiceType = 2
)

type MedicalService struct {
	ID            uuid.UUID          `json:"id"`
	Name          string             `json:"name"`
	OriginalPrice *float64           `json:"original_price"`
	CurrentPrice  float64            `json:"current_price"`
	Type          MedicalServiceType `json:"type"`
	ClinicID      uuid.UUID          `json:"clinic_id"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}
