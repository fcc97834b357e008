package model

import (
	"time"

	"github.com/google/uuid"
)

// DoctorWorkingSchedule links a doctor to a clinic schedule slot they staff.
type DoctorWorkingSchedule struct {
	ID               uuid.UUID `json:"id"`
	DoctorID         uuid.UUID `json:"doctor_id"`
	ClinicScheduleID uuid.UUID `json:"clinic_schedule_id"`
	CreatedAt        time.Time `json:"created_at"`

	// Joined data, not stored on the row.
	Schedule *ClinicSchedule `json:"schedule,omitempty"`
}
