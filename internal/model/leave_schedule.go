package model

import (
	"time"

	"github.com/google/uuid"
)

// LeaveSchedule declares a doctor unavailable for one date+slot combination.
// Only an ACTIVE leave blocks the doctor.
type LeaveSchedule struct {
	ID               uuid.UUID    `json:"id"`
	DoctorID         uuid.UUID    `json:"doctor_id"`
	ClinicScheduleID uuid.UUID    `json:"clinic_schedule_id"`
	Date             time.Time    `json:"date"`
	Reason           string       `json:"reason"`
	Status           ActiveStatus `json:"status"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`

	// Joined data, not stored on the row.
	Schedule *ClinicSchedule `json:"schedule,omitempty"`
	Doctor   *User           `json:"doctor,omitempty"`
}
