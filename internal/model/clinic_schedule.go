package model

import (
	"time"

	"github.com/google/uuid"
)

// ClinicSchedule is a fixed daily working-hour slot a clinic offers,
// e.g. "09:00"–"10:00". Times are clinic-local strings without a timezone
// and are reused across calendar dates.
type ClinicSchedule struct {
	ID        uuid.UUID    `json:"id"`
	ClinicID  uuid.UUID    `json:"clinic_id"`
	StartTime string       `json:"start_time"`
	EndTime   string       `json:"end_time"`
	Status    ActiveStatus `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}
