package model

import (
	"time"

	"github.com/google/uuid"
)

// RequestChangeSchedule is a batch request to switch a clinic's active slot
// set. Once ApplyDate is reached, the slots in NewValue become the clinic's
// active schedule and the rest are deactivated.
type RequestChangeSchedule struct {
	ID        uuid.UUID   `json:"id"`
	Name      string      `json:"name"`
	ClinicID  uuid.UUID   `json:"clinic_id"`
	ApplyDate time.Time   `json:"apply_date"`
	NewValue  []uuid.UUID `json:"new_value"`
	Applied   bool        `json:"applied"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}
