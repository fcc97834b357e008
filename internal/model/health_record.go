package model

import (
	"time"

	"github.com/google/uuid"
)

// HealthRecord holds the baseline medical profile of one user. Every user
// owns at most one record; the fields stay null until filled in.
type HealthRecord struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"user_id"`
	BloodType     *string   `json:"blood_type"`
	Height        *float64  `json:"height"`
	Weight        *float64  `json:"weight"`
	HealthHistory *string   `json:"health_history"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Joined data, not stored on the row.
	User *User `json:"user,omitempty"`
}
