package model

import (
	"time"

	"github.com/google/uuid"
)

type ActiveStatus int

const (
	StatusActive   ActiveStatus = 1
	StatusInactive ActiveStatus = 2
)

type Clinic struct {
	ID          uuid.UUID    `json:"id"`
	Name        string       `json:"name"`
	Email       string       `json:"email"`
	Hotline     string       `json:"hotline"`
	Address     string       `json:"address"`
	Status      ActiveStatus `json:"status"`
	Description string       `json:"description"`
	Logo        *string      `json:"logo"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}
