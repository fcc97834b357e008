package model

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RoleDoctor UserRole = "doctor"
	RoleUser   UserRole = "user"
)

type Gender int

const (
	GenderMale   Gender = 1
	GenderFemale Gender = 2
	GenderOther  Gender = 3
)

type User struct {
	ID          uuid.UUID `json:"id"`
	UserName    string    `json:"user_name"`
	Email       string    `json:"email"`
	Password    string    `json:"-"`
	DateOfBirth time.Time `json:"date_of_birth"`
	Gender      Gender    `json:"gender"`
	Province    string    `json:"province"`
	District    string    `json:"district"`
	Address     string    `json:"address"`
	PhoneNumber string    `json:"phone_number"`
	Avatar      *string   `json:"avatar"`
	Role        UserRole  `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DoctorProfile extends a User with doctor-specific assignment data.
// A nil ClinicID means the doctor is not part of any clinic's capacity pool.
type DoctorProfile struct {
	UserID           uuid.UUID  `json:"user_id"`
	ClinicID         *uuid.UUID `json:"clinic_id"`
	MedicalServiceID *uuid.UUID `json:"medical_service_id"`
	Specialty        string     `json:"specialty"`
	Qualification    string     `json:"qualification"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// Doctor is the joined view of a user and their doctor profile.
type Doctor struct {
	User    User          `json:"user"`
	Profile DoctorProfile `json:"profile"`
}

// ActorContext identifies the authenticated caller of a service operation.
type ActorContext struct {
	UserID uuid.UUID
	Role   UserRole
}

func (a ActorContext) IsAdmin() bool {
	return a.Role == RoleAdmin
}
