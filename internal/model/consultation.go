package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type ConsultationStatus int

const (
	ConsultationPending  ConsultationStatus = 1
	ConsultationCanceled ConsultationStatus = 2
	ConsultationDone     ConsultationStatus = 3
)

// Terminal reports whether no further transition is permitted from the status.
func (s ConsultationStatus) Terminal() bool {
	return s == ConsultationCanceled || s == ConsultationDone
}

type PaymentMethod int

const (
	PaymentMethodCash    PaymentMethod = 1
	PaymentMethodBanking PaymentMethod = 2
)

type PaymentStatus int

const (
	PaymentStatusPaid   PaymentStatus = 1
	PaymentStatusUnpaid PaymentStatus = 2
)

// Consultation is a booking of one clinic schedule slot on one examination
// date. A non-canceled consultation counts against the slot's capacity for
// that date. The patient snapshot fields are captured at booking time and
// intentionally decoupled from the live user record.
type Consultation struct {
	ID                     uuid.UUID          `json:"id"`
	Code                   string             `json:"code"`
	PatientID              uuid.UUID          `json:"patient_id"`
	ResponsibilityDoctorID *uuid.UUID         `json:"responsibility_doctor_id"`
	ClinicID               uuid.UUID          `json:"clinic_id"`
	ClinicScheduleID       uuid.UUID          `json:"clinic_schedule_id"`
	MedicalServiceID       uuid.UUID          `json:"medical_service_id"`
	ExaminationDate        time.Time          `json:"examination_date"`
	ExaminationReason      string             `json:"examination_reason"`
	PatientStatus          *string            `json:"patient_status"`
	Diagnosis              *string            `json:"diagnosis"`
	ReExaminateDate        *time.Time         `json:"re_examinate_date"`
	NoteFromDoctor         *string            `json:"note_from_doctor"`
	MedicalFee             float64            `json:"medical_fee"`
	MedicalServiceName     string             `json:"medical_service_name"`
	PaymentMethod          PaymentMethod      `json:"payment_method"`
	PaymentStatus          PaymentStatus      `json:"payment_status"`
	Status                 ConsultationStatus `json:"status"`

	PatientName        string    `json:"patient_name"`
	PatientGender      Gender    `json:"patient_gender"`
	PatientPhoneNumber string    `json:"patient_phone_number"`
	PatientEmail       string    `json:"patient_email"`
	PatientDateOfBirth time.Time `json:"patient_date_of_birth"`
	PatientProvince    string    `json:"patient_province"`
	PatientDistrict    string    `json:"patient_district"`
	PatientAddress     string    `json:"patient_address"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Joined data, not stored on the row.
	Schedule *ClinicSchedule `json:"schedule,omitempty"`
	Patient  *User           `json:"patient,omitempty"`
	Doctor   *User           `json:"doctor,omitempty"`
	Clinic   *Clinic         `json:"clinic,omitempty"`
}

// ConsultationCode derives the short human-readable code from the record id.
func ConsultationCode(id uuid.UUID) string {
	hex := strings.ReplaceAll(id.String(), "-", "")
	return strings.ToUpper(hex[:12])
}

// ConsultationFilter narrows consultation listings. Nil fields are ignored.
type ConsultationFilter struct {
	PatientID *uuid.UUID
	ClinicID  *uuid.UUID
	DoctorID  *uuid.UUID
	Status    *ConsultationStatus
	DateFrom  *time.Time
	DateTo    *time.Time
}
