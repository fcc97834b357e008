package controller

import (
	"net/http"
	"strconv"
	"time"

	"github.com/clinichub/clinic-booking/internal/model"
	"github.com/clinichub/clinic-booking/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ConsultationHandler struct {
	bookings *service.BookingService
}

func NewConsultationHandler(bookings *service.BookingService) *ConsultationHandler {
	return &ConsultationHandler{bookings: bookings}
}

type patientSnapshotRequest struct {
	Name        string    `json:"name" binding:"required"`
	Gender      int       `json:"gender" binding:"required,oneof=1 2 3"`
	PhoneNumber string    `json:"phone_number" binding:"required"`
	Email       string    `json:"email" binding:"required,email"`
	DateOfBirth time.Time `json:"date_of_birth" binding:"required"`
	Province    string    `json:"province" binding:"required"`
	District    string    `json:"district" binding:"required"`
	Address     string    `json:"address" binding:"required"`
}

type createConsultationRequest struct {
	ClinicID               string                 `json:"clinic_id" binding:"required,uuid"`
	ClinicScheduleID       string                 `json:"clinic_schedule_id" binding:"required,uuid"`
	MedicalServiceID       string                 `json:"medical_service_id" binding:"required,uuid"`
	ResponsibilityDoctorID *string                `json:"responsibility_doctor_id" binding:"omitempty,uuid"`
	ExaminationDate        time.Time              `json:"examination_date" binding:"required"`
	ExaminationReason      string                 `json:"examination_reason" binding:"required"`
	ReExaminateDate        *time.Time             `json:"re_examinate_date"`
	MedicalFee             float64                `json:"medical_fee" binding:"required,gt=0"`
	MedicalServiceName     string                 `json:"medical_service_name" binding:"required"`
	PaymentMethod          int                    `json:"payment_method" binding:"required,oneof=1 2"`
	Patient                patientSnapshotRequest `json:"patient" binding:"required"`
}

func (h *ConsultationHandler) Create(c *gin.Context) {
	var req createConsultationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, service.MsgMissingRequiredFields)
		return
	}

	actor := actorFrom(c)

	var doctorID *uuid.UUID
	if req.ResponsibilityDoctorID != nil {
		id := uuid.MustParse(*req.ResponsibilityDoctorID)
		doctorID = &id
	}

	consultation, err := h.bookings.Create(c.Request.Context(), actor, service.CreateConsultationRequest{
		PatientID:              actor.UserID,
		ClinicID:               uuid.MustParse(req.ClinicID),
		ClinicScheduleID:       uuid.MustParse(req.ClinicScheduleID),
		MedicalServiceID:       uuid.MustParse(req.MedicalServiceID),
		ResponsibilityDoctorID: doctorID,
		ExaminationDate:        req.ExaminationDate,
		ExaminationReason:      req.ExaminationReason,
		ReExaminateDate:        req.ReExaminateDate,
		MedicalFee:             req.MedicalFee,
		MedicalServiceName:     req.MedicalServiceName,
		PaymentMethod:          model.PaymentMethod(req.PaymentMethod),
		Patient: service.PatientSnapshot{
			Name:        req.Patient.Name,
			Gender:      model.Gender(req.Patient.Gender),
			PhoneNumber: req.Patient.PhoneNumber,
			Email:       req.Patient.Email,
			DateOfBirth: req.Patient.DateOfBirth,
			Province:    req.Patient.Province,
			District:    req.Patient.District,
			Address:     req.Patient.Address,
		},
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, "Medical consultation history created successfully", consultation)
}

func (h *ConsultationHandler) Availability(c *gin.Context) {
	clinicID, err := uuid.Parse(c.Query("clinic_id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid clinic id")
		return
	}
	scheduleID, err := uuid.Parse(c.Query("schedule_id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid schedule id")
		return
	}
	date, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid date")
		return
	}

	var doctorID *uuid.UUID
	if raw := c.Query("doctor_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "Invalid doctor id")
			return
		}
		doctorID = &id
	}

	availability, err := h.bookings.ComputeAvailability(c.Request.Context(), clinicID, scheduleID, date, doctorID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, "OK", availability)
}

type consultationPage struct {
	Items []*model.Consultation `json:"items"`
	Total int64                 `json:"total"`
	Page  int                   `json:"page"`
}

// List returns consultations filtered by query parameters. Non-admin callers
// are always scoped to their own records: patients see their bookings,
// doctors the ones assigned to them.
func (h *ConsultationHandler) List(c *gin.Context) {
	actor := actorFrom(c)

	var filter model.ConsultationFilter
	switch actor.Role {
	case model.RoleAdmin:
		if raw := c.Query("patient_id"); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				respondError(c, http.StatusBadRequest, "Invalid patient id")
				return
			}
			filter.PatientID = &id
		}
		if raw := c.Query("doctor_id"); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				respondError(c, http.StatusBadRequest, "Invalid doctor id")
				return
			}
			filter.DoctorID = &id
		}
	case model.RoleDoctor:
		filter.DoctorID = &actor.UserID
	default:
		filter.PatientID = &actor.UserID
	}

	if raw := c.Query("clinic_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "Invalid clinic id")
			return
		}
		filter.ClinicID = &id
	}
	if raw := c.Query("status"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "Invalid status")
			return
		}
		status := model.ConsultationStatus(n)
		filter.Status = &status
	}
	if raw := c.Query("date_from"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "Invalid date_from")
			return
		}
		filter.DateFrom = &t
	}
	if raw := c.Query("date_to"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "Invalid date_to")
			return
		}
		filter.DateTo = &t
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "0"))

	items, total, err := h.bookings.List(c.Request.Context(), filter, page, pageSize)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if page < 1 {
		page = 1
	}

	respondOK(c, "OK", consultationPage{Items: items, Total: total, Page: page})
}

func (h *ConsultationHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid consultation id")
		return
	}

	consultation, err := h.bookings.GetByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	actor := actorFrom(c)
	if !actor.IsAdmin() && consultation.PatientID != actor.UserID &&
		(consultation.ResponsibilityDoctorID == nil || *consultation.ResponsibilityDoctorID != actor.UserID) {
		respondError(c, http.StatusForbidden, service.MsgForbidden)
		return
	}

	respondOK(c, "OK", consultation)
}

type updateConsultationRequest struct {
	ResponsibilityDoctorID *string    `json:"responsibility_doctor_id" binding:"omitempty,uuid"`
	ClinicScheduleID       *string    `json:"clinic_schedule_id" binding:"omitempty,uuid"`
	ExaminationDate        *time.Time `json:"examination_date"`
	ExaminationReason      *string    `json:"examination_reason"`
	PatientStatus          *string    `json:"patient_status"`
	Diagnosis              *string    `json:"diagnosis"`
	ReExaminateDate        *time.Time `json:"re_examinate_date"`
	NoteFromDoctor         *string    `json:"note_from_doctor"`
	MedicalFee             *float64   `json:"medical_fee" binding:"omitempty,gt=0"`
	PaymentMethod          *int       `json:"payment_method" binding:"omitempty,oneof=1 2"`
	PaymentStatus          *int       `json:"payment_status" binding:"omitempty,oneof=1 2"`
}

func (h *ConsultationHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid consultation id")
		return
	}

	var req updateConsultationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, service.MsgMissingRequiredFields)
		return
	}

	update := service.UpdateConsultationRequest{
		ExaminationDate:   req.ExaminationDate,
		ExaminationReason: req.ExaminationReason,
		PatientStatus:     req.PatientStatus,
		Diagnosis:         req.Diagnosis,
		ReExaminateDate:   req.ReExaminateDate,
		NoteFromDoctor:    req.NoteFromDoctor,
		MedicalFee:        req.MedicalFee,
	}
	if req.ResponsibilityDoctorID != nil {
		doctorID := uuid.MustParse(*req.ResponsibilityDoctorID)
		update.ResponsibilityDoctorID = &doctorID
	}
	if req.ClinicScheduleID != nil {
		scheduleID := uuid.MustParse(*req.ClinicScheduleID)
		update.ClinicScheduleID = &scheduleID
	}
	if req.PaymentMethod != nil {
		method := model.PaymentMethod(*req.PaymentMethod)
		update.PaymentMethod = &method
	}
	if req.PaymentStatus != nil {
		status := model.PaymentStatus(*req.PaymentStatus)
		update.PaymentStatus = &status
	}

	consultation, err := h.bookings.Update(c.Request.Context(), actorFrom(c), id, update)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, "Medical consultation history updated successfully", consultation)
}

func (h *ConsultationHandler) Cancel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid consultation id")
		return
	}

	consultation, err := h.bookings.Cancel(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, "Medical consultation history canceled successfully", consultation)
}

type completeConsultationRequest struct {
	PatientStatus   *string    `json:"patient_status"`
	Diagnosis       *string    `json:"diagnosis"`
	NoteFromDoctor  *string    `json:"note_from_doctor"`
	ReExaminateDate *time.Time `json:"re_examinate_date"`
	PaymentStatus   *int       `json:"payment_status" binding:"omitempty,oneof=1 2"`
}

func (h *ConsultationHandler) Complete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid consultation id")
		return
	}

	var req completeConsultationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, service.MsgMissingRequiredFields)
		return
	}

	complete := service.CompleteConsultationRequest{
		PatientStatus:   req.PatientStatus,
		Diagnosis:       req.Diagnosis,
		NoteFromDoctor:  req.NoteFromDoctor,
		ReExaminateDate: req.ReExaminateDate,
	}
	if req.PaymentStatus != nil {
		status := model.PaymentStatus(*req.PaymentStatus)
		complete.PaymentStatus = &status
	}

	consultation, err := h.bookings.Complete(c.Request.Context(), actorFrom(c), id, complete)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, "Medical consultation history completed successfully", consultation)
}

func (h *ConsultationHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid consultation id")
		return
	}

	if err := h.bookings.Delete(c.Request.Context(), actorFrom(c), id); err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, "Medical consultation history deleted successfully", nil)
}
