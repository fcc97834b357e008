package controller

import (
	"net/http"
	"strconv"

	"github.com/clinichub/clinic-booking/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type UserHandler struct {
	users *service.UserService
	audit *service.AuditService
}

func NewUserHandler(users *service.UserService, audit *service.AuditService) *UserHandler {
	return &UserHandler{users: users, audit: audit}
}

type promoteToDoctorRequest struct {
	UserID           string  `json:"user_id" binding:"required,uuid"`
	ClinicID         *string `json:"clinic_id" binding:"omitempty,uuid"`
	MedicalServiceID *string `json:"medical_service_id" binding:"omitempty,uuid"`
	Specialty        string  `json:"specialty" binding:"required"`
	Qualification    string  `json:"qualification"`
}

func (h *UserHandler) PromoteToDoctor(c *gin.Context) {
	var req promoteToDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, service.MsgMissingRequiredFields)
		return
	}

	promote := service.PromoteToDoctorRequest{
		UserID:        uuid.MustParse(req.UserID),
		Specialty:     req.Specialty,
		Qualification: req.Qualification,
	}
	if req.ClinicID != nil {
		clinicID := uuid.MustParse(*req.ClinicID)
		promote.ClinicID = &clinicID
	}
	if req.MedicalServiceID != nil {
		serviceID := uuid.MustParse(*req.MedicalServiceID)
		promote.MedicalServiceID = &serviceID
	}

	doctor, err := h.users.PromoteToDoctor(c.Request.Context(), actorFrom(c), promote)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, "User promoted to doctor successfully", doctor)
}

type assignDoctorRequest struct {
	ClinicID         *string `json:"clinic_id" binding:"omitempty,uuid"`
	MedicalServiceID *string `json:"medical_service_id" binding:"omitempty,uuid"`
	Specialty        *string `json:"specialty"`
	Qualification    *string `json:"qualification"`
}

func (h *UserHandler) AssignDoctor(c *gin.Context) {
	doctorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid doctor id")
		return
	}

	var req assignDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, service.MsgMissingRequiredFields)
		return
	}

	assign := service.AssignDoctorRequest{
		DoctorID:      doctorID,
		Specialty:     req.Specialty,
		Qualification: req.Qualification,
	}
	if req.ClinicID != nil {
		clinicID := uuid.MustParse(*req.ClinicID)
		assign.ClinicID = &clinicID
	}
	if req.MedicalServiceID != nil {
		serviceID := uuid.MustParse(*req.MedicalServiceID)
		assign.MedicalServiceID = &serviceID
	}

	doctor, err := h.users.AssignDoctor(c.Request.Context(), actorFrom(c), assign)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, "Doctor assignment updated successfully", doctor)
}

func (h *UserHandler) GetDoctor(c *gin.Context) {
	doctorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid doctor id")
		return
	}

	doctor, err := h.users.GetDoctor(c.Request.Context(), doctorID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, "OK", doctor)
}

func (h *UserHandler) ListHistoryLogs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit < 1 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	logs, err := h.audit.List(c.Request.Context(), limit, offset)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, "OK", logs)
}
