package controller

import (
	"net/http"

	"github.com/clinichub/clinic-booking/internal/model"
	"github.com/clinichub/clinic-booking/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ClinicHandler struct {
	clinics *service.ClinicService
	users   *service.UserService
}

func NewClinicHandler(clinics *service.ClinicService, users *service.UserService) *ClinicHandler {
	return &ClinicHandler{clinics: clinics, users: users}
}

type createClinicRequest struct {
	Name        string  `json:"name" binding:"required"`
	Email       string  `json:"email" binding:"omitempty,email"`
	Hotline     string  `json:"hotline"`
	Address     string  `json:"address" binding:"required"`
	Description string  `json:"description"`
	Logo        *string `json:"logo"`
}

func (h *ClinicHandler) Create(c *gin.Context) {
	var req createClinicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, service.MsgMissingRequiredFields)
		return
	}

	clinic, err := h.clinics.CreateClinic(c.Request.Context(), actorFrom(c), service.CreateClinicRequest{
		Name:        req.Name,
		Email:       req.Email,
		Hotline:     req.Hotline,
		Address:     req.Address,
		Description: req.Description,
		Logo:        req.Logo,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, "Clinic created successfully", clinic)
}

func (h *ClinicHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid clinic id")
		return
	}

	clinic, err := h.clinics.GetClinic(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, "OK", clinic)
}

func (h *ClinicHandler) List(c *gin.Context) {
	clinics, err := h.clinics.ListClinics(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, "OK", clinics)
}

func (h *ClinicHandler) ListDoctors(c *gin.Context) {
	clinicID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid clinic id")
		return
	}

	doctors, err := h.users.ListDoctorsByClinic(c.Request.Context(), clinicID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, "OK", doctors)
}

type createMedicalServiceRequest struct {
	Name          string   `json:"name" binding:"required"`
	OriginalPrice *float64 `json:"original_price"`
	CurrentPrice  float64  `json:"current_price" binding:"required,gt=0"`
	Type          int      `json:"type" binding:"required,oneof=1 2"`
	ClinicID      string   `json:"clinic_id" binding:"required,uuid"`
}

func (h *ClinicHandler) CreateMedicalService(c *gin.Context) {
	var req createMedicalServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, service.MsgMissingRequiredFields)
		return
	}

	svc, err := h.clinics.CreateMedicalService(c.Request.Context(), actorFrom(c), service.CreateMedicalServiceRequest{
		Name:          req.Name,
		OriginalPrice: req.OriginalPrice,
		CurrentPrice:  req.CurrentPrice,
		Type:          model.MedicalServiceType(req.Type),
		ClinicID:      uuid.MustParse(req.ClinicID),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, "Medical service created successfully", svc)
}

func (h *ClinicHandler) ListMedicalServices(c *gin.Context) {
	clinicID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid clinic id")
		return
	}

	services, err := h.clinics.ListMedicalServices(c.Request.Context(), clinicID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, "OK", services)
}
