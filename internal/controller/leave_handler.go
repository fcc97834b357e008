package controller

import (
	"net/http"
	"time"

	"github.com/clinichub/clinic-booking/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type LeaveHandler struct {
	leaves *service.LeaveService
}

func NewLeaveHandler(leaves *service.LeaveService) *LeaveHandler {
	return &LeaveHandler{leaves: leaves}
}

type createLeaveRequest struct {
	DoctorID         string    `json:"doctor_id" binding:"required,uuid"`
	ClinicScheduleID string    `json:"clinic_schedule_id" binding:"required,uuid"`
	Date             time.Time `json:"date" binding:"required"`
	Reason           string    `json:"reason" binding:"required"`
}

func (h *LeaveHandler) Create(c *gin.Context) {
	var req createLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, service.MsgMissingRequiredFields)
		return
	}

	leave, err := h.leaves.Create(c.Request.Context(), actorFrom(c), service.CreateLeaveRequest{
		DoctorID:         uuid.MustParse(req.DoctorID),
		ClinicScheduleID: uuid.MustParse(req.ClinicScheduleID),
		Date:             req.Date,
		Reason:           req.Reason,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, "Leave schedule created successfully", leave)
}

func (h *LeaveHandler) ListByDoctor(c *gin.Context) {
	doctorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid doctor id")
		return
	}

	leaves, err := h.leaves.ListByDoctor(c.Request.Context(), actorFrom(c), doctorID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, "OK", leaves)
}

func (h *LeaveHandler) Activate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid leave id")
		return
	}

	leave, err := h.leaves.Activate(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, "Leave schedule activated successfully", leave)
}

func (h *LeaveHandler) Deactivate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid leave id")
		return
	}

	leave, err := h.leaves.Deactivate(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, "Leave schedule deactivated successfully", leave)
}

func (h *LeaveHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid leave id")
		return
	}

	if err := h.leaves.Delete(c.Request.Context(), actorFrom(c), id); err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, "Leave schedule deleted successfully", nil)
}
