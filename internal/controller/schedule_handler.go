package controller

import (
	"net/http"
	"time"

	"github.com/clinichub/clinic-booking/internal/model"
	"github.com/clinichub/clinic-booking/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ScheduleHandler struct {
	schedules *service.ScheduleService
}

func NewScheduleHandler(schedules *service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{schedules: schedules}
}

type createScheduleRequest struct {
	ClinicID  string `json:"clinic_id" binding:"required,uuid"`
	StartTime string `json:"start_time" binding:"required,slottime"`
	EndTime   string `json:"end_time" binding:"required,slottime"`
}

func (h *ScheduleHandler) Create(c *gin.Context) {
	var req createScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, service.MsgMissingRequiredFields)
		return
	}

	schedule, err := h.schedules.Create(c.Request.Context(), actorFrom(c), service.CreateScheduleRequest{
		ClinicID:  uuid.MustParse(req.ClinicID),
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, "Clinic schedule created successfully", schedule)
}

func (h *ScheduleHandler) ListByClinic(c *gin.Context) {
	clinicID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid clinic id")
		return
	}

	schedules, err := h.schedules.ListByClinic(c.Request.Context(), actorFrom(c), clinicID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, "OK", schedules)
}

type updateScheduleRequest struct {
	StartTime *string `json:"start_time" binding:"omitempty,slottime"`
	EndTime   *string `json:"end_time" binding:"omitempty,slottime"`
	Status    *int    `json:"status" binding:"omitempty,oneof=1 2"`
}

func (h *ScheduleHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid schedule id")
		return
	}

	var req updateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, service.MsgMissingRequiredFields)
		return
	}

	var status *model.ActiveStatus
	if req.Status != nil {
		s := model.ActiveStatus(*req.Status)
		status = &s
	}

	schedule, err := h.schedules.Update(c.Request.Context(), actorFrom(c), id, service.UpdateScheduleRequest{
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Status:    status,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, "Clinic schedule updated successfully", schedule)
}

func (h *ScheduleHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid schedule id")
		return
	}

	if err := h.schedules.Delete(c.Request.Context(), actorFrom(c), id); err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, "Clinic schedule deleted successfully", nil)
}

type createRequestChangeRequest struct {
	Name      string    `json:"name" binding:"required"`
	ClinicID  string    `json:"clinic_id" binding:"required,uuid"`
	ApplyDate time.Time `json:"apply_date" binding:"required"`
	NewValue  []string  `json:"new_value" binding:"required,dive,uuid"`
}

func (h *ScheduleHandler) CreateRequestChange(c *gin.Context) {
	var req createRequestChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, service.MsgMissingRequiredFields)
		return
	}

	newValue := make([]uuid.UUID, 0, len(req.NewValue))
	for _, raw := range req.NewValue {
		newValue = append(newValue, uuid.MustParse(raw))
	}

	request, err := h.schedules.CreateRequestChange(c.Request.Context(), actorFrom(c), service.CreateRequestChangeRequest{
		Name:      req.Name,
		ClinicID:  uuid.MustParse(req.ClinicID),
		ApplyDate: req.ApplyDate,
		NewValue:  newValue,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, "Schedule change requested successfully", request)
}

func (h *ScheduleHandler) ListRequestChanges(c *gin.Context) {
	clinicID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid clinic id")
		return
	}

	requests, err := h.schedules.ListRequestChanges(c.Request.Context(), actorFrom(c), clinicID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, "OK", requests)
}

type replaceWorkingSchedulesRequest struct {
	ScheduleIDs []string `json:"schedule_ids" binding:"required,dive,uuid"`
}

func (h *ScheduleHandler) ReplaceWorkingSchedules(c *gin.Context) {
	doctorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid doctor id")
		return
	}

	var req replaceWorkingSchedulesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, service.MsgMissingRequiredFields)
		return
	}

	scheduleIDs := make([]uuid.UUID, 0, len(req.ScheduleIDs))
	for _, raw := range req.ScheduleIDs {
		scheduleIDs = append(scheduleIDs, uuid.MustParse(raw))
	}

	links, err := h.schedules.ReplaceWorkingSchedules(c.Request.Context(), actorFrom(c), doctorID, scheduleIDs)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, "Working schedules updated successfully", links)
}

func (h *ScheduleHandler) ListWorkingSchedules(c *gin.Context) {
	doctorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid doctor id")
		return
	}

	links, err := h.schedules.ListWorkingSchedules(c.Request.Context(), doctorID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, "OK", links)
}
