package controller

import (
	"net/http"

	"github.com/clinichub/clinic-booking/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type HealthRecordHandler struct {
	records *service.HealthRecordService
}

func NewHealthRecordHandler(records *service.HealthRecordService) *HealthRecordHandler {
	return &HealthRecordHandler{records: records}
}

func (h *HealthRecordHandler) Get(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid user id")
		return
	}

	record, err := h.records.Get(c.Request.Context(), actorFrom(c), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, "Get health record success", record)
}

type updateHealthRecordRequest struct {
	BloodType     *string  `json:"blood_type"`
	Height        *float64 `json:"height"`
	Weight        *float64 `json:"weight"`
	HealthHistory *string  `json:"health_history"`
}

func (h *HealthRecordHandler) Update(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid user id")
		return
	}

	var req updateHealthRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, service.MsgMissingRequiredFields)
		return
	}

	record, err := h.records.Update(c.Request.Context(), actorFrom(c), userID, service.UpdateHealthRecordRequest{
		BloodType:     req.BloodType,
		Height:        req.Height,
		Weight:        req.Weight,
		HealthHistory: req.HealthHistory,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, "Update health record success", record)
}
