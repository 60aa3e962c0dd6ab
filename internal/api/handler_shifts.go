package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"careshift-backend/internal/scheduling"
)

type createShiftRequest struct {
	AgencyID            string  `json:"agencyId" binding:"required"`
	GroupID             string  `json:"groupId"`
	ElderID             string  `json:"elderId" binding:"required"`
	ElderName           string  `json:"elderName"`
	CaregiverID         string  `json:"caregiverId" binding:"required"`
	CaregiverName       string  `json:"caregiverName"`
	Date                string  `json:"date" binding:"required"`
	StartTime           string  `json:"startTime" binding:"required"`
	EndTime             string  `json:"endTime" binding:"required"`
	IsRecurring         bool    `json:"isRecurring"`
	RecurringScheduleID *string `json:"recurringScheduleId"`
	Notes               *string `json:"notes"`
}

// PostShift handles POST /api/shifts.
func (h *Handler) PostShift(c *gin.Context) {
	var req createShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res := h.scheduling.CreateShift(c.Request.Context(), scheduling.CreateShiftParams{
		AgencyID:            req.AgencyID,
		GroupID:             req.GroupID,
		ElderID:             req.ElderID,
		ElderName:           req.ElderName,
		CaregiverID:         req.CaregiverID,
		CaregiverName:       req.CaregiverName,
		Date:                req.Date,
		StartTime:           req.StartTime,
		EndTime:             req.EndTime,
		IsRecurring:         req.IsRecurring,
		RecurringScheduleID: req.RecurringScheduleID,
		Notes:               req.Notes,
		CreatedBy:           actorFrom(c),
	})
	if !res.Success {
		status := http.StatusInternalServerError
		if res.Conflict != nil {
			status = http.StatusConflict
		}
		c.JSON(status, res)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// GetShifts handles GET /api/shifts.
func (h *Handler) GetShifts(c *gin.Context) {
	agencyID := c.Query("agency_id")
	startDate := c.Query("start_date")
	endDate := c.Query("end_date")
	if agencyID == "" || startDate == "" || endDate == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "agency_id, start_date and end_date are required"})
		return
	}

	shifts := h.scheduling.GetShifts(c.Request.Context(), agencyID, startDate, endDate, c.Query("caregiver_id"), actorFrom(c))
	c.JSON(http.StatusOK, shifts)
}

// ConfirmShift handles POST /api/shifts/:id/confirm.
func (h *Handler) ConfirmShift(c *gin.Context) {
	res := h.scheduling.ConfirmShift(c.Request.Context(), c.Param("id"), actorFrom(c))
	respondShiftResult(c, res)
}

type cancelShiftRequest struct {
	Reason *string `json:"reason"`
}

// CancelShift handles POST /api/shifts/:id/cancel.
func (h *Handler) CancelShift(c *gin.Context) {
	var req cancelShiftRequest
	// Body is optional; a missing reason is fine.
	_ = c.ShouldBindJSON(&req)

	res := h.scheduling.CancelShift(c.Request.Context(), c.Param("id"), actorFrom(c), req.Reason)
	respondShiftResult(c, res)
}

// CompleteShift handles POST /api/shifts/:id/complete.
func (h *Handler) CompleteShift(c *gin.Context) {
	res := h.scheduling.CompleteShift(c.Request.Context(), c.Param("id"), actorFrom(c))
	respondShiftResult(c, res)
}

type linkSessionRequest struct {
	SessionID string `json:"sessionId" binding:"required"`
}

// LinkShiftSession handles POST /api/shifts/:id/session.
func (h *Handler) LinkShiftSession(c *gin.Context) {
	var req linkSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res := h.scheduling.LinkToSession(c.Request.Context(), c.Param("id"), req.SessionID, actorFrom(c))
	respondShiftResult(c, res)
}

func respondShiftResult(c *gin.Context, res scheduling.ShiftResult) {
	if !res.Success {
		status := http.StatusInternalServerError
		if res.Error == "shift not found" {
			status = http.StatusNotFound
		}
		c.JSON(status, res)
		return
	}
	c.JSON(http.StatusOK, res)
}
