package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"careshift-backend/internal/model"
	"careshift-backend/internal/scheduling"
)

type createRequestRequest struct {
	AgencyID        string   `json:"agencyId" binding:"required"`
	CaregiverID     string   `json:"caregiverId" binding:"required"`
	CaregiverName   string   `json:"caregiverName"`
	RequestType     string   `json:"requestType" binding:"required,oneof=specific recurring"`
	SpecificDate    *string  `json:"specificDate"`
	RecurringDays   []int    `json:"recurringDays" binding:"omitempty,dive,gte=0,lte=6"`
	StartTime       string   `json:"startTime" binding:"required"`
	EndTime         string   `json:"endTime" binding:"required"`
	PreferredElders []string `json:"preferredElders"`
	Notes           *string  `json:"notes"`
}

// PostShiftRequest handles POST /api/shift-requests.
func (h *Handler) PostShiftRequest(c *gin.Context) {
	var req createRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res := h.scheduling.CreateRequest(c.Request.Context(), scheduling.CreateRequestParams{
		AgencyID:        req.AgencyID,
		CaregiverID:     req.CaregiverID,
		CaregiverName:   req.CaregiverName,
		RequestType:     model.RequestType(req.RequestType),
		SpecificDate:    req.SpecificDate,
		RecurringDays:   req.RecurringDays,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		PreferredElders: req.PreferredElders,
		Notes:           req.Notes,
	})
	if !res.Success {
		c.JSON(http.StatusBadRequest, res)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// ListShiftRequests handles GET /api/shift-requests.
func (h *Handler) ListShiftRequests(c *gin.Context) {
	agencyID := c.Query("agency_id")
	if agencyID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "agency_id is required"})
		return
	}

	reqs := h.scheduling.ListRequests(c.Request.Context(), agencyID, model.RequestStatus(c.Query("status")), actorFrom(c))
	c.JSON(http.StatusOK, reqs)
}

type approveRequestRequest struct {
	ElderID   string  `json:"elderId" binding:"required"`
	ElderName string  `json:"elderName"`
	GroupID   string  `json:"groupId"`
	Notes     *string `json:"notes"`
}

// ApproveShiftRequest handles POST /api/shift-requests/:id/approve.
func (h *Handler) ApproveShiftRequest(c *gin.Context) {
	var req approveRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res := h.scheduling.ApproveRequest(c.Request.Context(), c.Param("id"), actorFrom(c), req.ElderID, req.ElderName, req.GroupID, req.Notes)
	respondApprovalResult(c, res)
}

type rejectRequestRequest struct {
	Reason string `json:"reason"`
}

// RejectShiftRequest handles POST /api/shift-requests/:id/reject.
func (h *Handler) RejectShiftRequest(c *gin.Context) {
	var req rejectRequestRequest
	_ = c.ShouldBindJSON(&req)

	res := h.scheduling.RejectRequest(c.Request.Context(), c.Param("id"), actorFrom(c), req.Reason)
	respondApprovalResult(c, res)
}

func respondApprovalResult(c *gin.Context, res scheduling.ApprovalResult) {
	if !res.Success {
		status := http.StatusInternalServerError
		switch res.Error {
		case "shift request not found":
			status = http.StatusNotFound
		case "shift request has already been reviewed":
			status = http.StatusConflict
		}
		c.JSON(status, res)
		return
	}
	c.JSON(http.StatusOK, res)
}
