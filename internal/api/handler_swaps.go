package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"careshift-backend/internal/scheduling"
)

type createSwapRequest struct {
	AgencyID                string  `json:"agencyId" binding:"required"`
	RequestingCaregiverID   string  `json:"requestingCaregiverId" binding:"required"`
	RequestingCaregiverName string  `json:"requestingCaregiverName"`
	TargetCaregiverID       *string `json:"targetCaregiverId"`
	TargetCaregiverName     *string `json:"targetCaregiverName"`
	ShiftToSwapID           string  `json:"shiftToSwapId" binding:"required"`
	OfferShiftID            *string `json:"offerShiftId"`
	Reason                  *string `json:"reason"`
}

// PostSwapRequest handles POST /api/swap-requests.
func (h *Handler) PostSwapRequest(c *gin.Context) {
	var req createSwapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res := h.scheduling.CreateSwapRequest(c.Request.Context(), scheduling.CreateSwapParams{
		AgencyID:                req.AgencyID,
		RequestingCaregiverID:   req.RequestingCaregiverID,
		RequestingCaregiverName: req.RequestingCaregiverName,
		TargetCaregiverID:       req.TargetCaregiverID,
		TargetCaregiverName:     req.TargetCaregiverName,
		ShiftToSwapID:           req.ShiftToSwapID,
		OfferShiftID:            req.OfferShiftID,
		Reason:                  req.Reason,
	})
	respondSwapResult(c, res, http.StatusCreated)
}

// ListSwapRequests handles GET /api/swap-requests.
func (h *Handler) ListSwapRequests(c *gin.Context) {
	caregiverID := c.Query("caregiver_id")
	agencyID := c.Query("agency_id")
	if caregiverID == "" || agencyID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "caregiver_id and agency_id are required"})
		return
	}

	kind := scheduling.SwapQueryKind(c.DefaultQuery("type", string(scheduling.SwapsReceived)))
	if kind != scheduling.SwapsReceived && kind != scheduling.SwapsSent {
		c.JSON(http.StatusBadRequest, gin.H{"error": "type must be received or sent"})
		return
	}

	swaps := h.scheduling.GetSwapRequests(c.Request.Context(), caregiverID, agencyID, kind)
	c.JSON(http.StatusOK, swaps)
}

type acceptSwapRequest struct {
	CaregiverID   string `json:"caregiverId" binding:"required"`
	CaregiverName string `json:"caregiverName"`
}

// AcceptSwapRequest handles POST /api/swap-requests/:id/accept.
func (h *Handler) AcceptSwapRequest(c *gin.Context) {
	var req acceptSwapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res := h.scheduling.AcceptSwap(c.Request.Context(), c.Param("id"), req.CaregiverID, req.CaregiverName)
	respondSwapResult(c, res, http.StatusOK)
}

type closeSwapRequest struct {
	CaregiverID string `json:"caregiverId" binding:"required"`
}

// RejectSwapRequest handles POST /api/swap-requests/:id/reject.
func (h *Handler) RejectSwapRequest(c *gin.Context) {
	var req closeSwapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res := h.scheduling.RejectSwap(c.Request.Context(), c.Param("id"), req.CaregiverID)
	respondSwapResult(c, res, http.StatusOK)
}

// CancelSwapRequest handles POST /api/swap-requests/:id/cancel.
func (h *Handler) CancelSwapRequest(c *gin.Context) {
	var req closeSwapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res := h.scheduling.CancelSwap(c.Request.Context(), c.Param("id"), req.CaregiverID)
	respondSwapResult(c, res, http.StatusOK)
}

func respondSwapResult(c *gin.Context, res scheduling.SwapResult, okStatus int) {
	if !res.Success {
		status := http.StatusInternalServerError
		switch res.Error {
		case "swap request not found", "shift not found", "offered shift not found":
			status = http.StatusNotFound
		case "swap request is no longer pending":
			status = http.StatusConflict
		}
		c.JSON(status, res)
		return
	}
	c.JSON(okStatus, res)
}
