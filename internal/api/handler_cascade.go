package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetCascadeCandidates handles GET /api/cascade/candidates. The ranked list
// is consumed by the offer dispatcher; this endpoint performs no writes.
func (h *Handler) GetCascadeCandidates(c *gin.Context) {
	agencyID := c.Query("agency_id")
	elderID := c.Query("elder_id")
	date := c.Query("date")
	startTime := c.Query("start")
	endTime := c.Query("end")
	if agencyID == "" || elderID == "" || date == "" || startTime == "" || endTime == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "agency_id, elder_id, date, start and end are required"})
		return
	}

	candidates := h.ranker.Rank(c.Request.Context(), agencyID, elderID, date, startTime, endTime, c.Query("preferred_caregiver_id"), actorFrom(c))
	c.JSON(http.StatusOK, candidates)
}
