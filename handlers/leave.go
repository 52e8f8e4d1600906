package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"medibook/models"
)

// AddLeaveHandler creates a leave range. POST /api/doctors/:id/leaves
func (hb *HandlerBundle) AddLeaveHandler(c *gin.Context) {
	var req models.AddLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	lr, err := hb.Leave.AddRange(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"leave": lr})
}

// RemoveLeaveHandler deletes one leave range.
// DELETE /api/doctors/:id/leaves/:leaveID
func (hb *HandlerBundle) RemoveLeaveHandler(c *gin.Context) {
	if err := hb.Leave.Remove(c.Request.Context(), c.Param("id"), c.Param("leaveID")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": c.Param("leaveID")})
}

// BulkRemoveLeaveHandler deletes several leave ranges, reporting per-id
// outcomes. POST /api/doctors/:id/leaves/bulk-remove
func (hb *HandlerBundle) BulkRemoveLeaveHandler(c *gin.Context) {
	var input struct {
		IDs []string `json:"ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	res, err := hb.Leave.BulkRemove(c.Request.Context(), c.Param("id"), input.IDs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// ListLeaveHandler returns the full leave history, past ranges included.
// GET /api/doctors/:id/leaves
func (hb *HandlerBundle) ListLeaveHandler(c *gin.Context) {
	ranges, err := hb.Leave.List(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"doctorId": c.Param("id"), "leaves": ranges})
}

// LeaveSummaryHandler classifies the leave history against an optional asOf
// date (defaults to today). GET /api/doctors/:id/leaves/summary
func (hb *HandlerBundle) LeaveSummaryHandler(c *gin.Context) {
	asOf := models.DateOf(time.Now())
	if q := c.Query("asOf"); q != "" {
		parsed, err := models.ParseCalendarDate(q)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid asOf date", "details": err.Error()})
			return
		}
		asOf = parsed
	}

	sum, err := hb.Leave.Summarize(c.Request.Context(), c.Param("id"), asOf)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}
