package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"medibook/models"
)

// GetDayAvailabilityHandler returns the generated slots for one doctor-date.
// GET /api/doctors/:id/availability?date=YYYY-MM-DD
func (hb *HandlerBundle) GetDayAvailabilityHandler(c *gin.Context) {
	doctorID := c.Param("id")
	date, err := models.ParseCalendarDate(c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date", "details": err.Error()})
		return
	}

	day, err := hb.Availability.DayAvailability(c.Request.Context(), doctorID, date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, day)
}

// GetRangeAvailabilityHandler returns per-day availability over an inclusive
// date range. GET /api/doctors/:id/availability/range?from=...&to=...
func (hb *HandlerBundle) GetRangeAvailabilityHandler(c *gin.Context) {
	doctorID := c.Param("id")
	from, err := models.ParseCalendarDate(c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from date", "details": err.Error()})
		return
	}
	to, err := models.ParseCalendarDate(c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to date", "details": err.Error()})
		return
	}

	days, err := hb.Availability.RangeAvailability(c.Request.Context(), doctorID, from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"doctorId": doctorID, "days": days})
}
