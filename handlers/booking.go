package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"medibook/models"
)

// BookSlotHandler commits a booking for a previously generated slot.
// POST /api/appointments
func (hb *HandlerBundle) BookSlotHandler(c *gin.Context) {
	var req models.BookSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	appt, err := hb.Booking.Book(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"appointment": appt})
}

// UpdateAppointmentStatusHandler moves an appointment along its lifecycle.
// PATCH /api/appointments/:id/status
func (hb *HandlerBundle) UpdateAppointmentStatusHandler(c *gin.Context) {
	var input struct {
		Status models.AppointmentStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	appt, err := hb.Booking.UpdateStatus(c.Request.Context(), c.Param("id"), input.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointment": appt})
}

// AppointmentHistoryHandler lists committed appointments over an inclusive
// date range. GET /api/doctors/:id/appointments?from=...&to=...
func (hb *HandlerBundle) AppointmentHistoryHandler(c *gin.Context) {
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

	appts, err := hb.Booking.History(c.Request.Context(), doctorID, from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"doctorId": doctorID, "appointments": appts})
}
