package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"medibook/config"
	doctorRepo "medibook/database/repository/doctor"
	"medibook/models"
	"medibook/services/schedule"
)

// CreateDoctorHandler registers a doctor profile. POST /api/doctors
func (hb *HandlerBundle) CreateDoctorHandler(c *gin.Context) {
	var input struct {
		Name                  string                  `json:"name" binding:"required"`
		Specialty             string                  `json:"specialty"`
		Timezone              string                  `json:"timezone"`
		WeeklyTemplate        []models.WorkingDayRule `json:"weeklyTemplate"`
		SlotDurationMinutes   int                     `json:"slotDurationMinutes"`
		MaxAppointmentsPerDay int                     `json:"maxAppointmentsPerDay"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	if input.Timezone != "" {
		if _, err := time.LoadLocation(input.Timezone); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown timezone", "details": err.Error()})
			return
		}
	}
	// Same invariants as a template replace; creation is not a side door.
	if err := schedule.ValidateTemplate(input.WeeklyTemplate); err != nil {
		respondError(c, err)
		return
	}

	now := time.Now()
	doc := &models.Doctor{
		ID:                    uuid.New().String(),
		Name:                  input.Name,
		Specialty:             input.Specialty,
		Timezone:              input.Timezone,
		WeeklyTemplate:        models.WeeklyTemplate(input.WeeklyTemplate),
		SlotDurationMinutes:   input.SlotDurationMinutes,
		MaxAppointmentsPerDay: input.MaxAppointmentsPerDay,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	if doc.SlotDurationMinutes <= 0 {
		doc.SlotDurationMinutes = config.AppConfig.DefaultSlotMinutes
	}
	if doc.SlotDurationMinutes <= 0 {
		doc.SlotDurationMinutes = 30
	}
	if doc.MaxAppointmentsPerDay < 0 {
		doc.MaxAppointmentsPerDay = config.AppConfig.DefaultDailyCap
	}

	if err := hb.Doctors.Create(c.Request.Context(), doc); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"doctor": doc})
}

// GetDoctorHandler returns the doctor profile, template and breaks included.
// GET /api/doctors/:id
func (hb *HandlerBundle) GetDoctorHandler(c *gin.Context) {
	doc, err := hb.Doctors.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, doctorRepo.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "doctor not found"})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"doctor": doc})
}

// ReplaceTemplateHandler swaps the whole weekly template.
// PUT /api/doctors/:id/template
func (hb *HandlerBundle) ReplaceTemplateHandler(c *gin.Context) {
	var req models.ReplaceTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	if err := hb.Schedule.ReplaceTemplate(c.Request.Context(), c.Param("id"), req.Rules); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"doctorId": c.Param("id"), "rules": len(req.Rules)})
}

// AddBreakHandler registers a break interval. POST /api/doctors/:id/breaks
func (hb *HandlerBundle) AddBreakHandler(c *gin.Context) {
	var req models.AddBreakRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	br, err := hb.Schedule.AddBreak(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"break": br})
}

// RemoveBreakHandler deletes a break interval.
// DELETE /api/doctors/:id/breaks/:breakID
func (hb *HandlerBundle) RemoveBreakHandler(c *gin.Context) {
	if err := hb.Schedule.RemoveBreak(c.Request.Context(), c.Param("id"), c.Param("breakID")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": c.Param("breakID")})
}

// UpdateSlotSettingsHandler changes slot duration and the daily cap.
// PATCH /api/doctors/:id/slot-settings
func (hb *HandlerBundle) UpdateSlotSettingsHandler(c *gin.Context) {
	var input struct {
		SlotDurationMinutes   int `json:"slotDurationMinutes" binding:"required"`
		MaxAppointmentsPerDay int `json:"maxAppointmentsPerDay"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	if err := hb.Schedule.UpdateSlotSettings(c.Request.Context(), c.Param("id"), input.SlotDurationMinutes, input.MaxAppointmentsPerDay); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"doctorId": c.Param("id")})
}
