package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	doctorRepo "medibook/database/repository/doctor"
	"medibook/services/schedule"
	"medibook/utils"
)

// HandlerBundle groups the endpoint handlers and their service dependencies.
type HandlerBundle struct {
	Doctors      doctorRepo.DoctorRepository
	Availability schedule.AvailabilityService
	Booking      schedule.BookingService
	Schedule     schedule.ScheduleService
	Leave        schedule.LeaveService
}

// respondError maps coded service errors onto HTTP statuses. Contention and
// validation both surface the code so clients can branch without parsing
// message text.
func respondError(c *gin.Context, err error) {
	code := schedule.CodeOf(err)
	switch {
	case code == schedule.CodeNotFound:
		utils.JSONCodedError(c, http.StatusNotFound, code, err.Error())
	case schedule.IsContention(err),
		code == schedule.CodeOverlap, code == schedule.CodeDoctorOnLeave:
		utils.JSONCodedError(c, http.StatusConflict, code, err.Error())
	case code != "":
		// Remaining codes are caller errors (bad ranges, bad transitions).
		utils.JSONCodedError(c, http.StatusBadRequest, code, err.Error())
	default:
		utils.JSONError(c, http.StatusInternalServerError, "internal error", err.Error())
	}
}
