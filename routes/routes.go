package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"medibook/config"
	"medibook/handlers"
	"medibook/middleware"
	"medibook/utils"
)

// RegisterDoctorRoutes wires the doctor profile and schedule management
// endpoints. Reads are public; mutations require authentication.
func RegisterDoctorRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/doctors")
	{
		api.GET("/:id", hb.GetDoctorHandler)
		api.GET("/:id/availability", hb.GetDayAvailabilityHandler)
		api.GET("/:id/availability/range", hb.GetRangeAvailabilityHandler)

		protected := api.Group("")
		protected.Use(middleware.JWTAuthMiddleware())
		protected.POST("", hb.CreateDoctorHandler)
		protected.PUT("/:id/template", hb.ReplaceTemplateHandler)
		protected.PATCH("/:id/slot-settings", hb.UpdateSlotSettingsHandler)
		protected.POST("/:id/breaks", hb.AddBreakHandler)
		protected.DELETE("/:id/breaks/:breakID", hb.RemoveBreakHandler)

		protected.GET("/:id/leaves", hb.ListLeaveHandler)
		protected.GET("/:id/leaves/summary", hb.LeaveSummaryHandler)
		protected.POST("/:id/leaves", hb.AddLeaveHandler)
		protected.POST("/:id/leaves/bulk-remove", hb.BulkRemoveLeaveHandler)
		protected.DELETE("/:id/leaves/:leaveID", hb.RemoveLeaveHandler)

		protected.GET("/:id/appointments", hb.AppointmentHistoryHandler)
	}
}

// RegisterAppointmentRoutes wires booking and lifecycle endpoints.
func RegisterAppointmentRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/appointments")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.POST("", hb.BookSlotHandler)
		api.PATCH("/:id/status", hb.UpdateAppointmentStatusHandler)
	}
}

// RegisterHealthRoute registers the health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, utils.GetHealthStatus())
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(utils.ErrorHandler())
	r.Use(middleware.RateLimitMiddleware())

	RegisterHealthRoute(r)
	RegisterDoctorRoutes(r, hb)
	RegisterAppointmentRoutes(r, hb)

	// Development-only token mint; production deployments rely on the
	// identity collaborator to issue tokens.
	if !config.IsProduction() {
		r.POST("/api/auth/dev-token", hb.DevTokenHandler)
	}
}
