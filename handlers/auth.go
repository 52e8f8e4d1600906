package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"medibook/utils"
)

// DevTokenHandler issues a short-lived bearer token for local development
// and integration testing. The route is only registered outside production;
// real deployments get tokens from the identity collaborator.
func (hb *HandlerBundle) DevTokenHandler(c *gin.Context) {
	var input struct {
		Subject string `json:"subject" binding:"required"`
		Role    string `json:"role"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	if input.Role == "" {
		input.Role = "doctor"
	}

	token, err := utils.GenerateToken(input.Subject, input.Role, 24*time.Hour)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "expiresIn": int((24 * time.Hour).Seconds())})
}
