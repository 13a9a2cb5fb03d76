package controllers

import (
	"context"
	"net/http"

	"food-delivery/models"

	"github.com/gin-gonic/gin"
)

type Pinger interface {
	Ping(ctx context.Context) (int, error)
}

type SystemController struct {
	db Pinger
}

func NewSystemController(db Pinger) *SystemController {
	return &SystemController{db: db}
}

// TestDB godoc
// @Summary Check database connectivity
// @Tags System
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} models.ErrorResponse
// @Router /test-db [get]
func (ctrl *SystemController) TestDB(c *gin.Context) {
	solution, err := ctrl.db.Ping(c.Request.Context())
	if err != nil {
		serverError(c, "Database connection failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "Database connection successful",
		"solution": solution,
	})
}

func (ctrl *SystemController) Health(c *gin.Context) {
	if _, err := ctrl.db.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{Success: false, Message: "unhealthy", Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
