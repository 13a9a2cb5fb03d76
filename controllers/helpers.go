package controllers

import (
	"net/http"
	"strconv"

	"food-delivery/models"

	"github.com/gin-gonic/gin"
)

func parseID(c *gin.Context, param string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Message: "Invalid " + param,
		})
		return 0, false
	}
	return id, true
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Success: false,
		Message: "Invalid request body",
		Error:   err.Error(),
	})
}

func serverError(c *gin.Context, message string, err error) {
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, models.ErrorResponse{
		Success: false,
		Message: message,
		Error:   err.Error(),
	})
}
