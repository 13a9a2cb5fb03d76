package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"food-delivery/middleware"
	"food-delivery/models"
	"food-delivery/services"

	"github.com/gin-gonic/gin"
)

type HistoryController struct {
	orderService *services.OrderService
}

func NewHistoryController(orderService *services.OrderService) *HistoryController {
	return &HistoryController{orderService: orderService}
}

// @Summary Get order history
// @Description Get the authenticated user's orders, newest first, one page at a time
// @Tags History
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Param month query string false "Filter by month (format: January 2023)"
// @Success 200 {object} models.HistoryResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /history [get]
func (ctrl *HistoryController) GetHistory(c *gin.Context) {
	userID, _, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Success: false, Message: "User not authenticated"})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "4"))

	orders, pagination, err := ctrl.orderService.OrderHistory(c.Request.Context(), userID, page, limit, c.Query("month"))
	if err != nil {
		var invalid *services.FieldError
		if errors.As(err, &invalid) {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Success: false,
				Message: "Invalid " + invalid.Field,
				Error:   invalid.Message,
			})
			return
		}
		serverError(c, "Failed to get order history", err)
		return
	}

	c.JSON(http.StatusOK, models.HistoryResponse{
		Success:    true,
		Message:    "Order history retrieved",
		Data:       orders,
		Pagination: pagination,
	})
}
