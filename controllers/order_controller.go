package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sort"
	"strconv"

	"food-delivery/middleware"
	"food-delivery/models"
	"food-delivery/services"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

const (
	IdempotencyKeyHeader   = "Idempotency-Key"
	IdempotentReplayHeader = "Idempotent-Replayed"
	orderCreatedMessage    = "Order created successfully"
	orderReplayedMessage   = "Order already created"
)

type OrderController struct {
	orderService *services.OrderService
}

func NewOrderController(orderService *services.OrderService) *OrderController {
	return &OrderController{orderService: orderService}
}

// CreateOrder godoc
// @Summary Create order
// @Description Persist an order and its items in one transaction. Send Idempotency-Key to make retries safe.
// @Tags Orders
// @Accept json
// @Produce json
// @Param Idempotency-Key header string false "Client generated key, unique per buyer"
// @Param request body models.CreateOrderRequest true "Order"
// @Success 201 {object} models.OrderCreatedResponse
// @Success 200 {object} models.OrderCreatedResponse "Replayed"
// @Failure 400 {object} models.MissingFieldsResponse
// @Failure 403 {object} models.APIError
// @Failure 422 {object} models.APIError
// @Failure 500 {object} models.APIError
// @Router /orders [post]
func (ctrl *OrderController) CreateOrder(c *gin.Context) {
	var req models.CreateOrderRequest
	// An empty body is reported as missing fields, not as malformed JSON.
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, models.APIError{
			Error:   "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	if userID, role, ok := middleware.CurrentUser(c); ok && req.UserID != 0 && req.UserID != userID && role != models.RoleAdmin {
		c.JSON(http.StatusForbidden, models.APIError{
			Error:   "Forbidden",
			Details: "user_id does not match the authenticated user",
		})
		return
	}

	result, err := ctrl.orderService.CreateOrder(c.Request.Context(), req, c.GetHeader(IdempotencyKeyHeader))
	if err != nil {
		ctrl.writeCreateError(c, err)
		return
	}

	status, message := http.StatusCreated, orderCreatedMessage
	if result.Replayed {
		c.Header(IdempotentReplayHeader, "true")
		status, message = http.StatusOK, orderReplayedMessage
	}

	c.JSON(status, models.OrderCreatedResponse{
		ID:          result.Order.ID,
		Message:     message,
		TotalAmount: result.Order.TotalAmount.StringFixed(2),
	})
}

func (ctrl *OrderController) writeCreateError(c *gin.Context, err error) {
	var missing *services.MissingFieldsError
	var invalid *services.FieldError

	switch {
	case errors.As(err, &missing):
		c.JSON(http.StatusBadRequest, models.MissingFieldsResponse{
			Error:    "Missing required fields",
			Required: missing.Required,
			Missing:  missing.Missing,
			Received: receivedFields(c),
		})
	case errors.As(err, &invalid):
		c.JSON(http.StatusBadRequest, models.FieldErrorResponse{
			Error:   "Invalid field",
			Field:   invalid.Field,
			Details: invalid.Message,
		})
	case errors.Is(err, services.ErrInvalidReference):
		_ = c.Error(err)
		c.JSON(http.StatusUnprocessableEntity, models.APIError{
			Error:   "Order references a user or menu item that does not exist",
			Details: err.Error(),
		})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, models.APIError{
			Error:   "Error creating order",
			Details: err.Error(),
		})
	}
}

// receivedFields lists the top-level keys of the JSON body, sorted.
func receivedFields(c *gin.Context) []string {
	received := []string{}

	raw, ok := c.Get(gin.BodyBytesKey)
	if !ok {
		return received
	}
	body, ok := raw.([]byte)
	if !ok {
		return received
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return received
	}
	for k := range fields {
		received = append(received, k)
	}
	sort.Strings(received)
	return received
}

// GetOrders godoc
// @Summary List orders
// @Tags Orders
// @Produce json
// @Success 200 {array} models.Order
// @Failure 500 {object} models.APIError
// @Router /orders [get]
func (ctrl *OrderController) GetOrders(c *gin.Context) {
	orders, err := ctrl.orderService.ListOrders(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, models.APIError{Error: "Error fetching orders", Details: err.Error()})
		return
	}
	c.JSON(http.StatusOK, orders)
}

// GetOrderByID godoc
// @Summary Get order with items
// @Tags Orders
// @Produce json
// @Param id path int true "Order ID"
// @Success 200 {object} models.Order
// @Failure 404 {object} models.APIError
// @Router /orders/{id} [get]
func (ctrl *OrderController) GetOrderByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, models.APIError{Error: "Invalid order id"})
		return
	}

	order, err := ctrl.orderService.GetOrder(c.Request.Context(), id)
	if errors.Is(err, services.ErrOrderNotFound) {
		c.JSON(http.StatusNotFound, models.APIError{Error: "Order not found"})
		return
	}
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, models.APIError{Error: "Error fetching order", Details: err.Error()})
		return
	}
	c.JSON(http.StatusOK, order)
}

// GetUserOrders godoc
// @Summary List a user's orders with item names
// @Tags Orders
// @Produce json
// @Param userId path int true "User ID"
// @Success 200 {array} models.UserOrderRow
// @Failure 500 {object} models.APIError
// @Router /users/{userId}/orders [get]
func (ctrl *OrderController) GetUserOrders(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.APIError{Error: "Invalid user id"})
		return
	}

	rows, err := ctrl.orderService.ListUserOrders(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, models.APIError{Error: "Error fetching user orders", Details: err.Error()})
		return
	}
	c.JSON(http.StatusOK, rows)
}

// GetOrderItems godoc
// @Summary List all order items
// @Tags Orders
// @Produce json
// @Success 200 {array} models.OrderItem
// @Failure 500 {object} models.APIError
// @Router /order-items [get]
func (ctrl *OrderController) GetOrderItems(c *gin.Context) {
	items, err := ctrl.orderService.ListOrderItems(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, models.APIError{Error: "Error fetching order items", Details: err.Error()})
		return
	}
	c.JSON(http.StatusOK, items)
}

// DeleteOrder godoc
// @Summary Delete order and its items
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Param id path int true "Order ID"
// @Success 200 {object} models.Response
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/orders/{id} [delete]
func (ctrl *OrderController) DeleteOrder(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := ctrl.orderService.DeleteOrder(c.Request.Context(), id); err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{Success: false, Message: "Order not found"})
			return
		}
		serverError(c, "Failed to delete order", err)
		return
	}

	c.JSON(http.StatusOK, models.Response{Success: true, Message: "Order deleted successfully"})
}
