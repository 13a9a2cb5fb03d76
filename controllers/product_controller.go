package controllers

import (
	"errors"
	"net/http"

	"food-delivery/models"
	"food-delivery/services"

	"github.com/gin-gonic/gin"
)

type ProductController struct {
	productService *services.ProductService
}

func NewProductController(productService *services.ProductService) *ProductController {
	return &ProductController{productService: productService}
}

// GetMenu godoc
// @Summary Get menu
// @Description All menu items as a plain array
// @Tags Menu
// @Produce json
// @Success 200 {array} models.MenuItem
// @Failure 500 {object} models.APIError
// @Router /menu [get]
func (ctrl *ProductController) GetMenu(c *gin.Context) {
	items, err := ctrl.productService.GetAllProducts(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, models.APIError{Error: "Error fetching menu items", Details: err.Error()})
		return
	}
	c.JSON(http.StatusOK, items)
}

// @Summary Get all products
// @Tags Products
// @Produce json
// @Success 200 {object} models.Response
// @Router /products [get]
func (ctrl *ProductController) GetAllProducts(c *gin.Context) {
	items, err := ctrl.productService.GetAllProducts(c.Request.Context())
	if err != nil {
		serverError(c, "Failed to retrieve products", err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Products retrieved successfully",
		Data:    items,
	})
}

// @Summary Get product by ID
// @Tags Products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} models.Response
// @Failure 404 {object} models.ErrorResponse
// @Router /products/{id} [get]
func (ctrl *ProductController) GetProductByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	p, err := ctrl.productService.GetProductByID(c.Request.Context(), id)
	if err != nil {
		ctrl.writeError(c, "Failed to retrieve product", err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Product retrieved successfully",
		Data:    p,
	})
}

// @Summary Create product
// @Tags Admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.ProductRequest true "Product"
// @Success 201 {object} models.Response
// @Router /products [post]
func (ctrl *ProductController) CreateProduct(c *gin.Context) {
	var req models.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	p, err := ctrl.productService.CreateProduct(c.Request.Context(), req)
	if err != nil {
		ctrl.writeError(c, "Failed to create product", err)
		return
	}

	c.JSON(http.StatusCreated, models.Response{
		Success: true,
		Message: "Product created successfully",
		Data:    p,
	})
}

// @Summary Update product
// @Tags Admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Param request body models.ProductRequest true "Product"
// @Success 200 {object} models.Response
// @Router /products/{id} [put]
func (ctrl *ProductController) UpdateProduct(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req models.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	p, err := ctrl.productService.UpdateProduct(c.Request.Context(), id, req)
	if err != nil {
		ctrl.writeError(c, "Failed to update product", err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Product updated successfully",
		Data:    p,
	})
}

// @Summary Delete product
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} models.Response
// @Router /products/{id} [delete]
func (ctrl *ProductController) DeleteProduct(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := ctrl.productService.DeleteProduct(c.Request.Context(), id); err != nil {
		ctrl.writeError(c, "Failed to delete product", err)
		return
	}

	c.JSON(http.StatusOK, models.Response{Success: true, Message: "Product deleted successfully"})
}

func (ctrl *ProductController) writeError(c *gin.Context, message string, err error) {
	var invalid *services.FieldError
	switch {
	case errors.Is(err, services.ErrProductNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{Success: false, Message: "Product not found"})
	case errors.As(err, &invalid):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Success: false, Message: message, Error: invalid.Error()})
	case errors.Is(err, services.ErrInvalidReference):
		c.JSON(http.StatusConflict, models.ErrorResponse{Success: false, Message: "Product is still referenced by orders or reviews", Error: err.Error()})
	default:
		serverError(c, message, err)
	}
}
