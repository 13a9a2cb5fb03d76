package controllers

import (
	"net/http"

	"food-delivery/models"
	"food-delivery/services"

	"github.com/gin-gonic/gin"
)

type CategoryController struct {
	productService *services.ProductService
}

func NewCategoryController(productService *services.ProductService) *CategoryController {
	return &CategoryController{productService: productService}
}

// @Summary Get all categories
// @Description List menu categories with the number of items in each
// @Tags categories
// @Produce json
// @Success 200 {object} models.Response
// @Failure 500 {object} models.ErrorResponse
// @Router /categories [get]
func (ctrl *CategoryController) GetCategories(c *gin.Context) {
	categories, err := ctrl.productService.GetCategories(c.Request.Context())
	if err != nil {
		serverError(c, "Failed to get categories", err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Categories retrieved",
		Data:    categories,
	})
}
