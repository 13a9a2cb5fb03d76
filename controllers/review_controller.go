package controllers

import (
	"errors"
	"net/http"

	"food-delivery/middleware"
	"food-delivery/models"
	"food-delivery/services"

	"github.com/gin-gonic/gin"
)

type ReviewController struct {
	reviewService *services.ReviewService
}

func NewReviewController(reviewService *services.ReviewService) *ReviewController {
	return &ReviewController{reviewService: reviewService}
}

// CreateReview godoc
// @Summary Review a product
// @Tags Reviews
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.CreateReviewRequest true "Review"
// @Success 201 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /reviews [post]
func (ctrl *ReviewController) CreateReview(c *gin.Context) {
	var req models.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	userID, _, _ := middleware.CurrentUser(c)
	review, err := ctrl.reviewService.CreateReview(c.Request.Context(), userID, req)
	if err != nil {
		ctrl.writeError(c, "Server error creating review", err)
		return
	}

	c.JSON(http.StatusCreated, models.Response{
		Success: true,
		Message: "Review created successfully",
		Data:    review,
	})
}

// GetProductReviews godoc
// @Summary Reviews of a product, newest first
// @Tags Reviews
// @Produce json
// @Param productId path int true "Product ID"
// @Success 200 {object} models.ReviewListResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /reviews/product/{productId} [get]
func (ctrl *ReviewController) GetProductReviews(c *gin.Context) {
	productID, ok := parseID(c, "productId")
	if !ok {
		return
	}

	reviews, err := ctrl.reviewService.GetProductReviews(c.Request.Context(), productID)
	if err != nil {
		ctrl.writeError(c, "Server error fetching reviews", err)
		return
	}

	c.JSON(http.StatusOK, models.ReviewListResponse{
		Success: true,
		Count:   len(reviews),
		Reviews: reviews,
	})
}

// UpdateReview godoc
// @Summary Update own review
// @Tags Reviews
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Review ID"
// @Param request body models.UpdateReviewRequest true "Review"
// @Success 200 {object} models.Response
// @Failure 403 {object} models.ErrorResponse
// @Router /reviews/{id} [put]
func (ctrl *ReviewController) UpdateReview(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req models.UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	userID, role, _ := middleware.CurrentUser(c)
	review, err := ctrl.reviewService.UpdateReview(c.Request.Context(), services.Actor{UserID: userID, Role: role}, id, req)
	if err != nil {
		ctrl.writeError(c, "Server error updating review", err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Review updated successfully",
		Data:    review,
	})
}

// DeleteReview godoc
// @Summary Delete own review
// @Tags Reviews
// @Security BearerAuth
// @Produce json
// @Param id path int true "Review ID"
// @Success 200 {object} models.Response
// @Failure 403 {object} models.ErrorResponse
// @Router /reviews/{id} [delete]
func (ctrl *ReviewController) DeleteReview(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	userID, role, _ := middleware.CurrentUser(c)
	if err := ctrl.reviewService.DeleteReview(c.Request.Context(), services.Actor{UserID: userID, Role: role}, id); err != nil {
		ctrl.writeError(c, "Server error deleting review", err)
		return
	}

	c.JSON(http.StatusOK, models.Response{Success: true, Message: "Review removed"})
}

func (ctrl *ReviewController) writeError(c *gin.Context, message string, err error) {
	switch {
	case errors.Is(err, services.ErrProductNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{Success: false, Message: "Product not found"})
	case errors.Is(err, services.ErrReviewNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{Success: false, Message: "Review not found"})
	case errors.Is(err, services.ErrReviewExists):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Success: false, Message: err.Error()})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, models.ErrorResponse{Success: false, Message: "Not authorized to modify this review"})
	default:
		serverError(c, message, err)
	}
}
