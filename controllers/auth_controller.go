package controllers

import (
	"errors"
	"net/http"

	"food-delivery/middleware"
	"food-delivery/models"
	"food-delivery/services"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	authService *services.AuthService
}

func NewAuthController(authService *services.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

// Register godoc
// @Summary Register new user
// @Description Register a new customer account
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body models.RegisterRequest true "Register Request"
// @Success 201 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Router /auth/register [post]
func (ctrl *AuthController) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := ctrl.authService.Register(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) || errors.Is(err, services.ErrUsernameTaken) {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Success: false,
				Message: "User already exists with this email or username",
				Error:   err.Error(),
			})
			return
		}
		serverError(c, "Error registering user", err)
		return
	}

	c.JSON(http.StatusCreated, models.Response{
		Success: true,
		Message: "User registered successfully",
		Data:    result,
	})
}

// Login godoc
// @Summary Login user
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Login Request"
// @Success 200 {object} models.Response
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/login [post]
func (ctrl *AuthController) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := ctrl.authService.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				Success: false,
				Message: "Invalid credentials",
			})
			return
		}
		serverError(c, "Error logging in", err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Login successful",
		Data:    result,
	})
}

// Me godoc
// @Summary Current user profile
// @Tags Authentication
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.Response
// @Failure 404 {object} models.ErrorResponse
// @Router /auth/me [get]
func (ctrl *AuthController) Me(c *gin.Context) {
	userID, _, _ := middleware.CurrentUser(c)

	user, err := ctrl.authService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{Success: false, Message: "User not found"})
			return
		}
		serverError(c, "Error fetching user profile", err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Profile retrieved successfully",
		Data:    user,
	})
}

// UpdateProfile godoc
// @Summary Update profile
// @Tags Authentication
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.UpdateProfileRequest true "Profile"
// @Success 200 {object} models.Response
// @Router /auth/profile [put]
func (ctrl *AuthController) UpdateProfile(c *gin.Context) {
	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	userID, _, _ := middleware.CurrentUser(c)
	user, err := ctrl.authService.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			c.JSON(http.StatusNotFound, models.ErrorResponse{Success: false, Message: "User not found"})
		case errors.Is(err, services.ErrUsernameTaken):
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Success: false, Message: "Username already taken"})
		default:
			serverError(c, "Error updating profile", err)
		}
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Profile updated successfully",
		Data:    user,
	})
}

// ChangePassword godoc
// @Summary Change password
// @Tags Authentication
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.ChangePasswordRequest true "Passwords"
// @Success 200 {object} models.Response
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/change-password [put]
func (ctrl *AuthController) ChangePassword(c *gin.Context) {
	var req models.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	userID, _, _ := middleware.CurrentUser(c)
	if err := ctrl.authService.ChangePassword(c.Request.Context(), userID, req); err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			c.JSON(http.StatusNotFound, models.ErrorResponse{Success: false, Message: "User not found"})
		case errors.Is(err, services.ErrInvalidPassword):
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{Success: false, Message: "Current password is incorrect"})
		default:
			serverError(c, "Error changing password", err)
		}
		return
	}

	c.JSON(http.StatusOK, models.Response{Success: true, Message: "Password updated successfully"})
}
