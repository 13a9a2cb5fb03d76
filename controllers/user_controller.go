package controllers

import (
	"errors"
	"io"
	"net/http"

	"food-delivery/models"
	"food-delivery/services"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type UserController struct {
	userService *services.UserService
}

func NewUserController(userService *services.UserService) *UserController {
	return &UserController{userService: userService}
}

// GetAllUsers godoc
// @Summary List users
// @Tags Users
// @Produce json
// @Success 200 {array} models.User
// @Failure 500 {object} models.APIError
// @Router /users [get]
func (ctrl *UserController) GetAllUsers(c *gin.Context) {
	users, err := ctrl.userService.GetAllUsers(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, models.APIError{Error: "Error fetching users", Details: err.Error()})
		return
	}
	c.JSON(http.StatusOK, users)
}

// Signup godoc
// @Summary Create customer record
// @Description Password-less signup used by the ordering page. An existing email returns its id.
// @Tags Users
// @Accept json
// @Produce json
// @Param request body models.SignupRequest true "Customer"
// @Success 201 {object} models.CreatedResponse
// @Success 200 {object} models.CreatedResponse "Already exists"
// @Failure 400 {object} models.MissingFieldsResponse
// @Failure 500 {object} models.APIError
// @Router /users [post]
func (ctrl *UserController) Signup(c *gin.Context) {
	var req models.SignupRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, models.APIError{Error: "Invalid request body", Details: err.Error()})
		return
	}

	id, created, err := ctrl.userService.Signup(c.Request.Context(), req)
	if err != nil {
		var missing *services.MissingFieldsError
		if errors.As(err, &missing) {
			c.JSON(http.StatusBadRequest, models.MissingFieldsResponse{
				Error:    "Missing required fields",
				Required: missing.Required,
				Missing:  missing.Missing,
				Received: receivedFields(c),
			})
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, models.APIError{Error: "Error creating user", Details: err.Error()})
		return
	}

	if !created {
		c.JSON(http.StatusOK, models.CreatedResponse{ID: id, Message: "User already exists"})
		return
	}
	c.JSON(http.StatusCreated, models.CreatedResponse{ID: id, Message: "User created successfully"})
}
