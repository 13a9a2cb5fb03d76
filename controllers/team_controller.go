package controllers

import (
	"errors"
	"net/http"

	"food-delivery/models"
	"food-delivery/services"

	"github.com/gin-gonic/gin"
)

type TeamController struct {
	teamService *services.TeamService
}

func NewTeamController(teamService *services.TeamService) *TeamController {
	return &TeamController{teamService: teamService}
}

// @Summary List team members
// @Tags Team
// @Produce json
// @Success 200 {object} models.Response
// @Router /team [get]
func (ctrl *TeamController) GetAll(c *gin.Context) {
	members, err := ctrl.teamService.GetAll(c.Request.Context())
	if err != nil {
		serverError(c, "Failed to retrieve team", err)
		return
	}
	c.JSON(http.StatusOK, models.Response{Success: true, Message: "Team retrieved successfully", Data: members})
}

// @Summary Get team member
// @Tags Team
// @Produce json
// @Param id path int true "Team member ID"
// @Success 200 {object} models.Response
// @Failure 404 {object} models.ErrorResponse
// @Router /team/{id} [get]
func (ctrl *TeamController) GetByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	member, err := ctrl.teamService.GetByID(c.Request.Context(), id)
	if err != nil {
		ctrl.writeError(c, "Failed to retrieve team member", err)
		return
	}
	c.JSON(http.StatusOK, models.Response{Success: true, Message: "Team member retrieved successfully", Data: member})
}

// @Summary Add team member
// @Tags Admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.TeamMemberRequest true "Team member"
// @Success 201 {object} models.Response
// @Router /team [post]
func (ctrl *TeamController) Create(c *gin.Context) {
	var req models.TeamMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	member, err := ctrl.teamService.Create(c.Request.Context(), req)
	if err != nil {
		serverError(c, "Failed to add team member", err)
		return
	}
	c.JSON(http.StatusCreated, models.Response{Success: true, Message: "Team member added successfully", Data: member})
}

// @Summary Update team member
// @Tags Admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Team member ID"
// @Param request body models.TeamMemberRequest true "Team member"
// @Success 200 {object} models.Response
// @Router /team/{id} [put]
func (ctrl *TeamController) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req models.TeamMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	member, err := ctrl.teamService.Update(c.Request.Context(), id, req)
	if err != nil {
		ctrl.writeError(c, "Failed to update team member", err)
		return
	}
	c.JSON(http.StatusOK, models.Response{Success: true, Message: "Team member updated successfully", Data: member})
}

// @Summary Delete team member
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Param id path int true "Team member ID"
// @Success 200 {object} models.Response
// @Router /team/{id} [delete]
func (ctrl *TeamController) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := ctrl.teamService.Delete(c.Request.Context(), id); err != nil {
		ctrl.writeError(c, "Failed to delete team member", err)
		return
	}
	c.JSON(http.StatusOK, models.Response{Success: true, Message: "Team member deleted successfully"})
}

func (ctrl *TeamController) writeError(c *gin.Context, message string, err error) {
	if errors.Is(err, services.ErrTeamMemberNotFound) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Success: false, Message: "Team member not found"})
		return
	}
	serverError(c, message, err)
}
