package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tce-csbs/participation-portal/internal/app/models/dto"
	"github.com/tce-csbs/participation-portal/internal/middleware"
)

// StudentController serves a student's own credit standing
type StudentController struct {
	alerts AlertService
}

// NewStudentController creates a new StudentController
func NewStudentController(alerts AlertService) *StudentController {
	return &StudentController{alerts: alerts}
}

// Credits returns the caller's credits
// @Summary My credits
// @Tags student
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.CreditsResponse}
// @Router /student/credits [get]
func (c *StudentController) Credits(ctx *gin.Context) {
	actor, ok := actorOrAbort(ctx)
	if !ok {
		return
	}
	resp, err := c.alerts.Credits(ctx.Request.Context(), actor)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, ""))
}

// CheckCredits emails the caller a warning when below the threshold
// @Summary Check my credits
// @Tags student
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.CreditCheckResponse}
// @Router /student/check-credits [post]
func (c *StudentController) CheckCredits(ctx *gin.Context) {
	actor, ok := actorOrAbort(ctx)
	if !ok {
		return
	}
	resp, err := c.alerts.CheckMyCredits(ctx.Request.Context(), actor)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, resp.Message))
}
