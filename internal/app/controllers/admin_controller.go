package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/tce-csbs/participation-portal/internal/app/models/dto"
	"github.com/tce-csbs/participation-portal/internal/app/services"
	"github.com/tce-csbs/participation-portal/internal/middleware"
	"github.com/tce-csbs/participation-portal/internal/pkg/helpers"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// LowCreditStudent is one row of the low-credit report
type LowCreditStudent struct {
	ID         int64   `json:"id" example:"12"`
	Name       string  `json:"name" example:"Asha R"`
	Email      string  `json:"email" example:"asha@student.tce.edu"`
	RegisterNo string  `json:"registerNo" example:"21CB001"`
	Department string  `json:"department" example:"CSBS"`
	Credits    float64 `json:"credits" example:"1.5"`
}

// AdminController serves the admin dashboard
type AdminController struct {
	stats      StatsService
	hackathons HackathonService
	alerts     AlertService
	export     ExportService
	logger     zerolog.Logger
}

// NewAdminController creates a new AdminController
func NewAdminController(stats StatsService, hackathons HackathonService, alerts AlertService, export ExportService, logger zerolog.Logger) *AdminController {
	return &AdminController{
		stats:      stats,
		hackathons: hackathons,
		alerts:     alerts,
		export:     export,
		logger:     logger,
	}
}

// Dashboard returns the aggregate counters
// @Summary Dashboard statistics
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=models.DashboardStats}
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Router /admin/stats [get]
func (c *AdminController) Dashboard(ctx *gin.Context) {
	stats, err := c.stats.Dashboard(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(stats, ""))
}

// Hackathons lists all hackathons with student details
// @Summary List all hackathons
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param year query int false "Event year"
// @Success 200 {object} dto.APIResponse{data=[]models.Hackathon}
// @Router /admin/hackathons [get]
func (c *AdminController) Hackathons(ctx *gin.Context) {
	year, err := helpers.ParseYear(ctx.Query("year"))
	if err != nil {
		badRequest(ctx, "Invalid year")
		return
	}
	items, err := c.hackathons.ListByYear(ctx.Request.Context(), year)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(items, ""))
}

// ExportHackathons downloads the hackathon workbook
// @Summary Export hackathons to Excel
// @Tags admin
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param year query int false "Event year"
// @Success 200 {file} file "xlsx workbook"
// @Router /admin/hackathons/export [get]
func (c *AdminController) ExportHackathons(ctx *gin.Context) {
	year, err := helpers.ParseYear(ctx.Query("year"))
	if err != nil || year < 0 {
		badRequest(ctx, "Invalid year")
		return
	}
	data, err := c.export.HackathonWorkbook(ctx.Request.Context(), year)
	if err != nil {
		c.logger.Error().Err(err).Int("year", year).Msg("Failed to export hackathons")
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, services.HackathonWorkbookName(year)))
	ctx.Data(http.StatusOK, xlsxContentType, data)
}

// LowCredits lists students below the credit threshold
// @Summary List low-credit students
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]LowCreditStudent}
// @Router /admin/low-credits [get]
func (c *AdminController) LowCredits(ctx *gin.Context) {
	students, err := c.alerts.LowCreditStudents(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	rows := make([]LowCreditStudent, 0, len(students))
	for _, st := range students {
		rows = append(rows, LowCreditStudent{
			ID: st.ID, Name: st.Name, Email: st.Email, RegisterNo: st.RegisterNo, Department: st.Department, Credits: st.Credits,
		})
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(rows, fmt.Sprintf("%d students below %.1f credits", len(rows), c.alerts.Threshold())))
}

// SendAlerts runs the low-credit sweep now
// @Summary Send low-credit alerts
// @Description Emails every student below the threshold one after another and reports how many sends succeeded and failed.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.AlertResult}
// @Router /admin/send-alerts [post]
func (c *AdminController) SendAlerts(ctx *gin.Context) {
	result, err := c.alerts.SendLowCreditAlerts(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(result, result.Message))
}
