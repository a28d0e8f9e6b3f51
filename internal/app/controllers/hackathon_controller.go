package controllers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/tce-csbs/participation-portal/internal/app/models/dto"
	"github.com/tce-csbs/participation-portal/internal/middleware"
	"github.com/tce-csbs/participation-portal/internal/pkg/apperrors"
	"github.com/tce-csbs/participation-portal/internal/pkg/filestorage"
	"github.com/tce-csbs/participation-portal/internal/pkg/helpers"
)

const certificateSubdir = "certificates"

// HackathonController handles hackathon submissions and reviews
type HackathonController struct {
	service   HackathonService
	storage   filestorage.FileStorage
	maxUpload int64
	logger    zerolog.Logger
}

// NewHackathonController creates a new HackathonController. maxUpload is in bytes; zero disables the check.
func NewHackathonController(service HackathonService, storage filestorage.FileStorage, maxUpload int64, logger zerolog.Logger) *HackathonController {
	return &HackathonController{
		service:   service,
		storage:   storage,
		maxUpload: maxUpload,
		logger:    logger,
	}
}

// Submit handles a hackathon submission
// @Summary Submit a hackathon participation
// @Description Records a participation with its certificate. A (title, year) pair that already exists is merged and its participant count incremented.
// @Tags hackathons
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param hackathonTitle formData string true "Hackathon title"
// @Param organization formData string true "Organizing body"
// @Param mode formData string true "Online or Offline" Enums(Online, Offline)
// @Param date formData string true "Event date (YYYY-MM-DD)"
// @Param year formData int true "Event year"
// @Param description formData string true "Description"
// @Param certificate formData file true "Participation certificate"
// @Success 201 {object} dto.APIResponse{data=dto.HackathonSubmissionResult} "Hackathon submitted"
// @Failure 400 {object} dto.ErrorResponse "Invalid form data or missing certificate"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 409 {object} dto.ErrorResponse "Concurrent duplicate submission"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /hackathons/submit [post]
func (c *HackathonController) Submit(ctx *gin.Context) {
	actor, ok := actorOrAbort(ctx)
	if !ok {
		return
	}

	var req dto.SubmitHackathonRequest
	if err := ctx.ShouldBind(&req); err != nil {
		middleware.RespondBindingError(ctx, err)
		return
	}

	file, err := ctx.FormFile("certificate")
	if err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewCustomError(apperrors.ErrCertificateRequired, "Certificate file is required"))
		return
	}
	if c.maxUpload > 0 && file.Size > c.maxUpload {
		badRequest(ctx, "Certificate file is too large")
		return
	}

	reference, err := c.storage.Save(ctx.Request.Context(), file, certificateSubdir)
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to store certificate")
		middleware.HandleAPIError(ctx, err)
		return
	}

	result, err := c.service.Submit(ctx.Request.Context(), actor, req, reference)
	if err != nil {
		c.discard(ctx.Request.Context(), reference)
		middleware.HandleAPIError(ctx, err)
		return
	}
	if result.Merged {
		// the existing record keeps its own certificate
		c.discard(ctx.Request.Context(), reference)
	}

	message := "Hackathon submitted successfully"
	if result.Merged {
		message = "Hackathon already recorded, participant count updated"
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(result, message))
}

func (c *HackathonController) discard(ctx context.Context, reference string) {
	if err := c.storage.Delete(ctx, reference); err != nil {
		c.logger.Warn().Err(err).Str("reference", reference).Msg("Failed to remove unused upload")
	}
}

// MyHackathons lists the caller's hackathons
// @Summary List my hackathons
// @Tags hackathons
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Hackathon}
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /hackathons/my-hackathons [get]
func (c *HackathonController) MyHackathons(ctx *gin.Context) {
	actor, ok := actorOrAbort(ctx)
	if !ok {
		return
	}
	items, err := c.service.ListMine(ctx.Request.Context(), actor)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(items, ""))
}

// Assigned lists the hackathons assigned to the calling proctor
// @Summary List assigned hackathons
// @Tags hackathons
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Hackathon}
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Router /hackathons/assigned [get]
func (c *HackathonController) Assigned(ctx *gin.Context) {
	actor, ok := actorOrAbort(ctx)
	if !ok {
		return
	}
	items, err := c.service.ListAssigned(ctx.Request.Context(), actor)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(items, ""))
}

// UpdateStatus applies a proctor review
// @Summary Review a hackathon
// @Description Sets the status of a hackathon assigned to the caller and adjusts the student's credit. Declined requires a reason.
// @Tags hackathons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Hackathon ID"
// @Param request body dto.StatusUpdateRequest true "Review decision"
// @Success 200 {object} dto.APIResponse{data=models.Hackathon} "Status updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid status or missing reason"
// @Failure 403 {object} dto.ErrorResponse "Not the assigned proctor"
// @Failure 404 {object} dto.ErrorResponse "Hackathon not found"
// @Router /hackathons/{id}/status [put]
func (c *HackathonController) UpdateStatus(ctx *gin.Context) {
	actor, ok := actorOrAbort(ctx)
	if !ok {
		return
	}
	id, ok := helpers.ParseIDParam(ctx, "id")
	if !ok {
		badRequest(ctx, "Invalid hackathon ID")
		return
	}

	var req dto.StatusUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.RespondBindingError(ctx, err)
		return
	}

	hackathon, err := c.service.UpdateStatus(ctx.Request.Context(), actor, id, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(hackathon, "Status updated successfully"))
}

// Accepted lists every accepted hackathon
// @Summary List accepted hackathons
// @Tags hackathons
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]models.Hackathon}
// @Router /hackathons/accepted [get]
func (c *HackathonController) Accepted(ctx *gin.Context) {
	items, err := c.service.ListAccepted(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(items, ""))
}

// ByYear lists hackathons of a year, or all of them without the year query
// @Summary List hackathons by year
// @Tags hackathons
// @Produce json
// @Security BearerAuth
// @Param year query int false "Event year"
// @Success 200 {object} dto.APIResponse{data=[]models.Hackathon}
// @Failure 400 {object} dto.ErrorResponse "Invalid year"
// @Router /hackathons/by-year [get]
func (c *HackathonController) ByYear(ctx *gin.Context) {
	year, err := helpers.ParseYear(ctx.Query("year"))
	if err != nil {
		badRequest(ctx, "Invalid year")
		return
	}
	items, err := c.service.ListByYear(ctx.Request.Context(), year)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(items, ""))
}

// Participants lists the records of one (title, year) hackathon
// @Summary List participants of a hackathon
// @Tags hackathons
// @Produce json
// @Security BearerAuth
// @Param title query string true "Hackathon title"
// @Param year query int true "Event year"
// @Success 200 {object} dto.APIResponse{data=[]models.Hackathon}
// @Failure 400 {object} dto.ErrorResponse "Missing title or year"
// @Router /hackathons/participants [get]
func (c *HackathonController) Participants(ctx *gin.Context) {
	title := strings.TrimSpace(ctx.Query("title"))
	year, err := strconv.Atoi(ctx.Query("year"))
	if err != nil || title == "" {
		badRequest(ctx, "Hackathon title and year are required")
		return
	}
	items, err := c.service.Participants(ctx.Request.Context(), title, year)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(items, ""))
}

// ByStudent lists one student's hackathons
// @Summary List a student's hackathons
// @Tags hackathons
// @Produce json
// @Security BearerAuth
// @Param studentId path int true "Student ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Hackathon}
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /hackathons/student/{studentId} [get]
func (c *HackathonController) ByStudent(ctx *gin.Context) {
	id, ok := helpers.ParseIDParam(ctx, "studentId")
	if !ok {
		badRequest(ctx, "Invalid student ID")
		return
	}
	items, err := c.service.ListByStudent(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(items, ""))
}

// Stats aggregates hackathons per year
// @Summary Hackathon statistics by year
// @Tags hackathons
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.HackathonYearStats}
// @Router /hackathons/stats [get]
func (c *HackathonController) Stats(ctx *gin.Context) {
	stats, err := c.service.StatsByYear(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(stats, ""))
}
