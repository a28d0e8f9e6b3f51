package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/tce-csbs/participation-portal/internal/app/models/dto"
	"github.com/tce-csbs/participation-portal/internal/middleware"
	"github.com/tce-csbs/participation-portal/internal/pkg/apperrors"
	"github.com/tce-csbs/participation-portal/internal/pkg/filestorage"
	"github.com/tce-csbs/participation-portal/internal/pkg/helpers"
)

const internshipSubdir = "internships"

var errUploadTooLarge = errors.New("upload too large")

// InternshipController handles internship submissions and reviews
type InternshipController struct {
	service   InternshipService
	storage   filestorage.FileStorage
	maxUpload int64
	logger    zerolog.Logger
}

// NewInternshipController creates a new InternshipController
func NewInternshipController(service InternshipService, storage filestorage.FileStorage, maxUpload int64, logger zerolog.Logger) *InternshipController {
	return &InternshipController{
		service:   service,
		storage:   storage,
		maxUpload: maxUpload,
		logger:    logger,
	}
}

// Submit handles an internship submission
// @Summary Submit an internship
// @Tags internships
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param companyName formData string true "Company name"
// @Param description formData string true "Description"
// @Param mode formData string true "Online or Offline" Enums(Online, Offline)
// @Param durationFrom formData string true "Start date (YYYY-MM-DD)"
// @Param durationTo formData string true "End date (YYYY-MM-DD)"
// @Param certificate formData file true "Completion certificate"
// @Param ppt formData file false "Presentation"
// @Param report formData file false "Report"
// @Param photo formData file false "Photo"
// @Success 201 {object} dto.APIResponse{data=models.Internship} "Internship submitted"
// @Failure 400 {object} dto.ErrorResponse "Invalid form data or missing certificate"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /internships/submit [post]
func (c *InternshipController) Submit(ctx *gin.Context) {
	actor, ok := actorOrAbort(ctx)
	if !ok {
		return
	}

	var req dto.SubmitInternshipRequest
	if err := ctx.ShouldBind(&req); err != nil {
		middleware.RespondBindingError(ctx, err)
		return
	}
	if _, err := ctx.FormFile("certificate"); err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewCustomError(apperrors.ErrCertificateRequired, "Certificate file is required"))
		return
	}

	var stored []string
	rollback := func() {
		for _, ref := range stored {
			c.discard(ctx.Request.Context(), ref)
		}
	}

	refs := make(map[string]*string, 4)
	for _, field := range []string{"certificate", "ppt", "report", "photo"} {
		ref, err := c.saveOptional(ctx, field)
		if err != nil {
			rollback()
			if errors.Is(err, errUploadTooLarge) {
				badRequest(ctx, field+" file is too large")
				return
			}
			c.logger.Error().Err(err).Str("field", field).Msg("Failed to store internship upload")
			middleware.HandleAPIError(ctx, err)
			return
		}
		if ref != nil {
			stored = append(stored, *ref)
		}
		refs[field] = ref
	}

	files := dto.SubmissionFiles{
		Certificate: *refs["certificate"],
		PPT:         refs["ppt"],
		Report:      refs["report"],
		Photo:       refs["photo"],
	}
	internship, err := c.service.Submit(ctx.Request.Context(), actor, req, files)
	if err != nil {
		rollback()
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(internship, "Internship submitted successfully"))
}

// saveOptional stores the file part named field. A missing part yields nil.
func (c *InternshipController) saveOptional(ctx *gin.Context, field string) (*string, error) {
	file, err := ctx.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, apperrors.NewBadRequestError("Invalid " + field + " upload")
	}
	if c.maxUpload > 0 && file.Size > c.maxUpload {
		return nil, errUploadTooLarge
	}
	ref, err := c.storage.Save(ctx.Request.Context(), file, internshipSubdir)
	if err != nil {
		return nil, err
	}
	return &ref, nil
}

func (c *InternshipController) discard(ctx context.Context, reference string) {
	if err := c.storage.Delete(ctx, reference); err != nil {
		c.logger.Warn().Err(err).Str("reference", reference).Msg("Failed to remove unused upload")
	}
}

// MyInternships lists the caller's internships
// @Summary List my internships
// @Tags internships
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Internship}
// @Router /internships/my-internships [get]
func (c *InternshipController) MyInternships(ctx *gin.Context) {
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

// Assigned lists the internships assigned to the calling proctor
// @Summary List assigned internships
// @Tags internships
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Internship}
// @Router /internships/assigned [get]
func (c *InternshipController) Assigned(ctx *gin.Context) {
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
// @Summary Review an internship
// @Description Sets the status of an internship assigned to the caller and recomputes the student's credit. Rejected requires a reason.
// @Tags internships
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Internship ID"
// @Param request body dto.StatusUpdateRequest true "Review decision"
// @Success 200 {object} dto.APIResponse{data=models.Internship} "Status updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid status or missing reason"
// @Failure 403 {object} dto.ErrorResponse "Not the assigned proctor"
// @Failure 404 {object} dto.ErrorResponse "Internship not found"
// @Router /internships/{id}/status [put]
func (c *InternshipController) UpdateStatus(ctx *gin.Context) {
	actor, ok := actorOrAbort(ctx)
	if !ok {
		return
	}
	id, ok := helpers.ParseIDParam(ctx, "id")
	if !ok {
		badRequest(ctx, "Invalid internship ID")
		return
	}

	var req dto.StatusUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.RespondBindingError(ctx, err)
		return
	}

	internship, err := c.service.UpdateStatus(ctx.Request.Context(), actor, id, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(internship, "Status updated successfully"))
}

// Approved lists every approved internship
// @Summary List approved internships
// @Tags internships
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]models.Internship}
// @Router /internships/approved [get]
func (c *InternshipController) Approved(ctx *gin.Context) {
	items, err := c.service.ListApproved(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(items, ""))
}
