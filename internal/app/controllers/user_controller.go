package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/tce-csbs/participation-portal/internal/app/models/dto"
	"github.com/tce-csbs/participation-portal/internal/app/repositories"
	"github.com/tce-csbs/participation-portal/internal/middleware"
	"github.com/tce-csbs/participation-portal/internal/pkg/helpers"
)

// UserController handles admin management of student, proctor and admin accounts
type UserController struct {
	service UserService
	logger  zerolog.Logger
}

// NewUserController creates a new UserController
func NewUserController(service UserService, logger zerolog.Logger) *UserController {
	return &UserController{service: service, logger: logger}
}

// paginate runs a listing with the page and size query parameters and writes a PaginatedResponse
func paginate[T any](ctx *gin.Context, list func(context.Context, repositories.Page) ([]T, int64, error)) {
	page, size := helpers.ParsePaginationParams(ctx)
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	items, total, err := list(ctx.Request.Context(), repositories.Page{Offset: offset, Limit: limit})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	if items == nil {
		items = []T{}
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.PaginatedResponse{
		Items:      items,
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}, ""))
}

// ListStudents godoc
// @Summary List students
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse{items=[]models.Student}}
// @Router /users/students [get]
func (c *UserController) ListStudents(ctx *gin.Context) {
	paginate(ctx, c.service.ListStudents)
}

// UpdateStudent godoc
// @Summary Update a student
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Param request body dto.UpdateStudentRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=models.Student}
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 409 {object} dto.ErrorResponse "Email or register number taken"
// @Router /users/students/{id} [put]
func (c *UserController) UpdateStudent(ctx *gin.Context) {
	id, ok := helpers.ParseIDParam(ctx, "id")
	if !ok {
		badRequest(ctx, "Invalid student ID")
		return
	}
	var req dto.UpdateStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.RespondBindingError(ctx, err)
		return
	}
	student, err := c.service.UpdateStudent(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(student, "Student updated successfully"))
}

// DeleteStudent godoc
// @Summary Delete a student and their submissions
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 200 {object} dto.APIResponse
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /users/students/{id} [delete]
func (c *UserController) DeleteStudent(ctx *gin.Context) {
	id, ok := helpers.ParseIDParam(ctx, "id")
	if !ok {
		badRequest(ctx, "Invalid student ID")
		return
	}
	if err := c.service.DeleteStudent(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	c.logger.Info().Int64("studentID", id).Msg("Student deleted")
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Student deleted successfully"))
}

// ListProctors godoc
// @Summary List proctors
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse{items=[]models.Proctor}}
// @Router /users/proctors [get]
func (c *UserController) ListProctors(ctx *gin.Context) {
	paginate(ctx, c.service.ListProctors)
}

// CreateProctor godoc
// @Summary Create a proctor
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateProctorRequest true "Proctor account"
// @Success 201 {object} dto.APIResponse{data=models.Proctor}
// @Failure 409 {object} dto.ErrorResponse "Email already exists"
// @Router /users/proctors [post]
func (c *UserController) CreateProctor(ctx *gin.Context) {
	var req dto.CreateProctorRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.RespondBindingError(ctx, err)
		return
	}
	proctor, err := c.service.CreateProctor(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(proctor, "Proctor created successfully"))
}

// UpdateProctor godoc
// @Summary Update a proctor
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Proctor ID"
// @Param request body dto.UpdateProctorRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=models.Proctor}
// @Failure 404 {object} dto.ErrorResponse "Proctor not found"
// @Router /users/proctors/{id} [put]
func (c *UserController) UpdateProctor(ctx *gin.Context) {
	id, ok := helpers.ParseIDParam(ctx, "id")
	if !ok {
		badRequest(ctx, "Invalid proctor ID")
		return
	}
	var req dto.UpdateProctorRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.RespondBindingError(ctx, err)
		return
	}
	proctor, err := c.service.UpdateProctor(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(proctor, "Proctor updated successfully"))
}

// DeleteProctor godoc
// @Summary Delete a proctor
// @Description Fails with 409 while any submission is still assigned to the proctor.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "Proctor ID"
// @Success 200 {object} dto.APIResponse
// @Failure 404 {object} dto.ErrorResponse "Proctor not found"
// @Failure 409 {object} dto.ErrorResponse "Proctor has assigned submissions"
// @Router /users/proctors/{id} [delete]
func (c *UserController) DeleteProctor(ctx *gin.Context) {
	id, ok := helpers.ParseIDParam(ctx, "id")
	if !ok {
		badRequest(ctx, "Invalid proctor ID")
		return
	}
	if err := c.service.DeleteProctor(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	c.logger.Info().Int64("proctorID", id).Msg("Proctor deleted")
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Proctor deleted successfully"))
}

// ListAdmins godoc
// @Summary List admins
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse{items=[]models.Admin}}
// @Router /users/admins [get]
func (c *UserController) ListAdmins(ctx *gin.Context) {
	paginate(ctx, c.service.ListAdmins)
}

// CreateAdmin godoc
// @Summary Create an admin
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateAdminRequest true "Admin account"
// @Success 201 {object} dto.APIResponse{data=models.Admin}
// @Failure 409 {object} dto.ErrorResponse "Email already exists"
// @Router /users/admins [post]
func (c *UserController) CreateAdmin(ctx *gin.Context) {
	var req dto.CreateAdminRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.RespondBindingError(ctx, err)
		return
	}
	admin, err := c.service.CreateAdmin(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(admin, "Admin created successfully"))
}

// UpdateAdmin godoc
// @Summary Update an admin
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Admin ID"
// @Param request body dto.UpdateAdminRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=models.Admin}
// @Failure 404 {object} dto.ErrorResponse "Admin not found"
// @Router /users/admins/{id} [put]
func (c *UserController) UpdateAdmin(ctx *gin.Context) {
	id, ok := helpers.ParseIDParam(ctx, "id")
	if !ok {
		badRequest(ctx, "Invalid admin ID")
		return
	}
	var req dto.UpdateAdminRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.RespondBindingError(ctx, err)
		return
	}
	admin, err := c.service.UpdateAdmin(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(admin, "Admin updated successfully"))
}

// DeleteAdmin godoc
// @Summary Delete an admin
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "Admin ID"
// @Success 200 {object} dto.APIResponse
// @Failure 403 {object} dto.ErrorResponse "Cannot delete yourself"
// @Failure 404 {object} dto.ErrorResponse "Admin not found"
// @Router /users/admins/{id} [delete]
func (c *UserController) DeleteAdmin(ctx *gin.Context) {
	actor, ok := actorOrAbort(ctx)
	if !ok {
		return
	}
	id, ok := helpers.ParseIDParam(ctx, "id")
	if !ok {
		badRequest(ctx, "Invalid admin ID")
		return
	}
	if err := c.service.DeleteAdmin(ctx.Request.Context(), actor, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	c.logger.Info().Int64("adminID", id).Int64("actorID", actor.ID).Msg("Admin deleted")
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Admin deleted successfully"))
}

// Stats godoc
// @Summary Account counts per role
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=models.UserStats}
// @Router /users/stats [get]
func (c *UserController) Stats(ctx *gin.Context) {
	stats, err := c.service.Stats(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(stats, ""))
}
