package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/tce-csbs/participation-portal/internal/app/auth"
	"github.com/tce-csbs/participation-portal/internal/app/models/dto"
	"github.com/tce-csbs/participation-portal/internal/middleware"
)

// AuthController handles registration and login
type AuthController struct {
	authService AuthService
	logger      zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService AuthService, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService: authService,
		logger:      logger,
	}
}

// RegisterStudent handles student self-registration
// @Summary Register a student
// @Description Creates a student account. Only addresses of the configured college domain are accepted.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterStudentRequest true "Student registration information"
// @Success 201 {object} dto.APIResponse{data=models.Student} "Student registered"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format or email domain"
// @Failure 409 {object} dto.ErrorResponse "Email or register number already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/student/register [post]
func (c *AuthController) RegisterStudent(ctx *gin.Context) {
	var req dto.RegisterStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid registration request payload")
		middleware.RespondBindingError(ctx, err)
		return
	}

	student, err := c.authService.RegisterStudent(ctx.Request.Context(), &req)
	if err != nil {
		c.logger.Warn().Err(err).Str("email", req.Email).Msg("Student registration failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(student, "Student registered successfully"))
}

// StudentLogin handles student login
// @Summary Student login
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.APIResponse{data=dto.LoginResponse} "Login successful"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Router /auth/student/login [post]
func (c *AuthController) StudentLogin(ctx *gin.Context) {
	c.login(ctx, auth.RoleStudent)
}

// ProctorLogin handles proctor login
// @Summary Proctor login
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.APIResponse{data=dto.LoginResponse} "Login successful"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Router /auth/proctor/login [post]
func (c *AuthController) ProctorLogin(ctx *gin.Context) {
	c.login(ctx, auth.RoleProctor)
}

// AdminLogin handles admin login
// @Summary Admin login
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.APIResponse{data=dto.LoginResponse} "Login successful"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Router /auth/admin/login [post]
func (c *AuthController) AdminLogin(ctx *gin.Context) {
	c.login(ctx, auth.RoleAdmin)
}

func (c *AuthController) login(ctx *gin.Context, role auth.Role) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid login request payload")
		middleware.RespondBindingError(ctx, err)
		return
	}

	resp, err := c.authService.Login(ctx.Request.Context(), role, &req)
	if err != nil {
		c.logger.Warn().Err(err).Str("email", req.Email).Str("role", string(role)).Msg("Login failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Str("email", req.Email).Str("role", string(role)).Msg("User logged in successfully")
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, "Login successful"))
}
