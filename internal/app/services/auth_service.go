package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/tce-csbs/participation-portal/internal/app/auth"
	"github.com/tce-csbs/participation-portal/internal/app/models"
	"github.com/tce-csbs/participation-portal/internal/app/models/dto"
	"github.com/tce-csbs/participation-portal/internal/pkg/apperrors"
	pkgauth "github.com/tce-csbs/participation-portal/internal/pkg/auth"
	"github.com/tce-csbs/participation-portal/internal/pkg/validation"
)

// AuthService handles registration and login for all three roles
type AuthService struct {
	stores        Stores
	jwtService    *pkgauth.JWTService
	notifier      Notifier
	studentDomain string
	logger        zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(stores Stores, jwtService *pkgauth.JWTService, notifier Notifier, studentDomain string, logger zerolog.Logger) *AuthService {
	return &AuthService{
		stores:        stores,
		jwtService:    jwtService,
		notifier:      notifier,
		studentDomain: studentDomain,
		logger:        logger,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// RegisterStudent creates a student account and sends the welcome email
func (s *AuthService) RegisterStudent(ctx context.Context, req *dto.RegisterStudentRequest) (*models.Student, error) {
	email := normalizeEmail(req.Email)
	if !validation.HasEmailDomain(email, s.studentDomain) {
		return nil, apperrors.NewCustomError(apperrors.ErrInvalidEmail,
			fmt.Sprintf("Only %s emails are allowed.", s.studentDomain))
	}

	hash, err := pkgauth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	student := &models.Student{
		Name:       strings.TrimSpace(req.Name),
		Email:      email,
		Password:   hash,
		RegisterNo: strings.ToUpper(strings.TrimSpace(req.RegisterNo)),
		Department: strings.TrimSpace(req.Department),
		Year:       strings.TrimSpace(req.Year),
	}
	if err := s.stores.Students.Create(ctx, student); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("studentID", student.ID).Str("department", student.Department).Msg("Student registered")

	if err := s.notifier.SendWelcome(ctx, student.Name, student.Email); err != nil {
		s.logger.Error().Err(err).Int64("studentID", student.ID).Msg("Welcome email failed but continuing registration")
	}
	return student, nil
}

// Login authenticates an account of the given role and issues an access token
func (s *AuthService) Login(ctx context.Context, role auth.Role, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	email := normalizeEmail(req.Email)

	var (
		id   int64
		hash string
		user interface{}
		err  error
	)
	switch role {
	case auth.RoleStudent:
		var st *models.Student
		if st, err = s.stores.Students.GetByEmail(ctx, email); err == nil {
			id, hash, user = st.ID, st.Password, st
		}
	case auth.RoleProctor:
		var p *models.Proctor
		if p, err = s.stores.Proctors.GetByEmail(ctx, email); err == nil {
			id, hash, user = p.ID, p.Password, p
		}
	case auth.RoleAdmin:
		var a *models.Admin
		if a, err = s.stores.Admins.GetByEmail(ctx, email); err == nil {
			id, hash, user = a.ID, a.Password, a
		}
	default:
		return nil, apperrors.NewValidationError("Unknown role")
	}
	if err != nil {
		if isNotFound(err) {
			s.logger.Debug().Str("role", string(role)).Msg("Login attempt for unknown email")
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}
	if !pkgauth.CheckPassword(hash, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	token, expiresIn, err := s.jwtService.GenerateAccessToken(id, email, string(role))
	if err != nil {
		return nil, fmt.Errorf("error generating access token: %w", err)
	}
	return &dto.LoginResponse{Token: token, ExpiresIn: expiresIn, Role: string(role), User: user}, nil
}

func isNotFound(err error) bool {
	return apperrors.Is(err, apperrors.ErrResourceNotFound,
		apperrors.ErrStudentNotFound, apperrors.ErrProctorNotFound, apperrors.ErrAdminNotFound,
		apperrors.ErrUserNotFound)
}
