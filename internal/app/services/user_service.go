package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/tce-csbs/participation-portal/internal/app/auth"
	"github.com/tce-csbs/participation-portal/internal/app/models"
	"github.com/tce-csbs/participation-portal/internal/app/models/dto"
	"github.com/tce-csbs/participation-portal/internal/app/repositories"
	"github.com/tce-csbs/participation-portal/internal/pkg/apperrors"
	pkgauth "github.com/tce-csbs/participation-portal/internal/pkg/auth"
)

// UserService manages student, proctor and admin accounts
type UserService struct {
	stores Stores
	uow    UnitOfWork
	logger zerolog.Logger
}

// NewUserService creates a new UserService
func NewUserService(stores Stores, uow UnitOfWork, logger zerolog.Logger) *UserService {
	return &UserService{stores: stores, uow: uow, logger: logger}
}

func setTrimmed(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}

// ListStudents returns one page of students and the total count
func (s *UserService) ListStudents(ctx context.Context, page repositories.Page) ([]models.Student, int64, error) {
	return s.stores.Students.List(ctx, page)
}

// UpdateStudent changes a student's profile fields
func (s *UserService) UpdateStudent(ctx context.Context, id int64, req *dto.UpdateStudentRequest) (*models.Student, error) {
	st, err := s.stores.Students.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	setTrimmed(&st.Name, req.Name)
	setTrimmed(&st.Department, req.Department)
	setTrimmed(&st.Year, req.Year)
	if req.Email != nil {
		st.Email = normalizeEmail(*req.Email)
	}
	if req.RegisterNo != nil {
		st.RegisterNo = strings.ToUpper(strings.TrimSpace(*req.RegisterNo))
	}
	if err := s.stores.Students.Update(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

// DeleteStudent removes a student together with all of their participation records
func (s *UserService) DeleteStudent(ctx context.Context, id int64) error {
	if err := s.stores.Students.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("studentID", id).Msg("Student and related records deleted")
	return nil
}

// ListProctors returns one page of proctors and the total count
func (s *UserService) ListProctors(ctx context.Context, page repositories.Page) ([]models.Proctor, int64, error) {
	return s.stores.Proctors.List(ctx, page)
}

// CreateProctor creates a proctor account
func (s *UserService) CreateProctor(ctx context.Context, req *dto.CreateProctorRequest) (*models.Proctor, error) {
	hash, err := pkgauth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}
	p := &models.Proctor{
		Name:       strings.TrimSpace(req.Name),
		Email:      normalizeEmail(req.Email),
		Password:   hash,
		Department: strings.TrimSpace(req.Department),
	}
	if err := s.stores.Proctors.Create(ctx, p); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("proctorID", p.ID).Str("department", p.Department).Msg("Proctor created")
	return p, nil
}

// UpdateProctor changes a proctor's profile fields
func (s *UserService) UpdateProctor(ctx context.Context, id int64, req *dto.UpdateProctorRequest) (*models.Proctor, error) {
	p, err := s.stores.Proctors.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	setTrimmed(&p.Name, req.Name)
	setTrimmed(&p.Department, req.Department)
	if req.Email != nil {
		p.Email = normalizeEmail(*req.Email)
	}
	if err := s.stores.Proctors.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// DeleteProctor removes a proctor that has no assigned submissions
func (s *UserService) DeleteProctor(ctx context.Context, id int64) error {
	return s.uow.Do(ctx, func(ctx context.Context, stores Stores) error {
		if _, err := stores.Proctors.GetByID(ctx, id); err != nil {
			return err
		}
		hackathons, err := stores.Hackathons.CountByProctor(ctx, id)
		if err != nil {
			return err
		}
		internships, err := stores.Internships.CountByProctor(ctx, id)
		if err != nil {
			return err
		}
		if hackathons+internships > 0 {
			return apperrors.NewCustomError(apperrors.ErrProctorHasRecords,
				"Cannot delete proctor with assigned submissions. Please reassign them first.")
		}
		return stores.Proctors.Delete(ctx, id)
	})
}

// ListAdmins returns one page of admins and the total count
func (s *UserService) ListAdmins(ctx context.Context, page repositories.Page) ([]models.Admin, int64, error) {
	return s.stores.Admins.List(ctx, page)
}

// CreateAdmin creates an admin account
func (s *UserService) CreateAdmin(ctx context.Context, req *dto.CreateAdminRequest) (*models.Admin, error) {
	hash, err := pkgauth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}
	a := &models.Admin{
		Name:     strings.TrimSpace(req.Name),
		Email:    normalizeEmail(req.Email),
		Password: hash,
	}
	if err := s.stores.Admins.Create(ctx, a); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("adminID", a.ID).Msg("Admin created")
	return a, nil
}

// UpdateAdmin changes an admin's profile fields
func (s *UserService) UpdateAdmin(ctx context.Context, id int64, req *dto.UpdateAdminRequest) (*models.Admin, error) {
	a, err := s.stores.Admins.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	setTrimmed(&a.Name, req.Name)
	if req.Email != nil {
		a.Email = normalizeEmail(*req.Email)
	}
	if err := s.stores.Admins.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// DeleteAdmin removes another admin's account
func (s *UserService) DeleteAdmin(ctx context.Context, actor auth.Actor, id int64) error {
	if err := auth.AuthorizeAdminDeletion(actor, id); err != nil {
		return err
	}
	return s.stores.Admins.Delete(ctx, id)
}

// Stats counts accounts per role
func (s *UserService) Stats(ctx context.Context) (models.UserStats, error) {
	var stats models.UserStats
	var err error
	if stats.Students, err = s.stores.Students.Count(ctx); err != nil {
		return stats, err
	}
	if stats.Proctors, err = s.stores.Proctors.Count(ctx); err != nil {
		return stats, err
	}
	if stats.Admins, err = s.stores.Admins.Count(ctx); err != nil {
		return stats, err
	}
	stats.Total = stats.Students + stats.Proctors + stats.Admins
	return stats, nil
}
