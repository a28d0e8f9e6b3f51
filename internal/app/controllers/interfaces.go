// Package controllers handles HTTP request handling
package controllers

import (
	"context"

	"github.com/tce-csbs/participation-portal/internal/app/auth"
	"github.com/tce-csbs/participation-portal/internal/app/models"
	"github.com/tce-csbs/participation-portal/internal/app/models/dto"
	"github.com/tce-csbs/participation-portal/internal/app/repositories"
)

// AuthService is the account entry point used by AuthController
type AuthService interface {
	RegisterStudent(ctx context.Context, req *dto.RegisterStudentRequest) (*models.Student, error)
	Login(ctx context.Context, role auth.Role, req *dto.LoginRequest) (*dto.LoginResponse, error)
}

// HackathonService is the hackathon workflow used by HackathonController and AdminController
type HackathonService interface {
	Submit(ctx context.Context, actor auth.Actor, req dto.SubmitHackathonRequest, certificate string) (*dto.HackathonSubmissionResult, error)
	UpdateStatus(ctx context.Context, actor auth.Actor, id int64, req dto.StatusUpdateRequest) (*models.Hackathon, error)
	ListMine(ctx context.Context, actor auth.Actor) ([]models.Hackathon, error)
	ListAssigned(ctx context.Context, actor auth.Actor) ([]models.Hackathon, error)
	ListAccepted(ctx context.Context) ([]models.Hackathon, error)
	ListByYear(ctx context.Context, year int) ([]models.Hackathon, error)
	Participants(ctx context.Context, title string, year int) ([]models.Hackathon, error)
	ListByStudent(ctx context.Context, studentID int64) ([]models.Hackathon, error)
	StatsByYear(ctx context.Context) ([]models.HackathonYearStats, error)
}

// InternshipService is the internship workflow used by InternshipController
type InternshipService interface {
	Submit(ctx context.Context, actor auth.Actor, req dto.SubmitInternshipRequest, files dto.SubmissionFiles) (*models.Internship, error)
	UpdateStatus(ctx context.Context, actor auth.Actor, id int64, req dto.StatusUpdateRequest) (*models.Internship, error)
	ListMine(ctx context.Context, actor auth.Actor) ([]models.Internship, error)
	ListAssigned(ctx context.Context, actor auth.Actor) ([]models.Internship, error)
	ListApproved(ctx context.Context) ([]models.Internship, error)
}

// AlertService covers the low-credit sweep and the student credit endpoints
type AlertService interface {
	Threshold() float64
	LowCreditStudents(ctx context.Context) ([]models.Student, error)
	SendLowCreditAlerts(ctx context.Context) (dto.AlertResult, error)
	Credits(ctx context.Context, actor auth.Actor) (dto.CreditsResponse, error)
	CheckMyCredits(ctx context.Context, actor auth.Actor) (dto.CreditCheckResponse, error)
}

// StatsService builds the admin dashboard
type StatsService interface {
	Dashboard(ctx context.Context) (*models.DashboardStats, error)
}

// ExportService renders spreadsheet exports
type ExportService interface {
	HackathonWorkbook(ctx context.Context, year int) ([]byte, error)
}

// UserService manages accounts of every role
type UserService interface {
	ListStudents(ctx context.Context, page repositories.Page) ([]models.Student, int64, error)
	UpdateStudent(ctx context.Context, id int64, req *dto.UpdateStudentRequest) (*models.Student, error)
	DeleteStudent(ctx context.Context, id int64) error
	ListProctors(ctx context.Context, page repositories.Page) ([]models.Proctor, int64, error)
	CreateProctor(ctx context.Context, req *dto.CreateProctorRequest) (*models.Proctor, error)
	UpdateProctor(ctx context.Context, id int64, req *dto.UpdateProctorRequest) (*models.Proctor, error)
	DeleteProctor(ctx context.Context, id int64) error
	ListAdmins(ctx context.Context, page repositories.Page) ([]models.Admin, int64, error)
	CreateAdmin(ctx context.Context, req *dto.CreateAdminRequest) (*models.Admin, error)
	UpdateAdmin(ctx context.Context, id int64, req *dto.UpdateAdminRequest) (*models.Admin, error)
	DeleteAdmin(ctx context.Context, actor auth.Actor, id int64) error
	Stats(ctx context.Context) (models.UserStats, error)
}
