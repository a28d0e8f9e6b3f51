package controllers

import (
	"context"
	"mime/multipart"

	"github.com/stretchr/testify/mock"
	"github.com/tce-csbs/participation-portal/internal/app/auth"
	"github.com/tce-csbs/participation-portal/internal/app/models"
	"github.com/tce-csbs/participation-portal/internal/app/models/dto"
	"github.com/tce-csbs/participation-portal/internal/app/repositories"
)

type mockAuthService struct{ mock.Mock }

func (m *mockAuthService) RegisterStudent(ctx context.Context, req *dto.RegisterStudentRequest) (*models.Student, error) {
	args := m.Called(ctx, req)
	st, _ := args.Get(0).(*models.Student)
	return st, args.Error(1)
}

func (m *mockAuthService) Login(ctx context.Context, role auth.Role, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	args := m.Called(ctx, role, req)
	resp, _ := args.Get(0).(*dto.LoginResponse)
	return resp, args.Error(1)
}

type mockHackathonService struct{ mock.Mock }

func (m *mockHackathonService) Submit(ctx context.Context, actor auth.Actor, req dto.SubmitHackathonRequest, certificate string) (*dto.HackathonSubmissionResult, error) {
	args := m.Called(ctx, actor, req, certificate)
	res, _ := args.Get(0).(*dto.HackathonSubmissionResult)
	return res, args.Error(1)
}

func (m *mockHackathonService) UpdateStatus(ctx context.Context, actor auth.Actor, id int64, req dto.StatusUpdateRequest) (*models.Hackathon, error) {
	args := m.Called(ctx, actor, id, req)
	h, _ := args.Get(0).(*models.Hackathon)
	return h, args.Error(1)
}

func (m *mockHackathonService) hackathons(args mock.Arguments) ([]models.Hackathon, error) {
	items, _ := args.Get(0).([]models.Hackathon)
	return items, args.Error(1)
}

func (m *mockHackathonService) ListMine(ctx context.Context, actor auth.Actor) ([]models.Hackathon, error) {
	return m.hackathons(m.Called(ctx, actor))
}

func (m *mockHackathonService) ListAssigned(ctx context.Context, actor auth.Actor) ([]models.Hackathon, error) {
	return m.hackathons(m.Called(ctx, actor))
}

func (m *mockHackathonService) ListAccepted(ctx context.Context) ([]models.Hackathon, error) {
	return m.hackathons(m.Called(ctx))
}

func (m *mockHackathonService) ListByYear(ctx context.Context, year int) ([]models.Hackathon, error) {
	return m.hackathons(m.Called(ctx, year))
}

func (m *mockHackathonService) Participants(ctx context.Context, title string, year int) ([]models.Hackathon, error) {
	return m.hackathons(m.Called(ctx, title, year))
}

func (m *mockHackathonService) ListByStudent(ctx context.Context, studentID int64) ([]models.Hackathon, error) {
	return m.hackathons(m.Called(ctx, studentID))
}

func (m *mockHackathonService) StatsByYear(ctx context.Context) ([]models.HackathonYearStats, error) {
	args := m.Called(ctx)
	stats, _ := args.Get(0).([]models.HackathonYearStats)
	return stats, args.Error(1)
}

type mockInternshipService struct{ mock.Mock }

func (m *mockInternshipService) Submit(ctx context.Context, actor auth.Actor, req dto.SubmitInternshipRequest, files dto.SubmissionFiles) (*models.Internship, error) {
	args := m.Called(ctx, actor, req, files)
	in, _ := args.Get(0).(*models.Internship)
	return in, args.Error(1)
}

func (m *mockInternshipService) UpdateStatus(ctx context.Context, actor auth.Actor, id int64, req dto.StatusUpdateRequest) (*models.Internship, error) {
	args := m.Called(ctx, actor, id, req)
	in, _ := args.Get(0).(*models.Internship)
	return in, args.Error(1)
}

func (m *mockInternshipService) internships(args mock.Arguments) ([]models.Internship, error) {
	items, _ := args.Get(0).([]models.Internship)
	return items, args.Error(1)
}

func (m *mockInternshipService) ListMine(ctx context.Context, actor auth.Actor) ([]models.Internship, error) {
	return m.internships(m.Called(ctx, actor))
}

func (m *mockInternshipService) ListAssigned(ctx context.Context, actor auth.Actor) ([]models.Internship, error) {
	return m.internships(m.Called(ctx, actor))
}

func (m *mockInternshipService) ListApproved(ctx context.Context) ([]models.Internship, error) {
	return m.internships(m.Called(ctx))
}

type mockAlertService struct{ mock.Mock }

func (m *mockAlertService) Threshold() float64 {
	return m.Called().Get(0).(float64)
}

func (m *mockAlertService) LowCreditStudents(ctx context.Context) ([]models.Student, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]models.Student)
	return items, args.Error(1)
}

func (m *mockAlertService) SendLowCreditAlerts(ctx context.Context) (dto.AlertResult, error) {
	args := m.Called(ctx)
	return args.Get(0).(dto.AlertResult), args.Error(1)
}

func (m *mockAlertService) Credits(ctx context.Context, actor auth.Actor) (dto.CreditsResponse, error) {
	args := m.Called(ctx, actor)
	return args.Get(0).(dto.CreditsResponse), args.Error(1)
}

func (m *mockAlertService) CheckMyCredits(ctx context.Context, actor auth.Actor) (dto.CreditCheckResponse, error) {
	args := m.Called(ctx, actor)
	return args.Get(0).(dto.CreditCheckResponse), args.Error(1)
}

type mockStatsService struct{ mock.Mock }

func (m *mockStatsService) Dashboard(ctx context.Context) (*models.DashboardStats, error) {
	args := m.Called(ctx)
	stats, _ := args.Get(0).(*models.DashboardStats)
	return stats, args.Error(1)
}

type mockExportService struct{ mock.Mock }

func (m *mockExportService) HackathonWorkbook(ctx context.Context, year int) ([]byte, error) {
	args := m.Called(ctx, year)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

type mockUserService struct{ mock.Mock }

func (m *mockUserService) ListStudents(ctx context.Context, page repositories.Page) ([]models.Student, int64, error) {
	args := m.Called(ctx, page)
	items, _ := args.Get(0).([]models.Student)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *mockUserService) UpdateStudent(ctx context.Context, id int64, req *dto.UpdateStudentRequest) (*models.Student, error) {
	args := m.Called(ctx, id, req)
	st, _ := args.Get(0).(*models.Student)
	return st, args.Error(1)
}

func (m *mockUserService) DeleteStudent(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockUserService) ListProctors(ctx context.Context, page repositories.Page) ([]models.Proctor, int64, error) {
	args := m.Called(ctx, page)
	items, _ := args.Get(0).([]models.Proctor)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *mockUserService) CreateProctor(ctx context.Context, req *dto.CreateProctorRequest) (*models.Proctor, error) {
	args := m.Called(ctx, req)
	p, _ := args.Get(0).(*models.Proctor)
	return p, args.Error(1)
}

func (m *mockUserService) UpdateProctor(ctx context.Context, id int64, req *dto.UpdateProctorRequest) (*models.Proctor, error) {
	args := m.Called(ctx, id, req)
	p, _ := args.Get(0).(*models.Proctor)
	return p, args.Error(1)
}

func (m *mockUserService) DeleteProctor(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockUserService) ListAdmins(ctx context.Context, page repositories.Page) ([]models.Admin, int64, error) {
	args := m.Called(ctx, page)
	items, _ := args.Get(0).([]models.Admin)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *mockUserService) CreateAdmin(ctx context.Context, req *dto.CreateAdminRequest) (*models.Admin, error) {
	args := m.Called(ctx, req)
	a, _ := args.Get(0).(*models.Admin)
	return a, args.Error(1)
}

func (m *mockUserService) UpdateAdmin(ctx context.Context, id int64, req *dto.UpdateAdminRequest) (*models.Admin, error) {
	args := m.Called(ctx, id, req)
	a, _ := args.Get(0).(*models.Admin)
	return a, args.Error(1)
}

func (m *mockUserService) DeleteAdmin(ctx context.Context, actor auth.Actor, id int64) error {
	return m.Called(ctx, actor, id).Error(0)
}

func (m *mockUserService) Stats(ctx context.Context) (models.UserStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.UserStats), args.Error(1)
}

// memStorage records saved and deleted references
type memStorage struct {
	saved   []string
	deleted []string
	saveErr error
}

func (s *memStorage) Save(_ context.Context, fh *multipart.FileHeader, subdir string) (string, error) {
	if s.saveErr != nil {
		return "", s.saveErr
	}
	ref := "/uploads/" + subdir + "/" + fh.Filename
	s.saved = append(s.saved, ref)
	return ref, nil
}

func (s *memStorage) Delete(_ context.Context, reference string) error {
	s.deleted = append(s.deleted, reference)
	return nil
}
