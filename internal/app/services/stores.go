package services

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/tce-csbs/participation-portal/internal/app/models"
	"github.com/tce-csbs/participation-portal/internal/app/repositories"
	"github.com/tce-csbs/participation-portal/internal/db"
	"github.com/tce-csbs/participation-portal/internal/pkg/email"
	"github.com/tce-csbs/participation-portal/internal/pkg/websocket"
)

// StudentStore persists students
type StudentStore interface {
	Create(ctx context.Context, s *models.Student) error
	GetByID(ctx context.Context, id int64) (*models.Student, error)
	GetByEmail(ctx context.Context, email string) (*models.Student, error)
	List(ctx context.Context, page repositories.Page) ([]models.Student, int64, error)
	ListBelowCredits(ctx context.Context, threshold float64) ([]models.Student, error)
	Update(ctx context.Context, s *models.Student) error
	UpdateCredits(ctx context.Context, id int64, credits float64) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
	CountBelowCredits(ctx context.Context, threshold float64) (int64, error)
}

// ProctorStore persists proctors and their assigned-student sets
type ProctorStore interface {
	Create(ctx context.Context, p *models.Proctor) error
	GetByID(ctx context.Context, id int64) (*models.Proctor, error)
	GetByEmail(ctx context.Context, email string) (*models.Proctor, error)
	FirstByDepartment(ctx context.Context, department string) (*models.Proctor, error)
	AssignStudent(ctx context.Context, proctorID, studentID int64) (bool, error)
	List(ctx context.Context, page repositories.Page) ([]models.Proctor, int64, error)
	Update(ctx context.Context, p *models.Proctor) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}

// AdminStore persists admins
type AdminStore interface {
	Create(ctx context.Context, a *models.Admin) error
	GetByID(ctx context.Context, id int64) (*models.Admin, error)
	GetByEmail(ctx context.Context, email string) (*models.Admin, error)
	List(ctx context.Context, page repositories.Page) ([]models.Admin, int64, error)
	Update(ctx context.Context, a *models.Admin) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}

// HackathonStore persists hackathon records
type HackathonStore interface {
	Create(ctx context.Context, h *models.Hackathon) error
	GetByIDForUpdate(ctx context.Context, id int64) (*models.Hackathon, error)
	FindByTitleYear(ctx context.Context, title string, year int) (*models.Hackathon, error)
	IncrementParticipants(ctx context.Context, id int64) (int, error)
	UpdateStatus(ctx context.Context, h *models.Hackathon) error
	List(ctx context.Context, f repositories.HackathonFilter) ([]models.Hackathon, error)
	AcceptedHackathons(ctx context.Context, studentID int64) ([]models.Hackathon, error)
	StatsByYear(ctx context.Context) ([]models.HackathonYearStats, error)
	CountByStatus(ctx context.Context) (map[models.HackathonStatus]int64, error)
	CountByMode(ctx context.Context) (map[models.Mode]int64, error)
	CountStudentsWithAccepted(ctx context.Context) (int64, error)
	CountByProctor(ctx context.Context, proctorID int64) (int64, error)
}

// InternshipStore persists internship records
type InternshipStore interface {
	Create(ctx context.Context, in *models.Internship) error
	GetByIDForUpdate(ctx context.Context, id int64) (*models.Internship, error)
	UpdateStatus(ctx context.Context, in *models.Internship) error
	List(ctx context.Context, f repositories.InternshipFilter) ([]models.Internship, error)
	ApprovedInternships(ctx context.Context, studentID int64) ([]models.Internship, error)
	CountByStatus(ctx context.Context) (map[models.InternshipStatus]int64, error)
	CountByProctor(ctx context.Context, proctorID int64) (int64, error)
}

// Stores groups the stores bound to one connection or transaction
type Stores struct {
	Students    StudentStore
	Proctors    ProctorStore
	Admins      AdminStore
	Hackathons  HackathonStore
	Internships InternshipStore
}

// StoresFromRepositories adapts the postgres repositories
func StoresFromRepositories(r *repositories.Repositories) Stores {
	return Stores{
		Students:    r.Students,
		Proctors:    r.Proctors,
		Admins:      r.Admins,
		Hackathons:  r.Hackathons,
		Internships: r.Internships,
	}
}

// creditSource feeds the credit engine from the stores of the current transaction
type creditSource struct {
	stores Stores
}

func (s creditSource) AcceptedHackathons(ctx context.Context, studentID int64) ([]models.Hackathon, error) {
	return s.stores.Hackathons.AcceptedHackathons(ctx, studentID)
}

func (s creditSource) ApprovedInternships(ctx context.Context, studentID int64) ([]models.Internship, error) {
	return s.stores.Internships.ApprovedInternships(ctx, studentID)
}

// UnitOfWork runs fn against stores that commit or roll back together
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context, stores Stores) error) error
}

// PostgresUnitOfWork runs each unit in one database transaction
type PostgresUnitOfWork struct {
	db *db.PostgresDB
}

// NewPostgresUnitOfWork creates a new PostgresUnitOfWork
func NewPostgresUnitOfWork(database *db.PostgresDB) *PostgresUnitOfWork {
	return &PostgresUnitOfWork{db: database}
}

// Do runs fn in a transaction
func (u *PostgresUnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, stores Stores) error) error {
	return u.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return fn(ctx, StoresFromRepositories(repositories.NewRepositories(tx)))
	})
}

// Notifier delivers templated emails. Callers log failures and carry on.
type Notifier interface {
	SendWelcome(ctx context.Context, name, to string) error
	SendHackathonSubmitted(ctx context.Context, name, to, title string) error
	SendInternshipSubmitted(ctx context.Context, name, to, company string) error
	SendStatusChanged(ctx context.Context, name, to string, update email.StatusUpdate) error
	SendCreditAlert(ctx context.Context, name, to string, credits, threshold float64) error
}

// EventPublisher pushes workflow events to connected dashboards
type EventPublisher interface {
	Publish(event websocket.Event)
}

// NoopPublisher drops every event
type NoopPublisher struct{}

// Publish implements EventPublisher
func (NoopPublisher) Publish(websocket.Event) {}
