//go:build integration

package repositories

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tce-csbs/participation-portal/internal/app/migrations"
	"github.com/tce-csbs/participation-portal/internal/app/models"
	"github.com/tce-csbs/participation-portal/internal/pkg/apperrors"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

var testPool *pgxpool.Pool

func TestMain(m *testing.M) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	pg, err := postgres.RunContainer(ctx,
		tc.WithImage("postgres:16-alpine"),
		postgres.WithDatabase("participation"),
		postgres.WithUsername("portal"),
		postgres.WithPassword("portal"),
		tc.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).WithStartupTimeout(time.Minute)),
	)
	if err != nil {
		panic(err)
	}

	uri, err := pg.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = pg.Terminate(ctx)
		panic(err)
	}
	testPool, err = pgxpool.New(ctx, uri)
	if err != nil {
		_ = pg.Terminate(ctx)
		panic(err)
	}
	if err := migrations.NewMigrator(testPool, zerolog.Nop()).Up(ctx); err != nil {
		_ = pg.Terminate(ctx)
		panic(err)
	}

	code := m.Run()

	testPool.Close()
	_ = pg.Terminate(context.Background())
	os.Exit(code)
}

func reset(t *testing.T) *Repositories {
	t.Helper()
	_, err := testPool.Exec(context.Background(),
		`TRUNCATE internships, hackathons, proctor_students, admins, proctors, students RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
	return NewRepositories(testPool)
}

func newStudent(t *testing.T, repos *Repositories, regNo string, credits float64) *models.Student {
	t.Helper()
	st := &models.Student{
		Name: "Student " + regNo, Email: regNo + "@student.tce.edu", Password: "hash",
		RegisterNo: regNo, Department: "CSBS", Year: "3", Credits: credits,
	}
	require.NoError(t, repos.Students.Create(context.Background(), st))
	return st
}

func newHackathon(studentID int64, title string, year int, proctorID *int64) *models.Hackathon {
	return &models.Hackathon{
		StudentID: studentID, Title: title, Organization: "IIT Madras", Mode: models.ModeOffline,
		Date: time.Date(year, 3, 14, 0, 0, 0, 0, time.UTC), Year: year,
		Description: "hackathon", Certificate: "/uploads/certificates/c.pdf", ProctorID: proctorID,
	}
}

func TestStudentRepository_UniqueKeys(t *testing.T) {
	repos := reset(t)
	ctx := context.Background()
	newStudent(t, repos, "21CB001", 0)

	dupEmail := &models.Student{Name: "X", Email: "21CB001@student.tce.edu", Password: "h", RegisterNo: "21CB099", Department: "CSBS", Year: "2"}
	assert.ErrorIs(t, repos.Students.Create(ctx, dupEmail), apperrors.ErrEmailAlreadyExists)

	dupReg := &models.Student{Name: "X", Email: "other@student.tce.edu", Password: "h", RegisterNo: "21CB001", Department: "CSBS", Year: "2"}
	assert.ErrorIs(t, repos.Students.Create(ctx, dupReg), apperrors.ErrRegisterNoExists)

	_, err := repos.Students.GetByID(ctx, 999)
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
}

func TestStudentRepository_Credits(t *testing.T) {
	repos := reset(t)
	ctx := context.Background()
	low := newStudent(t, repos, "21CB001", 1.5)
	newStudent(t, repos, "21CB002", 3)
	newStudent(t, repos, "21CB003", 4.5)

	below, err := repos.Students.ListBelowCredits(ctx, 3)
	require.NoError(t, err)
	require.Len(t, below, 1)
	assert.Equal(t, low.ID, below[0].ID)

	n, err := repos.Students.CountBelowCredits(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	require.NoError(t, repos.Students.UpdateCredits(ctx, low.ID, 2.5))
	got, err := repos.Students.GetByID(ctx, low.ID)
	require.NoError(t, err)
	assert.Equal(t, 2.5, got.Credits)

	assert.Error(t, repos.Students.UpdateCredits(ctx, low.ID, -1), "credits are never negative")
}

func TestProctorRepository_Assignment(t *testing.T) {
	repos := reset(t)
	ctx := context.Background()
	first := &models.Proctor{Name: "Meena", Email: "meena@tce.edu", Password: "h", Department: "CSBS"}
	second := &models.Proctor{Name: "Ravi", Email: "ravi@tce.edu", Password: "h", Department: "CSBS"}
	require.NoError(t, repos.Proctors.Create(ctx, first))
	require.NoError(t, repos.Proctors.Create(ctx, second))

	got, err := repos.Proctors.FirstByDepartment(ctx, "CSBS")
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)

	_, err = repos.Proctors.FirstByDepartment(ctx, "MECH")
	assert.ErrorIs(t, err, apperrors.ErrProctorNotFound)

	st := newStudent(t, repos, "21CB001", 0)
	created, err := repos.Proctors.AssignStudent(ctx, first.ID, st.ID)
	require.NoError(t, err)
	assert.True(t, created)
	created, err = repos.Proctors.AssignStudent(ctx, first.ID, st.ID)
	require.NoError(t, err)
	assert.False(t, created)

	ids, err := repos.Proctors.AssignedStudents(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{st.ID}, ids)
}

func TestHackathonRepository_TitleYearKey(t *testing.T) {
	repos := reset(t)
	ctx := context.Background()
	a := newStudent(t, repos, "21CB001", 0)
	b := newStudent(t, repos, "21CB002", 0)

	h := newHackathon(a.ID, "CodeFest", 2025, nil)
	require.NoError(t, repos.Hackathons.Create(ctx, h))
	assert.Equal(t, 1, h.ParticipantCount)
	assert.Equal(t, models.HackathonPending, h.Status)

	assert.ErrorIs(t, repos.Hackathons.Create(ctx, newHackathon(b.ID, "CodeFest", 2025, nil)), apperrors.ErrHackathonExists)
	require.NoError(t, repos.Hackathons.Create(ctx, newHackathon(b.ID, "CodeFest", 2024, nil)))

	count, err := repos.Hackathons.IncrementParticipants(ctx, h.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	found, err := repos.Hackathons.FindByTitleYear(ctx, "CodeFest", 2025)
	require.NoError(t, err)
	assert.Equal(t, a.ID, found.StudentID, "merge does not re-attribute the record")
	require.NotNil(t, found.Student)
	assert.Equal(t, "21CB001", found.Student.RegisterNo)

	stats, err := repos.Hackathons.StatsByYear(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, 2025, stats[0].Year)
	assert.Equal(t, int64(2), stats[0].TotalParticipants)
}

func TestHackathonRepository_StatusAndFilters(t *testing.T) {
	repos := reset(t)
	ctx := context.Background()
	p := &models.Proctor{Name: "Meena", Email: "meena@tce.edu", Password: "h", Department: "CSBS"}
	require.NoError(t, repos.Proctors.Create(ctx, p))
	st := newStudent(t, repos, "21CB001", 0)

	h := newHackathon(st.ID, "CodeFest", 2025, &p.ID)
	require.NoError(t, repos.Hackathons.Create(ctx, h))
	require.NoError(t, repos.Hackathons.Create(ctx, newHackathon(st.ID, "HackTN", 2025, nil)))

	reason := "Certificate unreadable"
	h.Status = models.HackathonDeclined
	h.RejectionReason = &reason
	require.NoError(t, repos.Hackathons.UpdateStatus(ctx, h))

	assigned, err := repos.Hackathons.List(ctx, HackathonFilter{ProctorID: p.ID})
	require.NoError(t, err)
	require.Len(t, assigned, 1)
	require.NotNil(t, assigned[0].RejectionReason)
	assert.Equal(t, reason, *assigned[0].RejectionReason)

	byStatus, err := repos.Hackathons.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), byStatus[models.HackathonDeclined])
	assert.Equal(t, int64(1), byStatus[models.HackathonPending])

	n, err := repos.Hackathons.CountByProctor(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = repos.Hackathons.GetByIDForUpdate(ctx, 12345)
	assert.ErrorIs(t, err, apperrors.ErrHackathonNotFound)
	_, err = repos.Internships.GetByIDForUpdate(ctx, 12345)
	assert.ErrorIs(t, err, apperrors.ErrInternshipNotFound)
}

func TestInternshipRepository_ApprovedAndCascade(t *testing.T) {
	repos := reset(t)
	ctx := context.Background()
	st := newStudent(t, repos, "21CB001", 0)

	in := &models.Internship{
		StudentID: st.ID, CompanyName: "Zoho", Description: "Backend", Mode: models.ModeOnline,
		DurationFrom: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
		DurationTo:   time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		Certificate:  "/uploads/internships/c.pdf",
	}
	require.NoError(t, repos.Internships.Create(ctx, in))
	in.Status = models.InternshipApproved
	require.NoError(t, repos.Internships.UpdateStatus(ctx, in))

	approved, err := repos.Internships.ApprovedInternships(ctx, st.ID)
	require.NoError(t, err)
	require.Len(t, approved, 1)
	assert.Nil(t, approved[0].PPT)

	require.NoError(t, repos.Hackathons.Create(ctx, newHackathon(st.ID, "CodeFest", 2025, nil)))
	require.NoError(t, repos.Students.Delete(ctx, st.ID))

	hs, err := repos.Hackathons.List(ctx, HackathonFilter{})
	require.NoError(t, err)
	assert.Empty(t, hs)
	is, err := repos.Internships.List(ctx, InternshipFilter{})
	require.NoError(t, err)
	assert.Empty(t, is)
}
