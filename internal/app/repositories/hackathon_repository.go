package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/tce-csbs/participation-portal/internal/app/models"
	"github.com/tce-csbs/participation-portal/internal/pkg/apperrors"
	"github.com/tce-csbs/participation-portal/internal/pkg/dberrors"
)

// HackathonTitleYearKey is the unique constraint on (title, year)
const HackathonTitleYearKey = "hackathons_title_year_key"

var hackathonColumns = []string{
	"h.id", "h.student_id", "h.title", "h.organization", "h.mode", "h.date", "h.year", "h.description",
	"h.certificate", "h.status", "h.proctor_id", "h.rejection_reason", "h.participant_count",
	"h.created_at", "h.updated_at",
	"s.id", "s.name", "s.email", "s.register_no", "s.department", "s.year",
}

// HackathonFilter narrows a hackathon listing. Zero values are ignored.
type HackathonFilter struct {
	StudentID int64
	ProctorID int64
	Status    models.HackathonStatus
	Year      int
	Title     string
}

// HackathonRepository handles hackathon database operations
type HackathonRepository struct {
	db DBTX
	sb squirrel.StatementBuilderType
}

// NewHackathonRepository creates a new HackathonRepository
func NewHackathonRepository(db DBTX) *HackathonRepository {
	return &HackathonRepository{db: db, sb: builder()}
}

func scanHackathon(row pgx.Row) (*models.Hackathon, error) {
	var h models.Hackathon
	var s models.StudentSummary
	err := row.Scan(
		&h.ID, &h.StudentID, &h.Title, &h.Organization, &h.Mode, &h.Date, &h.Year, &h.Description,
		&h.Certificate, &h.Status, &h.ProctorID, &h.RejectionReason, &h.ParticipantCount,
		&h.CreatedAt, &h.UpdatedAt,
		&s.ID, &s.Name, &s.Email, &s.RegisterNo, &s.Department, &s.Year,
	)
	if err != nil {
		return nil, err
	}
	h.Student = &s
	return &h, nil
}

func (r *HackathonRepository) selectBase() squirrel.SelectBuilder {
	return r.sb.Select(hackathonColumns...).
		From("hackathons h").
		Join("students s ON s.id = h.student_id")
}

// Create inserts a new record. A duplicate (title, year) is ErrHackathonExists.
func (r *HackathonRepository) Create(ctx context.Context, h *models.Hackathon) error {
	query := `
		INSERT INTO hackathons (student_id, title, organization, mode, date, year, description, certificate,
			status, proctor_id, participant_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at
	`
	if h.Status == "" {
		h.Status = models.HackathonPending
	}
	if h.ParticipantCount == 0 {
		h.ParticipantCount = 1
	}
	err := r.db.QueryRow(ctx, query, h.StudentID, h.Title, h.Organization, h.Mode, h.Date, h.Year,
		h.Description, h.Certificate, h.Status, h.ProctorID, h.ParticipantCount).
		Scan(&h.ID, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, HackathonTitleYearKey) {
			return apperrors.ErrHackathonExists
		}
		return fmt.Errorf("error creating hackathon: %w", err)
	}
	return nil
}

// GetByIDForUpdate retrieves a hackathon and locks its row until the transaction ends
func (r *HackathonRepository) GetByIDForUpdate(ctx context.Context, id int64) (*models.Hackathon, error) {
	return r.getOne(ctx, squirrel.Eq{"h.id": id}, true)
}

// FindByTitleYear retrieves the record for a (title, year) pair
func (r *HackathonRepository) FindByTitleYear(ctx context.Context, title string, year int) (*models.Hackathon, error) {
	return r.getOne(ctx, squirrel.Eq{"h.title": title, "h.year": year}, false)
}

func (r *HackathonRepository) getOne(ctx context.Context, where squirrel.Sqlizer, lock bool) (*models.Hackathon, error) {
	q := r.selectBase().Where(where).Limit(1)
	if lock {
		q = q.Suffix("FOR UPDATE OF h")
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get hackathon query: %w", err)
	}
	h, err := scanHackathon(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrHackathonNotFound
		}
		return nil, fmt.Errorf("error retrieving hackathon: %w", err)
	}
	return h, nil
}

// IncrementParticipants bumps participant_count and returns the new value
func (r *HackathonRepository) IncrementParticipants(ctx context.Context, id int64) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `
		UPDATE hackathons SET participant_count = participant_count + 1, updated_at = NOW()
		WHERE id = $1
		RETURNING participant_count
	`, id).Scan(&count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.ErrHackathonNotFound
		}
		return 0, fmt.Errorf("error incrementing participants: %w", err)
	}
	return count, nil
}

// UpdateStatus writes status and rejection reason together
func (r *HackathonRepository) UpdateStatus(ctx context.Context, h *models.Hackathon) error {
	err := r.db.QueryRow(ctx, `
		UPDATE hackathons SET status = $2, rejection_reason = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`, h.ID, h.Status, h.RejectionReason).Scan(&h.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrHackathonNotFound
		}
		return fmt.Errorf("error updating hackathon status: %w", err)
	}
	return nil
}

// List returns matching records newest first
func (r *HackathonRepository) List(ctx context.Context, f HackathonFilter) ([]models.Hackathon, error) {
	q := r.selectBase().OrderBy("h.created_at DESC", "h.id DESC")
	if f.StudentID != 0 {
		q = q.Where(squirrel.Eq{"h.student_id": f.StudentID})
	}
	if f.ProctorID != 0 {
		q = q.Where(squirrel.Eq{"h.proctor_id": f.ProctorID})
	}
	if f.Status != "" {
		q = q.Where(squirrel.Eq{"h.status": f.Status})
	}
	if f.Year != 0 {
		q = q.Where(squirrel.Eq{"h.year": f.Year})
	}
	if f.Title != "" {
		q = q.Where(squirrel.Eq{"h.title": f.Title})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build hackathon list query: %w", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing hackathons: %w", err)
	}
	defer rows.Close()

	hackathons := make([]models.Hackathon, 0)
	for rows.Next() {
		h, err := scanHackathon(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning hackathon: %w", err)
		}
		hackathons = append(hackathons, *h)
	}
	return hackathons, rows.Err()
}

// AcceptedHackathons lists a student's accepted records
func (r *HackathonRepository) AcceptedHackathons(ctx context.Context, studentID int64) ([]models.Hackathon, error) {
	return r.List(ctx, HackathonFilter{StudentID: studentID, Status: models.HackathonAccepted})
}

// StatsByYear groups records per year, newest year first
func (r *HackathonRepository) StatsByYear(ctx context.Context) ([]models.HackathonYearStats, error) {
	rows, err := r.db.Query(ctx, `
		SELECT year, COUNT(*), COUNT(DISTINCT title), COALESCE(SUM(participant_count), 0)
		FROM hackathons
		GROUP BY year
		ORDER BY year DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("error aggregating hackathon stats: %w", err)
	}
	defer rows.Close()

	stats := make([]models.HackathonYearStats, 0)
	for rows.Next() {
		var s models.HackathonYearStats
		if err := rows.Scan(&s.Year, &s.TotalHackathons, &s.UniqueHackathonCount, &s.TotalParticipants); err != nil {
			return nil, fmt.Errorf("error scanning hackathon stats: %w", err)
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

// CountByStatus counts records per status
func (r *HackathonRepository) CountByStatus(ctx context.Context) (map[models.HackathonStatus]int64, error) {
	rows, err := r.db.Query(ctx, `SELECT status, COUNT(*) FROM hackathons GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("error counting hackathons by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.HackathonStatus]int64)
	for rows.Next() {
		var status models.HackathonStatus
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

// CountByMode counts records per mode
func (r *HackathonRepository) CountByMode(ctx context.Context) (map[models.Mode]int64, error) {
	rows, err := r.db.Query(ctx, `SELECT mode, COUNT(*) FROM hackathons GROUP BY mode`)
	if err != nil {
		return nil, fmt.Errorf("error counting hackathons by mode: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.Mode]int64)
	for rows.Next() {
		var mode models.Mode
		var n int64
		if err := rows.Scan(&mode, &n); err != nil {
			return nil, err
		}
		counts[mode] = n
	}
	return counts, rows.Err()
}

// CountStudentsWithAccepted counts distinct students owning an accepted record
func (r *HackathonRepository) CountStudentsWithAccepted(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(DISTINCT student_id) FROM hackathons WHERE status = $1`,
		models.HackathonAccepted).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("error counting students with hackathons: %w", err)
	}
	return n, nil
}

// CountByProctor counts the records assigned to a proctor
func (r *HackathonRepository) CountByProctor(ctx context.Context, proctorID int64) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM hackathons WHERE proctor_id = $1`, proctorID).Scan(&n); err != nil {
		return 0, fmt.Errorf("error counting proctor hackathons: %w", err)
	}
	return n, nil
}
