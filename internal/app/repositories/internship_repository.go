package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/tce-csbs/participation-portal/internal/app/models"
	"github.com/tce-csbs/participation-portal/internal/pkg/apperrors"
)

var internshipColumns = []string{
	"i.id", "i.student_id", "i.company_name", "i.description", "i.mode", "i.duration_from", "i.duration_to",
	"i.certificate", "i.ppt", "i.report", "i.photo", "i.status", "i.proctor_id", "i.rejection_reason",
	"i.created_at", "i.updated_at",
	"s.id", "s.name", "s.email", "s.register_no", "s.department", "s.year",
}

// InternshipFilter narrows an internship listing. Zero values are ignored.
type InternshipFilter struct {
	StudentID int64
	ProctorID int64
	Status    models.InternshipStatus
}

// InternshipRepository handles internship database operations
type InternshipRepository struct {
	db DBTX
	sb squirrel.StatementBuilderType
}

// NewInternshipRepository creates a new InternshipRepository
func NewInternshipRepository(db DBTX) *InternshipRepository {
	return &InternshipRepository{db: db, sb: builder()}
}

func scanInternship(row pgx.Row) (*models.Internship, error) {
	var in models.Internship
	var s models.StudentSummary
	err := row.Scan(
		&in.ID, &in.StudentID, &in.CompanyName, &in.Description, &in.Mode, &in.DurationFrom, &in.DurationTo,
		&in.Certificate, &in.PPT, &in.Report, &in.Photo, &in.Status, &in.ProctorID, &in.RejectionReason,
		&in.CreatedAt, &in.UpdatedAt,
		&s.ID, &s.Name, &s.Email, &s.RegisterNo, &s.Department, &s.Year,
	)
	if err != nil {
		return nil, err
	}
	in.Student = &s
	return &in, nil
}

// Create inserts a new internship record
func (r *InternshipRepository) Create(ctx context.Context, in *models.Internship) error {
	if in.Status == "" {
		in.Status = models.InternshipPending
	}
	err := r.db.QueryRow(ctx, `
		INSERT INTO internships (student_id, company_name, description, mode, duration_from, duration_to,
			certificate, ppt, report, photo, status, proctor_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at
	`, in.StudentID, in.CompanyName, in.Description, in.Mode, in.DurationFrom, in.DurationTo,
		in.Certificate, in.PPT, in.Report, in.Photo, in.Status, in.ProctorID).
		Scan(&in.ID, &in.CreatedAt, &in.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating internship: %w", err)
	}
	return nil
}

// GetByIDForUpdate retrieves an internship and locks its row until the transaction ends
func (r *InternshipRepository) GetByIDForUpdate(ctx context.Context, id int64) (*models.Internship, error) {
	q := r.sb.Select(internshipColumns...).
		From("internships i").
		Join("students s ON s.id = i.student_id").
		Where(squirrel.Eq{"i.id": id}).
		Suffix("FOR UPDATE OF i")
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get internship query: %w", err)
	}
	in, err := scanInternship(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrInternshipNotFound
		}
		return nil, fmt.Errorf("error retrieving internship: %w", err)
	}
	return in, nil
}

// UpdateStatus writes status and rejection reason together
func (r *InternshipRepository) UpdateStatus(ctx context.Context, in *models.Internship) error {
	err := r.db.QueryRow(ctx, `
		UPDATE internships SET status = $2, rejection_reason = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`, in.ID, in.Status, in.RejectionReason).Scan(&in.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrInternshipNotFound
		}
		return fmt.Errorf("error updating internship status: %w", err)
	}
	return nil
}

// List returns matching records newest first
func (r *InternshipRepository) List(ctx context.Context, f InternshipFilter) ([]models.Internship, error) {
	q := r.sb.Select(internshipColumns...).
		From("internships i").
		Join("students s ON s.id = i.student_id").
		OrderBy("i.created_at DESC", "i.id DESC")
	if f.StudentID != 0 {
		q = q.Where(squirrel.Eq{"i.student_id": f.StudentID})
	}
	if f.ProctorID != 0 {
		q = q.Where(squirrel.Eq{"i.proctor_id": f.ProctorID})
	}
	if f.Status != "" {
		q = q.Where(squirrel.Eq{"i.status": f.Status})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build internship list query: %w", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing internships: %w", err)
	}
	defer rows.Close()

	internships := make([]models.Internship, 0)
	for rows.Next() {
		in, err := scanInternship(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning internship: %w", err)
		}
		internships = append(internships, *in)
	}
	return internships, rows.Err()
}

// ApprovedInternships lists a student's approved records
func (r *InternshipRepository) ApprovedInternships(ctx context.Context, studentID int64) ([]models.Internship, error) {
	return r.List(ctx, InternshipFilter{StudentID: studentID, Status: models.InternshipApproved})
}

// CountByStatus counts records per status
func (r *InternshipRepository) CountByStatus(ctx context.Context) (map[models.InternshipStatus]int64, error) {
	rows, err := r.db.Query(ctx, `SELECT status, COUNT(*) FROM internships GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("error counting internships by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.InternshipStatus]int64)
	for rows.Next() {
		var status models.InternshipStatus
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

// CountByProctor counts the records assigned to a proctor
func (r *InternshipRepository) CountByProctor(ctx context.Context, proctorID int64) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM internships WHERE proctor_id = $1`, proctorID).Scan(&n); err != nil {
		return 0, fmt.Errorf("error counting proctor internships: %w", err)
	}
	return n, nil
}
