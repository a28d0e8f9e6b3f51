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
	"github.com/tce-csbs/participation-portal/internal/pkg/logger"
)

var studentColumns = []string{
	"id", "name", "email", "password", "register_no", "department", "year", "credits", "created_at", "updated_at",
}

// StudentRepository handles student database operations
type StudentRepository struct {
	db DBTX
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(db DBTX) *StudentRepository {
	return &StudentRepository{db: db, sb: builder()}
}

func scanStudent(row pgx.Row) (*models.Student, error) {
	var s models.Student
	err := row.Scan(&s.ID, &s.Name, &s.Email, &s.Password, &s.RegisterNo, &s.Department, &s.Year,
		&s.Credits, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func studentUniqueError(err error) error {
	switch {
	case dberrors.IsDuplicateConstraintError(err, "students_email_key"):
		return apperrors.ErrEmailAlreadyExists
	case dberrors.IsDuplicateConstraintError(err, "students_register_no_key"):
		return apperrors.ErrRegisterNoExists
	}
	return nil
}

// Create inserts a student and fills ID and timestamps
func (r *StudentRepository) Create(ctx context.Context, s *models.Student) error {
	query := `
		INSERT INTO students (name, email, password, register_no, department, year, credits)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, s.Name, s.Email, s.Password, s.RegisterNo, s.Department, s.Year, s.Credits).
		Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if uerr := studentUniqueError(err); uerr != nil {
			logger.Warn().Str("email", s.Email).Str("registerNo", s.RegisterNo).Msg("Attempted to create duplicate student")
			return uerr
		}
		return fmt.Errorf("error creating student: %w", err)
	}
	return nil
}

// GetByID retrieves a student by ID
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetByEmail retrieves a student by email
func (r *StudentRepository) GetByEmail(ctx context.Context, email string) (*models.Student, error) {
	return r.getOne(ctx, squirrel.Eq{"email": email})
}

func (r *StudentRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*models.Student, error) {
	sql, args, err := r.sb.Select(studentColumns...).From("students").Where(where).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}
	s, err := scanStudent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}
	return s, nil
}

// List returns students newest first, and the total count
func (r *StudentRepository) List(ctx context.Context, page Page) ([]models.Student, int64, error) {
	q := page.apply(r.sb.Select(studentColumns...).From("students").OrderBy("created_at DESC", "id DESC"))
	students, err := r.query(ctx, q)
	if err != nil {
		return nil, 0, err
	}
	total, err := r.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	return students, total, nil
}

// ListBelowCredits returns students whose credit total is strictly below threshold
func (r *StudentRepository) ListBelowCredits(ctx context.Context, threshold float64) ([]models.Student, error) {
	q := r.sb.Select(studentColumns...).From("students").
		Where(squirrel.Lt{"credits": threshold}).
		OrderBy("credits ASC", "id ASC")
	return r.query(ctx, q)
}

func (r *StudentRepository) query(ctx context.Context, q squirrel.SelectBuilder) ([]models.Student, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build student list query: %w", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing students: %w", err)
	}
	defer rows.Close()

	var students []models.Student
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning student: %w", err)
		}
		students = append(students, *s)
	}
	return students, rows.Err()
}

// Update writes the editable profile fields. Password and credits are not touched.
func (r *StudentRepository) Update(ctx context.Context, s *models.Student) error {
	query := `
		UPDATE students
		SET name = $2, email = $3, register_no = $4, department = $5, year = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.db.QueryRow(ctx, query, s.ID, s.Name, s.Email, s.RegisterNo, s.Department, s.Year).Scan(&s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrStudentNotFound
		}
		if uerr := studentUniqueError(err); uerr != nil {
			return uerr
		}
		return fmt.Errorf("error updating student: %w", err)
	}
	return nil
}

// UpdateCredits overwrites the stored credit total
func (r *StudentRepository) UpdateCredits(ctx context.Context, id int64, credits float64) error {
	tag, err := r.db.Exec(ctx, `UPDATE students SET credits = $2, updated_at = NOW() WHERE id = $1`, id, credits)
	if err != nil {
		return fmt.Errorf("error updating student credits: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}
	return nil
}

// Delete removes a student. Hackathons, internships and proctor links cascade.
func (r *StudentRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting student: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}
	return nil
}

// Count returns the number of students
func (r *StudentRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM students`).Scan(&n); err != nil {
		return 0, fmt.Errorf("error counting students: %w", err)
	}
	return n, nil
}

// CountBelowCredits counts students below threshold
func (r *StudentRepository) CountBelowCredits(ctx context.Context, threshold float64) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM students WHERE credits < $1`, threshold).Scan(&n); err != nil {
		return 0, fmt.Errorf("error counting low credit students: %w", err)
	}
	return n, nil
}
