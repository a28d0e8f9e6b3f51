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

var proctorColumns = []string{"id", "name", "email", "password", "department", "created_at", "updated_at"}

// ProctorRepository handles proctor database operations
type ProctorRepository struct {
	db DBTX
	sb squirrel.StatementBuilderType
}

// NewProctorRepository creates a new ProctorRepository
func NewProctorRepository(db DBTX) *ProctorRepository {
	return &ProctorRepository{db: db, sb: builder()}
}

func scanProctor(row pgx.Row) (*models.Proctor, error) {
	var p models.Proctor
	if err := row.Scan(&p.ID, &p.Name, &p.Email, &p.Password, &p.Department, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a proctor
func (r *ProctorRepository) Create(ctx context.Context, p *models.Proctor) error {
	query := `
		INSERT INTO proctors (name, email, password, department)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, p.Name, p.Email, p.Password, p.Department).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "proctors_email_key") {
			return apperrors.ErrEmailAlreadyExists
		}
		return fmt.Errorf("error creating proctor: %w", err)
	}
	return nil
}

// GetByID retrieves a proctor and its assigned students
func (r *ProctorRepository) GetByID(ctx context.Context, id int64) (*models.Proctor, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id}, "")
}

// GetByEmail retrieves a proctor by email
func (r *ProctorRepository) GetByEmail(ctx context.Context, email string) (*models.Proctor, error) {
	return r.getOne(ctx, squirrel.Eq{"email": email}, "")
}

// FirstByDepartment returns the earliest created proctor of department
func (r *ProctorRepository) FirstByDepartment(ctx context.Context, department string) (*models.Proctor, error) {
	return r.getOne(ctx, squirrel.Eq{"department": department}, "id ASC")
}

func (r *ProctorRepository) getOne(ctx context.Context, where squirrel.Sqlizer, orderBy string) (*models.Proctor, error) {
	q := r.sb.Select(proctorColumns...).From("proctors").Where(where).Limit(1)
	if orderBy != "" {
		q = q.OrderBy(orderBy)
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get proctor query: %w", err)
	}
	p, err := scanProctor(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrProctorNotFound
		}
		return nil, fmt.Errorf("error retrieving proctor: %w", err)
	}
	if p.AssignedStudents, err = r.AssignedStudents(ctx, p.ID); err != nil {
		return nil, err
	}
	return p, nil
}

// AssignStudent links a student to a proctor. Repeated calls are no-ops.
// It reports whether a new link was created.
func (r *ProctorRepository) AssignStudent(ctx context.Context, proctorID, studentID int64) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		INSERT INTO proctor_students (proctor_id, student_id)
		VALUES ($1, $2)
		ON CONFLICT (proctor_id, student_id) DO NOTHING
	`, proctorID, studentID)
	if err != nil {
		return false, fmt.Errorf("error assigning student to proctor: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// AssignedStudents lists the IDs of students assigned to a proctor in assignment order
func (r *ProctorRepository) AssignedStudents(ctx context.Context, proctorID int64) ([]int64, error) {
	rows, err := r.db.Query(ctx, `
		SELECT student_id FROM proctor_students
		WHERE proctor_id = $1
		ORDER BY assigned_at, student_id
	`, proctorID)
	if err != nil {
		return nil, fmt.Errorf("error listing assigned students: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("error scanning assigned students: %w", err)
	}
	return ids, nil
}

// List returns proctors newest first, and the total count
func (r *ProctorRepository) List(ctx context.Context, page Page) ([]models.Proctor, int64, error) {
	sql, args, err := page.apply(r.sb.Select(proctorColumns...).From("proctors").OrderBy("created_at DESC", "id DESC")).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build proctor list query: %w", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing proctors: %w", err)
	}
	defer rows.Close()

	var proctors []models.Proctor
	for rows.Next() {
		p, err := scanProctor(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning proctor: %w", err)
		}
		proctors = append(proctors, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	rows.Close()

	for i := range proctors {
		if proctors[i].AssignedStudents, err = r.AssignedStudents(ctx, proctors[i].ID); err != nil {
			return nil, 0, err
		}
	}

	total, err := r.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	return proctors, total, nil
}

// Update writes the editable profile fields
func (r *ProctorRepository) Update(ctx context.Context, p *models.Proctor) error {
	err := r.db.QueryRow(ctx, `
		UPDATE proctors SET name = $2, email = $3, department = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`, p.ID, p.Name, p.Email, p.Department).Scan(&p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrProctorNotFound
		}
		if dberrors.IsDuplicateConstraintError(err, "proctors_email_key") {
			return apperrors.ErrEmailAlreadyExists
		}
		return fmt.Errorf("error updating proctor: %w", err)
	}
	return nil
}

// Delete removes a proctor
func (r *ProctorRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM proctors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting proctor: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrProctorNotFound
	}
	return nil
}

// Count returns the number of proctors
func (r *ProctorRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM proctors`).Scan(&n); err != nil {
		return 0, fmt.Errorf("error counting proctors: %w", err)
	}
	return n, nil
}
