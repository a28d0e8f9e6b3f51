package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tce-csbs/participation-portal/internal/app/models"
	"github.com/tce-csbs/participation-portal/internal/pkg/apperrors"
	"github.com/tce-csbs/participation-portal/internal/pkg/dberrors"
)

// AdminRepository handles admin database operations
type AdminRepository struct {
	db DBTX
}

// NewAdminRepository creates a new AdminRepository
func NewAdminRepository(db DBTX) *AdminRepository {
	return &AdminRepository{db: db}
}

const adminSelect = `SELECT id, name, email, password, created_at, updated_at FROM admins`

func scanAdmin(row pgx.Row) (*models.Admin, error) {
	var a models.Admin
	if err := row.Scan(&a.ID, &a.Name, &a.Email, &a.Password, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

// Create inserts an admin
func (r *AdminRepository) Create(ctx context.Context, a *models.Admin) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO admins (name, email, password) VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`, a.Name, a.Email, a.Password).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "admins_email_key") {
			return apperrors.ErrEmailAlreadyExists
		}
		return fmt.Errorf("error creating admin: %w", err)
	}
	return nil
}

// GetByID retrieves an admin by ID
func (r *AdminRepository) GetByID(ctx context.Context, id int64) (*models.Admin, error) {
	a, err := scanAdmin(r.db.QueryRow(ctx, adminSelect+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAdminNotFound
		}
		return nil, fmt.Errorf("error retrieving admin: %w", err)
	}
	return a, nil
}

// GetByEmail retrieves an admin by email
func (r *AdminRepository) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	a, err := scanAdmin(r.db.QueryRow(ctx, adminSelect+` WHERE email = $1`, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAdminNotFound
		}
		return nil, fmt.Errorf("error retrieving admin: %w", err)
	}
	return a, nil
}

// List returns admins newest first, and the total count
func (r *AdminRepository) List(ctx context.Context, page Page) ([]models.Admin, int64, error) {
	sql, args, err := page.apply(builder().Select("id", "name", "email", "password", "created_at", "updated_at").
		From("admins").OrderBy("created_at DESC", "id DESC")).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build admin list query: %w", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing admins: %w", err)
	}
	defer rows.Close()

	var admins []models.Admin
	for rows.Next() {
		a, err := scanAdmin(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning admin: %w", err)
		}
		admins = append(admins, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	total, err := r.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	return admins, total, nil
}

// Update writes the editable profile fields
func (r *AdminRepository) Update(ctx context.Context, a *models.Admin) error {
	err := r.db.QueryRow(ctx, `
		UPDATE admins SET name = $2, email = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`, a.ID, a.Name, a.Email).Scan(&a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrAdminNotFound
		}
		if dberrors.IsDuplicateConstraintError(err, "admins_email_key") {
			return apperrors.ErrEmailAlreadyExists
		}
		return fmt.Errorf("error updating admin: %w", err)
	}
	return nil
}

// Delete removes an admin
func (r *AdminRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM admins WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting admin: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrAdminNotFound
	}
	return nil
}

// Count returns the number of admins
func (r *AdminRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM admins`).Scan(&n); err != nil {
		return 0, fmt.Errorf("error counting admins: %w", err)
	}
	return n, nil
}
