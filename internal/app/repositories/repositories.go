package repositories

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is satisfied by *pgxpool.Pool and pgx.Tx
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Page selects a window of a listing
type Page struct {
	Offset uint64
	Limit  int
}

func (p Page) apply(q squirrel.SelectBuilder) squirrel.SelectBuilder {
	if p.Limit > 0 {
		q = q.Limit(uint64(p.Limit)).Offset(p.Offset)
	}
	return q
}

// Repositories holds all the repository instances
type Repositories struct {
	Students    *StudentRepository
	Proctors    *ProctorRepository
	Admins      *AdminRepository
	Hackathons  *HackathonRepository
	Internships *InternshipRepository
}

// NewRepositories initializes all repositories over db, which may be a pool or a transaction
func NewRepositories(db DBTX) *Repositories {
	return &Repositories{
		Students:    NewStudentRepository(db),
		Proctors:    NewProctorRepository(db),
		Admins:      NewAdminRepository(db),
		Hackathons:  NewHackathonRepository(db),
		Internships: NewInternshipRepository(db),
	}
}

func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}
