package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	appModels "github.com/tce-csbs/participation-portal/internal/app/models"
	"github.com/tce-csbs/participation-portal/internal/pkg/apperrors"
	"github.com/tce-csbs/participation-portal/internal/pkg/auth"
)

// AdminAccounts is the part of the admin store the seeder needs
type AdminAccounts interface {
	GetByEmail(ctx context.Context, email string) (*appModels.Admin, error)
	Create(ctx context.Context, a *appModels.Admin) error
}

// ProctorAccounts is the part of the proctor store the seeder needs
type ProctorAccounts interface {
	GetByEmail(ctx context.Context, email string) (*appModels.Proctor, error)
	Create(ctx context.Context, p *appModels.Proctor) error
}

// Defaults describes the accounts created on first start
type Defaults struct {
	AdminName         string
	AdminEmail        string
	AdminPassword     string
	ProctorName       string
	ProctorEmail      string
	ProctorPassword   string
	ProctorDepartment string
}

// CreateDefaultData creates the default admin and proctor if they don't exist.
// Every account is attempted; failures are joined into the returned error.
func CreateDefaultData(ctx context.Context, admins AdminAccounts, proctors ProctorAccounts, d Defaults, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating default accounts...")
	var finalErr error

	if err := ensureAdmin(ctx, admins, d, lgr); err != nil {
		lgr.Error().Err(err).Str("email", d.AdminEmail).Msg("Error creating default admin")
		finalErr = errors.Join(finalErr, err)
	}
	if err := ensureProctor(ctx, proctors, d, lgr); err != nil {
		lgr.Error().Err(err).Str("email", d.ProctorEmail).Msg("Error creating default proctor")
		finalErr = errors.Join(finalErr, err)
	}

	return finalErr
}

func ensureAdmin(ctx context.Context, admins AdminAccounts, d Defaults, lgr zerolog.Logger) error {
	email := strings.ToLower(strings.TrimSpace(d.AdminEmail))
	if email == "" {
		return nil
	}
	_, err := admins.GetByEmail(ctx, email)
	if err == nil {
		lgr.Debug().Str("email", email).Msg("Default admin already exists")
		return nil
	}
	if !errors.Is(err, apperrors.ErrAdminNotFound) {
		return err
	}

	hash, err := auth.HashPassword(d.AdminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}
	admin := &appModels.Admin{Name: d.AdminName, Email: email, Password: hash}
	if err := admins.Create(ctx, admin); err != nil && !errors.Is(err, apperrors.ErrEmailAlreadyExists) {
		return err
	}
	lgr.Info().Str("email", email).Msg("Default admin created")
	return nil
}

func ensureProctor(ctx context.Context, proctors ProctorAccounts, d Defaults, lgr zerolog.Logger) error {
	email := strings.ToLower(strings.TrimSpace(d.ProctorEmail))
	if email == "" {
		return nil
	}
	_, err := proctors.GetByEmail(ctx, email)
	if err == nil {
		lgr.Debug().Str("email", email).Msg("Default proctor already exists")
		return nil
	}
	if !errors.Is(err, apperrors.ErrProctorNotFound) {
		return err
	}

	hash, err := auth.HashPassword(d.ProctorPassword)
	if err != nil {
		return fmt.Errorf("failed to hash proctor password: %w", err)
	}
	proctor := &appModels.Proctor{Name: d.ProctorName, Email: email, Password: hash, Department: d.ProctorDepartment}
	if err := proctors.Create(ctx, proctor); err != nil && !errors.Is(err, apperrors.ErrEmailAlreadyExists) {
		return err
	}
	lgr.Info().Str("email", email).Str("department", d.ProctorDepartment).Msg("Default proctor created")
	return nil
}
