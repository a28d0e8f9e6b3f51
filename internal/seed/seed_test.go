package seed

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appModels "github.com/tce-csbs/participation-portal/internal/app/models"
	"github.com/tce-csbs/participation-portal/internal/pkg/apperrors"
	"github.com/tce-csbs/participation-portal/internal/pkg/auth"
)

type memAdmins struct {
	byEmail map[string]*appModels.Admin
	getErr  error
}

func (m *memAdmins) GetByEmail(_ context.Context, email string) (*appModels.Admin, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if a, ok := m.byEmail[email]; ok {
		return a, nil
	}
	return nil, apperrors.ErrAdminNotFound
}

func (m *memAdmins) Create(_ context.Context, a *appModels.Admin) error {
	a.ID = int64(len(m.byEmail) + 1)
	m.byEmail[a.Email] = a
	return nil
}

type memProctors struct {
	byEmail map[string]*appModels.Proctor
}

func (m *memProctors) GetByEmail(_ context.Context, email string) (*appModels.Proctor, error) {
	if p, ok := m.byEmail[email]; ok {
		return p, nil
	}
	return nil, apperrors.ErrProctorNotFound
}

func (m *memProctors) Create(_ context.Context, p *appModels.Proctor) error {
	p.ID = int64(len(m.byEmail) + 1)
	m.byEmail[p.Email] = p
	return nil
}

var defaults = Defaults{
	AdminName: "Admin", AdminEmail: "Admin@Portal.com", AdminPassword: "adminpassword",
	ProctorName: "Default Proctor", ProctorEmail: "proctor@portal.com", ProctorPassword: "proctorpassword",
	ProctorDepartment: "CSBS",
}

func TestCreateDefaultData(t *testing.T) {
	admins := &memAdmins{byEmail: map[string]*appModels.Admin{}}
	proctors := &memProctors{byEmail: map[string]*appModels.Proctor{}}

	require.NoError(t, CreateDefaultData(context.Background(), admins, proctors, defaults, zerolog.Nop()))

	admin := admins.byEmail["admin@portal.com"]
	require.NotNil(t, admin)
	assert.True(t, auth.CheckPassword(admin.Password, "adminpassword"))

	proctor := proctors.byEmail["proctor@portal.com"]
	require.NotNil(t, proctor)
	assert.Equal(t, "CSBS", proctor.Department)

	// second start leaves the accounts alone
	require.NoError(t, CreateDefaultData(context.Background(), admins, proctors, defaults, zerolog.Nop()))
	assert.Len(t, admins.byEmail, 1)
	assert.Same(t, admin, admins.byEmail["admin@portal.com"])
}

func TestCreateDefaultData_ContinuesAfterFailure(t *testing.T) {
	admins := &memAdmins{byEmail: map[string]*appModels.Admin{}, getErr: errors.New("connection refused")}
	proctors := &memProctors{byEmail: map[string]*appModels.Proctor{}}

	err := CreateDefaultData(context.Background(), admins, proctors, defaults, zerolog.Nop())
	assert.Error(t, err)
	assert.Contains(t, proctors.byEmail, "proctor@portal.com")
}
