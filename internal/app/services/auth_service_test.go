package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tce-csbs/participation-portal/internal/app/auth"
	"github.com/tce-csbs/participation-portal/internal/app/models"
	"github.com/tce-csbs/participation-portal/internal/app/models/dto"
	"github.com/tce-csbs/participation-portal/internal/pkg/apperrors"
	pkgauth "github.com/tce-csbs/participation-portal/internal/pkg/auth"
)

func newAuthFixture(t *testing.T) (*AuthService, *fakeDB, *recordingNotifier, *pkgauth.JWTService) {
	t.Helper()
	db := newFakeDB()
	notifier := &recordingNotifier{}
	jwtService := pkgauth.NewJWTService(pkgauth.JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenExp: time.Hour,
		TokenIssuer:    "participation-portal",
	})
	return NewAuthService(db.stores(), jwtService, notifier, "student.tce.edu", zerolog.Nop()), db, notifier, jwtService
}

func registerRequest() *dto.RegisterStudentRequest {
	return &dto.RegisterStudentRequest{
		Name:       " Asha R ",
		Email:      "Asha@Student.TCE.edu",
		Password:   "Passw0rd!",
		RegisterNo: "21cb001",
		Department: "CSBS",
		Year:       "3",
	}
}

func TestRegisterStudent(t *testing.T) {
	svc, db, notifier, _ := newAuthFixture(t)

	st, err := svc.RegisterStudent(context.Background(), registerRequest())
	require.NoError(t, err)
	assert.Equal(t, "Asha R", st.Name)
	assert.Equal(t, "asha@student.tce.edu", st.Email)
	assert.Equal(t, "21CB001", st.RegisterNo)
	assert.Zero(t, st.Credits)
	assert.NotEqual(t, "Passw0rd!", st.Password)
	assert.True(t, pkgauth.CheckPassword(st.Password, "Passw0rd!"))
	assert.Equal(t, st.Email, db.student(st.ID).Email)
	assert.Equal(t, []string{"welcome"}, notifier.templates())
}

func TestRegisterStudent_RejectsForeignDomain(t *testing.T) {
	svc, db, _, _ := newAuthFixture(t)
	req := registerRequest()
	req.Email = "asha@gmail.com"

	_, err := svc.RegisterStudent(context.Background(), req)
	require.ErrorIs(t, err, apperrors.ErrInvalidEmail)
	assert.Equal(t, "Only student.tce.edu emails are allowed.", apperrors.Message(err, ""))
	n, _ := db.stores().Students.Count(context.Background())
	assert.Zero(t, n)
}

func TestRegisterStudent_Duplicates(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)
	ctx := context.Background()
	_, err := svc.RegisterStudent(ctx, registerRequest())
	require.NoError(t, err)

	_, err = svc.RegisterStudent(ctx, registerRequest())
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)

	req := registerRequest()
	req.Email = "bala@student.tce.edu"
	_, err = svc.RegisterStudent(ctx, req)
	assert.ErrorIs(t, err, apperrors.ErrRegisterNoExists)
}

func TestRegisterStudent_WelcomeFailureStillRegisters(t *testing.T) {
	svc, _, notifier, _ := newAuthFixture(t)
	notifier.failAll = true

	st, err := svc.RegisterStudent(context.Background(), registerRequest())
	require.NoError(t, err)
	assert.NotZero(t, st.ID)
}

func TestLogin(t *testing.T) {
	svc, db, _, jwtService := newAuthFixture(t)
	ctx := context.Background()
	_, err := svc.RegisterStudent(ctx, registerRequest())
	require.NoError(t, err)

	hash, err := pkgauth.HashPassword("Proct0r!pass")
	require.NoError(t, err)
	require.NoError(t, db.stores().Proctors.Create(ctx, &models.Proctor{
		Name: "Meena", Email: "meena@tce.edu", Password: hash, Department: "CSBS",
	}))

	resp, err := svc.Login(ctx, auth.RoleStudent, &dto.LoginRequest{Email: "ASHA@student.tce.edu", Password: "Passw0rd!"})
	require.NoError(t, err)
	assert.Equal(t, "student", resp.Role)
	assert.Equal(t, 3600, resp.ExpiresIn)
	claims, err := jwtService.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "student", claims.Role)
	assert.Equal(t, "asha@student.tce.edu", claims.Email)

	resp, err = svc.Login(ctx, auth.RoleProctor, &dto.LoginRequest{Email: "meena@tce.edu", Password: "Proct0r!pass"})
	require.NoError(t, err)
	assert.Equal(t, "proctor", resp.Role)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)
	ctx := context.Background()
	_, err := svc.RegisterStudent(ctx, registerRequest())
	require.NoError(t, err)

	_, err = svc.Login(ctx, auth.RoleStudent, &dto.LoginRequest{Email: "asha@student.tce.edu", Password: "wrong"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = svc.Login(ctx, auth.RoleStudent, &dto.LoginRequest{Email: "nobody@student.tce.edu", Password: "Passw0rd!"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	// a student account cannot sign in through the admin login
	_, err = svc.Login(ctx, auth.RoleAdmin, &dto.LoginRequest{Email: "asha@student.tce.edu", Password: "Passw0rd!"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = svc.Login(ctx, auth.Role("guest"), &dto.LoginRequest{Email: "asha@student.tce.edu", Password: "Passw0rd!"})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}
