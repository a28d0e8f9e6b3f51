package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tce-csbs/participation-portal/internal/app/controllers"
	"github.com/tce-csbs/participation-portal/internal/app/models"
	"github.com/tce-csbs/participation-portal/internal/middleware"
	"github.com/tce-csbs/participation-portal/internal/pkg/auth"
)

// hackathonStub answers the read-only listings; anything else panics on the nil embedded interface
type hackathonStub struct {
	controllers.HackathonService
}

func (hackathonStub) ListAccepted(context.Context) ([]models.Hackathon, error) {
	return []models.Hackathon{{ID: 1, Title: "CodeFest", Status: models.HackathonAccepted}}, nil
}

func (hackathonStub) StatsByYear(context.Context) ([]models.HackathonYearStats, error) {
	return []models.HackathonYearStats{{Year: 2025, TotalHackathons: 1}}, nil
}

func setup(t *testing.T) (*gin.Engine, *auth.JWTService) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:      "routes-test-secret",
		AccessTokenExp: time.Hour,
		TokenIssuer:    "participation-portal",
	})
	logger := zerolog.Nop()
	h := Handlers{
		Auth:        controllers.NewAuthController(nil, logger),
		Hackathons:  controllers.NewHackathonController(hackathonStub{}, nil, 1<<20, logger),
		Internships: controllers.NewInternshipController(nil, nil, 1<<20, logger),
		Admin:       controllers.NewAdminController(nil, nil, nil, nil, logger),
		Student:     controllers.NewStudentController(nil),
		Users:       controllers.NewUserController(nil, logger),
	}
	router := gin.New()
	SetupRouter(router, h, middleware.NewAuthMiddleware(jwtService))
	return router, jwtService
}

func token(t *testing.T, jwtService *auth.JWTService, id int64, role string) string {
	t.Helper()
	tok, _, err := jwtService.GenerateAccessToken(id, role+"@tce.edu", role)
	require.NoError(t, err)
	return "Bearer " + tok
}

func TestPublicListingNeedsNoToken(t *testing.T) {
	router, _ := setup(t)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/hackathons/accepted", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "CodeFest")
}

func TestCapabilityGating(t *testing.T) {
	router, jwtService := setup(t)

	tests := []struct {
		name   string
		method string
		path   string
		role   string
		want   int
	}{
		{"no token", http.MethodGet, "/api/hackathons/stats", "", http.StatusUnauthorized},
		{"student cannot read analytics", http.MethodGet, "/api/hackathons/stats", "student", http.StatusForbidden},
		{"proctor reads analytics", http.MethodGet, "/api/hackathons/stats", "proctor", http.StatusOK},
		{"admin reads analytics", http.MethodGet, "/api/hackathons/stats", "admin", http.StatusOK},
		{"proctor cannot submit", http.MethodPost, "/api/hackathons/submit", "proctor", http.StatusForbidden},
		{"admin cannot review", http.MethodPut, "/api/hackathons/1/status", "admin", http.StatusForbidden},
		{"student cannot review", http.MethodPut, "/api/internships/1/status", "student", http.StatusForbidden},
		{"proctor cannot manage users", http.MethodGet, "/api/users/students", "proctor", http.StatusForbidden},
		{"student cannot send alerts", http.MethodPost, "/api/admin/send-alerts", "student", http.StatusForbidden},
		{"proctor cannot export", http.MethodGet, "/api/admin/hackathons/export", "proctor", http.StatusForbidden},
		{"admin has no credits", http.MethodGet, "/api/student/credits", "admin", http.StatusForbidden},
		{"unknown role", http.MethodGet, "/api/hackathons/stats", "guest", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.role != "" {
				req.Header.Set("Authorization", token(t, jwtService, 7, tt.role))
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestMalformedToken(t *testing.T) {
	router, _ := setup(t)
	req := httptest.NewRequest(http.MethodGet, "/api/hackathons/stats", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
