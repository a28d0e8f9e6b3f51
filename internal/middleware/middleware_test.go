package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appauth "github.com/tce-csbs/participation-portal/internal/app/auth"
	"github.com/tce-csbs/participation-portal/internal/app/models/dto"
	"github.com/tce-csbs/participation-portal/internal/pkg/apperrors"
	"github.com/tce-csbs/participation-portal/internal/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newJWT(exp time.Duration) *auth.JWTService {
	return auth.NewJWTService(auth.JWTConfig{SecretKey: "test-secret", AccessTokenExp: exp, TokenIssuer: "test"})
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func protectedRouter(jwtService *auth.JWTService, caps ...appauth.Capability) *gin.Engine {
	m := NewAuthMiddleware(jwtService)
	r := gin.New()
	handlers := []gin.HandlerFunc{m.JWTAuth()}
	if len(caps) > 0 {
		handlers = append(handlers, m.RequireCapability(caps...))
	}
	handlers = append(handlers, func(c *gin.Context) {
		actor, ok := ActorFrom(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": actor.ID, "role": actor.Role, "userID": c.GetInt64(ContextUserID)})
	})
	r.GET("/protected", handlers...)
	return r
}

func TestJWTAuth(t *testing.T) {
	jwtService := newJWT(time.Hour)
	token, _, err := jwtService.GenerateAccessToken(7, "meena@tce.edu", "proctor")
	require.NoError(t, err)
	router := protectedRouter(jwtService)

	tests := []struct {
		name   string
		target string
		header string
		status int
		code   dto.ErrorCode
	}{
		{"bearer header", "/protected", "Bearer " + token, http.StatusOK, ""},
		{"raw token", "/protected", token, http.StatusOK, ""},
		{"query token", "/protected?token=" + token, "", http.StatusOK, ""},
		{"missing", "/protected", "", http.StatusUnauthorized, dto.ErrorCodeUnauthorized},
		{"malformed", "/protected", "Basic abc", http.StatusUnauthorized, dto.ErrorCodeUnauthorized},
		{"bad signature", "/protected", "Bearer " + token + "x", http.StatusUnauthorized, dto.ErrorCodeInvalidToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.JSONEq(t, `{"id":7,"role":"proctor","userID":7}`, w.Body.String())
				return
			}
			assert.Equal(t, tt.code, decodeError(t, w).Error.Code)
		})
	}
}

func TestJWTAuth_Expired(t *testing.T) {
	jwtService := newJWT(-time.Minute)
	token, _, err := jwtService.GenerateAccessToken(7, "meena@tce.edu", "proctor")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	protectedRouter(jwtService).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, dto.ErrorCodeExpiredToken, decodeError(t, w).Error.Code)
}

func TestJWTAuth_UnknownRole(t *testing.T) {
	jwtService := newJWT(time.Hour)
	token, _, err := jwtService.GenerateAccessToken(7, "x@tce.edu", "superuser")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	protectedRouter(jwtService).ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireCapability(t *testing.T) {
	jwtService := newJWT(time.Hour)
	router := protectedRouter(jwtService, appauth.CapViewAnalytics)

	for role, want := range map[string]int{
		"student": http.StatusForbidden,
		"proctor": http.StatusOK,
		"admin":   http.StatusOK,
	} {
		t.Run(role, func(t *testing.T) {
			token, _, err := jwtService.GenerateAccessToken(1, role+"@tce.edu", role)
			require.NoError(t, err)
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, want, w.Code)
			if want == http.StatusForbidden {
				assert.Equal(t, dto.ErrorCodeForbidden, decodeError(t, w).Error.Code)
			}
		})
	}
}

func TestHandleAPIError(t *testing.T) {
	tests := []struct {
		err     error
		status  int
		code    dto.ErrorCode
		message string
	}{
		{apperrors.NewCustomError(apperrors.ErrReasonRequired, "Rejection reason is required when declining"),
			http.StatusBadRequest, dto.ErrorCodeReasonRequired, "Rejection reason is required when declining"},
		{apperrors.NewCustomError(apperrors.ErrInvalidStatus, "Status must be one of Pending, Accepted, Declined"),
			http.StatusBadRequest, dto.ErrorCodeInvalidStatus, "Status must be one of Pending, Accepted, Declined"},
		{apperrors.NewValidationError("Year must be positive"), http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Year must be positive"},
		{apperrors.NewCustomError(apperrors.ErrInvalidEmail, "Only @student.tce.edu emails are allowed."),
			http.StatusBadRequest, dto.ErrorCodeInvalidEmail, "Only @student.tce.edu emails are allowed."},
		{apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid credentials"},
		{apperrors.NewForbiddenError("Not authorized to update this submission"),
			http.StatusForbidden, dto.ErrorCodeForbidden, "Not authorized to update this submission"},
		{apperrors.NewCustomError(apperrors.ErrSelfDeletion, "Cannot delete your own admin account"),
			http.StatusForbidden, dto.ErrorCodeForbidden, "Cannot delete your own admin account"},
		{apperrors.ErrHackathonNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Hackathon not found"},
		{fmt.Errorf("load: %w", apperrors.ErrStudentNotFound), http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Student not found"},
		{apperrors.ErrEmailAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, ""},
		{apperrors.NewCustomError(apperrors.ErrProctorHasRecords, "Reassign first"), http.StatusConflict, dto.ErrorCodeConflict, "Reassign first"},
		{fmt.Errorf("pool closed"), http.StatusInternalServerError, dto.ErrorCodeInternalServer, "Internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			HandleAPIError(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
			resp := decodeError(t, w)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.code, resp.Error.Code)
			if tt.message != "" {
				assert.Equal(t, tt.message, resp.Error.Message)
			}
		})
	}
}

func TestRegisterValidators(t *testing.T) {
	require.NoError(t, RegisterValidators())

	r := gin.New()
	r.POST("/register", func(c *gin.Context) {
		var req dto.RegisterStudentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			RespondBindingError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})

	body := `{"name":"Asha","email":"asha@student.tce.edu","password":"weak","registerNo":"21CB001","department":"CSBS","year":"3"}`
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(body)))
	require.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, dto.ErrorCodeValidationFailed, resp.Error.Code)
	assert.Equal(t, "password", resp.Error.Field)

	body = strings.Replace(body, `"weak"`, `"Passw0rd!"`, 1)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(body)))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"http://localhost:5173/"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestIDAndLogger(t *testing.T) {
	var buf strings.Builder
	r := gin.New()
	r.Use(RequestID(), RequestLogger(zerolog.New(&buf)), Metrics())
	r.GET("/x/:id", func(c *gin.Context) { c.Status(http.StatusTeapot) })

	req := httptest.NewRequest(http.MethodGet, "/x/1", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
	assert.Contains(t, buf.String(), `"requestID":"abc-123"`)
	assert.Contains(t, buf.String(), `"level":"warn"`)
}
