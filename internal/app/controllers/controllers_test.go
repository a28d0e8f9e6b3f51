package controllers

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/tce-csbs/participation-portal/internal/app/auth"
	"github.com/tce-csbs/participation-portal/internal/app/models/dto"
	"github.com/tce-csbs/participation-portal/internal/middleware"
)

var (
	student = auth.Actor{ID: 1, Role: auth.RoleStudent, Email: "asha@student.tce.edu"}
	proctor = auth.Actor{ID: 2, Role: auth.RoleProctor, Email: "meena@tce.edu"}
	admin   = auth.Actor{ID: 3, Role: auth.RoleAdmin, Email: "admin@tce.edu"}
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := middleware.RegisterValidators(); err != nil {
		panic(err)
	}
}

// newRouter returns an engine whose requests carry actor, or no actor when nil
func newRouter(actor *auth.Actor) *gin.Engine {
	r := gin.New()
	if actor != nil {
		r.Use(func(c *gin.Context) {
			c.Set(middleware.ContextActor, *actor)
			c.Next()
		})
	}
	return r
}

func serve(r http.Handler, method, target string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func serveJSON(r http.Handler, method, target string, payload interface{}) *httptest.ResponseRecorder {
	if payload == nil {
		return serve(r, method, target, nil, "")
	}
	raw, _ := json.Marshal(payload)
	return serve(r, method, target, bytes.NewReader(raw), "application/json")
}

// multipartBody builds a form with the given fields and in-memory files keyed by part name
func multipartBody(t *testing.T, fields map[string]string, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for part, name := range files {
		fw, err := w.CreateFormFile(part, name)
		require.NoError(t, err)
		_, err = io.Copy(fw, strings.NewReader("content of "+name))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

type envelope struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	Data    json.RawMessage  `json:"data"`
	Error   *dto.ErrorDetail `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func nopLogger() zerolog.Logger {
	return zerolog.Nop()
}
