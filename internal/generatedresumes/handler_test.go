package generatedresumes_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-builder/internal/generatedresumes"
	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/storage/object/local"
)

var pdf = []byte("%PDF-1.4\n%%EOF\n")

func newArchiveRouter(t *testing.T) (*gin.Engine, *generatedresumes.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc := &generatedresumes.Service{
		Repo:  generatedresumes.NewMemoryRepo(),
		Store: local.New(t.TempDir()),
	}
	r := gin.New()
	api := r.Group("/api/v1")
	api.Use(middleware.Auth())
	generatedresumes.NewHandler(svc).RegisterRoutes(api)
	return r, svc
}

func get(r http.Handler, path, guest string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if guest != "" {
		req.Header.Set(middleware.GuestHeader, guest)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestDownloadOwn(t *testing.T) {
	r, svc := newArchiveRouter(t)
	rec, err := svc.Archive(context.Background(), generatedresumes.Owner{UserID: "guest:g1"}, "Ada", "Ada_Resume.pdf", pdf)
	require.NoError(t, err)

	w := get(r, "/api/v1/generated-resumes/"+rec.ID+"/download", "g1")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="Ada_Resume.pdf"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, pdf, w.Body.Bytes())
}

func TestDownloadForbiddenAndMissing(t *testing.T) {
	r, svc := newArchiveRouter(t)
	rec, err := svc.Archive(context.Background(), generatedresumes.Owner{UserID: "guest:owner"}, "Ada", "Ada_Resume.pdf", pdf)
	require.NoError(t, err)

	w := get(r, "/api/v1/generated-resumes/"+rec.ID+"/download", "intruder")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, w.Header().Get("Content-Disposition"))
	assert.Contains(t, w.Body.String(), "access denied")

	w = get(r, "/api/v1/generated-resumes/nope/download", "owner")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListRequiresIdentity(t *testing.T) {
	r, _ := newArchiveRouter(t)
	w := get(r, "/api/v1/generated-resumes", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListOwn(t *testing.T) {
	r, svc := newArchiveRouter(t)
	_, err := svc.Archive(context.Background(), generatedresumes.Owner{UserID: "guest:g1", SessionID: "s1"}, "Ada", "Ada_Resume.pdf", pdf)
	require.NoError(t, err)
	_, err = svc.Archive(context.Background(), generatedresumes.Owner{UserID: "guest:g2"}, "Bob", "Bob_Resume.pdf", pdf)
	require.NoError(t, err)

	w := get(r, "/api/v1/generated-resumes?limit=5", "g1")
	require.Equal(t, http.StatusOK, w.Code)
	var items []generatedresumes.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "Ada_Resume.pdf", items[0].FileName)
	assert.Equal(t, "s1", items[0].SessionID)
}
