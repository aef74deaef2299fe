package generator

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-builder/resume/generation"
	"resume-builder/resume/model"
)

func sampleDoc() model.ResumeDocument {
	doc := model.NewDocument()
	doc.PersonalInfo = model.PersonalInfo{FullName: "Ada Lovelace", Email: "ada@example.com", Phone: "+44 20 7946 0000"}
	doc.Objective = "Build analytical engines that turn careful notes into working programs."
	doc.Skills = []string{"Go"}
	return doc
}

func newServiceRouter(gen generation.Generator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(gen).RegisterRoutes(r.Group("/api"))
	return r
}

func TestLocalRendersPDF(t *testing.T) {
	data, err := NewLocal().Generate(context.Background(), sampleDoc())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF-"))
}

func TestLocalHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewLocal().Generate(ctx, sampleDoc())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHandlerGenerate(t *testing.T) {
	r := newServiceRouter(NewLocal())
	body, _ := json.Marshal(sampleDoc())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/generate-resume", strings.NewReader(string(body)))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="Ada_Lovelace_Resume.pdf"`, w.Header().Get("Content-Disposition"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "%PDF-"))
}

func TestHandlerRejectsUndecodableBody(t *testing.T) {
	r := newServiceRouter(NewLocal())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/generate-resume", strings.NewReader("{not json")))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"invalid_json"`)
}

func TestHandlerRenderFailure(t *testing.T) {
	failing := generation.GeneratorFunc(func(context.Context, model.ResumeDocument) ([]byte, error) {
		return nil, errors.New("font missing")
	})
	r := newServiceRouter(failing)
	body, _ := json.Marshal(sampleDoc())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/generate-resume", strings.NewReader(string(body))))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var env struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, "render_failed", env.Error.Code)
	assert.Equal(t, "Error generating PDF", env.Error.Message)
}

func TestHandlerHealth(t *testing.T) {
	r := newServiceRouter(NewLocal())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
}

func TestRemoteAgainstService(t *testing.T) {
	srv := httptest.NewServer(newServiceRouter(NewLocal()))
	defer srv.Close()

	client, err := NewRemote(srv.URL+"/", time.Second)
	require.NoError(t, err)

	data, err := client.Generate(context.Background(), sampleDoc())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF-"))
}

func TestRemoteSendsDocumentJSON(t *testing.T) {
	var got model.ResumeDocument
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, GeneratePath, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &got)
		_, _ = w.Write([]byte("%PDF-1.4 stub"))
	}))
	defer srv.Close()

	client, err := NewRemote(srv.URL, time.Second)
	require.NoError(t, err)
	_, err = client.Generate(context.Background(), sampleDoc())
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", got.PersonalInfo.FullName)
	assert.Equal(t, []string{"Go"}, got.Skills)
}

func TestRemoteNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"detail":"upstream"}`))
	}))
	defer srv.Close()

	client, err := NewRemote(srv.URL, time.Second)
	require.NoError(t, err)
	_, err = client.Generate(context.Background(), sampleDoc())
	require.ErrorIs(t, err, ErrUnexpectedStatus)
	assert.Contains(t, err.Error(), "502")
}

func TestNewRemoteRequiresURL(t *testing.T) {
	_, err := NewRemote("  ", time.Second)
	assert.Error(t, err)
}
