package wizards

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-builder/internal/shared/server/middleware"
	"resume-builder/resume/generation"
)

type apiClient struct {
	t      *testing.T
	router *gin.Engine
	guest  string
}

func newAPI(t *testing.T, gen generation.Generator) (*apiClient, *Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc := newTestService(gen, nil)
	r := gin.New()
	api := r.Group("/api/v1")
	api.Use(middleware.Auth())
	NewHandler(svc, nil).RegisterRoutes(api)
	return &apiClient{t: t, router: r, guest: "g1"}, svc
}

func (a *apiClient) do(method, path string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, "/api/v1"+path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if a.guest != "" {
		req.Header.Set(middleware.GuestHeader, a.guest)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decodeState(t *testing.T, w *httptest.ResponseRecorder) StateResponse {
	t.Helper()
	var st StateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &st))
	return st
}

type errorEnvelope struct {
	Error struct {
		Code    string          `json:"code"`
		Message string          `json:"message"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorEnvelope {
	t.Helper()
	var env errorEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestWizardEndToEnd(t *testing.T) {
	api, svc := newAPI(t, stubPDF)

	w := api.do(http.MethodPost, "/wizards", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	st := decodeState(t, w)
	id := st.ID
	require.Len(t, st.Document.Education, 1)
	eduID := st.Document.Education[0].ID
	assert.Equal(t, 7, st.Indicator.Total)

	// Empty personal info blocks the first transition.
	w = api.do(http.MethodPost, "/wizards/"+id+"/next", nil)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	env := decodeError(t, w)
	assert.Equal(t, "step_invalid", env.Error.Code)
	assert.Contains(t, string(env.Error.Details), "personalInfo.fullName")

	w = api.do(http.MethodPut, "/wizards/"+id+"/steps/0", map[string]any{
		"personalInfo": map[string]string{"fullName": "Ada  Lovelace", "email": "ada@example.com", "phone": "+44 20 7946 0000"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, http.StatusOK, api.do(http.MethodPost, "/wizards/"+id+"/next", nil).Code)

	api.do(http.MethodPut, "/wizards/"+id+"/steps/1", map[string]any{
		"objective": "Design general-purpose computing machines and the programs that run on them.",
	})
	require.Equal(t, http.StatusOK, api.do(http.MethodPost, "/wizards/"+id+"/next", nil).Code)

	w = api.do(http.MethodPatch, "/wizards/"+id+"/education/"+eduID, map[string]any{
		"degree": "BSc Mathematics", "institution": "University of London", "gradeValue": "3.9",
		"gradeType": "GPA", "startDate": "2019-09", "endDate": "2023-06",
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, http.StatusOK, api.do(http.MethodPost, "/wizards/"+id+"/next", nil).Code)

	w = api.do(http.MethodPost, "/wizards/"+id+"/projects", map[string]any{"title": "Analytical Engine", "description": "Notes."})
	require.Equal(t, http.StatusCreated, w.Code)
	var created createdItemResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	w = api.do(http.MethodPost, "/wizards/"+id+"/projects/"+created.ItemID+"/tech", map[string]any{"value": "Brass"})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, http.StatusOK, api.do(http.MethodPost, "/wizards/"+id+"/next", nil).Code)

	w = api.do(http.MethodPost, "/wizards/"+id+"/experience", map[string]any{
		"role": "Analyst", "company": "Babbage & Co", "startDate": "2023-07", "endDate": "2024-01", "isCurrent": true,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Empty(t, created.State.Document.Experience[0].EndDate)
	w = api.do(http.MethodPost, "/wizards/"+id+"/experience/"+created.ItemID+"/responsibilities", map[string]any{"text": "  Wrote the first algorithm "})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, http.StatusOK, api.do(http.MethodPost, "/wizards/"+id+"/next", nil).Code)

	require.Equal(t, http.StatusOK, api.do(http.MethodPost, "/wizards/"+id+"/skills", map[string]any{"skill": "Go"}).Code)
	w = api.do(http.MethodPost, "/wizards/"+id+"/skills", map[string]any{"skill": "Go"})
	var changed changedResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &changed))
	assert.False(t, changed.Changed)
	assert.Equal(t, []string{"Go"}, changed.State.Document.Skills)

	w = api.do(http.MethodPost, "/wizards/"+id+"/next", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 6, decodeState(t, w).Step)

	w = api.do(http.MethodPost, "/wizards/"+id+"/generation", nil)
	require.Equal(t, http.StatusAccepted, w.Code)

	sess, err := svc.Get(context.Background(), "guest:g1", id)
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, sess.Job.Wait(ctx))

	// Input stays locked while the result is shown.
	w = api.do(http.MethodPost, "/wizards/"+id+"/prev", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = api.do(http.MethodGet, "/wizards/"+id+"/generation", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var snap generation.Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.Equal(t, generation.StatusSucceeded, snap.Status)
	assert.Equal(t, 100, snap.Progress)

	w = api.do(http.MethodGet, "/wizards/"+id+"/generation/download", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="Ada_Lovelace_Resume.pdf"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "%PDF-1.4 Ada  Lovelace", w.Body.String())

	w = api.do(http.MethodDelete, "/wizards/"+id+"/generation", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, "/wizards/"+id+"/generation/download", nil).Code)
	assert.Equal(t, http.StatusOK, api.do(http.MethodPost, "/wizards/"+id+"/prev", nil).Code)
}

func TestGotoValidation(t *testing.T) {
	api, _ := newAPI(t, stubPDF)
	id := decodeState(t, api.do(http.MethodPost, "/wizards", nil)).ID

	w := api.do(http.MethodPost, "/wizards/"+id+"/goto", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "validation_error", decodeError(t, w).Error.Code)

	w = api.do(http.MethodPost, "/wizards/"+id+"/goto", map[string]any{"target": 9})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_step", decodeError(t, w).Error.Code)

	w = api.do(http.MethodPost, "/wizards/"+id+"/goto", map[string]any{"target": 3})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = api.do(http.MethodPost, "/wizards/"+id+"/goto", map[string]any{"target": 0})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSessionIsolation(t *testing.T) {
	api, _ := newAPI(t, stubPDF)
	id := decodeState(t, api.do(http.MethodPost, "/wizards", nil)).ID

	api.guest = "someone-else"
	assert.Equal(t, http.StatusForbidden, api.do(http.MethodGet, "/wizards/"+id, nil).Code)
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, "/wizards/does-not-exist", nil).Code)

	api.guest = ""
	assert.Equal(t, http.StatusUnauthorized, api.do(http.MethodGet, "/wizards/"+id, nil).Code)
}

func TestSubmitBeforeLastStep(t *testing.T) {
	api, _ := newAPI(t, stubPDF)
	id := decodeState(t, api.do(http.MethodPost, "/wizards", nil)).ID

	w := api.do(http.MethodPost, "/wizards/"+id+"/generation", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "not_final_step", decodeError(t, w).Error.Code)
}

func TestCollectionErrors(t *testing.T) {
	api, _ := newAPI(t, stubPDF)
	id := decodeState(t, api.do(http.MethodPost, "/wizards", nil)).ID

	w := api.do(http.MethodDelete, "/wizards/"+id+"/projects/project-99", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "item_not_found", decodeError(t, w).Error.Code)

	w = api.do(http.MethodPost, "/wizards/"+id+"/education", map[string]any{"gradeType": "percent"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, string(decodeError(t, w).Error.Details), "gradeType")

	w = api.do(http.MethodPost, "/wizards/"+id+"/experience", map[string]any{"role": "Dev"})
	require.Equal(t, http.StatusCreated, w.Code)
	var created createdItemResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	w = api.do(http.MethodDelete, "/wizards/"+id+"/experience/"+created.ItemID+"/responsibilities/0", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSkillSuggestionsAndValidation(t *testing.T) {
	api, _ := newAPI(t, stubPDF)
	id := decodeState(t, api.do(http.MethodPost, "/wizards", nil)).ID
	api.do(http.MethodPost, "/wizards/"+id+"/skills", map[string]any{"skill": "JavaScript"})

	w := api.do(http.MethodGet, "/wizards/"+id+"/skills/suggestions", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Suggestions []string `json:"suggestions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotContains(t, body.Suggestions, "JavaScript")
	assert.NotEmpty(t, body.Suggestions)

	w = api.do(http.MethodGet, "/wizards/"+id+"/validation", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var report struct {
		Valid bool              `json:"valid"`
		Steps []json.RawMessage `json:"steps"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.False(t, report.Valid)
	assert.Len(t, report.Steps, 7)
}

func TestDiscardSession(t *testing.T) {
	api, _ := newAPI(t, stubPDF)
	id := decodeState(t, api.do(http.MethodPost, "/wizards", nil)).ID

	assert.Equal(t, http.StatusNoContent, api.do(http.MethodDelete, "/wizards/"+id, nil).Code)
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, "/wizards/"+id, nil).Code)
}
