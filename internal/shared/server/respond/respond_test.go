package respond

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x", func(c *gin.Context) {
		Error(c, http.StatusUnprocessableEntity, "step_invalid", "Personal Info is incomplete", []string{"personalInfo.email"})
	})
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "step_invalid", body.Error.Code)
	assert.Equal(t, "Personal Info is incomplete", body.Error.Message)
	assert.NotNil(t, body.Error.Details)
}

func TestAttachment(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/pdf", func(c *gin.Context) {
		Attachment(c, "Ada_Lovelace_Resume.pdf", "application/pdf", []byte("%PDF-1.3"))
	})
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/pdf", nil))

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "application/pdf", resp.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="Ada_Lovelace_Resume.pdf"`, resp.Header().Get("Content-Disposition"))
	assert.Equal(t, "%PDF-1.3", resp.Body.String())
}
