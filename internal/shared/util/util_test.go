package util

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashUserKey(t *testing.T) {
	got := HashUserKey("guest:tab-1")
	assert.Equal(t, got, HashUserKey("guest:tab-1"))
	assert.Len(t, got, 64)
	assert.NotEqual(t, got, HashUserKey("guest:tab-2"))
}

func TestSanitizeFileName(t *testing.T) {
	got, err := SanitizeFileName(" reports/Ada_Resume.pdf ")
	require.NoError(t, err)
	assert.Equal(t, "reports_Ada_Resume.pdf", got)

	_, err = SanitizeFileName("../etc/passwd")
	assert.Error(t, err)
	_, err = SanitizeFileName("   ")
	assert.Error(t, err)
}

func TestSniffKeepsWholeStream(t *testing.T) {
	body := "%PDF-1.3\n" + strings.Repeat("x", 1000)
	r, contentType, err := Sniff(strings.NewReader(body))
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", contentType)

	all, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, body, string(all))
}
