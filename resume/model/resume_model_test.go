package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDocumentSeedsOneBlankEducation(t *testing.T) {
	doc := NewDocument()
	require.Len(t, doc.Education, 1)
	assert.Equal(t, GradeCGPA, doc.Education[0].GradeType)
	assert.Empty(t, doc.Projects)
	assert.Empty(t, doc.Skills)
}

func TestCloneIsDeep(t *testing.T) {
	doc := NewDocument()
	doc.Projects = []Project{{ID: "project-1", TechStack: []string{"Go"}}}
	doc.Experience = []Experience{{ID: "experience-1", Responsibilities: []string{"ship"}}}
	doc.Skills = []string{"Go"}

	clone := doc.Clone()
	clone.Projects[0].TechStack[0] = "Rust"
	clone.Experience[0].Responsibilities[0] = "break"
	clone.Skills[0] = "Rust"
	clone.Education[0].Degree = "BSc"

	assert.Equal(t, "Go", doc.Projects[0].TechStack[0])
	assert.Equal(t, "ship", doc.Experience[0].Responsibilities[0])
	assert.Equal(t, "Go", doc.Skills[0])
	assert.Empty(t, doc.Education[0].Degree)
}

func TestNormalizeClearsEndDateForCurrentRole(t *testing.T) {
	doc := ResumeDocument{
		Education:  []Education{{}},
		Experience: []Experience{{EndDate: "2024-01", IsCurrent: true}},
	}
	doc.Normalize()
	assert.Empty(t, doc.Experience[0].EndDate)
	assert.Equal(t, GradeCGPA, doc.Education[0].GradeType)
	assert.NotNil(t, doc.Skills)
}

func TestParseGradeType(t *testing.T) {
	got, err := ParseGradeType(" gpa ")
	require.NoError(t, err)
	assert.Equal(t, GradeGPA, got)
	assert.Equal(t, 4.0, got.MaxGrade())

	got, err = ParseGradeType("")
	require.NoError(t, err)
	assert.Equal(t, GradeCGPA, got)

	_, err = ParseGradeType("percent")
	assert.ErrorIs(t, err, ErrInvalidGradeType)
}

func TestDocumentJSONFieldNames(t *testing.T) {
	payload, err := json.Marshal(NewDocument())
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(payload, &raw))
	for _, key := range []string{"personalInfo", "objective", "education", "projects", "experience", "skills", "certifications"} {
		assert.Contains(t, raw, key)
	}
	info := raw["personalInfo"].(map[string]any)
	for _, key := range []string{"fullName", "email", "phone", "githubLink", "linkedinProfile"} {
		assert.Contains(t, info, key)
	}
}
