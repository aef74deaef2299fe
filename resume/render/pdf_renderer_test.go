package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-builder/resume/model"
)

func sampleDocument() model.ResumeDocument {
	doc := model.NewDocument()
	doc.PersonalInfo = model.PersonalInfo{
		FullName:   "Ada Lovelace",
		Email:      "ada@example.com",
		Phone:      "+44 20 7946 0018",
		GithubLink: "https://github.com/ada",
	}
	doc.Objective = "Build reliable analytical engines and publish the first algorithms for them."
	doc.Education = []model.Education{{
		ID: "edu-1", Degree: "BSc Mathematics", Institution: "University of London",
		GradeValue: "3.9", GradeType: model.GradeGPA, StartDate: "1832", EndDate: "1835",
	}}
	doc.Projects = []model.Project{{
		ID: "project-1", Title: "Note G", Description: "Bernoulli numbers on the Analytical Engine.",
		TechStack: []string{"Punch cards"},
	}}
	doc.Experience = []model.Experience{{
		ID: "exp-1", Role: "Analyst", Company: "Babbage & Co", StartDate: "1842",
		IsCurrent: true, Responsibilities: []string{"Translated Menabrea's memoir", "Wrote notes A to G"},
	}}
	doc.Skills = []string{"Mathematics", "Programming"}
	doc.Certifications = []model.Certification{{ID: "cert-1", Name: "Fellow", Institution: "Royal Society", Year: "1840"}}
	return doc
}

func TestRenderPDFProducesReadableDocument(t *testing.T) {
	data, err := RenderPDF(sampleDocument())
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, []byte("%PDF-")))

	info, err := Inspect(data)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, info.Pages, 1)
	assert.Equal(t, len(data), info.Bytes)
}

func TestRenderPDFRequiresName(t *testing.T) {
	doc := sampleDocument()
	doc.PersonalInfo.FullName = "  "
	_, err := RenderPDF(doc)
	assert.ErrorIs(t, err, ErrMissingName)
}

func TestRenderPDFMinimalDocument(t *testing.T) {
	doc := model.NewDocument()
	doc.PersonalInfo.FullName = "Min"
	data, err := RenderPDF(doc)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestRenderPDFLongDocumentPaginates(t *testing.T) {
	doc := sampleDocument()
	for i := 0; i < 40; i++ {
		doc.Experience = append(doc.Experience, model.Experience{
			Role: "Role", Company: "Company", StartDate: "2000", EndDate: "2001",
			Responsibilities: []string{strings.Repeat("responsibility ", 20)},
		})
	}
	data, err := RenderPDF(doc)
	require.NoError(t, err)

	info, err := Inspect(data)
	require.NoError(t, err)
	assert.Greater(t, info.Pages, 1)
}

func TestInspectRejectsNonPDF(t *testing.T) {
	_, err := Inspect([]byte("PK\x03\x04"))
	assert.ErrorIs(t, err, ErrNotPDF)
}

func TestDateRange(t *testing.T) {
	assert.Equal(t, "2020 - Present", DateRange("2020", "2022", true))
	assert.Equal(t, "2020 - 2022", DateRange("2020", "2022", false))
	assert.Equal(t, "2020", DateRange("2020", "", false))
}
