// Package render lays a resume document out as a single-column PDF.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"

	"resume-builder/resume/model"
)

// ErrMissingName is returned when the document has no full name to head the page.
var ErrMissingName = errors.New("full name is required")

// RenderPDF renders doc as an A4 PDF. Sections appear in the order Career
// Objective, Education, Projects, Experience, Technical Skills, Certifications;
// empty sections are omitted.
func RenderPDF(doc model.ResumeDocument) ([]byte, error) {
	if strings.TrimSpace(doc.PersonalInfo.FullName) == "" {
		return nil, ErrMissingName
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.SetTitle(doc.PersonalInfo.FullName+" - Resume", true)
	pdf.SetCreator("resume-builder", true)
	pdf.AddPage()

	w := &writer{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	w.header(doc.PersonalInfo)

	if strings.TrimSpace(doc.Objective) != "" {
		w.section("Career Objective")
		w.paragraph("body", doc.Objective)
	}
	if len(doc.Education) > 0 {
		w.section("Education")
		for _, e := range doc.Education {
			w.education(e)
		}
	}
	if len(doc.Projects) > 0 {
		w.section("Projects")
		for _, p := range doc.Projects {
			w.project(p)
		}
	}
	if len(doc.Experience) > 0 {
		w.section("Experience")
		for _, e := range doc.Experience {
			w.experience(e)
		}
	}
	if len(doc.Skills) > 0 {
		w.section("Technical Skills")
		w.paragraph("body", strings.Join(doc.Skills, "  |  "))
	}
	if len(doc.Certifications) > 0 {
		w.section("Certifications")
		for _, c := range doc.Certifications {
			w.line("title", c.Name)
			w.line("subtitle", joinNonEmpty(" | ", c.Institution, c.Year))
			w.pdf.Ln(1.5)
		}
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// DateRange formats an experience period; a current role ends in "Present".
func DateRange(start, end string, current bool) string {
	if current {
		end = "Present"
	}
	return joinNonEmpty(" - ", start, end)
}

type writer struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func (w *writer) use(style string) {
	s := StyleMap[style]
	w.pdf.SetFont(s.Family, s.Style, s.Size)
	w.pdf.SetTextColor(s.Color.R, s.Color.G, s.Color.B)
}

func (w *writer) header(info model.PersonalInfo) {
	w.use("name")
	w.pdf.CellFormat(0, 11, w.tr(info.FullName), "", 1, "L", false, 0, "")

	contact := joinNonEmpty("   ", info.Email, info.Phone)
	w.use("contact")
	w.pdf.CellFormat(0, lineHeight, w.tr(contact), "", 1, "L", false, 0, "")
	if links := joinNonEmpty("   ", info.GithubLink, info.LinkedinProfile); links != "" {
		w.pdf.CellFormat(0, lineHeight, w.tr(links), "", 1, "L", false, 0, "")
	}
	w.pdf.Ln(2)
	w.hr(accent, 0.7)
	w.pdf.Ln(4)
}

func (w *writer) section(title string) {
	w.pdf.Ln(2)
	w.use("sectionHeading")
	w.pdf.CellFormat(0, 7, strings.ToUpper(title), "", 1, "L", false, 0, "")
	w.hr(rule, 0.3)
	w.pdf.Ln(2)
}

func (w *writer) hr(c RGB, width float64) {
	left, _, right, _ := w.pdf.GetMargins()
	pageW, _ := w.pdf.GetPageSize()
	y := w.pdf.GetY()
	w.pdf.SetDrawColor(c.R, c.G, c.B)
	w.pdf.SetLineWidth(width)
	w.pdf.Line(left, y, pageW-right, y)
}

func (w *writer) line(style, text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	w.use(style)
	w.pdf.CellFormat(0, lineHeight, w.tr(text), "", 1, "L", false, 0, "")
}

func (w *writer) paragraph(style, text string) {
	w.use(style)
	w.pdf.MultiCell(0, lineHeight, w.tr(strings.TrimSpace(text)), "", "J", false)
	w.pdf.Ln(1)
}

func (w *writer) education(e model.Education) {
	w.line("title", e.Degree)
	w.line("subtitle", e.Institution)
	gradeType := e.GradeType
	if gradeType == "" {
		gradeType = model.GradeCGPA
	}
	grade := ""
	if strings.TrimSpace(e.GradeValue) != "" {
		grade = string(gradeType) + ": " + e.GradeValue
	}
	w.line("meta", joinNonEmpty(" | ", grade, joinNonEmpty(" - ", e.StartDate, e.EndDate)))
	w.pdf.Ln(2)
}

func (w *writer) project(p model.Project) {
	w.line("title", p.Title)
	if strings.TrimSpace(p.Description) != "" {
		w.paragraph("body", p.Description)
	}
	if len(p.TechStack) > 0 {
		w.line("meta", "Tech: "+strings.Join(p.TechStack, ", "))
	}
	w.line("meta", p.GithubLink)
	w.pdf.Ln(2)
}

func (w *writer) experience(e model.Experience) {
	w.use("title")
	pageW, _ := w.pdf.GetPageSize()
	left, _, right, _ := w.pdf.GetMargins()
	half := (pageW - left - right) / 2
	w.pdf.CellFormat(half, lineHeight, w.tr(e.Role), "", 0, "L", false, 0, "")
	w.use("meta")
	w.pdf.CellFormat(half, lineHeight, w.tr(DateRange(e.StartDate, e.EndDate, e.IsCurrent)), "", 1, "R", false, 0, "")
	w.line("subtitle", e.Company)
	for _, r := range e.Responsibilities {
		w.use("body")
		w.pdf.SetX(left + 4)
		w.pdf.MultiCell(0, lineHeight, w.tr("- "+r), "", "L", false)
	}
	w.pdf.Ln(2)
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, strings.TrimSpace(p))
		}
	}
	return strings.Join(kept, sep)
}
