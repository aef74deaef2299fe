// Package validate holds the per-step rules that gate forward navigation in the
// resume wizard. Validators are pure: they read a document and report failures.
package validate

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"resume-builder/resume/model"
)

// Step identifies one of the seven wizard stages.
type Step int

const (
	StepPersonalInfo Step = iota
	StepObjective
	StepEducation
	StepProjects
	StepExperience
	StepSkills
	StepCertifications
)

// StepCount is the number of wizard steps.
const StepCount = 7

// MinObjectiveLength is the minimum trimmed objective length in characters.
const MinObjectiveLength = 50

var stepTitles = [StepCount]string{
	"Personal Info",
	"Objective",
	"Education",
	"Projects",
	"Experience",
	"Skills",
	"Certifications",
}

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\+?[\d\s\-()]+$`)
)

// Valid reports whether s names a wizard step.
func (s Step) Valid() bool { return s >= 0 && s < StepCount }

// Title returns the display title of the step.
func (s Step) Title() string {
	if !s.Valid() {
		return ""
	}
	return stepTitles[s]
}

// Titles returns the ordered step titles.
func Titles() []string {
	return append([]string{}, stepTitles[:]...)
}

// FieldError names a failing field and why it failed.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Result is the outcome of validating one step. Failures are in field order, so
// the first entry is the first failing field.
type Result struct {
	Step     Step         `json:"step"`
	Failures []FieldError `json:"failures"`
}

// Valid reports whether the step passed.
func (r Result) Valid() bool { return len(r.Failures) == 0 }

// First returns the first failure, if any.
func (r Result) First() (FieldError, bool) {
	if len(r.Failures) == 0 {
		return FieldError{}, false
	}
	return r.Failures[0], true
}

func (r *Result) fail(field, msg string) {
	r.Failures = append(r.Failures, FieldError{Field: field, Message: msg})
}

// Validator checks one step of a document.
type Validator func(doc model.ResumeDocument) Result

var validators = [StepCount]Validator{
	PersonalInfo,
	Objective,
	Education,
	Projects,
	Experience,
	Skills,
	Certifications,
}

// ForStep returns the validator for step s. Unknown steps always pass.
func ForStep(s Step) Validator {
	if !s.Valid() {
		return func(model.ResumeDocument) Result { return Result{Step: s} }
	}
	return validators[s]
}

// Check runs the validator for step s.
func Check(s Step, doc model.ResumeDocument) Result {
	return ForStep(s)(doc)
}

// All runs every step validator in order.
func All(doc model.ResumeDocument) []Result {
	out := make([]Result, 0, StepCount)
	for _, v := range validators {
		out = append(out, v(doc))
	}
	return out
}

// IsEmail reports whether value has the local@domain.tld shape.
func IsEmail(value string) bool {
	return emailPattern.MatchString(value)
}

// PersonalInfo requires a name, a well-formed email and a phone number.
func PersonalInfo(doc model.ResumeDocument) Result {
	r := Result{Step: StepPersonalInfo}
	info := doc.PersonalInfo
	if blank(info.FullName) {
		r.fail("personalInfo.fullName", "Full name is required")
	}
	switch {
	case blank(info.Email):
		r.fail("personalInfo.email", "Email is required")
	case !IsEmail(info.Email):
		r.fail("personalInfo.email", "Please enter a valid email address")
	}
	switch {
	case blank(info.Phone):
		r.fail("personalInfo.phone", "Phone number is required")
	case !phonePattern.MatchString(info.Phone):
		r.fail("personalInfo.phone", "Please enter a valid phone number")
	}
	return r
}

// Objective requires at least MinObjectiveLength characters after trimming.
func Objective(doc model.ResumeDocument) Result {
	r := Result{Step: StepObjective}
	trimmed := strings.TrimSpace(doc.Objective)
	switch {
	case trimmed == "":
		r.fail("objective", "Career objective is required")
	case utf8.RuneCountInString(trimmed) < MinObjectiveLength:
		r.fail("objective", fmt.Sprintf("Please provide a more detailed objective (at least %d characters)", MinObjectiveLength))
	}
	return r
}

// Education requires at least one entry and checks every entry.
func Education(doc model.ResumeDocument) Result {
	r := Result{Step: StepEducation}
	if len(doc.Education) == 0 {
		r.fail("education", "At least one education entry is required")
		return r
	}
	for i, e := range doc.Education {
		prefix := fmt.Sprintf("education[%d].", i)
		if blank(e.Degree) {
			r.fail(prefix+"degree", "Degree is required")
		}
		if blank(e.Institution) {
			r.fail(prefix+"institution", "College/University is required")
		}
		if msg := gradeProblem(e.GradeValue, e.GradeType); msg != "" {
			r.fail(prefix+"gradeValue", msg)
		}
		if blank(e.StartDate) {
			r.fail(prefix+"startDate", "Start date is required")
		}
		if blank(e.EndDate) {
			r.fail(prefix+"endDate", "End date is required")
		}
	}
	return r
}

// GradeInRange reports whether value parses as a finite number within the bound
// of its grade type.
func GradeInRange(value string, gradeType model.GradeType) bool {
	return gradeProblem(value, gradeType) == ""
}

func gradeProblem(value string, gradeType model.GradeType) string {
	if gradeType == "" {
		gradeType = model.GradeCGPA
	}
	label := string(gradeType)
	if blank(value) {
		return label + " is required"
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) || n < 0 || n > gradeType.MaxGrade() {
		return fmt.Sprintf("Please enter a valid %s (0-%g)", label, gradeType.MaxGrade())
	}
	return ""
}

// Projects requires at least one project, each with a title and description.
func Projects(doc model.ResumeDocument) Result {
	r := Result{Step: StepProjects}
	if len(doc.Projects) == 0 {
		r.fail("projects", "At least one project is required")
		return r
	}
	for i, p := range doc.Projects {
		if blank(p.Title) {
			r.fail(fmt.Sprintf("projects[%d].title", i), "Project title is required")
		}
		if blank(p.Description) {
			r.fail(fmt.Sprintf("projects[%d].description", i), "Project description is required")
		}
	}
	return r
}

// Experience requires at least one entry. Each entry needs a role, company, start
// date, an end date unless it is the current role, and one responsibility.
func Experience(doc model.ResumeDocument) Result {
	r := Result{Step: StepExperience}
	if len(doc.Experience) == 0 {
		r.fail("experience", "At least one experience entry is required")
		return r
	}
	for i, e := range doc.Experience {
		prefix := fmt.Sprintf("experience[%d].", i)
		if blank(e.Role) {
			r.fail(prefix+"role", "Role is required")
		}
		if blank(e.Company) {
			r.fail(prefix+"company", "Company is required")
		}
		if blank(e.StartDate) {
			r.fail(prefix+"startDate", "Start date is required")
		}
		if !e.IsCurrent && blank(e.EndDate) {
			r.fail(prefix+"endDate", "End date is required unless this is your current role")
		}
		if !anyNonBlank(e.Responsibilities) {
			r.fail(prefix+"responsibilities", "Add at least one responsibility")
		}
	}
	return r
}

// Skills requires at least one skill.
func Skills(doc model.ResumeDocument) Result {
	r := Result{Step: StepSkills}
	if len(doc.Skills) == 0 {
		r.fail("skills", "Add at least one skill")
	}
	return r
}

// Certifications is optional and always passes.
func Certifications(model.ResumeDocument) Result {
	return Result{Step: StepCertifications}
}

func anyNonBlank(values []string) bool {
	for _, v := range values {
		if !blank(v) {
			return true
		}
	}
	return false
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
