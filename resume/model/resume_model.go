package model

import (
	"errors"
	"strings"
)

// GradeType selects the scale an education grade is expressed in.
type GradeType string

const (
	GradeCGPA GradeType = "CGPA"
	GradeGPA  GradeType = "GPA"
)

// ErrInvalidGradeType is returned by ParseGradeType for unknown scales.
var ErrInvalidGradeType = errors.New("grade type must be CGPA or GPA")

// MaxGrade returns the inclusive upper bound for the grade scale.
func (g GradeType) MaxGrade() float64 {
	if g == GradeGPA {
		return 4
	}
	return 10
}

// ParseGradeType normalizes a grade type string. Empty input defaults to CGPA.
func ParseGradeType(raw string) (GradeType, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "", string(GradeCGPA):
		return GradeCGPA, nil
	case string(GradeGPA):
		return GradeGPA, nil
	default:
		return "", ErrInvalidGradeType
	}
}

// ResumeDocument is the aggregate collected by the wizard and sent for generation.
type ResumeDocument struct {
	PersonalInfo   PersonalInfo    `json:"personalInfo"`
	Objective      string          `json:"objective"`
	Education      []Education     `json:"education"`
	Projects       []Project       `json:"projects"`
	Experience     []Experience    `json:"experience"`
	Skills         []string        `json:"skills"`
	Certifications []Certification `json:"certifications"`
}

// PersonalInfo captures contact and identity details.
type PersonalInfo struct {
	FullName        string `json:"fullName"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	GithubLink      string `json:"githubLink"`
	LinkedinProfile string `json:"linkedinProfile"`
}

// Education is a single degree entry.
type Education struct {
	ID          string    `json:"id"`
	Degree      string    `json:"degree"`
	Institution string    `json:"institution"`
	GradeValue  string    `json:"gradeValue"`
	GradeType   GradeType `json:"gradeType"`
	StartDate   string    `json:"startDate"`
	EndDate     string    `json:"endDate"`
}

// Project is a portfolio entry.
type Project struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	TechStack   []string `json:"techStack"`
	GithubLink  string   `json:"githubLink"`
}

// Experience is a work history entry. EndDate is empty while IsCurrent is set.
type Experience struct {
	ID               string   `json:"id"`
	Role             string   `json:"role"`
	Company          string   `json:"company"`
	StartDate        string   `json:"startDate"`
	EndDate          string   `json:"endDate"`
	IsCurrent        bool     `json:"isCurrent"`
	Responsibilities []string `json:"responsibilities"`
}

// Certification is an optional credential entry.
type Certification struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Institution string `json:"institution"`
	Year        string `json:"year"`
}

// NewDocument returns the empty document a wizard starts from: blank fields and a
// single blank education entry.
func NewDocument() ResumeDocument {
	return ResumeDocument{
		Education:      []Education{{GradeType: GradeCGPA}},
		Projects:       []Project{},
		Experience:     []Experience{},
		Skills:         []string{},
		Certifications: []Certification{},
	}
}

// Clone returns a deep copy so callers can hand the document to another goroutine.
func (d ResumeDocument) Clone() ResumeDocument {
	out := d
	out.Education = append([]Education{}, d.Education...)
	out.Projects = make([]Project, len(d.Projects))
	for i, p := range d.Projects {
		out.Projects[i] = p.Clone()
	}
	out.Experience = make([]Experience, len(d.Experience))
	for i, e := range d.Experience {
		out.Experience[i] = e.Clone()
	}
	out.Skills = append([]string{}, d.Skills...)
	out.Certifications = append([]Certification{}, d.Certifications...)
	return out
}

// Normalize applies the record invariants: a current experience has no end date and
// an empty grade type means CGPA.
func (d *ResumeDocument) Normalize() {
	for i := range d.Education {
		if d.Education[i].GradeType == "" {
			d.Education[i].GradeType = GradeCGPA
		}
	}
	for i := range d.Experience {
		if d.Experience[i].IsCurrent {
			d.Experience[i].EndDate = ""
		}
	}
	if d.Education == nil {
		d.Education = []Education{}
	}
	if d.Projects == nil {
		d.Projects = []Project{}
	}
	if d.Experience == nil {
		d.Experience = []Experience{}
	}
	if d.Skills == nil {
		d.Skills = []string{}
	}
	if d.Certifications == nil {
		d.Certifications = []Certification{}
	}
}

func (e Education) RecordID() string { return e.ID }

func (e Education) WithID(id string) Education {
	e.ID = id
	return e
}

func (p Project) RecordID() string { return p.ID }

func (p Project) WithID(id string) Project {
	p.ID = id
	return p
}

// Clone copies the tech stack slice.
func (p Project) Clone() Project {
	p.TechStack = append([]string{}, p.TechStack...)
	return p
}

func (e Experience) RecordID() string { return e.ID }

func (e Experience) WithID(id string) Experience {
	e.ID = id
	return e
}

// Clone copies the responsibilities slice.
func (e Experience) Clone() Experience {
	e.Responsibilities = append([]string{}, e.Responsibilities...)
	return e
}

func (c Certification) RecordID() string { return c.ID }

func (c Certification) WithID(id string) Certification {
	c.ID = id
	return c
}
