package wizards

import (
	"time"

	"resume-builder/resume/generation"
	"resume-builder/resume/model"
	"resume-builder/resume/wizard"
)

// StateResponse is the full view of a session.
type StateResponse struct {
	ID         string               `json:"id"`
	Step       int                  `json:"step"`
	Indicator  wizard.Indicator     `json:"indicator"`
	Frozen     bool                 `json:"frozen"`
	Document   model.ResumeDocument `json:"document"`
	Generation generation.Snapshot  `json:"generation"`
	CreatedAt  time.Time            `json:"createdAt"`
}

func toState(s *Session) StateResponse {
	ind := s.Wizard.Indicator()
	return StateResponse{
		ID:         s.ID,
		Step:       ind.Current,
		Indicator:  ind,
		Frozen:     s.Wizard.Frozen(),
		Document:   s.Wizard.Snapshot(),
		Generation: s.Job.Snapshot(),
		CreatedAt:  s.CreatedAt,
	}
}

type gotoRequest struct {
	Target *int `json:"target" validate:"required"`
}

type educationRequest struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	GradeValue  string `json:"gradeValue"`
	GradeType   string `json:"gradeType" validate:"omitempty,oneof=CGPA GPA"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
}

func (r educationRequest) toModel() model.Education {
	return model.Education{
		Degree:      r.Degree,
		Institution: r.Institution,
		GradeValue:  r.GradeValue,
		GradeType:   model.GradeType(r.GradeType),
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
	}
}

type educationPatch struct {
	Degree      *string `json:"degree"`
	Institution *string `json:"institution"`
	GradeValue  *string `json:"gradeValue"`
	GradeType   *string `json:"gradeType" validate:"omitempty,oneof=CGPA GPA"`
	StartDate   *string `json:"startDate"`
	EndDate     *string `json:"endDate"`
}

func (p educationPatch) apply(e *model.Education) {
	setString(&e.Degree, p.Degree)
	setString(&e.Institution, p.Institution)
	setString(&e.GradeValue, p.GradeValue)
	if p.GradeType != nil {
		e.GradeType = model.GradeType(*p.GradeType)
	}
	setString(&e.StartDate, p.StartDate)
	setString(&e.EndDate, p.EndDate)
}

type projectRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	TechStack   []string `json:"techStack" validate:"omitempty,max=50,dive,max=64"`
	GithubLink  string   `json:"githubLink" validate:"omitempty,max=500"`
}

func (r projectRequest) toModel() model.Project {
	return model.Project{
		Title:       r.Title,
		Description: r.Description,
		TechStack:   r.TechStack,
		GithubLink:  r.GithubLink,
	}
}

type projectPatch struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	TechStack   *[]string `json:"techStack" validate:"omitempty,max=50,dive,max=64"`
	GithubLink  *string   `json:"githubLink" validate:"omitempty,max=500"`
}

func (p projectPatch) apply(pr *model.Project) {
	setString(&pr.Title, p.Title)
	setString(&pr.Description, p.Description)
	if p.TechStack != nil {
		pr.TechStack = append([]string{}, (*p.TechStack)...)
	}
	setString(&pr.GithubLink, p.GithubLink)
}

type experienceRequest struct {
	Role             string   `json:"role"`
	Company          string   `json:"company"`
	StartDate        string   `json:"startDate"`
	EndDate          string   `json:"endDate"`
	IsCurrent        bool     `json:"isCurrent"`
	Responsibilities []string `json:"responsibilities" validate:"omitempty,max=50"`
}

func (r experienceRequest) toModel() model.Experience {
	return model.Experience{
		Role:             r.Role,
		Company:          r.Company,
		StartDate:        r.StartDate,
		EndDate:          r.EndDate,
		IsCurrent:        r.IsCurrent,
		Responsibilities: r.Responsibilities,
	}
}

type experiencePatch struct {
	Role             *string   `json:"role"`
	Company          *string   `json:"company"`
	StartDate        *string   `json:"startDate"`
	EndDate          *string   `json:"endDate"`
	IsCurrent        *bool     `json:"isCurrent"`
	Responsibilities *[]string `json:"responsibilities" validate:"omitempty,max=50"`
}

func (p experiencePatch) apply(e *model.Experience) {
	setString(&e.Role, p.Role)
	setString(&e.Company, p.Company)
	setString(&e.StartDate, p.StartDate)
	setString(&e.EndDate, p.EndDate)
	if p.IsCurrent != nil {
		e.IsCurrent = *p.IsCurrent
	}
	if p.Responsibilities != nil {
		e.Responsibilities = append([]string{}, (*p.Responsibilities)...)
	}
}

type certificationRequest struct {
	Name        string `json:"name"`
	Institution string `json:"institution"`
	Year        string `json:"year"`
}

func (r certificationRequest) toModel() model.Certification {
	return model.Certification{Name: r.Name, Institution: r.Institution, Year: r.Year}
}

type certificationPatch struct {
	Name        *string `json:"name"`
	Institution *string `json:"institution"`
	Year        *string `json:"year"`
}

func (p certificationPatch) apply(c *model.Certification) {
	setString(&c.Name, p.Name)
	setString(&c.Institution, p.Institution)
	setString(&c.Year, p.Year)
}

type valueRequest struct {
	Value string `json:"value" validate:"required,max=200"`
}

type responsibilityRequest struct {
	Text string `json:"text" validate:"required,max=1000"`
}

type skillRequest struct {
	Skill string `json:"skill" validate:"required,max=100"`
}

type createdItemResponse struct {
	ItemID string        `json:"itemId"`
	State  StateResponse `json:"state"`
}

type changedResponse struct {
	Changed bool          `json:"changed"`
	State   StateResponse `json:"state"`
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
