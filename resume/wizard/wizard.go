// Package wizard owns a resume document while it is being filled in and the
// guarded transitions between its seven steps.
package wizard

import (
	"fmt"
	"strings"
	"sync"

	"resume-builder/resume/collection"
	"resume-builder/resume/model"
	"resume-builder/resume/validate"
)

// LastStep is the terminal data-entry step. Submission happens from here.
const LastStep = validate.StepCertifications

// Indicator is what the UI needs to draw the step bar.
type Indicator struct {
	Current int      `json:"current"`
	Total   int      `json:"total"`
	Titles  []string `json:"titles"`
}

// Wizard is safe for concurrent use.
type Wizard struct {
	mu sync.Mutex

	step   validate.Step
	frozen bool

	personal       model.PersonalInfo
	objective      string
	education      *collection.Collection[model.Education]
	projects       *collection.Collection[model.Project]
	experience     *collection.Collection[model.Experience]
	skills         *collection.StringSet
	certifications *collection.Collection[model.Certification]
}

// New returns a wizard at step 0 holding an empty document with one blank
// education entry.
func New() *Wizard {
	w := &Wizard{
		education:      collection.New[model.Education]("edu"),
		projects:       collection.New[model.Project]("project"),
		experience:     collection.New[model.Experience]("exp"),
		skills:         collection.NewStringSet(nil),
		certifications: collection.New[model.Certification]("cert"),
	}
	for _, e := range model.NewDocument().Education {
		w.education.Add(e)
	}
	return w
}

// Step returns the current step.
func (w *Wizard) Step() validate.Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

// Snapshot returns a deep copy of the document.
func (w *Wizard) Snapshot() model.ResumeDocument {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.documentLocked()
}

func (w *Wizard) documentLocked() model.ResumeDocument {
	doc := model.ResumeDocument{
		PersonalInfo:   w.personal,
		Objective:      w.objective,
		Education:      w.education.Items(),
		Projects:       w.projects.Items(),
		Experience:     w.experience.Items(),
		Skills:         w.skills.Values(),
		Certifications: w.certifications.Items(),
	}
	return doc.Clone()
}

// Indicator returns the step bar state.
func (w *Wizard) Indicator() Indicator {
	w.mu.Lock()
	defer w.mu.Unlock()
	return Indicator{Current: int(w.step), Total: validate.StepCount, Titles: validate.Titles()}
}

// Validate runs every step validator against the current document.
func (w *Wizard) Validate() []validate.Result {
	return validate.All(w.Snapshot())
}

// Freeze blocks every mutation and transition until Thaw.
func (w *Wizard) Freeze() {
	w.mu.Lock()
	w.frozen = true
	w.mu.Unlock()
}

// Thaw lifts a Freeze.
func (w *Wizard) Thaw() {
	w.mu.Lock()
	w.frozen = false
	w.mu.Unlock()
}

// Frozen reports whether the wizard is locked.
func (w *Wizard) Frozen() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.frozen
}

// Next advances one step once the current step validates. It is a no-op on the
// last step.
func (w *Wizard) Next() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.frozen {
		return ErrFrozen
	}
	if w.step >= LastStep {
		return nil
	}
	if err := w.checkCurrentLocked(); err != nil {
		return err
	}
	w.step++
	return nil
}

// Prev goes back one step, stopping at the first.
func (w *Wizard) Prev() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.frozen {
		return ErrFrozen
	}
	if w.step > 0 {
		w.step--
	}
	return nil
}

// GoToStep jumps to target. Going forward requires only the current step to be
// valid; intermediate steps are not checked. Going back is always allowed.
func (w *Wizard) GoToStep(target int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.frozen {
		return ErrFrozen
	}
	to := validate.Step(target)
	if !to.Valid() {
		return fmt.Errorf("goto %d: %w", target, ErrInvalidStep)
	}
	if to > w.step {
		if err := w.checkCurrentLocked(); err != nil {
			return err
		}
	}
	w.step = to
	return nil
}

func (w *Wizard) checkCurrentLocked() error {
	res := validate.Check(w.step, w.documentLocked())
	if !res.Valid() {
		return &StepError{Result: res}
	}
	return nil
}

func (w *Wizard) mutate(fn func() error) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.frozen {
		return ErrFrozen
	}
	return fn()
}

// UpdateField replaces the slice of the document that step owns with the same
// slice from src. Validity is not checked.
func (w *Wizard) UpdateField(step validate.Step, src model.ResumeDocument) error {
	switch step {
	case validate.StepPersonalInfo:
		return w.UpdatePersonalInfo(src.PersonalInfo)
	case validate.StepObjective:
		return w.UpdateObjective(src.Objective)
	case validate.StepEducation:
		return w.UpdateEducation(src.Education)
	case validate.StepProjects:
		return w.UpdateProjects(src.Projects)
	case validate.StepExperience:
		return w.UpdateExperience(src.Experience)
	case validate.StepSkills:
		return w.UpdateSkills(src.Skills)
	case validate.StepCertifications:
		return w.UpdateCertifications(src.Certifications)
	default:
		return fmt.Errorf("update step %d: %w", step, ErrInvalidStep)
	}
}

// UpdatePersonalInfo replaces the contact details.
func (w *Wizard) UpdatePersonalInfo(info model.PersonalInfo) error {
	return w.mutate(func() error {
		w.personal = info
		return nil
	})
}

// UpdateObjective replaces the career objective.
func (w *Wizard) UpdateObjective(objective string) error {
	return w.mutate(func() error {
		w.objective = objective
		return nil
	})
}

// UpdateEducation replaces the education list, defaulting blank grade types to CGPA.
func (w *Wizard) UpdateEducation(items []model.Education) error {
	return w.mutate(func() error {
		out := make([]model.Education, len(items))
		for i, e := range items {
			out[i] = normalizeEducation(e)
		}
		w.education.Replace(out)
		return nil
	})
}

// UpdateProjects replaces the project list.
func (w *Wizard) UpdateProjects(items []model.Project) error {
	return w.mutate(func() error {
		out := make([]model.Project, len(items))
		for i, p := range items {
			out[i] = normalizeProject(p)
		}
		w.projects.Replace(out)
		return nil
	})
}

// UpdateExperience replaces the experience list. Blank responsibility lines are dropped.
func (w *Wizard) UpdateExperience(items []model.Experience) error {
	return w.mutate(func() error {
		out := make([]model.Experience, len(items))
		for i, e := range items {
			out[i] = normalizeExperience(e)
		}
		w.experience.Replace(out)
		return nil
	})
}

// UpdateSkills replaces the skill set; duplicates collapse.
func (w *Wizard) UpdateSkills(skills []string) error {
	return w.mutate(func() error {
		w.skills.Replace(skills)
		return nil
	})
}

// UpdateCertifications replaces the certification list.
func (w *Wizard) UpdateCertifications(items []model.Certification) error {
	return w.mutate(func() error {
		w.certifications.Replace(append([]model.Certification{}, items...))
		return nil
	})
}

func normalizeEducation(e model.Education) model.Education {
	if e.GradeType == "" {
		e.GradeType = model.GradeCGPA
	}
	return e
}

func normalizeProject(p model.Project) model.Project {
	p.TechStack = collection.NewStringSet(p.TechStack).Values()
	return p
}

func normalizeExperience(e model.Experience) model.Experience {
	e = e.Clone()
	if e.IsCurrent {
		e.EndDate = ""
	}
	lines := e.Responsibilities[:0]
	for _, line := range e.Responsibilities {
		if line = trimmed(line); line != "" {
			lines = append(lines, line)
		}
	}
	e.Responsibilities = lines
	return e
}

func trimmed(s string) string { return strings.TrimSpace(s) }
