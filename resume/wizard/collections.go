package wizard

import (
	"fmt"

	"resume-builder/resume/collection"
	"resume-builder/resume/model"
)

// Collection operations. Every Add returns the freshly issued id; unknown ids
// surface collection.ErrUnknownID.

func (w *Wizard) AddEducation(defaults model.Education) (id string, err error) {
	err = w.mutate(func() error {
		id = w.education.Add(normalizeEducation(defaults))
		return nil
	})
	return id, err
}

func (w *Wizard) PatchEducation(id string, patch func(*model.Education)) error {
	return w.mutate(func() error {
		return w.education.Update(id, func(e *model.Education) {
			patch(e)
			*e = normalizeEducation(*e)
		})
	})
}

func (w *Wizard) RemoveEducation(id string) error {
	return w.mutate(func() error { return w.education.Remove(id) })
}

func (w *Wizard) AddProject(defaults model.Project) (id string, err error) {
	err = w.mutate(func() error {
		id = w.projects.Add(normalizeProject(defaults))
		return nil
	})
	return id, err
}

func (w *Wizard) PatchProject(id string, patch func(*model.Project)) error {
	return w.mutate(func() error {
		return w.projects.Update(id, func(p *model.Project) {
			patch(p)
			*p = normalizeProject(*p)
		})
	})
}

func (w *Wizard) RemoveProject(id string) error {
	return w.mutate(func() error { return w.projects.Remove(id) })
}

// AddTech appends a tech stack entry to a project. Blank and duplicate values
// are ignored and reported as added=false.
func (w *Wizard) AddTech(projectID, tech string) (added bool, err error) {
	err = w.mutate(func() error {
		return w.projects.Update(projectID, func(p *model.Project) {
			set := collection.NewStringSet(p.TechStack)
			added = set.AddUnique(tech)
			p.TechStack = set.Values()
		})
	})
	return added, err
}

func (w *Wizard) RemoveTech(projectID, tech string) (removed bool, err error) {
	err = w.mutate(func() error {
		return w.projects.Update(projectID, func(p *model.Project) {
			set := collection.NewStringSet(p.TechStack)
			removed = set.RemoveValue(tech)
			p.TechStack = set.Values()
		})
	})
	return removed, err
}

func (w *Wizard) AddExperience(defaults model.Experience) (id string, err error) {
	err = w.mutate(func() error {
		id = w.experience.Add(normalizeExperience(defaults))
		return nil
	})
	return id, err
}

// PatchExperience applies patch and then re-applies the current-role rule, so an
// end date set on a current role is dropped.
func (w *Wizard) PatchExperience(id string, patch func(*model.Experience)) error {
	return w.mutate(func() error {
		return w.experience.Update(id, func(e *model.Experience) {
			patch(e)
			*e = normalizeExperience(*e)
		})
	})
}

func (w *Wizard) RemoveExperience(id string) error {
	return w.mutate(func() error { return w.experience.Remove(id) })
}

// SetCurrent flags an experience entry as the ongoing role and clears its end date.
func (w *Wizard) SetCurrent(id string, current bool) error {
	return w.PatchExperience(id, func(e *model.Experience) { e.IsCurrent = current })
}

// AddResponsibility appends a trimmed, non-blank responsibility line.
func (w *Wizard) AddResponsibility(id, text string) (added bool, err error) {
	line := trimmed(text)
	err = w.mutate(func() error {
		return w.experience.Update(id, func(e *model.Experience) {
			if line == "" {
				return
			}
			e.Responsibilities = append(e.Responsibilities, line)
			added = true
		})
	})
	return added, err
}

func (w *Wizard) RemoveResponsibility(id string, index int) error {
	return w.mutate(func() error {
		e, ok := w.experience.Get(id)
		if ok && (index < 0 || index >= len(e.Responsibilities)) {
			return fmt.Errorf("responsibility %d of %q: %w", index, id, ErrIndexOutOfRange)
		}
		return w.experience.Update(id, func(e *model.Experience) {
			e.Responsibilities = append(e.Responsibilities[:index:index], e.Responsibilities[index+1:]...)
		})
	})
}

func (w *Wizard) AddCertification(defaults model.Certification) (id string, err error) {
	err = w.mutate(func() error {
		id = w.certifications.Add(defaults)
		return nil
	})
	return id, err
}

func (w *Wizard) PatchCertification(id string, patch func(*model.Certification)) error {
	return w.mutate(func() error { return w.certifications.Update(id, patch) })
}

func (w *Wizard) RemoveCertification(id string) error {
	return w.mutate(func() error { return w.certifications.Remove(id) })
}

// AddSkill adds a trimmed skill. Re-adding an existing skill is a no-op.
func (w *Wizard) AddSkill(skill string) (added bool, err error) {
	err = w.mutate(func() error {
		added = w.skills.AddUnique(skill)
		return nil
	})
	return added, err
}

func (w *Wizard) RemoveSkill(skill string) (removed bool, err error) {
	err = w.mutate(func() error {
		removed = w.skills.RemoveValue(skill)
		return nil
	})
	return removed, err
}
