package wizard

import (
	"errors"
	"fmt"

	"resume-builder/resume/validate"
)

var (
	ErrStepInvalid     = errors.New("step is not complete")
	ErrInvalidStep     = errors.New("step index out of range")
	ErrFrozen          = errors.New("wizard is locked while a resume is being generated")
	ErrIndexOutOfRange = errors.New("index out of range")
)

// StepError reports a rejected forward transition together with the failing step's
// validation result.
type StepError struct {
	Result validate.Result
}

func (e *StepError) Error() string {
	if f, ok := e.Result.First(); ok {
		return fmt.Sprintf("%s: %s: %s", e.Result.Step.Title(), f.Field, f.Message)
	}
	return e.Result.Step.Title() + ": " + ErrStepInvalid.Error()
}

func (e *StepError) Unwrap() error { return ErrStepInvalid }
