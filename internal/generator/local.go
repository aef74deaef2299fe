// Package generator provides the document generators the wizard's generation
// job can call: an in-process PDF renderer and an HTTP client for a remote
// generation service.
package generator

import (
	"context"

	"resume-builder/resume/generation"
	"resume-builder/resume/model"
	"resume-builder/resume/render"
)

// Local renders in-process.
type Local struct{}

func NewLocal() Local { return Local{} }

func (Local) Generate(ctx context.Context, doc model.ResumeDocument) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc.Normalize()
	return render.RenderPDF(doc)
}

var _ generation.Generator = Local{}
