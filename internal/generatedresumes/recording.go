package generatedresumes

import (
	"context"

	"resume-builder/internal/shared/telemetry"
	"resume-builder/resume/generation"
	"resume-builder/resume/model"
)

// Owner identifies who a generation runs for.
type Owner struct {
	UserID    string
	SessionID string
}

type ownerKey struct{}

// WithOwner attaches owner to ctx so a recording generator can archive under it.
func WithOwner(ctx context.Context, owner Owner) context.Context {
	return context.WithValue(ctx, ownerKey{}, owner)
}

// OwnerFrom returns the owner attached by WithOwner.
func OwnerFrom(ctx context.Context) (Owner, bool) {
	owner, ok := ctx.Value(ownerKey{}).(Owner)
	return owner, ok && owner.UserID != ""
}

// recordingGenerator archives every successful result. Archive failures are
// logged and never fail the generation.
type recordingGenerator struct {
	base generation.Generator
	svc  *Service
}

// Recording wraps base so successful PDFs are archived through svc.
func Recording(base generation.Generator, svc *Service) generation.Generator {
	if svc == nil {
		return base
	}
	return &recordingGenerator{base: base, svc: svc}
}

func (g *recordingGenerator) Generate(ctx context.Context, doc model.ResumeDocument) ([]byte, error) {
	data, err := g.base.Generate(ctx, doc)
	if err != nil || len(data) == 0 {
		return data, err
	}
	owner, ok := OwnerFrom(ctx)
	if !ok {
		return data, nil
	}

	fullName := doc.PersonalInfo.FullName
	rec, aerr := g.svc.Archive(ctx, owner, fullName, generation.FileName(fullName), data)
	if aerr != nil {
		telemetry.Error("archive.failed", map[string]any{
			"user_id":    owner.UserID,
			"session_id": owner.SessionID,
			"err":        aerr.Error(),
		})
		return data, nil
	}
	telemetry.Info("archive.stored", map[string]any{
		"user_id":             owner.UserID,
		"session_id":          owner.SessionID,
		"generated_resume_id": rec.ID,
		"size_bytes":          rec.SizeBytes,
	})
	return data, nil
}
