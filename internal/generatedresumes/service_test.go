package generatedresumes

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-builder/internal/shared/storage/object/local"
	"resume-builder/resume/generation"
	"resume-builder/resume/model"
)

var pdfBytes = []byte("%PDF-1.4\n1 0 obj <<>> endobj\ntrailer <<>>\n%%EOF\n")

func newTestService(t *testing.T) (*Service, *MemoryRepo, *local.Store) {
	t.Helper()
	repo := NewMemoryRepo()
	store := local.New(t.TempDir())
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	svc := &Service{Repo: repo, Store: store, Now: func() time.Time {
		now = now.Add(time.Minute)
		return now
	}}
	return svc, repo, store
}

func TestArchiveStoresAndRecords(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	owner := Owner{UserID: "guest:g1", SessionID: "s1"}

	rec, err := svc.Archive(ctx, owner, "Ada Lovelace", "Ada_Lovelace_Resume.pdf", pdfBytes)
	require.NoError(t, err)
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "application/pdf", rec.MimeType)
	assert.Equal(t, int64(len(pdfBytes)), rec.SizeBytes)
	assert.Equal(t, "s1", rec.SessionID)

	got, rc, err := svc.Open(ctx, "guest:g1", rec.ID)
	require.NoError(t, err)
	defer rc.Close()
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, pdfBytes, body)
	assert.Equal(t, rec.FileName, got.FileName)
}

func TestArchiveRejectsEmptyInput(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.Archive(context.Background(), Owner{}, "x", "x.pdf", pdfBytes)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.Archive(context.Background(), Owner{UserID: "u"}, "x", "x.pdf", nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

type failingRepo struct{ *MemoryRepo }

func (failingRepo) Create(context.Context, GeneratedResume) error { return errors.New("db down") }

func TestArchiveRemovesObjectWhenRecordFails(t *testing.T) {
	dir := t.TempDir()
	store := local.New(dir)
	svc := &Service{Repo: failingRepo{NewMemoryRepo()}, Store: store}

	_, err := svc.Archive(context.Background(), Owner{UserID: "u"}, "A", "A_Resume.pdf", pdfBytes)
	require.Error(t, err)

	entries, err := filepathGlob(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestListAndOwnership(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	first, err := svc.Archive(ctx, Owner{UserID: "u1"}, "A", "A_Resume.pdf", pdfBytes)
	require.NoError(t, err)
	second, err := svc.Archive(ctx, Owner{UserID: "u1"}, "B", "B_Resume.pdf", pdfBytes)
	require.NoError(t, err)
	_, err = svc.Archive(ctx, Owner{UserID: "u2"}, "C", "C_Resume.pdf", pdfBytes)
	require.NoError(t, err)

	items, err := svc.List(ctx, "u1", 10, 0)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, second.ID, items[0].ID)
	assert.Equal(t, first.ID, items[1].ID)

	_, err = svc.Get(ctx, "u2", first.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = svc.Get(ctx, "u1", "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecordingArchivesWithOwner(t *testing.T) {
	svc, repo, _ := newTestService(t)
	base := generation.GeneratorFunc(func(context.Context, model.ResumeDocument) ([]byte, error) {
		return pdfBytes, nil
	})
	gen := Recording(base, svc)

	doc := model.NewDocument()
	doc.PersonalInfo.FullName = "Grace Brewster Hopper"

	data, err := gen.Generate(WithOwner(context.Background(), Owner{UserID: "u1", SessionID: "s9"}), doc)
	require.NoError(t, err)
	assert.Equal(t, pdfBytes, data)

	items, err := repo.ListByUser(context.Background(), "u1", 0, 0)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Grace_Brewster_Hopper_Resume.pdf", items[0].FileName)
	assert.Equal(t, "s9", items[0].SessionID)
}

func TestRecordingSkipsWithoutOwnerOrOnFailure(t *testing.T) {
	svc, repo, _ := newTestService(t)
	calls := 0
	base := generation.GeneratorFunc(func(context.Context, model.ResumeDocument) ([]byte, error) {
		calls++
		if calls == 2 {
			return nil, errors.New("boom")
		}
		return pdfBytes, nil
	})
	gen := Recording(base, svc)

	_, err := gen.Generate(context.Background(), model.NewDocument())
	require.NoError(t, err)
	_, err = gen.Generate(WithOwner(context.Background(), Owner{UserID: "u1"}), model.NewDocument())
	require.Error(t, err)

	items, err := repo.ListByUser(context.Background(), "u1", 0, 0)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestRecordingIgnoresArchiveErrors(t *testing.T) {
	svc := &Service{Repo: failingRepo{NewMemoryRepo()}, Store: local.New(t.TempDir())}
	base := generation.GeneratorFunc(func(context.Context, model.ResumeDocument) ([]byte, error) {
		return pdfBytes, nil
	})
	doc := model.NewDocument()
	doc.PersonalInfo.FullName = "A"

	data, err := Recording(base, svc).Generate(WithOwner(context.Background(), Owner{UserID: "u1"}), doc)
	require.NoError(t, err)
	assert.Equal(t, pdfBytes, data)
}
