// Package generatedresumes archives the PDFs produced by wizard sessions so a
// user can list and download them again after the session is gone.
package generatedresumes

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"resume-builder/internal/shared/metrics"
	"resume-builder/internal/shared/storage/object"
)

const pdfMimeType = "application/pdf"

// Service contains business logic for generated resumes.
type Service struct {
	Repo    Repo
	Store   object.ObjectStore
	Metrics *metrics.Metrics
	Now     func() time.Time
}

// Archive stores data and records it for userID. The stored object is removed
// again when the record cannot be written.
func (s *Service) Archive(ctx context.Context, owner Owner, fullName, fileName string, data []byte) (GeneratedResume, error) {
	if strings.TrimSpace(owner.UserID) == "" || strings.TrimSpace(fileName) == "" || len(data) == 0 {
		return GeneratedResume{}, ErrInvalidInput
	}
	if s.Repo == nil || s.Store == nil {
		return GeneratedResume{}, errors.New("missing dependencies")
	}

	obj, err := s.Store.Put(ctx, owner.UserID, fileName, bytes.NewReader(data))
	if err != nil {
		return GeneratedResume{}, fmt.Errorf("store pdf: %w", err)
	}

	mimeType := obj.ContentType
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = pdfMimeType
	}
	rec := GeneratedResume{
		ID:         uuid.NewString(),
		UserID:     owner.UserID,
		SessionID:  owner.SessionID,
		FullName:   fullName,
		FileName:   fileName,
		StorageKey: obj.Key,
		MimeType:   mimeType,
		SizeBytes:  obj.Size,
		CreatedAt:  s.now(),
	}
	if err := s.Repo.Create(ctx, rec); err != nil {
		_ = s.Store.Delete(context.WithoutCancel(ctx), obj.Key)
		return GeneratedResume{}, fmt.Errorf("record generated resume: %w", err)
	}
	s.Metrics.IncArchived()
	return rec, nil
}

// List returns the caller's archived resumes, newest first.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]GeneratedResume, error) {
	if userID == "" {
		return nil, ErrInvalidInput
	}
	return s.Repo.ListByUser(ctx, userID, limit, offset)
}

// Get returns one archived resume owned by userID.
func (s *Service) Get(ctx context.Context, userID, id string) (GeneratedResume, error) {
	if userID == "" || id == "" {
		return GeneratedResume{}, ErrInvalidInput
	}
	return s.Repo.GetByID(ctx, userID, id)
}

// Open returns the record together with a reader over its PDF. The caller closes it.
func (s *Service) Open(ctx context.Context, userID, id string) (GeneratedResume, io.ReadCloser, error) {
	rec, err := s.Get(ctx, userID, id)
	if err != nil {
		return GeneratedResume{}, nil, err
	}
	rc, err := s.Store.Open(ctx, rec.StorageKey)
	if err != nil {
		return GeneratedResume{}, nil, fmt.Errorf("open stored pdf: %w", err)
	}
	return rec, rc, nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
