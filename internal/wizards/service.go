// Package wizards exposes resume wizards as server-side sessions: one Wizard and
// one generation Job per session, owned by the caller's identity.
package wizards

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"resume-builder/internal/generatedresumes"
	"resume-builder/internal/shared/metrics"
	"resume-builder/internal/shared/telemetry"
	"resume-builder/resume/generation"
	"resume-builder/resume/wizard"
)

// Service contains the session lifecycle and the guarded operations that need
// more than a single Wizard call.
type Service struct {
	Store      *Store
	Generator  generation.Generator
	JobOptions generation.Options
	Metrics    *metrics.Metrics
	Now        func() time.Time
}

// Create starts a new session for userID at step 0.
func (s *Service) Create(ctx context.Context, userID string) (*Session, error) {
	if userID == "" {
		return nil, ErrInvalidInput
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sess := &Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: s.now(),
		Wizard:    wizard.New(),
	}
	sess.Job = generation.NewJob(s.Generator, s.jobOptions(sess))
	s.Store.Put(sess)

	telemetry.Info("wizard.created", map[string]any{"session_id": sess.ID, "user_id": userID})
	return sess, nil
}

// Get resolves a live session owned by userID.
func (s *Service) Get(ctx context.Context, userID, id string) (*Session, error) {
	if userID == "" || id == "" {
		return nil, ErrInvalidInput
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.Store.Get(userID, id)
}

// Discard removes the session and aborts any generation still running for it.
func (s *Service) Discard(ctx context.Context, userID, id string) error {
	if userID == "" || id == "" {
		return ErrInvalidInput
	}
	sess, err := s.Store.Delete(userID, id)
	if err != nil {
		return err
	}
	sess.Job.Dismiss()
	telemetry.Info("wizard.discarded", map[string]any{"session_id": id, "user_id": userID})
	return nil
}

// Next advances the session one step.
func (s *Service) Next(ctx context.Context, sess *Session) error {
	return s.transition(sess, "next", sess.Wizard.Next)
}

// Prev moves the session back one step.
func (s *Service) Prev(ctx context.Context, sess *Session) error {
	return s.transition(sess, "prev", sess.Wizard.Prev)
}

// GoTo jumps to target.
func (s *Service) GoTo(ctx context.Context, sess *Session, target int) error {
	return s.transition(sess, "goto", func() error { return sess.Wizard.GoToStep(target) })
}

func (s *Service) transition(sess *Session, kind string, fn func() error) error {
	from := sess.Wizard.Step()
	err := fn()
	var stepErr *wizard.StepError
	if errors.As(err, &stepErr) {
		s.Metrics.IncRejectedTransition(int(stepErr.Result.Step))
		field := ""
		if f, ok := stepErr.Result.First(); ok {
			field = f.Field
		}
		telemetry.Info("wizard.transition_rejected", map[string]any{
			"session_id": sess.ID,
			"transition": kind,
			"step":       int(from),
			"field":      field,
		})
		return err
	}
	if err != nil {
		return err
	}
	telemetry.Debug("wizard.transition", map[string]any{
		"session_id": sess.ID,
		"transition": kind,
		"from":       int(from),
		"to":         int(sess.Wizard.Step()),
	})
	return nil
}

// Submit freezes the wizard and starts generating from a snapshot of its document.
// It is only allowed on the last step.
func (s *Service) Submit(ctx context.Context, sess *Session) (generation.Snapshot, error) {
	sess.ops.Lock()
	defer sess.ops.Unlock()

	if sess.Wizard.Step() != wizard.LastStep {
		return generation.Snapshot{}, ErrNotFinalStep
	}
	wasFrozen := sess.Wizard.Frozen()
	sess.Wizard.Freeze()

	runCtx := generatedresumes.WithOwner(ctx, generatedresumes.Owner{UserID: sess.UserID, SessionID: sess.ID})
	if err := sess.Job.Submit(runCtx, sess.Wizard.Snapshot()); err != nil {
		if !wasFrozen {
			sess.Wizard.Thaw()
		}
		return sess.Job.Snapshot(), err
	}
	s.Metrics.IncGenerationStarted()
	telemetry.Info("generation.started", map[string]any{"session_id": sess.ID, "user_id": sess.UserID})
	return sess.Job.Snapshot(), nil
}

// Dismiss closes the result panel: the job returns to idle, aborting a running
// request, and the wizard accepts input again.
func (s *Service) Dismiss(ctx context.Context, sess *Session) generation.Snapshot {
	sess.ops.Lock()
	defer sess.ops.Unlock()

	sess.Job.Dismiss()
	sess.Wizard.Thaw()
	return sess.Job.Snapshot()
}

func (s *Service) jobOptions(sess *Session) generation.Options {
	opts := s.JobOptions
	prev := opts.OnFinish
	opts.OnFinish = func(o generation.Outcome) {
		s.Metrics.ObserveGeneration(string(o.Status), o.Duration)
		fields := map[string]any{
			"session_id":  sess.ID,
			"user_id":     sess.UserID,
			"status":      string(o.Status),
			"duration_ms": o.Duration.Milliseconds(),
			"size_bytes":  o.Size,
		}
		if o.Err != nil {
			fields["err"] = o.Err.Error()
			telemetry.Error("generation.failed", fields)
		} else {
			telemetry.Info("generation.finished", fields)
		}
		if prev != nil {
			prev(o)
		}
	}
	return opts
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
