package wizards

import (
	"context"
	"sync"
	"time"

	"resume-builder/internal/shared/metrics"
	"resume-builder/internal/shared/telemetry"
	"resume-builder/resume/generation"
	"resume-builder/resume/wizard"
)

// Session is one wizard run: the document being edited and its generation job.
type Session struct {
	ID        string
	UserID    string
	CreatedAt time.Time
	Wizard    *wizard.Wizard
	Job       *generation.Job

	// ops serializes submit and dismiss so freezing and the job stay in step.
	ops sync.Mutex

	mu       sync.Mutex
	lastSeen time.Time
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

// LastSeen returns the time of the last request that resolved this session.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Store holds live sessions in memory. Sessions idle longer than TTL are
// evicted by Sweep.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	ttl     time.Duration
	now     func() time.Time
	metrics *metrics.Metrics
}

// NewStore builds a Store. A non-positive ttl disables expiry.
func NewStore(ttl time.Duration, m *metrics.Metrics) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
		metrics:  m,
	}
}

// Put stores s and starts its idle timer.
func (st *Store) Put(s *Session) {
	s.touch(st.now())
	st.mu.Lock()
	st.sessions[s.ID] = s
	n := len(st.sessions)
	st.mu.Unlock()
	st.metrics.SetActiveSessions(n)
}

// Get resolves id for userID and refreshes its idle timer.
func (st *Store) Get(userID, id string) (*Session, error) {
	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	if s.UserID != userID {
		return nil, ErrForbidden
	}
	now := st.now()
	if st.expired(s, now) {
		return nil, ErrNotFound
	}
	s.touch(now)
	return s, nil
}

// Delete removes the session and returns it.
func (st *Store) Delete(userID, id string) (*Session, error) {
	st.mu.Lock()
	s, ok := st.sessions[id]
	if !ok {
		st.mu.Unlock()
		return nil, ErrNotFound
	}
	if s.UserID != userID {
		st.mu.Unlock()
		return nil, ErrForbidden
	}
	delete(st.sessions, id)
	n := len(st.sessions)
	st.mu.Unlock()
	st.metrics.SetActiveSessions(n)
	return s, nil
}

func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Sweep evicts expired sessions, dismisses their jobs and returns how many were removed.
func (st *Store) Sweep() int {
	now := st.now()
	var evicted []*Session
	st.mu.Lock()
	for id, s := range st.sessions {
		if st.expired(s, now) {
			evicted = append(evicted, s)
			delete(st.sessions, id)
		}
	}
	n := len(st.sessions)
	st.mu.Unlock()

	for _, s := range evicted {
		s.Job.Dismiss()
	}
	if len(evicted) > 0 {
		telemetry.Info("wizard.sessions_expired", map[string]any{"count": len(evicted), "active": n})
	}
	st.metrics.SetActiveSessions(n)
	return len(evicted)
}

// Run sweeps every interval until ctx is done.
func (st *Store) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = time.Minute
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			st.Sweep()
		}
	}
}

func (st *Store) expired(s *Session, now time.Time) bool {
	return st.ttl > 0 && now.Sub(s.LastSeen()) > st.ttl
}
