// Package generation runs one resume generation request at a time and reports
// simulated progress while it is outstanding.
package generation

import (
	"context"
	"errors"
	"math/rand/v2"
	"regexp"
	"sync"
	"time"

	"resume-builder/resume/model"
)

var (
	ErrInProgress = errors.New("a generation is already in progress")
	ErrNoArtifact = errors.New("no generated resume to download")
)

// Status is the lifecycle state of a Job.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusGenerating Status = "generating"
	StatusSucceeded  Status = "succeeded"
	StatusFailed     Status = "failed"
)

const (
	// ProgressCeiling is the highest progress shown while the request is outstanding.
	ProgressCeiling = 90

	DefaultTickInterval = 300 * time.Millisecond
	DefaultSettleDelay  = 600 * time.Millisecond

	pdfContentType = "application/pdf"
)

// Generator turns a document into a PDF.
type Generator interface {
	Generate(ctx context.Context, doc model.ResumeDocument) ([]byte, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, doc model.ResumeDocument) ([]byte, error)

func (f GeneratorFunc) Generate(ctx context.Context, doc model.ResumeDocument) ([]byte, error) {
	return f(ctx, doc)
}

// Outcome describes a finished run. It is passed to Options.OnFinish.
type Outcome struct {
	Status   Status
	Duration time.Duration
	Size     int
	Err      error
}

type Options struct {
	TickInterval time.Duration
	SettleDelay  time.Duration
	// Increment returns the progress added per tick. Defaults to a uniform value in [2,7].
	Increment func() int
	Now       func() time.Time
	// OnFinish is called once per run that reaches Succeeded or Failed. Dismissed runs
	// are not reported.
	OnFinish func(Outcome)
}

func (o Options) withDefaults() Options {
	if o.TickInterval <= 0 {
		o.TickInterval = DefaultTickInterval
	}
	if o.SettleDelay < 0 {
		o.SettleDelay = 0
	}
	if o.Increment == nil {
		o.Increment = func() int { return 2 + rand.IntN(6) }
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Artifact is a downloadable generated resume.
type Artifact struct {
	FileName    string
	ContentType string
	Data        []byte
}

// Snapshot is a point-in-time view of a Job.
type Snapshot struct {
	Status      Status     `json:"status"`
	Progress    int        `json:"progressPercent"`
	HasArtifact bool       `json:"hasArtifact"`
	StartedAt   *time.Time `json:"startedAt,omitempty"`
	FinishedAt  *time.Time `json:"finishedAt,omitempty"`
}

// Job is safe for concurrent use.
type Job struct {
	gen  Generator
	opts Options

	mu         sync.Mutex
	status     Status
	progress   int
	artifact   []byte
	fileName   string
	lastErr    error
	startedAt  time.Time
	finishedAt time.Time
	seq        uint64
	current    *run
}

// run is one submission. Its token ties asynchronous callbacks to the submission
// that started them.
type run struct {
	token    uint64
	cancel   context.CancelFunc
	stop     chan struct{}
	stopOnce sync.Once
	tickDone chan struct{}
	done     chan struct{}
}

func (r *run) stopTicker() {
	r.stopOnce.Do(func() { close(r.stop) })
	<-r.tickDone
}

func NewJob(gen Generator, opts Options) *Job {
	return &Job{gen: gen, opts: opts.withDefaults(), status: StatusIdle}
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// FileName returns the download name for a resume: whitespace runs in the full
// name become a single underscore.
func FileName(fullName string) string {
	return whitespaceRun.ReplaceAllString(fullName, "_") + "_Resume.pdf"
}

// Submit starts generating doc. It is allowed from any state except Generating.
// The request runs detached from ctx's cancellation; Dismiss aborts it.
func (j *Job) Submit(ctx context.Context, doc model.ResumeDocument) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.status == StatusGenerating {
		return ErrInProgress
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	j.seq++
	r := &run{
		token:    j.seq,
		cancel:   cancel,
		stop:     make(chan struct{}),
		tickDone: make(chan struct{}),
		done:     make(chan struct{}),
	}
	j.current = r
	j.status = StatusGenerating
	j.progress = 0
	j.artifact = nil
	j.lastErr = nil
	j.fileName = FileName(doc.PersonalInfo.FullName)
	j.startedAt = j.opts.Now()
	j.finishedAt = time.Time{}

	go j.tick(r)
	go j.execute(runCtx, r, doc.Clone())
	return nil
}

func (j *Job) tick(r *run) {
	defer close(r.tickDone)
	t := time.NewTicker(j.opts.TickInterval)
	defer t.Stop()
	for {
		select {
		case <-r.stop:
			return
		case <-t.C:
			j.advance(r.token)
		}
	}
}

// advance adds one increment, holding at ProgressCeiling.
func (j *Job) advance(token uint64) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.current == nil || j.current.token != token || j.status != StatusGenerating {
		return
	}
	next := j.progress + j.opts.Increment()
	if next > ProgressCeiling {
		next = ProgressCeiling
	}
	if next > j.progress {
		j.progress = next
	}
}

// execute is the single continuation of a run: request, stop ticker, force 100,
// settle, publish.
func (j *Job) execute(ctx context.Context, r *run, doc model.ResumeDocument) {
	defer close(r.done)
	defer r.cancel()

	data, err := j.gen.Generate(ctx, doc)
	r.stopTicker()

	if err == nil && len(data) == 0 {
		err = errors.New("generator returned an empty document")
	}
	if err != nil {
		j.finish(r, StatusFailed, nil, err)
		return
	}

	if !j.setProgress(r, 100) {
		return
	}
	if j.opts.SettleDelay > 0 {
		timer := time.NewTimer(j.opts.SettleDelay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return
		}
	}
	j.finish(r, StatusSucceeded, data, nil)
}

func (j *Job) setProgress(r *run, p int) bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.current != r {
		return false
	}
	j.progress = p
	return true
}

func (j *Job) finish(r *run, status Status, data []byte, err error) {
	j.mu.Lock()
	if j.current != r {
		j.mu.Unlock()
		return
	}
	j.status = status
	j.artifact = data
	j.lastErr = err
	j.finishedAt = j.opts.Now()
	out := Outcome{Status: status, Duration: j.finishedAt.Sub(j.startedAt), Size: len(data), Err: err}
	j.mu.Unlock()

	if j.opts.OnFinish != nil {
		j.opts.OnFinish(out)
	}
}

// Dismiss returns the job to Idle from any state. An outstanding request is
// cancelled and its result discarded.
func (j *Job) Dismiss() {
	j.mu.Lock()
	r := j.current
	j.current = nil
	j.status = StatusIdle
	j.progress = 0
	j.artifact = nil
	j.lastErr = nil
	j.startedAt = time.Time{}
	j.finishedAt = time.Time{}
	j.mu.Unlock()

	if r != nil {
		r.cancel()
		r.stopTicker()
	}
}

// Download returns the generated resume. It only succeeds in StatusSucceeded.
func (j *Job) Download() (Artifact, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.status != StatusSucceeded || len(j.artifact) == 0 {
		return Artifact{}, ErrNoArtifact
	}
	return Artifact{
		FileName:    j.fileName,
		ContentType: pdfContentType,
		Data:        append([]byte(nil), j.artifact...),
	}, nil
}

func (j *Job) Snapshot() Snapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	s := Snapshot{Status: j.status, Progress: j.progress, HasArtifact: len(j.artifact) > 0}
	if !j.startedAt.IsZero() {
		t := j.startedAt
		s.StartedAt = &t
	}
	if !j.finishedAt.IsZero() {
		t := j.finishedAt
		s.FinishedAt = &t
	}
	return s
}

// LastError is the failure of the most recent run, for logging.
func (j *Job) LastError() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.lastErr
}

// Wait blocks until the current run has finished or ctx is done. It returns nil
// immediately when nothing is running.
func (j *Job) Wait(ctx context.Context) error {
	j.mu.Lock()
	r := j.current
	j.mu.Unlock()
	if r == nil {
		return nil
	}
	select {
	case <-r.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
