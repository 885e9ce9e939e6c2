package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/troyes-analytics/effectif/internal/acquire"
	"github.com/troyes-analytics/effectif/internal/appstate"
	"github.com/troyes-analytics/effectif/internal/metrics"
	"github.com/troyes-analytics/effectif/internal/squad"
)

// Acquirer runs one full acquisition cycle and always returns a result,
// falling back internally when the source cannot be read.
type Acquirer interface {
	Run(ctx context.Context) *acquire.Result
}

// Snapshotter persists the latest result across restarts.
type Snapshotter interface {
	Store(ctx context.Context, result *acquire.Result) error
	Load(ctx context.Context) (*acquire.Result, error)
}

// Publisher announces completed runs to downstream consumers.
type Publisher interface {
	PublishRefresh(ctx context.Context, result *acquire.Result) error
}

// Broadcaster pushes refresh notices to connected clients.
type Broadcaster interface {
	BroadcastRefresh(result *acquire.Result)
}

// JobState tracks the lifecycle of a refresh job.
type JobState string

const (
	JobIdle      JobState = "idle"
	JobRunning   JobState = "running"
	JobCompleted JobState = "completed"
	JobFailed    JobState = "failed"
)

// JobStatus describes the most recent refresh job.
type JobStatus struct {
	State       JobState   `json:"state"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Attempts    int        `json:"attempts,omitempty"`
	Source      string     `json:"source,omitempty"`
	Error       string     `json:"error,omitempty"`
}

// Options wires optional collaborators into the refresher. Nil fields
// disable the matching side effect.
type Options struct {
	Snapshots   Snapshotter
	Publisher   Publisher
	Broadcaster Broadcaster
	State       *appstate.State
	Interval    time.Duration
}

// Refresher owns the served dataset. It installs the first dataset during
// Bootstrap, refreshes it on a timer, and accepts manual triggers from the
// API. Bootstrap must complete before Current is used.
type Refresher struct {
	acquirer Acquirer
	opts     Options

	mu      sync.RWMutex
	current *acquire.Result

	jobMu   sync.Mutex
	job     JobStatus
	running bool

	// baseCtx outlives individual API requests so a manual refresh is not
	// cancelled when the triggering request returns.
	baseCtx context.Context
}

// NewRefresher creates a refresher around the given acquirer.
func NewRefresher(acquirer Acquirer, opts Options) *Refresher {
	return &Refresher{
		acquirer: acquirer,
		opts:     opts,
		job:      JobStatus{State: JobIdle},
		baseCtx:  context.Background(),
	}
}

// Bootstrap installs the first dataset: a fresh enough snapshot if one is
// cached, otherwise a full acquisition run.
func (r *Refresher) Bootstrap(ctx context.Context) {
	r.baseCtx = ctx

	if r.opts.Snapshots != nil {
		cached, err := r.opts.Snapshots.Load(ctx)
		if err != nil {
			log.Printf("[scheduler] ⚠️  snapshot load failed: %v", err)
		} else if cached != nil && cached.Dataset != nil && cached.Dataset.Len() > 0 {
			log.Printf("[scheduler] ✓ reusing cached snapshot: %d players (%s)",
				cached.Dataset.Len(), cached.Source)
			r.install(cached)
			return
		}
	}

	r.refreshOnce(ctx)
}

// Current returns the most recently installed result.
func (r *Refresher) Current() *acquire.Result {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// Run drives periodic refreshes until the context is cancelled. An
// interval of zero disables the timer and only manual triggers refresh.
func (r *Refresher) Run(ctx context.Context) {
	if r.opts.Interval <= 0 {
		log.Println("[scheduler] → periodic refresh disabled")
		<-ctx.Done()
		return
	}

	log.Printf("[scheduler] → periodic refresh every %v", r.opts.Interval)
	ticker := time.NewTicker(r.opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("[scheduler] → periodic refresh stopped")
			return
		case <-ticker.C:
			if !r.tryBegin() {
				log.Println("[scheduler] ⚠️  refresh already running, skipping tick")
				continue
			}
			r.runJob(ctx)
		}
	}
}

// TriggerRefresh starts a background refresh job. It reports false when a
// job is already running.
func (r *Refresher) TriggerRefresh() bool {
	if !r.tryBegin() {
		return false
	}
	log.Println("[scheduler] → manual refresh triggered")
	go r.runJob(r.baseCtx)
	return true
}

// RefreshStatus returns the state of the most recent refresh job.
func (r *Refresher) RefreshStatus() JobStatus {
	r.jobMu.Lock()
	defer r.jobMu.Unlock()
	return r.job
}

// tryBegin marks a job as running unless one already is.
func (r *Refresher) tryBegin() bool {
	r.jobMu.Lock()
	defer r.jobMu.Unlock()
	if r.running {
		return false
	}
	r.running = true
	now := time.Now()
	r.job = JobStatus{State: JobRunning, StartedAt: &now}
	return true
}

// runJob executes one refresh and records its outcome. tryBegin must have
// succeeded first.
func (r *Refresher) runJob(ctx context.Context) {
	result := r.refreshOnce(ctx)

	r.jobMu.Lock()
	defer r.jobMu.Unlock()
	now := time.Now()
	r.job.CompletedAt = &now
	r.job.Attempts = result.Attempts
	r.job.Source = string(result.Source)
	if err := ctx.Err(); err != nil {
		r.job.State = JobFailed
		r.job.Error = err.Error()
	} else {
		r.job.State = JobCompleted
	}
	r.running = false
}

// refreshOnce acquires a dataset, records it, and installs it.
func (r *Refresher) refreshOnce(ctx context.Context) *acquire.Result {
	start := time.Now()
	result := r.acquirer.Run(ctx)
	metrics.ObserveRun(result, time.Since(start))

	// Only live data is worth caching; the fallback roster is always
	// available locally.
	if r.opts.Snapshots != nil && result.Source == squad.SourceLive {
		if err := r.opts.Snapshots.Store(ctx, result); err != nil {
			log.Printf("[scheduler] ⚠️  snapshot store failed: %v", err)
		}
	}

	if r.opts.Publisher != nil {
		if err := r.opts.Publisher.PublishRefresh(ctx, result); err != nil {
			log.Printf("[scheduler] ⚠️  publish failed: %v", err)
		}
	}

	r.install(result)
	return result
}

// install makes the result the served dataset and fans out notifications.
func (r *Refresher) install(result *acquire.Result) {
	r.mu.Lock()
	r.current = result
	r.mu.Unlock()

	if r.opts.State != nil {
		r.opts.State.SetSource(result.Source)
	}
	metrics.ObserveDataset(result.Dataset)

	if r.opts.Broadcaster != nil {
		r.opts.Broadcaster.BroadcastRefresh(result)
	}
}
