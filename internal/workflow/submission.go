// Package workflow drives a sample submission through creation, upload, and
// result polling against the analysis platform.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/taxonomiaia/taxocli/internal/api"
)

// State is the phase of a submission attempt.
type State string

const (
	StateIdle       State = "idle"
	StateValidating State = "validating"
	StateCreating   State = "creating"
	StateUploading  State = "uploading"
	StatePolling    State = "polling"
	StateCompleted  State = "completed"
	StateFailed     State = "failed"
)

// ErrSubmissionActive is returned when a submission is started while another
// one is still in its create/upload phase.
var ErrSubmissionActive = errors.New("a submission is already in progress")

// Platform is the subset of the API client a submission needs.
type Platform interface {
	CreateSample(ctx context.Context, code string) (string, error)
	UploadFiles(ctx context.Context, sampleID, genomePath, imagePath string) (string, error)
	FetchResult(ctx context.Context, sampleID string) (*api.ResultEnvelope, error)
}

// Request is one submission: the user-entered QR code, the genome file, and
// an optional colony image.
type Request struct {
	Code       string
	GenomePath string
	ImagePath  string
}

// Summary is the completed outcome of a submission.
type Summary struct {
	SampleID   string
	Result     api.ClassificationResult
	DetailLink string
}

// Workflow orchestrates submissions. It accepts one create/upload phase at a
// time and owns at most one live poller; starting a new submission cancels
// the previous poller before creating its own.
type Workflow struct {
	client   Platform
	interval time.Duration
	logf     func(format string, args ...any)

	mu     sync.Mutex
	state  State
	busy   bool
	poller *Poller
}

// Option configures a Workflow.
type Option func(*Workflow)

// WithInterval overrides the polling interval. The default is 5 seconds.
func WithInterval(d time.Duration) Option {
	return func(w *Workflow) { w.interval = d }
}

// WithLogf routes diagnostic output, e.g. transient poll failures.
func WithLogf(logf func(format string, args ...any)) Option {
	return func(w *Workflow) { w.logf = logf }
}

// New creates a Workflow around the given platform client.
func New(client Platform, opts ...Option) *Workflow {
	w := &Workflow{
		client:   client,
		interval: 5 * time.Second,
		state:    StateIdle,
		logf:     func(string, ...any) {},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// State returns the phase of the most recent submission attempt.
func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Busy reports whether a submission is in its create/upload phase. Polling
// does not count as busy: the platform accepts a new submission while a
// previous sample is still being analyzed.
func (w *Workflow) Busy() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.busy
}

func (w *Workflow) setState(s State) {
	w.mu.Lock()
	w.state = s
	w.mu.Unlock()
}

// Start validates the request, registers the sample, uploads its files, and
// hands the sample to a background poller whose handle it returns. Interim
// user-facing status messages are delivered through onStatus, which may be
// nil. The workflow is released for the next submission on every exit path,
// success or failure.
func (w *Workflow) Start(ctx context.Context, req Request, onStatus func(string)) (*Poller, error) {
	if onStatus == nil {
		onStatus = func(string) {}
	}

	w.mu.Lock()
	if w.busy {
		w.mu.Unlock()
		return nil, ErrSubmissionActive
	}
	w.busy = true
	w.mu.Unlock()

	release := func() {
		w.mu.Lock()
		w.busy = false
		w.mu.Unlock()
	}

	poller, err := w.run(ctx, req, onStatus)
	release()
	if err != nil {
		w.setState(StateFailed)
		return nil, err
	}
	return poller, nil
}

func (w *Workflow) run(ctx context.Context, req Request, onStatus func(string)) (*Poller, error) {
	w.setState(StateValidating)
	if strings.TrimSpace(req.Code) == "" || req.GenomePath == "" {
		return nil, &api.ValidationError{Reason: "You must provide a sample ID and a genome file."}
	}

	w.setState(StateCreating)
	onStatus("Submitting sample...")
	sampleID, err := w.client.CreateSample(ctx, strings.TrimSpace(req.Code))
	if err != nil {
		return nil, fmt.Errorf("creating sample: %w", err)
	}

	w.setState(StateUploading)
	message, err := w.client.UploadFiles(ctx, sampleID, req.GenomePath, req.ImagePath)
	if err != nil {
		return nil, fmt.Errorf("uploading files for sample %s: %w", sampleID, err)
	}
	if message == "" {
		message = "Files received."
	}
	onStatus(message + " Analyzing sample...")

	w.setState(StatePolling)
	return w.startPoller(sampleID, onStatus), nil
}

// startPoller supersedes any live poller and starts a new one for sampleID.
func (w *Workflow) startPoller(sampleID string, onStatus func(string)) *Poller {
	w.mu.Lock()
	prev := w.poller
	ctx, cancel := context.WithCancel(context.Background())
	p := &Poller{
		sampleID: sampleID,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	w.poller = p
	w.mu.Unlock()

	if prev != nil {
		prev.Cancel()
	}

	go w.poll(ctx, p, onStatus)
	return p
}

// poll issues one FetchResult per tick until a payload with a non-empty
// classification arrives, then stops the timer for good. A failed tick is
// logged and does not terminate the loop; the next tick runs on the same
// schedule.
func (w *Workflow) poll(ctx context.Context, p *Poller, onStatus func(string)) {
	defer close(p.done)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.err = ctx.Err()
			return
		case <-ticker.C:
			env, err := w.client.FetchResult(ctx, p.sampleID)
			if err != nil {
				w.logf("polling sample %s: %v", p.sampleID, err)
				continue
			}
			if env.Completed() {
				w.setState(StateCompleted)
				p.summary = &Summary{
					SampleID:   p.sampleID,
					Result:     *env.Result,
					DetailLink: "results.html?id=" + p.sampleID,
				}
				return
			}
			message := env.Message
			if message == "" {
				message = "Analysis in progress..."
			}
			onStatus(message)
		}
	}
}
