package workflow

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/taxonomiaia/taxocli/internal/api"
)

// fakePlatform scripts the platform's answers and counts calls.
type fakePlatform struct {
	mu          sync.Mutex
	createCalls int
	uploadCalls int
	pollCalls   int

	createErr error
	uploadErr error

	// polls holds one scripted outcome per FetchResult call; the last entry
	// repeats once exhausted.
	polls []pollStep
}

type pollStep struct {
	env *api.ResultEnvelope
	err error
}

func processing(message string) pollStep {
	return pollStep{env: &api.ResultEnvelope{Status: "processing", Message: message}}
}

func completed(classification, confidence string) pollStep {
	return pollStep{env: &api.ResultEnvelope{
		Result: &api.ClassificationResult{
			Classification: classification,
			Confidence:     api.Confidence(confidence),
			Evidence:       "16S markers",
		},
	}}
}

func (f *fakePlatform) CreateSample(ctx context.Context, code string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if f.createErr != nil {
		return "", f.createErr
	}
	return "42", nil
}

func (f *fakePlatform) UploadFiles(ctx context.Context, sampleID, genomePath, imagePath string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploadCalls++
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	return "ok", nil
}

func (f *fakePlatform) FetchResult(ctx context.Context, sampleID string) (*api.ResultEnvelope, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pollCalls++
	step := f.polls[len(f.polls)-1]
	if f.pollCalls <= len(f.polls) {
		step = f.polls[f.pollCalls-1]
	}
	if step.err != nil {
		return nil, step.err
	}
	return step.env, nil
}

func (f *fakePlatform) counts() (create, upload, poll int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.createCalls, f.uploadCalls, f.pollCalls
}

func TestValidationNeverReachesNetwork(t *testing.T) {
	tests := []struct {
		name string
		req  Request
	}{
		{"empty code", Request{Code: "", GenomePath: "genome.fasta"}},
		{"whitespace code", Request{Code: "   \t", GenomePath: "genome.fasta"}},
		{"missing genome", Request{Code: "QR-7"}},
		{"both missing", Request{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			platform := &fakePlatform{polls: []pollStep{processing("")}}
			wf := New(platform, WithInterval(time.Millisecond))

			_, err := wf.Start(context.Background(), tt.req, nil)

			var validation *api.ValidationError
			if !errors.As(err, &validation) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if create, _, _ := platform.counts(); create != 0 {
				t.Errorf("create calls: got %d, want 0", create)
			}
			if wf.State() != StateFailed {
				t.Errorf("state: got %q, want %q", wf.State(), StateFailed)
			}
		})
	}
}

func TestUploadFailureReleasesWorkflow(t *testing.T) {
	platform := &fakePlatform{
		uploadErr: &api.RemoteError{Status: 404, Detail: "Sample ID not found"},
		polls:     []pollStep{processing("")},
	}
	wf := New(platform, WithInterval(time.Millisecond))

	_, err := wf.Start(context.Background(), Request{Code: "QR-7", GenomePath: "genome.fasta"}, nil)
	if err == nil {
		t.Fatal("expected upload failure")
	}
	var remote *api.RemoteError
	if !errors.As(err, &remote) {
		t.Fatalf("expected RemoteError, got %v", err)
	}
	if wf.State() != StateFailed {
		t.Errorf("state: got %q, want %q", wf.State(), StateFailed)
	}
	if wf.Busy() {
		t.Error("workflow still busy after failure")
	}

	// The submit action is usable again: a second attempt goes through.
	platform.uploadErr = nil
	poller, err := wf.Start(context.Background(), Request{Code: "QR-7", GenomePath: "genome.fasta"}, nil)
	if err != nil {
		t.Fatalf("second submission failed: %v", err)
	}
	poller.Cancel()
}

func TestPollingStopsAtCompletion(t *testing.T) {
	platform := &fakePlatform{
		polls: []pollStep{
			processing("Analysis still in progress"),
			completed("Bacteria", "0.9"),
		},
	}
	wf := New(platform, WithInterval(5*time.Millisecond))

	var statuses []string
	var statusMu sync.Mutex
	onStatus := func(s string) {
		statusMu.Lock()
		statuses = append(statuses, s)
		statusMu.Unlock()
	}

	poller, err := wf.Start(context.Background(), Request{Code: "QR-7", GenomePath: "genome.fasta"}, onStatus)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	summary, err := poller.Wait()
	if err != nil {
		t.Fatalf("Wait failed: %v", err)
	}
	if summary.SampleID != "42" {
		t.Errorf("sample id: got %q, want %q", summary.SampleID, "42")
	}
	if summary.Result.Classification != "Bacteria" {
		t.Errorf("classification: got %q", summary.Result.Classification)
	}
	if string(summary.Result.Confidence) != "0.9" {
		t.Errorf("confidence: got %q, want %q", summary.Result.Confidence, "0.9")
	}
	if !strings.Contains(summary.DetailLink, "42") {
		t.Errorf("detail link %q does not reference the sample id", summary.DetailLink)
	}
	if wf.State() != StateCompleted {
		t.Errorf("state: got %q, want %q", wf.State(), StateCompleted)
	}

	statusMu.Lock()
	sawProcessing := false
	for _, s := range statuses {
		if strings.Contains(s, "in progress") {
			sawProcessing = true
		}
	}
	statusMu.Unlock()
	if !sawProcessing {
		t.Error("processing status never surfaced")
	}

	// The timer is gone: no further polls arrive after completion.
	_, _, polls := platform.counts()
	if polls != 2 {
		t.Fatalf("poll calls at completion: got %d, want 2", polls)
	}
	time.Sleep(30 * time.Millisecond)
	if _, _, after := platform.counts(); after != polls {
		t.Errorf("poller kept ticking after completion: %d -> %d", polls, after)
	}
}

func TestPollingSurvivesTransientFailure(t *testing.T) {
	platform := &fakePlatform{
		polls: []pollStep{
			{err: &api.ConnectivityError{Err: errors.New("connection reset")}},
			completed("Bacteria", "0.9"),
		},
	}
	wf := New(platform, WithInterval(5*time.Millisecond))

	poller, err := wf.Start(context.Background(), Request{Code: "QR-7", GenomePath: "genome.fasta"}, nil)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	summary, err := poller.Wait()
	if err != nil {
		t.Fatalf("Wait failed after transient poll error: %v", err)
	}
	if summary.Result.Classification != "Bacteria" {
		t.Errorf("classification: got %q", summary.Result.Classification)
	}
	if _, _, polls := platform.counts(); polls != 2 {
		t.Errorf("poll calls: got %d, want 2", polls)
	}
}

func TestNewSubmissionSupersedesPoller(t *testing.T) {
	platform := &fakePlatform{
		polls: []pollStep{processing("still going")},
	}
	wf := New(platform, WithInterval(5*time.Millisecond))

	first, err := wf.Start(context.Background(), Request{Code: "QR-1", GenomePath: "genome.fasta"}, nil)
	if err != nil {
		t.Fatalf("first Start failed: %v", err)
	}

	second, err := wf.Start(context.Background(), Request{Code: "QR-2", GenomePath: "genome.fasta"}, nil)
	if err != nil {
		t.Fatalf("second Start failed: %v", err)
	}
	defer second.Cancel()

	// The first poller was cancelled by the second submission, not left
	// ticking alongside it.
	if _, err := first.Wait(); !errors.Is(err, context.Canceled) {
		t.Fatalf("first poller: got %v, want context.Canceled", err)
	}
}

func TestStartWhileBusy(t *testing.T) {
	platform := &fakePlatform{polls: []pollStep{processing("")}}
	wf := New(platform, WithInterval(time.Millisecond))

	wf.mu.Lock()
	wf.busy = true
	wf.mu.Unlock()

	_, err := wf.Start(context.Background(), Request{Code: "QR-7", GenomePath: "genome.fasta"}, nil)
	if !errors.Is(err, ErrSubmissionActive) {
		t.Fatalf("expected ErrSubmissionActive, got %v", err)
	}
}
