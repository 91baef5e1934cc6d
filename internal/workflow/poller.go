package workflow

import "context"

// Poller is the handle of one background polling loop. At most one poller is
// live per Workflow; a newer submission cancels the older handle.
type Poller struct {
	sampleID string
	cancel   context.CancelFunc
	done     chan struct{}

	// written by the polling goroutine before done is closed
	summary *Summary
	err     error
}

// SampleID returns the sample this poller is awaiting.
func (p *Poller) SampleID() string {
	return p.sampleID
}

// Cancel stops the polling loop. It is safe to call more than once and after
// the loop has already finished.
func (p *Poller) Cancel() {
	p.cancel()
}

// Wait blocks until the analysis completes or the poller is cancelled, and
// returns the completed summary or the cancellation error.
func (p *Poller) Wait() (*Summary, error) {
	<-p.done
	if p.err != nil {
		return nil, p.err
	}
	return p.summary, nil
}

// Done returns a channel closed when the polling loop has finished.
func (p *Poller) Done() <-chan struct{} {
	return p.done
}
