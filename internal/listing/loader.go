// Package listing loads samples from the platform and feeds them to a render
// surface. It is also where the active sample binding gets established.
package listing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/taxonomiaia/taxocli/internal/api"
	"github.com/taxonomiaia/taxocli/internal/render"
	"github.com/taxonomiaia/taxocli/internal/session"
)

// Lister is the subset of the API client the loader needs.
type Lister interface {
	FetchSample(ctx context.Context, id string) (*api.SampleRecord, error)
	FetchAllSamples(ctx context.Context) ([]api.SampleRecord, error)
}

// Surface receives the loader's rendered output. The terminal and the HTML
// report both implement it.
type Surface interface {
	Card(c render.Card)
	Notice(text string)
	Error(text string, err error)
}

// Loader fetches one sample or the full collection and renders each as a
// card. Failures are rendered on the surface; Load never propagates them.
type Loader struct {
	client Lister
	active *session.ActiveSample
	stride time.Duration
}

// Option configures a Loader.
type Option func(*Loader)

// WithStride sets the delay between consecutive cards when rendering the
// full collection. Purely cosmetic; zero disables the stagger.
func WithStride(d time.Duration) Option {
	return func(l *Loader) { l.stride = d }
}

// New creates a Loader that records the active sample in active.
func New(client Lister, active *session.ActiveSample, opts ...Option) *Loader {
	l := &Loader{client: client, active: active}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load renders the sample with the given id, or the full collection when id
// is empty. A successful single lookup, or a successful non-empty listing,
// sets the active sample (to id, or to the first listed entry). A lookup
// that finds nothing leaves the active sample untouched.
func (l *Loader) Load(ctx context.Context, id string, surface Surface) {
	if id != "" {
		l.loadOne(ctx, id, surface)
		return
	}
	l.loadAll(ctx, surface)
}

func (l *Loader) loadOne(ctx context.Context, id string, surface Surface) {
	rec, err := l.client.FetchSample(ctx, id)
	if errors.Is(err, api.ErrEmptyResult) {
		surface.Notice(fmt.Sprintf("No sample found with ID %s.", id))
		return
	}
	if err != nil {
		surface.Error("Could not reach the server or decode its response.", err)
		return
	}

	l.active.Set(id)
	surface.Card(render.BuildCard(id, rec.Result))
}

func (l *Loader) loadAll(ctx context.Context, surface Surface) {
	records, err := l.client.FetchAllSamples(ctx)
	if err != nil {
		surface.Error("Could not reach the server or decode its response.", err)
		return
	}
	if len(records) == 0 {
		surface.Notice("No samples registered yet.")
		return
	}

	l.active.Set(records[0].SampleID)

	for i, rec := range records {
		if i > 0 && l.stride > 0 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(l.stride):
			}
		}
		surface.Card(render.BuildCard(rec.SampleID, rec.Result))
	}
}
