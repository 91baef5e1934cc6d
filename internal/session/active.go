// Package session holds the page-lifetime UI state shared between the
// results view and the chat panel.
package session

import "sync"

// ActiveSample is the sample id that chat messages are currently addressed
// to. Set is its only mutation; the binding is never cleared, only replaced.
// Readers always observe the value at read time, so a chat send uses whatever
// sample was active at send time, not at compose time.
type ActiveSample struct {
	mu  sync.Mutex
	id  string
	set bool
}

// Set replaces the active sample binding.
func (a *ActiveSample) Set(id string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.id = id
	a.set = true
}

// Get returns the active sample id, and whether one has been set.
func (a *ActiveSample) Get() (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.id, a.set
}
