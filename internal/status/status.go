// Package status holds the single-slot user-visible status message.
package status

import "sync"

// Status is one user-visible message with an error marker.
type Status struct {
	Message string `json:"message"`
	Error   bool   `json:"error"`
}

// Reporter keeps exactly one live status at a time. Every operation overwrites
// the slot on entry and on exit; there is no history.
type Reporter struct {
	mu  sync.Mutex
	cur Status
}

// NewReporter creates an empty Reporter.
func NewReporter() *Reporter {
	return &Reporter{}
}

// Set overwrites the current status.
func (r *Reporter) Set(message string, isError bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cur = Status{Message: message, Error: isError}
}

// Current returns the live status.
func (r *Reporter) Current() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cur
}
