package llmcall

import (
	"sync"
)

// DefaultCapacity bounds the in-memory call history.
const DefaultCapacity = 256

// Recorder keeps a bounded, newest-first history of completion calls in
// memory. The pipeline itself is stateless; the recorder exists for
// operator visibility, not for correctness.
type Recorder struct {
	mu    sync.RWMutex
	calls []*Call
	max   int
}

// NewRecorder creates a recorder holding at most capacity calls.
func NewRecorder(capacity int) *Recorder {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Recorder{max: capacity}
}

// Record appends a call, evicting the oldest entry when full. Nil calls are
// ignored.
func (r *Recorder) Record(call *Call) {
	if call == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls = append(r.calls, call)
	if len(r.calls) > r.max {
		r.calls = r.calls[len(r.calls)-r.max:]
	}
}

// List returns up to limit calls, newest first. limit <= 0 returns all.
func (r *Recorder) List(limit int) []*Call {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := len(r.calls)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]*Call, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, r.calls[i])
	}
	return out
}

// Get returns the call with the given ID, or nil.
func (r *Recorder) Get(id string) *Call {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, call := range r.calls {
		if call.ID == id {
			return call
		}
	}
	return nil
}

// Len returns the number of recorded calls.
func (r *Recorder) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.calls)
}
