package display

import "sync"

// Call is one DrawLine recorded by a Recorder. Clears are recorded with
// Row -1.
type Call struct {
	Row  int
	Text string
}

// Recorder is a Panel that records calls instead of drawing.
type Recorder struct {
	mu    sync.Mutex
	calls []Call
	// Err, when set, is returned from every DrawLine after recording it.
	Err error
}

func (r *Recorder) DrawLine(row int, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, Call{Row: row, Text: text})
	return r.Err
}

func (r *Recorder) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, Call{Row: -1})
	return nil
}

// Calls returns a copy of everything recorded so far.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Call, len(r.calls))
	copy(out, r.calls)
	return out
}

// Reset forgets recorded calls.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}
