package state

import (
	"fmt"
	"sync"
	"time"
)

// Snapshot is the server status shown by the front panel.
type Snapshot struct {
	Listening   string
	Connected   bool
	Peer        string
	Session     string
	Sessions    int
	Chunks      uint64
	Bytes       uint64
	LastText    string
	LastUpdated time.Time
	RenderError error
	// Halted is set once the transport failed; the server does not serve
	// after it.
	Halted    bool
	HaltError error
}

// Store coordinates updates from the server loop with UI reads.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Listening records the bound address.
func (s *Store) Listening(addr string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Listening = addr
	s.snapshot.LastUpdated = time.Now()
}

// Connect records a new peer session.
func (s *Store) Connect(peer, session string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Connected = true
	s.snapshot.Peer = peer
	s.snapshot.Session = session
	s.snapshot.Sessions++
	s.snapshot.LastUpdated = time.Now()
}

// Disconnect marks the peer gone. The last peer stays visible.
func (s *Store) Disconnect() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Connected = false
	s.snapshot.LastUpdated = time.Now()
}

// Received counts one chunk and the render outcome that followed it.
func (s *Store) Received(n int, text string, renderErr error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Chunks++
	s.snapshot.Bytes += uint64(n)
	s.snapshot.LastText = text
	s.snapshot.RenderError = renderErr
	s.snapshot.LastUpdated = time.Now()
}

// Halt records the fatal transport error. Later calls keep the first error.
func (s *Store) Halt(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snapshot.Halted {
		return
	}
	s.snapshot.Halted = true
	s.snapshot.HaltError = err
	s.snapshot.Connected = false
	s.snapshot.LastUpdated = time.Now()
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	if s.snapshot.HaltError != nil {
		snap.HaltError = fmt.Errorf("%w", s.snapshot.HaltError)
	}
	if s.snapshot.RenderError != nil {
		snap.RenderError = fmt.Errorf("%w", s.snapshot.RenderError)
	}
	return snap
}
