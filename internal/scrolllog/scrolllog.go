package scrolllog

import (
	"errors"
	"fmt"
	"strings"
)

// Default geometry matches the 240x320 panel used by the loopback board.
const (
	DefaultCapacity        = 15
	DefaultMaxVisibleLines = 15
	DefaultMaxLineLength   = 20
)

// Display draws one line of text at a screen row. Implementations overwrite
// whatever the row held before.
type Display interface {
	DrawLine(row int, text string) error
}

// State reports whether the visible window is still growing.
type State int

const (
	// Filling means fewer than MaxVisibleLines rows are on screen.
	Filling State = iota
	// Saturated means the window is full and every insert scrolls.
	Saturated
)

func (s State) String() string {
	switch s {
	case Filling:
		return "filling"
	case Saturated:
		return "saturated"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Options sizes a ScrollLog.
type Options struct {
	Capacity        int
	MaxVisibleLines int
	// MaxLineLength counts the terminator, so a line stores at most
	// MaxLineLength-1 bytes.
	MaxLineLength int
}

// DefaultOptions returns the 15 slot, 15 row, 20 byte geometry.
func DefaultOptions() Options {
	return Options{
		Capacity:        DefaultCapacity,
		MaxVisibleLines: DefaultMaxVisibleLines,
		MaxLineLength:   DefaultMaxLineLength,
	}
}

// Validate checks that the geometry can back a ScrollLog.
func (o Options) Validate() error {
	if o.Capacity <= 0 {
		return fmt.Errorf("capacity must be positive, got %d", o.Capacity)
	}
	if o.MaxVisibleLines <= 0 {
		return fmt.Errorf("max visible lines must be positive, got %d", o.MaxVisibleLines)
	}
	if o.MaxVisibleLines > o.Capacity {
		return fmt.Errorf("max visible lines %d exceeds capacity %d", o.MaxVisibleLines, o.Capacity)
	}
	if o.MaxLineLength < 2 {
		return fmt.Errorf("max line length must be at least 2, got %d", o.MaxLineLength)
	}
	return nil
}

// ScrollLog is a fixed-capacity ring of text lines replayed to a Display as a
// scrolling window, oldest line at row 0.
//
// A ScrollLog is not safe for concurrent use; it is owned by the loop that
// receives text.
type ScrollLog struct {
	lines      []Line
	maxVisible int
	maxLen     int

	cursor   int // most recently written slot
	visible  int // rows on screen, 1..maxVisible
	inserted uint64
}

// New builds an empty ScrollLog with one (blank) visible row.
func New(opts Options) (*ScrollLog, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &ScrollLog{
		lines:      make([]Line, opts.Capacity),
		maxVisible: opts.MaxVisibleLines,
		maxLen:     opts.MaxLineLength,
		visible:    1,
	}, nil
}

// Default builds a ScrollLog with DefaultOptions.
func Default() *ScrollLog {
	s, err := New(DefaultOptions())
	if err != nil {
		panic(err)
	}
	return s
}

// Insert stores text in the next slot. While filling, slots are used in
// order from 0; once saturated the oldest visible slot is overwritten.
func (s *ScrollLog) Insert(text string) {
	line := NewLine(text, s.maxLen)

	switch {
	case s.inserted == 0:
		s.cursor = 0
	case s.visible < s.maxVisible:
		s.cursor = s.visible
		s.visible++
	default:
		s.cursor = (s.cursor + 1) % len(s.lines)
	}
	s.lines[s.cursor] = line
	s.inserted++
}

// Render redraws every visible row, oldest first. A failed row does not stop
// the pass; all failures are returned together.
func (s *ScrollLog) Render(d Display) error {
	var errs []error
	for row, line := range s.Lines() {
		if err := d.DrawLine(row, string(line)); err != nil {
			errs = append(errs, fmt.Errorf("draw row %d: %w", row, err))
		}
	}
	return errors.Join(errs...)
}

// Lines returns the visible window, oldest first.
func (s *ScrollLog) Lines() []Line {
	out := make([]Line, s.visible)
	start := s.oldest()
	for i := range out {
		out[i] = s.lines[(start+i)%len(s.lines)]
	}
	return out
}

// Strings is Lines converted to plain strings.
func (s *ScrollLog) Strings() []string {
	lines := s.Lines()
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = string(l)
	}
	return out
}

func (s *ScrollLog) oldest() int {
	n := len(s.lines)
	return ((s.cursor-s.visible+1)%n + n) % n
}

// State reports Filling until the window reaches MaxVisibleLines.
func (s *ScrollLog) State() State {
	if s.visible == s.maxVisible && s.inserted >= uint64(s.maxVisible) {
		return Saturated
	}
	return Filling
}

func (s *ScrollLog) Capacity() int         { return len(s.lines) }
func (s *ScrollLog) MaxVisibleLines() int  { return s.maxVisible }
func (s *ScrollLog) MaxLineLength() int    { return s.maxLen }
func (s *ScrollLog) VisibleLineCount() int { return s.visible }
func (s *ScrollLog) Cursor() int           { return s.cursor }
func (s *ScrollLog) Inserted() uint64      { return s.inserted }

// Line is panel text bounded by a ScrollLog's line length.
type Line string

// NewLine bounds text the way a zero-terminated slot of maxLen bytes would:
// it stops at the first NUL and keeps at most maxLen-1 bytes.
func NewLine(text string, maxLen int) Line {
	if i := strings.IndexByte(text, 0); i >= 0 {
		text = text[:i]
	}
	if limit := maxLen - 1; limit >= 0 && len(text) > limit {
		text = text[:limit]
	}
	return Line(text)
}
