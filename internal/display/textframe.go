package display

import (
	"fmt"
	"strings"
	"sync"
)

// TextFrame is a rows x cols character panel kept in memory. It is safe for
// concurrent use: the server loop draws while the UI reads.
type TextFrame struct {
	mu   sync.RWMutex
	rows []string
	cols int
}

// NewTextFrame allocates a blank frame.
func NewTextFrame(rows, cols int) *TextFrame {
	if rows < 1 {
		rows = 1
	}
	if cols < 1 {
		cols = 1
	}
	return &TextFrame{rows: make([]string, rows), cols: cols}
}

// DrawLine replaces row with text clipped to the frame width.
func (f *TextFrame) DrawLine(row int, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if row < 0 || row >= len(f.rows) {
		return fmt.Errorf("row %d out of range [0,%d)", row, len(f.rows))
	}
	f.rows[row] = clip(text, f.cols)
	return nil
}

// Clear blanks every row.
func (f *TextFrame) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.rows {
		f.rows[i] = ""
	}
	return nil
}

// Rows returns a copy of the frame contents, each row padded to the width.
func (f *TextFrame) Rows() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make([]string, len(f.rows))
	for i, r := range f.rows {
		out[i] = r + strings.Repeat(" ", f.cols-len([]rune(r)))
	}
	return out
}

// Size reports the frame geometry.
func (f *TextFrame) Size() (rows, cols int) {
	return len(f.rows), f.cols
}

func clip(text string, cols int) string {
	var b strings.Builder
	n := 0
	for _, r := range text {
		if n == cols {
			break
		}
		if r < 0x20 || r == 0x7f {
			r = ' '
		}
		b.WriteRune(r)
		n++
	}
	return b.String()
}
