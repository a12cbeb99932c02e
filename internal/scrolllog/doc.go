// Package scrolllog implements the bounded text log shown on the loopback
// panel.
//
// # Overview
//
// A ScrollLog keeps a fixed number of short text lines in a ring and replays
// a window of them to a Display after every insert. Row 0 always shows the
// oldest line still on screen and the last visible row shows the newest.
// Scrolling is done by redrawing the whole window, never by moving pixels.
//
// # Geometry
//
//   - Capacity: slots in the ring (default 15)
//   - MaxVisibleLines: rows on the panel (default 15, at most Capacity)
//   - MaxLineLength: slot width in bytes including the terminator (default 20)
//
// # States
//
//	Filling ──(insert reaches MaxVisibleLines)──> Saturated
//
// While Filling, lines land in slots 0, 1, 2, ... and the window grows by one
// row per insert. Saturated is terminal: each insert overwrites the slot after
// the previous one, modulo Capacity, and the window start moves with it.
//
// The oldest visible slot is always
//
//	(cursor - visible + 1) mod Capacity
//
// so the wrap from Capacity-1 to 0 needs no special case.
//
// # Truncation
//
// NewLine mirrors a zero-terminated slot: text stops at the first NUL and
// keeps at most MaxLineLength-1 bytes. Longer input is cut silently.
//
// # Usage
//
//	log := scrolllog.Default()
//	log.Insert("hello")
//	if err := log.Render(panel); err != nil {
//		logger.WithError(err).Warn("render failed")
//	}
package scrolllog
