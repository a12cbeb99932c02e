// Package display provides the panels the scroll log is drawn on: an
// in-memory text frame for the terminal front panel, a fan-out for driving
// several panels at once, a call recorder for tests, and an ILI9340 SPI TFT.
package display

import (
	"errors"

	"github.com/five82/loopback/internal/scrolllog"
)

// Panel is a scrolllog.Display that can also be cleared.
type Panel interface {
	scrolllog.Display
	Clear() error
}

// Ensure panels implement Panel at compile time.
var (
	_ Panel = (*TextFrame)(nil)
	_ Panel = (*Recorder)(nil)
	_ Panel = (*ILI9340)(nil)
	_ Panel = multiPanel(nil)
	_ Panel = Discard
)

type multiPanel []Panel

// Multi returns a Panel that forwards every call to each of panels in order.
// A failing panel does not stop the others.
func Multi(panels ...Panel) Panel {
	all := make(multiPanel, 0, len(panels))
	for _, p := range panels {
		if p == nil {
			continue
		}
		if inner, ok := p.(multiPanel); ok {
			all = append(all, inner...)
			continue
		}
		all = append(all, p)
	}
	return all
}

func (m multiPanel) DrawLine(row int, text string) error {
	var errs []error
	for _, p := range m {
		if err := p.DrawLine(row, text); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m multiPanel) Clear() error {
	var errs []error
	for _, p := range m {
		if err := p.Clear(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type discard struct{}

func (discard) DrawLine(int, string) error { return nil }
func (discard) Clear() error               { return nil }

// Discard is a Panel on which all calls succeed without doing anything.
var Discard Panel = discard{}
