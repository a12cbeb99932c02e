package app

import (
	"context"
	"net"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/five82/loopback/internal/display"
	"github.com/five82/loopback/internal/loopback"
	"github.com/five82/loopback/internal/scrolllog"
	"github.com/five82/loopback/internal/state"
)

// Loop is the single thread of control that owns the scroll log: every
// received chunk is inserted and the panel redrawn before the next receive.
type Loop struct {
	scroll *scrolllog.ScrollLog
	panel  display.Panel
	store  *state.Store
	log    logrus.FieldLogger
}

// NewLoop wires a scroll log to the panel it renders on.
func NewLoop(scroll *scrolllog.ScrollLog, panel display.Panel, store *state.Store, logger logrus.FieldLogger) *Loop {
	if panel == nil {
		panel = display.Discard
	}
	if store == nil {
		store = &state.Store{}
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Loop{scroll: scroll, panel: panel, store: store, log: logger}
}

// Serve runs srv until ctx is cancelled or the transport fails. A transport
// failure halts the loop for good: it is logged, recorded in the store and
// returned.
func (l *Loop) Serve(ctx context.Context, srv *loopback.Server) error {
	if err := srv.Listen(ctx); err != nil {
		return l.halt(err)
	}
	if addr := srv.Addr(); addr != nil {
		l.store.Listening(addr.String())
	}

	if err := l.panel.Clear(); err != nil {
		l.log.WithError(err).Warn("clear panel failed")
	}

	if err := srv.Serve(ctx, l.Handle); err != nil {
		return l.halt(err)
	}
	return nil
}

func (l *Loop) halt(err error) error {
	l.log.WithError(err).Error("loopback halted")
	l.store.Halt(err)
	return err
}

// Handle logs a chunk, appends it to the scroll log and redraws the panel.
func (l *Loop) Handle(chunk loopback.Chunk) {
	text := chunkText(chunk.Data)

	l.log.WithFields(logrus.Fields{
		"session": chunk.Session.String(),
		"peer":    addrString(chunk.Peer),
		"bytes":   len(chunk.Data),
	}).Infof("received %q", text)

	l.scroll.Insert(text)
	err := l.scroll.Render(l.panel)
	if err != nil {
		l.log.WithError(err).Warn("render failed")
	}
	l.store.Received(len(chunk.Data), string(scrolllog.NewLine(text, l.scroll.MaxLineLength())), err)
}

// Observe records connection changes in the store.
func (l *Loop) Observe(ev loopback.Event, session uuid.UUID, peer net.Addr) {
	switch ev {
	case loopback.Connected:
		l.store.Connect(addrString(peer), session.String())
	case loopback.Disconnected:
		l.store.Disconnect()
	}
}

// Lines returns the visible scroll log window, oldest first.
func (l *Loop) Lines() []string {
	return l.scroll.Strings()
}

// chunkText drops the line terminator a terminal client sends; the panel
// has no glyph for it.
func chunkText(data []byte) string {
	return strings.TrimRight(string(data), "\r\n")
}

func addrString(a net.Addr) string {
	if a == nil {
		return ""
	}
	return a.String()
}
