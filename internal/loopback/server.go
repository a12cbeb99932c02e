package loopback

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"syscall"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// DefaultBufferSize matches the receive buffer of the reference board.
const DefaultBufferSize = 2 * 1024

// ErrTransport marks a failure the server cannot continue after.
var ErrTransport = errors.New("loopback transport error")

// TransportError wraps the failing socket operation.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("loopback %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Is reports ErrTransport so callers can match without a type assertion.
func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// Chunk is one receive from a peer. Data is only valid for the duration of
// the handler call.
type Chunk struct {
	Session uuid.UUID
	Peer    net.Addr
	Data    []byte
}

// Event reports connection lifecycle changes to an Observer.
type Event int

const (
	Connected Event = iota
	Disconnected
)

// Observer is notified when a peer connects or disconnects.
type Observer func(ev Event, session uuid.UUID, peer net.Addr)

// Handler consumes received chunks. It runs on the serving goroutine and
// must copy Data if it keeps it.
type Handler func(Chunk)

// Options configure a Server.
type Options struct {
	Addr       string
	BufferSize int
	Logger     logrus.FieldLogger
	Observer   Observer
	// Listener, when set, is served instead of binding Addr.
	Listener net.Listener
}

// Server is a single-socket TCP loopback: one connection at a time, every
// chunk echoed back to its sender.
type Server struct {
	addr    string
	bufSize int
	log     logrus.FieldLogger
	observe Observer

	mu       sync.Mutex
	listener net.Listener
	conn     net.Conn
}

// NewServer validates options and returns an unstarted Server.
func NewServer(opts Options) (*Server, error) {
	if opts.Listener == nil {
		if opts.Addr == "" {
			return nil, fmt.Errorf("listen address is empty")
		}
		if _, _, err := net.SplitHostPort(opts.Addr); err != nil {
			return nil, fmt.Errorf("parse listen address: %w", err)
		}
	}
	size := opts.BufferSize
	if size <= 0 {
		size = DefaultBufferSize
	}
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Server{
		addr:     opts.Addr,
		bufSize:  size,
		log:      logger,
		observe:  opts.Observer,
		listener: opts.Listener,
	}, nil
}

// Listen binds the listening socket. Serve calls it when needed.
func (s *Server) Listen(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return nil
	}
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.addr)
	if err != nil {
		return &TransportError{Op: "listen", Err: err}
	}
	s.listener = ln
	return nil
}

// Addr returns the bound address, or nil before Listen.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Serve accepts and echoes until ctx is cancelled (returns nil) or the
// transport fails (returns a *TransportError). It never resumes after a
// transport error.
func (s *Server) Serve(ctx context.Context, handle Handler) error {
	if err := s.Listen(ctx); err != nil {
		return err
	}

	stop := context.AfterFunc(ctx, s.closeAll)
	defer stop()
	defer s.closeAll()

	s.log.WithField("addr", s.Addr().String()).Info("loopback listening")

	buf := make([]byte, s.bufSize)
	for {
		conn, err := s.accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return &TransportError{Op: "accept", Err: err}
		}

		err = s.serveConn(ctx, conn, buf, handle)
		if ctx.Err() != nil {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (s *Server) accept() (net.Conn, error) {
	s.mu.Lock()
	ln := s.listener
	s.mu.Unlock()
	if ln == nil {
		return nil, net.ErrClosed
	}
	conn, err := ln.Accept()
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		_ = conn.Close()
		return nil, net.ErrClosed
	}
	s.conn = conn
	return conn, nil
}

func (s *Server) serveConn(ctx context.Context, conn net.Conn, buf []byte, handle Handler) error {
	session := uuid.New()
	peer := conn.RemoteAddr()
	logger := s.log.WithFields(logrus.Fields{"session": session.String(), "peer": peer.String()})

	defer func() {
		_ = conn.Close()
		s.mu.Lock()
		s.conn = nil
		s.mu.Unlock()
		if s.observe != nil {
			s.observe(Disconnected, session, peer)
		}
		logger.Info("peer disconnected")
	}()

	logger.Info("peer connected")
	if s.observe != nil {
		s.observe(Connected, session, peer)
	}

	for {
		n, err := conn.Read(buf)
		if n > 0 {
			if _, werr := conn.Write(buf[:n]); werr != nil {
				if ctx.Err() != nil || isPeerGone(werr) {
					return nil
				}
				return &TransportError{Op: "send", Err: werr}
			}
			if handle != nil {
				handle(Chunk{Session: session, Peer: peer, Data: buf[:n]})
			}
			clear(buf[:n])
		}
		if err != nil {
			if ctx.Err() != nil || isPeerGone(err) {
				return nil
			}
			return &TransportError{Op: "recv", Err: err}
		}
	}
}

func (s *Server) closeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != nil {
		_ = s.conn.Close()
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

// isPeerGone reports errors that mean the remote side closed, which sends
// the server back to accepting rather than halting it.
func isPeerGone(err error) bool {
	return errors.Is(err, io.EOF) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EPIPE)
}
