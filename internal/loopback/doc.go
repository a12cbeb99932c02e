// Package loopback implements the TCP loopback transport: a single listening
// socket that serves one peer at a time and echoes every chunk it receives.
//
// Received chunks are handed to a Handler on the serving goroutine after the
// echo is written. A peer closing its side sends the server back to Accept.
// Any other socket failure is returned as a *TransportError, which matches
// ErrTransport, and the server does not resume after it.
package loopback
