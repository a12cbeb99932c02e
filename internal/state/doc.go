// Package state shares server status between the loopback loop and the
// terminal front panel.
//
// The loop is the only writer; the UI reads Snapshot on its own tick. The
// Store is usable as a zero value and guards its snapshot with an RWMutex.
// Snapshot returns a copy, wrapping stored errors so readers never share
// them with the writer.
//
// Halt is one-way: once the transport has failed the snapshot stays halted
// for the life of the process, matching the fail-stop behaviour of the
// server.
package state
