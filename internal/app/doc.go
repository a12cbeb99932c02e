// Package app wires configuration, the loopback server, the scroll log and
// the front panel together.
//
// # Overview
//
// Run is the composition root. It loads ~/.config/loopback/config.toml,
// builds the logger, sizes the scroll log from [lcd], opens the configured
// panel and starts serving. With a terminal attached it also runs the
// bubbletea front panel; with --headless it only serves.
//
// # Components
//
//   - app.go: Run and panel selection
//   - loop.go: Loop, the receive, insert, render cycle
//   - logging.go: logrus setup, rotated through lumberjack when the front
//     panel owns the terminal
//   - netinfo.go: the network identity block printed at startup
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       ├─────> config.Load()        Read config.toml
//	       ├─────> newLogger()          stderr or rotated file
//	       ├─────> scrolllog.New()      Ring sized from [lcd]
//	       ├─────> openPanel()          TextFrame, ILI9340 or Discard
//	       ├─────> loopback.NewServer() Echo server, observer feeds Store
//	       ├─────> Loop.Serve()         Blocks until cancel or failure
//	       └─────> ui.Run()             Front panel (not headless)
//
//	Loop.Handle, per chunk:
//	┌─────────────────────────────────────────┐
//	│  trim CR/LF ─> ScrollLog.Insert         │
//	│           ─> ScrollLog.Render(panel)    │
//	│           ─> Store.Received             │
//	└─────────────────────────────────────────┘
//
// # Failure Handling
//
// Render errors are logged at warn and kept in the store; the next chunk is
// still processed. A transport error is fatal: Loop logs it, marks the store
// halted and returns it. In headless mode Run returns the error at once. With
// the front panel up, the panel keeps showing the halted state until the user
// quits, and Run then returns the transport error.
//
// # Concurrency
//
// Only Loop mutates the scroll log, from the server goroutine. The front
// panel reads state.Store snapshots and the TextFrame, both of which are
// safe for concurrent use.
package app
