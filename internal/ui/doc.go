// Package ui implements the terminal front panel: a Bubble Tea program that
// mirrors the LCD and shows server state.
//
// # Layout
//
//	┌──────────────────────────────────────────────────────┐
//	│ loopback  ● CONNECTED 10.0.0.9:41000  Sessions: 3    │  header
//	│ MAC 00:08:DC:12:34:56  IP 192.168.11.2  SN ...       │  network info (n)
//	│ LCD · terminal                                       │
//	│ ╭──────────────────────╮                             │
//	│ │ oldest line          │                             │  mirrored rows
//	│ │ ...                  │                             │
//	│ │ newest line          │                             │
//	│ ╰──────────────────────╯                             │
//	│ Chunks 12  Received 96 B  Last "hello"  2s ago       │  status
//	│ ? Toggle help • q Quit                               │  short help
//	└──────────────────────────────────────────────────────┘
//
// # Refresh
//
// The model never blocks on the server. A tea.Tick (250ms by default) fires
// a command that copies a state.Store snapshot and the TextFrame rows; the
// resulting frameMsg replaces the model's copy. The border turns to the
// theme's focus color while a peer is connected; a transport failure shows
// as HALTED until the user quits.
//
// # Keys
//
//   - q, ctrl+c: quit
//   - ?, h: toggle the help overlay
//   - T: cycle Phosphor, Amber and Paper; saved to prefs.toml
//   - n: toggle the network info line; saved to prefs.toml
package ui
