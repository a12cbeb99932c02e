// Package config loads the loopback TOML configuration.
//
// # Resolution
//
//  1. An explicit path (--config) wins
//  2. Otherwise ~/.config/loopback/config.toml
//  3. A missing file is not an error: the compiled-in defaults apply
//  4. Empty or zero fields keep their defaults
//
// # Defaults
//
// The defaults are the constants of the reference board: listen on port
// 5000 with a 2 KiB receive buffer, MAC 00:08:dc:12:34:56, IP 192.168.11.2/24,
// gateway 192.168.11.1, DNS 8.8.8.8, and a 15 row panel of 20 byte lines.
//
// # TOML Format
//
//	[network]
//	listen = "0.0.0.0:5000"
//	buffer_size = 2048
//
//	[lcd]
//	driver = "terminal"   # terminal | ili9340 | none
//	capacity = 15
//	visible_lines = 15
//	line_width = 20
//
//	[log]
//	level = "info"
//	file = "~/.local/state/loopback/loopback.log"
//
// Tilde expansion is applied to the config path and to log.file.
//
// # Errors
//
// Load returns errors for unreadable files, TOML syntax errors and values
// that fail Validate (bad addresses, impossible panel geometry, unknown
// driver). All Validate failures are reported together.
package config
