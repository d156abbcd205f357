// Package protocol defines the wire format between clients and the daemon.
//
// Messages are newline-delimited JSON envelopes carrying a command name
// and a raw payload. The daemon answers every request with a single ok or
// error envelope before closing the connection.
package protocol
