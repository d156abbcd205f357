package protocol

import (
	"encoding/json"
	"fmt"
)

// A command name carried in an envelope.
type Command string

// Commands understood by the daemon, plus the two response commands the
// daemon sends back (ok and error).
const (
	CmdBuild    Command = "build"
	CmdLaunch   Command = "launch"
	CmdStatus   Command = "status"
	CmdShutdown Command = "shutdown"
	CmdOK       Command = "ok"
	CmdError    Command = "error"
)

// Wire framing for a single request or response.
//
// Envelopes are serialized as one JSON object per line. The payload is
// decoded in a second pass once the command is known.
type Envelope struct {
	Command Command         `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Asks the daemon to execute a build descriptor.
type BuildRequest struct {
	Manifest string `json:"manifest"`           // Path to the descriptor file.
	Root     string `json:"root"`               // Project root for resolving copy sources.
	Output   string `json:"output"`             // Directory for the exported image.
	Platform string `json:"platform,omitempty"` // Target platform, empty for the host default.
}

// Reports a completed build.
type BuildResult struct {
	Output string `json:"output"` // Directory containing the exported image.
}

// Asks the daemon to launch an application container from a built image.
type LaunchRequest struct {
	Image string   `json:"image"`         // OCI archive path or imported tag.
	Name  string   `json:"name"`          // Container name.
	Env   []string `json:"env,omitempty"` // KEY=VALUE overrides applied on top of the image config.
}

// Reports a finished launch.
type LaunchResult struct {
	ExitCode int `json:"exit_code"` // Exit code of the application process.
}

// Reports daemon health and counters.
type StatusResult struct {
	Running bool   `json:"running"`
	Version string `json:"version"`
	Pid     int    `json:"pid"`
	Uptime  string `json:"uptime"`
	Builds  int    `json:"builds"`
}

// Carries an error message back to the client.
type ErrorResult struct {
	Message string `json:"message"`
}

// Serializes a command and payload into an envelope.
func Encode(cmd Command, payload any) ([]byte, error) {
	env := Envelope{Command: cmd}

	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode payload: %w", err)
		}
		env.Payload = raw
	}

	return json.Marshal(env)
}

// Parses an envelope from a single line of JSON.
//
// The payload is returned raw; callers dispatch on the command and decode
// the payload with [DecodePayload].
func Decode(line []byte) (Envelope, json.RawMessage, error) {
	var env Envelope
	if err := json.Unmarshal(line, &env); err != nil {
		return Envelope{}, nil, fmt.Errorf("decode envelope: %w", err)
	}
	if env.Command == "" {
		return Envelope{}, nil, fmt.Errorf("decode envelope: missing command")
	}
	return env, env.Payload, nil
}

// Decodes a raw payload into a typed request or result.
func DecodePayload[T any](raw json.RawMessage) (*T, error) {
	var v T
	if len(raw) == 0 {
		return nil, fmt.Errorf("decode payload: empty payload")
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	return &v, nil
}
