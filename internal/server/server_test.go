package server

import (
	"bufio"
	"context"
	"io"
	"net"
	"testing"
	"time"

	"github.com/berthlab/berthd/internal/protocol"
)

func TestContextWithDisconnect(t *testing.T) {
	pr, pw := io.Pipe()

	ctx, cancel := contextWithDisconnect(context.Background(), pr)
	defer cancel()

	select {
	case <-ctx.Done():
		t.Fatal("context cancelled before the peer closed")
	case <-time.After(10 * time.Millisecond):
	}

	pw.Close()

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context not cancelled after the peer closed")
	}
}

func TestStopIdempotent(t *testing.T) {
	s := &Server{done: make(chan struct{})}

	if err := s.Stop(); err != nil {
		t.Fatalf("first Stop failed: %v", err)
	}
	if err := s.Stop(); err != nil {
		t.Fatalf("second Stop failed: %v", err)
	}

	select {
	case <-s.Done():
	default:
		t.Fatal("done channel not closed after Stop")
	}
}

func TestRespond(t *testing.T) {
	s := &Server{}
	client, srv := net.Pipe()
	defer client.Close()

	go func() {
		s.respond(srv, protocol.CmdOK, &protocol.BuildResult{Output: "dist"})
		srv.Close()
	}()

	line, err := bufio.NewReader(client).ReadBytes('\n')
	if err != nil {
		t.Fatalf("reading response: %v", err)
	}

	env, raw, err := protocol.Decode(line)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if env.Command != protocol.CmdOK {
		t.Fatalf("command = %q, want ok", env.Command)
	}

	result, err := protocol.DecodePayload[protocol.BuildResult](raw)
	if err != nil {
		t.Fatalf("DecodePayload failed: %v", err)
	}
	if result.Output != "dist" {
		t.Fatalf("output = %q, want dist", result.Output)
	}
}

func TestHandleStatus(t *testing.T) {
	s := &Server{startedAt: time.Now().Add(-2 * time.Second), builds: 3}
	client, srv := net.Pipe()
	defer client.Close()

	go func() {
		s.handleStatus(srv)
		srv.Close()
	}()

	line, err := bufio.NewReader(client).ReadBytes('\n')
	if err != nil {
		t.Fatalf("reading response: %v", err)
	}

	env, raw, err := protocol.Decode(line)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if env.Command != protocol.CmdOK {
		t.Fatalf("command = %q, want ok", env.Command)
	}

	status, err := protocol.DecodePayload[protocol.StatusResult](raw)
	if err != nil {
		t.Fatalf("DecodePayload failed: %v", err)
	}
	if !status.Running {
		t.Fatal("status.Running = false, want true")
	}
	if status.Builds != 3 {
		t.Fatalf("status.Builds = %d, want 3", status.Builds)
	}
}

func TestDispatchUnknownCommand(t *testing.T) {
	s := &Server{}
	client, srv := net.Pipe()
	defer client.Close()

	go func() {
		s.dispatch(context.Background(), srv, protocol.Command("bogus"), nil)
		srv.Close()
	}()

	line, err := bufio.NewReader(client).ReadBytes('\n')
	if err != nil {
		t.Fatalf("reading response: %v", err)
	}

	env, raw, err := protocol.Decode(line)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if env.Command != protocol.CmdError {
		t.Fatalf("command = %q, want error", env.Command)
	}

	result, err := protocol.DecodePayload[protocol.ErrorResult](raw)
	if err != nil {
		t.Fatalf("DecodePayload failed: %v", err)
	}
	if result.Message == "" {
		t.Fatal("error message empty")
	}
}
