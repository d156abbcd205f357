package protocol

import (
	"strings"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	data, err := Encode(CmdBuild, &BuildRequest{
		Manifest: "berth.yaml",
		Root:     "/proj",
		Output:   "dist",
	})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	env, raw, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if env.Command != CmdBuild {
		t.Fatalf("command = %q, want %q", env.Command, CmdBuild)
	}

	req, err := DecodePayload[BuildRequest](raw)
	if err != nil {
		t.Fatalf("DecodePayload failed: %v", err)
	}
	if req.Manifest != "berth.yaml" || req.Root != "/proj" || req.Output != "dist" {
		t.Fatalf("req = %+v, want original fields", req)
	}
}

func TestEncodeNilPayload(t *testing.T) {
	data, err := Encode(CmdOK, nil)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	env, raw, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if env.Command != CmdOK {
		t.Fatalf("command = %q, want ok", env.Command)
	}
	if len(raw) != 0 {
		t.Fatalf("payload = %q, want empty", raw)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{name: "not json", line: "build please"},
		{name: "missing command", line: `{"payload":{}}`},
		{name: "empty object", line: `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := Decode([]byte(tt.line)); err == nil {
				t.Fatalf("Decode(%q) succeeded, want error", tt.line)
			}
		})
	}
}

func TestDecodePayloadEmpty(t *testing.T) {
	if _, err := DecodePayload[BuildRequest](nil); err == nil {
		t.Fatal("empty payload should fail to decode")
	}
}

func TestDecodePayloadMalformed(t *testing.T) {
	_, err := DecodePayload[LaunchRequest]([]byte(`{"image": 42}`))
	if err == nil || !strings.Contains(err.Error(), "decode payload") {
		t.Fatalf("err = %v, want decode payload error", err)
	}
}
