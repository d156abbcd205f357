package manifest

import (
	"errors"
	"testing"
)

func TestParseDefaults(t *testing.T) {
	m, err := Parse([]byte("name: munimp\nbase: python:3.11.9-slim\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if m.Requirements != DefaultRequirements {
		t.Fatalf("requirements = %q, want %q", m.Requirements, DefaultRequirements)
	}
	if m.Source != DefaultSource {
		t.Fatalf("source = %q, want %q", m.Source, DefaultSource)
	}
	if m.Data != DefaultData {
		t.Fatalf("data = %q, want %q", m.Data, DefaultData)
	}
	if m.Port != DefaultPort {
		t.Fatalf("port = %d, want %d", m.Port, DefaultPort)
	}
	if len(m.Entrypoint) != 2 || m.Entrypoint[0] != "python" {
		t.Fatalf("entrypoint = %v, want default python entrypoint", m.Entrypoint)
	}
	if len(m.Packages) != 1 || m.Packages[0] != "build-essential" {
		t.Fatalf("packages = %v, want [build-essential]", m.Packages)
	}
}

func TestParseExplicitFields(t *testing.T) {
	doc := `
name: dashboard
base: images/base.tar
requirements: locks/pins.txt
source: application
data: assets
port: 9000
entrypoint: [python, serve.py]
env:
  LOG_LEVEL: debug
packages: [build-essential, libpq-dev]
`
	m, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if m.Name != "dashboard" {
		t.Fatalf("name = %q, want dashboard", m.Name)
	}
	if !m.BaseIsArchive() {
		t.Fatal("base ending in .tar should be an archive")
	}
	if m.Port != 9000 {
		t.Fatalf("port = %d, want 9000", m.Port)
	}
	if m.Env["LOG_LEVEL"] != "debug" {
		t.Fatalf("env = %v, want LOG_LEVEL=debug", m.Env)
	}
	if len(m.Packages) != 2 {
		t.Fatalf("packages = %v, want two entries", m.Packages)
	}
}

func TestParseUnknownFieldRejected(t *testing.T) {
	_, err := Parse([]byte("name: x\nbase: a:1.0\nprot: 8080\n"))
	if err == nil {
		t.Fatal("unknown field should fail the parse")
	}
	if !errors.Is(err, ErrManifest) {
		t.Fatalf("err = %v, want ErrManifest", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		m       Manifest
		wantErr error
	}{
		{
			name: "pinned tag",
			m:    Manifest{Name: "x", Base: "python:3.11.9-slim", Port: 7860},
		},
		{
			name: "archive base",
			m:    Manifest{Name: "x", Base: "dist/base.tar", Port: 7860},
		},
		{
			name: "registry with port",
			m:    Manifest{Name: "x", Base: "registry:5000/python:3.11.9", Port: 7860},
		},
		{
			name:    "missing name",
			m:       Manifest{Base: "python:3.11.9-slim", Port: 7860},
			wantErr: ErrManifest,
		},
		{
			name:    "missing base",
			m:       Manifest{Name: "x", Port: 7860},
			wantErr: ErrManifest,
		},
		{
			name:    "untagged base",
			m:       Manifest{Name: "x", Base: "python", Port: 7860},
			wantErr: ErrUnpinnedBase,
		},
		{
			name:    "latest tag",
			m:       Manifest{Name: "x", Base: "python:latest", Port: 7860},
			wantErr: ErrUnpinnedBase,
		},
		{
			name:    "registry port but no tag",
			m:       Manifest{Name: "x", Base: "registry:5000/python", Port: 7860},
			wantErr: ErrUnpinnedBase,
		},
		{
			name:    "port out of range",
			m:       Manifest{Name: "x", Base: "a:1.0", Port: 70000},
			wantErr: ErrManifest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.m.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate failed: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRuntimeEnvDefaults(t *testing.T) {
	m := Manifest{Name: "x", Base: "a:1.0", Port: 7860}
	env := m.RuntimeEnv()

	want := map[string]string{
		"DATA_DIR":                "/app/data",
		"PORT":                    "7860",
		"PYTHONDONTWRITEBYTECODE": "1",
		"PYTHONUNBUFFERED":        "1",
		"PIP_NO_CACHE_DIR":        "1",
	}
	for k, v := range want {
		if env[k] != v {
			t.Fatalf("env[%s] = %q, want %q", k, env[k], v)
		}
	}
	if len(env) != len(want) {
		t.Fatalf("len(env) = %d, want %d", len(env), len(want))
	}
}

func TestRuntimeEnvOverride(t *testing.T) {
	m := Manifest{
		Name: "x",
		Base: "a:1.0",
		Port: 9000,
		Env:  map[string]string{"DATA_DIR": "/mnt/data", "EXTRA": "1"},
	}
	env := m.RuntimeEnv()

	if env["PORT"] != "9000" {
		t.Fatalf("env[PORT] = %q, want 9000", env["PORT"])
	}
	if env["DATA_DIR"] != "/mnt/data" {
		t.Fatalf("env[DATA_DIR] = %q, want /mnt/data", env["DATA_DIR"])
	}
	if env["EXTRA"] != "1" {
		t.Fatalf("env[EXTRA] = %q, want 1", env["EXTRA"])
	}
}
