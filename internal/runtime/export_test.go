package runtime

import (
	"testing"

	"github.com/opencontainers/go-digest"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
)

func TestImageConfigApply(t *testing.T) {
	config := ocispec.Image{}
	config.Config.Cmd = []string{"/bin/sh"}
	config.Config.Env = []string{"PATH=/usr/bin", "PORT=80"}

	ic := ImageConfig{
		Entrypoint:   []string{"python", "munimp.py"},
		Env:          []string{"PORT=7860", "DATA_DIR=/app/data"},
		WorkingDir:   "/app/src",
		ExposedPorts: []string{"7860/tcp"},
	}
	ic.apply(&config)

	if len(config.Config.Entrypoint) != 2 || config.Config.Entrypoint[0] != "python" {
		t.Fatalf("entrypoint = %v, want [python munimp.py]", config.Config.Entrypoint)
	}
	if config.Config.Cmd != nil {
		t.Fatalf("cmd = %v, want nil after entrypoint override", config.Config.Cmd)
	}
	if config.Config.WorkingDir != "/app/src" {
		t.Fatalf("workingDir = %q, want /app/src", config.Config.WorkingDir)
	}
	if _, ok := config.Config.ExposedPorts["7860/tcp"]; !ok {
		t.Fatalf("exposedPorts = %v, want 7860/tcp present", config.Config.ExposedPorts)
	}

	env := make(map[string]bool)
	for _, e := range config.Config.Env {
		env[e] = true
	}
	if !env["PORT=7860"] || !env["DATA_DIR=/app/data"] || !env["PATH=/usr/bin"] {
		t.Fatalf("env = %v, want overrides merged over base", config.Config.Env)
	}
	if env["PORT=80"] {
		t.Fatal("base PORT survived the override")
	}
}

func TestImageConfigApplyZeroValue(t *testing.T) {
	config := ocispec.Image{}
	config.Config.Entrypoint = []string{"/entry"}
	config.Config.Cmd = []string{"serve"}
	config.Config.WorkingDir = "/srv"

	ImageConfig{}.apply(&config)

	if config.Config.Entrypoint[0] != "/entry" {
		t.Fatalf("entrypoint = %v, want untouched", config.Config.Entrypoint)
	}
	if config.Config.Cmd == nil {
		t.Fatal("cmd cleared by zero-value config")
	}
	if config.Config.WorkingDir != "/srv" {
		t.Fatalf("workingDir = %q, want untouched", config.Config.WorkingDir)
	}
	if config.Config.ExposedPorts != nil {
		t.Fatalf("exposedPorts = %v, want nil", config.Config.ExposedPorts)
	}
}

func TestManifestGCLabels(t *testing.T) {
	m := ocispec.Manifest{
		Config: ocispec.Descriptor{
			Digest: digest.FromString("config"),
		},
		Layers: []ocispec.Descriptor{
			{Digest: digest.FromString("layer0")},
			{Digest: digest.FromString("layer1")},
		},
	}

	labels := manifestGCLabels(m)

	configLabel := labels["containerd.io/gc.ref.content.config"]
	if configLabel != m.Config.Digest.String() {
		t.Fatalf("config label = %q, want %q", configLabel, m.Config.Digest.String())
	}

	for i, layer := range m.Layers {
		key := "containerd.io/gc.ref.content.l." + string(rune('0'+i))
		got := labels[key]
		if got != layer.Digest.String() {
			t.Fatalf("labels[%q] = %q, want %q", key, got, layer.Digest.String())
		}
	}

	if len(labels) != 3 {
		t.Fatalf("len(labels) = %d, want 3", len(labels))
	}
}

func TestIndexGCLabels(t *testing.T) {
	idx := ocispec.Index{
		Manifests: []ocispec.Descriptor{
			{Digest: digest.FromString("m0")},
			{Digest: digest.FromString("m1")},
		},
	}

	labels := indexGCLabels(idx)
	if len(labels) != 2 {
		t.Fatalf("len(labels) = %d, want 2", len(labels))
	}
	if labels["containerd.io/gc.ref.content.m.0"] != idx.Manifests[0].Digest.String() {
		t.Fatal("m.0 label mismatch")
	}
	if labels["containerd.io/gc.ref.content.m.1"] != idx.Manifests[1].Digest.String() {
		t.Fatal("m.1 label mismatch")
	}
}
