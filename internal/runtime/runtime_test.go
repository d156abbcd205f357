package runtime

import (
	"strings"
	"testing"
)

func TestImageTag(t *testing.T) {
	tag := imageTag("/some/archive.tar")

	if !strings.HasPrefix(tag, "import/") {
		t.Fatalf("tag %q missing import/ prefix", tag)
	}
	if !strings.HasSuffix(tag, ":latest") {
		t.Fatalf("tag %q missing :latest suffix", tag)
	}

	if imageTag("/some/archive.tar") != tag {
		t.Fatal("imageTag is not deterministic")
	}

	if imageTag("/other/archive.tar") == tag {
		t.Fatal("different paths produced the same tag")
	}
}

func TestDefaultPlatform(t *testing.T) {
	p := DefaultPlatform()
	if !strings.HasPrefix(p, "linux/") {
		t.Fatalf("DefaultPlatform = %q, want linux/<arch>", p)
	}
	parts := strings.Split(p, "/")
	if len(parts) != 2 || parts[1] == "" {
		t.Fatalf("DefaultPlatform = %q, want linux/<arch>", p)
	}
}

func TestIsArchive(t *testing.T) {
	tests := []struct {
		ref  string
		want bool
	}{
		{ref: "dist/image.tar", want: true},
		{ref: "/abs/base.tar", want: true},
		{ref: "python:3.11.9-slim", want: false},
		{ref: "import/abc:latest", want: false},
		{ref: "tarball", want: false},
	}

	for _, tt := range tests {
		if got := IsArchive(tt.ref); got != tt.want {
			t.Errorf("IsArchive(%q) = %v, want %v", tt.ref, got, tt.want)
		}
	}
}
