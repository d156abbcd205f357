package build

import (
	"strings"
	"testing"
)

func TestAptInstallCommand(t *testing.T) {
	cmd := aptInstallCommand([]string{"build-essential", "libpq-dev"})

	if !strings.Contains(cmd, "apt-get update") {
		t.Fatalf("command %q missing apt-get update", cmd)
	}
	if !strings.Contains(cmd, "--no-install-recommends") {
		t.Fatalf("command %q missing --no-install-recommends", cmd)
	}
	if !strings.Contains(cmd, "build-essential libpq-dev") {
		t.Fatalf("command %q missing package list", cmd)
	}
	if !strings.Contains(cmd, "rm -rf /var/lib/apt/lists/*") {
		t.Fatalf("command %q does not remove the package lists", cmd)
	}

	// Cleanup must be part of the same command so the lists never land in
	// a committed layer.
	if strings.Index(cmd, "rm -rf") < strings.Index(cmd, "apt-get install") {
		t.Fatalf("command %q removes lists before installing", cmd)
	}
}

func TestPipInstallCommand(t *testing.T) {
	cmd := pipInstallCommand("/app/requirements.txt")

	if !strings.Contains(cmd, "--no-cache-dir") {
		t.Fatalf("command %q missing --no-cache-dir", cmd)
	}
	if !strings.Contains(cmd, "-r /app/requirements.txt") {
		t.Fatalf("command %q does not install from the lock file", cmd)
	}
}

func TestBuildEnv(t *testing.T) {
	env := buildEnv()
	found := false
	for _, e := range env {
		if e == "PIP_NO_CACHE_DIR=1" {
			found = true
		}
	}
	if !found {
		t.Fatalf("env = %v, want PIP_NO_CACHE_DIR=1", env)
	}
}
