package build

import (
	"archive/tar"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
)

// Reads every entry from a tar stream into a name-to-content map.
func readTar(t *testing.T, r io.Reader) map[string]string {
	t.Helper()

	entries := make(map[string]string)
	tr := tar.NewReader(r)

	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("reading tar: %v", err)
		}

		var buf bytes.Buffer
		if _, err := io.Copy(&buf, tr); err != nil {
			t.Fatalf("reading tar entry %q: %v", header.Name, err)
		}
		entries[header.Name] = buf.String()
	}

	return entries
}

func TestWriteDirToTarPreservesPaths(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "pages"), 0755); err != nil {
		t.Fatal(err)
	}
	files := map[string]string{
		"munimp.py":       "print('ok')",
		"pages/munim.py":  "page",
		"pages/extra.csv": "a;b",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	if err := writeDirToTar(tw, dir, "src"); err != nil {
		t.Fatalf("writeDirToTar failed: %v", err)
	}
	tw.Close()

	entries := readTar(t, &buf)

	// Every file at dir/X must appear at src/X with identical content.
	for name, content := range files {
		archived, ok := entries["src/"+name]
		if !ok {
			t.Fatalf("entry src/%s missing, have %v", name, keys(entries))
		}
		if archived != content {
			t.Fatalf("entry src/%s content = %q, want %q", name, archived, content)
		}
	}

	if _, ok := entries["src"]; !ok {
		t.Fatal("root directory entry missing")
	}
	if _, ok := entries["src/pages"]; !ok {
		t.Fatal("subdirectory entry missing")
	}
}

func TestWriteFileToTar(t *testing.T) {
	path := filepath.Join(t.TempDir(), "requirements.txt")
	if err := os.WriteFile(path, []byte("dash==2.17.1\n"), 0644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	if err := writeFileToTar(tw, path, "requirements.txt"); err != nil {
		t.Fatalf("writeFileToTar failed: %v", err)
	}
	tw.Close()

	entries := readTar(t, &buf)
	if entries["requirements.txt"] != "dash==2.17.1\n" {
		t.Fatalf("entries = %v, want requirements.txt with original content", entries)
	}
}

func TestWriteDirToTarMissingDir(t *testing.T) {
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	if err := writeDirToTar(tw, filepath.Join(t.TempDir(), "absent"), "src"); err == nil {
		t.Fatal("missing directory should fail")
	}
}

func keys(m map[string]string) []string {
	var ks []string
	for k := range m {
		ks = append(ks, k)
	}
	return ks
}
