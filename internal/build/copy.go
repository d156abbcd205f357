package build

import (
	"archive/tar"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/berthlab/berthd/internal/runtime"
)

// Copies a host directory tree verbatim into the container.
//
// The tree rooted at hostDir appears at dest inside the container; a file at
// hostDir/X ends up at dest/X. This is a pure copy: no transformation,
// filtering, or validation. A missing source tree is a fatal build error.
func copyTree(ctx context.Context, ctr *runtime.Container, hostDir, dest string) error {
	info, err := os.Stat(hostDir)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCopy, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrCopy, hostDir)
	}

	slog.Debug("copy tree", "src", hostDir, "dest", dest)

	return streamCopy(ctx, ctr, dest, func(tw *tar.Writer) error {
		return writeDirToTar(tw, hostDir, filepath.Base(dest))
	})
}

// Copies a single host file into the container at dest.
func copyFile(ctx context.Context, ctr *runtime.Container, hostPath, dest string) error {
	if _, err := os.Stat(hostPath); err != nil {
		return fmt.Errorf("%w: %w", ErrCopy, err)
	}

	slog.Debug("copy file", "src", hostPath, "dest", dest)

	return streamCopy(ctx, ctr, dest, func(tw *tar.Writer) error {
		return writeFileToTar(tw, hostPath, filepath.Base(dest))
	})
}

// Streams a tar archive produced by write into the container, extracting it
// in dest's parent directory.
//
// The archive is piped directly into the container's tar process; nothing is
// staged on the host.
func streamCopy(ctx context.Context, ctr *runtime.Container, dest string, write func(*tar.Writer) error) error {
	destDir := filepath.Dir(dest)
	if err := ctr.MkdirAll(ctx, destDir); err != nil {
		return fmt.Errorf("%w: %w", ErrCopy, err)
	}

	pr, pw := io.Pipe()

	go func() {
		tw := tar.NewWriter(pw)
		writeErr := write(tw)
		tw.Close()
		pw.CloseWithError(writeErr)
	}()

	if err := ctr.CopyTo(ctx, pr, destDir); err != nil {
		return fmt.Errorf("%w: %w", ErrCopy, err)
	}

	return nil
}

// Writes a single file to a tar writer with the given archive name.
func writeFileToTar(tw *tar.Writer, hostPath, name string) error {
	info, err := os.Stat(hostPath)
	if err != nil {
		return err
	}

	header, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return err
	}
	header.Name = name

	if err := tw.WriteHeader(header); err != nil {
		return err
	}

	f, err := os.Open(hostPath)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(tw, f)
	return err
}

// Writes a directory tree to a tar writer rooted at the given archive prefix.
func writeDirToTar(tw *tar.Writer, hostDir, prefix string) error {
	return filepath.WalkDir(hostDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(hostDir, path)
		if err != nil {
			return err
		}

		archivePath := filepath.ToSlash(filepath.Join(prefix, relPath))
		return writeTarEntry(tw, path, archivePath, d)
	})
}

// Writes a single file or directory entry to a tar writer.
func writeTarEntry(tw *tar.Writer, hostPath, archivePath string, d os.DirEntry) error {
	info, err := d.Info()
	if err != nil {
		return err
	}

	header, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return err
	}
	header.Name = archivePath

	if err := tw.WriteHeader(header); err != nil {
		return err
	}

	if info.Mode().IsRegular() {
		f, err := os.Open(hostPath)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(tw, f)
		return err
	}

	return nil
}
