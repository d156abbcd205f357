package build

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/berthlab/berthd/internal/manifest"
	"github.com/berthlab/berthd/internal/paths"
	"github.com/berthlab/berthd/internal/runtime"
)

// Controls pipeline execution.
type Options struct {
	Manifest *manifest.Manifest // Descriptor to execute.
	Root     string             // Project root, for resolving the lock file and copy sources.
	Output   string             // Directory for the exported image.
	Platform string             // Target platform (e.g., "linux/amd64"). Defaults to host.
}

// Returned after successful pipeline execution.
type Result struct {
	Output       string                 // Directory containing the exported image.
	Requirements []manifest.Requirement // Pins installed into the image.
}

// Executes a build descriptor against the container runtime.
//
// The pipeline is strictly sequential and all-or-nothing: each step consumes
// the filesystem state left by the previous one, and the first failure
// aborts the build with no image produced. The build container is destroyed
// when the pipeline ends, whether it succeeded or not.
func Run(ctx context.Context, rt *runtime.Runtime, opts Options) (*Result, error) {
	if opts.Platform == "" {
		opts.Platform = runtime.DefaultPlatform()
	}

	slog.Info("executing build",
		"name", opts.Manifest.Name,
		"base", opts.Manifest.Base,
		"output", opts.Output,
		"platform", opts.Platform,
	)

	if err := os.MkdirAll(opts.Output, paths.DefaultDirMode); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFileSystemOperation, err)
	}

	return newPipeline(rt, opts).run(ctx)
}
