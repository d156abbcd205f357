package cli

import (
	"context"
	"log/slog"

	"github.com/berthlab/berthd/internal/build"
	"github.com/berthlab/berthd/internal/manifest"
)

// Represents the 'berthd build' command.
type BuildCmd struct {
	Manifest string `short:"m" default:"berth.yaml" help:"Path to the build descriptor." placeholder:"PATH"`
	Root     string `default:"." help:"Project root for resolving copy sources." placeholder:"DIR"`
	Output   string `short:"o" default:"dist" help:"Directory for the exported image." placeholder:"DIR"`
	Platform string `help:"Target platform (e.g. linux/amd64). Defaults to the host." placeholder:"OS/ARCH"`
}

// Executes the build command.
//
// Loads the descriptor and runs the build pipeline directly against
// containerd, without going through a running daemon.
func (c *BuildCmd) Run(ctx context.Context) error {
	m, err := manifest.Load(c.Manifest)
	if err != nil {
		return err
	}

	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	result, err := build.Run(ctx, rt, build.Options{
		Manifest: m,
		Root:     c.Root,
		Output:   c.Output,
		Platform: c.Platform,
	})
	if err != nil {
		return err
	}

	slog.Info("build complete", "output", result.Output, "pins", len(result.Requirements))
	return nil
}
