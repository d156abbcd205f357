package cli

import (
	"context"
	"fmt"
	"os"
)

// Represents the 'berthd run' command.
type RunCmd struct {
	Image string   `arg:"" help:"OCI archive path or imported image tag." placeholder:"IMAGE"`
	Name  string   `default:"app" help:"Container name." placeholder:"NAME"`
	Env   []string `short:"e" help:"KEY=VALUE overrides applied on top of the image config (e.g. PORT=9000)." placeholder:"KEY=VALUE"`
}

// Executes the run command.
//
// Launches the application process from the image and blocks until it
// exits. The process's stdout and stderr are streamed to the terminal and
// its exit code becomes the command's result.
func (c *RunCmd) Run(ctx context.Context) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	code, err := rt.Launch(ctx, c.Image, c.Name, c.Env, os.Stdout, os.Stderr)
	if err != nil {
		return err
	}

	if code != 0 {
		return fmt.Errorf("process exited with code %d", code)
	}
	return nil
}
