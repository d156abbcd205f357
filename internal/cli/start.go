package cli

import (
	"context"
	"log/slog"

	"github.com/berthlab/berthd/internal/server"
)

// Represents the 'berthd start' command.
type StartCmd struct{}

// Executes the start command.
//
// Starts the daemon on a Unix domain socket and blocks until the context is
// cancelled (e.g. via SIGINT or SIGTERM) or a shutdown command stops the
// server.
func (c *StartCmd) Run(ctx context.Context) error {
	srv, err := server.New(server.Config{
		SocketPath:          RootCmd.Socket,
		ContainerdAddress:   RootCmd.Containerd,
		ContainerdNamespace: RootCmd.Namespace,
	})
	if err != nil {
		return err
	}

	if err := srv.Start(); err != nil {
		return err
	}

	slog.Info("berthd is running")

	select {
	case <-ctx.Done():
		slog.Info("shutting down")
	case <-srv.Done():
		slog.Info("stopped by shutdown command")
	}

	return srv.Stop()
}
