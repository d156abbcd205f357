package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/berthlab/berthd/internal"
	"github.com/berthlab/berthd/internal/runtime"
	"github.com/berthlab/berthd/internal/server"
)

// Represents the root command for the berthd daemon.
var RootCmd struct {
	Quiet      bool       `short:"q" help:"Suppress informational output."`
	Debug      bool       `short:"d" help:"Enable debug output."`
	Socket     string     `short:"s" help:"Override the default Unix socket path." placeholder:"PATH"`
	Containerd string     `help:"Override the containerd socket address." placeholder:"PATH"`
	Namespace  string     `help:"Override the containerd namespace." placeholder:"NAME"`
	Start      StartCmd   `cmd:"" help:"Start the daemon."`
	Build      BuildCmd   `cmd:"" help:"Build an image from a descriptor."`
	Run        RunCmd     `cmd:"" help:"Launch the application process from a built image."`
	Version    VersionCmd `cmd:"" help:"Show version information."`
}

// Parses arguments, configures logging, and runs the selected subcommand.
func Execute() error {

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	kongCtx := kong.Parse(&RootCmd,
		kong.Name(internal.Name),
		kong.Description("Packages applications into OCI images and launches them.\n\nBuilds are described by a berth.yaml descriptor and executed against containerd."),
		kong.UsageOnError(),
		kong.Vars{
			"version": internal.VersionString(),
		},
		kong.BindTo(ctx, (*context.Context)(nil)),
	)

	configureLogger()

	return kongCtx.Run()
}

// Configures the global logger based on CLI flags.
func configureLogger() {
	level := slog.LevelInfo
	if RootCmd.Debug || internal.IsDebug() {
		level = slog.LevelDebug
	} else if RootCmd.Quiet || internal.IsQuiet() {
		level = slog.LevelWarn
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}

// Creates a container runtime from the root flags.
func newRuntime() (*runtime.Runtime, error) {
	address := RootCmd.Containerd
	if address == "" {
		address = server.DefaultContainerdAddress
	}

	namespace := RootCmd.Namespace
	if namespace == "" {
		namespace = server.DefaultContainerdNamespace
	}

	return runtime.New(address, namespace)
}
