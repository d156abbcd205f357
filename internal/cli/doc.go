// Parses flags and configures logging for the berthd daemon.
//
// The daemon accepts the following flags:
//
//	-q, --quiet       Suppress informational output.
//	-d, --debug       Enable debug output.
//	-s, --socket      Unix socket path.
//	    --containerd  Containerd socket address.
//	    --namespace   Containerd namespace.
//
// Flags override build-time defaults set via linker flags. After parsing,
// the global logger is reconfigured to reflect the final level before any
// subcommand runs. The build and run subcommands talk to containerd
// directly; start runs the daemon loop.
package cli
