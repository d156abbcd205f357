package build

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/berthlab/berthd/internal/manifest"
	"github.com/berthlab/berthd/internal/runtime"
)

// Image path the lock file is copied to before dependency installation.
const requirementsDest = "/app/requirements.txt"

// Holds shared state for the ordered build steps.
//
// State flows linearly: each step reads what earlier steps produced (the
// parsed pins, the running build container) and leaves its result for the
// next. There is no state shared across builds; every pipeline starts from
// a fresh base snapshot.
type pipeline struct {
	rt       *runtime.Runtime       // Container runtime for image and container operations.
	m        *manifest.Manifest     // Descriptor being executed, immutable.
	root     string                 // Project root for resolving the lock file and copy sources.
	output   string                 // Output directory for the exported image.
	platform string                 // Target platform.
	reqs     []manifest.Requirement // Parsed dependency pins, set by resolveDependencies.
	ctr      *runtime.Container     // Build container, set by startBase.
}

// A single named stage of the pipeline.
type step struct {
	name string
	fn   func(context.Context) error
}

// Creates a new [pipeline] from the given options.
func newPipeline(rt *runtime.Runtime, opts Options) *pipeline {
	return &pipeline{
		rt:       rt,
		m:        opts.Manifest,
		root:     opts.Root,
		output:   opts.Output,
		platform: opts.Platform,
	}
}

// Returns the pipeline's steps in execution order.
func (p *pipeline) steps() []step {
	return []step{
		{"resolve dependencies", p.resolveDependencies},
		{"start base container", p.startBase},
		{"install system packages", p.installSystemPackages},
		{"install dependencies", p.installDependencies},
		{"copy application source", p.copySource},
		{"copy data assets", p.copyData},
		{"export image", p.export},
	}
}

// Runs the build end-to-end.
//
// Steps execute in declaration order; the first failure aborts. The build
// container, if one was started, is destroyed on the way out so no partial
// state survives a failed build.
func (p *pipeline) run(ctx context.Context) (*Result, error) {
	defer p.cleanup(ctx)

	for _, s := range p.steps() {
		slog.Debug("build step", "step", s.name)
		if err := s.fn(ctx); err != nil {
			return nil, fmt.Errorf("%w: step %q: %w", ErrBuild, s.name, err)
		}
	}

	return &Result{Output: p.output, Requirements: p.reqs}, nil
}

// Destroys the build container, if one was started.
//
// Detached from ctx cancellation so a cancelled build still tears down its
// container.
func (p *pipeline) cleanup(ctx context.Context) {
	if p.ctr != nil {
		p.ctr.Destroy(context.WithoutCancel(ctx))
	}
}

// Loads and parses the dependency lock file.
//
// Runs before any container is started so a malformed lock file fails the
// build without touching the runtime.
func (p *pipeline) resolveDependencies(ctx context.Context) error {
	reqs, err := manifest.LoadRequirements(p.lockPath())
	if err != nil {
		return err
	}

	slog.Info("dependencies resolved", "pins", len(reqs))
	p.reqs = reqs
	return nil
}

// Starts the build container from the pinned base image.
func (p *pipeline) startBase(ctx context.Context) error {
	base := p.m.Base
	if p.m.BaseIsArchive() && !filepath.IsAbs(base) {
		base = filepath.Join(p.root, base)
	}

	ctr, err := p.rt.StartBuildContainer(ctx, base, p.containerID(), p.platform)
	if err != nil {
		return err
	}

	p.ctr = ctr
	return nil
}

// Installs the OS build toolchain and removes the package lists afterwards,
// so no package manager cache ends up in the image layers.
func (p *pipeline) installSystemPackages(ctx context.Context) error {
	if len(p.m.Packages) == 0 {
		return nil
	}
	return p.runCommand(ctx, aptInstallCommand(p.m.Packages), nil)
}

// Copies the lock file into the container and installs the pinned
// dependencies with download caching disabled.
//
// Disabling the cache trades build speed for determinism: every build
// re-resolves from the lock file rather than whatever a cache holds.
func (p *pipeline) installDependencies(ctx context.Context) error {
	if err := p.ctr.MkdirAll(ctx, manifest.AppRoot); err != nil {
		return err
	}

	if err := copyFile(ctx, p.ctr, p.lockPath(), requirementsDest); err != nil {
		return err
	}

	return p.runCommand(ctx, pipInstallCommand(requirementsDest), buildEnv())
}

// Copies the application source tree verbatim to its fixed image path.
func (p *pipeline) copySource(ctx context.Context) error {
	return copyTree(ctx, p.ctr, filepath.Join(p.root, p.m.Source), manifest.SourceDir)
}

// Copies the data asset tree verbatim to its fixed image path.
func (p *pipeline) copyData(ctx context.Context) error {
	return copyTree(ctx, p.ctr, filepath.Join(p.root, p.m.Data), manifest.DataDir)
}

// Stops the build container and exports its filesystem as the final image.
//
// The image config carries the entrypoint, the default runtime environment,
// the working directory, and the exposed port, so a container started from
// the image needs no extra configuration.
func (p *pipeline) export(ctx context.Context) error {
	if err := p.ctr.Stop(ctx); err != nil {
		return err
	}

	return p.ctr.Export(ctx, p.output, runtime.ImageConfig{
		Entrypoint:   p.m.Entrypoint,
		Env:          environ(p.m.RuntimeEnv()),
		WorkingDir:   manifest.SourceDir,
		ExposedPorts: []string{fmt.Sprintf("%d/tcp", p.m.Port)},
	})
}

// Runs a shell command inside the build container and fails on a non-zero
// exit code.
func (p *pipeline) runCommand(ctx context.Context, command string, env []string) error {
	slog.Debug("run", "command", command)

	result, err := p.ctr.Exec(ctx, defaultShell, command, env, "")
	if err != nil {
		return err
	}
	if result.ExitCode != 0 {
		return fmt.Errorf("%w: exit code %d: %s", ErrCommandFailed, result.ExitCode, result.Stderr)
	}
	return nil
}

// Resolves the lock file path against the project root.
func (p *pipeline) lockPath() string {
	if filepath.IsAbs(p.m.Requirements) {
		return p.m.Requirements
	}
	return filepath.Join(p.root, p.m.Requirements)
}

// Returns a unique container ID for the build, scoped to the application
// name and platform.
func (p *pipeline) containerID() string {
	return fmt.Sprintf("%s-%s-build", p.m.Name, platformSlug(p.platform))
}

// Converts a platform string to a filesystem-safe slug.
//
// Replaces slashes with dashes (e.g., "linux/amd64" becomes "linux-amd64").
func platformSlug(platform string) string {
	return strings.ReplaceAll(platform, "/", "-")
}

// Formats an env map as a list of "key=value" strings.
func environ(env map[string]string) []string {
	entries := make([]string, 0, len(env))
	for k, v := range env {
		entries = append(entries, k+"="+v)
	}
	return entries
}
