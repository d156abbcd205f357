package runtime

import (
	"context"
	"io"
	"log/slog"
	"syscall"

	containerd "github.com/containerd/containerd/v2/client"
	"github.com/containerd/containerd/v2/pkg/cio"
	"github.com/containerd/containerd/v2/pkg/oci"
	specs "github.com/opencontainers/runtime-spec/specs-go"
)

// Starts the application process from a built image and waits for it to exit.
//
// The image is either an OCI archive path or the tag of a previously
// imported image. Exactly one process is started: the entrypoint recorded in
// the image config, with its working directory and environment taken from
// the config and env applied on top (so PORT and DATA_DIR can be overridden
// at launch time). Stdout and stderr are streamed to the given writers.
//
// The container lives only as long as the process: when it exits, the task
// and the container are deleted and the process exit code is returned. There
// is no supervision or restart. Cancelling ctx sends SIGTERM to the process.
func (rt *Runtime) Launch(ctx context.Context, image, id string, env []string, stdout, stderr io.Writer) (int, error) {
	platform := DefaultPlatform()

	tag := image
	if IsArchive(image) {
		tag = imageTag(image)
		if err := rt.importAs(ctx, image, tag, platform); err != nil {
			return 0, err
		}
	}

	c := &Container{
		client:   rt.client,
		id:       id,
		platform: platform,
	}

	// Remove any stale container left over from a previous launch.
	c.remove(ctx)

	img, err := rt.resolveImage(ctx, tag, platform)
	if err != nil {
		return 0, wrapRuntime(err)
	}

	ctr, err := c.createLaunch(ctx, img, env)
	if err != nil {
		return 0, wrapRuntime(err)
	}
	defer ctr.Delete(context.WithoutCancel(ctx), containerd.WithSnapshotCleanup)

	slog.Info("launching", "id", id, "image", tag)

	return c.runTask(ctx, ctr, stdout, stderr)
}

// Creates a launch container whose task runs the image's configured
// entrypoint, unlike build containers which idle on "sleep infinity".
//
// The process spec comes from the image config (entrypoint, env, working
// directory); env overrides are applied afterwards so they win over the
// baked-in defaults.
func (c *Container) createLaunch(ctx context.Context, image containerd.Image, env []string) (containerd.Container, error) {
	return c.client.NewContainer(ctx, c.id,
		containerd.WithImage(image),
		containerd.WithSnapshotter(snapshotter),
		containerd.WithNewSnapshot(c.id, image),
		containerd.WithRuntime(ociRuntime, nil),
		containerd.WithNewSpec(
			oci.WithDefaultSpecForPlatform(c.platform),
			oci.WithImageConfig(image),
			oci.WithHostNamespace(specs.NetworkNamespace),
			oci.WithHostResolvconf,
			oci.WithEnv(env),
		),
	)
}

// Runs the container's primary task to completion and returns its exit code.
//
// The task's stdout and stderr are streamed to the given writers. When ctx
// is cancelled the process receives SIGTERM and the function still waits for
// it to exit, so the exit status is always collected and the task is always
// deleted.
func (c *Container) runTask(ctx context.Context, ctr containerd.Container, stdout, stderr io.Writer) (int, error) {
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}

	task, err := ctr.NewTask(ctx, cio.NewCreator(cio.WithStreams(nil, stdout, stderr)))
	if err != nil {
		return 0, wrapRuntime(err)
	}
	defer task.Delete(context.WithoutCancel(ctx))

	statusC, err := task.Wait(ctx)
	if err != nil {
		return 0, wrapRuntime(err)
	}

	if err := task.Start(ctx); err != nil {
		return 0, wrapRuntime(err)
	}

	select {
	case <-ctx.Done():
		task.Kill(context.WithoutCancel(ctx), syscall.SIGTERM)
	case status := <-statusC:
		return taskExitCode(status)
	}

	status := <-statusC
	return taskExitCode(status)
}

// Extracts the exit code from a task exit status.
func taskExitCode(status containerd.ExitStatus) (int, error) {
	code, _, err := status.Result()
	if err != nil {
		return 0, wrapRuntime(err)
	}
	return int(code), nil
}
