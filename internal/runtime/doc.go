// Package runtime manages containers backed by containerd.
//
// A [Runtime] connects to a containerd daemon and provides image import
// and container creation. OCI archives are imported, tagged with a
// deterministic content hash, unpacked for the target platform, and used
// to create containers with overlayfs snapshots.
//
// Build containers wrap a long-running containerd task: commands are
// executed inside them, files are copied in as tar streams, and the final
// filesystem state is committed and exported as a new OCI archive whose
// config carries the application's entrypoint, environment, working
// directory, and exposed ports. Launch containers instead run the image's
// configured entrypoint directly and live only as long as that process.
//
// Example usage:
//
//	rt, err := runtime.New("/run/containerd/containerd.sock", "berthd")
//	if err != nil {
//	    return err
//	}
//	defer rt.Close()
//
//	ctr, err := rt.StartBuildContainer(ctx, "base.tar", "build-1", "linux/amd64")
//	if err != nil {
//	    return err
//	}
//	defer ctr.Destroy(ctx)
//
//	result, err := ctr.Exec(ctx, "/bin/sh", "pip install --no-cache-dir -r /app/requirements.txt", nil, "")
//	if err != nil {
//	    return err
//	}
//
//	err = ctr.Export(ctx, "dist", runtime.ImageConfig{
//	    Entrypoint: []string{"python", "munimp.py"},
//	    WorkingDir: "/app/src",
//	})
package runtime
