// Package build executes build descriptors against the container runtime.
//
// A build is an ordered, all-or-nothing pipeline: parse the dependency
// lock file, start a container from the pinned base image, install the OS
// build toolchain (removing the package lists afterwards), install the
// pinned dependencies with download caching disabled, copy the source and
// data trees to their fixed image paths, and export the result as an OCI
// image whose config carries the entrypoint, environment defaults, working
// directory, and exposed port.
//
// Each step consumes the filesystem state left by the previous one, and
// the first failure aborts the whole build; no partial image is ever
// produced. Container operations are delegated to the runtime package.
//
// Example usage:
//
//	result, err := build.Run(ctx, rt, build.Options{
//	    Manifest: m,
//	    Root:     ".",
//	    Output:   "dist",
//	})
//	if err != nil {
//	    return err
//	}
package build
