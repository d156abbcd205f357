// Package manifest defines the build descriptor and dependency lock file.
//
// A [Manifest] describes everything needed to package an application:
// the pinned base image, the dependency lock file, the source and data
// trees, the exposed port, and the entrypoint. It is loaded once from a
// YAML descriptor at the project root and never mutated during a build.
//
// The lock file is a newline-separated list of exact "name==version"
// pins. Looser specifiers are rejected at parse time so every build
// resolves to the same dependency set.
//
// Example usage:
//
//	m, err := manifest.Load("berth.yaml")
//	if err != nil {
//	    return err
//	}
//
//	reqs, err := manifest.LoadRequirements(m.Requirements)
//	if err != nil {
//	    return err
//	}
package manifest
