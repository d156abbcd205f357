package build

import "strings"

// Shell used for build commands inside the container.
const defaultShell = "/bin/sh"

// Builds the apt command that installs the OS build toolchain.
//
// The package lists are fetched, the packages installed without recommended
// extras, and the lists removed again in the same command so they never
// appear in the image layers.
func aptInstallCommand(packages []string) string {
	return "apt-get update" +
		" && apt-get install -y --no-install-recommends " + strings.Join(packages, " ") +
		" && rm -rf /var/lib/apt/lists/*"
}

// Builds the pip command that installs the pinned dependencies.
//
// Download caching is disabled so the install always resolves from the lock
// file. The PIP_NO_CACHE_DIR env var from [buildEnv] covers tools that
// shell out to pip without forwarding the flag.
func pipInstallCommand(lockPath string) string {
	return "pip install --no-cache-dir -r " + lockPath
}

// Returns the environment for dependency installation commands.
func buildEnv() []string {
	return []string{"PIP_NO_CACHE_DIR=1"}
}
