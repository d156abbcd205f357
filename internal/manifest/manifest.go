package manifest

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (

	// Default descriptor filename, resolved relative to the project root.
	DefaultFilename = "berth.yaml"

	// Default dependency lock file, resolved relative to the project root.
	DefaultRequirements = "requirements.txt"

	// Default host directory for the application source tree.
	DefaultSource = "src"

	// Default host directory for the data asset tree.
	DefaultData = "data"

	// Default TCP port the packaged application binds.
	DefaultPort = 7860
)

const (

	// Root of the application tree inside the image.
	AppRoot = "/app"

	// Image path the source tree is copied to, also the working directory
	// of the entrypoint process.
	SourceDir = "/app/src"

	// Image path the data asset tree is copied to.
	DataDir = "/app/data"
)

// Default OS packages installed so native dependency extensions can compile.
var defaultPackages = []string{"build-essential"}

// Default entrypoint command, run from [SourceDir].
var defaultEntrypoint = []string{"python", "munimp.py"}

// Describes how to package and launch an application.
//
// A manifest is loaded once from a YAML descriptor and is immutable for the
// duration of a build. Paths are resolved relative to the project root.
type Manifest struct {
	Name         string            `yaml:"name"`         // Application name, used for container IDs and image tags.
	Base         string            `yaml:"base"`         // Pinned base image: an OCI archive path or an exact imported tag.
	Requirements string            `yaml:"requirements"` // Dependency lock file with exact name==version pins.
	Source       string            `yaml:"source"`       // Host directory copied verbatim to /app/src.
	Data         string            `yaml:"data"`         // Host directory copied verbatim to /app/data.
	Port         int               `yaml:"port"`         // TCP port exposed by the image and bound by the process.
	Entrypoint   []string          `yaml:"entrypoint"`   // Process started when the image is instantiated.
	Env          map[string]string `yaml:"env"`          // Extra environment baked into the image, on top of the defaults.
	Packages     []string          `yaml:"packages"`     // OS build toolchain packages installed during the build.
}

// Reads and validates a manifest from a YAML descriptor file.
//
// Unknown fields are rejected so that a typo in the descriptor fails the
// build instead of silently dropping configuration. Defaults are applied
// for every omitted field except name and base, which are required.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrManifest, err)
	}
	return Parse(data)
}

// Parses a manifest from raw YAML bytes, applies defaults, and validates.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest

	dec := yaml.NewDecoder(strings.NewReader(string(data)))
	dec.KnownFields(true)

	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrManifest, err)
	}

	m.applyDefaults()

	if err := m.Validate(); err != nil {
		return nil, err
	}

	return &m, nil
}

// Fills in defaults for omitted optional fields.
func (m *Manifest) applyDefaults() {
	if m.Requirements == "" {
		m.Requirements = DefaultRequirements
	}
	if m.Source == "" {
		m.Source = DefaultSource
	}
	if m.Data == "" {
		m.Data = DefaultData
	}
	if m.Port == 0 {
		m.Port = DefaultPort
	}
	if len(m.Entrypoint) == 0 {
		m.Entrypoint = append([]string(nil), defaultEntrypoint...)
	}
	if m.Packages == nil {
		m.Packages = append([]string(nil), defaultPackages...)
	}
}

// Checks the manifest for contract violations.
//
// The base image must be pinned: either an OCI archive (content-addressed at
// import) or a reference with an exact tag. Floating tags would make two
// builds from the same descriptor diverge, so they are rejected outright.
func (m *Manifest) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("%w: name is required", ErrManifest)
	}
	if m.Base == "" {
		return fmt.Errorf("%w: base is required", ErrManifest)
	}
	if !m.BaseIsArchive() {
		if err := validatePinnedRef(m.Base); err != nil {
			return err
		}
	}
	if m.Port < 1 || m.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", ErrManifest, m.Port)
	}
	return nil
}

// Whether the base field refers to an OCI archive on disk rather than an
// imported image tag.
func (m *Manifest) BaseIsArchive() bool {
	return strings.HasSuffix(m.Base, ".tar")
}

// Rejects image references without an exact, non-floating tag.
//
// The tag is the part after the last colon that follows the last slash
// (a colon before a slash belongs to a registry port, not a tag).
func validatePinnedRef(ref string) error {
	name := ref
	if i := strings.LastIndexByte(ref, '/'); i >= 0 {
		name = ref[i+1:]
	}

	i := strings.LastIndexByte(name, ':')
	if i < 0 || name[i+1:] == "" {
		return fmt.Errorf("%w: base %q has no tag, pin an exact version", ErrUnpinnedBase, ref)
	}
	if name[i+1:] == "latest" {
		return fmt.Errorf("%w: base %q uses a floating tag", ErrUnpinnedBase, ref)
	}

	return nil
}

// Returns the environment baked into the image config.
//
// The defaults locate the data tree and the TCP port for the application
// process and disable Python bytecode caching, stream buffering, and pip
// download caching. Entries from the manifest's env map override defaults
// with the same key.
func (m *Manifest) RuntimeEnv() map[string]string {
	env := map[string]string{
		"DATA_DIR":                DataDir,
		"PORT":                    fmt.Sprintf("%d", m.Port),
		"PYTHONDONTWRITEBYTECODE": "1",
		"PYTHONUNBUFFERED":        "1",
		"PIP_NO_CACHE_DIR":        "1",
	}
	for k, v := range m.Env {
		env[k] = v
	}
	return env
}
