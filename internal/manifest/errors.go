package manifest

import "errors"

var (
	ErrManifest     = errors.New("invalid manifest")
	ErrUnpinnedBase = errors.New("unpinned base image")
	ErrRequirements = errors.New("invalid requirements")
)
