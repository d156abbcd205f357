package manifest

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
)

// Matches a strict "name==version" pin. Names follow the usual package
// naming rules (letters, digits, dots, underscores, hyphens); versions may
// additionally contain plus and exclamation marks for local and epoch
// segments. Range operators and bare names do not match.
var pinPattern = regexp.MustCompile(`^([A-Za-z0-9][A-Za-z0-9._-]*)==([A-Za-z0-9][A-Za-z0-9._+!-]*)$`)

// A single exact dependency pin from the lock file.
type Requirement struct {
	Name    string // Package name as written in the lock file.
	Version string // Exact pinned version.
}

// Formats the requirement back into its lock file form.
func (r Requirement) String() string {
	return r.Name + "==" + r.Version
}

// Reads and parses a dependency lock file.
func LoadRequirements(path string) ([]Requirement, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRequirements, err)
	}
	defer f.Close()

	reqs, err := ParseRequirements(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRequirements, path, err)
	}
	return reqs, nil
}

// Parses newline-separated dependency pins.
//
// Every non-empty, non-comment line must be an exact "name==version" pin.
// Anything looser (ranges, bare names, extras) fails the parse: a lock file
// that does not fully determine the installed versions cannot guarantee a
// reproducible image.
func ParseRequirements(r io.Reader) ([]Requirement, error) {
	var reqs []Requirement

	scanner := bufio.NewScanner(r)
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		m := pinPattern.FindStringSubmatch(line)
		if m == nil {
			return nil, fmt.Errorf("line %d: %q is not an exact name==version pin", lineNo, line)
		}

		reqs = append(reqs, Requirement{Name: m[1], Version: m[2]})
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return reqs, nil
}
