package artifact

import (
	"fmt"
	"io"
	"os"
)

// Artifact is one versioned build dependency to be checked.
type Artifact struct {
	Group   string
	Name    string
	Version string

	// Path is where the content lives on disk.
	Path string
}

// ID returns the stable identity used for caching and reporting.
func (a Artifact) ID() string {
	if a.Group == "" {
		return fmt.Sprintf("%s:%s", a.Name, a.Version)
	}
	return fmt.Sprintf("%s:%s:%s", a.Group, a.Name, a.Version)
}

// Open returns a reader over the artifact content.
func (a Artifact) Open() (io.ReadCloser, error) {
	return os.Open(a.Path)
}
