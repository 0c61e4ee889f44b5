package scan

import (
	"context"
	"errors"

	"github.com/cvegate/cvegate/config"
	"github.com/cvegate/cvegate/pkg/artifact"
	"github.com/cvegate/cvegate/pkg/fingerprint"
	"github.com/cvegate/cvegate/pkg/vulndb"
)

// Outcome is the terminal record of one artifact's scan.
type Outcome struct {
	Artifact artifact.Artifact
	// Records are the matched CVE records, empty when clean.
	Records []vulndb.Record
	// Cached marks outcomes resolved from the result cache.
	Cached bool
	// Err carries a per-artifact IO failure.
	Err error
}

// Task scans a single artifact: fingerprint, database lookup, classify.
type Task struct {
	Artifact artifact.Artifact
}

// Execute runs the task. It returns a clean outcome, a *VulnError when
// the database has matches, a *IOError when the content is unreadable,
// the context error when canceled, or a database lookup failure.
func (t Task) Execute(ctx context.Context, ec *ExecutionContext) (*Outcome, error) {

	f, err := t.Artifact.Open()
	if err != nil {
		return nil, &IOError{ID: t.Artifact.ID(), Cause: err}
	}

	fp, err := fingerprint.Compute(f, ec.Settings.Algorithm)
	f.Close()
	if err != nil {
		return nil, &IOError{ID: t.Artifact.ID(), Cause: err}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	records, err := ec.DB.Lookup(fp)
	if err != nil {
		return nil, err
	}

	// The fingerprint produced no hit; in metadata mode the artifact
	// name and version are still checked against vulnerable ranges.
	if len(records) == 0 && ec.Settings.Mode == config.ModeMetadata {
		ranges, err := ec.DB.LookupComponent(t.Artifact.Name)
		if err != nil {
			return nil, err
		}
		records = matchRanges(ranges, t.Artifact.Version)
	}

	if len(records) > 0 {
		return nil, &VulnError{ID: t.Artifact.ID(), Records: records}
	}

	return &Outcome{Artifact: t.Artifact, Records: []vulndb.Record{}}, nil
}

// IsInterrupted reports whether a task error is a cancellation.
func IsInterrupted(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
