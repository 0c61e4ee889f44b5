package scan

import (
	"fmt"
	"strings"

	"github.com/cvegate/cvegate/pkg/vulndb"
)

// VulnError reports a vulnerable artifact. It is a data-carrying result:
// callers extract the identity and CVE set for caching and reporting,
// and the severity policy decides whether it aborts the run.
type VulnError struct {
	// ID is the artifact identity the match belongs to.
	ID string
	// Records are the CVE records the database returned.
	Records []vulndb.Record
}

// CVEs returns the matched CVE ids.
func (e *VulnError) CVEs() []string {
	ids := make([]string, 0, len(e.Records))
	for _, r := range e.Records {
		ids = append(ids, r.CVEID)
	}
	return ids
}

func (e *VulnError) Error() string {
	var b strings.Builder

	fmt.Fprintf(&b, "artifact %s matches known vulnerabilities: %s",
		e.ID, strings.Join(e.CVEs(), ", "))

	for _, r := range e.Records {
		fmt.Fprintf(&b, "\n  %s", r.CVEID)
		if r.Level != "" {
			fmt.Fprintf(&b, " [%s]", r.Level)
		}
		if r.Title != "" {
			fmt.Fprintf(&b, ": %s", r.Title)
		}
	}

	return b.String()
}

// LogMessage is the short single-line form used for warnings.
func (e *VulnError) LogMessage() string {
	return fmt.Sprintf("vulnerable artifact %s: %s", e.ID, strings.Join(e.CVEs(), ", "))
}

// IOError reports an artifact whose content could not be read. It fails
// that task only and never aborts the run.
type IOError struct {
	ID    string
	Cause error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("cannot read artifact %s: %v", e.ID, e.Cause)
}

func (e *IOError) Unwrap() error { return e.Cause }
