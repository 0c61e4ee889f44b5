package vulndb

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
)

// ErrUnavailable marks lookup failures. A scan cannot proceed without
// query capability, so callers treat it as fatal.
var ErrUnavailable = errors.New("vulnerability database unavailable")

// SyncError marks synchronization failures. The local data stays usable,
// so callers log it and continue with possibly stale records.
type SyncError struct {
	Cause error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("database synchronization failed: %v", e.Cause)
}

func (e *SyncError) Unwrap() error { return e.Cause }

type Client struct {
	Cli *http.Client
	DB  *sql.DB

	// Store is the folder holding the database and feed files.
	Store string
	// FeedURL is the upstream record feed.
	FeedURL string
}

// Record is one CVE match returned for a fingerprint.
type Record struct {
	CVEID       string
	Title       string
	Level       string
	Score       float64
	Component   string
	Version     string
	PublishDate string
}

// Range is a vulnerable version range for a component, used by the
// metadata scan mode.
type Range struct {
	CVEID       string
	Title       string
	Level       string
	Score       float64
	Component   string
	MaxVersion  string
	MinVersion  string
	PublishDate string
}
