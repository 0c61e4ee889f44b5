package scan

import (
	"context"
	"log"

	"github.com/google/uuid"

	"github.com/cvegate/cvegate/config"
	"github.com/cvegate/cvegate/pkg/vulndb"
)

// Database is the boundary the engine needs from a vulnerability
// database. Lookup failures are fatal to the run; Synchronize failures
// degrade to stale data.
type Database interface {
	Synchronize(ctx context.Context) error
	Lookup(fingerprint string) ([]vulndb.Record, error)
	LookupComponent(name string) ([]vulndb.Range, error)
}

// ExecutionContext aggregates everything a run shares: the database
// handle, the result cache, the resolved settings and a log sink.
// It is built once per invocation and passed by reference to every task.
type ExecutionContext struct {
	RunID    string
	DB       Database
	Cache    *Cache
	Settings config.Settings
	Log      *log.Logger
}

func NewExecutionContext(db Database, settings config.Settings, logger *log.Logger) *ExecutionContext {
	if logger == nil {
		logger = log.Default()
	}

	return &ExecutionContext{
		RunID:    uuid.NewString(),
		DB:       db,
		Cache:    NewCache(),
		Settings: settings,
		Log:      logger,
	}
}
