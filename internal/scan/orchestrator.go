package scan

import (
	"context"
	"errors"
	"runtime"
	"sync"

	"github.com/shirou/gopsutil/cpu"

	"github.com/cvegate/cvegate/pkg/artifact"
)

type Verdict string

const (
	Pass Verdict = "pass"
	Fail Verdict = "fail"
)

// Result is the terminal state of a run.
type Result struct {
	Verdict Verdict
	// Failure identifies the offending artifact when the verdict is
	// Fail because of a vulnerability match.
	Failure *VulnError
	// Outcomes lists every artifact whose scan completed before the
	// run terminated.
	Outcomes []Outcome
}

// Orchestrator owns the worker pool and drives a scan run to a verdict.
type Orchestrator struct {
	ec      *ExecutionContext
	workers int
}

func NewOrchestrator(ec *ExecutionContext) *Orchestrator {
	return &Orchestrator{ec: ec, workers: poolSize()}
}

func poolSize() int {
	n, err := cpu.Counts(true)
	if err != nil || n < 1 {
		return runtime.NumCPU()
	}
	return n
}

type completion struct {
	task    Task
	outcome *Outcome
	err     error
}

// Run scans the artifact set and returns the terminal result. The
// returned error is the run-level failure: a fatal *VulnError or a
// database availability error. Per-artifact failures are logged and
// folded into the result instead.
//
// The database is synchronized first unless disabled; sync failures
// degrade to stale data. Artifacts already in the cache are resolved
// inline, everything else goes through the pool. Completions are polled
// without blocking during dispatch so a fatal match cancels outstanding
// work as early as possible.
func (o *Orchestrator) Run(ctx context.Context, artifacts []artifact.Artifact) (*Result, error) {

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	ec := o.ec
	ec.Log.Printf("Starting scan run %s with %d workers", ec.RunID, o.workers)

	if ec.Settings.Update {
		if err := ec.DB.Synchronize(runCtx); err != nil {
			ec.Log.Printf("Unable to update vulnerability database, CVE records might be out of date: %v", err)
		}
	} else {
		ec.Log.Printf("Database update disabled, using local records")
	}

	jobs := make(chan Task, len(artifacts))
	done := make(chan completion, len(artifacts))

	var wg sync.WaitGroup
	for i := 0; i < o.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range jobs {
				if err := runCtx.Err(); err != nil {
					done <- completion{task: t, err: err}
					continue
				}
				out, err := t.Execute(runCtx, ec)
				done <- completion{task: t, outcome: out, err: err}
			}
		}()
	}
	defer wg.Wait()

	res := &Result{Verdict: Pass}
	inflight := 0
	seen := map[string]bool{}
	var fatal error

dispatch:
	for _, a := range artifacts {

		// Each identity is scanned by at most one task per run, even
		// when the supply set carries duplicates.
		if seen[a.ID()] {
			continue
		}
		seen[a.ID()] = true

		// Check if this artifact was already inspected
		if ec.Cache.Exists(a.ID()) {
			records := ec.Cache.Records(a.ID())
			ec.Log.Printf("cached: %s", a.ID())

			res.Outcomes = append(res.Outcomes, Outcome{Artifact: a, Records: records, Cached: true})

			if len(records) > 0 {
				verr := &VulnError{ID: a.ID(), Records: records}
				ec.Log.Printf("warning: %s", verr.LogMessage())

				if ec.IsFatal(verr) {
					fatal = verr
					break dispatch
				}
			}
			continue
		}

		jobs <- Task{Artifact: a}
		inflight++

		// Poll the completion stream so a failure short-circuits
		// before dispatch finishes. Never blocks.
		select {
		case c := <-done:
			inflight--
			if err := o.processCompletion(res, c); err != nil {
				fatal = err
				break dispatch
			}
		default:
		}
	}

	close(jobs)

	if fatal != nil {
		// Cancel outstanding tasks; late results are discarded below.
		cancel()
	}

	// Drain remaining completions in completion order.
	for inflight > 0 {
		c := <-done
		inflight--

		if fatal != nil {
			if c.err != nil && IsInterrupted(c.err) {
				ec.Log.Printf("task interrupted: %s", c.task.Artifact.ID())
			}
			continue
		}

		if err := o.processCompletion(res, c); err != nil {
			fatal = err
			cancel()
		}
	}

	if fatal != nil {
		res.Verdict = Fail
		var verr *VulnError
		if errors.As(fatal, &verr) {
			res.Failure = verr
		}
		return res, fatal
	}

	return res, nil
}

// processCompletion records one finished task: cache update, severity
// policy, terminal bookkeeping. The returned error, if any, is fatal to
// the run. The same handling applies whether the outcome came from a
// task or from the cache path in Run.
func (o *Orchestrator) processCompletion(res *Result, c completion) error {

	ec := o.ec
	id := c.task.Artifact.ID()

	if c.err == nil {
		ec.Log.Printf("done: %s", id)
		ec.Cache.Add(id, nil)
		res.Outcomes = append(res.Outcomes, *c.outcome)
		return nil
	}

	if IsInterrupted(c.err) {
		ec.Log.Printf("task interrupted: %s", id)
		return nil
	}

	var ioErr *IOError
	if errors.As(c.err, &ioErr) {
		ec.Log.Printf("warning: %v", ioErr)
		res.Outcomes = append(res.Outcomes, Outcome{Artifact: c.task.Artifact, Err: ioErr})
		return nil
	}

	var verr *VulnError
	if errors.As(c.err, &verr) {
		ec.Cache.Add(verr.ID, verr.Records)
		ec.Log.Printf("warning: %s", verr.LogMessage())

		res.Outcomes = append(res.Outcomes, Outcome{Artifact: c.task.Artifact, Records: verr.Records})

		if ec.IsFatal(verr) {
			return verr
		}
		return nil
	}

	// Anything else, vulndb.ErrUnavailable included, means results
	// would be meaningless: fail the run.
	return c.err
}
