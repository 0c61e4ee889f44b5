package internal

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/cvegate/cvegate/config"
	"github.com/cvegate/cvegate/internal/report"
	"github.com/cvegate/cvegate/internal/scan"
	"github.com/cvegate/cvegate/pkg/artifact"
	"github.com/cvegate/cvegate/pkg/vulndb"
)

func newDBClient(settings config.Settings) *vulndb.Client {
	tr := &http.Transport{
		IdleConnTimeout: 60 * time.Second,
		// The feed is gzip compressed, decompression is done by hand
		DisableCompression: true,
	}

	return &vulndb.Client{
		Cli:     &http.Client{Transport: tr},
		Store:   settings.StoreDir,
		FeedURL: settings.FeedURL,
	}
}

// DoCheck collects the artifacts under the given paths and runs the
// scan engine. The returned error is the run-level failure the caller
// surfaces as a failed build.
func DoCheck(ctx context.Context, settings config.Settings, paths []string) error {

	settings.Show()

	artifacts, err := artifact.Collect(paths)
	if err != nil {
		return err
	}

	if len(artifacts) == 0 {
		log.Printf("No artifacts found under the given paths")
		return nil
	}

	log.Printf("Checking %s artifacts", config.Yellow(len(artifacts)))

	cli := newDBClient(settings)
	if err := cli.Init(); err != nil {
		log.Printf("failed to open vulnerability database")
		return err
	}
	defer cli.Close()

	ec := scan.NewExecutionContext(cli, settings, nil)

	res, runErr := scan.NewOrchestrator(ec).Run(ctx, artifacts)

	if err := report.Resolve(res); err != nil {
		log.Printf("failed to print report, error: %v", err)
	}

	if err := report.ToJson(settings.Output, res); err != nil {
		log.Printf("failed to write report, error: %v", err)
	}

	if runErr != nil {
		return runErr
	}

	log.Printf(config.Green("All artifacts passed the vulnerability gate"))
	return nil
}

// DoUpgrade synchronizes the local database, optionally resetting it
// first so the whole feed is reimported.
func DoUpgrade(ctx context.Context, settings config.Settings, reset bool) error {

	cli := newDBClient(settings)

	if reset {
		if err := cli.Reset(); err != nil {
			return err
		}
	}

	if err := cli.Init(); err != nil {
		log.Printf("failed to open vulnerability database")
		return err
	}
	defer cli.Close()

	if err := cli.Synchronize(ctx); err != nil {
		log.Printf("Updating vulnerability database failed, error: %v", err)
		return err
	}

	log.Printf(config.Green("Updating vulnerability database success"))
	return nil
}
