package vulndb

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/tidwall/gjson"
)

const (
	dateFile   = "date.txt"
	dateFormat = "02/01/2006"

	syncRetries = 3
)

// Synchronize refreshes the local records from the upstream feed.
// The feed is refetched at most once a day; failures come back as a
// *SyncError so callers can continue with the existing data.
func (cli *Client) Synchronize(ctx context.Context) error {
	log.Printf("Begin updating vulnerability database")

	if !exists(cli.Store) {
		if err := os.MkdirAll(cli.Store, os.FileMode(0755)); err != nil {
			return &SyncError{Cause: err}
		}
	}

	if !checkExpired(cli.Store) {
		log.Printf("Vulnerability database is up to date")
		return nil
	}

	body, err := cli.fetchFeed(ctx)
	if err != nil {
		return &SyncError{Cause: err}
	}

	if err := cli.storeFeed(body); err != nil {
		return &SyncError{Cause: err}
	}

	if err := writeLog(cli.Store); err != nil {
		log.Printf("failed to write date log, error: %v", err)
	}

	log.Printf("Vulnerability database updated")

	return nil
}

func (cli *Client) fetchFeed(ctx context.Context) ([]byte, error) {

	var body []byte

	bo := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), syncRetries)

	err := backoff.Retry(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, cli.FeedURL, nil)
		if err != nil {
			return backoff.Permanent(err)
		}

		res, err := cli.Cli.Do(req)
		if err != nil {
			return err
		}
		defer res.Body.Close()

		if res.StatusCode != http.StatusOK {
			return fmt.Errorf("feed responded %s", res.Status)
		}

		gz, err := gzip.NewReader(res.Body)
		if err != nil {
			return err
		}
		defer gz.Close()

		body, err = io.ReadAll(gz)
		return err

	}, backoff.WithContext(bo, ctx))

	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", cli.FeedURL, err)
	}

	return body, nil
}

// storeFeed parses the feed body and upserts every record. Feed layout:
//
//	{"records": [{"cve": ..., "title": ..., "level": ..., "score": ...,
//	  "component": ..., "version": ..., "published": ...,
//	  "hashes": {"sha512": ...}, "ranges": [{"max": ..., "min": ...}]}]}
func (cli *Client) storeFeed(body []byte) error {

	records := gjson.GetBytes(body, "records")
	if !records.Exists() {
		return fmt.Errorf("feed has no records field")
	}

	var storeErr error
	records.ForEach(func(_, rec gjson.Result) bool {

		base := feedEntry{
			cveID:       rec.Get("cve").String(),
			title:       rec.Get("title").String(),
			level:       rec.Get("level").String(),
			score:       rec.Get("score").Float(),
			component:   rec.Get("component").String(),
			version:     rec.Get("version").String(),
			publishDate: rec.Get("published").String(),
		}

		rec.Get("hashes").ForEach(func(_, h gjson.Result) bool {
			e := base
			e.hash = h.String()
			if err := cli.update(&e); err != nil {
				storeErr = err
				return false
			}
			return true
		})

		rec.Get("ranges").ForEach(func(_, r gjson.Result) bool {
			e := base
			e.maxVersion = r.Get("max").String()
			e.minVersion = r.Get("min").String()
			if err := cli.update(&e); err != nil {
				storeErr = err
				return false
			}
			return true
		})

		return storeErr == nil
	})

	return storeErr
}

func exists(path string) bool {
	_, err := os.Stat(path)
	if err != nil {
		if os.IsExist(err) {
			return true
		}

		return false
	}
	return true
}

// checkExpired reports whether the local records are older than a day,
// judged by the date stamp left after the last synchronization.
func checkExpired(path string) bool {

	value, err := os.ReadFile(filepath.Join(path, dateFile))
	if err != nil || len(value) < 1 {
		return true
	}

	stamp, err := time.Parse(dateFormat, string(value))
	if err != nil {
		log.Printf("Date stamp unreadable, treating records as expired")
		return true
	}

	return time.Now().After(stamp.AddDate(0, 0, 1))
}

func writeLog(path string) error {
	stamp := time.Now().Format(dateFormat)
	return os.WriteFile(filepath.Join(path, dateFile), []byte(stamp), 0644)
}
