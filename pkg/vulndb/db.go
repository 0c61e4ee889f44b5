package vulndb

import (
	"crypto/md5"
	"database/sql"
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

const dbFile = "cvegate.db"

// Init opens the local database, creating the store folder and schema
// on first use.
func (cli *Client) Init() error {

	if !exists(cli.Store) {
		if err := os.MkdirAll(cli.Store, os.FileMode(0755)); err != nil {
			log.Printf("failed to create store folder, error: %v", err)
			return err
		}
	}

	dbPath := filepath.Join(cli.Store, dbFile)

	var db *sql.DB
	if !exists(dbPath) {
		file, err := os.Create(dbPath)
		if err != nil {
			return err
		}
		file.Close()
		db, _ = sql.Open("sqlite3", dbPath)
		recordTable := `CREATE TABLE records (
			"ID" INTEGER NOT NULL PRIMARY KEY AUTOINCREMENT,
			"RowHash" TEXT UNIQUE,
			"Hash" TEXT,
			"Component" TEXT,
			"Version" TEXT,
			"MaxVersion" TEXT,
			"MinVersion" TEXT,
			"CVEID" TEXT,
			"Title" TEXT,
			"Level" TEXT,
			"Score" REAL,
			"PublishDate" TEXT);`
		query, err := db.Prepare(recordTable)
		if err != nil {
			return err
		}
		query.Exec()

		index := `CREATE INDEX idx_records_hash ON records ("Hash");`
		if _, err := db.Exec(index); err != nil {
			return err
		}
	} else {
		db, _ = sql.Open("sqlite3", dbPath)
	}

	cli.DB = db
	return nil
}

// Close releases the underlying handle.
func (cli *Client) Close() error {
	if cli.DB == nil {
		return nil
	}
	return cli.DB.Close()
}

// Reset removes the local database and the sync date stamp so that the
// next synchronization starts from scratch.
func (cli *Client) Reset() error {
	_ = os.Remove(filepath.Join(cli.Store, dateFile))

	if err := os.Remove(filepath.Join(cli.Store, dbFile)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

type feedEntry struct {
	hash        string
	component   string
	version     string
	maxVersion  string
	minVersion  string
	cveID       string
	title       string
	level       string
	score       float64
	publishDate string
}

func (cli *Client) update(e *feedEntry) error {

	rowHash := md5.Sum([]byte(fmt.Sprintf("%s%s%s%s%s", e.hash, e.component, e.maxVersion, e.minVersion, e.cveID)))
	sqlRow := `INSERT INTO records
				  ("RowHash", "Hash", "Component", "Version", "MaxVersion", "MinVersion", "CVEID", "Title", "Level", "Score", "PublishDate")
	               VALUES
	              (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := cli.DB.Exec(sqlRow, hex.EncodeToString(rowHash[:]), e.hash,
		e.component, e.version, e.maxVersion, e.minVersion,
		e.cveID, e.title, e.level, e.score, e.publishDate)

	if err != nil {
		if strings.Contains(err.Error(), "records.RowHash") {
			return nil
		}
		return err
	}

	return nil
}

// Lookup returns the CVE records whose content hash matches the given
// fingerprint. Query failures wrap ErrUnavailable.
func (cli *Client) Lookup(fp string) ([]Record, error) {

	records := []Record{}

	sqlRow := `SELECT CVEID, Title, Level, Score, Component, Version, PublishDate FROM records WHERE Hash = ?`
	rows, err := cli.DB.Query(sqlRow, fp)

	if err != nil {
		return records, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	defer rows.Close()

	for rows.Next() {
		r := Record{}
		err = rows.Scan(&r.CVEID, &r.Title, &r.Level,
			&r.Score, &r.Component, &r.Version, &r.PublishDate)

		if err != nil {
			continue
		}

		records = append(records, r)
	}

	if err = rows.Err(); err != nil {
		return records, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return records, nil
}

// LookupComponent returns the vulnerable version ranges recorded for a
// component name.
func (cli *Client) LookupComponent(name string) ([]Range, error) {

	ranges := []Range{}

	sqlRow := `SELECT CVEID, Title, Level, Score, Component, MaxVersion, MinVersion, PublishDate FROM records WHERE Component = ?`
	rows, err := cli.DB.Query(sqlRow, name)

	if err != nil {
		return ranges, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	defer rows.Close()

	for rows.Next() {
		r := Range{}
		err = rows.Scan(&r.CVEID, &r.Title, &r.Level,
			&r.Score, &r.Component, &r.MaxVersion,
			&r.MinVersion, &r.PublishDate)

		if err != nil || r.MaxVersion == "*" {
			continue
		}

		ranges = append(ranges, r)
	}

	if err = rows.Err(); err != nil {
		return ranges, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return ranges, nil
}
