package vulndb

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestCheckExpired(t *testing.T) {
	dir := t.TempDir()

	if !checkExpired(dir) {
		t.Error("checkExpired() = false with no date stamp")
	}

	if err := writeLog(dir); err != nil {
		t.Fatalf("writeLog() error = %v", err)
	}
	if checkExpired(dir) {
		t.Error("checkExpired() = true right after writeLog()")
	}

	stale := time.Now().AddDate(0, 0, -3).Format(dateFormat)
	if err := os.WriteFile(filepath.Join(dir, dateFile), []byte(stale), 0644); err != nil {
		t.Fatal(err)
	}
	if !checkExpired(dir) {
		t.Error("checkExpired() = false for a three day old stamp")
	}

	if err := os.WriteFile(filepath.Join(dir, dateFile), []byte("not a date"), 0644); err != nil {
		t.Fatal(err)
	}
	if !checkExpired(dir) {
		t.Error("checkExpired() = false for an unreadable stamp")
	}
}
