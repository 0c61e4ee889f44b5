package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/cvegate/cvegate/pkg/fingerprint"
)

const (
	ModeFingerprint = "fingerprint"
	ModeMetadata    = "metadata"

	DefaultFeedURL = "https://feed.cvegate.io/v1/records.json.gz"
)

// Settings holds every knob the scan engine reads. It is resolved once
// by the CLI and passed by value; nothing mutates it afterwards.
type Settings struct {
	// Hash algorithm used for database lookup keys.
	Algorithm string `yaml:"algorithm"`
	// Update controls whether the database is synchronized before scanning.
	Update bool `yaml:"update"`
	// Mode selects fingerprint-only or fingerprint+metadata matching.
	Mode string `yaml:"mode"`
	// FailOn is the lowest severity level that aborts the run.
	FailOn string `yaml:"fail_on"`
	// FeedURL is the upstream vulnerability feed.
	FeedURL string `yaml:"feed_url"`
	// StoreDir is where the local database and feed files live.
	StoreDir string `yaml:"store_dir"`
	// Output is the JSON report location.
	Output string `yaml:"output"`
}

// Defaults returns the built-in settings before any file, env or flag
// overrides are applied.
func Defaults() Settings {
	return Settings{
		Algorithm: "sha512",
		Update:    true,
		Mode:      ModeFingerprint,
		FailOn:    "high",
		FeedURL:   DefaultFeedURL,
		Output:    "output",
	}
}

// Load resolves settings from defaults, then an optional YAML file,
// then CVEGATE_* environment variables. A .env file in the working
// directory is honored if present.
func Load(path string) (Settings, error) {
	s := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return s, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &s); err != nil {
			return s, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	// Ignore a missing .env, only explicit values override
	_ = godotenv.Load()
	s.applyEnv()

	if s.StoreDir == "" {
		dir, err := defaultStoreDir()
		if err != nil {
			return s, err
		}
		s.StoreDir = dir
	}

	return s, nil
}

func (s *Settings) applyEnv() {
	if v := os.Getenv("CVEGATE_ALGORITHM"); v != "" {
		s.Algorithm = v
	}
	if v := os.Getenv("CVEGATE_UPDATE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			s.Update = b
		}
	}
	if v := os.Getenv("CVEGATE_MODE"); v != "" {
		s.Mode = v
	}
	if v := os.Getenv("CVEGATE_FAIL_ON"); v != "" {
		s.FailOn = v
	}
	if v := os.Getenv("CVEGATE_FEED_URL"); v != "" {
		s.FeedURL = v
	}
	if v := os.Getenv("CVEGATE_STORE_DIR"); v != "" {
		s.StoreDir = v
	}
}

// Validate rejects settings the engine cannot honor.
func (s Settings) Validate() error {
	if !fingerprint.Supported(s.Algorithm) {
		return fmt.Errorf("unknown algorithm %q", s.Algorithm)
	}

	switch strings.ToLower(s.Mode) {
	case ModeFingerprint, ModeMetadata:
	default:
		return fmt.Errorf("unknown scan mode %q", s.Mode)
	}

	if _, ok := SeverityMap[strings.ToLower(s.FailOn)]; !ok {
		return fmt.Errorf("unknown fail-on level %q", s.FailOn)
	}

	return nil
}

// Show logs the resolved settings at run start.
func (s Settings) Show() {
	log.Printf("Scan mode: %s, algorithm: %s, fail-on: %s, update: %v",
		Yellow(s.Mode), Yellow(s.Algorithm), Yellow(s.FailOn), s.Update)
}

func defaultStoreDir() (string, error) {
	dir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ".cvegate"), nil
}
