package artifact

import (
	"bufio"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	version2 "github.com/hashicorp/go-version"
)

var artifactExts = map[string]bool{
	".jar": true,
	".war": true,
	".ear": true,
	".zip": true,
	".tgz": true,
	".whl": true,
	".gem": true,
	".rpm": true,
	".deb": true,
	".apk": true,
}

var versionSplit = regexp.MustCompile(`^(.+?)-(\d[\w.+]*?)$`)

// Collect gathers artifacts from the given paths. Directories are walked
// recursively, ".list" manifests are expanded line by line and any other
// file is taken as a single artifact. The returned set is deduplicated by
// identity and sorted so that iteration order is stable across runs.
func Collect(paths []string) ([]Artifact, error) {
	collected := []Artifact{}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", p, err)
		}

		if info.IsDir() {
			arts, err := CollectDir(p)
			if err != nil {
				return nil, err
			}
			collected = append(collected, arts...)
			continue
		}

		if filepath.Ext(p) == ".list" {
			arts, err := CollectList(p)
			if err != nil {
				return nil, err
			}
			collected = append(collected, arts...)
			continue
		}

		collected = append(collected, FromPath(p))
	}

	return dedupe(collected), nil
}

// CollectDir walks root and picks up files with known artifact extensions.
func CollectDir(root string) ([]Artifact, error) {
	collected := []Artifact{}

	fsys := os.DirFS(root)

	if err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		switch {
		case err != nil:
			return err
		case d.IsDir():
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		if ext == ".gz" && strings.HasSuffix(strings.ToLower(path), ".tar.gz") {
			ext = ".tgz"
		}
		if !artifactExts[ext] {
			return nil
		}

		a := FromPath(filepath.Join(root, path))
		if g := groupFromLayout(path, a); g != "" {
			a.Group = g
		}
		collected = append(collected, a)

		return nil

	}); err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	return collected, nil
}

// CollectList reads a manifest of artifact paths, one per line.
// Blank lines and '#' comments are skipped; missing entries are logged
// and dropped rather than failing the whole collection.
func CollectList(file string) ([]Artifact, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, fmt.Errorf("open list %s: %w", file, err)
	}
	defer f.Close()

	collected := []Artifact{}

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if _, err := os.Stat(line); err != nil {
			log.Printf("skipping unreadable artifact %s: %v", line, err)
			continue
		}

		collected = append(collected, FromPath(line))
	}

	if err := sc.Err(); err != nil {
		return nil, err
	}

	return collected, nil
}

// FromPath derives an identity from a filename of the usual
// name-1.2.3.ext form. Files without a parseable version keep the whole
// base name and version "0".
func FromPath(path string) Artifact {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if strings.HasSuffix(strings.ToLower(stem), ".tar") {
		stem = strings.TrimSuffix(stem, filepath.Ext(stem))
	}

	a := Artifact{Name: stem, Version: "0", Path: path}

	if m := versionSplit.FindStringSubmatch(stem); m != nil {
		if _, err := version2.NewVersion(m[2]); err == nil {
			a.Name = m[1]
			a.Version = m[2]
		}
	}

	return a
}

// groupFromLayout recovers a group id from a Maven-style repository
// path such as com/example/util/1.2/util-1.2.jar. The two directories
// above the file must match the artifact's parsed name and version,
// otherwise the path is just a nested folder and the group stays empty.
func groupFromLayout(rel string, a Artifact) string {
	parts := strings.Split(filepath.ToSlash(rel), "/")
	// group segments sit above <name>/<version>/<file>
	if len(parts) < 4 {
		return ""
	}

	if parts[len(parts)-2] != a.Version || parts[len(parts)-3] != a.Name {
		return ""
	}

	group := parts[:len(parts)-3]

	for _, seg := range group {
		if strings.ContainsAny(seg, ".") {
			return ""
		}
	}

	return strings.Join(group, ".")
}

func dedupe(arts []Artifact) []Artifact {
	seen := map[string]bool{}
	out := []Artifact{}

	for _, a := range arts {
		if seen[a.ID()] {
			continue
		}
		seen[a.ID()] = true
		out = append(out, a)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].ID() < out[j].ID()
	})

	return out
}
