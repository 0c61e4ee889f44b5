package fingerprint

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"strings"
)

// Algorithms lists the supported hash algorithm names.
func Algorithms() []string {
	return []string{"sha1", "sha256", "sha512"}
}

// Supported reports whether the named algorithm can be computed.
func Supported(algorithm string) bool {
	for _, a := range Algorithms() {
		if strings.EqualFold(algorithm, a) {
			return true
		}
	}
	return false
}

func newHash(algorithm string) (hash.Hash, error) {
	switch strings.ToLower(algorithm) {
	case "sha1":
		return sha1.New(), nil
	case "sha256":
		return sha256.New(), nil
	case "sha512":
		return sha512.New(), nil
	}
	return nil, fmt.Errorf("unsupported algorithm %q", algorithm)
}

// Compute hashes the content of r with the chosen algorithm and returns
// the lowercase hex digest used as the database lookup key.
func Compute(r io.Reader, algorithm string) (string, error) {
	h, err := newHash(algorithm)
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(h, r); err != nil {
		return "", fmt.Errorf("read content: %w", err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
