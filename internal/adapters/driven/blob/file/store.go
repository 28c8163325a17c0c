// Package file provides content-addressable blob storage on the local
// filesystem. Blobs are named by the SHA-256 of their content, so storing
// the same bytes twice yields the same reference and a single file.
package file

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
	"github.com/custodia-labs/askdocs-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.BlobStore = (*Store)(nil)

// Store is a filesystem-backed implementation of driven.BlobStore.
type Store struct {
	dir string
}

// NewStore creates a blob store rooted at the specified data directory.
// If dataDir is empty, defaults to ~/.askdocs/data/blobs.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".askdocs", "data")
	}

	dir := filepath.Join(dataDir, "blobs")
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating blob directory: %w", err)
	}

	return &Store{dir: dir}, nil
}

// Store writes the blob and returns its content-addressable reference.
func (s *Store) Store(_ context.Context, data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty blob", domain.ErrInvalidInput)
	}

	sum := sha256.Sum256(data)
	ref := hex.EncodeToString(sum[:])
	path := filepath.Join(s.dir, ref)

	// Same content, same file. Nothing to do.
	if _, err := os.Stat(path); err == nil {
		return ref, nil
	}

	// Write via temp file then rename so a crash never leaves a
	// half-written blob under its final name.
	tmp, err := os.CreateTemp(s.dir, "blob-*")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("writing blob: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("closing blob: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("renaming blob: %w", err)
	}

	return ref, nil
}

// Fetch reads the blob for a reference.
func (s *Store) Fetch(_ context.Context, ref string) ([]byte, error) {
	// References are hex digests; reject anything that could escape the dir.
	if ref == "" || ref != filepath.Base(ref) {
		return nil, fmt.Errorf("%w: invalid blob reference %q", domain.ErrInvalidInput, ref)
	}

	data, err := os.ReadFile(filepath.Join(s.dir, ref))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("reading blob: %w", err)
	}
	return data, nil
}
