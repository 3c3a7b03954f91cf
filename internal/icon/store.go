package icon

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
)

// ErrInvalidParameter reports a malformed owner or file reference
var ErrInvalidParameter = errors.New("invalid file parameter")

// bucketSize groups owner directories so no single directory grows unbounded
const bucketSize = 5000

// FileStore answers questions about files kept in an owner's namespace
type FileStore interface {
	// Exists reports whether the file is present. Malformed references
	// return ErrInvalidParameter.
	Exists(ctx context.Context, ownerID int64, filename string) (bool, error)
	// Open returns the file for reading.
	Open(ctx context.Context, ownerID int64, filename string) (*os.File, error)
}

// Filename is the per-owner, per-size name of a generated profile icon
func Filename(ownerID int64, size Size) string {
	return fmt.Sprintf("profile/%d%s.jpg", ownerID, size)
}

// LocalStore keeps owner files on the local disk under root/{bucket}/{owner}/
type LocalStore struct {
	root string
}

// NewLocalStore creates a store rooted at dir
func NewLocalStore(dir string) *LocalStore {
	return &LocalStore{root: dir}
}

// Path returns the on-disk location of an owner's file
func (s *LocalStore) Path(ownerID int64, filename string) (string, error) {
	if ownerID <= 0 {
		return "", fmt.Errorf("%w: owner id %d", ErrInvalidParameter, ownerID)
	}
	if filename == "" || strings.HasPrefix(filename, "/") || strings.Contains(filename, "\\") {
		return "", fmt.Errorf("%w: filename %q", ErrInvalidParameter, filename)
	}
	clean := path.Clean(filename)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("%w: filename %q", ErrInvalidParameter, filename)
	}

	bucket := (ownerID / bucketSize) * bucketSize
	if bucket < 1 {
		bucket = 1
	}
	return filepath.Join(s.root, strconv.FormatInt(bucket, 10), strconv.FormatInt(ownerID, 10), filepath.FromSlash(clean)), nil
}

// Exists implements FileStore
func (s *LocalStore) Exists(_ context.Context, ownerID int64, filename string) (bool, error) {
	p, err := s.Path(ownerID, filename)
	if err != nil {
		return false, err
	}
	info, err := os.Stat(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat %s: %w", filename, err)
	}
	return info.Mode().IsRegular(), nil
}

// Open implements FileStore
func (s *LocalStore) Open(_ context.Context, ownerID int64, filename string) (*os.File, error) {
	p, err := s.Path(ownerID, filename)
	if err != nil {
		return nil, err
	}
	return os.Open(p)
}
