package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore writes images under a directory that the HTTP server exposes at publicBaseURL
type LocalStore struct {
	root          string
	publicBaseURL string
}

// NewLocalStore creates the root directory if needed
func NewLocalStore(root, publicBaseURL string) (*LocalStore, error) {
	if root == "" {
		return nil, errors.New("storage: local directory is required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve %s: %w", root, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create %s: %w", abs, err)
	}
	return &LocalStore{root: abs, publicBaseURL: strings.TrimRight(publicBaseURL, "/")}, nil
}

// Root is the directory files are written to
func (s *LocalStore) Root() string { return s.root }

func (s *LocalStore) Save(ctx context.Context, key, _ string, body io.Reader, _ int64) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	target, err := s.resolve(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("storage: create directory for %s: %w", key, err)
	}

	f, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("storage: create %s: %w", key, err)
	}
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		_ = os.Remove(target)
		return "", fmt.Errorf("storage: write %s: %w", key, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("storage: close %s: %w", key, err)
	}

	return s.publicBaseURL + "/" + filepath.ToSlash(key), nil
}

// Delete removes the object; a missing object is not an error
func (s *LocalStore) Delete(_ context.Context, key string) error {
	target, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(target); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("storage: delete %s: %w", key, err)
	}
	return nil
}

// resolve maps a key to a path inside root, rejecting keys that escape it
func (s *LocalStore) resolve(key string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(key))
	if key == "" || filepath.IsAbs(cleaned) || cleaned == "." || strings.HasPrefix(cleaned, "..") {
		return "", fmt.Errorf("storage: invalid key %q", key)
	}
	return filepath.Join(s.root, cleaned), nil
}
