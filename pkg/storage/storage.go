// Package storage persists a Session as pretty-printed JSON under the
// user's cache directory, keyed by a caller-chosen profile name.
package storage

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/walletconnect-go/connector/internal/wclog"
)

// cacheDirName is the subdirectory of the user cache directory this
// module's profiles live under.
const cacheDirName = "walletconnect-go"

// DefaultCacheDir resolves $XDG_CACHE_HOME, falling back to
// $HOME/.cache, falling back to a platform cache directory.
func DefaultCacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, cacheDirName)
	}
	if home := os.Getenv("HOME"); home != "" {
		return filepath.Join(home, ".cache", cacheDirName)
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), cacheDirName)
	}
	return filepath.Join(dir, cacheDirName)
}

// ProfilePath returns the on-disk path for a profile's session file.
func ProfilePath(cacheDir, profile string) string {
	return filepath.Join(cacheDir, "profiles", profile+".json")
}

// Store holds a value of type T backed by a single JSON file. Every
// mutation goes through Update, which applies the mutation then
// rewrites the file; write failures are logged, not propagated — the
// in-memory value remains authoritative for the life of the process.
type Store[T any] struct {
	path   string
	value  T
	logger wclog.Logger
}

// Load reads path and decodes it into T. The caller is expected to
// fall back to a freshly constructed T when Load returns an error (the
// file does not exist, or its content does not match T's on-disk
// shape).
func Load[T any](path string) (T, error) {
	var value T
	data, err := os.ReadFile(path)
	if err != nil {
		return value, err
	}
	if err := json.Unmarshal(data, &value); err != nil {
		return value, err
	}
	return value, nil
}

// New wraps an already-resolved value (freshly created, or loaded by the
// caller) as a Store bound to path.
func New[T any](path string, value T, logger wclog.Logger) *Store[T] {
	if logger == nil {
		logger = wclog.NewNop()
	}
	return &Store[T]{path: path, value: value, logger: logger}
}

// Value returns the current in-memory value.
func (s *Store[T]) Value() T {
	return s.value
}

// Save writes the current value to disk, creating parent directories as
// needed. Failure is logged and swallowed.
func (s *Store[T]) Save() {
	if err := s.trySave(); err != nil {
		s.logger.Warnw("storage: save failed", "path", s.path, "error", err)
	}
}

func (s *Store[T]) trySave() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s.value, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

// Update applies f to the stored value then persists the result.
func (s *Store[T]) Update(f func(*T)) {
	f(&s.value)
	s.Save()
}
