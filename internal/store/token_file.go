package store

import (
    "errors"
    "io/fs"
    "os"
    "path/filepath"
    "strings"
)

const tokenFileName = "token"

// FileTokenStore holds the single bearer token in a mode-0600 file.
type FileTokenStore struct {
    path string
}

// NewFileTokenStore creates the data directory if needed and returns
// a store writing to <dir>/token.
func NewFileTokenStore(dir string) (*FileTokenStore, error) {
    if err := os.MkdirAll(dir, 0o700); err != nil {
        return nil, err
    }
    return &FileTokenStore{path: filepath.Join(dir, tokenFileName)}, nil
}

// Load returns the stored token, or an empty string when none exists.
func (s *FileTokenStore) Load() (string, error) {
    b, err := os.ReadFile(s.path)
    if errors.Is(err, fs.ErrNotExist) {
        return "", nil
    }
    if err != nil {
        return "", err
    }
    return strings.TrimSpace(string(b)), nil
}

func (s *FileTokenStore) Save(token string) error {
    return os.WriteFile(s.path, []byte(token), 0o600)
}

func (s *FileTokenStore) Clear() error {
    err := os.Remove(s.path)
    if errors.Is(err, fs.ErrNotExist) {
        return nil
    }
    return err
}
