package repository

import (
	"encoding/json"
	"os"
	"path/filepath"

	"loan-predictor/domain"
)

// FileTokenStore keeps the session in a single JSON file, the well-known
// location equivalent of a browser's one localStorage key.
type FileTokenStore struct {
	path string
}

func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{path: path}
}

// DefaultTokenPath resolves the per-user session file location.
func DefaultTokenPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "loan-predictor", "session.json"), nil
}

func (s *FileTokenStore) Load() (domain.Session, bool) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return domain.Session{}, false
	}
	var session domain.Session
	if err := json.Unmarshal(data, &session); err != nil || session.Token == "" {
		return domain.Session{}, false
	}
	return session, true
}

func (s *FileTokenStore) Save(session domain.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	// Write-then-rename so a crash never leaves a torn session file.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func (s *FileTokenStore) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
