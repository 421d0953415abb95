// Package session manages per-upload working directories. Each upload
// gets its own folder under the store root, with parse output persisted
// in an extractedData subfolder, so results survive restarts and repeat
// requests can be served without re-parsing.
package session

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/crednx/statement-engine/internal/models"
)

const (
	extractedDataDir = "extractedData"
	resultsFileName  = "session_results.json"
)

var sessionIDPattern = regexp.MustCompile(`^[a-zA-Z0-9-]+$`)

// Store creates and reopens sessions under a root directory.
type Store struct {
	root string
	log  zerolog.Logger
}

// NewStore returns a store rooted at dir, creating it if needed.
func NewStore(dir string, log zerolog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create session root %q: %w", dir, err)
	}
	return &Store{root: dir, log: log}, nil
}

// Session is one upload's working directory.
type Session struct {
	ID  string
	dir string
}

// New creates a fresh session with a generated id.
func (s *Store) New() (*Session, error) {
	id := uuid.NewString()
	dir := filepath.Join(s.root, id)
	if err := os.MkdirAll(filepath.Join(dir, extractedDataDir), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create session %q: %w", id, err)
	}
	s.log.Debug().Str("session", id).Msg("created session")
	return &Session{ID: id, dir: dir}, nil
}

// Open returns the existing session with the given id.
func (s *Store) Open(id string) (*Session, error) {
	if !sessionIDPattern.MatchString(id) {
		return nil, fmt.Errorf("invalid session id %q", id)
	}
	dir := filepath.Join(s.root, id)
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("unknown session %q", id)
	}
	return &Session{ID: id, dir: dir}, nil
}

// List returns the ids of all sessions in the store.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	var ids []string
	for _, e := range entries {
		if e.IsDir() {
			ids = append(ids, e.Name())
		}
	}
	return ids, nil
}

// Dir returns the session's directory.
func (s *Session) Dir() string {
	return s.dir
}

// ExtractedDataDir returns the directory holding parse output.
func (s *Session) ExtractedDataDir() string {
	return filepath.Join(s.dir, extractedDataDir)
}

// SaveUpload stores an uploaded file inside the session and returns its
// path. Only the base name of the client-supplied filename is used.
func (s *Session) SaveUpload(name string, r io.Reader) (string, error) {
	path := filepath.Join(s.dir, filepath.Base(name))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to store upload: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("failed to store upload: %w", err)
	}
	return path, nil
}

// SaveResult persists the parse result to the session's extractedData
// folder.
func (s *Session) SaveResult(result *models.Result) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	path := filepath.Join(s.ExtractedDataDir(), resultsFileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to persist result: %w", err)
	}
	return nil
}

// LoadResult reads a previously persisted parse result, or an error when
// the session has none.
func (s *Session) LoadResult() (*models.Result, error) {
	data, err := os.ReadFile(filepath.Join(s.ExtractedDataDir(), resultsFileName))
	if err != nil {
		return nil, fmt.Errorf("no stored result for session %q", s.ID)
	}
	var result models.Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("stored result for session %q is corrupt: %w", s.ID, err)
	}
	return &result, nil
}
