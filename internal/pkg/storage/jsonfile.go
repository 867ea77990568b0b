package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/icebet20/Ironhockeybot/internal/pkg/models"
)

// ledgerState is the on-disk shape of the posted-events file.
type ledgerState struct {
	Posted        []string `json:"posted"`
	ResultsPosted []string `json:"results_posted,omitempty"`
}

// FileLedger keeps the posted-events set in a single whole-file JSON document.
// Every operation is a full load-mutate-store cycle under an exclusive mutex,
// so overlapping jobs cannot lose an append. Saves go through a temp file and
// rename, a half-written ledger is never observed.
type FileLedger struct {
	mu   sync.Mutex
	path string
}

func NewFileLedger(path string) *FileLedger {
	return &FileLedger{path: path}
}

func (l *FileLedger) IsPosted(eventKey string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	st, err := l.load()
	if err != nil {
		return false, err
	}
	return contains(st.Posted, eventKey), nil
}

func (l *FileLedger) Remember(eventKey string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	st, err := l.load()
	if err != nil {
		return err
	}
	if contains(st.Posted, eventKey) {
		return nil
	}
	st.Posted = append(st.Posted, eventKey)
	return l.save(st)
}

func (l *FileLedger) IsResultPosted(eventKey string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	st, err := l.load()
	if err != nil {
		return false, err
	}
	return contains(st.ResultsPosted, eventKey), nil
}

func (l *FileLedger) RememberResult(eventKey string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	st, err := l.load()
	if err != nil {
		return err
	}
	if contains(st.ResultsPosted, eventKey) {
		return nil
	}
	st.ResultsPosted = append(st.ResultsPosted, eventKey)
	return l.save(st)
}

func (l *FileLedger) PostedKeys() ([]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	st, err := l.load()
	if err != nil {
		return nil, err
	}
	out := make([]string, len(st.Posted))
	copy(out, st.Posted)
	return out, nil
}

func (l *FileLedger) load() (*ledgerState, error) {
	var st ledgerState
	if err := loadJSON(l.path, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

func (l *FileLedger) save(st *ledgerState) error {
	return saveJSON(l.path, st)
}

// FileSportsCache keeps the /sports catalog in a whole-file JSON array,
// same read-modify-write discipline as the ledger.
type FileSportsCache struct {
	mu   sync.Mutex
	path string
}

func NewFileSportsCache(path string) *FileSportsCache {
	return &FileSportsCache{path: path}
}

func (c *FileSportsCache) Load() ([]models.SportDescriptor, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var sports []models.SportDescriptor
	if err := loadJSON(c.path, &sports); err != nil {
		return nil, err
	}
	return sports, nil
}

func (c *FileSportsCache) Save(sports []models.SportDescriptor) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return saveJSON(c.path, sports)
}

// loadJSON reads a whole JSON document into v. A missing file is not an
// error: v keeps its zero value, matching "empty until first save".
func loadJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// saveJSON writes v as human-formatted UTF-8 JSON, atomically replacing path.
func saveJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", path, err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", path, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
