// SPDX-License-Identifier: Apache-2.0

package journal

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/Stevenfgonzalez/HHAC/pkg/errors"
)

// FileStore persists entries as JSON lines in a file.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a file-backed journal store.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Append writes a JSON-encoded entry as one line at the end of the file.
func (f *FileStore) Append(_ context.Context, e Entry) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.New(errors.CodeJournal, "creating journal directory", err).
			WithContext("path", f.path)
	}

	file, err := os.OpenFile(f.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return errors.New(errors.CodeJournal, "opening journal file", err).
			WithContext("path", f.path)
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	if err := enc.Encode(e); err != nil {
		return errors.New(errors.CodeJournal, "encoding journal entry", err).
			WithContext("entry_id", e.ID)
	}
	return nil
}

// List scans the file and returns the newest matching entries, oldest first.
// A Limit keeps only the most recent N matches.
func (f *FileStore) List(_ context.Context, filter Filter) ([]Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	file, err := os.Open(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.New(errors.CodeJournal, "opening journal file", err).
			WithContext("path", f.path)
	}
	defer file.Close()

	var entries []Entry
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var e Entry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			return nil, errors.New(errors.CodeJournal, "decoding journal entry", err).
				WithContext("path", f.path)
		}
		if matches(e, filter) {
			entries = append(entries, e)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.New(errors.CodeJournal, "scanning journal file", err).
			WithContext("path", f.path)
	}
	if filter.Limit > 0 && len(entries) > filter.Limit {
		entries = entries[len(entries)-filter.Limit:]
	}
	return entries, nil
}

// Close is a no-op; the file is opened per call.
func (f *FileStore) Close() error { return nil }

func matches(e Entry, filter Filter) bool {
	if filter.Consensus != "" && e.Consensus != filter.Consensus {
		return false
	}
	if filter.VetoedOnly && !e.Vetoed {
		return false
	}
	return true
}
