// Package state persists sync cursors across process restarts.
package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

const currentVersion = 1

// File stores per-account cursors as a small JSON file. Saving only
// ever happens after a fully successful cycle, so a crash or aborted
// cycle replays pages instead of skipping them.
type File struct {
	path string
}

type fileState struct {
	Version   int               `json:"version"`
	Cursors   map[string]string `json:"cursors"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// NewFile builds a store writing to path.
func NewFile(path string) *File {
	return &File{path: path}
}

// Load returns the persisted cursors. A missing file means a first-ever
// sync and yields an empty map.
func (f *File) Load() (map[string]string, error) {
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("reading state file: %w", err)
	}

	var state fileState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("parsing state file: %w", err)
	}

	if state.Cursors == nil {
		state.Cursors = map[string]string{}
	}

	return state.Cursors, nil
}

// Save writes the cursors, replacing the file atomically via a rename.
func (f *File) Save(cursors map[string]string) error {
	raw, err := json.MarshalIndent(fileState{
		Version:   currentVersion,
		Cursors:   cursors,
		UpdatedAt: time.Now().UTC(),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding state: %w", err)
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("writing state file: %w", err)
	}

	if err := os.Rename(tmp, filepath.Clean(f.path)); err != nil {
		return fmt.Errorf("replacing state file: %w", err)
	}

	return nil
}
