package daemon

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/adrg/xdg"
)

// State is the small piece of daemon state shared with notiqctl and
// status bars across restarts. Persisted to the XDG state directory.
type State struct {
	Paused   bool  `json:"paused"`
	PausedAt int64 `json:"paused_at,omitempty"` // Unix timestamp of the last pause

	SchemaVersion int `json:"schema_version"`
}

const stateSchemaVersion = 1

var stateMu sync.Mutex

// DefaultState returns a fresh unpaused state.
func DefaultState() *State {
	return &State{SchemaVersion: stateSchemaVersion}
}

// StatePath returns the path of the persisted state file.
func StatePath() string {
	return filepath.Join(xdg.StateHome, "notiq", "state.json")
}

// LoadState reads the persisted state. A missing or corrupt file yields
// the default state rather than an error; the state is advisory.
func LoadState() *State {
	stateMu.Lock()
	defer stateMu.Unlock()

	data, err := os.ReadFile(StatePath())
	if err != nil {
		return DefaultState()
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return DefaultState()
	}
	if st.SchemaVersion == 0 {
		st.SchemaVersion = stateSchemaVersion
	}
	return &st
}

// SaveState writes the state atomically via a temp file.
func SaveState(st *State) error {
	stateMu.Lock()
	defer stateMu.Unlock()

	path := StatePath()
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	if st.SchemaVersion == 0 {
		st.SchemaVersion = stateSchemaVersion
	}
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// SetPaused updates the pause flag, stamping the transition time.
func (s *State) SetPaused(paused bool) {
	s.Paused = paused
	if paused {
		s.PausedAt = time.Now().Unix()
	}
}
