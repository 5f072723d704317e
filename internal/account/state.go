package account

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// State is the default input set used by the bot surfaces.
type State struct {
	Pair        string    `json:"pair"`
	Balance     float64   `json:"balance"`
	RiskPercent float64   `json:"risk_percent"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// LoadState reads the state from a JSON file. Returns nil if the file doesn't exist.
func LoadState(filePath string) (*State, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// SaveState writes the state to a JSON file, creating its directory.
func SaveState(filePath string, state *State) error {
	state.UpdatedAt = time.Now()
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(filePath, data, 0o644)
}
