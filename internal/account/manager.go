package account

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"FxSignal/internal/config"
	"FxSignal/internal/model"

	"github.com/rs/zerolog/log"
)

// ErrInvalidInput marks a rejected balance or risk value.
var ErrInvalidInput = errors.New("invalid input")

// Manager holds the default pair, balance and risk with concurrency safety.
// With an empty file path the state lives in memory only.
type Manager struct {
	mu       sync.Mutex
	state    *State
	filePath string
}

// NewManager creates a Manager, loading saved state from disk or seeding it
// from the given defaults.
func NewManager(filePath string, defaults State) (*Manager, error) {
	var state *State
	if filePath != "" {
		s, err := LoadState(filePath)
		if err != nil {
			return nil, fmt.Errorf("load account state: %w", err)
		}
		state = s
	}
	if state == nil {
		d := defaults
		state = &d
	}
	if err := validate(state); err != nil {
		return nil, err
	}

	m := &Manager{state: state, filePath: filePath}
	if err := m.save(); err != nil {
		return nil, err
	}
	return m, nil
}

// GetState returns a copy of the current state.
func (m *Manager) GetState() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.state
}

// Request builds a render request from the saved defaults.
func (m *Manager) Request() model.Request {
	s := m.GetState()
	return model.Request{Pair: s.Pair, Balance: s.Balance, RiskPercent: s.RiskPercent}
}

// SetPair selects the default pair.
func (m *Manager) SetPair(name string) error {
	p, err := model.LookupPair(name)
	if err != nil {
		return err
	}
	return m.update(func(s *State) { s.Pair = p.Name })
}

// SetBalance sets the account balance. Must be >= 0.
func (m *Manager) SetBalance(balance float64) error {
	if err := ValidateBalance(balance); err != nil {
		return err
	}
	return m.update(func(s *State) { s.Balance = balance })
}

// SetRiskPercent sets the risk percentage. Must be an integer in [0, 10].
func (m *Manager) SetRiskPercent(risk int) error {
	if err := ValidateRisk(float64(risk)); err != nil {
		return err
	}
	return m.update(func(s *State) { s.RiskPercent = float64(risk) })
}

// update applies fn to a copy and commits it only once it is saved.
func (m *Manager) update(fn func(s *State)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	next := *m.state
	fn(&next)
	if err := m.saveState(&next); err != nil {
		log.Error().Err(err).Msg("failed to save account state")
		return err
	}
	m.state = &next
	return nil
}

func (m *Manager) save() error {
	return m.saveState(m.state)
}

func (m *Manager) saveState(s *State) error {
	if m.filePath == "" {
		return nil
	}
	return SaveState(m.filePath, s)
}

// ValidateBalance rejects negative and non-finite balances.
func ValidateBalance(balance float64) error {
	if math.IsNaN(balance) || math.IsInf(balance, 0) {
		return fmt.Errorf("%w: balance must be a finite number, got %v", ErrInvalidInput, balance)
	}
	if balance < 0 {
		return fmt.Errorf("%w: balance must be >= 0, got %v", ErrInvalidInput, balance)
	}
	return nil
}

// ValidateRisk rejects risk percentages outside [0, 10].
func ValidateRisk(risk float64) error {
	if math.IsNaN(risk) || risk < config.MinRiskPercent || risk > config.MaxRiskPercent {
		return fmt.Errorf("%w: risk must be within [%d, %d], got %v",
			ErrInvalidInput, config.MinRiskPercent, config.MaxRiskPercent, risk)
	}
	return nil
}

func validate(s *State) error {
	p, err := model.LookupPair(s.Pair)
	if err != nil {
		return err
	}
	s.Pair = p.Name
	if err := ValidateBalance(s.Balance); err != nil {
		return err
	}
	return ValidateRisk(s.RiskPercent)
}
