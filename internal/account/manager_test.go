package account

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"FxSignal/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var defaults = State{Pair: "xauusd", Balance: 1000, RiskPercent: 2}

func TestManager_InMemory(t *testing.T) {
	m, err := NewManager("", defaults)
	require.NoError(t, err)

	s := m.GetState()
	assert.Equal(t, "XAUUSD", s.Pair)
	assert.Equal(t, model.Request{Pair: "XAUUSD", Balance: 1000, RiskPercent: 2}, m.Request())
}

func TestManager_SettersValidate(t *testing.T) {
	m, err := NewManager("", defaults)
	require.NoError(t, err)

	assert.ErrorIs(t, m.SetBalance(-1), ErrInvalidInput)
	assert.ErrorIs(t, m.SetRiskPercent(11), ErrInvalidInput)
	assert.ErrorIs(t, m.SetRiskPercent(-1), ErrInvalidInput)
	assert.ErrorIs(t, m.SetPair("BTCUSD"), model.ErrUnknownPair)

	require.NoError(t, m.SetBalance(0))
	require.NoError(t, m.SetRiskPercent(10))
	require.NoError(t, m.SetPair("usdjpy"))
	assert.Equal(t, model.Request{Pair: "USDJPY", Balance: 0, RiskPercent: 10}, m.Request())
}

func TestManager_Persists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "account.json")

	m, err := NewManager(path, defaults)
	require.NoError(t, err)
	require.NoError(t, m.SetBalance(2500))
	require.NoError(t, m.SetPair("GBPUSD"))

	reloaded, err := NewManager(path, defaults)
	require.NoError(t, err)
	s := reloaded.GetState()
	assert.Equal(t, "GBPUSD", s.Pair)
	assert.Equal(t, 2500.0, s.Balance)
	assert.False(t, s.UpdatedAt.IsZero())
}

func TestNewManager_RejectsBadDefaults(t *testing.T) {
	_, err := NewManager("", State{Pair: "XAUUSD", Balance: 100, RiskPercent: 50})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestManager_RejectsNonFinite(t *testing.T) {
	m, err := NewManager("", defaults)
	require.NoError(t, err)

	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		assert.ErrorIs(t, m.SetBalance(v), ErrInvalidInput)
		assert.ErrorIs(t, ValidateBalance(v), ErrInvalidInput)
	}
	assert.ErrorIs(t, ValidateRisk(math.NaN()), ErrInvalidInput)
	assert.Equal(t, 1000.0, m.GetState().Balance)
}

func TestManager_FailedSaveKeepsState(t *testing.T) {
	dir := t.TempDir()
	m, err := NewManager(filepath.Join(dir, "account.json"), defaults)
	require.NoError(t, err)

	// a regular file where the state directory should be makes every save fail
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
	m.filePath = filepath.Join(blocker, "account.json")

	assert.Error(t, m.SetPair("EURUSD"))
	assert.Error(t, m.SetBalance(5))
	s := m.GetState()
	assert.Equal(t, "XAUUSD", s.Pair)
	assert.Equal(t, 1000.0, s.Balance)
}
