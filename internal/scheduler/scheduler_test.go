package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"

	"FxSignal/internal/account"
	"FxSignal/internal/advisor"
	"FxSignal/internal/collector"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNotifier struct {
	mu   sync.Mutex
	sent []string
}

func (f *fakeNotifier) SendWithRetry(_ context.Context, text string, _ int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, text)
	return nil
}

func newTestScheduler(t *testing.T, fetcher *collector.MockFetcher, pairs ...string) (*Scheduler, *fakeNotifier) {
	t.Helper()
	acct, err := account.NewManager("", account.State{Pair: "XAUUSD", Balance: 1000, RiskPercent: 2})
	require.NoError(t, err)
	adv := advisor.New(collector.NewCollector(fetcher, "5d", "15m"), nil)
	n := &fakeNotifier{}
	return NewScheduler(context.Background(), adv, acct, n, pairs), n
}

func TestRunNow_SendsOneReportPerPair(t *testing.T) {
	s, n := newTestScheduler(t, &collector.MockFetcher{Price: 1.1, Count: 100}, "EURUSD", "GBPUSD")
	s.RunNow()

	require.Len(t, n.sent, 2)
	assert.Contains(t, n.sent[0], "EURUSD - Buy Signal")
	assert.Contains(t, n.sent[1], "GBPUSD - Buy Signal")
}

func TestRunNow_FetchFailure(t *testing.T) {
	s, n := newTestScheduler(t, &collector.MockFetcher{Err: errors.New("timeout")}, "XAUUSD")
	s.RunNow()

	require.Len(t, n.sent, 1)
	assert.Contains(t, n.sent[0], "Failed to fetch data for the selected pair.")
}

func TestRegister(t *testing.T) {
	s, _ := newTestScheduler(t, &collector.MockFetcher{}, "XAUUSD")
	require.NoError(t, s.Register("0 */15 * * * *"))
	assert.Len(t, s.Cron.Entries(), 1)
	assert.Error(t, s.Register("not a cron"))
}

func TestHandleCommand(t *testing.T) {
	fetcher := &collector.MockFetcher{Price: 2000, Count: 60}
	s, _ := newTestScheduler(t, fetcher, "XAUUSD")

	tests := []struct {
		name     string
		command  string
		contains string
	}{
		{"signal default pair", "/signal", "XAUUSD - Buy Signal"},
		{"signal explicit pair", "/signal usdjpy", "USDJPY - Buy Signal"},
		{"signal with bot suffix", "/signal@fx_bot EURUSD", "EURUSD - Buy Signal"},
		{"signal unknown pair", "/signal BTCUSD", "unknown pair"},
		{"pairs", "/pairs", "GBPUSD (GBPUSD=X)"},
		{"set pair", "/pair gbpusd", "Pair: GBPUSD"},
		{"set pair unknown", "/pair FOO", "unknown pair"},
		{"set pair usage", "/pair", "Usage: /pair NAME"},
		{"set balance", "/balance 2500", "Balance: 2500.00"},
		{"set balance negative", "/balance -1", "balance must be >= 0"},
		{"set balance garbage", "/balance lots", "invalid balance"},
		{"set balance NaN", "/balance NaN", "finite number"},
		{"set risk", "/risk 5", "Risk: 5%"},
		{"set risk out of range", "/risk 11", "risk must be within [0, 10]"},
		{"set risk fractional", "/risk 2.5", "whole number"},
		{"settings", "/settings", "Settings"},
		{"unknown", "hello", "Commands:"},
		{"empty", "", "Commands:"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, s.HandleCommand(tt.command), tt.contains)
		})
	}

	state := s.Account.GetState()
	assert.Equal(t, "GBPUSD", state.Pair)
	assert.Equal(t, 2500.0, state.Balance)
	assert.Equal(t, 5.0, state.RiskPercent)
}

func TestHandleCommand_SignalUsesSavedDefaults(t *testing.T) {
	s, _ := newTestScheduler(t, &collector.MockFetcher{Price: 1.25, Count: 60}, "XAUUSD")
	require.NoError(t, s.Account.SetPair("GBPUSD"))
	require.NoError(t, s.Account.SetBalance(0))

	reply := s.HandleCommand("/signal")
	assert.Contains(t, reply, "GBPUSD - Buy Signal")
	assert.Contains(t, reply, "Lot Size: 0.00")
}

func TestHandleCommand_EscapesUserInput(t *testing.T) {
	s, _ := newTestScheduler(t, &collector.MockFetcher{Price: 1, Count: 60}, "XAUUSD")

	for _, cmd := range []string{"/signal <b", "/pair <i>x</i>", "/balance <b>", "/risk &x"} {
		reply := s.HandleCommand(cmd)
		assert.NotContains(t, reply, "<", cmd)
		assert.Contains(t, reply, "❌", cmd)
	}
	assert.Contains(t, s.HandleCommand("/signal <b"), "&lt;b")
}

func TestHandleCommand_HelpListsPairs(t *testing.T) {
	s, _ := newTestScheduler(t, &collector.MockFetcher{}, "XAUUSD")
	assert.Contains(t, s.HandleCommand("/help"), "Pairs: XAUUSD, EURUSD, GBPUSD, USDJPY")
}
