package model

import "time"

// Direction is the side suggested by the crossover signal.
type Direction string

const (
	Buy  Direction = "Buy"
	Sell Direction = "Sell"
)

// Signal is the output of the crossover generator.
type Signal struct {
	Direction  Direction `json:"direction"`
	EntryPrice float64   `json:"entry_price"`
	ShortMA    float64   `json:"short_ma"`
	LongMA     float64   `json:"long_ma"`
}

// SizingInput carries everything the position sizer needs.
type SizingInput struct {
	Balance     float64 `json:"balance"`
	RiskPercent float64 `json:"risk_percent"` // 0 ~ 10
	EntryPrice  float64 `json:"entry_price"`
	StopPrice   float64 `json:"stop_price"`
}

// TradePlan is the signal plus the sized position around it.
type TradePlan struct {
	Signal     Signal  `json:"signal"`
	StopLoss   float64 `json:"stop_loss"`
	RiskAmount float64 `json:"risk_amount"`
	PipRisk    float64 `json:"pip_risk"`
	LotSize    float64 `json:"lot_size"`
}

// Request is one user interaction: which pair, and how much to risk.
type Request struct {
	Pair        string  `json:"pair"`
	Balance     float64 `json:"balance"`
	RiskPercent float64 `json:"risk_percent"`
}

// Report is the result of a single render cycle. Exactly one of Plan or
// Failure is set.
type Report struct {
	RunID       string       `json:"run_id"`
	Pair        Pair         `json:"pair"`
	Balance     float64      `json:"balance"`
	RiskPercent float64      `json:"risk_percent"`
	Plan        *TradePlan   `json:"plan,omitempty"`
	Failure     string       `json:"failure,omitempty"`
	Series      *PriceSeries `json:"-"`
	GeneratedAt time.Time    `json:"generated_at"`
}

// OK reports whether the cycle produced a trade plan.
func (r *Report) OK() bool { return r.Plan != nil }
