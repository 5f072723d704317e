package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	SignalsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "fxsignal_signals_total", Help: "Signals generated"},
		[]string{"pair", "direction"},
	)
	FetchFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "fxsignal_fetch_failures_total", Help: "Render cycles without usable price data"},
		[]string{"pair"},
	)
	LotSize = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{Name: "fxsignal_lot_size", Help: "Most recent lot size"},
		[]string{"pair"},
	)
	EntryPrice = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{Name: "fxsignal_entry_price", Help: "Most recent entry price"},
		[]string{"pair"},
	)
)

func init() {
	prometheus.MustRegister(SignalsTotal, FetchFailuresTotal, LotSize, EntryPrice)
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
