// Command signal runs a single render cycle and prints the result.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"FxSignal/internal/advisor"
	"FxSignal/internal/chart"
	"FxSignal/internal/collector"
	"FxSignal/internal/config"
	"FxSignal/internal/logging"
	"FxSignal/internal/model"
	"FxSignal/internal/notifier"
	"FxSignal/internal/recorder"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog/log"
)

func main() {
	cfgPath := flag.String("config", "configs/config.yaml", "path to config file")
	pair := flag.String("pair", "", "pair to evaluate (default from config)")
	balance := flag.Float64("balance", -1, "account balance (default from config)")
	risk := flag.Int("risk", -1, "risk percent 0-10 (default from config)")
	format := flag.String("format", "text", "output format: text, json or pine")
	timeout := flag.Duration("timeout", 30*time.Second, "overall timeout")
	flag.Parse()

	if err := run(*cfgPath, *pair, *balance, *risk, *format, *timeout); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(cfgPath, pair string, balance float64, risk int, format string, timeout time.Duration) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	logging.Setup(cfg.Log.Level, true)

	switch format {
	case "text", "json", "pine":
	default:
		return fmt.Errorf("unknown format %q", format)
	}

	req := model.Request{Pair: cfg.Account.Pair, Balance: cfg.Account.Balance, RiskPercent: cfg.Account.RiskPercent}
	if pair != "" {
		req.Pair = pair
	}
	if balance >= 0 {
		req.Balance = balance
	} else if balance != -1 {
		return fmt.Errorf("balance must be >= 0, got %v", balance)
	}
	if risk >= 0 {
		req.RiskPercent = float64(risk)
	} else if risk != -1 {
		return fmt.Errorf("risk must be within [0, 10], got %d", risk)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	opts := collector.ClientOptions{
		Proxy:          cfg.Proxy,
		Timeout:        timeout,
		RequestsPerSec: cfg.DataSource.RequestsPerSec,
		MaxRetries:     cfg.DataSource.MaxRetries,
	}
	var fetcher collector.Fetcher
	if cfg.DataSource.BaseURL != "" {
		fetcher = collector.NewRESTFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, opts)
	} else {
		fetcher = collector.NewYahooFetcher(opts)
	}

	rec := recorder.Open(ctx, cfg.Database.SQLitePath, cfg.Database.PostgresDSN)
	defer rec.Close()

	rep, err := advisor.New(collector.NewCollector(fetcher, cfg.DataSource.Period, cfg.DataSource.Interval), rec).Advise(ctx, req)
	if err != nil {
		return err
	}
	log.Debug().Str("run_id", rep.RunID).Msg("render cycle done")
	return render(os.Stdout, rep, format)
}

func render(w io.Writer, rep *model.Report, format string) error {
	switch format {
	case "json":
		out := struct {
			*model.Report
			Chart *chart.Chart `json:"chart,omitempty"`
		}{Report: rep}
		if rep.OK() {
			c, err := chart.Build(rep)
			if err != nil {
				return err
			}
			out.Chart = c
		}
		data, err := sonic.ConfigStd.MarshalIndent(out, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case "pine":
		if !rep.OK() {
			return errors.New(rep.Failure)
		}
		pine, err := chart.PineScript(rep)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(w, pine)
		return err
	default:
		_, err := fmt.Fprint(w, notifier.FormatSignalText(rep))
		return err
	}
}
