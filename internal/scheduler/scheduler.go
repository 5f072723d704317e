package scheduler

import (
	"context"
	"fmt"
	"html"
	"strconv"
	"strings"

	"FxSignal/internal/account"
	"FxSignal/internal/advisor"
	"FxSignal/internal/model"
	"FxSignal/internal/notifier"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

const sendRetries = 3

// Scheduler runs the periodic signal job and answers chat commands.
type Scheduler struct {
	Cron     *cron.Cron
	Advisor  *advisor.Advisor
	Account  *account.Manager
	Notifier notifier.Notifier
	Pairs    []string
	Ctx      context.Context
}

// NewScheduler creates a new Scheduler watching the given pairs.
func NewScheduler(ctx context.Context, adv *advisor.Advisor, acct *account.Manager, n notifier.Notifier, pairs []string) *Scheduler {
	if n == nil {
		n = notifier.NoopNotifier{}
	}
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Advisor:  adv,
		Account:  acct,
		Notifier: n,
		Pairs:    pairs,
		Ctx:      ctx,
	}
}

// Register adds the signal job under the given cron expression (with seconds).
func (s *Scheduler) Register(spec string) error {
	if _, err := s.Cron.AddFunc(spec, s.signalTask); err != nil {
		return fmt.Errorf("register signal task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Info().Strs("pairs", s.Pairs).Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Info().Msg("scheduler stopped")
}

// RunNow executes the signal job immediately (for RUN_ON_START).
func (s *Scheduler) RunNow() {
	s.signalTask()
}

func (s *Scheduler) signalTask() {
	log.Info().Msg("running signal task")
	for _, pair := range s.Pairs {
		if s.Ctx.Err() != nil {
			return
		}
		req := s.Account.Request()
		req.Pair = pair
		s.trySend(s.advise(req))
	}
}

func (s *Scheduler) advise(req model.Request) string {
	rep, err := s.Advisor.Advise(s.Ctx, req)
	if err != nil {
		log.Error().Err(err).Str("pair", req.Pair).Msg("advise")
		return errorReply("%s: %v", req.Pair, err)
	}
	return notifier.FormatSignalReport(rep)
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return helpText()
	}
	name := strings.ToLower(fields[0])
	if i := strings.IndexByte(name, '@'); i >= 0 {
		name = name[:i]
	}
	args := fields[1:]

	switch name {
	case "/signal":
		req := s.Account.Request()
		if len(args) > 0 {
			req.Pair = args[0]
		}
		return s.advise(req)
	case "/pairs":
		return notifier.FormatPairs()
	case "/pair":
		if len(args) != 1 {
			return "Usage: /pair NAME"
		}
		if err := s.Account.SetPair(args[0]); err != nil {
			return errorReply("%v", err)
		}
		return s.settings()
	case "/balance":
		if len(args) != 1 {
			return "Usage: /balance AMOUNT"
		}
		v, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return errorReply("invalid balance %q", args[0])
		}
		if err := s.Account.SetBalance(v); err != nil {
			return errorReply("%v", err)
		}
		return s.settings()
	case "/risk":
		if len(args) != 1 {
			return "Usage: /risk PERCENT"
		}
		v, err := strconv.Atoi(args[0])
		if err != nil {
			return errorReply("risk must be a whole number, got %q", args[0])
		}
		if err := s.Account.SetRiskPercent(v); err != nil {
			return errorReply("%v", err)
		}
		return s.settings()
	case "/settings":
		return s.settings()
	default:
		return helpText()
	}
}

func helpText() string {
	return "Commands:\n" +
		"• /signal [PAIR]\n" +
		"• /pairs\n" +
		"• /pair NAME\n" +
		"• /balance AMOUNT\n" +
		"• /risk PERCENT (0-10)\n" +
		"• /settings\n\n" +
		"Pairs: " + strings.Join(model.PairNames(), ", ")
}

// errorReply renders an error for an HTML-mode message. Errors can echo
// user input, so the text is escaped.
func errorReply(format string, args ...any) string {
	return "❌ " + html.EscapeString(fmt.Sprintf(format, args...))
}

func (s *Scheduler) settings() string {
	state := s.Account.GetState()
	return notifier.FormatSettings(&state)
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, sendRetries); err != nil {
		log.Error().Err(err).Msg("send notification")
	}
}
