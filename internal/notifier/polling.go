package notifier

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"
)

// CommandHandler is called when a user command is received.
type CommandHandler func(command string) string

// StartPolling begins long-polling for Telegram commands. Blocks until ctx is cancelled.
// Messages from chats other than the configured one are ignored.
func (t *TelegramNotifier) StartPolling(ctx context.Context, handler CommandHandler) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := t.Bot.GetUpdatesChan(u)
	defer t.Bot.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Telegram polling stopped")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if reply := t.dispatch(update, handler); reply != "" {
				if err := t.Send(reply); err != nil {
					log.Error().Err(err).Msg("send reply")
				}
			}
		}
	}
}

func (t *TelegramNotifier) dispatch(update tgbotapi.Update, handler CommandHandler) string {
	msg := update.Message
	if msg == nil || msg.Text == "" {
		return ""
	}
	if msg.Chat == nil {
		return ""
	}
	if msg.Chat.ID != t.ChatID {
		log.Warn().Int64("chat_id", msg.Chat.ID).Msg("ignoring message from unknown chat")
		return ""
	}
	text := strings.TrimSpace(msg.Text)
	log.Info().Str("command", text).Msg("received command")
	return handler(text)
}
