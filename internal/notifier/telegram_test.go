package notifier

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTelegram struct {
	mu        sync.Mutex
	failFirst int
	sent      []string
}

func (f *fakeTelegram) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	switch {
	case strings.HasSuffix(r.URL.Path, "/getMe"):
		_, _ = w.Write([]byte(`{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"fx","username":"fx_bot"}}`))
	case strings.HasSuffix(r.URL.Path, "/sendMessage"):
		_ = r.ParseForm()
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.failFirst > 0 {
			f.failFirst--
			_, _ = w.Write([]byte(`{"ok":false,"error_code":500,"description":"Internal Server Error"}`))
			return
		}
		f.sent = append(f.sent, r.Form.Get("text"))
		_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":7,"date":0,"chat":{"id":42,"type":"private"}}}`))
	default:
		http.NotFound(w, r)
	}
}

func newTestNotifier(t *testing.T, fake *fakeTelegram) *TelegramNotifier {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	tn, err := newTelegramNotifier("TOKEN", 42, srv.URL+"/bot%s/%s", srv.Client())
	require.NoError(t, err)
	return tn
}

func TestTelegramNotifier_Send(t *testing.T) {
	fake := &fakeTelegram{}
	tn := newTestNotifier(t, fake)

	require.NoError(t, tn.Send("<b>hello</b>"))
	assert.Equal(t, []string{"<b>hello</b>"}, fake.sent)
}

func TestTelegramNotifier_SendWithRetry(t *testing.T) {
	fake := &fakeTelegram{failFirst: 1}
	tn := newTestNotifier(t, fake)

	require.NoError(t, tn.SendWithRetry(context.Background(), "retry me", 2))
	assert.Equal(t, []string{"retry me"}, fake.sent)
}

func TestTelegramNotifier_SendWithRetryExhausted(t *testing.T) {
	fake := &fakeTelegram{failFirst: 5}
	tn := newTestNotifier(t, fake)

	err := tn.SendWithRetry(context.Background(), "never", 0)
	require.Error(t, err)
	assert.Empty(t, fake.sent)
}

func TestDispatch(t *testing.T) {
	tn := &TelegramNotifier{ChatID: 42}
	echo := func(cmd string) string { return "got " + cmd }

	own := tgbotapi.Update{Message: &tgbotapi.Message{Text: " /pairs ", Chat: &tgbotapi.Chat{ID: 42}}}
	assert.Equal(t, "got /pairs", tn.dispatch(own, echo))

	stranger := tgbotapi.Update{Message: &tgbotapi.Message{Text: "/pairs", Chat: &tgbotapi.Chat{ID: 7}}}
	assert.Empty(t, tn.dispatch(stranger, echo))

	assert.Empty(t, tn.dispatch(tgbotapi.Update{}, echo))
}

func TestNoopNotifier(t *testing.T) {
	var n Notifier = NoopNotifier{}
	assert.NoError(t, n.SendWithRetry(context.Background(), "x", 3))
}
