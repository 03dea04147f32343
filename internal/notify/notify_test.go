package notify_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wordflash/wordflash/internal/notify"
)

type fakeBotAPI struct {
	mu   sync.Mutex
	sent []string
}

func (f *fakeBotAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	switch {
	case strings.HasSuffix(r.URL.Path, "/getMe"):
		_, _ = w.Write([]byte(`{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"Word","username":"wordflash_bot"}}`))
	case strings.HasSuffix(r.URL.Path, "/sendMessage"):
		_ = r.ParseForm()
		f.mu.Lock()
		f.sent = append(f.sent, r.FormValue("chat_id")+":"+r.FormValue("text"))
		f.mu.Unlock()
		_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":7,"date":0,"chat":{"id":42,"type":"private"},"text":"ok"}}`))
	default:
		_, _ = w.Write([]byte(`{"ok":false,"error_code":404,"description":"Not Found"}`))
	}
}

func TestTelegram_Notify(t *testing.T) {
	api := &fakeBotAPI{}
	srv := httptest.NewServer(api)
	defer srv.Close()

	tg, err := notify.NewTelegramWithEndpoint("token", srv.URL+"/bot%s/%s", srv.Client())
	require.NoError(t, err)

	require.NoError(t, tg.Notify(context.Background(), 42, "3 cards are due"))

	api.mu.Lock()
	defer api.mu.Unlock()
	assert.Equal(t, []string{"42:3 cards are due"}, api.sent)
}

func TestTelegram_RejectedToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":false,"error_code":401,"description":"Unauthorized"}`))
	}))
	defer srv.Close()

	_, err := notify.NewTelegramWithEndpoint("bad", srv.URL+"/bot%s/%s", srv.Client())
	assert.Error(t, err)
}

func TestTelegram_CancelledContext(t *testing.T) {
	srv := httptest.NewServer(&fakeBotAPI{})
	defer srv.Close()

	tg, err := notify.NewTelegramWithEndpoint("token", srv.URL+"/bot%s/%s", srv.Client())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, tg.Notify(ctx, 42, "hi"), context.Canceled)
}

func TestLog_Notify(t *testing.T) {
	assert.NoError(t, notify.Log{}.Notify(context.Background(), 1, "hello"))
}
