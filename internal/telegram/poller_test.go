package telegram

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"receipt-bot/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingHandler struct {
	mu     sync.Mutex
	ids    []int64
	cancel context.CancelFunc
}

func (h *recordingHandler) HandleUpdate(ctx context.Context, update *Update) {
	h.mu.Lock()
	h.ids = append(h.ids, update.UpdateID)
	h.mu.Unlock()
	h.cancel()
}

func (h *recordingHandler) seen() []int64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]int64(nil), h.ids...)
}

func TestPollerSkipsBacklogAndDispatchesNewUpdates(t *testing.T) {
	var delivered bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		switch offset := r.PostForm.Get("offset"); {
		case offset == "-1":
			// Pending backlog: the poller must skip past update 10.
			fmt.Fprint(w, `{"ok":true,"result":[{"update_id":10,"message":{"message_id":1,"chat":{"id":9}}}]}`)
		case offset == "11" && !delivered:
			delivered = true
			fmt.Fprint(w, `{"ok":true,"result":[{"update_id":11,"message":{"message_id":2,"chat":{"id":9}}}]}`)
		default:
			fmt.Fprint(w, `{"ok":true,"result":[]}`)
		}
	}))
	defer srv.Close()

	client := NewClient(&config.TelegramConfig{
		Token:   "TEST",
		APIURL:  srv.URL,
		Timeout: 5 * time.Second,
	}, zap.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	handler := &recordingHandler{cancel: cancel}

	done := make(chan struct{})
	go func() {
		NewPoller(client, handler, 0, zap.NewNop()).Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("poller did not stop")
	}

	assert.Equal(t, []int64{11}, handler.seen(), "backlog update 10 must not be dispatched")
}
