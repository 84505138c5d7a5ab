package telegram

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"receipt-bot/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(apiURL string) *Client {
	return NewClient(&config.TelegramConfig{
		Token:   "TEST",
		APIURL:  apiURL,
		Timeout: 5 * time.Second,
	}, zap.NewNop())
}

func TestGetFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/botTEST/getFile", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "abc123", r.PostForm.Get("file_id"))
		fmt.Fprint(w, `{"ok":true,"result":{"file_id":"abc123","file_path":"documents/file_7.png"}}`)
	}))
	defer srv.Close()

	path, err := newTestClient(srv.URL).GetFile(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, "documents/file_7.png", path)
}

func TestGetFileAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"ok":false,"description":"Bad Request: invalid file_id"}`)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).GetFile(context.Background(), "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid file_id")
	assert.Contains(t, err.Error(), "400")
}

func TestGetFileEmptyPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"ok":true,"result":{"file_id":"abc123"}}`)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).GetFile(context.Background(), "abc123")
	assert.Error(t, err)
}

func TestDownloadFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/file/botTEST/documents/file_7.png", r.URL.Path)
		w.Write([]byte{0x89, 'P', 'N', 'G'})
	}))
	defer srv.Close()

	data, err := newTestClient(srv.URL).DownloadFile(context.Background(), "documents/file_7.png")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, data)
}

func TestDownloadFileErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			"not found",
			func(w http.ResponseWriter, r *http.Request) { http.NotFound(w, r) },
		},
		{
			"empty body",
			func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			_, err := newTestClient(srv.URL).DownloadFile(context.Background(), "documents/file_7.png")
			assert.Error(t, err)
		})
	}
}

func TestSendMessageAndReplyTo(t *testing.T) {
	var forms []map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/botTEST/sendMessage", r.URL.Path)
		require.NoError(t, r.ParseForm())
		form := map[string]string{}
		for k := range r.PostForm {
			form[k] = r.PostForm.Get(k)
		}
		forms = append(forms, form)
		fmt.Fprint(w, `{"ok":true,"result":{}}`)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	require.NoError(t, client.SendMessage(context.Background(), 1001, "hello"))
	require.NoError(t, client.ReplyTo(context.Background(), 1001, 42, "summary"))

	require.Len(t, forms, 2)
	assert.Equal(t, "1001", forms[0]["chat_id"])
	assert.Equal(t, "hello", forms[0]["text"])
	assert.Empty(t, forms[0]["reply_to_message_id"])

	assert.Equal(t, "42", forms[1]["reply_to_message_id"])
	assert.Equal(t, "summary", forms[1]["text"])
}

func TestGetUpdates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "5", r.PostForm.Get("offset"))
		assert.Equal(t, "25", r.PostForm.Get("timeout"))
		fmt.Fprint(w, `{"ok":true,"result":[{"update_id":6,"message":{"message_id":1,"chat":{"id":9}}}]}`)
	}))
	defer srv.Close()

	updates, err := newTestClient(srv.URL).GetUpdates(context.Background(), 5, 25*time.Second)
	require.NoError(t, err)
	require.Len(t, updates, 1)
	assert.Equal(t, int64(6), updates[0].UpdateID)
	assert.Equal(t, int64(9), updates[0].Message.Chat.ID)
}

func TestWebhookManagement(t *testing.T) {
	var calls []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		calls = append(calls, r.URL.Path+"?"+r.PostForm.Encode())
		fmt.Fprint(w, `{"ok":true,"result":true}`)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	require.NoError(t, client.DeleteWebhook(context.Background(), true))
	require.NoError(t, client.SetWebhook(context.Background(), "https://bot.example.com/s3cret/"))

	require.Len(t, calls, 2)
	assert.Contains(t, calls[0], "deleteWebhook")
	assert.Contains(t, calls[0], "drop_pending_updates=true")
	assert.Contains(t, calls[1], "setWebhook")
}
