package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"recipebot/internal/bot"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiCall struct {
	Method string
	Form   map[string]string
}

// fakeAPI mimics the handful of Bot API methods the client uses.
type fakeAPI struct {
	mu          sync.Mutex
	calls       []apiCall
	notModified bool
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	method := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]
	form := map[string]string{}
	for k := range r.Form {
		form[k] = r.Form.Get(k)
	}
	f.mu.Lock()
	f.calls = append(f.calls, apiCall{Method: method, Form: form})
	notModified := f.notModified
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch method {
	case "getMe":
		_, _ = w.Write([]byte(`{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"Recipes","username":"recipe_bot"}}`))
	case "sendMessage", "editMessageText":
		if method == "editMessageText" && notModified {
			_, _ = w.Write([]byte(`{"ok":false,"error_code":400,"description":"Bad Request: message is not modified"}`))
			return
		}
		_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":42,"date":0,"chat":{"id":5,"type":"private"}}}`))
	default:
		_, _ = w.Write([]byte(`{"ok":true,"result":true}`))
	}
}

func (f *fakeAPI) last(method string) apiCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.calls) - 1; i >= 0; i-- {
		if f.calls[i].Method == method {
			return f.calls[i]
		}
	}
	return apiCall{}
}

func newTestClient(t *testing.T) (*Client, *fakeAPI) {
	t.Helper()
	api := &fakeAPI{}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	c, err := NewClientWithEndpoint("TOKEN", srv.URL+"/bot%s/%s", srv.Client())
	require.NoError(t, err)
	return c, api
}

func TestClient_Send(t *testing.T) {
	c, api := newTestClient(t)
	assert.Equal(t, "recipe_bot", c.Username())

	id, err := c.Send(context.Background(), 5, "<b>hi</b>", bot.Inline(bot.Row(bot.Button{Text: "Go", Data: "x:go____1"})))
	require.NoError(t, err)
	assert.Equal(t, 42, id)

	call := api.last("sendMessage")
	assert.Equal(t, "5", call.Form["chat_id"])
	assert.Equal(t, "<b>hi</b>", call.Form["text"])
	assert.Equal(t, "HTML", call.Form["parse_mode"])

	var markup struct {
		InlineKeyboard [][]struct {
			Text         string `json:"text"`
			CallbackData string `json:"callback_data"`
		} `json:"inline_keyboard"`
	}
	require.NoError(t, json.Unmarshal([]byte(call.Form["reply_markup"]), &markup))
	assert.Equal(t, "x:go____1", markup.InlineKeyboard[0][0].CallbackData)
}

func TestClient_EditIgnoresNotModified(t *testing.T) {
	c, api := newTestClient(t)

	require.NoError(t, c.Edit(context.Background(), 5, 42, "same", nil))
	call := api.last("editMessageText")
	assert.Equal(t, "42", call.Form["message_id"])

	api.mu.Lock()
	api.notModified = true
	api.mu.Unlock()
	assert.NoError(t, c.Edit(context.Background(), 5, 42, "same", nil))
}

func TestClient_SetWebhookSendsSecret(t *testing.T) {
	c, api := newTestClient(t)

	require.NoError(t, c.SetWebhook("https://bot.example.com/telegram/webhook", "s3cret"))

	call := api.last("setWebhook")
	assert.Equal(t, "https://bot.example.com/telegram/webhook", call.Form["url"])
	assert.Equal(t, "s3cret", call.Form["secret_token"])
}

func TestClient_SetCommands(t *testing.T) {
	c, api := newTestClient(t)

	require.NoError(t, c.SetCommands([]bot.MenuEntry{{Command: "add", Description: "Add a recipe"}}))

	assert.Contains(t, api.last("setMyCommands").Form["commands"], `"command":"add"`)
}
