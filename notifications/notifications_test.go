package notifications

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tipote/autocomment/config"
	"github.com/tipote/autocomment/engine"
)

func TestBatchFinishedDisabledSendsNothing(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer server.Close()

	cfg := &config.Config{}
	cfg.Notifications.DiscordWebhook = server.URL

	ns := NewNotificationService(cfg)
	ns.BatchFinished(engine.BatchJob{ContentID: "c1"}, engine.BatchResult{CommentsPosted: 2})

	assert.Equal(t, 0, calls)
}

func TestBatchFinishedSendsDiscordEmbed(t *testing.T) {
	var payload struct {
		Content string `json:"content"`
		Embeds  []struct {
			Description string `json:"description"`
			Color       int    `json:"color"`
			Footer      struct {
				Text string `json:"text"`
			} `json:"footer"`
		} `json:"embeds"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &payload))
	}))
	defer server.Close()

	cfg := &config.Config{}
	cfg.Notifications.Enabled = true
	cfg.Notifications.DiscordWebhook = server.URL
	cfg.Notifications.DiscordMentionID = "role:42"

	ns := NewNotificationService(cfg)
	ns.BatchFinished(
		engine.BatchJob{ContentID: "c1", Platform: "twitter"},
		engine.BatchResult{CommentsPosted: 2, CommentsFailed: 1, PostsFound: 5},
	)

	assert.Equal(t, "<@&42>", payload.Content)
	require.Len(t, payload.Embeds, 1)
	assert.Contains(t, payload.Embeds[0].Description, "2 published, 1 failed")
	assert.Equal(t, 15158332, payload.Embeds[0].Color)
	assert.Contains(t, payload.Embeds[0].Footer.Text, "c1")
}

func TestBatchFinishedSendsTelegramMessage(t *testing.T) {
	var gotPath, gotChatID, gotText string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, r.ParseForm())
		gotChatID = r.PostForm.Get("chat_id")
		gotText = r.PostForm.Get("text")
	}))
	defer server.Close()

	cfg := &config.Config{}
	cfg.Notifications.Enabled = true
	cfg.Notifications.TelegramBotToken = "bot-token"
	cfg.Notifications.TelegramChatID = "chat-7"

	ns := NewNotificationService(cfg)
	ns.telegramAPIBase = server.URL
	ns.BatchFinished(
		engine.BatchJob{ContentID: "c1", Platform: "reddit"},
		engine.BatchResult{CommentsPosted: 3, PostsFound: 3},
	)

	assert.Equal(t, "/botbot-token/sendMessage", gotPath)
	assert.Equal(t, "chat-7", gotChatID)
	assert.Contains(t, gotText, "3 published, 0 failed")
}
