package notifications

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gen2brain/beeep"

	"github.com/tipote/autocomment/config"
	"github.com/tipote/autocomment/engine"
	"github.com/tipote/autocomment/logger"
)

const defaultTelegramAPIBase = "https://api.telegram.org"

type NotificationService struct {
	config          *config.Config
	telegramAPIBase string
	client          *http.Client
}

func NewNotificationService(cfg *config.Config) *NotificationService {
	return &NotificationService{
		config:          cfg,
		telegramAPIBase: defaultTelegramAPIBase,
		client:          &http.Client{Timeout: 30 * time.Second},
	}
}

var _ engine.Notifier = (*NotificationService)(nil)

// BatchFinished sends the batch outcome through every configured channel.
// All sends are best-effort; failures only hit the log.
func (ns *NotificationService) BatchFinished(job engine.BatchJob, result engine.BatchResult) {
	if !ns.config.Notifications.Enabled {
		return
	}

	message := fmt.Sprintf("Auto-comment batch finished on %s: %d published, %d failed (%d posts found).",
		job.Platform, result.CommentsPosted, result.CommentsFailed, result.PostsFound)

	if ns.config.Notifications.SystemNotify {
		ns.sendSystemNotification("Auto-Comment Batch", message)
	}

	if ns.config.Notifications.DiscordWebhook != "" {
		ns.sendDiscordNotification(message, job, result)
	}

	if ns.config.Notifications.TelegramBotToken != "" && ns.config.Notifications.TelegramChatID != "" {
		ns.sendTelegramNotification(message)
	}
}

func (ns *NotificationService) sendSystemNotification(title, message string) {
	if err := beeep.Notify(title, message, ""); err != nil {
		ns.logf("Failed to send system notification: %v", err)
	}
}

func (ns *NotificationService) sendDiscordNotification(message string, job engine.BatchJob, result engine.BatchResult) {
	type DiscordEmbed struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Color       int    `json:"color"`
		Timestamp   string `json:"timestamp"`
		Footer      struct {
			Text string `json:"text"`
		} `json:"footer"`
	}

	type DiscordWebhookPayload struct {
		Content string         `json:"content"`
		Embeds  []DiscordEmbed `json:"embeds"`
	}

	var content string
	if ns.config.Notifications.DiscordMentionID != "" {
		if roleID, found := strings.CutPrefix(ns.config.Notifications.DiscordMentionID, "role:"); found {
			content = fmt.Sprintf("<@&%s>", roleID)
		} else {
			content = fmt.Sprintf("<@%s>", ns.config.Notifications.DiscordMentionID)
		}
	}

	embedColor := 3066993 // Green
	if result.CommentsFailed > 0 {
		embedColor = 15158332 // Red
	}

	embed := DiscordEmbed{
		Title:       "Auto-Comment Batch Finished",
		Description: message,
		Color:       embedColor,
		Timestamp:   time.Now().Format(time.RFC3339),
	}
	embed.Footer.Text = fmt.Sprintf("Content ID: %s", job.ContentID)

	payload := DiscordWebhookPayload{
		Content: content,
		Embeds:  []DiscordEmbed{embed},
	}

	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		ns.logf("Failed to marshal Discord payload: %v", err)
		return
	}

	resp, err := ns.client.Post(ns.config.Notifications.DiscordWebhook, "application/json", bytes.NewBuffer(jsonPayload))
	if err != nil {
		ns.logf("Failed to send Discord notification: %v", err)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		ns.logf("Discord webhook returned status: %d", resp.StatusCode)
	}
}

func (ns *NotificationService) sendTelegramNotification(message string) {
	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", ns.telegramAPIBase, ns.config.Notifications.TelegramBotToken)

	form := url.Values{}
	form.Set("chat_id", ns.config.Notifications.TelegramChatID)
	form.Set("text", message)

	resp, err := ns.client.PostForm(endpoint, form)
	if err != nil {
		ns.logf("Failed to send Telegram notification: %v", err)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		ns.logf("Telegram API returned status: %d", resp.StatusCode)
	}
}

func (ns *NotificationService) logf(format string, args ...any) {
	if logger.Logger != nil {
		logger.Logger.Printf(format, args...)
	}
}
