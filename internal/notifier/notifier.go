package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	config "github.com/maheshrc27/postforge/configs"
)

const pushoverAPIURL = "https://api.pushover.net/1/messages.json"

// Notifier fans a message out to every configured sink. Failures are
// logged and swallowed: notification never aborts the pipeline.
type Notifier struct {
	client      *http.Client
	webhookURL  string
	pushToken   string
	pushUser    string
	pushoverURL string
}

func NewNotifier(cfg config.Config) *Notifier {
	return &Notifier{
		client:      &http.Client{Timeout: 15 * time.Second},
		webhookURL:  cfg.DiscordWebhookURL,
		pushToken:   cfg.PushoverToken,
		pushUser:    cfg.PushoverUser,
		pushoverURL: pushoverAPIURL,
	}
}

func (n *Notifier) NotifyAll(ctx context.Context, title, message, link string) {
	body := message
	if link != "" {
		body = message + "\n" + link
	}
	n.notifyDiscord(ctx, "**"+title+"**\n"+body)
	n.notifyPushover(ctx, title, body)
}

func (n *Notifier) notifyDiscord(ctx context.Context, content string) {
	if n.webhookURL == "" {
		slog.Info("discord webhook not configured, skipping notification")
		return
	}

	payload, err := json.Marshal(map[string]string{"content": content})
	if err != nil {
		slog.Error("discord payload marshal failed", "error", err.Error())
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(payload))
	if err != nil {
		slog.Error("discord request failed", "error", err.Error())
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		slog.Error("discord notification failed", "error", err.Error())
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		slog.Error("discord notification rejected", "status", resp.Status)
	}
}

func (n *Notifier) notifyPushover(ctx context.Context, title, message string) {
	if n.pushToken == "" || n.pushUser == "" {
		slog.Info("pushover credentials not configured, skipping notification")
		return
	}

	form := url.Values{
		"token":   {n.pushToken},
		"user":    {n.pushUser},
		"title":   {title},
		"message": {message},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.pushoverURL, strings.NewReader(form.Encode()))
	if err != nil {
		slog.Error("pushover request failed", "error", err.Error())
		return
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := n.client.Do(req)
	if err != nil {
		slog.Error("pushover notification failed", "error", err.Error())
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		slog.Error("pushover notification rejected", "status", resp.Status)
	}
}
