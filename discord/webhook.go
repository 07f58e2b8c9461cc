package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Webhook delivers embeds to a single fixed Discord webhook URL.
type Webhook struct {
	url        string
	httpClient *http.Client
}

func NewWebhook(url string, timeout time.Duration) *Webhook {
	return &Webhook{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Deliver posts the embed to the webhook and returns true only on a 2xx
// response. Failures are logged here but retried by the caller: the poll
// loop keeps its dedupe state unchanged so the same track is attempted
// again next cycle.
func (w *Webhook) Deliver(ctx context.Context, embed *discordgo.MessageEmbed) bool {
	params := &discordgo.WebhookParams{
		Embeds: []*discordgo.MessageEmbed{embed},
	}

	body, err := json.Marshal(params)
	if err != nil {
		log.Errorf("Failed to encode webhook payload: %v", err)
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		log.Errorf("Failed to build webhook request: %v", err)
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		log.Errorf("Failed to send Discord webhook: %v", err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Errorf("Discord webhook returned status %d", resp.StatusCode)
		return false
	}
	return true
}
