package discord

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/bwmarrin/discordgo"

	"localebatch/internal/domain/entities"
	"localebatch/internal/ports/output"
	pkgdiscord "localebatch/pkg/discord"
)

const webhookUsername = "localebatch"

var _ output.Notifier = (*Notifier)(nil)

// Notifier posts run reports to a Discord channel webhook.
type Notifier struct {
	session   *discordgo.Session
	webhookID string
	token     string
}

// NewNotifier creates a Notifier from a webhook URL of the form
// https://discord.com/api/webhooks/{id}/{token}.
func NewNotifier(webhookURL string) (*Notifier, error) {
	id, token, err := ParseWebhookURL(webhookURL)
	if err != nil {
		return nil, err
	}
	// Webhook executions are authenticated by the token in the URL, not by a bot token.
	s, err := discordgo.New("")
	if err != nil {
		return nil, fmt.Errorf("discord session: %w", err)
	}
	return &Notifier{session: s, webhookID: id, token: token}, nil
}

func (n *Notifier) Notify(ctx context.Context, report *entities.Report) error {
	_, err := n.session.WebhookExecute(n.webhookID, n.token, false, &discordgo.WebhookParams{
		Username: webhookUsername,
		Embeds:   []*discordgo.MessageEmbed{pkgdiscord.BuildReportEmbed(report)},
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("discord webhook: %w", err)
	}
	return nil
}

// ParseWebhookURL extracts the webhook ID and token.
func ParseWebhookURL(raw string) (id, token string, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("discord webhook url: %w", err)
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i := 0; i+2 < len(parts); i++ {
		if parts[i] == "webhooks" && parts[i+1] != "" && parts[i+2] != "" {
			return parts[i+1], parts[i+2], nil
		}
	}
	return "", "", fmt.Errorf("discord webhook url: expected .../webhooks/{id}/{token}, got %q", u.Path)
}

// NopNotifier is used when no webhook is configured.
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, *entities.Report) error { return nil }
