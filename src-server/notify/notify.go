// Package notify replaces the web client's browser notifications.
// Everything here is best-effort: the permission gate becomes a
// config gate, and send failures are logged and otherwise ignored.
package notify

import (
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"
)

type Notifier interface {
	Send(title string, body string)
}

// Returns a webhook-backed notifier when both parts are configured,
// otherwise a no-op.
func New(webhookID string, webhookToken string) Notifier {
	if webhookID == "" || webhookToken == "" {
		return &nopNotifier{}
	}
	session, err := discordgo.New("")
	if err != nil {
		slog.Warn("can't create discord session, notifications are disabled", "error", err)
		return &nopNotifier{}
	}
	return &webhookNotifier{
		session:      session,
		webhookID:    webhookID,
		webhookToken: webhookToken,
	}
}

type webhookNotifier struct {
	session      *discordgo.Session
	webhookID    string
	webhookToken string
}

func (n *webhookNotifier) Send(title string, body string) {
	if _, err := n.session.WebhookExecute(n.webhookID, n.webhookToken, false, &discordgo.WebhookParams{
		Content: fmt.Sprintf("**%s**\n%s", title, body),
	}); err != nil {
		slog.Debug("can't send notification", "title", title, "error", err)
	}
}

type nopNotifier struct{}

func (n *nopNotifier) Send(title string, body string) {
	slog.Debug("notification dropped, no webhook configured", "title", title, "body", body)
}
