// internal/infra/telegram/client.go
package telegram

import (
	"gopkg.in/telebot.v3"
)

// OpsNotifier implements the alert.Notifier interface using the
// gopkg.in/telebot.v3 library: reconciliation alerts go to one configured
// ops chat.
type OpsNotifier struct {
	bot       *telebot.Bot
	opsChatID int64
}

func NewOpsNotifier(b *telebot.Bot, opsChatID int64) *OpsNotifier {
	return &OpsNotifier{bot: b, opsChatID: opsChatID}
}

// NotifyOps sends a plain-text alert to the ops chat.
func (n *OpsNotifier) NotifyOps(message string) error {
	recipient := &telebot.Chat{ID: n.opsChatID}
	_, err := n.bot.Send(recipient, message, &telebot.SendOptions{})
	return err
}
