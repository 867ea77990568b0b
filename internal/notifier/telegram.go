// Package notifier sends channel posts through the Telegram Bot API.
package notifier

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Min interval between any two messages to the channel to avoid 429 Too Many Requests (~30/min limit).
const sendInterval = 2 * time.Second

// Telegram posts rich-text messages to a single fixed channel.
type Telegram struct {
	bot     *tgbotapi.BotAPI
	channel string

	mu       sync.Mutex
	lastSend time.Time
}

func NewTelegram(token, channel string) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	bot.Debug = false

	// Test bot connection before the scheduler starts relying on it.
	me, err := bot.GetMe()
	if err != nil {
		return nil, fmt.Errorf("failed to get bot info: %w", err)
	}
	slog.Info("Telegram notifier initialized", "bot", me.UserName, "channel", channel)

	return &Telegram{bot: bot, channel: channel}, nil
}

// Send posts one Markdown message to the channel, waiting out the rate-limit
// interval if the previous send was too recent.
func (n *Telegram) Send(ctx context.Context, text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if wait := sendInterval - time.Since(n.lastSend); wait > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}

	msg := tgbotapi.NewMessageToChannel(n.channel, text)
	msg.ParseMode = tgbotapi.ModeMarkdown

	n.lastSend = time.Now()
	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	return nil
}
