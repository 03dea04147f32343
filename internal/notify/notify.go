package notify

import (
	"context"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/wordflash/wordflash/internal/logger"
)

// Notifier delivers a short text message to a chat.
type Notifier interface {
	Notify(ctx context.Context, chatID int64, text string) error
}

// Telegram sends messages through the Telegram Bot API.
type Telegram struct {
	api *tgbotapi.BotAPI
}

// NewTelegram authenticates the bot token against the public Bot API.
func NewTelegram(token string) (*Telegram, error) {
	return NewTelegramWithEndpoint(token, tgbotapi.APIEndpoint, &http.Client{})
}

// NewTelegramWithEndpoint talks to a custom Bot API endpoint, formatted like
// tgbotapi.APIEndpoint.
func NewTelegramWithEndpoint(token, endpoint string, client *http.Client) (*Telegram, error) {
	log := logger.Default().WithPrefix("telegram")

	api, err := tgbotapi.NewBotAPIWithClient(token, endpoint, client)
	if err != nil {
		log.Error("failed to authorize bot: %v", err)
		return nil, err
	}
	log.Info("authorized telegram bot: %s", api.Self.UserName)
	return &Telegram{api: api}, nil
}

func (t *Telegram) Notify(ctx context.Context, chatID int64, text string) error {
	log := logger.FromContext(ctx).WithPrefix("telegram")
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := t.api.Send(msg); err != nil {
		log.Error("failed to send message: chat_id=%d, err=%v", chatID, err)
		return err
	}
	log.Debug("message sent: chat_id=%d", chatID)
	return nil
}

// Log writes messages to the logger instead of delivering them. It is used
// when no bot token is configured.
type Log struct{}

func (Log) Notify(ctx context.Context, chatID int64, text string) error {
	logger.FromContext(ctx).WithPrefix("notify").Info("reminder for chat %d: %s", chatID, text)
	return nil
}
