package telegram

import (
	"context"
	"errors"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"learnhub-checkout/internal/config"
	"learnhub-checkout/internal/domain/ports/adapter"
)

var _ adapter.AlertNotifier = (*AlertBot)(nil)

// AlertBot pushes operator alerts to a Telegram chat. It only sends; no
// update polling.
type AlertBot struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewAlertBot(cfg config.AlertsConfig) (*AlertBot, error) {
	if cfg.TelegramToken == "" || cfg.TelegramChatID == 0 {
		return nil, errors.New("telegram token and chat id are required")
	}
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return nil, err
	}
	return &AlertBot{bot: bot, chatID: cfg.TelegramChatID}, nil
}

func (a *AlertBot) Alert(ctx context.Context, message string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(a.chatID, message)
	_, err := a.bot.Send(msg)
	return err
}
