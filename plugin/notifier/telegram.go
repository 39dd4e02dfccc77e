package notifier

import (
	"context"
	"fmt"
	"time"

	"github.com/codeGROOVE-dev/retry"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
)

const telegramParseMode = "Markdown"

// TelegramNotifier pushes events to a Telegram chat via the Bot API.
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegramNotifier creates a notifier for the given bot token and chat.
func NewTelegramNotifier(botToken string, chatID int64) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, errors.Wrap(err, "create telegram bot")
	}
	return &TelegramNotifier{bot: bot, chatID: chatID}, nil
}

func (n *TelegramNotifier) Notify(ctx context.Context, event Event) error {
	text := fmt.Sprintf("*%s*\n%s", event.Title, event.Message)
	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.ParseMode = telegramParseMode

	err := retry.Do(
		func() error {
			_, err := n.bot.Send(msg)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(time.Second),
		retry.MaxDelay(10*time.Second),
		retry.DelayType(retry.BackOffDelay),
	)
	return errors.Wrap(err, "send telegram message")
}

var _ Notifier = (*TelegramNotifier)(nil)
