package bot

import (
	"context"

	botApi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/maxaizer/job-alert-bot/internal/services"
)

// TelegramMessenger delivers messages to a chat.
type TelegramMessenger struct {
	api apiInterface
}

func NewTelegramMessenger(api apiInterface) *TelegramMessenger {
	return &TelegramMessenger{api: api}
}

func (m *TelegramMessenger) Send(ctx context.Context, recipientID int64, message services.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := botApi.NewMessage(recipientID, message.Text)
	if message.Markdown {
		msg.ParseMode = botApi.ModeMarkdown
	}
	msg.DisableWebPagePreview = !message.LinkPreview

	_, err := sendWithLogError(m.api, msg)
	return err
}
