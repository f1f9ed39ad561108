package bot

import (
	"context"
	"errors"
	"testing"

	botApi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/maxaizer/job-alert-bot/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_TelegramMessenger_MarkdownMessage_ShouldKeepPreview(t *testing.T) {
	api := &mockApi{}
	messenger := NewTelegramMessenger(api)

	err := messenger.Send(context.Background(), 10, services.Message{Text: "*hi*", Markdown: true, LinkPreview: true})

	require.NoError(t, err)
	require.Len(t, api.SentMessages, 1)
	msg := api.SentMessages[0].(botApi.MessageConfig)
	assert.Equal(t, int64(10), msg.ChatID)
	assert.Equal(t, botApi.ModeMarkdown, msg.ParseMode)
	assert.False(t, msg.DisableWebPagePreview)
}

func Test_TelegramMessenger_PlainMessage_ShouldDisablePreview(t *testing.T) {
	api := &mockApi{}

	_ = NewTelegramMessenger(api).Send(context.Background(), 10, services.Message{Text: "plain"})

	msg := api.SentMessages[0].(botApi.MessageConfig)
	assert.Empty(t, msg.ParseMode)
	assert.True(t, msg.DisableWebPagePreview)
}

func Test_TelegramMessenger_WhenApiFails_ShouldReturnError(t *testing.T) {
	api := &mockApi{err: errors.New("Forbidden: bot was blocked by the user")}

	err := NewTelegramMessenger(api).Send(context.Background(), 10, services.Message{Text: "x"})

	assert.Error(t, err)
}
