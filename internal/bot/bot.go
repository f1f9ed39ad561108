package bot

import (
	"context"
	"errors"
	"sync"

	botApi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"
)

type messageHandler interface {
	Handle(ctx context.Context, recipientID int64, text string)
}

// Bot receives telegram updates and hands private messages to the router.
type Bot struct {
	api     *botApi.BotAPI
	handler messageHandler
	wg      sync.WaitGroup
}

func NewAPI(token string) (*botApi.BotAPI, error) {

	api, err := botApi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	log.Infof("Authorized on account %s", api.Self.UserName)

	if err = botApi.SetLogger(log.StandardLogger()); err != nil {
		return nil, err
	}
	return api, nil
}

func NewBot(api *botApi.BotAPI, handler messageHandler) (*Bot, error) {
	if api == nil {
		return nil, errors.New("api is nil")
	}
	if handler == nil {
		return nil, errors.New("handler is nil")
	}
	return &Bot{api: api, handler: handler}, nil
}

// Run polls for updates until ctx is done, then waits for messages being
// handled.
func (b *Bot) Run(ctx context.Context) {

	updateConfig := botApi.NewUpdate(0)
	updateConfig.Timeout = 60

	updates := b.api.GetUpdatesChan(updateConfig)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.wg.Wait()
			return
		case update, ok := <-updates:
			if !ok {
				b.wg.Wait()
				return
			}
			b.dispatch(ctx, update)
		}
	}
}

func (b *Bot) dispatch(ctx context.Context, update botApi.Update) {

	if update.Message == nil || !isPrivate(update.Message.Chat) {
		return
	}

	// a started command runs to completion even during shutdown
	handlerCtx := context.WithoutCancel(ctx)
	message := update.Message
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.handler.Handle(handlerCtx, message.Chat.ID, message.Text)
	}()
}

func isPrivate(chat *botApi.Chat) bool {
	return chat != nil && !chat.IsGroup() && !chat.IsSuperGroup() && !chat.IsChannel()
}
