package bot

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/maxaizer/job-alert-bot/internal/logger"
	log "github.com/sirupsen/logrus"
)

const (
	startCommandName       = "start"
	helpCommandName        = "help"
	sourcesCommandName     = "sources"
	sourceCommandName      = "source"
	keywordsCommandName    = "keywords"
	jobsCommandName        = "jobs"
	subscribeCommandName   = "subscribe"
	unsubscribeCommandName = "unsubscribe"
	statusCommandName      = "status"
)

type command struct {
	name string
	args string
}

// parseCommand splits "/name@bot args" into its parts. Text that is not a
// command yields false.
func parseCommand(text string) (command, bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return command{}, false
	}

	name, args, _ := strings.Cut(text[1:], " ")
	name, _, _ = strings.Cut(name, "@")
	if name == "" {
		return command{}, false
	}
	return command{name: strings.ToLower(name), args: strings.TrimSpace(args)}, true
}

type apiInterface interface {
	Send(chattable tgbotapi.Chattable) (tgbotapi.Message, error)
}

func sendWithLogError(api apiInterface, chattable tgbotapi.Chattable) (tgbotapi.Message, error) {
	msg, err := api.Send(chattable)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeTgApi).
			Errorf("error occured while sending message: %v", err)
	}
	return msg, err
}
