package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/maxaizer/job-alert-bot/internal/entities"
	"github.com/maxaizer/job-alert-bot/internal/logger"
	"github.com/maxaizer/job-alert-bot/internal/services"
	"github.com/maxaizer/job-alert-bot/internal/sessions"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

var (
	errNoSources      = errors.New("no sources selected")
	errNoKeywords     = errors.New("no keywords saved")
	errUnknownSources = errors.New("unknown sources")
)

const (
	helpText = "Hello! Use /jobs keyword1 - keyword2 - keyword3 to find jobs.\n\n" +
		"/sources - list job sources\n" +
		"/source freelancer guru - choose sources, or /source all\n" +
		"/keywords python - scraping - API - save keywords\n" +
		"/jobs - search now with saved keywords\n" +
		"/subscribe - daily digest with saved keywords\n" +
		"/unsubscribe - stop the daily digest\n" +
		"/status - show your settings"
	jobsUsageText      = "Please enter keywords like: /jobs python - scraping - API"
	keywordsUsageText  = "❌ Please provide at least one keyword, like: /keywords python - scraping - API"
	sourceUsageText    = "Please specify sources like: /source freelancer guru, or /source all"
	subscribeUsageText = "Please save keywords first, like: /keywords python - scraping - API"
	unknownCommandText = "Unknown command. Send /help to see what I can do."
	internalErrorText  = "Internal error, please try again later."
)

type sessionStore interface {
	Get(ctx context.Context, recipientID int64) (entities.Session, error)
	Update(ctx context.Context, recipientID int64, mutation sessions.Mutation) (entities.Session, error)
	RemoveDigest(ctx context.Context, recipientID int64) error
}

type passRunner interface {
	Run(ctx context.Context, request services.PassRequest) services.DeliveryReport
	Notify(ctx context.Context, recipientID int64, text string) error
}

type sourceCatalog interface {
	IDs() []entities.SourceID
	Has(id entities.SourceID) bool
}

type digestSchedule interface {
	NextRun(recipientID int64) (time.Time, bool)
}

// Router turns command text into session changes and pipeline passes. Each
// handled message ends with exactly one terminal reply.
type Router struct {
	sessions sessionStore
	runner   passRunner
	catalog  sourceCatalog
	digest   digestSchedule
}

func NewRouter(sessions sessionStore, runner passRunner, catalog sourceCatalog, digest digestSchedule) (*Router, error) {
	if sessions == nil {
		return nil, errors.New("session store is nil")
	}
	if runner == nil {
		return nil, errors.New("pass runner is nil")
	}
	if catalog == nil {
		return nil, errors.New("source catalog is nil")
	}
	if digest == nil {
		return nil, errors.New("digest schedule is nil")
	}
	return &Router{sessions: sessions, runner: runner, catalog: catalog, digest: digest}, nil
}

func (r *Router) Handle(ctx context.Context, recipientID int64, text string) {

	cmd, ok := parseCommand(text)
	if !ok {
		r.reply(ctx, recipientID, unknownCommandText)
		return
	}

	var reply string
	var err error

	switch cmd.name {
	case startCommandName, helpCommandName:
		_, err = r.sessions.Get(ctx, recipientID)
		reply = helpText
	case sourcesCommandName:
		reply = r.sourcesText()
	case sourceCommandName:
		reply, err = r.selectSources(ctx, recipientID, cmd.args)
	case keywordsCommandName:
		reply, err = r.setKeywords(ctx, recipientID, cmd.args)
	case jobsCommandName:
		reply, err = r.runNow(ctx, recipientID, cmd.args)
	case subscribeCommandName:
		reply, err = r.subscribe(ctx, recipientID, cmd.args)
	case unsubscribeCommandName:
		err = r.sessions.RemoveDigest(ctx, recipientID)
		reply = "🔕 Daily digest disabled."
	case statusCommandName:
		reply, err = r.status(ctx, recipientID)
	default:
		reply = unknownCommandText
	}

	if err != nil {
		reply = r.errorReply(recipientID, cmd.name, err)
	}
	if reply != "" {
		r.reply(ctx, recipientID, reply)
	}
}

func (r *Router) selectSources(ctx context.Context, recipientID int64, args string) (string, error) {

	selected := parseSourceIDs(args)
	if len(selected) == 0 {
		return sourceUsageText, nil
	}

	known := lo.Filter(selected, func(id entities.SourceID, _ int) bool { return r.catalog.Has(id) })
	if len(known) == 0 {
		return "", errors.Wrapf(errUnknownSources, "%v", selected)
	}

	_, err := r.sessions.Update(ctx, recipientID, func(session *entities.Session) error {
		session.SelectedSources = selected
		return nil
	})
	if err != nil {
		return "", err
	}

	reply := "✅ Sources set to: " + joinIDs(selected)
	if unknown := len(selected) - len(known); unknown > 0 {
		log.Warnf("recipient %d selected %d unknown sources: %v", recipientID, unknown, selected)
	}
	return reply, nil
}

func (r *Router) setKeywords(ctx context.Context, recipientID int64, args string) (string, error) {

	keywords, err := entities.ParseKeywords(args)
	if err != nil {
		return keywordsUsageText, nil
	}

	_, err = r.sessions.Update(ctx, recipientID, func(session *entities.Session) error {
		session.SavedKeywords = keywords
		return nil
	})
	if err != nil {
		return "", err
	}
	return "✅ Keywords saved: " + keywords.String(), nil
}

// runNow returns an empty reply when a pass ran, the dispatcher sends the
// closing message itself.
func (r *Router) runNow(ctx context.Context, recipientID int64, args string) (string, error) {

	var session entities.Session
	var err error

	if args != "" {
		keywords, parseErr := entities.ParseKeywords(args)
		if parseErr != nil {
			return keywordsUsageText, nil
		}
		session, err = r.sessions.Update(ctx, recipientID, func(session *entities.Session) error {
			session.SavedKeywords = keywords
			return nil
		})
	} else {
		session, err = r.sessions.Get(ctx, recipientID)
	}
	if err != nil {
		return "", err
	}

	if !session.HasKeywords() {
		return jobsUsageText, nil
	}
	if !session.HasSources() {
		return "", errNoSources
	}

	r.runner.Run(ctx, services.PassRequest{
		RecipientID: recipientID,
		Sources:     session.SelectedSources,
		Keywords:    session.SavedKeywords,
		Kind:        services.PassInteractive,
	})
	return "", nil
}

func (r *Router) subscribe(ctx context.Context, recipientID int64, args string) (string, error) {

	var keywords entities.Keywords
	if args != "" {
		parsed, err := entities.ParseKeywords(args)
		if err != nil {
			return keywordsUsageText, nil
		}
		keywords = parsed
	}

	session, err := r.sessions.Update(ctx, recipientID, func(session *entities.Session) error {
		if keywords != nil {
			session.SavedKeywords = keywords
		}
		if !session.HasKeywords() {
			return errNoKeywords
		}
		if !session.HasSources() {
			return errNoSources
		}
		session.DigestEnabled = true
		return nil
	})
	if err != nil {
		return "", err
	}

	reply := "🔔 Daily digest enabled for: " + session.SavedKeywords.String()
	if next, ok := r.digest.NextRun(recipientID); ok {
		reply += "\nNext digest: " + next.Format("2006-01-02 15:04 MST")
	}
	return reply, nil
}

func (r *Router) status(ctx context.Context, recipientID int64) (string, error) {

	session, err := r.sessions.Get(ctx, recipientID)
	if err != nil {
		return "", err
	}

	sourcesText, keywordsText, digestText := "not selected", "not set", "off"
	if session.HasSources() {
		sourcesText = joinIDs(session.SelectedSources)
	}
	if session.HasKeywords() {
		keywordsText = session.SavedKeywords.String()
	}
	if next, ok := r.digest.NextRun(recipientID); ok && session.DigestActive() {
		digestText = "on, next at " + next.Format("2006-01-02 15:04 MST")
	}

	return fmt.Sprintf("Sources: %s\nKeywords: %s\nDaily digest: %s", sourcesText, keywordsText, digestText), nil
}

func (r *Router) sourcesText() string {
	return "Available sources: " + joinIDs(r.catalog.IDs()) + "\nUse /source all to search everywhere."
}

func (r *Router) errorReply(recipientID int64, commandName string, err error) string {
	switch {
	case errors.Is(err, errNoSources):
		return services.NoSourcesText
	case errors.Is(err, errNoKeywords):
		return subscribeUsageText
	case errors.Is(err, errUnknownSources):
		return "❌ Unknown source. " + r.sourcesText()
	default:
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).
			Errorf("/%s for %d failed: %v", commandName, recipientID, err)
		return internalErrorText
	}
}

func (r *Router) reply(ctx context.Context, recipientID int64, text string) {
	_ = r.runner.Notify(ctx, recipientID, text)
}

func parseSourceIDs(args string) []entities.SourceID {
	fields := strings.FieldsFunc(strings.ToLower(args), func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	return lo.Uniq(lo.Map(fields, func(field string, _ int) entities.SourceID {
		return entities.SourceID(field)
	}))
}

func joinIDs(ids []entities.SourceID) string {
	return strings.Join(lo.Map(ids, func(id entities.SourceID, _ int) string { return string(id) }), ", ")
}
