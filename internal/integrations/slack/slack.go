package slackbot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
	"github.com/slack-go/slack/socketmode"
	"go.uber.org/zap"

	"spamcheck/internal/checker"
)

const (
	actionReportSpam  = "report_spam"
	actionReportLegit = "report_legit"

	explainTimeout = 20 * time.Second
)

// Replier sends an ephemeral reply to one user in a channel.
type Replier interface {
	Reply(channelID, userID, text string, blocks ...slack.Block) error
}

// Explainer adds an advisory line to check replies. Optional.
type Explainer interface {
	Explain(ctx context.Context, d checker.Details) (string, error)
}

type Bot struct {
	svc       *checker.Service
	out       Replier
	explainer Explainer
	logger    *zap.Logger
}

func NewBot(svc *checker.Service, out Replier, explainer Explainer, logger *zap.Logger) *Bot {
	return &Bot{svc: svc, out: out, explainer: explainer, logger: logger}
}

// StartSlackBot runs the socket-mode event loop until ctx is cancelled.
func StartSlackBot(ctx context.Context, api *slack.Client, bot *Bot) error {
	client := socketmode.New(api)

	go func() {
		for {
			var evt socketmode.Event
			select {
			case <-ctx.Done():
				return
			case evt = <-client.Events:
			}
			switch evt.Type {
			case socketmode.EventTypeSlashCommand:
				client.Ack(*evt.Request)
				cmd, ok := evt.Data.(slack.SlashCommand)
				if !ok {
					continue
				}
				bot.logger.Info("slash command received",
					zap.String("command", cmd.Command),
					zap.String("user", cmd.UserID),
					zap.String("channel", cmd.ChannelID),
				)
				go bot.HandleSlashCommand(ctx, cmd)
			case socketmode.EventTypeEventsAPI:
				client.Ack(*evt.Request)
				eventsAPIEvent, ok := evt.Data.(slackevents.EventsAPIEvent)
				if !ok {
					continue
				}
				go bot.handleEventsAPI(eventsAPIEvent)
			case socketmode.EventTypeInteractive:
				client.Ack(*evt.Request)
				callback, ok := evt.Data.(slack.InteractionCallback)
				if !ok {
					continue
				}
				go bot.HandleInteraction(ctx, callback)
			}
		}
	}()

	bot.logger.Info("Slack bot connected via Socket Mode")
	err := client.RunContext(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (b *Bot) HandleSlashCommand(ctx context.Context, cmd slack.SlashCommand) {
	switch cmd.Command {
	case "/spamcheck", "/sc":
		b.handleCheck(ctx, cmd)
	case "/reportspam":
		b.handleReport(ctx, cmd, true)
	case "/reportlegit":
		b.handleReport(ctx, cmd, false)
	case "/recentchecks":
		b.reply(cmd.ChannelID, cmd.UserID, formatRecent(b.svc.Recent()))
	case "/spamhelp":
		b.reply(cmd.ChannelID, cmd.UserID, helpText())
	}
}

func (b *Bot) handleEventsAPI(event slackevents.EventsAPIEvent) {
	if event.Type != slackevents.CallbackEvent {
		return
	}
	switch ev := event.InnerEvent.Data.(type) {
	case *slackevents.MemberJoinedChannelEvent:
		b.logger.Info("member joined", zap.String("user", ev.User), zap.String("channel", ev.Channel))
		b.reply(ev.Channel, ev.User, "Welcome! Got a call from a number you don't know? Try `/spamcheck <number>`.\n\n"+helpText())
	}
}

func (b *Bot) handleCheck(ctx context.Context, cmd slack.SlashCommand) {
	raw := strings.TrimSpace(cmd.Text)
	if raw == "" {
		b.reply(cmd.ChannelID, cmd.UserID, "Usage: `/spamcheck <phone number>`")
		return
	}
	out, err := b.svc.Check(raw)
	if err != nil {
		b.reply(cmd.ChannelID, cmd.UserID, errorText(err))
		return
	}
	b.replyOutcome(ctx, cmd.ChannelID, cmd.UserID, "", out)
}

func (b *Bot) handleReport(ctx context.Context, cmd slack.SlashCommand, asSpam bool) {
	raw := strings.TrimSpace(cmd.Text)
	if raw == "" {
		b.reply(cmd.ChannelID, cmd.UserID, fmt.Sprintf("Usage: `%s <phone number>`", cmd.Command))
		return
	}
	b.report(ctx, cmd.ChannelID, cmd.UserID, raw, asSpam)
}

func (b *Bot) HandleInteraction(ctx context.Context, cb slack.InteractionCallback) {
	if cb.Type != slack.InteractionTypeBlockActions || len(cb.ActionCallback.BlockActions) == 0 {
		return
	}
	act := cb.ActionCallback.BlockActions[0]
	channelID := cb.Channel.ID
	if channelID == "" {
		channelID = cb.Container.ChannelID
	}
	userID := cb.User.ID

	switch act.ActionID {
	case actionReportSpam:
		b.report(ctx, channelID, userID, act.Value, true)
	case actionReportLegit:
		b.report(ctx, channelID, userID, act.Value, false)
	}
}

func (b *Bot) report(ctx context.Context, channelID, userID, raw string, asSpam bool) {
	out, err := b.svc.Report(raw, asSpam)
	if err != nil {
		b.reply(channelID, userID, errorText(err))
		return
	}
	thanks := "Thank you for reporting this number as legitimate!"
	if asSpam {
		thanks = "Thank you for reporting this number as spam!"
	}
	b.logger.Info("report received", zap.String("user", userID), zap.String("number", out.Canonical), zap.Bool("as_spam", asSpam))
	b.replyOutcome(ctx, channelID, userID, thanks, out)
}

func (b *Bot) replyOutcome(ctx context.Context, channelID, userID, preface string, out checker.Outcome) {
	text := formatOutcome(out.Details)
	if advice := b.explain(ctx, out.Details); advice != "" {
		text += "\n>" + advice
	}
	if preface != "" {
		text = preface + "\n\n" + text
	}
	if err := b.out.Reply(channelID, userID, text, outcomeBlocks(text, out.Canonical)...); err != nil {
		b.logger.Error("reply failed", zap.String("channel", channelID), zap.Error(err))
	}
}

func (b *Bot) explain(ctx context.Context, d checker.Details) string {
	if b.explainer == nil {
		return ""
	}
	ctx, cancel := context.WithTimeout(ctx, explainTimeout)
	defer cancel()
	advice, err := b.explainer.Explain(ctx, d)
	if err != nil {
		b.logger.Warn("llm explain failed", zap.String("number", d.Canonical), zap.Error(err))
		return ""
	}
	return advice
}

func (b *Bot) reply(channelID, userID, text string) {
	if err := b.out.Reply(channelID, userID, text); err != nil {
		b.logger.Error("reply failed", zap.String("channel", channelID), zap.Error(err))
	}
}

func errorText(err error) string {
	if errors.Is(err, checker.ErrEmptyNumber) {
		return "Please enter a phone number."
	}
	return fmt.Sprintf("Error: %v", err)
}
