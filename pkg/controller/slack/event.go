package slack

import (
	"context"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack/slackevents"
	"github.com/weevil-bot/weevil/pkg/domain/types"
	"github.com/weevil-bot/weevil/pkg/usecase"
)

// EventHandler routes Events API callbacks to the use cases
type EventHandler struct {
	reportUC  *usecase.Report
	commandUC *usecase.Command
	botUserID string
}

// NewEventHandler creates a new event handler. botUserID is the bot's own
// user ID, used to drop its own messages and reactions.
func NewEventHandler(reportUC *usecase.Report, commandUC *usecase.Command, botUserID string) *EventHandler {
	return &EventHandler{
		reportUC:  reportUC,
		commandUC: commandUC,
		botUserID: botUserID,
	}
}

// HandleEvent handles a parsed Events API callback
func (h *EventHandler) HandleEvent(ctx context.Context, event *slackevents.EventsAPIEvent) error {
	if event == nil {
		return goerr.New("event is nil")
	}

	switch ev := event.InnerEvent.Data.(type) {
	case *slackevents.MessageEvent:
		return h.handleMessageEvent(ctx, ev)

	case *slackevents.ReactionAddedEvent:
		return h.handleReactionEvent(ctx, ev)

	default:
		ctxlog.From(ctx).Debug("Unhandled event type",
			"type", event.InnerEvent.Type,
		)
		return nil
	}
}

// handleMessageEvent routes a message event: bang commands go to the command
// router, thread replies may answer a pending link request, and top-level
// channel messages run through auto-detection.
func (h *EventHandler) handleMessageEvent(ctx context.Context, event *slackevents.MessageEvent) error {
	logger := ctxlog.From(ctx)

	// Ignore the bot's own traffic and message edits/deletes
	if event.BotID != "" || event.User == "" || event.User == h.botUserID {
		logger.Debug("Skipping bot or non-user message", "botID", event.BotID)
		return nil
	}
	if event.SubType != "" || event.Text == "" {
		logger.Debug("Skipping message without plain text", "subType", event.SubType)
		return nil
	}

	channelID := types.ChannelID(event.Channel)
	userID := types.SlackUserID(event.User)
	messageTS := types.MessageTS(event.TimeStamp)

	if usecase.IsCommand(event.Text) {
		threadTS := types.ThreadTS(event.TimeStamp)
		if event.ThreadTimeStamp != "" {
			threadTS = types.ThreadTS(event.ThreadTimeStamp)
		}
		return h.commandUC.Execute(ctx, channelID, userID, threadTS, event.Text)
	}

	isThreadReply := event.ThreadTimeStamp != "" && event.ThreadTimeStamp != event.TimeStamp
	if isThreadReply {
		return h.reportUC.HandleThreadReply(ctx, channelID,
			types.ThreadTS(event.ThreadTimeStamp), userID, messageTS, event.Text)
	}

	return h.reportUC.HandleChannelMessage(ctx, channelID, userID, messageTS, event.Text)
}

// handleReactionEvent feeds reaction_added events into the confirmation flow
func (h *EventHandler) handleReactionEvent(ctx context.Context, event *slackevents.ReactionAddedEvent) error {
	if event.User == "" || event.User == h.botUserID {
		return nil
	}
	if event.Item.Type != "message" {
		return nil
	}

	return h.reportUC.HandleReaction(ctx, event.Reaction,
		types.ChannelID(event.Item.Channel),
		types.MessageTS(event.Item.Timestamp),
		types.SlackUserID(event.User))
}
