package slack_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	slackgo "github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
	slackctrl "github.com/weevil-bot/weevil/pkg/controller/slack"
	"github.com/weevil-bot/weevil/pkg/repository"
	"github.com/weevil-bot/weevil/pkg/service/classify"
	"github.com/weevil-bot/weevil/pkg/usecase"
)

func parseEvent(t *testing.T, body []byte) *slackevents.EventsAPIEvent {
	t.Helper()
	event, err := slackevents.ParseEvent(body, slackevents.OptionNoVerifyToken())
	gt.NoError(t, err)
	return &event
}

func postedText(t *testing.T, call struct {
	Ctx       context.Context
	ChannelID string
	Options   []slackgo.MsgOption
}) string {
	t.Helper()
	_, values, err := slackgo.UnsafeApplyMsgOptions("tok", call.ChannelID, "https://slack.com/api/", call.Options...)
	gt.NoError(t, err)
	return values.Get("text")
}

func TestEventRouterCommand(t *testing.T) {
	h := newTestHandler(t)
	classifier, err := classify.New(classify.DefaultRules())
	gt.NoError(t, err)
	store := repository.NewMemory()
	reportUC := usecase.NewReport(store, h.slackMock, h.ticketMock, classifier, "https://weevil.slack.com")
	commandUC := usecase.NewCommand(h.slackMock, h.ticketMock, "https://weevil.slack.com", "ProductX")
	router := slackctrl.NewEventHandler(reportUC, commandUC, "U_TEST_BOT")

	event := parseEvent(t, messageEventBody("Ev100", "U0123456789", "!help", "1700000000.000100"))
	gt.NoError(t, router.HandleEvent(context.Background(), event))

	posts := h.slackMock.PostMessageCalls()
	gt.Equal(t, len(posts), 1)
	gt.S(t, postedText(t, posts[0])).Contains("Here are the commands you can use with me")
}

func TestEventRouterReaction(t *testing.T) {
	h := newTestHandler(t)
	classifier, err := classify.New(classify.DefaultRules())
	gt.NoError(t, err)
	store := repository.NewMemory()
	reportUC := usecase.NewReport(store, h.slackMock, h.ticketMock, classifier, "https://weevil.slack.com")
	commandUC := usecase.NewCommand(h.slackMock, h.ticketMock, "https://weevil.slack.com", "ProductX")
	router := slackctrl.NewEventHandler(reportUC, commandUC, "U_TEST_BOT")
	ctx := context.Background()

	// channel message registers a confirmation and posts the prompt
	event := parseEvent(t, messageEventBody("Ev101", "U0123456789",
		"Imports fail on production when files exceed the size limit", "1700000000.000200"))
	gt.NoError(t, router.HandleEvent(ctx, event))
	gt.Equal(t, len(h.slackMock.PostMessageCalls()), 1)

	// the author's checkmark on the prompt creates the ticket
	reaction := parseEvent(t, []byte(fmt.Sprintf(
		`{"type":"event_callback","event_id":"Ev102","team_id":"T0000001","event":{"type":"reaction_added","user":"U0123456789","reaction":"white_check_mark","item":{"type":"message","channel":"C0123456789","ts":%q},"event_ts":"1700000100.000002"}}`,
		"1700000100.000001")))
	gt.NoError(t, router.HandleEvent(ctx, reaction))

	gt.Equal(t, len(h.ticketMock.CreateTicketCalls()), 1)
}

func TestEventRouterThreadReply(t *testing.T) {
	h := newTestHandler(t)
	classifier, err := classify.New(classify.DefaultRules())
	gt.NoError(t, err)
	store := repository.NewMemory()
	reportUC := usecase.NewReport(store, h.slackMock, h.ticketMock, classifier, "https://weevil.slack.com")
	commandUC := usecase.NewCommand(h.slackMock, h.ticketMock, "https://weevil.slack.com", "ProductX")
	router := slackctrl.NewEventHandler(reportUC, commandUC, "U_TEST_BOT")
	ctx := context.Background()

	// indirect link: prompt, confirm, then the bot asks for a share link
	event := parseEvent(t, messageEventBody("Ev103", "U0123456789",
		"Results vanish mid-session, see https://app.example.com/chat/deadbeef-0042", "1700000000.000300"))
	gt.NoError(t, router.HandleEvent(ctx, event))

	reaction := parseEvent(t, []byte(
		`{"type":"event_callback","event_id":"Ev104","team_id":"T0000001","event":{"type":"reaction_added","user":"U0123456789","reaction":"white_check_mark","item":{"type":"message","channel":"C0123456789","ts":"1700000100.000001"},"event_ts":"1700000100.000002"}}`))
	gt.NoError(t, router.HandleEvent(ctx, reaction))
	gt.Equal(t, len(h.ticketMock.CreateTicketCalls()), 0)

	// thread reply with the share link closes the request
	reply := parseEvent(t, []byte(
		`{"type":"event_callback","event_id":"Ev105","team_id":"T0000001","event":{"type":"message","user":"U0123456789","text":"https://app.example.com/share/deadbeef-0042","ts":"1700000000.000301","thread_ts":"1700000000.000300","channel":"C0123456789","event_ts":"1700000000.000301"}}`))
	gt.NoError(t, router.HandleEvent(ctx, reply))

	created := h.ticketMock.CreateTicketCalls()
	gt.Equal(t, len(created), 1)
	gt.Equal(t, created[0].Req.ReferenceLink, "https://app.example.com/share/deadbeef-0042")

	var acked bool
	for _, post := range h.slackMock.PostMessageCalls() {
		if strings.Contains(postedText(t, post), "Share URL received") {
			acked = true
		}
	}
	gt.True(t, acked)
}
