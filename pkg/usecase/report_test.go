package usecase_test

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/slack-go/slack"
	"github.com/weevil-bot/weevil/pkg/domain/interfaces/mocks"
	"github.com/weevil-bot/weevil/pkg/domain/model"
	"github.com/weevil-bot/weevil/pkg/domain/types"
	"github.com/weevil-bot/weevil/pkg/repository"
	"github.com/weevil-bot/weevil/pkg/service/classify"
	"github.com/weevil-bot/weevil/pkg/usecase"
)

const (
	testChannel = "C0123456789"
	testUser    = "U0123456789"
	testOther   = "U9876543210"
)

// renderMessage applies the captured MsgOptions so tests can inspect the
// posted text and thread timestamp
func renderMessage(t testing.TB, channelID string, options ...slack.MsgOption) url.Values {
	t.Helper()
	_, values, err := slack.UnsafeApplyMsgOptions("test-token", channelID, "https://slack.com/api/", options...)
	gt.NoError(t, err)
	return values
}

func newSlackMock() *mocks.SlackClientMock {
	var seq int64
	return &mocks.SlackClientMock{
		PostMessageFunc: func(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error) {
			n := atomic.AddInt64(&seq, 1)
			return channelID, fmt.Sprintf("1700000100.%06d", n), nil
		},
		AddReactionFunc: func(ctx context.Context, name string, item slack.ItemRef) error {
			return nil
		},
	}
}

func newTicketMock() *mocks.TicketClientMock {
	return &mocks.TicketClientMock{
		CreateTicketFunc: func(ctx context.Context, req *model.TicketRequest) (*model.CreatedTicket, error) {
			return &model.CreatedTicket{
				Key: "WEEV-42",
				URL: "https://example.atlassian.net/browse/WEEV-42",
			}, nil
		},
	}
}

func newReport(t testing.TB, slackMock *mocks.SlackClientMock, ticketMock *mocks.TicketClientMock, opts ...usecase.ReportOption) *usecase.Report {
	t.Helper()
	classifier, err := classify.New(classify.DefaultRules())
	gt.NoError(t, err)
	store := repository.NewMemory()
	return usecase.NewReport(store, slackMock, ticketMock, classifier, "https://weevil.slack.com", opts...)
}

// waitFor polls until cond holds or the deadline passes
func waitFor(t testing.TB, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	gt.True(t, cond())
}

func TestHandleChannelMessageSkipsChatter(t *testing.T) {
	slackMock := newSlackMock()
	ticketMock := newTicketMock()
	report := newReport(t, slackMock, ticketMock)
	ctx := context.Background()

	for _, text := range []string{"ok", "thanks a lot!", "good morning everyone"} {
		gt.NoError(t, report.HandleChannelMessage(ctx, testChannel, testUser, "1700000000.000100", text))
	}

	gt.Equal(t, len(slackMock.PostMessageCalls()), 0)
}

func TestHandleChannelMessagePostsPrompt(t *testing.T) {
	slackMock := newSlackMock()
	ticketMock := newTicketMock()
	report := newReport(t, slackMock, ticketMock)
	ctx := context.Background()

	text := "Dataloader import fails on production. The job dies with a timeout after two minutes."
	gt.NoError(t, report.HandleChannelMessage(ctx, testChannel, testUser, "1700000000.000100", text))

	posts := slackMock.PostMessageCalls()
	gt.Equal(t, len(posts), 1)

	values := renderMessage(t, posts[0].ChannelID, posts[0].Options...)
	gt.Equal(t, values.Get("thread_ts"), "1700000000.000100")
	body := values.Get("text")
	gt.S(t, body).Contains("might be a bug report")
	gt.S(t, body).Contains("Dataloader import fails on production")
	gt.S(t, body).Contains("**Environment:** Prod")
	gt.S(t, body).Contains("**Product:** Dataloader")

	reactions := slackMock.AddReactionCalls()
	gt.Equal(t, len(reactions), 1)
	gt.Equal(t, reactions[0].Name, "white_check_mark")
}

func TestConfirmationWithDirectLink(t *testing.T) {
	slackMock := newSlackMock()
	ticketMock := newTicketMock()
	report := newReport(t, slackMock, ticketMock)
	ctx := context.Background()

	text := "Export crashes on dev. See https://app.example.com/share/deadbeef-0001"
	gt.NoError(t, report.HandleChannelMessage(ctx, testChannel, testUser, "1700000000.000200", text))

	posts := slackMock.PostMessageCalls()
	gt.Equal(t, len(posts), 1)
	promptTS := types.MessageTS("1700000100.000001")

	gt.NoError(t, report.HandleReaction(ctx, "white_check_mark", testChannel, promptTS, testUser))

	created := ticketMock.CreateTicketCalls()
	gt.Equal(t, len(created), 1)
	gt.Equal(t, created[0].Req.Kind, types.TicketKindBug)
	gt.Equal(t, created[0].Req.Environment, types.EnvironmentDev)
	gt.Equal(t, created[0].Req.ReferenceLink, "https://app.example.com/share/deadbeef-0001")
	gt.S(t, created[0].Req.Description).Contains("archives/C0123456789/p1700000000000200")

	// success + details follow the prompt
	posts = slackMock.PostMessageCalls()
	gt.Equal(t, len(posts), 3)
	success := renderMessage(t, posts[1].ChannelID, posts[1].Options...).Get("text")
	gt.S(t, success).Contains("✅ Your new bug ticket has been created here: https://example.atlassian.net/browse/WEEV-42")
	details := renderMessage(t, posts[2].ChannelID, posts[2].Options...).Get("text")
	gt.S(t, details).Contains("**Share URL:** Included ✅")
}

func TestConfirmationIsConsumedOnce(t *testing.T) {
	slackMock := newSlackMock()
	ticketMock := newTicketMock()
	report := newReport(t, slackMock, ticketMock)
	ctx := context.Background()

	gt.NoError(t, report.HandleChannelMessage(ctx, testChannel, testUser, "1700000000.000300",
		"Dashboard widgets render blank after the last deploy to production servers"))

	promptTS := types.MessageTS("1700000100.000001")
	gt.NoError(t, report.HandleReaction(ctx, "white_check_mark", testChannel, promptTS, testUser))
	gt.NoError(t, report.HandleReaction(ctx, "white_check_mark", testChannel, promptTS, testUser))

	gt.Equal(t, len(ticketMock.CreateTicketCalls()), 1)
}

func TestReactionIgnoredCases(t *testing.T) {
	slackMock := newSlackMock()
	ticketMock := newTicketMock()
	report := newReport(t, slackMock, ticketMock)
	ctx := context.Background()

	gt.NoError(t, report.HandleChannelMessage(ctx, testChannel, testUser, "1700000000.000400",
		"Sync job hangs forever when the staging database is under load today"))
	promptTS := types.MessageTS("1700000100.000001")

	// wrong emoji
	gt.NoError(t, report.HandleReaction(ctx, "thumbsup", testChannel, promptTS, testUser))
	// wrong user
	gt.NoError(t, report.HandleReaction(ctx, "white_check_mark", testChannel, promptTS, testOther))
	gt.Equal(t, len(ticketMock.CreateTicketCalls()), 0)

	// the entry is still there for the right user
	gt.NoError(t, report.HandleReaction(ctx, "white_check_mark", testChannel, promptTS, testUser))
	gt.Equal(t, len(ticketMock.CreateTicketCalls()), 1)
}

func TestIndirectLinkReplyFlow(t *testing.T) {
	slackMock := newSlackMock()
	ticketMock := newTicketMock()
	report := newReport(t, slackMock, ticketMock)
	ctx := context.Background()

	messageTS := types.MessageTS("1700000000.000500")
	gt.NoError(t, report.HandleChannelMessage(ctx, testChannel, testUser, messageTS,
		"Query results disappear randomly, context here https://app.example.com/chat/deadbeef-0002"))

	promptTS := types.MessageTS("1700000100.000001")
	gt.NoError(t, report.HandleReaction(ctx, "white_check_mark", testChannel, promptTS, testUser))

	// no ticket yet, the bot asked for a share link instead
	gt.Equal(t, len(ticketMock.CreateTicketCalls()), 0)
	posts := slackMock.PostMessageCalls()
	gt.Equal(t, len(posts), 2)
	ask := renderMessage(t, posts[1].ChannelID, posts[1].Options...).Get("text")
	gt.S(t, ask).Contains("chat URL in your message")
	gt.S(t, ask).Contains("https://app.example.com/chat/deadbeef-0002")

	threadTS := types.ThreadTS(messageTS)

	// a reply from somebody else is ignored
	gt.NoError(t, report.HandleThreadReply(ctx, testChannel, threadTS, testOther, "1700000000.000501",
		"here you go https://app.example.com/share/deadbeef-0002"))
	gt.Equal(t, len(ticketMock.CreateTicketCalls()), 0)

	// the requesting user's share link wins
	gt.NoError(t, report.HandleThreadReply(ctx, testChannel, threadTS, testUser, "1700000000.000502",
		"here you go https://app.example.com/share/deadbeef-0002"))

	created := ticketMock.CreateTicketCalls()
	gt.Equal(t, len(created), 1)
	gt.Equal(t, created[0].Req.ReferenceLink, "https://app.example.com/share/deadbeef-0002")

	// a second reply finds nothing pending
	gt.NoError(t, report.HandleThreadReply(ctx, testChannel, threadTS, testUser, "1700000000.000503",
		"and again https://app.example.com/share/deadbeef-0002"))
	gt.Equal(t, len(ticketMock.CreateTicketCalls()), 1)
}

func TestIndirectLinkInvalidReply(t *testing.T) {
	slackMock := newSlackMock()
	ticketMock := newTicketMock()
	report := newReport(t, slackMock, ticketMock)
	ctx := context.Background()

	messageTS := types.MessageTS("1700000000.000600")
	gt.NoError(t, report.HandleChannelMessage(ctx, testChannel, testUser, messageTS,
		"Notifications stopped arriving, conversation is at https://app.example.com/chat/deadbeef-0003"))
	gt.NoError(t, report.HandleReaction(ctx, "white_check_mark", testChannel, "1700000100.000001", testUser))

	replyTS := types.MessageTS("1700000000.000601")
	gt.NoError(t, report.HandleThreadReply(ctx, testChannel, types.ThreadTS(messageTS), testUser, replyTS,
		"sorry, I do not know how to make one"))

	created := ticketMock.CreateTicketCalls()
	gt.Equal(t, len(created), 1)
	gt.Equal(t, created[0].Req.ReferenceLink, "")

	reactions := slackMock.AddReactionCalls()
	var rejected bool
	for _, r := range reactions {
		if r.Name == "x" && r.Item.Timestamp == replyTS.String() {
			rejected = true
		}
	}
	gt.True(t, rejected)
}

func TestIndirectLinkTimeout(t *testing.T) {
	slackMock := newSlackMock()
	ticketMock := newTicketMock()
	report := newReport(t, slackMock, ticketMock, usecase.WithLinkWindow(20*time.Millisecond))
	ctx := context.Background()

	messageTS := types.MessageTS("1700000000.000700")
	gt.NoError(t, report.HandleChannelMessage(ctx, testChannel, testUser, messageTS,
		"Imports are stuck in staging again, thread https://app.example.com/chat/deadbeef-0004"))
	gt.NoError(t, report.HandleReaction(ctx, "white_check_mark", testChannel, "1700000100.000001", testUser))

	waitFor(t, func() bool { return len(ticketMock.CreateTicketCalls()) == 1 })

	created := ticketMock.CreateTicketCalls()
	gt.Equal(t, created[0].Req.ReferenceLink, "")

	var sawTimeout bool
	for _, post := range slackMock.PostMessageCalls() {
		text := renderMessage(t, post.ChannelID, post.Options...).Get("text")
		if strings.Contains(text, "Timeout reached") {
			sawTimeout = true
		}
	}
	gt.True(t, sawTimeout)

	// the timed-out request is gone, late replies do nothing
	gt.NoError(t, report.HandleThreadReply(ctx, testChannel, types.ThreadTS(messageTS), testUser, "1700000000.000701",
		"late https://app.example.com/share/deadbeef-0004"))
	gt.Equal(t, len(ticketMock.CreateTicketCalls()), 1)
}

func TestReplyBeatsTimer(t *testing.T) {
	slackMock := newSlackMock()
	ticketMock := newTicketMock()
	report := newReport(t, slackMock, ticketMock, usecase.WithLinkWindow(50*time.Millisecond))
	ctx := context.Background()

	messageTS := types.MessageTS("1700000000.000800")
	gt.NoError(t, report.HandleChannelMessage(ctx, testChannel, testUser, messageTS,
		"Search index drifts out of date, see https://app.example.com/chat/deadbeef-0005"))
	gt.NoError(t, report.HandleReaction(ctx, "white_check_mark", testChannel, "1700000100.000001", testUser))

	gt.NoError(t, report.HandleThreadReply(ctx, testChannel, types.ThreadTS(messageTS), testUser, "1700000000.000801",
		"https://app.example.com/share/deadbeef-0005"))

	// give the timer a chance to fire anyway
	time.Sleep(150 * time.Millisecond)

	created := ticketMock.CreateTicketCalls()
	gt.Equal(t, len(created), 1)
	gt.Equal(t, created[0].Req.ReferenceLink, "https://app.example.com/share/deadbeef-0005")
}

func TestTicketFailureClearsPending(t *testing.T) {
	slackMock := newSlackMock()
	ticketMock := newTicketMock()
	ticketMock.CreateTicketFunc = func(ctx context.Context, req *model.TicketRequest) (*model.CreatedTicket, error) {
		return nil, goerr.New("jira is down")
	}
	report := newReport(t, slackMock, ticketMock)
	ctx := context.Background()

	gt.NoError(t, report.HandleChannelMessage(ctx, testChannel, testUser, "1700000000.000900",
		"Billing export truncates amounts on production for large customers"))
	promptTS := types.MessageTS("1700000100.000001")

	err := report.HandleReaction(ctx, "white_check_mark", testChannel, promptTS, testUser)
	gt.Error(t, err)

	var sawFailure bool
	for _, post := range slackMock.PostMessageCalls() {
		text := renderMessage(t, post.ChannelID, post.Options...).Get("text")
		if strings.Contains(text, "❌ Failed to create bug ticket") {
			sawFailure = true
		}
	}
	gt.True(t, sawFailure)

	// the entry was consumed, another reaction is a no-op
	gt.NoError(t, report.HandleReaction(ctx, "white_check_mark", testChannel, promptTS, testUser))
	gt.Equal(t, len(ticketMock.CreateTicketCalls()), 1)
}
