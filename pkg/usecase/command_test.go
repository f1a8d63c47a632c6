package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/slack-go/slack"
	"github.com/weevil-bot/weevil/pkg/domain/interfaces/mocks"
	"github.com/weevil-bot/weevil/pkg/domain/model"
	"github.com/weevil-bot/weevil/pkg/domain/types"
	"github.com/weevil-bot/weevil/pkg/usecase"
)

func newCommand(slackMock *mocks.SlackClientMock, ticketMock *mocks.TicketClientMock) *usecase.Command {
	return usecase.NewCommand(slackMock, ticketMock, "https://weevil.slack.com", types.ProductProductX)
}

func lastPostText(t testing.TB, slackMock *mocks.SlackClientMock) string {
	t.Helper()
	posts := slackMock.PostMessageCalls()
	gt.True(t, len(posts) > 0)
	last := posts[len(posts)-1]
	return renderMessage(t, last.ChannelID, last.Options...).Get("text")
}

func TestIsCommand(t *testing.T) {
	gt.True(t, usecase.IsCommand("!bug something broke"))
	gt.True(t, usecase.IsCommand("!help"))
	gt.False(t, usecase.IsCommand("bug something broke"))
	gt.False(t, usecase.IsCommand("hello !bug"))
}

func TestCreateCommands(t *testing.T) {
	cases := []struct {
		command string
		kind    types.TicketKind
	}{
		{"!bug Login button is dead", types.TicketKindBug},
		{"!story Support CSV export", types.TicketKindStory},
		{"!task Rotate the API keys", types.TicketKindTask},
		{"!epic Rework onboarding", types.TicketKindEpic},
	}

	for _, tc := range cases {
		t.Run(tc.kind.String(), func(t *testing.T) {
			slackMock := newSlackMock()
			slackMock.GetThreadRepliesFunc = func(ctx context.Context, params *slack.GetConversationRepliesParameters) ([]slack.Message, error) {
				return []slack.Message{{Msg: slack.Msg{Text: tc.command}}}, nil
			}
			ticketMock := newTicketMock()
			cmd := newCommand(slackMock, ticketMock)

			err := cmd.Execute(context.Background(), testChannel, testUser, "1700000000.001000", tc.command)
			gt.NoError(t, err)

			created := ticketMock.CreateTicketCalls()
			gt.Equal(t, len(created), 1)
			gt.Equal(t, created[0].Req.Kind, tc.kind)
			gt.Equal(t, created[0].Req.Environment, types.EnvironmentProd)
			gt.Equal(t, created[0].Req.Product, types.ProductProductX)
			gt.S(t, created[0].Req.Description).Contains("archives/C0123456789/p1700000000001000")
			// command token was stripped from the quoted parent message
			gt.S(t, created[0].Req.Description).NotContains(tc.command)

			gt.S(t, lastPostText(t, slackMock)).Contains("✅ Your new")
			gt.S(t, lastPostText(t, slackMock)).Contains("https://example.atlassian.net/browse/WEEV-42")
		})
	}
}

func TestCreateCommandWithoutTitle(t *testing.T) {
	slackMock := newSlackMock()
	ticketMock := newTicketMock()
	cmd := newCommand(slackMock, ticketMock)

	gt.NoError(t, cmd.Execute(context.Background(), testChannel, testUser, "1700000000.001100", "!bug"))

	gt.Equal(t, len(ticketMock.CreateTicketCalls()), 0)
	gt.S(t, lastPostText(t, slackMock)).Contains("Please provide a title for your bug ticket!")
}

func TestCreateCommandFailure(t *testing.T) {
	slackMock := newSlackMock()
	slackMock.GetThreadRepliesFunc = func(ctx context.Context, params *slack.GetConversationRepliesParameters) ([]slack.Message, error) {
		return nil, goerr.New("slack exploded")
	}
	ticketMock := newTicketMock()
	ticketMock.CreateTicketFunc = func(ctx context.Context, req *model.TicketRequest) (*model.CreatedTicket, error) {
		return nil, goerr.New("jira is down")
	}
	cmd := newCommand(slackMock, ticketMock)

	err := cmd.Execute(context.Background(), testChannel, testUser, "1700000000.001200", "!bug Broken thing")
	gt.Error(t, err)

	// the thread fetch failure falls back to the placeholder context
	created := ticketMock.CreateTicketCalls()
	gt.Equal(t, len(created), 1)
	gt.S(t, created[0].Req.Description).Contains("No additional context available")

	gt.S(t, lastPostText(t, slackMock)).Contains("❌ Failed to create bug ticket")
}

func TestPriorityAndHelp(t *testing.T) {
	slackMock := newSlackMock()
	cmd := newCommand(slackMock, newTicketMock())
	ctx := context.Background()

	gt.NoError(t, cmd.Execute(ctx, testChannel, testUser, "1700000000.001300", "!priority"))
	gt.S(t, lastPostText(t, slackMock)).Contains("Is this problem blocking any critical release?")

	gt.NoError(t, cmd.Execute(ctx, testChannel, testUser, "1700000000.001300", "!help"))
	gt.S(t, lastPostText(t, slackMock)).Contains("Here are the commands you can use with me")
}

func TestInProgressCommand(t *testing.T) {
	slackMock := newSlackMock()
	slackMock.GetUserEmailFunc = func(ctx context.Context, userID string) (string, error) {
		gt.Equal(t, userID, testOther)
		return "dev@example.com", nil
	}
	ticketMock := newTicketMock()
	ticketMock.AssignedTicketsFunc = func(ctx context.Context, email string) ([]*model.AssignedTicket, error) {
		gt.Equal(t, email, "dev@example.com")
		return []*model.AssignedTicket{
			{
				Key:      "WEEV-7",
				Title:    "Fix the importer",
				URL:      "https://example.atlassian.net/browse/WEEV-7",
				State:    "Development",
				Priority: "High",
			},
		}, nil
	}
	cmd := newCommand(slackMock, ticketMock)

	gt.NoError(t, cmd.Execute(context.Background(), testChannel, testUser, "1700000000.001400",
		"!inprogress <@"+testOther+">"))

	body := lastPostText(t, slackMock)
	gt.S(t, body).Contains("is *currently working* on the following ticket(s)")
	gt.S(t, body).Contains("1. _*High*_ - <https://example.atlassian.net/browse/WEEV-7|WEEV-7 - Fix the importer> in *Development*.")
}

func TestInProgressCommandEdges(t *testing.T) {
	slackMock := newSlackMock()
	ticketMock := newTicketMock()
	ticketMock.AssignedTicketsFunc = func(ctx context.Context, email string) ([]*model.AssignedTicket, error) {
		return nil, nil
	}
	slackMock.GetUserEmailFunc = func(ctx context.Context, userID string) (string, error) {
		return "dev@example.com", nil
	}
	cmd := newCommand(slackMock, ticketMock)
	ctx := context.Background()

	gt.NoError(t, cmd.Execute(ctx, testChannel, testUser, "1700000000.001500", "!inprogress somebody"))
	gt.S(t, lastPostText(t, slackMock)).Contains("Invalid user ID format")
	gt.Equal(t, len(ticketMock.AssignedTicketsCalls()), 0)

	gt.NoError(t, cmd.Execute(ctx, testChannel, testUser, "1700000000.001500", "!inprogress <@"+testOther+">"))
	gt.S(t, lastPostText(t, slackMock)).Contains("has *no tasks* assigned")
}

func TestTimeCommand(t *testing.T) {
	slackMock := newSlackMock()
	ticketMock := newTicketMock()
	ticketMock.TicketHistoryFunc = func(ctx context.Context, key types.TicketKey) ([]*model.StateDuration, error) {
		gt.Equal(t, key, types.TicketKey("WEEV-7"))
		return []*model.StateDuration{
			{State: "To Do", Elapsed: 26*time.Hour + 30*time.Minute},
			{State: "Development", Elapsed: 45 * time.Minute},
			{State: "Done", Elapsed: 90 * time.Second, Current: true},
		}, nil
	}
	ticketMock.StorySizePriorityFunc = func(ctx context.Context, key types.TicketKey) (*model.StorySizePriority, error) {
		return &model.StorySizePriority{Size: "5", Priority: "High"}, nil
	}
	cmd := newCommand(slackMock, ticketMock)

	gt.NoError(t, cmd.Execute(context.Background(), testChannel, testUser, "1700000000.001600", "!time weev-7"))

	body := lastPostText(t, slackMock)
	gt.S(t, body).Contains("ticket *WEEV-7* with *5 points* and *High priority*")
	gt.S(t, body).Contains("1. Stayed in *To Do* state for *1 day(s) 2 hour(s) 30 minute(s)*.")
	gt.S(t, body).Contains("2. Stayed in *Development* state for *45 minute(s)*.")
	gt.S(t, body).Contains("3. :here: Currently in *Done* state for *1 minute(s) 30 second(s)*.")
}

func TestTimeCommandEdges(t *testing.T) {
	slackMock := newSlackMock()
	ticketMock := newTicketMock()
	ticketMock.TicketHistoryFunc = func(ctx context.Context, key types.TicketKey) ([]*model.StateDuration, error) {
		return nil, goerr.Wrap(model.ErrEpicHasNoTimeline, "epic has no state timeline")
	}
	cmd := newCommand(slackMock, ticketMock)
	ctx := context.Background()

	gt.NoError(t, cmd.Execute(ctx, testChannel, testUser, "1700000000.001700", "!time"))
	gt.S(t, lastPostText(t, slackMock)).Contains("Please provide a ticket ID")

	err := cmd.Execute(ctx, testChannel, testUser, "1700000000.001700", "!time WEEV-9")
	gt.Error(t, err)
	gt.S(t, lastPostText(t, slackMock)).Contains("Error getting elapsed time for ticket *WEEV-9*")
}
