package interfaces

//go:generate moq -out mocks/slack_mock.go -pkg mocks . SlackClient

import (
	"context"

	"github.com/slack-go/slack"
)

// SlackClient is the subset of the Slack Web API the bot depends on
type SlackClient interface {
	// AuthTest returns the bot's own identity
	AuthTest(ctx context.Context) (*slack.AuthTestResponse, error)

	// PostMessage posts a message and returns the channel and timestamp
	PostMessage(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)

	// AddReaction adds an emoji reaction to a message
	AddReaction(ctx context.Context, name string, item slack.ItemRef) error

	// GetThreadReplies fetches replies of a thread
	GetThreadReplies(ctx context.Context, params *slack.GetConversationRepliesParameters) ([]slack.Message, error)

	// GetUserEmail resolves a Slack user ID to the profile email
	GetUserEmail(ctx context.Context, userID string) (string, error)
}
