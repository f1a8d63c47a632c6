package slack

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"
	"github.com/weevil-bot/weevil/pkg/domain/interfaces"
	"github.com/weevil-bot/weevil/pkg/domain/model"
)

// Service provides the Slack Web API operations the bot needs
type Service struct {
	client *slack.Client
}

var _ interfaces.SlackClient = (*Service)(nil)

// New creates a new Slack service
func New(token string) *Service {
	return &Service{
		client: slack.New(token),
	}
}

// AuthTest returns the bot's own identity
func (s *Service) AuthTest(ctx context.Context) (*slack.AuthTestResponse, error) {
	resp, err := s.client.AuthTestContext(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to authenticate with Slack")
	}
	return resp, nil
}

// PostMessage sends a message to a Slack channel
func (s *Service) PostMessage(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error) {
	channel, timestamp, err := s.client.PostMessageContext(ctx, channelID, options...)
	if err != nil {
		return "", "", goerr.Wrap(err, "failed to post message to Slack",
			goerr.V("channelID", channelID))
	}
	return channel, timestamp, nil
}

// AddReaction adds an emoji reaction to a message
func (s *Service) AddReaction(ctx context.Context, name string, item slack.ItemRef) error {
	if err := s.client.AddReactionContext(ctx, name, item); err != nil {
		return goerr.Wrap(err, "failed to add reaction",
			goerr.V("reaction", name),
			goerr.V("channel", item.Channel),
			goerr.V("timestamp", item.Timestamp))
	}
	return nil
}

// GetThreadReplies fetches replies of a thread
func (s *Service) GetThreadReplies(ctx context.Context, params *slack.GetConversationRepliesParameters) ([]slack.Message, error) {
	messages, _, _, err := s.client.GetConversationRepliesContext(ctx, params)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get thread replies",
			goerr.V("channelID", params.ChannelID),
			goerr.V("threadTS", params.Timestamp))
	}
	return messages, nil
}

// GetUserEmail resolves a Slack user ID to the profile email
func (s *Service) GetUserEmail(ctx context.Context, userID string) (string, error) {
	user, err := s.client.GetUserInfoContext(ctx, userID)
	if err != nil {
		return "", goerr.Wrap(err, "failed to get user info",
			goerr.V("userID", userID))
	}
	if user.Profile.Email == "" {
		return "", goerr.Wrap(model.ErrUserEmailNotFound, "profile has no email",
			goerr.V("userID", userID))
	}
	return user.Profile.Email, nil
}
