package model

import (
	"time"

	"github.com/weevil-bot/weevil/pkg/domain/types"
)

// PendingConfirmation is an in-flight confirmation request, keyed in the
// store by the timestamp of the bot's own confirmation prompt message.
type PendingConfirmation struct {
	PromptTS  types.MessageTS
	UserID    types.SlackUserID
	ChannelID types.ChannelID
	MessageTS types.MessageTS
	Report    *ParsedReport
	CreatedAt time.Time
}

// NewPendingConfirmation creates a new pending confirmation entry
func NewPendingConfirmation(promptTS types.MessageTS, userID types.SlackUserID, channelID types.ChannelID, messageTS types.MessageTS, report *ParsedReport) *PendingConfirmation {
	return &PendingConfirmation{
		PromptTS:  promptTS,
		UserID:    userID,
		ChannelID: channelID,
		MessageTS: messageTS,
		Report:    report,
		CreatedAt: time.Now(),
	}
}

// Age returns how long the entry has been pending
func (c *PendingConfirmation) Age(now time.Time) time.Duration {
	return now.Sub(c.CreatedAt)
}

// PendingLinkRequest is an in-flight request for a direct reference link,
// keyed in the store by the originating thread timestamp.
type PendingLinkRequest struct {
	ThreadTS     types.ThreadTS
	UserID       types.SlackUserID
	ChannelID    types.ChannelID
	Report       *ParsedReport
	IndirectLink string
	DirectLink   string
	Active       bool
	CreatedAt    time.Time
}

// NewPendingLinkRequest creates a new pending link request entry
func NewPendingLinkRequest(threadTS types.ThreadTS, userID types.SlackUserID, channelID types.ChannelID, report *ParsedReport, indirectLink string) *PendingLinkRequest {
	return &PendingLinkRequest{
		ThreadTS:     threadTS,
		UserID:       userID,
		ChannelID:    channelID,
		Report:       report,
		IndirectLink: indirectLink,
		Active:       true,
		CreatedAt:    time.Now(),
	}
}

// Age returns how long the entry has been pending
func (r *PendingLinkRequest) Age(now time.Time) time.Duration {
	return now.Sub(r.CreatedAt)
}
