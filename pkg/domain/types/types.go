package types

import (
	"github.com/google/uuid"
)

// SlackUserID represents a Slack user identifier
type SlackUserID string

// String returns the string representation
func (id SlackUserID) String() string {
	return string(id)
}

// ChannelID represents a Slack channel identifier
type ChannelID string

// String returns the string representation
func (id ChannelID) String() string {
	return string(id)
}

// MessageTS represents a Slack message timestamp
type MessageTS string

// String returns the string representation
func (ts MessageTS) String() string {
	return string(ts)
}

// ThreadTS represents a Slack thread timestamp
type ThreadTS string

// String returns the string representation
func (ts ThreadTS) String() string {
	return string(ts)
}

// EventID represents a Slack Events API delivery identifier
type EventID string

// String returns the string representation
func (id EventID) String() string {
	return string(id)
}

// TicketKey represents an issue tracker ticket key (e.g. "BUG-123")
type TicketKey string

// String returns the string representation
func (k TicketKey) String() string {
	return string(k)
}

// ReportID represents a detected report identifier
type ReportID string

// String returns the string representation
func (id ReportID) String() string {
	return string(id)
}

// NewReportID creates a new ReportID
func NewReportID() ReportID {
	return ReportID(uuid.New().String())
}
