package model

import (
	"time"

	"github.com/weevil-bot/weevil/pkg/domain/types"
)

// TicketRequest carries everything the tracker needs to create a ticket
type TicketRequest struct {
	Kind          types.TicketKind
	Title         string
	Description   string
	Environment   types.Environment
	Product       types.Product
	ReferenceLink string
}

// CreatedTicket is the tracker's answer to a creation request
type CreatedTicket struct {
	Key types.TicketKey
	URL string
}

// AssignedTicket is a single entry of a user's open work query
type AssignedTicket struct {
	Key      types.TicketKey
	Title    string
	URL      string
	State    string
	Priority string
}

// StateDuration describes how long a ticket stayed in one workflow state
type StateDuration struct {
	State   string
	Elapsed time.Duration
	Current bool
}

// StorySizePriority holds the sizing metadata of a ticket
type StorySizePriority struct {
	Size     string
	Priority string
}
