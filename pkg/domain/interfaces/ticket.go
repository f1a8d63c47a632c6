package interfaces

//go:generate moq -out mocks/ticket_mock.go -pkg mocks . TicketClient

import (
	"context"

	"github.com/weevil-bot/weevil/pkg/domain/model"
	"github.com/weevil-bot/weevil/pkg/domain/types"
)

// TicketClient is the issue tracker collaborator
type TicketClient interface {
	// CreateTicket creates a ticket and returns its key and browse URL
	CreateTicket(ctx context.Context, req *model.TicketRequest) (*model.CreatedTicket, error)

	// AssignedTickets lists the open tickets assigned to a user
	AssignedTickets(ctx context.Context, email string) ([]*model.AssignedTicket, error)

	// TicketHistory returns how long a ticket stayed in each workflow state
	TicketHistory(ctx context.Context, key types.TicketKey) ([]*model.StateDuration, error)

	// StorySizePriority returns the sizing metadata of a ticket
	StorySizePriority(ctx context.Context, key types.TicketKey) (*model.StorySizePriority, error)
}
