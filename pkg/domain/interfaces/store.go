package interfaces

//go:generate moq -out mocks/store_mock.go -pkg mocks . PendingStore

import (
	"context"
	"time"

	"github.com/weevil-bot/weevil/pkg/domain/model"
	"github.com/weevil-bot/weevil/pkg/domain/types"
)

// PendingStore is the registry of in-flight confirmation requests and link
// requests. All take/resolve operations are atomic check-and-remove: out of
// any number of concurrent callers for the same key, exactly one gets the
// entry back and every other caller observes a miss.
type PendingStore interface {
	// PutConfirmation registers a confirmation entry under its prompt timestamp
	PutConfirmation(ctx context.Context, confirmation *model.PendingConfirmation) error

	// TakeConfirmation removes and returns the entry for promptTS if it exists
	// and was registered for userID. A miss or user mismatch leaves the store
	// untouched and returns false.
	TakeConfirmation(ctx context.Context, promptTS types.MessageTS, userID types.SlackUserID) (*model.PendingConfirmation, bool)

	// PutLinkRequest registers a link request under its thread timestamp and
	// returns a channel that is closed when the request is resolved or evicted.
	PutLinkRequest(ctx context.Context, request *model.PendingLinkRequest) (<-chan struct{}, error)

	// GetLinkRequest returns a copy of the entry for threadTS without
	// removing it
	GetLinkRequest(ctx context.Context, threadTS types.ThreadTS) (*model.PendingLinkRequest, bool)

	// ResolveLinkRequest removes and returns the entry for threadTS. Exactly
	// one concurrent caller wins; the rest observe false.
	ResolveLinkRequest(ctx context.Context, threadTS types.ThreadTS) (*model.PendingLinkRequest, bool)

	// SweepExpired evicts entries older than maxAge from both registries and
	// returns the eviction counts (confirmations, link requests).
	SweepExpired(ctx context.Context, maxAge time.Duration) (int, int)

	// Close releases the store
	Close() error
}
