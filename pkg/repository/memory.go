package repository

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/weevil-bot/weevil/pkg/domain/interfaces"
	"github.com/weevil-bot/weevil/pkg/domain/model"
	"github.com/weevil-bot/weevil/pkg/domain/types"
)

// linkRequestEntry pairs a pending link request with its resolution signal.
// The channel is closed exactly once, by whichever path removes the entry.
type linkRequestEntry struct {
	request *model.PendingLinkRequest
	done    chan struct{}
}

// Memory implements PendingStore with in-memory maps. A single mutex guards
// both registries; every removal goes through the same locked section, which
// is what makes take/resolve/sweep races single-winner.
type Memory struct {
	mu            sync.Mutex
	confirmations map[types.MessageTS]*model.PendingConfirmation
	linkRequests  map[types.ThreadTS]*linkRequestEntry
}

// NewMemory creates a new in-memory pending store
func NewMemory() interfaces.PendingStore {
	return &Memory{
		confirmations: make(map[types.MessageTS]*model.PendingConfirmation),
		linkRequests:  make(map[types.ThreadTS]*linkRequestEntry),
	}
}

// PutConfirmation registers a confirmation entry under its prompt timestamp
func (m *Memory) PutConfirmation(ctx context.Context, confirmation *model.PendingConfirmation) error {
	if confirmation == nil {
		return goerr.New("confirmation is nil")
	}
	if confirmation.PromptTS == "" {
		return goerr.New("prompt timestamp is empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	entry := *confirmation
	m.confirmations[confirmation.PromptTS] = &entry
	return nil
}

// TakeConfirmation removes and returns the entry for promptTS when it exists
// and belongs to userID. Check and removal happen under one lock acquisition
// so two concurrent takers can never both succeed.
func (m *Memory) TakeConfirmation(ctx context.Context, promptTS types.MessageTS, userID types.SlackUserID) (*model.PendingConfirmation, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.confirmations[promptTS]
	if !ok || entry.UserID != userID {
		return nil, false
	}

	delete(m.confirmations, promptTS)
	return entry, true
}

// PutLinkRequest registers a link request and returns its resolution signal
func (m *Memory) PutLinkRequest(ctx context.Context, request *model.PendingLinkRequest) (<-chan struct{}, error) {
	if request == nil {
		return nil, goerr.New("link request is nil")
	}
	if request.ThreadTS == "" {
		return nil, goerr.New("thread timestamp is empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.linkRequests[request.ThreadTS]; exists {
		return nil, goerr.New("link request already pending",
			goerr.V("threadTS", request.ThreadTS))
	}

	req := *request
	entry := &linkRequestEntry{
		request: &req,
		done:    make(chan struct{}),
	}
	m.linkRequests[request.ThreadTS] = entry
	return entry.done, nil
}

// GetLinkRequest returns a copy of the entry for threadTS without removing it
func (m *Memory) GetLinkRequest(ctx context.Context, threadTS types.ThreadTS) (*model.PendingLinkRequest, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.linkRequests[threadTS]
	if !ok {
		return nil, false
	}

	req := *entry.request
	return &req, true
}

// ResolveLinkRequest removes and returns the entry for threadTS. The reply
// path, the timeout path and the sweep all funnel through here; the first
// caller wins, later callers observe the key already gone.
func (m *Memory) ResolveLinkRequest(ctx context.Context, threadTS types.ThreadTS) (*model.PendingLinkRequest, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.linkRequests[threadTS]
	if !ok {
		return nil, false
	}

	delete(m.linkRequests, threadTS)
	close(entry.done)
	entry.request.Active = false
	return entry.request, true
}

// SweepExpired evicts entries older than maxAge from both registries
func (m *Memory) SweepExpired(ctx context.Context, maxAge time.Duration) (int, int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()

	var confirmations int
	for ts, entry := range m.confirmations {
		if entry.Age(now) > maxAge {
			delete(m.confirmations, ts)
			confirmations++
		}
	}

	var linkRequests int
	for ts, entry := range m.linkRequests {
		if entry.request.Age(now) > maxAge {
			delete(m.linkRequests, ts)
			close(entry.done)
			linkRequests++
		}
	}

	return confirmations, linkRequests
}

// Close releases the store
func (m *Memory) Close() error {
	return nil
}
