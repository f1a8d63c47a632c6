package slack

import (
	"sync"
	"time"
)

// dedupTTL is how long a delivery ID is remembered. Slack retries for at
// most a few minutes, so an hour is comfortably past the retry horizon.
const dedupTTL = time.Hour

// Deduper suppresses redelivered Events API payloads by their delivery ID.
// Slack retries a delivery when the previous attempt was not acknowledged in
// time; the retried payload carries the same event_id.
type Deduper struct {
	mu   sync.Mutex
	seen map[string]time.Time
	ttl  time.Duration
}

// NewDeduper creates a new delivery deduplicator
func NewDeduper() *Deduper {
	return &Deduper{
		seen: make(map[string]time.Time),
		ttl:  dedupTTL,
	}
}

// Check records the delivery ID and reports whether it was seen before.
// An empty ID is never deduplicated.
func (d *Deduper) Check(eventID string) bool {
	if eventID == "" {
		return false
	}

	now := time.Now()

	d.mu.Lock()
	defer d.mu.Unlock()

	for id, at := range d.seen {
		if now.Sub(at) > d.ttl {
			delete(d.seen, id)
		}
	}

	if _, ok := d.seen[eventID]; ok {
		return true
	}
	d.seen[eventID] = now
	return false
}
