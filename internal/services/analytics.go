package services

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// maxRecentEvents caps the in-memory event log.
const maxRecentEvents = 100

// ClickEvent records one counted interaction on the public site.
type ClickEvent struct {
	ID     string    `json:"id"`
	Target string    `json:"target"`
	At     time.Time `json:"at"`
}

// Analytics keeps simple named click counters in memory. Counters reset on
// restart; this is deliberately not durable storage.
type Analytics struct {
	mu     sync.RWMutex
	counts map[string]int64
	recent []ClickEvent
}

func NewAnalytics() *Analytics {
	return &Analytics{counts: make(map[string]int64)}
}

// RecordClick increments the counter for target and logs the event.
func (a *Analytics) RecordClick(target string) ClickEvent {
	event := ClickEvent{
		ID:     uuid.New().String(),
		Target: target,
		At:     time.Now().UTC(),
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.counts[target]++
	a.recent = append(a.recent, event)
	if len(a.recent) > maxRecentEvents {
		a.recent = a.recent[len(a.recent)-maxRecentEvents:]
	}
	return event
}

// Snapshot returns a copy of all counters.
func (a *Analytics) Snapshot() map[string]int64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make(map[string]int64, len(a.counts))
	for k, v := range a.counts {
		out[k] = v
	}
	return out
}

// Recent returns the latest recorded events, newest last.
func (a *Analytics) Recent() []ClickEvent {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]ClickEvent, len(a.recent))
	copy(out, a.recent)
	return out
}
